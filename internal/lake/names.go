package lake

import (
	"fmt"
	"path/filepath"
	"strings"
	"unicode"
)

// tableName derives a SQL identifier from a file name: "Sales 2023.csv" -> "sales_2023"
func tableName(file string) string {
	base := strings.TrimSuffix(file, filepath.Ext(file))
	base = strings.ToLower(base)

	var b strings.Builder
	underscore := false
	for _, r := range base {
		if r < unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r)) {
			b.WriteRune(r)
			underscore = false
			continue
		}
		if !underscore {
			b.WriteByte('_')
			underscore = true
		}
	}

	name := strings.Trim(b.String(), "_")
	if name == "" || unicode.IsDigit(rune(name[0])) {
		name = "t_" + name
	}
	return strings.TrimSuffix(name, "_")
}

// uniqueTableNames names each file's table, suffixing collisions with _2, _3, ...
func uniqueTableNames(files []string) []string {
	names := make([]string, len(files))
	used := make(map[string]bool, len(files))
	for i, f := range files {
		base := tableName(f)
		name := base
		for n := 2; used[name]; n++ {
			name = fmt.Sprintf("%s_%d", base, n)
		}
		used[name] = true
		names[i] = name
	}
	return names
}

func quoteIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}

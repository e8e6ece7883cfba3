package loader

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/xaenox/datalake-chat/internal/models"
	"go.uber.org/zap"
)

var ErrInvalidFolder = errors.New("invalid folder path")

// ParseFunc parses one file into a dataset
type ParseFunc func(path string) (*models.Dataset, error)

type Options struct {
	CacheEnabled bool
}

// Result holds the datasets of one folder pass, grouped by category, and a notice per file
type Result struct {
	CSV     []*models.Dataset
	Excel   []*models.Dataset
	Notices []models.Notice
}

// Datasets returns the loaded datasets of a category
func (r *Result) Datasets(c models.Category) []*models.Dataset {
	switch c {
	case models.CategoryCSV:
		return r.CSV
	case models.CategoryExcel:
		return r.Excel
	}
	return nil
}

type Loader struct {
	parsers map[models.Category]ParseFunc
	cache   *Cache
	logger  *zap.Logger
}

func New(opts Options, logger *zap.Logger) *Loader {
	l := &Loader{
		parsers: map[models.Category]ParseFunc{
			models.CategoryCSV:   ParseCSV,
			models.CategoryExcel: ParseXLSX,
		},
		logger: logger,
	}
	if opts.CacheEnabled {
		l.cache = NewCache()
	}
	return l
}

// Classify maps a file name to its category by extension
func Classify(name string) (models.Category, bool) {
	switch {
	case strings.HasSuffix(name, ".csv"):
		return models.CategoryCSV, true
	case strings.HasSuffix(name, ".xlsx"):
		return models.CategoryExcel, true
	}
	return "", false
}

// Load reads every CSV and XLSX file directly inside folder. Only an invalid folder fails
// the call; a file that cannot be read or parsed is reported in the notices and skipped.
func (l *Loader) Load(ctx context.Context, folder string) (*Result, error) {
	info, err := os.Stat(folder)
	if err != nil || !info.IsDir() {
		return nil, fmt.Errorf("%w: %s", ErrInvalidFolder, folder)
	}

	entries, err := os.ReadDir(folder)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalidFolder, folder)
	}

	result := &Result{}
	for _, entry := range entries {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		name := entry.Name()
		category, ok := Classify(name)
		if !ok {
			continue
		}

		path := filepath.Join(folder, name)
		ds, err := l.read(path, category)
		if err != nil {
			l.logger.Warn("Failed to read file",
				zap.Error(err),
				zap.String("file", name),
				zap.String("category", string(category)))
			result.Notices = append(result.Notices, models.Notice{
				File:    name,
				Message: fmt.Sprintf("Error reading file: %s - %v", name, err),
			})
			continue
		}

		switch category {
		case models.CategoryCSV:
			result.CSV = append(result.CSV, ds)
		case models.CategoryExcel:
			result.Excel = append(result.Excel, ds)
		}

		l.logger.Info("Loaded file",
			zap.String("file", name),
			zap.String("category", string(category)),
			zap.Int("rows", len(ds.Rows)),
			zap.Int("columns", len(ds.Columns)))
		result.Notices = append(result.Notices, models.Notice{
			File:    name,
			OK:      true,
			Message: fmt.Sprintf("Successfully read %s file: %s", category.Label(), name),
		})
	}

	return result, nil
}

func (l *Loader) read(path string, category models.Category) (*models.Dataset, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	if info.IsDir() {
		return nil, fmt.Errorf("is a directory: %s", path)
	}

	key := path
	if abs, err := filepath.Abs(path); err == nil {
		key = abs
	}

	if l.cache != nil {
		if ds, ok := l.cache.Get(key, info); ok {
			return ds, nil
		}
	}

	parsed, err := l.parsers[category](path)
	if err != nil {
		return nil, err
	}
	parsed.Name = filepath.Base(path)
	parsed.Path = path
	parsed.Category = category
	parsed.ModTime = info.ModTime()
	parsed.Size = info.Size()

	if l.cache != nil {
		l.cache.Put(key, parsed)
	}
	return parsed, nil
}

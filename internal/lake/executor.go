package lake

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"fmt"
	"math/big"
	"strconv"
	"strings"
	"time"

	"github.com/marcboeker/go-duckdb"
	"github.com/xaenox/datalake-chat/internal/models"
)

type table struct {
	name    string
	dataset *models.Dataset
}

// executor is an in-memory DuckDB holding the tables of one chat
type executor struct {
	db *sql.DB
}

type queryResult struct {
	table  *models.Table
	scalar any
}

func newExecutor(ctx context.Context, tables []table) (*executor, error) {
	connector, err := duckdb.NewConnector("", nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create DuckDB connector: %w", err)
	}

	db := sql.OpenDB(connector)
	db.SetMaxOpenConns(1)
	e := &executor{db: db}

	for _, t := range tables {
		if err := e.load(ctx, t); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to load table %s: %w", t.name, err)
		}
	}

	// Generated queries must only see the loaded tables
	if _, err := db.ExecContext(ctx, "SET enable_external_access = false"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to restrict DuckDB: %w", err)
	}

	return e, nil
}

func (e *executor) load(ctx context.Context, t table) error {
	ds := t.dataset
	cols := make([]string, len(ds.Columns))
	for i, c := range ds.Columns {
		cols[i] = quoteIdent(c.Name) + " " + duckTypes[c.Kind]
	}
	ddl := fmt.Sprintf("CREATE TABLE %s (%s)", quoteIdent(t.name), strings.Join(cols, ", "))
	if _, err := e.db.ExecContext(ctx, ddl); err != nil {
		return err
	}

	conn, err := e.db.Conn(ctx)
	if err != nil {
		return err
	}
	defer conn.Close()

	return conn.Raw(func(driverConn any) error {
		dc, ok := driverConn.(driver.Conn)
		if !ok {
			return fmt.Errorf("unexpected driver connection %T", driverConn)
		}
		appender, err := duckdb.NewAppenderFromConn(dc, "", t.name)
		if err != nil {
			return err
		}

		values := make([]driver.Value, len(ds.Columns))
		for _, row := range ds.Rows {
			for i, c := range ds.Columns {
				values[i] = cellValue(row[i], c.Kind)
			}
			if err := appender.AppendRow(values...); err != nil {
				appender.Close()
				return err
			}
		}
		return appender.Close()
	})
}

func cellValue(cell string, kind models.ColumnKind) driver.Value {
	cell = strings.TrimSpace(cell)
	if cell == "" {
		return nil
	}
	switch kind {
	case models.KindInteger:
		if v, err := strconv.ParseInt(cell, 10, 64); err == nil {
			return v
		}
		return nil
	case models.KindFloat:
		if v, err := strconv.ParseFloat(cell, 64); err == nil {
			return v
		}
		return nil
	}
	return cell
}

// query runs one statement and returns at most maxRows rows in display form
func (e *executor) query(ctx context.Context, query string, maxRows int) (*queryResult, error) {
	rows, err := e.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return nil, err
	}

	result := &queryResult{table: &models.Table{Columns: columns, Rows: [][]string{}}}
	values := make([]any, len(columns))
	ptrs := make([]any, len(columns))
	for i := range values {
		ptrs[i] = &values[i]
	}

	count := 0
	for rows.Next() {
		count++
		if count > maxRows {
			result.table.Truncated = true
			break
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, err
		}
		if count == 1 && len(columns) == 1 {
			result.scalar = values[0]
		}
		row := make([]string, len(values))
		for i, v := range values {
			row[i], _ = formatValue(v)
		}
		result.table.Rows = append(result.table.Rows, row)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if count != 1 || len(columns) != 1 {
		result.scalar = nil
	}
	return result, nil
}

func (e *executor) Close() error {
	return e.db.Close()
}

// formatValue renders a scanned DuckDB value and reports whether it is numeric
func formatValue(v any) (string, bool) {
	switch v := v.(type) {
	case nil:
		return "", false
	case string:
		return v, false
	case []byte:
		return string(v), false
	case bool:
		return strconv.FormatBool(v), false
	case int8, int16, int32, int64, int, uint8, uint16, uint32, uint64, uint:
		return fmt.Sprint(v), true
	case float32:
		return strconv.FormatFloat(float64(v), 'f', -1, 32), true
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64), true
	case *big.Int:
		return v.String(), true
	case duckdb.Decimal:
		return strconv.FormatFloat(v.Float64(), 'f', -1, 64), true
	case time.Time:
		if v.Hour() == 0 && v.Minute() == 0 && v.Second() == 0 && v.Nanosecond() == 0 {
			return v.Format("2006-01-02"), false
		}
		return v.Format("2006-01-02 15:04:05"), false
	}
	return fmt.Sprint(v), false
}

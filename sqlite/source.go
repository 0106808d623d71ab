// Package sqlite materialises SQLite tables into rows for the table engine.
// It is a data source only: rows are read once into memory and handed to
// TableState.SetRows, nothing is written back.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/asaidimu/go-datatable/core"
	"github.com/asaidimu/go-datatable/utils"
	"go.uber.org/zap"
)

// SourceOptions configures how tables are read.
type SourceOptions struct {
	TablePrefix string   // Prepended to every table name.
	Columns     []string // Columns to select. Empty selects all.
	OrderBy     string   // Column to order by, ascending. Empty keeps storage order.
}

// DefaultSourceOptions returns options that select every column in storage
// order.
func DefaultSourceOptions() *SourceOptions {
	return &SourceOptions{}
}

// Source reads rows from a SQLite database.
type Source struct {
	db      *sql.DB
	logger  *zap.Logger
	options *SourceOptions
}

// NewSource creates a Source over db.
func NewSource(db *sql.DB, logger *zap.Logger, options *SourceOptions) *Source {
	if logger == nil {
		logger = zap.NewNop()
	}
	if options == nil {
		options = DefaultSourceOptions()
	}
	return &Source{db: db, logger: logger, options: options}
}

// quoteIdentifier quotes a table or column name.
func (s *Source) quoteIdentifier(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}

func (s *Source) tableName(baseName string) string {
	return s.quoteIdentifier(s.options.TablePrefix + baseName)
}

// SelectSQL returns the statement Load runs for table.
func (s *Source) SelectSQL(table string) string {
	columns := "*"
	if len(s.options.Columns) > 0 {
		quoted := make([]string, len(s.options.Columns))
		for i, c := range s.options.Columns {
			quoted[i] = s.quoteIdentifier(c)
		}
		columns = strings.Join(quoted, ", ")
	}

	var sb strings.Builder
	sb.WriteString("SELECT ")
	sb.WriteString(columns)
	sb.WriteString(" FROM ")
	sb.WriteString(s.tableName(table))
	if s.options.OrderBy != "" {
		sb.WriteString(" ORDER BY ")
		sb.WriteString(s.quoteIdentifier(s.options.OrderBy))
		sb.WriteString(" ASC")
	}
	return sb.String()
}

// Load reads every row of table.
func (s *Source) Load(ctx context.Context, table string) ([]core.Document, error) {
	query := s.SelectSQL(table)
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query table '%s': %w", table, err)
	}
	defer rows.Close()

	docs, err := readRows(rows)
	if err != nil {
		return nil, fmt.Errorf("failed to read table '%s': %w", table, err)
	}
	s.logger.Debug("Loaded rows", zap.String("table", table), zap.Int("count", len(docs)))
	return docs, nil
}

// LoadInto reads every row of table and decodes each into T using its json
// tags.
func LoadInto[T any](ctx context.Context, s *Source, table string) ([]T, error) {
	docs, err := s.Load(ctx, table)
	if err != nil {
		return nil, err
	}
	out := make([]T, 0, len(docs))
	for i, doc := range docs {
		v, err := utils.MapToStruct[T](doc)
		if err != nil {
			return nil, fmt.Errorf("failed to decode row %d of table '%s': %w", i, table, err)
		}
		out = append(out, v)
	}
	return out, nil
}

// readRows scans rows into documents. Text is returned as string, and text
// holding a JSON object or array is decoded.
func readRows(rows *sql.Rows) ([]core.Document, error) {
	columns, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("failed to get columns: %w", err)
	}

	results := []core.Document{}
	for rows.Next() {
		values := make([]any, len(columns))
		scanArgs := make([]any, len(columns))
		for i := range values {
			scanArgs[i] = &values[i]
		}
		if err := rows.Scan(scanArgs...); err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}

		row := make(core.Document, len(columns))
		for i, col := range columns {
			row[col] = columnValue(values[i])
		}
		results = append(results, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate rows: %w", err)
	}
	return results, nil
}

func columnValue(val any) any {
	var text string
	switch v := val.(type) {
	case []byte:
		text = string(v)
	case string:
		text = v
	default:
		return val
	}

	trimmed := strings.TrimSpace(text)
	if strings.HasPrefix(trimmed, "{") || strings.HasPrefix(trimmed, "[") {
		var decoded any
		if err := json.Unmarshal([]byte(trimmed), &decoded); err == nil {
			return decoded
		}
	}
	return text
}

package postgres

import (
	"context"
	"fmt"
	"net/url"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/tablemind-ai/tablemind-engine/pkg/adapters/datasource"
)

// Source provides PostgreSQL schema extraction over a pgx pool.
type Source struct {
	pool *pgxpool.Pool
}

// buildConnectionString builds a PostgreSQL URL with proper escaping.
// All user-provided fields must be URL-escaped to handle special characters
// in passwords (e.g., @, /, #, ?) that would otherwise break URL parsing.
func buildConnectionString(cfg *datasource.Config) string {
	return fmt.Sprintf(
		"postgresql://%s:%s@%s:%d/%s?sslmode=prefer",
		url.QueryEscape(cfg.User),
		url.QueryEscape(cfg.Password),
		cfg.Host,
		cfg.Port,
		url.QueryEscape(cfg.Database),
	)
}

// New opens a PostgreSQL schema source and verifies connectivity.
func New(ctx context.Context, cfg *datasource.Config) (*Source, error) {
	poolCfg, err := pgxpool.ParseConfig(buildConnectionString(cfg))
	if err != nil {
		return nil, fmt.Errorf("parse postgres config: %w", err)
	}
	poolCfg.MaxConns = 2

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("connect to postgres: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}

	return &Source{pool: pool}, nil
}

// ListTables returns all base tables in the connection's current schema,
// mirroring what SHOW TABLES / user_tables give the other dialects.
func (s *Source) ListTables(ctx context.Context) ([]datasource.Table, error) {
	const query = `
		SELECT table_name
		FROM information_schema.tables
		WHERE table_type = 'BASE TABLE'
		  AND table_schema = current_schema()
		ORDER BY table_name
	`

	rows, err := s.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query tables: %w", err)
	}
	defer rows.Close()

	var tables []datasource.Table
	for rows.Next() {
		var t datasource.Table
		if err := rows.Scan(&t.Name); err != nil {
			return nil, fmt.Errorf("scan table: %w", err)
		}
		tables = append(tables, t)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate tables: %w", err)
	}

	return tables, nil
}

// DescribeTable returns columns for a specific table.
func (s *Source) DescribeTable(ctx context.Context, table string) ([]datasource.Column, error) {
	const query = `
		SELECT column_name, data_type, is_nullable = 'YES'
		FROM information_schema.columns
		WHERE table_schema = current_schema() AND table_name = $1
		ORDER BY ordinal_position
	`

	rows, err := s.pool.Query(ctx, query, table)
	if err != nil {
		return nil, fmt.Errorf("query columns: %w", err)
	}
	defer rows.Close()

	var columns []datasource.Column
	for rows.Next() {
		var c datasource.Column
		if err := rows.Scan(&c.Name, &c.DataType, &c.IsNullable); err != nil {
			return nil, fmt.Errorf("scan column: %w", err)
		}
		columns = append(columns, c)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate columns: %w", err)
	}

	return columns, nil
}

// SampleRows returns up to limit rows from the table.
func (s *Source) SampleRows(ctx context.Context, table string, limit int) (*datasource.RowSet, error) {
	if limit <= 0 {
		limit = datasource.DefaultSampleLimit
	}

	query := fmt.Sprintf("SELECT * FROM %s LIMIT $1", s.QuoteIdentifier(table))

	rows, err := s.pool.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("sample rows: %w", err)
	}
	defer rows.Close()

	fields := rows.FieldDescriptions()
	cols := make([]string, len(fields))
	for i, fd := range fields {
		cols[i] = fd.Name
	}

	result := &datasource.RowSet{Columns: cols, Rows: []map[string]any{}}

	for rows.Next() {
		values, err := rows.Values()
		if err != nil {
			return nil, fmt.Errorf("scan sample row: %w", err)
		}

		record := make(map[string]any, len(cols))
		for i, col := range cols {
			record[col] = values[i]
		}
		result.Rows = append(result.Rows, record)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate sample rows: %w", err)
	}

	return result, nil
}

// QuoteIdentifier quotes a PostgreSQL identifier.
func (s *Source) QuoteIdentifier(name string) string {
	return pgx.Identifier{name}.Sanitize()
}

// Close releases the pool. Safe to call more than once.
func (s *Source) Close() error {
	s.pool.Close()
	return nil
}

// Ensure Source implements datasource.SchemaSource at compile time.
var _ datasource.SchemaSource = (*Source)(nil)

package oracle

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	go_ora "github.com/sijms/go-ora/v2"

	"github.com/tablemind-ai/tablemind-engine/pkg/adapters/datasource"
)

// Source provides Oracle schema extraction over database/sql.
// Oracle folds unquoted identifiers to uppercase; names from the dictionary
// views are lowercased for display and uppercased when queried, matching
// the convention for schemas created without quoted identifiers.
type Source struct {
	db *sql.DB
}

// New opens an Oracle schema source and verifies connectivity.
// The database field is used as the service name.
func New(ctx context.Context, cfg *datasource.Config) (*Source, error) {
	dsn := go_ora.BuildUrl(cfg.Host, cfg.Port, cfg.Database, cfg.User, cfg.Password, nil)

	db, err := sql.Open("oracle", dsn)
	if err != nil {
		return nil, fmt.Errorf("open oracle connection: %w", err)
	}

	db.SetMaxOpenConns(2)
	db.SetConnMaxLifetime(5 * time.Minute)

	pingCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping oracle: %w", err)
	}

	return &Source{db: db}, nil
}

// NewFromDB wraps an existing database handle (tests).
func NewFromDB(db *sql.DB) *Source {
	return &Source{db: db}
}

// ListTables returns all tables owned by the connected user.
func (s *Source) ListTables(ctx context.Context) ([]datasource.Table, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT table_name FROM user_tables")
	if err != nil {
		return nil, fmt.Errorf("query tables: %w", err)
	}
	defer rows.Close()

	var tables []datasource.Table
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("scan table name: %w", err)
		}
		tables = append(tables, datasource.Table{Name: strings.ToLower(name)})
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate tables: %w", err)
	}

	return tables, nil
}

// DescribeTable returns the columns of one table from user_tab_columns.
func (s *Source) DescribeTable(ctx context.Context, table string) ([]datasource.Column, error) {
	const query = `
		SELECT column_name, data_type, nullable
		FROM user_tab_columns
		WHERE table_name = UPPER(:1)
		ORDER BY column_id
	`

	rows, err := s.db.QueryContext(ctx, query, table)
	if err != nil {
		return nil, fmt.Errorf("describe table: %w", err)
	}
	defer rows.Close()

	var columns []datasource.Column
	for rows.Next() {
		var name, dataType, nullable string
		if err := rows.Scan(&name, &dataType, &nullable); err != nil {
			return nil, fmt.Errorf("scan column: %w", err)
		}

		columns = append(columns, datasource.Column{
			Name:       strings.ToLower(name),
			DataType:   strings.ToLower(dataType),
			IsNullable: nullable != "N",
		})
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

	query := fmt.Sprintf("SELECT * FROM %s FETCH FIRST %d ROWS ONLY", s.QuoteIdentifier(table), limit)

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("sample rows: %w", err)
	}
	defer rows.Close()

	return datasource.ScanRowSet(rows)
}

// QuoteIdentifier quotes an Oracle identifier, uppercasing it first so
// names taken from the dictionary views resolve against schemas created
// with unquoted identifiers.
func (s *Source) QuoteIdentifier(name string) string {
	return `"` + strings.ReplaceAll(strings.ToUpper(name), `"`, `""`) + `"`
}

// Close releases the database connection. Safe to call more than once.
func (s *Source) Close() error {
	return s.db.Close()
}

// Ensure Source implements datasource.SchemaSource at compile time.
var _ datasource.SchemaSource = (*Source)(nil)

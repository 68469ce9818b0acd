package mysql

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	mysqldrv "github.com/go-sql-driver/mysql"

	"github.com/tablemind-ai/tablemind-engine/pkg/adapters/datasource"
)

// Source provides MySQL schema extraction over database/sql.
type Source struct {
	db *sql.DB
}

// buildDSN builds a MySQL DSN using the driver's own config type so special
// characters in credentials are escaped correctly.
func buildDSN(cfg *datasource.Config) string {
	mc := mysqldrv.NewConfig()
	mc.Net = "tcp"
	mc.Addr = fmt.Sprintf("%s:%d", cfg.Host, cfg.Port)
	mc.User = cfg.User
	mc.Passwd = cfg.Password
	mc.DBName = cfg.Database
	mc.Timeout = 10 * time.Second
	mc.ParseTime = true
	return mc.FormatDSN()
}

// New opens a MySQL schema source and verifies connectivity.
func New(ctx context.Context, cfg *datasource.Config) (*Source, error) {
	db, err := sql.Open("mysql", buildDSN(cfg))
	if err != nil {
		return nil, fmt.Errorf("open mysql connection: %w", err)
	}

	db.SetMaxOpenConns(2)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping mysql: %w", err)
	}

	return &Source{db: db}, nil
}

// NewFromDB wraps an existing database handle (tests).
func NewFromDB(db *sql.DB) *Source {
	return &Source{db: db}
}

// ListTables returns all tables in the connected database.
func (s *Source) ListTables(ctx context.Context) ([]datasource.Table, error) {
	rows, err := s.db.QueryContext(ctx, "SHOW TABLES")
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
		tables = append(tables, datasource.Table{Name: name})
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate tables: %w", err)
	}

	return tables, nil
}

// DescribeTable returns the columns of one table via DESCRIBE.
func (s *Source) DescribeTable(ctx context.Context, table string) ([]datasource.Column, error) {
	query := fmt.Sprintf("DESCRIBE %s", s.QuoteIdentifier(table))

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("describe table: %w", err)
	}
	defer rows.Close()

	var columns []datasource.Column
	for rows.Next() {
		// DESCRIBE returns Field, Type, Null, Key, Default, Extra.
		var field, dataType, null, key, extra string
		var defaultVal sql.NullString
		if err := rows.Scan(&field, &dataType, &null, &key, &defaultVal, &extra); err != nil {
			return nil, fmt.Errorf("scan column: %w", err)
		}

		columns = append(columns, datasource.Column{
			Name:       field,
			DataType:   dataType,
			IsNullable: null != "NO",
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

	query := fmt.Sprintf("SELECT * FROM %s LIMIT ?", s.QuoteIdentifier(table))

	rows, err := s.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("sample rows: %w", err)
	}
	defer rows.Close()

	return datasource.ScanRowSet(rows)
}

// QuoteIdentifier quotes a MySQL identifier with backticks.
func (s *Source) QuoteIdentifier(name string) string {
	return "`" + strings.ReplaceAll(name, "`", "``") + "`"
}

// Close releases the database connection. Safe to call more than once.
func (s *Source) Close() error {
	return s.db.Close()
}

// Ensure Source implements datasource.SchemaSource at compile time.
var _ datasource.SchemaSource = (*Source)(nil)

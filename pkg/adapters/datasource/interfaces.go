package datasource

import "context"

// DefaultSampleLimit is the default number of sample rows per table.
const DefaultSampleLimit = 5

// Table represents a source database table.
type Table struct {
	Name string `json:"name"`
}

// Column represents a source table column.
type Column struct {
	Name       string `json:"name"`
	DataType   string `json:"data_type"` // backend-native type name
	IsNullable bool   `json:"is_nullable"`
}

// RowSet holds sampled rows with a stable column order.
// Rows are keyed by column name; Columns preserves the order the backend
// returned them in so rendered output is deterministic.
type RowSet struct {
	Columns []string
	Rows    []map[string]any
}

// SchemaSource extracts schema information and sample data from one source
// database. Each implementation owns its connection and must be closed when
// done; Close is safe to call more than once.
type SchemaSource interface {
	// ListTables returns all tables visible to the connected user, in the
	// order the backend enumerates them.
	ListTables(ctx context.Context) ([]Table, error)

	// DescribeTable returns the columns of one table with backend-native
	// type names and nullability flags.
	DescribeTable(ctx context.Context, table string) ([]Column, error)

	// SampleRows returns up to limit rows from the table. A table with
	// fewer rows returns all of them; an empty table returns an empty
	// RowSet, not an error.
	SampleRows(ctx context.Context, table string, limit int) (*RowSet, error)

	// QuoteIdentifier safely quotes a table or column name to prevent
	// syntax errors on reserved words and injection through identifiers.
	QuoteIdentifier(name string) string

	// Close releases the database connection.
	Close() error
}

package mysql

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMockSource(t *testing.T) (*Source, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewFromDB(db), mock
}

func TestListTables(t *testing.T) {
	source, mock := newMockSource(t)

	mock.ExpectQuery("SHOW TABLES").WillReturnRows(
		sqlmock.NewRows([]string{"Tables_in_sales"}).
			AddRow("customers").
			AddRow("orders"),
	)

	tables, err := source.ListTables(context.Background())
	require.NoError(t, err)
	require.Len(t, tables, 2)
	assert.Equal(t, "customers", tables[0].Name)
	assert.Equal(t, "orders", tables[1].Name)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListTables_QueryError(t *testing.T) {
	source, mock := newMockSource(t)

	mock.ExpectQuery("SHOW TABLES").WillReturnError(errors.New("access denied"))

	_, err := source.ListTables(context.Background())
	assert.ErrorContains(t, err, "access denied")
}

func TestDescribeTable(t *testing.T) {
	source, mock := newMockSource(t)

	mock.ExpectQuery("DESCRIBE `orders`").WillReturnRows(
		sqlmock.NewRows([]string{"Field", "Type", "Null", "Key", "Default", "Extra"}).
			AddRow("id", "int(11)", "NO", "PRI", nil, "auto_increment").
			AddRow("note", "varchar(255)", "YES", "", nil, ""),
	)

	columns, err := source.DescribeTable(context.Background(), "orders")
	require.NoError(t, err)
	require.Len(t, columns, 2)

	assert.Equal(t, "id", columns[0].Name)
	assert.Equal(t, "int(11)", columns[0].DataType)
	assert.False(t, columns[0].IsNullable)

	assert.Equal(t, "note", columns[1].Name)
	assert.True(t, columns[1].IsNullable)
}

func TestSampleRows(t *testing.T) {
	source, mock := newMockSource(t)

	mock.ExpectQuery("SELECT \\* FROM `orders` LIMIT \\?").
		WithArgs(5).
		WillReturnRows(
			sqlmock.NewRows([]string{"id", "amount"}).
				AddRow(int64(1), 10.5).
				AddRow(int64(2), 20.0),
		)

	rs, err := source.SampleRows(context.Background(), "orders", 5)
	require.NoError(t, err)
	assert.Equal(t, []string{"id", "amount"}, rs.Columns)
	require.Len(t, rs.Rows, 2)
	assert.Equal(t, int64(1), rs.Rows[0]["id"])
}

func TestSampleRows_EmptyTable(t *testing.T) {
	source, mock := newMockSource(t)

	mock.ExpectQuery("SELECT \\* FROM `empty` LIMIT \\?").
		WithArgs(5).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	rs, err := source.SampleRows(context.Background(), "empty", 5)
	require.NoError(t, err)
	assert.Empty(t, rs.Rows)
	assert.Equal(t, []string{"id"}, rs.Columns)
}

func TestSampleRows_DefaultLimit(t *testing.T) {
	source, mock := newMockSource(t)

	mock.ExpectQuery("SELECT \\* FROM `orders` LIMIT \\?").
		WithArgs(5).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err := source.SampleRows(context.Background(), "orders", 0)
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestQuoteIdentifier(t *testing.T) {
	source := &Source{}

	assert.Equal(t, "`orders`", source.QuoteIdentifier("orders"))
	// Reserved words stay usable.
	assert.Equal(t, "`select`", source.QuoteIdentifier("select"))
	// Embedded backticks are escaped, not terminated.
	assert.Equal(t, "`a``b`", source.QuoteIdentifier("a`b"))
}

package oracle

import (
	"context"
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

	mock.ExpectQuery("SELECT table_name FROM user_tables").WillReturnRows(
		sqlmock.NewRows([]string{"TABLE_NAME"}).
			AddRow("EMPLOYEES").
			AddRow("DEPARTMENTS"),
	)

	tables, err := source.ListTables(context.Background())
	require.NoError(t, err)
	require.Len(t, tables, 2)
	// Names are lowercased for display, matching the other dialects.
	assert.Equal(t, "employees", tables[0].Name)
	assert.Equal(t, "departments", tables[1].Name)
}

func TestDescribeTable(t *testing.T) {
	source, mock := newMockSource(t)

	mock.ExpectQuery("SELECT column_name, data_type, nullable FROM user_tab_columns").
		WithArgs("employees").
		WillReturnRows(
			sqlmock.NewRows([]string{"COLUMN_NAME", "DATA_TYPE", "NULLABLE"}).
				AddRow("EMPLOYEE_ID", "NUMBER", "N").
				AddRow("HIRE_DATE", "DATE", "Y"),
		)

	columns, err := source.DescribeTable(context.Background(), "employees")
	require.NoError(t, err)
	require.Len(t, columns, 2)

	assert.Equal(t, "employee_id", columns[0].Name)
	assert.Equal(t, "number", columns[0].DataType)
	assert.False(t, columns[0].IsNullable)

	assert.Equal(t, "hire_date", columns[1].Name)
	assert.True(t, columns[1].IsNullable)
}

func TestSampleRows(t *testing.T) {
	source, mock := newMockSource(t)

	mock.ExpectQuery(`SELECT \* FROM "EMPLOYEES" FETCH FIRST 5 ROWS ONLY`).
		WillReturnRows(
			sqlmock.NewRows([]string{"EMPLOYEE_ID", "NAME"}).
				AddRow(int64(100), "King"),
		)

	rs, err := source.SampleRows(context.Background(), "employees", 5)
	require.NoError(t, err)
	assert.Equal(t, []string{"EMPLOYEE_ID", "NAME"}, rs.Columns)
	require.Len(t, rs.Rows, 1)
	assert.Equal(t, "King", rs.Rows[0]["NAME"])
}

func TestQuoteIdentifier(t *testing.T) {
	source := &Source{}

	assert.Equal(t, `"EMPLOYEES"`, source.QuoteIdentifier("employees"))
	assert.Equal(t, `"A""B"`, source.QuoteIdentifier(`a"b`))
}

package services

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/tablemind-ai/tablemind-engine/pkg/adapters/datasource"
	"github.com/tablemind-ai/tablemind-engine/pkg/apperrors"
)

// fakeSource serves canned schema metadata for tests.
type fakeSource struct {
	tables      []datasource.Table
	columns     map[string][]datasource.Column
	samples     map[string]*datasource.RowSet
	listErr     error
	describeErr map[string]error
	sampleErr   map[string]error
	closed      int
}

func (f *fakeSource) ListTables(ctx context.Context) ([]datasource.Table, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.tables, nil
}

func (f *fakeSource) DescribeTable(ctx context.Context, table string) ([]datasource.Column, error) {
	if err := f.describeErr[table]; err != nil {
		return nil, err
	}
	return f.columns[table], nil
}

func (f *fakeSource) SampleRows(ctx context.Context, table string, limit int) (*datasource.RowSet, error) {
	if err := f.sampleErr[table]; err != nil {
		return nil, err
	}
	if rs := f.samples[table]; rs != nil {
		return rs, nil
	}
	return &datasource.RowSet{}, nil
}

func (f *fakeSource) QuoteIdentifier(name string) string { return name }

func (f *fakeSource) Close() error {
	f.closed++
	return nil
}

func ordersSource() *fakeSource {
	return &fakeSource{
		tables: []datasource.Table{{Name: "orders"}},
		columns: map[string][]datasource.Column{
			"orders": {
				{Name: "id", DataType: "int", IsNullable: false},
				{Name: "note", DataType: "varchar(255)", IsNullable: true},
			},
		},
		samples: map[string]*datasource.RowSet{
			"orders": {
				Columns: []string{"id", "note"},
				Rows: []map[string]any{
					{"id": int64(1), "note": "first"},
					{"id": int64(2), "note": nil},
				},
			},
		},
	}
}

func TestExtractTable(t *testing.T) {
	extractor := NewExtractor(5, zap.NewNop())

	report, err := extractor.ExtractTable(context.Background(), ordersSource(), "orders")
	require.NoError(t, err)

	assert.Equal(t, "orders", report.TableName)
	assert.Equal(t, "Table \"orders\":\n- id: int, not null\n- note: varchar(255)\n", report.SchemaText)

	lines := strings.Split(strings.TrimRight(report.SampleText, "\n"), "\n")
	require.Len(t, lines, 4)
	assert.Equal(t, "| id | note |", lines[0])
	assert.Equal(t, "| --- | --- |", lines[1])
	assert.Equal(t, "| 1 | first |", lines[2])
	assert.Equal(t, "| 2 | NULL |", lines[3])
}

func TestExtractTable_EmptyTable(t *testing.T) {
	source := ordersSource()
	source.samples["orders"] = &datasource.RowSet{Columns: []string{"id", "note"}}

	extractor := NewExtractor(5, zap.NewNop())
	report, err := extractor.ExtractTable(context.Background(), source, "orders")
	require.NoError(t, err)

	assert.Equal(t, "No sample data available.\n", report.SampleText)
}

func TestExtractTable_SanitizesSamples(t *testing.T) {
	source := ordersSource()
	source.columns["users"] = []datasource.Column{
		{Name: "email", DataType: "varchar(100)", IsNullable: true},
		{Name: "password", DataType: "varchar(100)", IsNullable: false},
	}
	source.samples["users"] = &datasource.RowSet{
		Columns: []string{"email", "password"},
		Rows: []map[string]any{
			{"email": "real@person.com", "password": "hunter2"},
		},
	}

	extractor := NewExtractor(5, zap.NewNop())
	report, err := extractor.ExtractTable(context.Background(), source, "users")
	require.NoError(t, err)

	assert.NotContains(t, report.SampleText, "hunter2")
	assert.NotContains(t, report.SampleText, "real@person.com")
	assert.Contains(t, report.SampleText, "[REDACTED]")
	assert.Contains(t, report.SampleText, "user1@domain.com")
}

func TestExtractTable_DescribeFailure(t *testing.T) {
	source := ordersSource()
	source.describeErr = map[string]error{"orders": errors.New("table gone")}

	extractor := NewExtractor(5, zap.NewNop())
	_, err := extractor.ExtractTable(context.Background(), source, "orders")
	require.Error(t, err)
	assert.True(t, apperrors.IsQueryError(err))
}

func TestReportText(t *testing.T) {
	extractor := NewExtractor(5, zap.NewNop())

	report, err := extractor.ExtractTable(context.Background(), ordersSource(), "orders")
	require.NoError(t, err)

	text := report.Text()
	assert.True(t, strings.HasPrefix(text, report.SchemaText+"\nSample Data:\n"))
	assert.True(t, strings.HasSuffix(text, "\n\n"))
}

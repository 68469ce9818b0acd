package services

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/tablemind-ai/tablemind-engine/pkg/adapters/datasource"
	"github.com/tablemind-ai/tablemind-engine/pkg/apperrors"
	"github.com/tablemind-ai/tablemind-engine/pkg/models"
	"github.com/tablemind-ai/tablemind-engine/pkg/normalize"
)

// Extractor renders one table at a time into its text report: a column
// listing followed by a Markdown sample block with sensitive values
// sanitized.
type Extractor struct {
	sampleLimit int
	normOpts    normalize.Options
	logger      *zap.Logger
}

// NewExtractor creates an extractor. A non-positive sampleLimit selects the
// default of five rows.
func NewExtractor(sampleLimit int, logger *zap.Logger) *Extractor {
	if sampleLimit <= 0 {
		sampleLimit = datasource.DefaultSampleLimit
	}
	return &Extractor{
		sampleLimit: sampleLimit,
		normOpts:    normalize.DefaultOptions(),
		logger:      logger,
	}
}

// ExtractTable builds the report for a single table. Failures are wrapped
// as query errors so the caller can isolate them per table.
func (e *Extractor) ExtractTable(ctx context.Context, source datasource.SchemaSource, table string) (*models.TableReport, error) {
	columns, err := source.DescribeTable(ctx, table)
	if err != nil {
		return nil, &apperrors.QueryError{Table: table, Op: "describe", Err: err}
	}

	rowSet, err := source.SampleRows(ctx, table, e.sampleLimit)
	if err != nil {
		return nil, &apperrors.QueryError{Table: table, Op: "sample", Err: err}
	}

	return &models.TableReport{
		TableName:  table,
		SchemaText: renderSchema(table, columns),
		SampleText: e.renderSamples(rowSet),
	}, nil
}

// renderSchema formats the column listing, one line per column.
func renderSchema(table string, columns []datasource.Column) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Table %q:\n", table)
	for _, col := range columns {
		b.WriteString("- " + col.Name + ": " + col.DataType)
		if !col.IsNullable {
			b.WriteString(", not null")
		}
		b.WriteString("\n")
	}
	return b.String()
}

// renderSamples formats sanitized rows as a Markdown table. Column order
// follows the result set.
func (e *Extractor) renderSamples(rowSet *datasource.RowSet) string {
	if rowSet == nil || len(rowSet.Rows) == 0 {
		return "No sample data available.\n"
	}

	headers := rowSet.Columns
	lines := []string{
		"| " + strings.Join(headers, " | ") + " |",
		"| " + strings.Join(repeat("---", len(headers)), " | ") + " |",
	}

	for i, row := range rowSet.Rows {
		normalized := normalize.Row(row, i, e.normOpts)
		cells := make([]string, len(headers))
		for j, h := range headers {
			cells[j] = normalized[h]
		}
		lines = append(lines, "| "+strings.Join(cells, " | ")+" |")
	}

	return strings.Join(lines, "\n") + "\n"
}

func repeat(s string, n int) []string {
	out := make([]string, n)
	for i := range out {
		out[i] = s
	}
	return out
}

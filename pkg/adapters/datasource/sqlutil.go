package datasource

import (
	"database/sql"
	"fmt"
)

// ScanRowSet converts a generic database/sql result into a RowSet,
// preserving column order. Used by the adapters built on database/sql.
func ScanRowSet(rows *sql.Rows) (*RowSet, error) {
	cols, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("result columns: %w", err)
	}

	result := &RowSet{Columns: cols, Rows: []map[string]any{}}

	for rows.Next() {
		values := make([]any, len(cols))
		ptrs := make([]any, len(cols))
		for i := range values {
			ptrs[i] = &values[i]
		}

		if err := rows.Scan(ptrs...); err != nil {
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

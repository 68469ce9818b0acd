// Package apperrors carries the pipeline error taxonomy.
//
// ConnectionError is fatal: the run terminates with a single error event.
// QueryError and EmbeddingError are per-table and recoverable: they are
// recorded against the table and the run continues.
package apperrors

import (
	"errors"
	"fmt"
)

var (
	// ErrUnsupportedDialect is returned before any I/O when the requested
	// dialect has no registered adapter.
	ErrUnsupportedDialect = errors.New("unsupported database dialect")
)

// ConnectionError indicates the source database could not be reached or
// authenticated against. Pipeline-fatal.
type ConnectionError struct {
	Dialect string
	Err     error
}

func (e *ConnectionError) Error() string {
	return fmt.Sprintf("connect to %s database: %v", e.Dialect, e.Err)
}

func (e *ConnectionError) Unwrap() error { return e.Err }

// QueryError indicates a metadata or sample query failed for one table.
// Recoverable: the table is recorded as failed and the run continues.
type QueryError struct {
	Table string
	Op    string // "list_tables", "describe", "sample"
	Err   error
}

func (e *QueryError) Error() string {
	if e.Table == "" {
		return fmt.Sprintf("%s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("%s table %s: %v", e.Op, e.Table, e.Err)
}

func (e *QueryError) Unwrap() error { return e.Err }

// EmbeddingError indicates the memory store rejected a table document.
// Recoverable and retried before being recorded as failed.
type EmbeddingError struct {
	Table string
	Err   error
}

func (e *EmbeddingError) Error() string {
	return fmt.Sprintf("embed table %s: %v", e.Table, e.Err)
}

func (e *EmbeddingError) Unwrap() error { return e.Err }

// IsConnectionError reports whether err is pipeline-fatal.
func IsConnectionError(err error) bool {
	var ce *ConnectionError
	return errors.As(err, &ce) || errors.Is(err, ErrUnsupportedDialect)
}

// IsQueryError reports whether err is a recoverable per-table query failure.
func IsQueryError(err error) bool {
	var qe *QueryError
	return errors.As(err, &qe)
}

// Package memstore stores embedded table documents in a memory backend so
// downstream AI features can retrieve schema context per user.
package memstore

import "context"

// CategoryDatabase marks documents produced by schema extraction runs.
const CategoryDatabase = "database"

// Metadata is attached to every stored document. UserID scopes the document
// to its owner and travels as a dedicated field, not inside the metadata
// object.
type Metadata struct {
	UserID    string `json:"-"`
	Category  string `json:"category"`
	TableName string `json:"tableName"`
}

// Client is a memory store backend. Add persists one document with its
// metadata; implementations embed the text themselves.
type Client interface {
	Add(ctx context.Context, text string, meta Metadata) error
}

// Noop discards all documents. Used when no memory store is configured.
type Noop struct{}

func (Noop) Add(ctx context.Context, text string, meta Metadata) error { return nil }

var _ Client = Noop{}

package memstore

import (
	"context"
	"encoding/json"
	"fmt"

	"go.uber.org/zap"

	"github.com/tablemind-ai/tablemind-engine/pkg/models"
	"github.com/tablemind-ai/tablemind-engine/pkg/repositories"
)

// LocalStore keeps embedded documents in the engine's own PostgreSQL
// database. It embeds each document before insert so rows stay queryable by
// vector similarity offline.
type LocalStore struct {
	db       repositories.Querier
	embedder Embedder
	logger   *zap.Logger
}

// NewLocalStore creates a store writing to the memory_entries table.
func NewLocalStore(db repositories.Querier, embedder Embedder, logger *zap.Logger) *LocalStore {
	return &LocalStore{db: db, embedder: embedder, logger: logger}
}

// Add embeds the text and inserts the document. The embedding vector is
// stored as JSONB alongside the raw content.
func (s *LocalStore) Add(ctx context.Context, text string, meta Metadata) error {
	vector, err := s.embedder.Embed(ctx, text)
	if err != nil {
		return fmt.Errorf("embed document: %w", err)
	}

	encoded, err := json.Marshal(vector)
	if err != nil {
		return fmt.Errorf("encode embedding: %w", err)
	}

	entry := models.MemoryEntry{
		UserID:    meta.UserID,
		Category:  meta.Category,
		TableName: meta.TableName,
		Content:   text,
	}

	query := `
		INSERT INTO memory_entries (user_id, category, table_name, content, embedding)
		VALUES ($1, $2, $3, $4, $5)
	`

	if _, err := s.db.Exec(ctx, query, entry.UserID, entry.Category, entry.TableName, entry.Content, encoded); err != nil {
		return fmt.Errorf("insert memory entry: %w", err)
	}

	s.logger.Debug("Stored memory entry",
		zap.String("table", entry.TableName),
		zap.Int("vector_dims", len(vector)))
	return nil
}

var _ Client = (*LocalStore)(nil)

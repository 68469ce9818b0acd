package services

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/tablemind-ai/tablemind-engine/pkg/apperrors"
	"github.com/tablemind-ai/tablemind-engine/pkg/memstore"
	"github.com/tablemind-ai/tablemind-engine/pkg/models"
	"github.com/tablemind-ai/tablemind-engine/pkg/retry"
)

const (
	// DefaultEmbedAttempts bounds retries against a flaky memory store.
	DefaultEmbedAttempts = 3
	// DefaultEmbedBaseDelay is multiplied by the attempt number between
	// retries, giving linear backoff.
	DefaultEmbedBaseDelay = time.Second
)

// EmbedService stores table documents in the memory store with bounded
// retries. Exhausted retries degrade to a warning, never a fatal error.
type EmbedService struct {
	store       memstore.Client
	maxAttempts int
	baseDelay   time.Duration
	logger      *zap.Logger
}

// NewEmbedService creates an embed service with the default retry policy.
func NewEmbedService(store memstore.Client, logger *zap.Logger) *EmbedService {
	return &EmbedService{
		store:       store,
		maxAttempts: DefaultEmbedAttempts,
		baseDelay:   DefaultEmbedBaseDelay,
		logger:      logger,
	}
}

// NewEmbedServiceWithPolicy overrides the retry policy (tests, config).
func NewEmbedServiceWithPolicy(store memstore.Client, maxAttempts int, baseDelay time.Duration, logger *zap.Logger) *EmbedService {
	s := NewEmbedService(store, logger)
	if maxAttempts > 0 {
		s.maxAttempts = maxAttempts
	}
	if baseDelay > 0 {
		s.baseDelay = baseDelay
	}
	return s
}

// EmbedTable stores one table document, emitting embedding progress on the
// sink. Returns true when the document was stored, false when all attempts
// were exhausted and a warning was emitted instead.
func (s *EmbedService) EmbedTable(ctx context.Context, sink EventSink, userID, table, text string) bool {
	meta := memstore.Metadata{
		UserID:    userID,
		Category:  memstore.CategoryDatabase,
		TableName: table,
	}

	err := retry.DoLinear(ctx, s.maxAttempts, s.baseDelay, func(attempt int) error {
		sink.Emit(ctx, models.NewEmbeddingEvent(
			fmt.Sprintf("Embedding data for table %s...", table), table))

		if err := s.store.Add(ctx, text, meta); err != nil {
			s.logger.Warn("Embedding attempt failed",
				zap.String("table", table),
				zap.Int("attempt", attempt),
				zap.Error(err))
			return &apperrors.EmbeddingError{Table: table, Err: err}
		}

		sink.Emit(ctx, models.NewEmbeddingEvent(
			fmt.Sprintf("Successfully embedded data for table %s", table), table))
		return nil
	})

	if err == nil {
		return true
	}

	s.logger.Warn("Giving up on table embedding",
		zap.String("table", table),
		zap.Int("attempts", s.maxAttempts),
		zap.Error(err))

	sink.Emit(ctx, models.NewWarningEvent(
		fmt.Sprintf("Skipped table %s due to API error after %d attempts: %v",
			table, s.maxAttempts, err), table))
	return false
}

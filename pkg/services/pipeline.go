package services

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/tablemind-ai/tablemind-engine/pkg/adapters/datasource"
	"github.com/tablemind-ai/tablemind-engine/pkg/apperrors"
	"github.com/tablemind-ai/tablemind-engine/pkg/logging"
	"github.com/tablemind-ai/tablemind-engine/pkg/models"
)

// ConnectFunc opens a schema source for a dialect. Only tests override it.
type ConnectFunc func(ctx context.Context, dialect string, cfg *datasource.Config) (datasource.SchemaSource, error)

// Pipeline runs one schema extraction end to end: connect, list tables,
// extract each table, optionally embed, then report the aggregate.
//
// Failure policy: anything before the table loop is fatal and produces a
// single error event. Inside the loop every failure is isolated to its
// table; the run always reaches the completed event.
type Pipeline struct {
	extractor *Extractor
	embedder  *EmbedService
	connect   ConnectFunc
	logger    *zap.Logger
}

// NewPipeline creates a pipeline using the registered dialect adapters.
func NewPipeline(extractor *Extractor, embedder *EmbedService, logger *zap.Logger) *Pipeline {
	return &Pipeline{
		extractor: extractor,
		embedder:  embedder,
		connect:   datasource.Connect,
		logger:    logger,
	}
}

// NewPipelineWithConnect creates a pipeline with a custom connector (tests).
func NewPipelineWithConnect(extractor *Extractor, embedder *EmbedService, connect ConnectFunc, logger *zap.Logger) *Pipeline {
	p := NewPipeline(extractor, embedder, logger)
	p.connect = connect
	return p
}

// Run executes the pipeline and emits progress on the sink. The returned
// result is nil when the run failed before any table work started. Event
// message text never contains the connection password.
func (p *Pipeline) Run(ctx context.Context, params *models.ConnectionParams, sink EventSink) (*models.RunResult, error) {
	dialect := string(params.Dialect)

	sink.Emit(ctx, models.NewStatusEvent(models.StatusConnecting,
		fmt.Sprintf("Connecting to %s database at %s:%d...", dialect, params.Hostname, params.Port)))

	source, err := p.connect(ctx, dialect, &datasource.Config{
		Host:     params.Hostname,
		Port:     params.Port,
		User:     params.Username,
		Password: params.Password,
		Database: params.Database,
	})
	if err != nil {
		p.logger.Error("Connection failed",
			zap.String("dialect", dialect),
			zap.String("host", params.Hostname),
			zap.String("error", logging.SanitizeError(err)))
		sink.Emit(ctx, models.NewErrorEvent(
			fmt.Sprintf("Failed to connect to database: %s", logging.SanitizeError(err))))
		return nil, err
	}
	defer func() {
		if cerr := source.Close(); cerr != nil {
			p.logger.Warn("Error closing database connection", zap.Error(cerr))
		}
	}()

	sink.Emit(ctx, models.NewStatusEvent(models.StatusConnected,
		fmt.Sprintf("Successfully connected to %s database", dialect)))

	sink.Emit(ctx, models.NewStatusEvent(models.StatusListingTables,
		"Retrieving database tables..."))

	tables, err := source.ListTables(ctx)
	if err != nil {
		qerr := &apperrors.QueryError{Op: "list_tables", Err: err}
		p.logger.Error("Listing tables failed", zap.String("error", logging.SanitizeError(qerr)))
		sink.Emit(ctx, models.NewErrorEvent(
			fmt.Sprintf("Error processing database schema: %s", logging.SanitizeError(qerr))))
		return nil, qerr
	}

	sink.Emit(ctx, models.NewStatusEvent(models.StatusExtracting,
		fmt.Sprintf("Found %d tables. Retrieving schema and sample data...", len(tables))))

	result := p.processTables(ctx, params, sink, source, tables)

	sink.Emit(ctx, models.NewTableEvent(models.StatusCompleted,
		completionMessage(result), "", result.ProcessedTables, result.TotalTables))
	sink.Emit(ctx, models.NewCompletedEvent("Process completed", result.CompletionData()))

	return result, nil
}

// processTables walks the table list, isolating per-table failures. A
// cancelled context stops the loop before the next table; the in-flight
// table is allowed to finish.
func (p *Pipeline) processTables(ctx context.Context, params *models.ConnectionParams, sink EventSink, source datasource.SchemaSource, tables []datasource.Table) *models.RunResult {
	result := &models.RunResult{TotalTables: len(tables)}

	for i, table := range tables {
		if ctx.Err() != nil {
			p.logger.Info("Pipeline cancelled",
				zap.Int("processed", result.ProcessedTables),
				zap.Int("total", result.TotalTables))
			break
		}

		current := i + 1
		sink.Emit(ctx, models.NewTableEvent(models.StatusExtracting,
			fmt.Sprintf("Processing table %d/%d: %s", current, result.TotalTables, table.Name),
			table.Name, current, result.TotalTables))

		report, err := p.extractor.ExtractTable(ctx, source, table.Name)
		if err != nil {
			p.logger.Warn("Skipping table",
				zap.String("table", table.Name),
				zap.String("error", logging.SanitizeError(err)))
			result.ExtractionFailed = append(result.ExtractionFailed, table.Name)
			sink.Emit(ctx, models.NewTableEvent(models.StatusWarning,
				fmt.Sprintf("Skipped table %s due to error: %s", table.Name, logging.SanitizeError(err)),
				table.Name, current, result.TotalTables))
			continue
		}

		result.SchemaText += report.Text()

		if params.Embed {
			if !p.embedder.EmbedTable(ctx, sink, params.UserID, table.Name, report.Text()) {
				result.EmbeddingFailed = append(result.EmbeddingFailed, table.Name)
				continue
			}
		}

		result.ProcessedTables++
	}

	return result
}

func completionMessage(r *models.RunResult) string {
	failed := "none"
	if names := r.FailedTables(); len(names) > 0 {
		failed = strings.Join(names, ", ")
	}
	return fmt.Sprintf("Database schema extraction completed. Processed %d/%d tables. Failed tables: %s",
		r.ProcessedTables, r.TotalTables, failed)
}

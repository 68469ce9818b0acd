package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/tablemind-ai/tablemind-engine/pkg/models"
	"github.com/tablemind-ai/tablemind-engine/pkg/repositories"
	"github.com/tablemind-ai/tablemind-engine/pkg/services"
)

// credentialSaveTimeout bounds the fire-and-forget credential upsert, which
// runs detached from the request context.
const credentialSaveTimeout = 10 * time.Second

// PipelineRunner runs one extraction and reports progress on the sink.
type PipelineRunner interface {
	Run(ctx context.Context, params *models.ConnectionParams, sink services.EventSink) (*models.RunResult, error)
}

// SchemaHandler streams schema extraction progress over SSE.
type SchemaHandler struct {
	pipeline    PipelineRunner
	credentials repositories.CredentialRepository
	eventBuffer int
	logger      *zap.Logger
}

// NewSchemaHandler creates a schema extraction handler.
func NewSchemaHandler(pipeline PipelineRunner, credentials repositories.CredentialRepository, eventBuffer int, logger *zap.Logger) *SchemaHandler {
	if eventBuffer <= 0 {
		eventBuffer = 100
	}
	return &SchemaHandler{
		pipeline:    pipeline,
		credentials: credentials,
		eventBuffer: eventBuffer,
		logger:      logger,
	}
}

// RegisterRoutes registers the schema route on the given mux.
func (h *SchemaHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/api/db/schema", h.ExtractSchema)
}

// parseParams validates the query string into connection parameters.
func parseParams(r *http.Request) (*models.ConnectionParams, error) {
	q := r.URL.Query()

	userID := q.Get("userId")
	hostname := q.Get("hostname")
	portStr := q.Get("port")
	username := q.Get("username")
	password := q.Get("password")
	dbname := q.Get("dbname")
	typ := q.Get("type")

	if userID == "" || hostname == "" || portStr == "" || username == "" ||
		password == "" || dbname == "" || typ == "" {
		return nil, fmt.Errorf("missing required parameters")
	}

	port, err := strconv.Atoi(portStr)
	if err != nil || port < 1 || port > 65535 {
		return nil, fmt.Errorf("invalid port %q", portStr)
	}

	dialect, ok := models.NormalizeDialect(typ)
	if !ok {
		return nil, fmt.Errorf("unsupported database type %q", typ)
	}

	return &models.ConnectionParams{
		UserID:   userID,
		Hostname: hostname,
		Port:     port,
		Username: username,
		Password: password,
		Database: dbname,
		Dialect:  dialect,
		Embed:    q.Get("embed") == "true",
	}, nil
}

// ExtractSchema handles GET /api/db/schema. It validates the query
// parameters, starts the pipeline, and streams its events as SSE frames
// until the terminal completed or error event.
func (h *SchemaHandler) ExtractSchema(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		if err := ErrorResponse(w, http.StatusMethodNotAllowed, "method_not_allowed", "Use GET"); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
		return
	}

	params, err := parseParams(r)
	if err != nil {
		if werr := ErrorResponse(w, http.StatusBadRequest, "invalid_parameters", err.Error()); werr != nil {
			h.logger.Error("Failed to write error response", zap.Error(werr))
		}
		return
	}

	// Set SSE headers
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no")

	flusher, ok := w.(http.Flusher)
	if !ok {
		h.logger.Error("SSE not supported")
		if err := ErrorResponse(w, http.StatusInternalServerError, "sse_unsupported", "SSE not supported"); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
		return
	}

	sink := services.NewChannelSink(h.eventBuffer, h.logger)

	// Run the pipeline in the background
	go func() {
		defer sink.Close()
		if _, err := h.pipeline.Run(r.Context(), params, sink); err != nil {
			// Already surfaced to the client as an error event.
			h.logger.Error("Schema extraction failed",
				zap.String("user_id", params.UserID),
				zap.String("dialect", string(params.Dialect)),
				zap.Error(err))
		}
	}()

	// Persist the credential alongside the run; failures only get logged.
	h.saveCredentialAsync(params)

	// Stream events to client
	for event := range sink.Events() {
		data, err := json.Marshal(event)
		if err != nil {
			h.logger.Error("Failed to marshal event", zap.Error(err))
			continue
		}

		// Write SSE formatted data
		fmt.Fprintf(w, "data: %s\n\n", data)
		flusher.Flush()

		// Stop on the terminal frame
		if event.Status == models.StatusError ||
			(event.Status == models.StatusCompleted && event.Data != nil) {
			break
		}
	}
}

// saveCredentialAsync upserts the hashed credential without blocking or
// failing the stream.
func (h *SchemaHandler) saveCredentialAsync(params *models.ConnectionParams) {
	if h.credentials == nil {
		return
	}
	p := *params
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), credentialSaveTimeout)
		defer cancel()
		if err := h.credentials.Save(ctx, p.UserID, &p); err != nil {
			h.logger.Error("Failed to save credential",
				zap.String("user_id", p.UserID),
				zap.Error(err))
		}
	}()
}

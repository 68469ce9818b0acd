package models

// ============================================================================
// Connection Parameters
// ============================================================================

// Dialect identifies a supported source database backend.
type Dialect string

const (
	DialectMySQL    Dialect = "mysql"
	DialectPostgres Dialect = "postgres"
	DialectOracle   Dialect = "oracle"
)

// ValidDialects contains all supported dialect values.
var ValidDialects = []Dialect{
	DialectMySQL,
	DialectPostgres,
	DialectOracle,
}

// NormalizeDialect maps user-supplied dialect strings to canonical values.
// "postgresql" is accepted as an alias for "postgres". Returns false for
// unsupported values.
func NormalizeDialect(s string) (Dialect, bool) {
	switch Dialect(s) {
	case DialectMySQL, DialectPostgres, DialectOracle:
		return Dialect(s), true
	case "postgresql":
		return DialectPostgres, true
	default:
		return "", false
	}
}

// ConnectionParams carries everything needed for one extraction run.
// It is immutable once handed to the pipeline. Password is excluded from
// JSON serialization so it can never leak through an event frame.
type ConnectionParams struct {
	UserID   string  `json:"user_id"`
	Hostname string  `json:"hostname"`
	Port     int     `json:"port"`
	Username string  `json:"username"`
	Password string  `json:"-"`
	Database string  `json:"database"`
	Dialect  Dialect `json:"dialect"`
	Embed    bool    `json:"embed"`
}

// ============================================================================
// Table Reports
// ============================================================================

// TableReport holds the extracted schema and sanitized sample text for one
// table. The concatenation returned by Text is the unit sent to the memory
// store.
type TableReport struct {
	TableName  string
	SchemaText string
	SampleText string
}

// Text returns the embedding payload for the table.
func (r *TableReport) Text() string {
	return r.SchemaText + "\nSample Data:\n" + r.SampleText + "\n\n"
}

// ============================================================================
// Progress Events
// ============================================================================

// PipelineStatus represents the state of a streaming pipeline event.
type PipelineStatus string

const (
	StatusConnecting    PipelineStatus = "connecting"
	StatusConnected     PipelineStatus = "connected"
	StatusListingTables PipelineStatus = "listing_tables"
	StatusExtracting    PipelineStatus = "extracting_schema"
	StatusEmbedding     PipelineStatus = "embedding"
	StatusWarning       PipelineStatus = "warning"
	StatusError         PipelineStatus = "error"
	StatusCompleted     PipelineStatus = "completed"
)

// Progress carries 1-indexed per-table counters.
type Progress struct {
	Current int `json:"current"`
	Total   int `json:"total"`
}

// CompletionData is attached only to the final completed event.
type CompletionData struct {
	SchemaText      string   `json:"schemaText"`
	ProcessedTables int      `json:"processedTables"`
	TotalTables     int      `json:"totalTables"`
	FailedTables    []string `json:"failedTables"`
}

// ProgressEvent is one frame on the pipeline event stream.
type ProgressEvent struct {
	Status   PipelineStatus  `json:"status"`
	Message  string          `json:"message"`
	Table    string          `json:"table,omitempty"`
	Progress *Progress       `json:"progress,omitempty"`
	Data     *CompletionData `json:"data,omitempty"`
}

// NewStatusEvent creates a plain status event.
func NewStatusEvent(status PipelineStatus, message string) ProgressEvent {
	return ProgressEvent{Status: status, Message: message}
}

// NewTableEvent creates a status event scoped to a table with counters.
func NewTableEvent(status PipelineStatus, message, table string, current, total int) ProgressEvent {
	return ProgressEvent{
		Status:   status,
		Message:  message,
		Table:    table,
		Progress: &Progress{Current: current, Total: total},
	}
}

// NewEmbeddingEvent creates an embedding progress event for a table.
func NewEmbeddingEvent(message, table string) ProgressEvent {
	return ProgressEvent{Status: StatusEmbedding, Message: message, Table: table}
}

// NewWarningEvent creates a per-table warning event.
func NewWarningEvent(message, table string) ProgressEvent {
	return ProgressEvent{Status: StatusWarning, Message: message, Table: table}
}

// NewErrorEvent creates a fatal error event.
func NewErrorEvent(message string) ProgressEvent {
	return ProgressEvent{Status: StatusError, Message: message}
}

// NewCompletedEvent creates the terminal event carrying the run aggregate.
func NewCompletedEvent(message string, data *CompletionData) ProgressEvent {
	return ProgressEvent{Status: StatusCompleted, Message: message, Data: data}
}

// ============================================================================
// Run Result
// ============================================================================

// RunResult aggregates one pipeline run. Extraction and embedding failures
// are tracked separately: a table whose schema was extracted but whose
// embedding exhausted retries still contributed its text to SchemaText.
type RunResult struct {
	SchemaText       string
	ProcessedTables  int
	TotalTables      int
	ExtractionFailed []string
	EmbeddingFailed  []string
}

// FailedTables returns the wire-visible union of extraction and embedding
// failures, in first-failure order without duplicates.
func (r *RunResult) FailedTables() []string {
	seen := make(map[string]bool, len(r.ExtractionFailed)+len(r.EmbeddingFailed))
	failed := []string{}
	for _, lists := range [][]string{r.ExtractionFailed, r.EmbeddingFailed} {
		for _, name := range lists {
			if !seen[name] {
				seen[name] = true
				failed = append(failed, name)
			}
		}
	}
	return failed
}

// CompletionData converts the result to its wire form.
func (r *RunResult) CompletionData() *CompletionData {
	return &CompletionData{
		SchemaText:      r.SchemaText,
		ProcessedTables: r.ProcessedTables,
		TotalTables:     r.TotalTables,
		FailedTables:    r.FailedTables(),
	}
}

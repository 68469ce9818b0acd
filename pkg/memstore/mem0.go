package memstore

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/tablemind-ai/tablemind-engine/pkg/retry"
)

// DefaultMem0BaseURL is the hosted mem0 platform endpoint.
const DefaultMem0BaseURL = "https://api.mem0.ai"

// Mem0Client stores documents in the mem0 platform over its REST API.
type Mem0Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	retryCfg   *retry.Config
	logger     *zap.Logger
}

// Mem0Option configures a Mem0Client.
type Mem0Option func(*Mem0Client)

// WithMem0BaseURL overrides the API endpoint (tests, self-hosted mem0).
func WithMem0BaseURL(url string) Mem0Option {
	return func(c *Mem0Client) { c.baseURL = url }
}

// WithMem0HTTPClient overrides the HTTP client.
func WithMem0HTTPClient(hc *http.Client) Mem0Option {
	return func(c *Mem0Client) { c.httpClient = hc }
}

// WithMem0RetryConfig overrides the retry policy for transient failures.
func WithMem0RetryConfig(cfg *retry.Config) Mem0Option {
	return func(c *Mem0Client) { c.retryCfg = cfg }
}

// NewMem0Client creates a mem0 REST client.
func NewMem0Client(apiKey string, logger *zap.Logger, opts ...Mem0Option) (*Mem0Client, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("mem0 api key is required")
	}

	c := &Mem0Client{
		baseURL:    DefaultMem0BaseURL,
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: 30 * time.Second},
		retryCfg:   retry.DefaultConfig(),
		logger:     logger,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

type mem0Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type mem0AddRequest struct {
	Messages []mem0Message `json:"messages"`
	UserID   string        `json:"user_id"`
	Metadata Metadata      `json:"metadata"`
}

// Add stores one document. Server errors (5xx) and transport failures are
// retried; client errors are surfaced immediately.
func (c *Mem0Client) Add(ctx context.Context, text string, meta Metadata) error {
	body, err := json.Marshal(mem0AddRequest{
		Messages: []mem0Message{{Role: "user", Content: text}},
		UserID:   meta.UserID,
		Metadata: meta,
	})
	if err != nil {
		return fmt.Errorf("marshal mem0 request: %w", err)
	}

	return retry.Do(ctx, c.retryCfg, func() error {
		return c.post(ctx, body)
	})
}

func (c *Mem0Client) post(ctx context.Context, body []byte) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+"/v1/memories/", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build mem0 request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Token "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("mem0 request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}

	// Cap the error body so a misbehaving server cannot bloat logs.
	detail, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
	err = fmt.Errorf("mem0 returned status %d: %s", resp.StatusCode, detail)

	if resp.StatusCode >= 400 && resp.StatusCode < 500 {
		c.logger.Error("mem0 rejected document", zap.Int("status", resp.StatusCode))
		return retry.Unrecoverable(err)
	}
	return err
}

var _ Client = (*Mem0Client)(nil)

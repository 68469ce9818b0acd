package memstore

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/tablemind-ai/tablemind-engine/pkg/retry"
)

func fastRetry() *retry.Config {
	return &retry.Config{
		MaxRetries:   2,
		InitialDelay: time.Millisecond,
		MaxDelay:     5 * time.Millisecond,
		Multiplier:   2.0,
	}
}

func TestMem0Client_Add(t *testing.T) {
	var got mem0AddRequest
	var gotAuth string

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/v1/memories/", r.URL.Path)
		gotAuth = r.Header.Get("Authorization")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	client, err := NewMem0Client("key-123", zap.NewNop(),
		WithMem0BaseURL(srv.URL), WithMem0RetryConfig(fastRetry()))
	require.NoError(t, err)

	meta := Metadata{UserID: "user-1", Category: CategoryDatabase, TableName: "orders"}
	err = client.Add(context.Background(), "Table \"orders\":\n- id: int", meta)
	require.NoError(t, err)

	assert.Equal(t, "Token key-123", gotAuth)
	assert.Equal(t, "user-1", got.UserID)
	assert.Equal(t, CategoryDatabase, got.Metadata.Category)
	assert.Equal(t, "orders", got.Metadata.TableName)
	require.Len(t, got.Messages, 1)
	assert.Equal(t, "user", got.Messages[0].Role)
	assert.Contains(t, got.Messages[0].Content, "orders")
}

func TestMem0Client_RetriesServerErrors(t *testing.T) {
	var calls atomic.Int32

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	client, err := NewMem0Client("key", zap.NewNop(),
		WithMem0BaseURL(srv.URL), WithMem0RetryConfig(fastRetry()))
	require.NoError(t, err)

	err = client.Add(context.Background(), "doc", Metadata{UserID: "u"})
	require.NoError(t, err)
	assert.Equal(t, int32(3), calls.Load())
}

func TestMem0Client_ClientErrorNotRetried(t *testing.T) {
	var calls atomic.Int32

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	client, err := NewMem0Client("bad-key", zap.NewNop(),
		WithMem0BaseURL(srv.URL), WithMem0RetryConfig(fastRetry()))
	require.NoError(t, err)

	err = client.Add(context.Background(), "doc", Metadata{UserID: "u"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "401")
	assert.Equal(t, int32(1), calls.Load())
}

func TestNewMem0Client_RequiresKey(t *testing.T) {
	_, err := NewMem0Client("", zap.NewNop())
	assert.Error(t, err)
}

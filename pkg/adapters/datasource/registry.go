package datasource

import (
	"context"
	"fmt"
	"sync"

	"github.com/tablemind-ai/tablemind-engine/pkg/apperrors"
)

// Config contains the connection options shared by all dialects.
type Config struct {
	Host     string
	Port     int
	User     string
	Password string
	Database string
}

// AdapterInfo describes a registered adapter.
type AdapterInfo struct {
	Dialect     string `json:"dialect"`      // "mysql", "postgres", "oracle"
	DisplayName string `json:"display_name"` // "MySQL", "PostgreSQL", "Oracle"
	Description string `json:"description"`
}

// Registration contains info plus the factory for creating schema sources.
type Registration struct {
	Info    AdapterInfo
	Connect func(ctx context.Context, cfg *Config) (SchemaSource, error)
}

var (
	registryMu sync.RWMutex
	registry   = make(map[string]Registration)
)

// Register is called by each adapter's init() function.
// Thread-safe for concurrent init() calls.
func Register(reg Registration) {
	registryMu.Lock()
	defer registryMu.Unlock()
	registry[reg.Info.Dialect] = reg
}

// RegisteredAdapters returns info for all registered adapters.
func RegisteredAdapters() []AdapterInfo {
	registryMu.RLock()
	defer registryMu.RUnlock()

	result := make([]AdapterInfo, 0, len(registry))
	for _, reg := range registry {
		result = append(result, reg.Info)
	}
	return result
}

// IsRegistered checks if an adapter dialect is available.
func IsRegistered(dialect string) bool {
	registryMu.RLock()
	defer registryMu.RUnlock()
	_, ok := registry[dialect]
	return ok
}

// Connect opens a SchemaSource for the given dialect. Connection failures
// and unknown dialects are both surfaced as pipeline-fatal connection
// errors.
func Connect(ctx context.Context, dialect string, cfg *Config) (SchemaSource, error) {
	registryMu.RLock()
	reg, ok := registry[dialect]
	registryMu.RUnlock()

	if !ok {
		return nil, &apperrors.ConnectionError{
			Dialect: dialect,
			Err:     fmt.Errorf("%w: %q", apperrors.ErrUnsupportedDialect, dialect),
		}
	}

	source, err := reg.Connect(ctx, cfg)
	if err != nil {
		return nil, &apperrors.ConnectionError{Dialect: dialect, Err: err}
	}
	return source, nil
}

package datasource

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tablemind-ai/tablemind-engine/pkg/apperrors"
)

func TestConnect_UnknownDialect(t *testing.T) {
	_, err := Connect(context.Background(), "sybase", &Config{})
	require.Error(t, err)
	assert.True(t, apperrors.IsConnectionError(err))
	assert.ErrorIs(t, err, apperrors.ErrUnsupportedDialect)
}

func TestRegisterAndConnect(t *testing.T) {
	factoryErr := errors.New("refused")
	Register(Registration{
		Info: AdapterInfo{Dialect: "testdb", DisplayName: "Test DB"},
		Connect: func(ctx context.Context, cfg *Config) (SchemaSource, error) {
			return nil, factoryErr
		},
	})

	assert.True(t, IsRegistered("testdb"))

	_, err := Connect(context.Background(), "testdb", &Config{Host: "localhost"})
	require.Error(t, err)
	assert.True(t, apperrors.IsConnectionError(err))
	assert.ErrorIs(t, err, factoryErr)
}

func TestRegisteredAdapters(t *testing.T) {
	Register(Registration{
		Info: AdapterInfo{Dialect: "listed", DisplayName: "Listed"},
		Connect: func(ctx context.Context, cfg *Config) (SchemaSource, error) {
			return nil, nil
		},
	})

	infos := RegisteredAdapters()
	var found bool
	for _, info := range infos {
		if info.Dialect == "listed" {
			found = true
		}
	}
	assert.True(t, found)
}

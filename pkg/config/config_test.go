package config

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("MEM0_API_KEY", "key")

	cfg, err := Load("test")
	require.NoError(t, err)

	assert.Equal(t, "127.0.0.1", cfg.BindAddr)
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "test", cfg.Version)
	assert.Equal(t, "mem0", cfg.Memory.Provider)
	assert.Equal(t, 5, cfg.Pipeline.SampleLimit)
	assert.Equal(t, 3, cfg.Pipeline.EmbedAttempts)
	assert.Equal(t, 100, cfg.Pipeline.EventBuffer)
	assert.Equal(t, int32(10), cfg.Database.MaxConnections)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("MEMORY_PROVIDER", "local")
	t.Setenv("OPENAI_API_KEY", "sk-test")
	t.Setenv("PORT", "9090")
	t.Setenv("PGHOST", "db.internal")

	cfg, err := Load("test")
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, "local", cfg.Memory.Provider)
	assert.Equal(t, "db.internal", cfg.Database.Host)
}

func TestLoad_Mem0RequiresKey(t *testing.T) {
	t.Setenv("MEMORY_PROVIDER", "mem0")
	t.Setenv("MEM0_API_KEY", "")

	_, err := Load("test")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "MEM0_API_KEY")
}

func TestLoad_LocalRequiresOpenAIKey(t *testing.T) {
	t.Setenv("MEMORY_PROVIDER", "local")
	t.Setenv("OPENAI_API_KEY", "")

	_, err := Load("test")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "OPENAI_API_KEY")
}

func TestLoad_OffNeedsNoSecrets(t *testing.T) {
	t.Setenv("MEMORY_PROVIDER", "off")

	cfg, err := Load("test")
	require.NoError(t, err)
	assert.Equal(t, "off", cfg.Memory.Provider)
}

func TestLoad_UnknownProvider(t *testing.T) {
	t.Setenv("MEMORY_PROVIDER", "redis")

	_, err := Load("test")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown memory provider")
}

func TestConnectionString(t *testing.T) {
	cfg := DatabaseConfig{
		Host:     "localhost",
		Port:     5432,
		User:     "tablemind",
		Password: "pw",
		Database: "engine",
		SSLMode:  "disable",
	}

	cs := cfg.ConnectionString()
	assert.True(t, strings.Contains(cs, "host=localhost"))
	assert.True(t, strings.Contains(cs, "dbname=engine"))
	assert.True(t, strings.Contains(cs, "sslmode=disable"))
}

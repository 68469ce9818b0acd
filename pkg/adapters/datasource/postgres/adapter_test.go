package postgres

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/tablemind-ai/tablemind-engine/pkg/adapters/datasource"
)

func TestBuildConnectionString(t *testing.T) {
	cfg := &datasource.Config{
		Host:     "db.internal",
		Port:     5432,
		User:     "reader",
		Password: "p@ss/word#1",
		Database: "sales",
	}

	cs := buildConnectionString(cfg)
	assert.Contains(t, cs, "postgresql://reader:")
	assert.Contains(t, cs, "@db.internal:5432/sales")
	assert.Contains(t, cs, "sslmode=prefer")
	// Special characters in the password must be escaped, not raw.
	assert.NotContains(t, cs, "p@ss/word#1")
}

func TestQuoteIdentifier(t *testing.T) {
	source := &Source{}

	assert.Equal(t, `"orders"`, source.QuoteIdentifier("orders"))
	assert.Equal(t, `"select"`, source.QuoteIdentifier("select"))
	assert.Equal(t, `"a""b"`, source.QuoteIdentifier(`a"b`))
}

package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDefaults(t *testing.T) {
	t.Setenv("MONGODB_CONNECTION_URI", "mongodb://localhost:27017")
	t.Setenv("MONGODB_DBNAME_CONTENT", "content")

	cfg, err := Parse()
	require.NoError(t, err)
	assert.Equal(t, ":8080", cfg.Address)
	assert.Equal(t, 100, cfg.RateLimit_Max)
	assert.True(t, cfg.AssetCleanup_Enabled)
	assert.Equal(t, uint64(100), cfg.MongoDB_MaxPoolSize)
	assert.Equal(t, "en", cfg.DefaultLanguage_Code)
}

func TestParseRequiresMongo(t *testing.T) {
	t.Setenv("MONGODB_CONNECTION_URI", "")
	t.Setenv("MONGODB_DBNAME_CONTENT", "")

	_, err := Parse()
	assert.Error(t, err)
}

func TestParseTLSNeedsFiles(t *testing.T) {
	t.Setenv("MONGODB_CONNECTION_URI", "mongodb://localhost:27017")
	t.Setenv("MONGODB_DBNAME_CONTENT", "content")
	t.Setenv("ENABLE_TLS", "true")

	_, err := Parse()
	assert.Error(t, err)
}

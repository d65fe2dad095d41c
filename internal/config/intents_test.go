package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadIntentCatalog_ShippedCatalog(t *testing.T) {
	catalog, err := LoadIntentCatalog(filepath.Join("..", "..", "configs", "intents.json"), NewValidator())
	require.NoError(t, err)

	assert.Equal(t, "fallback", catalog.FallbackTag)
	assert.NotEmpty(t, catalog.EndInputs)
	assert.NotEmpty(t, catalog.EndResponses)
	assert.NotEmpty(t, catalog.GiveUpResponses)

	tags := make(map[string]bool)
	for _, def := range catalog.Intents {
		tags[def.Tag] = true
	}
	for _, want := range []string{"greeting", "order", "order_status", "cancel", "fallback"} {
		assert.True(t, tags[want], "catalog should declare intent %q", want)
	}
}

func TestLoadIntentCatalog_ShippedCatalogCompiles(t *testing.T) {
	catalog, err := LoadIntentCatalog(filepath.Join("..", "..", "configs", "intents.json"), NewValidator())
	require.NoError(t, err)

	table, err := CompileIntentTable(catalog, NewBotConfig())
	require.NoError(t, err)
	require.NotNil(t, table.Fallback)

	order, ok := table.Get("order")
	require.True(t, ok)
	require.NotEmpty(t, order.Slots)
	assert.Equal(t, "item", order.Slots[0].Name)
}

func TestLoadIntentCatalog_MissingFile(t *testing.T) {
	_, err := LoadIntentCatalog(filepath.Join(t.TempDir(), "nope.json"), NewValidator())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "read intent catalog")
}

func TestLoadIntentCatalog_MalformedJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "intents.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

	_, err := LoadIntentCatalog(path, NewValidator())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "decode intent catalog")
}

func TestLoadIntentCatalog_FailsValidation(t *testing.T) {
	path := filepath.Join(t.TempDir(), "intents.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"fallback_tag":"fallback"}`), 0o644))

	_, err := LoadIntentCatalog(path, NewValidator())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "validate intent catalog")
}

func TestNewBotConfig_Defaults(t *testing.T) {
	cfg := NewBotConfig()

	assert.Equal(t, "./configs/intents.json", cfg.IntentsPath)
	assert.Equal(t, "medium", cfg.DefaultSize)
	assert.True(t, cfg.CaseInsensitive)
	assert.Equal(t, 3, cfg.MaxSlotRetries)
	assert.Equal(t, 24*time.Hour, cfg.HistoryTTL)
	assert.True(t, cfg.Normalizer.Lowercase)
	assert.False(t, cfg.Normalizer.Stem)
}

func TestNewBotConfig_EnvOverrides(t *testing.T) {
	t.Setenv("BOT_DEFAULT_SIZE", "large")
	t.Setenv("BOT_MAX_SLOT_RETRIES", "5")
	t.Setenv("BOT_HISTORY_TTL", "1h")
	t.Setenv("BOT_NORMALIZE_STEM", "true")

	cfg := NewBotConfig()

	assert.Equal(t, "large", cfg.DefaultSize)
	assert.Equal(t, 5, cfg.MaxSlotRetries)
	assert.Equal(t, time.Hour, cfg.HistoryTTL)
	assert.True(t, cfg.Normalizer.Stem)
}

package config

import (
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
	jsoniter "github.com/json-iterator/go"

	"ChatbotGolang/internal/entity"
	"ChatbotGolang/pkg/nlp"
)

// LoadIntentCatalog reads and validates the intent catalog document.
// Any structural problem is fatal: the process must not serve turns
// against a broken catalog.
func LoadIntentCatalog(path string, validate *validator.Validate) (entity.IntentCatalog, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return entity.IntentCatalog{}, fmt.Errorf("read intent catalog %s: %w", path, err)
	}

	var catalog entity.IntentCatalog
	if err := jsoniter.Unmarshal(raw, &catalog); err != nil {
		return entity.IntentCatalog{}, fmt.Errorf("decode intent catalog %s: %w", path, err)
	}

	if err := validate.Struct(catalog); err != nil {
		return entity.IntentCatalog{}, fmt.Errorf("validate intent catalog %s: %w", path, err)
	}

	return catalog, nil
}

// CompileIntentTable compiles the catalog into the immutable matcher
// table used for the process lifetime.
func CompileIntentTable(catalog entity.IntentCatalog, bot BotConfig) (*nlp.Table, error) {
	table, err := nlp.Compile(catalog, nlp.CompileConfig{CaseInsensitive: bot.CaseInsensitive})
	if err != nil {
		return nil, fmt.Errorf("compile intent catalog: %w", err)
	}
	return table, nil
}

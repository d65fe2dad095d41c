package config

import (
	"os"
	"strconv"
	"time"

	"ChatbotGolang/pkg/nlp"
)

// BotConfig are the process-wide dialogue parameters, read from the
// environment once at startup and treated as frozen afterwards.
type BotConfig struct {
	IntentsPath     string
	DefaultSize     string
	CaseInsensitive bool
	MaxSlotRetries  int
	HistoryTTL      time.Duration
	TokenTTL        time.Duration

	Normalizer nlp.NormalizerConfig
}

func NewBotConfig() BotConfig {
	return BotConfig{
		IntentsPath:     envString("BOT_INTENTS_PATH", "./configs/intents.json"),
		DefaultSize:     envString("BOT_DEFAULT_SIZE", "medium"),
		CaseInsensitive: envBool("BOT_CASE_INSENSITIVE", true),
		MaxSlotRetries:  envInt("BOT_MAX_SLOT_RETRIES", 3),
		HistoryTTL:      envDuration("BOT_HISTORY_TTL", 24*time.Hour),
		TokenTTL:        envDuration("BOT_TOKEN_TTL", 24*time.Hour),
		Normalizer: nlp.NormalizerConfig{
			Lowercase:          envBool("BOT_NORMALIZE_LOWERCASE", true),
			ExpandContractions: envBool("BOT_NORMALIZE_CONTRACTIONS", true),
			Clean:              envBool("BOT_NORMALIZE_CLEAN", true),
			Stem:               envBool("BOT_NORMALIZE_STEM", false),
			RemoveStopwords:    envBool("BOT_NORMALIZE_STOPWORDS", false),
		},
	}
}

func envString(key string, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(val)
	if err != nil {
		return fallback
	}
	return parsed
}

func envInt(key string, fallback int) int {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(val)
	if err != nil {
		return fallback
	}
	return parsed
}

func envDuration(key string, fallback time.Duration) time.Duration {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	parsed, err := time.ParseDuration(val)
	if err != nil {
		return fallback
	}
	return parsed
}

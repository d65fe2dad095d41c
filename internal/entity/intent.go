package entity

// IntentCatalog is the external configuration document described in the
// bot's intents JSON file. It is decoded once at startup, validated, and
// compiled into an immutable nlp.Table; nothing mutates it afterwards.
type IntentCatalog struct {
	FallbackTag     string             `json:"fallback_tag" validate:"required"`
	EndInputs       []string           `json:"end_inputs" validate:"required,min=1"`
	EndResponses    []string           `json:"end_responses" validate:"required,min=1"`
	GiveUpResponses []string           `json:"give_up_responses" validate:"required,min=1"`
	Intents         []IntentDefinition `json:"intents" validate:"required,min=1,dive"`
}

type IntentDefinition struct {
	Tag       string   `json:"tag" validate:"required"`
	Patterns  []string `json:"patterns"`
	Responses []string `json:"responses" validate:"required,min=1"`

	// Slot-filling spec. SlotOrder is the exact order missing slots are
	// asked for; Extract holds each slot's keyword list in search
	// priority order; Synonyms canonicalize matched keywords; SlotKinds
	// selects the extractor ("keyword" when absent, "free_text" for
	// remainder capture).
	Extract   map[string][]string          `json:"extract"`
	Synonyms  map[string]map[string]string `json:"synonyms"`
	SlotKinds map[string]string            `json:"slot_kinds"`
	SlotOrder []string                     `json:"slot_order"`
	Prompts   map[string][]string          `json:"prompts"`

	// Provides lists extra template keys the intent's business action
	// merges into the render context (e.g. price, order_id).
	Provides       []string `json:"provides"`
	ErrorResponses []string `json:"error_responses"`

	// Reset marks an intent that clears the in-progress intent instead
	// of being treated as a slot answer (e.g. cancel).
	Reset bool `json:"reset"`

	// Action names the injected business computation run once all
	// required slots are filled. Empty means render-only.
	Action string `json:"action"`

	// Opaque business data handed to pkg/pricing untouched.
	Prices        map[string]float64 `json:"prices"`
	SizeModifiers map[string]float64 `json:"size_modifiers"`
}

const (
	ActionQuote  = "quote"
	ActionLookup = "lookup"
)

const (
	SlotKindKeyword  = "keyword"
	SlotKindFreeText = "free_text"
)

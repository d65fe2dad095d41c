package nlp

import (
	"regexp"
	"strings"
)

// Table is the compiled, immutable intent table. It is built once at
// startup from the intent catalog document and shared read-only by
// every session.
type Table struct {
	Intents         []*Intent
	Fallback        *Intent
	EndInputs       []string
	EndResponses    []string
	GiveUpResponses []string

	byTag map[string]*Intent
}

type Intent struct {
	Tag            string
	Responses      []string
	ErrorResponses []string
	Provides       []string
	Reset          bool
	Action         string

	// Slots in ask order; the state machine prompts for the first
	// missing one, never concurrently, never out of order.
	Slots []*Slot

	patterns   []*regexp.Regexp
	slotByName map[string]*Slot
}

type Slot struct {
	Name    string
	Kind    string
	Prompts []string

	keywords []keywordMatcher
}

// keywordMatcher pairs a word-boundary-anchored keyword pattern with
// the canonical value stored when it hits.
type keywordMatcher struct {
	canonical string
	re        *regexp.Regexp
}

func (t *Table) Get(tag string) (*Intent, bool) {
	in, ok := t.byTag[tag]
	return in, ok
}

// IsEndInput reports whether the raw utterance is one of the designated
// session-ending inputs. The comparison is exact (trimmed, case-folded)
// on purpose; end inputs are never pattern-matched.
func (t *Table) IsEndInput(raw string) bool {
	raw = strings.TrimSpace(raw)
	for _, end := range t.EndInputs {
		if strings.EqualFold(raw, end) {
			return true
		}
	}
	return false
}

func (in *Intent) Slot(name string) (*Slot, bool) {
	s, ok := in.slotByName[name]
	return s, ok
}

// MissingSlots returns the declared slots absent from filled, in ask
// order.
func (in *Intent) MissingSlots(filled map[string]string) []string {
	var missing []string
	for _, slot := range in.Slots {
		if filled[slot.Name] == "" {
			missing = append(missing, slot.Name)
		}
	}
	return missing
}

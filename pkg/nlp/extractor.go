package nlp

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"ChatbotGolang/internal/entity"
)

// Filler tokens stripped before a free-text slot captures the remainder
// of the utterance ("my name is john" -> "john").
var freeTextFillers = map[string]bool{
	"my": true, "name": true, "is": true, "its": true, "i": true,
	"am": true, "im": true, "the": true, "a": true, "an": true,
	"it": true, "call": true, "me": true, "please": true,
	"for": true, "under": true,
}

// Extract searches normalized text for a value for this slot. Keyword
// slots try their keyword list in declared priority order and store the
// first hit's canonical value. Free-text slots capture the whole
// remaining utterance after filler removal; they only make sense as the
// answer to a direct prompt.
func (s *Slot) Extract(text string) (string, bool) {
	if s.Kind == entity.SlotKindFreeText {
		return extractFreeText(text)
	}
	for _, kw := range s.keywords {
		if kw.re.MatchString(text) {
			return kw.canonical, true
		}
	}
	return "", false
}

// ExtractAll runs every declared keyword slot against the text and
// returns the values found; slots with no hit are omitted, never set to
// a placeholder. Free-text slots are skipped here so an opening
// utterance cannot be mistaken for a name.
func (in *Intent) ExtractAll(text string) map[string]string {
	found := make(map[string]string)
	for _, slot := range in.Slots {
		if slot.Kind == entity.SlotKindFreeText {
			continue
		}
		if val, ok := slot.Extract(text); ok {
			found[slot.Name] = val
		}
	}
	return found
}

func extractFreeText(text string) (string, bool) {
	words := strings.Fields(text)
	var kept []string
	for _, word := range words {
		if !freeTextFillers[strings.ToLower(word)] {
			kept = append(kept, word)
		}
	}
	if len(kept) == 0 {
		return "", false
	}
	// cases.Caser carries internal state, so one per call.
	return cases.Title(language.English).String(strings.Join(kept, " ")), true
}

package nlp

import (
	"strings"
	"unicode"

	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// NormalizerConfig enables each transform independently. The pipeline
// order is fixed: lowercase, contraction expansion, unicode clean,
// stemming, stopword removal. The config is frozen for the process
// lifetime.
type NormalizerConfig struct {
	Lowercase          bool
	ExpandContractions bool
	Clean              bool
	Stem               bool
	RemoveStopwords    bool
}

type Normalizer struct {
	cfg NormalizerConfig
}

func NewNormalizer(cfg NormalizerConfig) *Normalizer {
	return &Normalizer{cfg: cfg}
}

var contractions = map[string]string{
	"i'm":       "i am",
	"i'd":       "i would",
	"i'll":      "i will",
	"i've":      "i have",
	"you're":    "you are",
	"you'd":     "you would",
	"you'll":    "you will",
	"we're":     "we are",
	"we'd":      "we would",
	"it's":      "it is",
	"that's":    "that is",
	"what's":    "what is",
	"where's":   "where is",
	"who's":     "who is",
	"how's":     "how is",
	"there's":   "there is",
	"let's":     "let us",
	"don't":     "do not",
	"doesn't":   "does not",
	"didn't":    "did not",
	"can't":     "can not",
	"won't":     "will not",
	"wouldn't":  "would not",
	"couldn't":  "could not",
	"shouldn't": "should not",
	"isn't":     "is not",
	"aren't":    "are not",
	"wasn't":    "was not",
	"haven't":   "have not",
}

var stopwords = map[string]bool{
	"a": true, "an": true, "the": true,
	"i": true, "you": true, "he": true, "she": true, "it": true,
	"we": true, "they": true, "me": true, "my": true, "your": true,
	"is": true, "are": true, "am": true, "was": true, "were": true,
	"to": true, "of": true, "in": true, "on": true, "at": true,
	"for": true, "with": true, "and": true, "or": true, "but": true,
	"do": true, "does": true, "did": true, "so": true, "that": true,
	"this": true, "some": true, "please": true,
}

// Normalize runs the enabled transforms in pipeline order. Each step is
// a pure function of its input, so re-normalizing already-normalized
// text is a no-op under the same config.
func (n *Normalizer) Normalize(text string) string {
	if n.cfg.Lowercase {
		text = strings.ToLower(text)
	}
	if n.cfg.ExpandContractions {
		text = expandContractions(text)
	}
	if n.cfg.Clean {
		text = cleanText(text)
	}
	if n.cfg.Stem {
		text = mapTokens(text, stemToken)
	}
	if n.cfg.RemoveStopwords {
		text = removeStopwords(text)
	}
	return strings.TrimSpace(text)
}

func expandContractions(text string) string {
	words := strings.Fields(text)
	for i, word := range words {
		key := strings.ToLower(strings.ReplaceAll(word, "’", "'"))
		if expanded, ok := contractions[key]; ok {
			words[i] = expanded
		}
	}
	return strings.Join(words, " ")
}

// cleanText strips diacritics and folds everything that is not a
// letter, digit or space into a single space.
func cleanText(text string) string {
	t := transform.Chain(norm.NFD, transform.RemoveFunc(isMn), norm.NFC)
	result, _, err := transform.String(t, text)
	if err != nil {
		result = text
	}

	result = strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.IsSpace(r) {
			return r
		}
		return ' '
	}, result)

	return strings.Join(strings.Fields(result), " ")
}

func isMn(r rune) bool {
	return unicode.Is(unicode.Mn, r)
}

var stemRules = []struct {
	suffix string
	repl   string
}{
	{"ing", ""},
	{"edly", ""},
	{"ed", ""},
	{"ly", ""},
	{"ies", "i"},
	{"es", ""},
	{"s", ""},
}

// stemToken reduces common English suffixes. Rules are applied to a
// fixpoint with a minimum stem length of three runes, which keeps the
// whole pass idempotent.
func stemToken(tok string) string {
	for {
		stripped := tok
		for _, rule := range stemRules {
			if !strings.HasSuffix(tok, rule.suffix) {
				continue
			}
			stem := strings.TrimSuffix(tok, rule.suffix)
			if len(stem) < 3 {
				continue
			}
			if rule.suffix == "s" && (strings.HasSuffix(stem, "s") || strings.HasSuffix(stem, "u") || strings.HasSuffix(stem, "i")) {
				continue
			}
			stripped = stem + rule.repl
			break
		}
		if stripped == tok {
			return tok
		}
		tok = stripped
	}
}

func mapTokens(text string, fn func(string) string) string {
	words := strings.Fields(text)
	for i, word := range words {
		words[i] = fn(word)
	}
	return strings.Join(words, " ")
}

func removeStopwords(text string) string {
	words := strings.Fields(text)
	kept := words[:0]
	for _, word := range words {
		if !stopwords[strings.ToLower(word)] {
			kept = append(kept, word)
		}
	}
	return strings.Join(kept, " ")
}

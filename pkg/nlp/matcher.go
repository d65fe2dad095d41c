package nlp

// Match resolves normalized text to one intent. Intents are tried in
// catalog order and each intent's patterns in file order; the first
// pattern that hits decides the outcome. When nothing matches, the
// fallback intent is returned with ok=false; that is an ordinary
// outcome, not an error.
func (t *Table) Match(text string) (*Intent, bool) {
	for _, in := range t.Intents {
		for _, re := range in.patterns {
			if re.MatchString(text) {
				return in, true
			}
		}
	}
	return t.Fallback, false
}

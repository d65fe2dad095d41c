package nlp

import "regexp"

var placeholderRe = regexp.MustCompile(`\{([a-zA-Z_][a-zA-Z0-9_]*)\}`)

// Render picks one template from candidates by round-robin on seq and
// substitutes every {name} placeholder from vars. Unresolved
// placeholders cannot occur at runtime: Compile validates every
// template against the intent's declared keys at load time.
func Render(candidates []string, vars map[string]string, seq int) string {
	if len(candidates) == 0 {
		return ""
	}
	tmpl := candidates[seq%len(candidates)]
	return placeholderRe.ReplaceAllStringFunc(tmpl, func(m string) string {
		key := m[1 : len(m)-1]
		if val, ok := vars[key]; ok {
			return val
		}
		return m
	})
}

// Placeholders lists the distinct placeholder names referenced by a
// template, in order of first appearance.
func Placeholders(tmpl string) []string {
	seen := make(map[string]bool)
	var names []string
	for _, m := range placeholderRe.FindAllStringSubmatch(tmpl, -1) {
		if !seen[m[1]] {
			seen[m[1]] = true
			names = append(names, m[1])
		}
	}
	return names
}

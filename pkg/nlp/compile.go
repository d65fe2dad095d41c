package nlp

import (
	"fmt"
	"regexp"

	"ChatbotGolang/internal/entity"
)

// CompileConfig carries the process-wide matching options, frozen at
// startup.
type CompileConfig struct {
	CaseInsensitive bool
}

// Compile turns the validated catalog document into an immutable Table.
// All pattern and keyword compilation happens here so per-turn matching
// stays cheap and every configuration error surfaces before the server
// accepts a single turn.
func Compile(catalog entity.IntentCatalog, cfg CompileConfig) (*Table, error) {
	table := &Table{
		EndInputs:       catalog.EndInputs,
		EndResponses:    catalog.EndResponses,
		GiveUpResponses: catalog.GiveUpResponses,
		byTag:           make(map[string]*Intent, len(catalog.Intents)),
	}

	for _, def := range catalog.Intents {
		if _, dup := table.byTag[def.Tag]; dup {
			return nil, fmt.Errorf("duplicate intent tag %q", def.Tag)
		}

		in, err := compileIntent(def, catalog.FallbackTag, cfg)
		if err != nil {
			return nil, err
		}

		table.Intents = append(table.Intents, in)
		table.byTag[def.Tag] = in
	}

	fallback, ok := table.byTag[catalog.FallbackTag]
	if !ok {
		return nil, fmt.Errorf("fallback tag %q has no intent definition", catalog.FallbackTag)
	}
	table.Fallback = fallback

	for _, tmpl := range append(catalog.EndResponses, catalog.GiveUpResponses...) {
		if err := checkPlaceholders(tmpl, map[string]bool{"name": true}); err != nil {
			return nil, fmt.Errorf("catalog response %q: %w", tmpl, err)
		}
	}

	return table, nil
}

func compileIntent(def entity.IntentDefinition, fallbackTag string, cfg CompileConfig) (*Intent, error) {
	if len(def.Patterns) == 0 && def.Tag != fallbackTag {
		return nil, fmt.Errorf("intent %q has no patterns", def.Tag)
	}

	in := &Intent{
		Tag:            def.Tag,
		Responses:      def.Responses,
		ErrorResponses: def.ErrorResponses,
		Provides:       def.Provides,
		Reset:          def.Reset,
		Action:         def.Action,
		slotByName:     make(map[string]*Slot),
	}

	switch def.Action {
	case "":
	case entity.ActionQuote, entity.ActionLookup:
		if len(def.ErrorResponses) == 0 {
			return nil, fmt.Errorf("intent %q action %q needs error_responses", def.Tag, def.Action)
		}
	default:
		return nil, fmt.Errorf("intent %q has unknown action %q", def.Tag, def.Action)
	}

	for _, pat := range def.Patterns {
		re, err := compilePattern(pat, cfg)
		if err != nil {
			return nil, fmt.Errorf("intent %q pattern %q: %w", def.Tag, pat, err)
		}
		in.patterns = append(in.patterns, re)
	}

	for _, name := range def.SlotOrder {
		slot, err := compileSlot(def, name, cfg)
		if err != nil {
			return nil, err
		}
		in.Slots = append(in.Slots, slot)
		in.slotByName[name] = slot
	}

	for name := range def.Extract {
		if _, ok := in.slotByName[name]; !ok {
			return nil, fmt.Errorf("intent %q extracts slot %q missing from slot_order", def.Tag, name)
		}
	}
	for name := range def.Synonyms {
		if _, ok := in.slotByName[name]; !ok {
			return nil, fmt.Errorf("intent %q has synonyms for undeclared slot %q", def.Tag, name)
		}
	}

	allowed := map[string]bool{"name": true}
	for _, slot := range in.Slots {
		allowed[slot.Name] = true
	}
	for _, key := range def.Provides {
		allowed[key] = true
	}
	templates := append(append([]string{}, def.Responses...), def.ErrorResponses...)
	for _, prompts := range def.Prompts {
		templates = append(templates, prompts...)
	}
	for _, tmpl := range templates {
		if err := checkPlaceholders(tmpl, allowed); err != nil {
			return nil, fmt.Errorf("intent %q template %q: %w", def.Tag, tmpl, err)
		}
	}

	return in, nil
}

func compileSlot(def entity.IntentDefinition, name string, cfg CompileConfig) (*Slot, error) {
	kind := def.SlotKinds[name]
	if kind == "" {
		kind = entity.SlotKindKeyword
	}
	if kind != entity.SlotKindKeyword && kind != entity.SlotKindFreeText {
		return nil, fmt.Errorf("intent %q slot %q has unknown kind %q", def.Tag, name, kind)
	}

	slot := &Slot{
		Name:    name,
		Kind:    kind,
		Prompts: def.Prompts[name],
	}
	if len(slot.Prompts) == 0 {
		return nil, fmt.Errorf("intent %q slot %q has no prompts", def.Tag, name)
	}

	if kind == entity.SlotKindFreeText {
		return slot, nil
	}

	keywords := def.Extract[name]
	if len(keywords) == 0 {
		return nil, fmt.Errorf("intent %q keyword slot %q has no keywords", def.Tag, name)
	}
	for _, kw := range keywords {
		re, err := compilePattern(regexp.QuoteMeta(kw), cfg)
		if err != nil {
			return nil, fmt.Errorf("intent %q slot %q keyword %q: %w", def.Tag, name, kw, err)
		}
		canonical := kw
		if mapped, ok := def.Synonyms[name][kw]; ok {
			canonical = mapped
		}
		slot.keywords = append(slot.keywords, keywordMatcher{canonical: canonical, re: re})
	}

	return slot, nil
}

// compilePattern anchors the expression on word boundaries so a pattern
// never matches inside a larger token.
func compilePattern(expr string, cfg CompileConfig) (*regexp.Regexp, error) {
	full := `\b(?:` + expr + `)\b`
	if cfg.CaseInsensitive {
		full = `(?i)` + full
	}
	return regexp.Compile(full)
}

func checkPlaceholders(tmpl string, allowed map[string]bool) error {
	for _, name := range Placeholders(tmpl) {
		if !allowed[name] {
			return fmt.Errorf("placeholder {%s} does not resolve to a declared slot or provided key", name)
		}
	}
	return nil
}

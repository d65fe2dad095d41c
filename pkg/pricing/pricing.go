package pricing

import (
	"fmt"
	"strings"

	"ChatbotGolang/internal/entity"
)

var (
	ErrUnknownItem = fmt.Errorf("item is not on the menu")
	ErrUnknownSize = fmt.Errorf("size is not offered")
)

type Quote struct {
	Item  string
	Size  string
	Total float64
}

// IPricing is the business computation the dialogue state machine
// invokes once an order intent has all its slots filled. It never
// fabricates a price: unknown combinations come back as business
// errors the dialogue can recover from.
type IPricing interface {
	Quote(item string, size string) (Quote, error)
}

type pricing struct {
	prices        map[string]float64
	sizeModifiers map[string]float64
	defaultSize   string
}

// New builds the price table from the order intent's opaque business
// data. The catalog is the single source of menu truth; nothing here is
// hardcoded.
func New(catalog entity.IntentCatalog, defaultSize string) IPricing {
	p := &pricing{
		prices:        make(map[string]float64),
		sizeModifiers: make(map[string]float64),
		defaultSize:   defaultSize,
	}

	for _, def := range catalog.Intents {
		for item, base := range def.Prices {
			p.prices[strings.ToLower(item)] = base
		}
		for size, mod := range def.SizeModifiers {
			p.sizeModifiers[strings.ToLower(size)] = mod
		}
	}

	return p
}

func (p *pricing) Quote(item string, size string) (Quote, error) {
	if size == "" {
		size = p.defaultSize
	}

	base, ok := p.prices[strings.ToLower(item)]
	if !ok {
		return Quote{}, fmt.Errorf("quote %q: %w", item, ErrUnknownItem)
	}

	modifier, ok := p.sizeModifiers[strings.ToLower(size)]
	if !ok {
		return Quote{}, fmt.Errorf("quote %q size %q: %w", item, size, ErrUnknownSize)
	}

	return Quote{Item: item, Size: size, Total: base + modifier}, nil
}

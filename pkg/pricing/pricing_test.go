package pricing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ChatbotGolang/internal/entity"
)

func testCatalog() entity.IntentCatalog {
	return entity.IntentCatalog{
		Intents: []entity.IntentDefinition{
			{
				Tag:           "order",
				Prices:        map[string]float64{"pepperoni": 11.50, "Veggie": 10.00},
				SizeModifiers: map[string]float64{"small": -2.00, "medium": 0, "Large": 3.00},
			},
		},
	}
}

func TestQuote_BasePlusModifier(t *testing.T) {
	p := New(testCatalog(), "medium")

	q, err := p.Quote("pepperoni", "large")
	require.NoError(t, err)
	assert.Equal(t, "pepperoni", q.Item)
	assert.Equal(t, "large", q.Size)
	assert.InDelta(t, 14.50, q.Total, 0.001)
}

func TestQuote_DefaultSize(t *testing.T) {
	p := New(testCatalog(), "medium")

	q, err := p.Quote("pepperoni", "")
	require.NoError(t, err)
	assert.Equal(t, "medium", q.Size)
	assert.InDelta(t, 11.50, q.Total, 0.001)
}

func TestQuote_CaseInsensitiveLookup(t *testing.T) {
	p := New(testCatalog(), "medium")

	q, err := p.Quote("VEGGIE", "LARGE")
	require.NoError(t, err)
	assert.InDelta(t, 13.00, q.Total, 0.001)
}

func TestQuote_UnknownItem(t *testing.T) {
	p := New(testCatalog(), "medium")

	_, err := p.Quote("calzone", "small")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnknownItem)
}

func TestQuote_UnknownSize(t *testing.T) {
	p := New(testCatalog(), "medium")

	_, err := p.Quote("pepperoni", "gigantic")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnknownSize)
}

func TestQuote_NegativeModifier(t *testing.T) {
	p := New(testCatalog(), "medium")

	q, err := p.Quote("veggie", "small")
	require.NoError(t, err)
	assert.InDelta(t, 8.00, q.Total, 0.001)
}

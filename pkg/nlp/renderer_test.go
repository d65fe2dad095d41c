package nlp

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRender_Substitution(t *testing.T) {
	out := Render(
		[]string{"Thanks {name}! One {size} {item}, {price} total."},
		map[string]string{"name": "John", "size": "large", "item": "pepperoni", "price": "14.50"},
		0,
	)
	assert.Equal(t, "Thanks John! One large pepperoni, 14.50 total.", out)
}

func TestRender_RoundRobin(t *testing.T) {
	candidates := []string{"first", "second", "third"}

	assert.Equal(t, "first", Render(candidates, nil, 0))
	assert.Equal(t, "second", Render(candidates, nil, 1))
	assert.Equal(t, "third", Render(candidates, nil, 2))
	assert.Equal(t, "first", Render(candidates, nil, 3))
}

func TestRender_RepeatedPlaceholder(t *testing.T) {
	out := Render([]string{"{name}, yes {name}!"}, map[string]string{"name": "Ada"}, 0)
	assert.Equal(t, "Ada, yes Ada!", out)
}

func TestRender_MissingVarLeftVerbatim(t *testing.T) {
	out := Render([]string{"Hello {name}"}, map[string]string{}, 0)
	assert.Equal(t, "Hello {name}", out)
}

func TestRender_EmptyCandidates(t *testing.T) {
	assert.Equal(t, "", Render(nil, map[string]string{"name": "x"}, 0))
}

func TestPlaceholders(t *testing.T) {
	assert.Equal(t, []string{"size", "item", "price"}, Placeholders("One {size} {item} is {price}, a {size} deal."))
	assert.Empty(t, Placeholders("no placeholders here"))
	assert.Empty(t, Placeholders("not a {1bad} placeholder"))
}

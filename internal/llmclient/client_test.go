package llmclient

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func tierSchema() Schema {
	return Schema{Fields: map[string]FieldSpec{
		"tier":       {Kind: KindString, Required: true, OneOf: []string{"in_home", "assisted_living"}},
		"confidence": {Kind: KindNumber, Required: true},
	}}
}

func TestAskReturnsValidatedObject(t *testing.T) {
	p := &FixtureProvider{Content: `{"tier":"assisted_living","confidence":0.8}`}
	c := New(p, time.Second)

	data, err := c.Ask(context.Background(), "sys", "user", tierSchema())
	require.NoError(t, err)
	assert.Equal(t, "assisted_living", data["tier"])
}

func TestAskUnwrapsMarkdownFence(t *testing.T) {
	p := &FixtureProvider{Content: "```json\n{\"tier\":\"in_home\",\"confidence\":0.6}\n```"}
	c := New(p, time.Second)

	data, err := c.Ask(context.Background(), "sys", "user", tierSchema())
	require.NoError(t, err)
	assert.Equal(t, "in_home", data["tier"])
}

func TestAskRejectsDisallowedEnumValue(t *testing.T) {
	p := &FixtureProvider{Content: `{"tier":"memory_care","confidence":0.9}`}
	c := New(p, time.Second)

	_, err := c.Ask(context.Background(), "sys", "user", tierSchema())
	assert.ErrorIs(t, err, ErrInvalidResponse)
}

func TestAskTimesOutWithoutRetry(t *testing.T) {
	p := &FixtureProvider{Content: `{"tier":"in_home","confidence":0.6}`, Delay: 50 * time.Millisecond}
	c := New(p, 5*time.Millisecond)

	_, err := c.Ask(context.Background(), "sys", "user", tierSchema())
	assert.ErrorIs(t, err, ErrTimeout)
}

func TestAskFailsFastWhenProviderUnavailable(t *testing.T) {
	p := &FixtureProvider{Unavailable: true}
	c := New(p, time.Second)

	_, err := c.Ask(context.Background(), "sys", "user", tierSchema())
	assert.ErrorIs(t, err, ErrInvalidResponse)
}

package handler_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/rangka/lumen/handler"
)

func TestParams(t *testing.T) {
	t.Parallel()

	p := handler.P("baz", 1, "boom", 2, "dangling")
	assert.Equal(t, []string{"baz", "boom"}, p.Keys())
	assert.Equal(t, []string{"1", "2"}, p.Values())
	assert.Equal(t, "1", p.Get("baz", "x"))
	assert.Equal(t, "x", p.Get("missing", "x"))
	assert.Equal(t, "2", p.At(1, "default"))
	assert.Equal(t, "default-value", p.At(5, "default-value"))

	v, ok := p.Lookup("boom")
	assert.True(t, ok)
	assert.Equal(t, "2", v)
}

func TestParams_EncodeKeepsOrder(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "zeta=1&alpha=2", handler.P("zeta", 1, "alpha", 2).Encode())
	assert.Equal(t, "q=a+b&x=%26", handler.P("q", "a b", "x", "&").Encode())
	assert.Empty(t, handler.Params(nil).Encode())
}

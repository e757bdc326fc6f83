package handler

import (
	"fmt"
	"net/url"
	"strings"
)

// Param is a single named value. Order matters: path parameters keep the order of
// their placeholders and reverse-routing parameters keep insertion order.
type Param struct {
	Key   string
	Value string
}

// Params is an ordered list of named values.
type Params []Param

// P builds Params from alternating key/value pairs. Values are formatted with %v.
// A trailing key without a value is ignored.
//
//	handler.P("baz", 1, "boom", 2)
func P(pairs ...any) Params {
	out := make(Params, 0, len(pairs)/2)
	for i := 0; i+1 < len(pairs); i += 2 {
		out = append(out, Param{Key: fmt.Sprint(pairs[i]), Value: fmt.Sprint(pairs[i+1])})
	}
	return out
}

// Get returns the value for key or def when absent.
func (p Params) Get(key, def string) string {
	for _, kv := range p {
		if kv.Key == key {
			return kv.Value
		}
	}
	return def
}

// Lookup returns the value for key and whether it was present.
func (p Params) Lookup(key string) (string, bool) {
	for _, kv := range p {
		if kv.Key == key {
			return kv.Value, true
		}
	}
	return "", false
}

// At returns the i-th value or def when the position is absent or empty.
func (p Params) At(i int, def string) string {
	if i < 0 || i >= len(p) || p[i].Value == "" {
		return def
	}
	return p[i].Value
}

// Values returns the values in order.
func (p Params) Values() []string {
	out := make([]string, len(p))
	for i, kv := range p {
		out[i] = kv.Value
	}
	return out
}

// Keys returns the keys in order.
func (p Params) Keys() []string {
	out := make([]string, len(p))
	for i, kv := range p {
		out[i] = kv.Key
	}
	return out
}

// Encode renders the params as a query string, preserving their order.
// url.Values.Encode sorts keys, which would lose the caller's ordering.
func (p Params) Encode() string {
	var b strings.Builder
	for i, kv := range p {
		if i > 0 {
			b.WriteByte('&')
		}
		b.WriteString(url.QueryEscape(kv.Key))
		b.WriteByte('=')
		b.WriteString(url.QueryEscape(kv.Value))
	}
	return b.String()
}

package router

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/rangka/lumen/handler"
)

// segment is either static text or a placeholder name.
type segment struct {
	static bool
	value  string
}

// reversePattern is a route URI split into static text and placeholders.
type reversePattern struct {
	segments []segment
}

// parseReversePattern splits "/foo/{id}.{format:json|xml}" into segments.
// Regex constraints may contain braces ({baz:[0-9]{2,5}}); they are skipped
// by tracking nesting depth.
func parseReversePattern(pattern string) (*reversePattern, error) {
	p := &reversePattern{}
	var static strings.Builder

	for i := 0; i < len(pattern); i++ {
		if pattern[i] != '{' {
			if pattern[i] == '}' {
				return nil, fmt.Errorf("%w: unexpected '}' in %q", ErrInvalidPattern, pattern)
			}
			static.WriteByte(pattern[i])
			continue
		}

		end := placeholderEnd(pattern, i)
		if end < 0 {
			return nil, fmt.Errorf("%w: unclosed '{' in %q", ErrInvalidPattern, pattern)
		}

		if static.Len() > 0 {
			p.segments = append(p.segments, segment{static: true, value: static.String()})
			static.Reset()
		}
		name, _, _ := strings.Cut(pattern[i+1:end], ":")
		p.segments = append(p.segments, segment{value: strings.TrimSpace(name)})
		i = end
	}

	if static.Len() > 0 {
		p.segments = append(p.segments, segment{static: true, value: static.String()})
	}
	return p, nil
}

// placeholderEnd returns the index of the '}' closing the placeholder opened at
// start, or -1 when it is unclosed.
func placeholderEnd(pattern string, start int) int {
	depth := 0
	for j := start; j < len(pattern); j++ {
		switch pattern[j] {
		case '{':
			depth++
		case '}':
			depth--
		}
		if depth == 0 {
			return j
		}
	}
	return -1
}

// matcherPattern wraps every regex constraint in a non-capturing group. The
// matcher anchors constraints as ^re$, so an ungrouped alternation such as
// json|xml would otherwise match any value starting with json or ending in xml.
func matcherPattern(pattern string) string {
	if !strings.Contains(pattern, ":") {
		return pattern
	}
	var b strings.Builder
	for i := 0; i < len(pattern); i++ {
		if pattern[i] != '{' {
			b.WriteByte(pattern[i])
			continue
		}
		end := placeholderEnd(pattern, i)
		if end < 0 {
			b.WriteString(pattern[i:])
			break
		}
		name, re, found := strings.Cut(pattern[i+1:end], ":")
		if found && re != "" {
			fmt.Fprintf(&b, "{%s:(?:%s)}", name, re)
		} else {
			b.WriteString(pattern[i : end+1])
		}
		i = end
	}
	return b.String()
}

// build substitutes placeholders by name. Params that match no placeholder are
// appended as a query string in the order given.
func (p *reversePattern) build(params handler.Params) (string, error) {
	used := make(map[string]bool, len(p.segments))
	var b strings.Builder

	for _, seg := range p.segments {
		if seg.static {
			b.WriteString(seg.value)
			continue
		}
		val, ok := params.Lookup(seg.value)
		if !ok {
			return "", fmt.Errorf("%w: %s", ErrMissingRouteParameter, seg.value)
		}
		used[seg.value] = true
		b.WriteString(url.PathEscape(val))
	}

	extra := make(handler.Params, 0, len(params))
	for _, kv := range params {
		if !used[kv.Key] {
			extra = append(extra, kv)
		}
	}
	if len(extra) > 0 {
		b.WriteByte('?')
		b.WriteString(extra.Encode())
	}
	return b.String(), nil
}

// URL builds the path of the route called name.
//
//	r.Get("/foo-bar/{baz}/{boom}", router.Attrs{As: "bar", Uses: show})
//	r.URL("bar", handler.P("baz", 1, "boom", 2)) // "/foo-bar/1/2"
//	r.URL("bar", handler.P("baz", 1, "boom", 2, "page", 3)) // "/foo-bar/1/2?page=3"
//
// Regex constraints are not checked against the values. A placeholder without a
// value is an error (ErrMissingRouteParameter).
func (r *Router) URL(name string, params handler.Params) (string, error) {
	uri, ok := r.named[name]
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrRouteNotFound, name)
	}
	pattern, err := parseReversePattern(uri)
	if err != nil {
		return "", err
	}
	return pattern.build(params)
}

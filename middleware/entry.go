package middleware

import "strings"

// Entry is a middleware reference: a registered name plus positional parameters.
type Entry struct {
	Name   string
	Params []string
}

// String renders the entry back to "name:p1,p2" form.
func (e Entry) String() string {
	if len(e.Params) == 0 {
		return e.Name
	}
	return e.Name + ":" + strings.Join(e.Params, ",")
}

// Parse parses "name" or "name:p1,p2".
func Parse(spec string) Entry {
	name, rest, found := strings.Cut(strings.TrimSpace(spec), ":")
	e := Entry{Name: strings.TrimSpace(name)}
	if found && rest != "" {
		e.Params = strings.Split(rest, ",")
	}
	return e
}

// Split expands "a|b:x" style declarations into one string per middleware,
// keeping order and duplicates. Empty items are dropped.
func Split(specs ...string) []string {
	out := make([]string, 0, len(specs))
	for _, spec := range specs {
		for part := range strings.SplitSeq(spec, "|") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}

// ParseAll splits and parses every declaration.
func ParseAll(specs ...string) []Entry {
	parts := Split(specs...)
	out := make([]Entry, len(parts))
	for i, p := range parts {
		out[i] = Parse(p)
	}
	return out
}

package router

import (
	"strings"

	"github.com/rangka/lumen/middleware"
)

// GroupAttrs are the attributes shared by every route registered inside a group.
type GroupAttrs struct {
	Prefix     string
	Namespace  string
	As         string
	Middleware []string
	Suffix     string
}

// Attrs decorates a single route. Uses holds the action: a function, a
// "Controller@method" string or an invokable name.
type Attrs struct {
	As         string
	Middleware []string
	Uses       any
}

// merge applies child on top of parent.
func (parent GroupAttrs) merge(child GroupAttrs) GroupAttrs {
	return GroupAttrs{
		Prefix:     joinPath(parent.Prefix, child.Prefix),
		Namespace:  joinNamespace(parent.Namespace, child.Namespace),
		As:         joinName(parent.As, child.As),
		Middleware: concatMiddleware(parent.Middleware, child.Middleware),
		Suffix:     firstNonEmpty(child.Suffix, parent.Suffix),
	}
}

func joinPath(parent, child string) string {
	parent, child = strings.Trim(parent, "/"), strings.Trim(child, "/")
	switch {
	case parent == "":
		return child
	case child == "":
		return parent
	default:
		return parent + "/" + child
	}
}

func joinNamespace(parent, child string) string {
	parent, child = strings.Trim(parent, `\`), strings.Trim(child, `\`)
	switch {
	case parent == "":
		return child
	case child == "":
		return parent
	default:
		return parent + `\` + child
	}
}

func joinName(parent, child string) string {
	switch {
	case parent == "":
		return child
	case child == "":
		return parent
	default:
		return parent + "." + child
	}
}

// concatMiddleware keeps order and duplicates and expands "a|b" declarations.
func concatMiddleware(parent, child []string) []string {
	out := make([]string, 0, len(parent)+len(child))
	out = append(out, parent...)
	return append(out, middleware.Split(child...)...)
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

// normalizeURI builds the registered path: a leading slash, no trailing slash.
func normalizeURI(prefix, uri, suffix string) string {
	path := "/" + joinPath(prefix, uri)
	if suffix != "" {
		path = strings.TrimRight(path, "/") + suffix
		if !strings.HasPrefix(path, "/") {
			path = "/" + path
		}
	}
	return path
}

// Package routing maps logical request paths onto the backend host that serves them.
package routing

import (
	"cmp"
	"errors"
	"fmt"
	"net/url"
	"slices"
	"strings"
)

var ErrInvalidBaseURL = errors.New("invalid base url")

// Route sends every path under Prefix to BaseURL.
type Route struct {
	Prefix  string
	BaseURL string
}

// Router is immutable once built and safe for concurrent use.
type Router struct {
	defaultBase string
	routes      []Route // longest prefix first
}

func New(defaultBase string, routes ...Route) (*Router, error) {
	base, err := normalizeBase(defaultBase)
	if err != nil {
		return nil, err
	}

	table := make([]Route, 0, len(routes))
	for _, r := range routes {
		routeBase, err := normalizeBase(r.BaseURL)
		if err != nil {
			return nil, fmt.Errorf("route %s: %w", r.Prefix, err)
		}
		prefix := "/" + strings.Trim(r.Prefix, "/")
		table = append(table, Route{Prefix: prefix, BaseURL: routeBase})
	}

	slices.SortStableFunc(table, func(a, b Route) int {
		return cmp.Compare(len(b.Prefix), len(a.Prefix))
	})

	return &Router{
		defaultBase: base,
		routes:      table,
	}, nil
}

// Resolve returns the base URL serving path, falling back to the default host.
func (r *Router) Resolve(path string) string {
	p := stripQuery(path)
	for _, route := range r.routes {
		if matchPrefix(p, route.Prefix) {
			return route.BaseURL
		}
	}
	return r.defaultBase
}

// URL resolves path and joins it onto its base URL.
func (r *Router) URL(path string) string {
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return r.Resolve(path) + path
}

// Routes returns a copy of the routing table.
func (r *Router) Routes() []Route {
	return slices.Clone(r.routes)
}

// matchPrefix reports whether prefix matches path on a segment boundary.
func matchPrefix(path, prefix string) bool {
	if prefix == "/" {
		return true
	}
	if !strings.HasPrefix(path, prefix) {
		return false
	}
	return len(path) == len(prefix) || path[len(prefix)] == '/'
}

func stripQuery(path string) string {
	if i := strings.IndexAny(path, "?#"); i >= 0 {
		path = path[:i]
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return path
}

func normalizeBase(raw string) (string, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return "", errors.Join(ErrInvalidBaseURL, err)
	}
	if u.Scheme == "" || u.Host == "" {
		return "", fmt.Errorf("%w: %q needs a scheme and host", ErrInvalidBaseURL, raw)
	}
	return strings.TrimSuffix(u.String(), "/"), nil
}

// SamePath reports whether the logical path of a request equals target, ignoring query and trailing slash.
func SamePath(path, target string) bool {
	return strings.TrimSuffix(stripQuery(path), "/") == strings.TrimSuffix(stripQuery(target), "/")
}

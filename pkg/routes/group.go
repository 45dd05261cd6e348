package routes

import "github.com/go-chi/chi/v5"

// Group collects routes under a shared prefix. Children inherit the prefix.
type Group struct {
	Prefix   string
	Routes   []Route
	Children []Group
}

// Register adds every route of groups to r.
func Register(r chi.Router, groups ...Group) {
	for _, g := range groups {
		register(r, "", g)
	}
}

func register(r chi.Router, parent string, g Group) {
	prefix := parent + g.Prefix
	for _, route := range g.Routes {
		pattern := prefix + route.Pattern
		if pattern == "" {
			pattern = "/"
		}
		r.Method(route.Method, pattern, route.Handler)
	}
	for _, child := range g.Children {
		register(r, prefix, child)
	}
}

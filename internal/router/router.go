// Package router is a thin middleware-chaining layer over http.ServeMux.
package router

import (
	"net/http"
	"slices"
	"sync"
)

// Middleware wraps an http.Handler.
type Middleware func(http.Handler) http.Handler

// Router registers method-qualified ServeMux patterns. Middleware runs
// inside the mux, so r.Pattern is already set when it executes. Groups
// share the mux and route table with their parent.
type Router struct {
	mux   *http.ServeMux
	chain []Middleware
	table *routeTable
}

type routeTable struct {
	mu       sync.Mutex
	patterns []string
}

// New creates a Router whose routes all run through middleware, outermost
// first.
func New(middleware ...Middleware) *Router {
	return &Router{
		mux:   http.NewServeMux(),
		chain: middleware,
		table: &routeTable{},
	}
}

// ServeHTTP implements http.Handler.
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	r.mux.ServeHTTP(w, req)
}

// Get registers a GET route.
func (r *Router) Get(path string, h http.HandlerFunc, middleware ...Middleware) {
	r.Handle(http.MethodGet, path, h, middleware...)
}

// Post registers a POST route.
func (r *Router) Post(path string, h http.HandlerFunc, middleware ...Middleware) {
	r.Handle(http.MethodPost, path, h, middleware...)
}

// Handle registers h for method and path behind the router's chain and any
// route-specific middleware.
func (r *Router) Handle(method, path string, h http.Handler, middleware ...Middleware) {
	pattern := method + " " + path
	r.mux.Handle(pattern, Chain(h, append(slices.Clone(r.chain), middleware...)...))

	r.table.mu.Lock()
	r.table.patterns = append(r.table.patterns, pattern)
	r.table.mu.Unlock()
}

// Group returns a Router that adds middleware after the parent's chain.
func (r *Router) Group(middleware ...Middleware) *Router {
	return &Router{
		mux:   r.mux,
		chain: append(slices.Clone(r.chain), middleware...),
		table: r.table,
	}
}

// Routes lists registered patterns in registration order.
func (r *Router) Routes() []string {
	r.table.mu.Lock()
	defer r.table.mu.Unlock()
	return slices.Clone(r.table.patterns)
}

// Chain wraps h so that middleware[0] runs first.
func Chain(h http.Handler, middleware ...Middleware) http.Handler {
	for i := len(middleware) - 1; i >= 0; i-- {
		h = middleware[i](h)
	}
	return h
}

package server

import (
	"fmt"
	"net/http"
)

// BasicRouter wires the export service's handlers onto an [http.ServeMux]
// behind a shared middleware chain. Every route the service exposes, the
// landing page, the OAuth login and callback, and the export download,
// answers GET only, so registrations are method-qualified and the mux
// rejects anything else with 405.
type BasicRouter struct {
	mux   *http.ServeMux
	chain []Middleware
}

// NewBasicRouter creates an empty router.
func NewBasicRouter() *BasicRouter {
	return &BasicRouter{mux: http.NewServeMux()}
}

// Use appends middleware to the chain. Middleware added first sees the
// request first. Handlers only pick up middleware registered before them,
// so wire the chain ahead of the handlers.
func (r *BasicRouter) Use(middleware ...Middleware) {
	r.chain = append(r.chain, middleware...)
}

// Handle registers a plain [http.Handler] under a method-qualified mux
// pattern, wrapped in the middleware chain.
func (r *BasicRouter) Handle(method, path string, handler http.Handler) {
	r.mux.Handle(fmt.Sprintf("%s %s", method, path), r.wrap(handler))
}

// Handler registers a service [Handler] on every route it declares, all
// as GET.
func (r *BasicRouter) Handler(handler Handler) {
	wrapped := r.wrap(handler)
	for _, route := range handler.Routes() {
		r.mux.Handle("GET "+route, wrapped)
	}
}

// ServeHTTP implements [http.Handler] for the entire router.
func (r *BasicRouter) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	r.mux.ServeHTTP(w, req)
}

// wrap applies the middleware chain so the earliest-added middleware is
// outermost.
func (r *BasicRouter) wrap(handler http.Handler) http.Handler {
	wrapped := handler
	for i := len(r.chain) - 1; i >= 0; i-- {
		wrapped = r.chain[i](wrapped)
	}
	return wrapped
}

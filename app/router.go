package app

import (
	"fmt"
	"regexp"

	"github.com/paystar/custody"
	"github.com/paystar/custody/errors"
)

// isPath is the regexp to ensure the message path is valid.
var isPath = regexp.MustCompile(`^[a-z0-9_]+(/[a-z0-9_]+)*$`).MatchString

// Router allows us to register many handlers with different message paths
// and then dispatch them to the proper handler. The message path is defined
// by the Path method of the transaction message.
type Router struct {
	routes map[string]custody.Handler
}

var _ custody.Registry = (*Router)(nil)
var _ custody.Handler = (*Router)(nil)

// NewRouter returns a new empty router instance.
func NewRouter() *Router {
	return &Router{
		routes: make(map[string]custody.Handler),
	}
}

// Handle adds a new handler for the given message path. It panics if the
// path is not valid or was already registered.
func (r *Router) Handle(path string, h custody.Handler) {
	if !isPath(path) {
		panic(fmt.Sprintf("invalid path: %q", path))
	}
	if _, ok := r.routes[path]; ok {
		panic(fmt.Sprintf("re-registering route: %q", path))
	}
	r.routes[path] = h
}

// Handler returns the handler registered for the given path. If no handler
// was registered, a handler returning ErrNotFound is returned.
func (r *Router) Handler(path string) custody.Handler {
	if h, ok := r.routes[path]; ok {
		return h
	}
	return notFoundHandler(path)
}

// Paths returns all registered paths, in no particular order.
func (r *Router) Paths() []string {
	paths := make([]string, 0, len(r.routes))
	for p := range r.routes {
		paths = append(paths, p)
	}
	return paths
}

// Check dispatches to the handler of the message path.
func (r *Router) Check(ctx custody.Context, db custody.KVStore, tx custody.Tx) (*custody.CheckResult, error) {
	msg, err := tx.GetMsg()
	if err != nil {
		return nil, errors.Wrap(err, "cannot load msg")
	}
	return r.Handler(msg.Path()).Check(ctx, db, tx)
}

// Deliver dispatches to the handler of the message path.
func (r *Router) Deliver(ctx custody.Context, db custody.KVStore, tx custody.Tx) (*custody.DeliverResult, error) {
	msg, err := tx.GetMsg()
	if err != nil {
		return nil, errors.Wrap(err, "cannot load msg")
	}
	return r.Handler(msg.Path()).Deliver(ctx, db, tx)
}

// notFoundHandler always returns ErrNotFound.
type notFoundHandler string

func (path notFoundHandler) Check(custody.Context, custody.KVStore, custody.Tx) (*custody.CheckResult, error) {
	return nil, errors.Wrapf(errors.ErrNotFound, "no handler for message path %q", string(path))
}

func (path notFoundHandler) Deliver(custody.Context, custody.KVStore, custody.Tx) (*custody.DeliverResult, error) {
	return nil, errors.Wrapf(errors.ErrNotFound, "no handler for message path %q", string(path))
}

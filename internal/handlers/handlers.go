// Package handlers implements the per-intent response handlers and the
// registry the dispatcher routes through.
package handlers

import (
	"context"

	"github.com/sohayok/sohayok/internal/core"
)

// Handler produces a response for one classified intent. Implementations
// return an error instead of a user-facing failure string; the dispatcher
// owns the localized error reply.
type Handler interface {
	Respond(ctx context.Context, intent *core.Intent, caller string, profile *core.Person) (string, error)
}

// HandlerFunc adapts a function to the Handler interface.
type HandlerFunc func(ctx context.Context, intent *core.Intent, caller string, profile *core.Person) (string, error)

func (f HandlerFunc) Respond(ctx context.Context, intent *core.Intent, caller string, profile *core.Person) (string, error) {
	return f(ctx, intent, caller, profile)
}

// Responder generates a free-form model reply.
type Responder interface {
	Respond(ctx context.Context, input string, lang core.Language, profile *core.Person) (string, error)
}

// Searcher answers web queries.
type Searcher interface {
	Search(ctx context.Context, query string, lang core.Language) (string, error)
	IsAvailable() bool
}

// Camera captures a photo and returns the saved path.
type Camera interface {
	Capture(ctx context.Context, target string) (string, error)
}

// Motion drives the robot base.
type Motion interface {
	Move(ctx context.Context, direction string) error
	Wave(ctx context.Context) error
}

// Recognizer identifies the person in front of the camera.
type Recognizer interface {
	Recognize(ctx context.Context) (string, error)
}

// Entertainer serves jokes, stories, and riddles.
type Entertainer interface {
	General(lang core.Language) string
	ForStudent(lang core.Language) string
	ForProfessional(lang core.Language) string
}

// Registry maps intent kinds to handlers.
type Registry struct {
	handlers map[core.IntentKind]Handler
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{handlers: make(map[core.IntentKind]Handler)}
}

// Register binds a handler to a kind, replacing any earlier binding.
func (r *Registry) Register(kind core.IntentKind, h Handler) {
	r.handlers[kind] = h
}

// Get returns the handler for a kind.
func (r *Registry) Get(kind core.IntentKind) (Handler, bool) {
	h, ok := r.handlers[kind]
	return h, ok
}

// Kinds returns the registered kinds.
func (r *Registry) Kinds() []core.IntentKind {
	kinds := make([]core.IntentKind, 0, len(r.handlers))
	for k := range r.handlers {
		kinds = append(kinds, k)
	}
	return kinds
}

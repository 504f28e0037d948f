// Package dispatch turns raw utterances into responses: classify, authorize,
// hand off to the intent's handler, and log the exchange.
package dispatch

import (
	"context"
	"log/slog"

	"github.com/sohayok/sohayok/internal/core"
	"github.com/sohayok/sohayok/internal/handlers"
	"github.com/sohayok/sohayok/internal/intent"
	"github.com/sohayok/sohayok/internal/roles"
)

// PersonDirectory is the people lookup the dispatcher needs.
type PersonDirectory interface {
	GetByName(name string) (*core.Person, error)
	Touch(name string) error
}

// ExchangeLog records completed turns.
type ExchangeLog interface {
	Append(e *core.Exchange) error
}

// Dispatcher routes classified intents. It never returns an error to the
// caller; every failure becomes a localized apology, and every turn is
// appended to the exchange log exactly once.
type Dispatcher struct {
	classifier *intent.Classifier
	registry   *handlers.Registry
	people     PersonDirectory
	exchanges  ExchangeLog
	logger     *slog.Logger
}

// New creates a dispatcher. people and exchanges may be nil, which disables
// profile lookup and turn logging respectively.
func New(classifier *intent.Classifier, registry *handlers.Registry, people PersonDirectory, exchanges ExchangeLog, logger *slog.Logger) *Dispatcher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Dispatcher{
		classifier: classifier,
		registry:   registry,
		people:     people,
		exchanges:  exchanges,
		logger:     logger,
	}
}

// Process classifies the utterance and dispatches it.
func (d *Dispatcher) Process(ctx context.Context, text string, lang core.Language, caller string) string {
	return d.Handle(ctx, d.classifier.Classify(text, lang), caller)
}

// Handle dispatches an already classified intent.
func (d *Dispatcher) Handle(ctx context.Context, in *core.Intent, caller string) string {
	profile := d.lookup(caller)

	response, outcome := d.run(ctx, in, caller, profile)

	if profile != nil && d.people != nil {
		if err := d.people.Touch(profile.Name); err != nil {
			d.logger.Warn("failed to update interaction count", "caller", profile.Name, "error", err)
		}
	}

	d.record(in, caller, response, outcome)

	d.logger.Info("dispatched intent",
		"kind", in.Kind,
		"confidence", in.Confidence,
		"language", in.Language,
		"caller", caller,
		"outcome", outcome,
	)

	return response
}

// run executes the authorization check and the handler. A panicking handler
// is converted to the generic error reply here so one bad handler cannot
// take down the loop.
func (d *Dispatcher) run(ctx context.Context, in *core.Intent, caller string, profile *core.Person) (response string, outcome core.Outcome) {
	defer func() {
		if r := recover(); r != nil {
			d.logger.Error("handler panicked", "kind", in.Kind, "panic", r)
			response = errorResponse(in.Language)
			outcome = core.OutcomeHandlerFailure
		}
	}()

	role := core.RoleFriend
	if profile != nil {
		role = profile.Role
	}

	if required := roles.Required(in.Kind); required != "" && !roles.Allowed(role, required) {
		return denialResponse(in.Kind, in.Language), core.OutcomePermissionDenied
	}

	outcome = core.OutcomeOK
	switch {
	case in.Kind == core.IntentUnknown || in.Confidence == 0:
		outcome = core.OutcomeNoMatch
	case in.Confidence < intent.ActionThreshold:
		outcome = core.OutcomeWeakMatch
	}

	handler, ok := d.registry.Get(in.Kind)
	if !ok {
		handler, ok = d.registry.Get(core.IntentUnknown)
		if !ok {
			return errorResponse(in.Language), core.OutcomeHandlerFailure
		}
		outcome = core.OutcomeNoMatch
	}

	response, err := handler.Respond(ctx, in, caller, profile)
	if err != nil {
		d.logger.Error("handler failed", "kind", in.Kind, "error", err)
		return errorResponse(in.Language), core.OutcomeHandlerFailure
	}

	return response, outcome
}

func (d *Dispatcher) lookup(caller string) *core.Person {
	if caller == "" || d.people == nil {
		return nil
	}
	profile, err := d.people.GetByName(caller)
	if err != nil {
		d.logger.Warn("profile lookup failed", "caller", caller, "error", err)
		return nil
	}
	return profile
}

func (d *Dispatcher) record(in *core.Intent, caller, response string, outcome core.Outcome) {
	if d.exchanges == nil {
		return
	}
	err := d.exchanges.Append(&core.Exchange{
		Caller:           caller,
		InputText:        in.Text,
		InputLanguage:    in.Language,
		IntentKind:       in.Kind,
		Confidence:       in.Confidence,
		ResponseText:     response,
		ResponseLanguage: in.Language,
		Outcome:          outcome,
	})
	if err != nil {
		d.logger.Error("failed to log exchange", "error", err)
	}
}

// denialResponse is the refusal for an unauthorized intent. Movement keeps
// its own wording so the robot explains who may move it.
func denialResponse(kind core.IntentKind, lang core.Language) string {
	if kind == core.IntentMovement {
		if lang == core.LangBangla {
			return "দুঃখিত, আমি শুধুমাত্র শিক্ষক বা প্রিন্সিপালের নির্দেশে চলাফেরা করতে পারি।"
		}
		return "Sorry, I can only move when instructed by teachers or the principal."
	}
	if lang == core.LangBangla {
		return "দুঃখিত, আপনার এই কাজটি করার অনুমতি নেই।"
	}
	return "Sorry, you don't have permission to do that."
}

func errorResponse(lang core.Language) string {
	if lang == core.LangBangla {
		return "দুঃখিত, কিছু সমস্যা হয়েছে। আবার চেষ্টা করুন।"
	}
	return "Sorry, something went wrong. Please try again."
}

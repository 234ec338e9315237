package access

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/odyssey-erp/todo/internal/platform/httpx"
	"github.com/odyssey-erp/todo/internal/shared"
)

// Decision outcomes reported to an Observer.
const (
	OutcomeAllow = "allow"
	OutcomeDeny  = "deny"
	OutcomeError = "config_error"
)

// Binder extracts the named arguments of an operation from a request.
// Errors wrapping shared.ErrInvalidInput produce a 400.
type Binder func(r *http.Request) (Args, error)

// HandlerFunc runs an operation once access is granted, receiving the
// arguments that were bound for the decision.
type HandlerFunc func(w http.ResponseWriter, r *http.Request, args Args)

// Endpoint couples an operation's access declaration with its handler.
type Endpoint struct {
	Operation
	Bind   Binder
	Handle HandlerFunc
}

// Observer receives access decisions, e.g. for metrics.
type Observer interface {
	ObserveAccess(operation, outcome string)
}

// Gate is the single pipeline stage that evaluates access before a handler.
type Gate struct {
	evaluator *Evaluator
	logger    *slog.Logger
	observer  Observer
}

// NewGate constructs a Gate. observer may be nil.
func NewGate(evaluator *Evaluator, logger *slog.Logger, observer Observer) *Gate {
	if logger == nil {
		logger = slog.Default()
	}
	return &Gate{evaluator: evaluator, logger: logger, observer: observer}
}

// Handler returns an http.HandlerFunc enforcing ep's policies.
func (g *Gate) Handler(ep Endpoint) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var args Args
		if ep.Bind != nil {
			bound, err := ep.Bind(r)
			if err != nil {
				if errors.Is(err, shared.ErrInvalidInput) {
					httpx.BadRequest(w, err.Error())
					return
				}
				g.logger.Error("bind arguments", slog.String("op", ep.Name), slog.Any("error", err))
				httpx.RespondError(w, err)
				return
			}
			args = bound
		}

		cc := CallContext{Claims: ClaimsFromContext(r.Context()), Args: args}
		allowed, err := g.evaluator.Evaluate(ep.Operation, cc)
		switch {
		case err != nil:
			g.observe(ep.Name, OutcomeError)
			g.logger.Error("access policy misconfigured", slog.String("op", ep.Name), slog.Any("error", err))
			httpx.Problem(w, http.StatusInternalServerError, "Internal Error", "")
			return
		case !allowed:
			g.observe(ep.Name, OutcomeDeny)
			g.logger.Debug("access denied", slog.String("op", ep.Name), slog.String("path", r.URL.Path))
			httpx.Denied(w)
			return
		}

		g.observe(ep.Name, OutcomeAllow)
		ep.Handle(w, r, args)
	}
}

func (g *Gate) observe(op, outcome string) {
	if g.observer != nil {
		g.observer.ObserveAccess(op, outcome)
	}
}

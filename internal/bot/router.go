// Package bot is the transport-agnostic command table: it maps command names
// to handlers over the transaction service and turns the error taxonomy into
// user-visible reply text. Scheduling and reply delivery belong to the
// transport adapter.
package bot

import (
	"context"
	"errors"

	"fireshot/internal/core"
	"fireshot/internal/firefly"
	"fireshot/internal/log"
	"fireshot/internal/resolver"
	"fireshot/internal/services"
)

const helpText = `Add a new transaction by giving amount and description.
Use /undo to delete /last transaction.
Check categories with /cat and destination accounts with /dest`

// HandlerFunc handles one command invocation and returns the reply text.
type HandlerFunc func(ctx context.Context, args string) (string, error)

// Service is the command surface the router exposes.
type Service interface {
	Add(ctx context.Context, raw string) (string, error)
	Last(ctx context.Context) (string, error)
	Undo(ctx context.Context) (string, error)
	MatchDestination(ctx context.Context, fragment string) (string, error)
	MatchCategory(ctx context.Context, fragment string) (string, error)
}

// Router dispatches commands to handlers. Free text (empty command name)
// falls through to add.
type Router struct {
	commands map[string]HandlerFunc
	fallback HandlerFunc
	logger   *log.Logger
}

func NewRouter(svc Service, logger *log.Logger) *Router {
	r := &Router{
		commands: make(map[string]HandlerFunc),
		fallback: svc.Add,
		logger:   logger,
	}
	r.commands["start"] = func(ctx context.Context, args string) (string, error) {
		return "Hi! Send <amount> [description] to record an expense.", nil
	}
	r.commands["help"] = func(ctx context.Context, args string) (string, error) {
		return helpText, nil
	}
	r.commands["last"] = func(ctx context.Context, args string) (string, error) {
		return svc.Last(ctx)
	}
	r.commands["undo"] = func(ctx context.Context, args string) (string, error) {
		return svc.Undo(ctx)
	}
	r.commands["dest"] = func(ctx context.Context, args string) (string, error) {
		return svc.MatchDestination(ctx, args)
	}
	r.commands["cat"] = func(ctx context.Context, args string) (string, error) {
		return svc.MatchCategory(ctx, args)
	}
	return r
}

// Dispatch runs the named command (or the free-text fallback when command is
// empty) and always returns a reply for the user. Every failure is terminal
// for the single request; nothing is retried here.
func (r *Router) Dispatch(ctx context.Context, command, args string) string {
	handler := r.fallback
	if command != "" {
		var ok bool
		handler, ok = r.commands[command]
		if !ok {
			return "Unknown command. See /help."
		}
	}

	reply, err := handler(ctx, args)
	if err != nil {
		r.logger.Error("command failed",
			log.FieldCommand, command,
			log.FieldError, err)
		return replyForError(err)
	}
	return reply
}

// replyForError maps the error taxonomy to a human-readable reply.
func replyForError(err error) string {
	var parseErr *core.ParseError
	var apiErr *firefly.APIError
	var netErr *firefly.NetworkError

	switch {
	case errors.As(err, &parseErr):
		return "Could not parse message. Expected: <amount> [description]"
	case errors.Is(err, resolver.ErrEmptyName):
		return "Cannot create an entity with an empty name."
	case errors.Is(err, services.ErrNoDestination):
		return "Could not identify destination account."
	case errors.Is(err, firefly.ErrNoTransactions):
		return "No matching transaction found."
	case errors.As(err, &apiErr):
		return "Ledger request failed: " + apiErr.Error()
	case errors.As(err, &netErr):
		return "Could not reach the ledger backend. Please try again."
	default:
		return "Something went wrong: " + err.Error()
	}
}

// Package services orchestrates the add / last / undo operations on top of
// the parser, the resolver and the ledger client.
package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"fireshot/internal/core"
	"fireshot/internal/firefly"
	"fireshot/internal/log"
)

// ErrNoDestination is returned when neither the message nor the configured
// default yields a destination account.
var ErrNoDestination = errors.New("could not identify destination account")

const (
	// withdrawalWindow bounds the "last transaction" query.
	withdrawalWindow = 365 * 24 * time.Hour

	transactionNote = "Added via Telegram"

	// dateLayout is ISO-8601 without offset at second precision, the
	// backend's expected local-clock representation.
	dateLayout = "2006-01-02T15:04:05"
)

// Ledger is the slice of the backend client the service needs.
type Ledger interface {
	CreateTransaction(ctx context.Context, payload firefly.TransactionPayload) error
	LatestWithdrawal(ctx context.Context, accountID string, window time.Duration) (*firefly.TransactionGroup, error)
	DeleteTransaction(ctx context.Context, id string) error
}

// EntityResolver resolves name fragments to entities.
type EntityResolver interface {
	Resolve(ctx context.Context, kind core.EntityKind, fragment string) (core.Entity, bool, error)
}

type TransactionService struct {
	ledger   Ledger
	resolver EntityResolver
	sourceID string
	logger   *log.Logger
	now      func() time.Time
}

func NewTransactionService(ledger Ledger, resolver EntityResolver, sourceID string, logger *log.Logger) *TransactionService {
	return &TransactionService{
		ledger:   ledger,
		resolver: resolver,
		sourceID: sourceID,
		logger:   logger,
		now:      time.Now,
	}
}

// Add parses one raw message, resolves its entities and submits a withdrawal.
// The reply is the submitted payload rendered as JSON. The steps run
// strictly in order: a failed parse or resolution never reaches the backend.
func (s *TransactionService) Add(ctx context.Context, raw string) (string, error) {
	intent, err := core.ParseIntent(raw)
	if err != nil {
		return "", err
	}

	destination, ok, err := s.resolver.Resolve(ctx, core.KindAccount, intent.Destination)
	if err != nil {
		return "", err
	}
	if !ok {
		return "", ErrNoDestination
	}

	var categoryID string
	category, ok, err := s.resolver.Resolve(ctx, core.KindCategory, intent.Category)
	if err != nil {
		return "", err
	}
	if ok {
		categoryID = category.ID
	}

	payload := s.assemble(intent, destination.ID, categoryID)
	if err := s.ledger.CreateTransaction(ctx, payload); err != nil {
		return "", err
	}

	s.logger.Info("transaction added",
		"amount", payload.Transactions[0].Amount,
		"destination", destination.Name)
	reply, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("render payload: %w", err)
	}
	return string(reply), nil
}

// assemble builds the backend payload. The amount is formatted with exactly
// two decimals; shopspring's StringFixed rounds half away from zero, which
// is deterministic. The category is included only when one was resolved:
// omission means "no category" to the backend.
func (s *TransactionService) assemble(intent core.Intent, destinationID, categoryID string) firefly.TransactionPayload {
	return firefly.TransactionPayload{
		ApplyRules: true,
		Transactions: []firefly.NewTransaction{{
			Type:          firefly.TypeWithdrawal,
			Date:          s.now().Format(dateLayout),
			Amount:        intent.Amount.StringFixed(2),
			Description:   intent.Description,
			SourceID:      s.sourceID,
			DestinationID: destinationID,
			CategoryID:    categoryID,
			Notes:         transactionNote,
		}},
	}
}

// Last renders the most recent withdrawal without mutating anything.
func (s *TransactionService) Last(ctx context.Context) (string, error) {
	summary, _, err := s.lastTransaction(ctx)
	return summary, err
}

// Undo deletes the most recent withdrawal and reports what was removed.
// Deletion is immediate; there is no pending state.
func (s *TransactionService) Undo(ctx context.Context) (string, error) {
	summary, id, err := s.lastTransaction(ctx)
	if err != nil {
		return "", err
	}
	if err := s.ledger.DeleteTransaction(ctx, id); err != nil {
		return "", err
	}
	s.logger.Info("transaction deleted", log.FieldEntityID, id)
	return "Deleted: " + summary, nil
}

func (s *TransactionService) lastTransaction(ctx context.Context) (summary, id string, err error) {
	group, err := s.ledger.LatestWithdrawal(ctx, s.sourceID, withdrawalWindow)
	if err != nil {
		return "", "", err
	}
	return renderTransaction(group), group.ID, nil
}

// renderTransaction produces the one-line summary used by both /last and
// /undo confirmations.
func renderTransaction(group *firefly.TransactionGroup) string {
	split := group.Splits[0]
	amount := split.Amount
	if parsed, err := decimal.NewFromString(split.Amount); err == nil {
		amount = parsed.StringFixed(2)
	}
	return fmt.Sprintf("%s %s %s, dest=%s, cat=%s, id=%s",
		amount, split.CurrencySymbol, split.Description,
		split.DestinationName, split.CategoryName, group.ID)
}

// MatchDestination resolves a destination fragment and returns the canonical
// name only. A creation-marker fragment still creates, as with add.
func (s *TransactionService) MatchDestination(ctx context.Context, fragment string) (string, error) {
	return s.match(ctx, core.KindAccount, fragment)
}

// MatchCategory resolves a category fragment and returns the canonical name.
func (s *TransactionService) MatchCategory(ctx context.Context, fragment string) (string, error) {
	return s.match(ctx, core.KindCategory, fragment)
}

func (s *TransactionService) match(ctx context.Context, kind core.EntityKind, fragment string) (string, error) {
	entity, ok, err := s.resolver.Resolve(ctx, kind, fragment)
	if err != nil {
		return "", err
	}
	if !ok {
		return "", fmt.Errorf("no %s matched %q", kind, fragment)
	}
	return entity.Name, nil
}

package firefly

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"fireshot/internal/core"
	"fireshot/internal/log"
)

const (
	AccountTypeAsset   = "asset"
	AccountTypeExpense = "expense"
	TypeWithdrawal     = "withdrawal"
)

type namedAttributes struct {
	Name string `json:"name"`
}

type transactionAttributes struct {
	Transactions []TransactionSplit `json:"transactions"`
}

// ListEntities fetches the full list for an entity kind: expense accounts
// or categories.
func (c *Client) ListEntities(ctx context.Context, kind core.EntityKind) ([]core.Entity, error) {
	switch kind {
	case core.KindAccount:
		return c.listNamed(ctx, "accounts/?type="+AccountTypeExpense)
	case core.KindCategory:
		return c.listNamed(ctx, "categories/")
	default:
		return nil, fmt.Errorf("unknown entity kind %q", kind)
	}
}

func (c *Client) listNamed(ctx context.Context, path string) ([]core.Entity, error) {
	resources, err := c.fetchList(ctx, path)
	if err != nil {
		return nil, err
	}
	entities := make([]core.Entity, 0, len(resources))
	for _, r := range resources {
		var attrs namedAttributes
		if err := json.Unmarshal(r.Attributes, &attrs); err != nil || attrs.Name == "" {
			c.logger.Error("skipping entity without a name", log.FieldEntityID, r.ID)
			continue
		}
		entities = append(entities, core.Entity{ID: r.ID, Name: attrs.Name})
	}
	return entities, nil
}

// CreateEntity creates a new entity of the given kind. No existing-name
// check is made; deduplication is the backend's concern.
func (c *Client) CreateEntity(ctx context.Context, kind core.EntityKind, name string) (core.Entity, error) {
	var (
		resource Resource
		err      error
	)
	switch kind {
	case core.KindAccount:
		resource, err = c.create(ctx, "accounts", map[string]string{
			"name": name,
			"type": AccountTypeExpense,
		})
	case core.KindCategory:
		resource, err = c.create(ctx, "categories", map[string]string{"name": name})
	default:
		return core.Entity{}, fmt.Errorf("unknown entity kind %q", kind)
	}
	if err != nil {
		return core.Entity{}, err
	}

	var attrs namedAttributes
	canonical := name
	if err := json.Unmarshal(resource.Attributes, &attrs); err == nil && attrs.Name != "" {
		canonical = attrs.Name
	}
	return core.Entity{ID: resource.ID, Name: canonical}, nil
}

// FindAccountID resolves an asset account name to its id. Used once at
// startup for the configured source account; the name must match exactly.
func (c *Client) FindAccountID(ctx context.Context, name string) (string, error) {
	resources, err := c.fetchList(ctx, "accounts/?type="+AccountTypeAsset)
	if err != nil {
		return "", err
	}
	for _, r := range resources {
		var attrs namedAttributes
		if err := json.Unmarshal(r.Attributes, &attrs); err != nil {
			continue
		}
		if attrs.Name == name {
			return r.ID, nil
		}
	}
	return "", fmt.Errorf("asset account %q not found", name)
}

// CreateTransaction submits a transaction payload.
func (c *Client) CreateTransaction(ctx context.Context, payload TransactionPayload) error {
	_, err := c.create(ctx, "transactions", payload)
	return err
}

// DeleteTransaction deletes a transaction group by id.
func (c *Client) DeleteTransaction(ctx context.Context, id string) error {
	return c.remove(ctx, "transactions/"+id)
}

// LatestWithdrawal returns the most recent withdrawal on the account within
// the trailing window, or ErrNoTransactions. Only the first page is
// consulted; the backend sorts newest first and limit=1 is requested.
func (c *Client) LatestWithdrawal(ctx context.Context, accountID string, window time.Duration) (*TransactionGroup, error) {
	end := time.Now()
	start := end.Add(-window)
	path := fmt.Sprintf("accounts/%s/transactions/?type=%s&limit=1&start=%s&end=%s",
		accountID, TypeWithdrawal, start.Format("2006-01-02"), end.Format("2006-01-02"))

	resources, err := c.fetchFirstPage(ctx, path)
	if err != nil {
		return nil, err
	}
	if len(resources) == 0 {
		return nil, ErrNoTransactions
	}

	r := resources[0]
	var attrs transactionAttributes
	if err := json.Unmarshal(r.Attributes, &attrs); err != nil || len(attrs.Transactions) == 0 {
		return nil, fmt.Errorf("transaction %s: %w", r.ID, ErrMalformedResponse)
	}
	return &TransactionGroup{ID: r.ID, Splits: attrs.Transactions}, nil
}

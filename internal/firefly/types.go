package firefly

import "encoding/json"

// envelope is the JSON:API-style wrapper Firefly puts around every response.
// Data is kept raw because its shape depends on the resource.
type envelope struct {
	Data  json.RawMessage `json:"data"`
	Links *pageLinks      `json:"links"`
}

// pageLinks is present on paginated list responses. A next link distinct
// from last means more pages follow.
type pageLinks struct {
	Self string `json:"self"`
	Next string `json:"next"`
	Last string `json:"last"`
}

// Resource is one element of a data array: an opaque id plus
// resource-specific attributes.
type Resource struct {
	ID         string          `json:"id"`
	Type       string          `json:"type"`
	Attributes json.RawMessage `json:"attributes"`
}

// TransactionSplit is the read-side shape of one split inside a stored
// transaction group.
type TransactionSplit struct {
	Amount          string `json:"amount"`
	CurrencySymbol  string `json:"currency_symbol"`
	Description     string `json:"description"`
	DestinationName string `json:"destination_name"`
	CategoryName    string `json:"category_name"`
}

// TransactionGroup is a stored transaction with its splits.
type TransactionGroup struct {
	ID     string
	Splits []TransactionSplit
}

// TransactionPayload is the write-side shape for creating a transaction.
type TransactionPayload struct {
	ApplyRules   bool             `json:"apply_rules"`
	Transactions []NewTransaction `json:"transactions"`
}

// NewTransaction is one split of a transaction being created. Amount is a
// fixed two-decimal string and Date a local-clock ISO-8601 timestamp without
// offset, as the backend expects.
type NewTransaction struct {
	Type          string `json:"type"`
	Date          string `json:"date"`
	Amount        string `json:"amount"`
	Description   string `json:"description"`
	SourceID      string `json:"source_id"`
	DestinationID string `json:"destination_id"`
	CategoryID    string `json:"category_id,omitempty"`
	Notes         string `json:"notes,omitempty"`
}

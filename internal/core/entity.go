// Package core holds the domain types shared by the parser, resolver and
// transaction service: entity identities and the parsed transaction intent.
package core

// EntityKind distinguishes the two backend lists the bot resolves names
// against.
type EntityKind string

const (
	KindAccount  EntityKind = "account"
	KindCategory EntityKind = "category"
)

// CreateMarker is the reserved prefix that turns a fragment into a request
// to create a new entity instead of matching an existing one.
const CreateMarker = "+"

// Entity is a resolved ledger entity: an opaque backend id plus the
// canonical human-readable name.
type Entity struct {
	ID   string
	Name string
}

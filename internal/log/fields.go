package log

// Common field names for structured logging
const (
	FieldComponent = "component"
	FieldError     = "error"
	FieldMethod    = "method"
	FieldURL       = "url"
	FieldStatus    = "status"
	FieldKind      = "kind"
	FieldFragment  = "fragment"
	FieldMatch     = "match"
	FieldScore     = "score"
	FieldEntityID  = "entity_id"
	FieldUserID    = "user_id"
	FieldChatID    = "chat_id"
	FieldCommand   = "command"
)

// Components defines standard component names
const (
	ComponentApp      = "app"
	ComponentFirefly  = "firefly"
	ComponentCache    = "cache"
	ComponentResolver = "resolver"
	ComponentService  = "service"
	ComponentBot      = "bot"
	ComponentTelegram = "telegram"
)

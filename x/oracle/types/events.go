package types

// Oracle module event type constants
const (
	EventTypeCreateRequest  = "create_request"
	EventTypeHandleResponse = "handle_response"
)

// Event attribute keys, also used as structured log keys
const (
	AttributeKeySlot     = "slot"
	AttributeKeyCallback = "callback"
	AttributeKeyValue    = "value"
	AttributeKeyAccount  = "account"
)

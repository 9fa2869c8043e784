package domain

import "time"

// Role identifies who produced a conversation turn.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Turn is a single entry in a session transcript. Turns are immutable once
// created and are only ever appended in chronological order.
type Turn struct {
	Role Role   `json:"role"`
	Text string `json:"text"`
}

// Action is the structured action carried by an intent.
type Action string

const (
	ActionNone        Action = "NONE"
	ActionCreateOrder Action = "CREATE_ORDER"
)

// Intent is the structured decision decoded from the assistant's free-text
// reply: the message to show the shopper plus an optional purchase action.
//
// Invariant: Action == ActionCreateOrder implies Item is non-empty, and
// Quantity is always >= 1.
type Intent struct {
	Message  string `json:"message"`
	Action   Action `json:"action"`
	Item     string `json:"item,omitempty"`
	Quantity int    `json:"quantity,omitempty"`
}

// OrderRecord is a confirmed order appended to the ledger. Records are
// never edited or deleted within a session.
type OrderRecord struct {
	ID        string    `json:"id"`
	Item      string    `json:"item"`
	Quantity  int       `json:"quantity"`
	CreatedAt time.Time `json:"created_at"`
}

// CompletionRequest is the canonical outbound request body sent to the
// remote completion service. The source revisions used several casings for
// these fields; snake_case is the documented wire schema here.
type CompletionRequest struct {
	StorePolicy    string `json:"store_policy"`
	ProductCatalog string `json:"product_catalog"`
	UserQuestion   string `json:"user_question"`
}

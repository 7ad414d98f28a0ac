// Package domain defines the types exchanged between the webhook
// transport, the session store, and the external service adapters.
package domain

import "encoding/json"

// EmptyContext is the dialog context of a session that has not spoken
// to the dialog engine yet.
var EmptyContext = json.RawMessage(`{}`)

// Session is the conversation state kept per sender. Context and
// PreviousContext are opaque dialog-engine blobs and must round-trip
// byte-for-byte; the bridge never looks inside them.
type Session struct {
	SenderID        string          `json:"sender_id"`
	Context         json.RawMessage `json:"context"`
	PreviousContext json.RawMessage `json:"prev_context"`
	LastQuery       string          `json:"legit_query"`
}

// NewSession returns the initial session for a first-seen sender.
func NewSession(senderID string) *Session {
	return &Session{
		SenderID:        senderID,
		Context:         EmptyContext,
		PreviousContext: EmptyContext,
		LastQuery:       "",
	}
}

// SessionKey derives the store key for a sender. The secret prefix
// namespaces keys between deployments sharing a cache; it is not a
// security boundary.
func SessionKey(secret, senderID string) string {
	return secret + senderID
}

package domain

import "encoding/json"

// WebhookPayload is one webhook delivery from the platform.
type WebhookPayload struct {
	Object string  `json:"object"`
	Entry  []Entry `json:"entry"`
}

// Entry groups the events delivered for one page.
type Entry struct {
	ID        string  `json:"id"`
	Time      int64   `json:"time"`
	Messaging []Event `json:"messaging"`
}

// Party identifies a sender or recipient.
type Party struct {
	ID string `json:"id"`
}

// Event is one messaging event. The platform sets exactly one of the
// optional payload fields; Kind reports which.
type Event struct {
	Sender    Party `json:"sender"`
	Recipient Party `json:"recipient"`
	Timestamp int64 `json:"timestamp"`

	Optin       *Optin       `json:"optin,omitempty"`
	Message     *Message     `json:"message,omitempty"`
	Delivery    *Delivery    `json:"delivery,omitempty"`
	Postback    *Postback    `json:"postback,omitempty"`
	Read        *Read        `json:"read,omitempty"`
	AccountLink *AccountLink `json:"account_linking,omitempty"`
}

// Optin is the "Send to Messenger" authentication event.
type Optin struct {
	Ref string `json:"ref"`
}

// Message carries user input, either text or attachments but not both.
type Message struct {
	MID         string            `json:"mid,omitempty"`
	Text        string            `json:"text,omitempty"`
	Attachments []EventAttachment `json:"attachments,omitempty"`
}

// EventAttachment is an attachment on an inbound message. The payload
// shape varies by type and is kept raw.
type EventAttachment struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// Delivery confirms delivery of previously sent messages.
type Delivery struct {
	MIDs      []string `json:"mids"`
	Watermark int64    `json:"watermark"`
	Seq       int64    `json:"seq"`
}

// Postback signals a button or menu tap with a developer-defined payload.
type Postback struct {
	Payload string `json:"payload"`
}

// Read signals that messages up to the watermark have been read.
type Read struct {
	Watermark int64 `json:"watermark"`
	Seq       int64 `json:"seq"`
}

// AccountLink signals a Link Account or Unlink Account action.
type AccountLink struct {
	Status            string `json:"status"`
	AuthorizationCode string `json:"authorization_code,omitempty"`
}

// EventKind classifies an inbound event.
type EventKind int

const (
	KindUnknown EventKind = iota
	KindOptin
	KindMessage
	KindDelivery
	KindPostback
	KindRead
	KindAccountLink
)

var eventKindNames = map[EventKind]string{
	KindUnknown:     "unknown",
	KindOptin:       "optin",
	KindMessage:     "message",
	KindDelivery:    "delivery",
	KindPostback:    "postback",
	KindRead:        "read",
	KindAccountLink: "account_linking",
}

func (k EventKind) String() string {
	if name, ok := eventKindNames[k]; ok {
		return name
	}
	return "unknown"
}

// Kind classifies the event by which payload field is present, in the
// platform's documented priority order. Events with no recognized field
// are KindUnknown and get dropped by the dispatcher.
func (e *Event) Kind() EventKind {
	switch {
	case e.Optin != nil:
		return KindOptin
	case e.Message != nil:
		return KindMessage
	case e.Delivery != nil:
		return KindDelivery
	case e.Postback != nil:
		return KindPostback
	case e.Read != nil:
		return KindRead
	case e.AccountLink != nil:
		return KindAccountLink
	default:
		return KindUnknown
	}
}

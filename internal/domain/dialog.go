package domain

import "encoding/json"

// DialogRequest is one turn sent to the dialog engine. Context is the
// opaque blob from the sender's session, passed through unmodified.
type DialogRequest struct {
	Input   DialogInput     `json:"input"`
	Context json.RawMessage `json:"context,omitempty"`
}

// DialogInput wraps the user's free text.
type DialogInput struct {
	Text string `json:"text"`
}

// DialogResponse is the dialog engine's answer: the updated context plus
// the structured output to relay to the user.
type DialogResponse struct {
	Context json.RawMessage `json:"context"`
	Output  DialogOutput    `json:"output"`
}

// DialogOutput is the renderable part of a dialog response. Text holds
// the reply candidates in order; only the first is sent. Attachment,
// Buttons and QuickReplies are optional decorations the mapper turns
// into platform shapes.
type DialogOutput struct {
	Text         []string          `json:"text"`
	Attachment   *DialogAttachment `json:"attachment,omitempty"`
	Buttons      []Button          `json:"button,omitempty"`
	QuickReplies []QuickReply      `json:"quick_reply,omitempty"`
}

// DialogAttachment is a media pointer produced by the dialog engine.
type DialogAttachment struct {
	Type string `json:"type"`
	URL  string `json:"url"`
}

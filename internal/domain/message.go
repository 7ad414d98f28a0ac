package domain

// Sender actions accepted by the Send API alongside regular messages.
const (
	ActionMarkSeen  = "mark_seen"
	ActionTypingOn  = "typing_on"
	ActionTypingOff = "typing_off"
)

// OutboundMessage is one payload for the platform Send API. Either
// Message or SenderAction is set, never both, and it always addresses
// exactly one recipient.
type OutboundMessage struct {
	Recipient    Party        `json:"recipient"`
	Message      *MessageBody `json:"message,omitempty"`
	SenderAction string       `json:"sender_action,omitempty"`
}

// MessageBody is the message part of an outbound payload. The platform
// schema allows text or an attachment, and quick replies only together
// with plain text.
type MessageBody struct {
	Text         string              `json:"text,omitempty"`
	Attachment   *OutboundAttachment `json:"attachment,omitempty"`
	QuickReplies []QuickReply        `json:"quick_replies,omitempty"`
}

// OutboundAttachment is a media attachment or a structured template.
type OutboundAttachment struct {
	Type    string            `json:"type"`
	Payload AttachmentPayload `json:"payload"`
}

// AttachmentPayload covers both media payloads (URL) and template
// payloads (template type, text, buttons).
type AttachmentPayload struct {
	URL          string   `json:"url,omitempty"`
	TemplateType string   `json:"template_type,omitempty"`
	Text         string   `json:"text,omitempty"`
	Buttons      []Button `json:"buttons,omitempty"`
}

// Button is one call-to-action inside a button template.
type Button struct {
	Type    string `json:"type"`
	Title   string `json:"title,omitempty"`
	URL     string `json:"url,omitempty"`
	Payload string `json:"payload,omitempty"`
}

// QuickReply is one quick-reply option attached to a text message.
type QuickReply struct {
	ContentType string `json:"content_type"`
	Title       string `json:"title,omitempty"`
	Payload     string `json:"payload,omitempty"`
	ImageURL    string `json:"image_url,omitempty"`
}

// SendReceipt is the Send API success response.
type SendReceipt struct {
	RecipientID string `json:"recipient_id"`
	MessageID   string `json:"message_id"`
}

// NewTextMessage builds a plain text message.
func NewTextMessage(recipientID, text string) *OutboundMessage {
	return &OutboundMessage{
		Recipient: Party{ID: recipientID},
		Message:   &MessageBody{Text: text},
	}
}

// NewQuickReplyMessage builds a text message carrying quick replies.
func NewQuickReplyMessage(recipientID, text string, replies []QuickReply) *OutboundMessage {
	return &OutboundMessage{
		Recipient: Party{ID: recipientID},
		Message:   &MessageBody{Text: text, QuickReplies: replies},
	}
}

// NewAttachmentMessage builds a media attachment message.
func NewAttachmentMessage(recipientID, attachmentType, url string) *OutboundMessage {
	return &OutboundMessage{
		Recipient: Party{ID: recipientID},
		Message: &MessageBody{
			Attachment: &OutboundAttachment{
				Type:    attachmentType,
				Payload: AttachmentPayload{URL: url},
			},
		},
	}
}

// NewButtonTemplateMessage builds a button template message.
func NewButtonTemplateMessage(recipientID, text string, buttons []Button) *OutboundMessage {
	return &OutboundMessage{
		Recipient: Party{ID: recipientID},
		Message: &MessageBody{
			Attachment: &OutboundAttachment{
				Type: "template",
				Payload: AttachmentPayload{
					TemplateType: "button",
					Text:         text,
					Buttons:      buttons,
				},
			},
		},
	}
}

// NewAccountLinkMessage builds a button template with the account-linking
// call-to-action pointing at the bridge's /authorize page.
func NewAccountLinkMessage(recipientID, text, authorizeURL string) *OutboundMessage {
	return NewButtonTemplateMessage(recipientID, text, []Button{
		{Type: "account_link", URL: authorizeURL},
	})
}

// NewSenderAction builds a sender-action payload (mark_seen, typing_on,
// typing_off).
func NewSenderAction(recipientID, action string) *OutboundMessage {
	return &OutboundMessage{
		Recipient:    Party{ID: recipientID},
		SenderAction: action,
	}
}

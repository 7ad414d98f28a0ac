package service

import "github.com/anoopsurendrananp/facebook-bot/internal/domain"

// MapResponse converts a dialog response into the single payload shape
// the platform accepts, with precedence attachment > button template >
// plain text. Quick replies only ride on plain text; the platform
// schema cannot combine them with the other shapes, so they are dropped
// there. Returns nil when the response has nothing sendable.
func MapResponse(recipientID string, resp *domain.DialogResponse) *domain.OutboundMessage {
	var text string
	if len(resp.Output.Text) > 0 {
		text = resp.Output.Text[0]
	}

	switch {
	case resp.Output.Attachment != nil:
		return domain.NewAttachmentMessage(recipientID, resp.Output.Attachment.Type, resp.Output.Attachment.URL)
	case len(resp.Output.Buttons) > 0:
		return domain.NewButtonTemplateMessage(recipientID, text, resp.Output.Buttons)
	case text == "":
		return nil
	case len(resp.Output.QuickReplies) > 0:
		return domain.NewQuickReplyMessage(recipientID, text, resp.Output.QuickReplies)
	default:
		return domain.NewTextMessage(recipientID, text)
	}
}

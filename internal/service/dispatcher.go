package service

import (
	"context"
	"fmt"

	"github.com/anoopsurendrananp/facebook-bot/internal/domain"
)

// HandleBatch processes one webhook delivery: entries in order, each
// entry's events in array order. Per-event failures are logged and
// never abort the batch; the transport acknowledges the whole delivery
// once regardless of per-event outcome.
func (s *Service) HandleBatch(ctx context.Context, payload *domain.WebhookPayload) {
	for _, entry := range payload.Entry {
		for i := range entry.Messaging {
			event := &entry.Messaging[i]
			if err := s.handleEvent(ctx, event); err != nil {
				s.logger.Error().
					Err(err).
					Str("page", entry.ID).
					Str("sender", event.Sender.ID).
					Str("kind", event.Kind().String()).
					Msg("event handling failed")
			}
		}
	}
}

func (s *Service) handleEvent(ctx context.Context, event *domain.Event) error {
	switch event.Kind() {
	case domain.KindOptin:
		return s.handleOptin(ctx, event)
	case domain.KindMessage:
		return s.handleMessage(ctx, event)
	case domain.KindDelivery:
		s.handleDelivery(event)
		return nil
	case domain.KindPostback:
		return s.handlePostback(ctx, event)
	case domain.KindRead:
		s.handleRead(event)
		return nil
	case domain.KindAccountLink:
		return s.handleAccountLink(ctx, event)
	default:
		s.logger.Warn().
			Str("sender", event.Sender.ID).
			Msg("dropping unknown event shape")
		return nil
	}
}

// handleOptin acknowledges a "Send to Messenger" authentication event.
func (s *Service) handleOptin(ctx context.Context, event *domain.Event) error {
	s.logger.Info().
		Str("sender", event.Sender.ID).
		Str("recipient", event.Recipient.ID).
		Str("ref", event.Optin.Ref).
		Int64("timestamp", event.Timestamp).
		Msg("received authentication")

	if _, err := s.gateway.Send(ctx, domain.NewTextMessage(event.Sender.ID, "Authentication successful")); err != nil {
		return fmt.Errorf("failed to acknowledge optin: %w", err)
	}
	return nil
}

// handleMessage routes user input: text goes to the dialog engine,
// attachments get a fixed acknowledgment.
func (s *Service) handleMessage(ctx context.Context, event *domain.Event) error {
	msg := event.Message
	switch {
	case msg.Text != "":
		return s.Exchange(ctx, event.Sender.ID, msg.Text, false)
	case len(msg.Attachments) > 0:
		if _, err := s.gateway.Send(ctx, domain.NewTextMessage(event.Sender.ID, "Message with attachment received")); err != nil {
			return fmt.Errorf("failed to acknowledge attachment: %w", err)
		}
		return nil
	default:
		s.logger.Warn().Str("sender", event.Sender.ID).Msg("message event with no text or attachments")
		return nil
	}
}

// handlePostback runs a dialog turn with a forced empty context, so
// button-triggered flows never carry prior dialog state.
func (s *Service) handlePostback(ctx context.Context, event *domain.Event) error {
	s.logger.Info().
		Str("sender", event.Sender.ID).
		Str("payload", event.Postback.Payload).
		Msg("received postback")
	return s.Exchange(ctx, event.Sender.ID, "", true)
}

func (s *Service) handleDelivery(event *domain.Event) {
	for _, mid := range event.Delivery.MIDs {
		s.logger.Info().Str("message_id", mid).Msg("received delivery confirmation")
	}
	s.logger.Info().
		Int64("watermark", event.Delivery.Watermark).
		Msg("all messages before watermark delivered")
}

func (s *Service) handleRead(event *domain.Event) {
	s.logger.Info().
		Str("sender", event.Sender.ID).
		Int64("watermark", event.Read.Watermark).
		Int64("seq", event.Read.Seq).
		Msg("received message read event")
}

// handleAccountLink records the link status. After an unlink the sender
// gets a fresh call-to-action pointing at the authorize page.
func (s *Service) handleAccountLink(ctx context.Context, event *domain.Event) error {
	link := event.AccountLink
	s.logger.Info().
		Str("sender", event.Sender.ID).
		Str("status", link.Status).
		Str("auth_code", link.AuthorizationCode).
		Msg("received account link event")

	if link.Status == "unlinked" {
		msg := domain.NewAccountLinkMessage(event.Sender.ID, "Welcome. Link your account.", s.cfg.ServerURL+"/authorize")
		if _, err := s.gateway.Send(ctx, msg); err != nil {
			return fmt.Errorf("failed to send account link prompt: %w", err)
		}
	}
	return nil
}

package service

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/anoopsurendrananp/facebook-bot/internal/domain"
)

func messageEvent(senderID, text string) domain.Event {
	return domain.Event{
		Sender:  domain.Party{ID: senderID},
		Message: &domain.Message{Text: text},
	}
}

func TestHandleBatchRoutesMessageToDialog(t *testing.T) {
	dialog := &fakeDialog{}
	gateway := &fakeGateway{}
	svc, _, _ := newTestService(dialog, gateway)

	payload := &domain.WebhookPayload{
		Object: "page",
		Entry: []domain.Entry{
			{ID: "p1", Messaging: []domain.Event{messageEvent("u1", "hello")}},
		},
	}
	svc.HandleBatch(context.Background(), payload)

	if dialog.calls() != 1 || dialog.texts[0] != "hello" {
		t.Fatalf("expected one dialog call with the user text, got %v", dialog.texts)
	}
	sent := gateway.sentMessages()
	if len(sent) != 1 || sent[0].Message.Text != "ok" {
		t.Fatalf("expected the dialog reply to be sent, got %+v", sent)
	}
}

func TestHandleBatchDropsUnknownEvents(t *testing.T) {
	dialog := &fakeDialog{}
	gateway := &fakeGateway{}
	svc, _, _ := newTestService(dialog, gateway)

	payload := &domain.WebhookPayload{
		Object: "page",
		Entry: []domain.Entry{
			{ID: "p1", Messaging: []domain.Event{{Sender: domain.Party{ID: "u1"}}}},
		},
	}
	svc.HandleBatch(context.Background(), payload)

	if dialog.calls() != 0 || len(gateway.sentMessages()) != 0 {
		t.Fatalf("unknown events must be dropped silently")
	}
}

func TestHandleBatchFailureDoesNotAbortBatch(t *testing.T) {
	dialog := &fakeDialog{}
	dialog.respond = func(call int) (*domain.DialogResponse, error) {
		if call == 0 {
			return nil, errors.New("engine down")
		}
		return &domain.DialogResponse{
			Context: json.RawMessage(`{"turn":1}`),
			Output:  domain.DialogOutput{Text: []string{"ok"}},
		}, nil
	}
	gateway := &fakeGateway{}
	svc, _, _ := newTestService(dialog, gateway)

	payload := &domain.WebhookPayload{
		Object: "page",
		Entry: []domain.Entry{
			{ID: "p1", Messaging: []domain.Event{
				messageEvent("u1", "first"),
				messageEvent("u2", "second"),
			}},
		},
	}
	svc.HandleBatch(context.Background(), payload)

	if dialog.calls() != 2 {
		t.Fatalf("second event must still be processed, got %d calls", dialog.calls())
	}
	sent := gateway.sentMessages()
	if len(sent) != 1 || sent[0].Recipient.ID != "u2" {
		t.Fatalf("only the second sender gets a reply, got %+v", sent)
	}
}

func TestHandleBatchAcknowledgesAttachment(t *testing.T) {
	dialog := &fakeDialog{}
	gateway := &fakeGateway{}
	svc, _, _ := newTestService(dialog, gateway)

	payload := &domain.WebhookPayload{
		Object: "page",
		Entry: []domain.Entry{
			{ID: "p1", Messaging: []domain.Event{{
				Sender: domain.Party{ID: "u1"},
				Message: &domain.Message{
					Attachments: []domain.EventAttachment{{Type: "image"}},
				},
			}}},
		},
	}
	svc.HandleBatch(context.Background(), payload)

	if dialog.calls() != 0 {
		t.Fatalf("attachments never reach the dialog engine")
	}
	sent := gateway.sentMessages()
	if len(sent) != 1 || sent[0].Message.Text != "Message with attachment received" {
		t.Fatalf("unexpected acknowledgment: %+v", sent)
	}
}

func TestHandleBatchPostbackUsesEmptyContext(t *testing.T) {
	ctx := context.Background()
	dialog := &fakeDialog{}
	gateway := &fakeGateway{}
	svc, sessions, cfg := newTestService(dialog, gateway)

	seeded := domain.NewSession("u1")
	seeded.Context = json.RawMessage(`{"step":5}`)
	if err := sessions.Put(ctx, domain.SessionKey(cfg.AppSecret, "u1"), seeded); err != nil {
		t.Fatalf("Put failed: %v", err)
	}

	payload := &domain.WebhookPayload{
		Object: "page",
		Entry: []domain.Entry{
			{ID: "p1", Messaging: []domain.Event{{
				Sender:   domain.Party{ID: "u1"},
				Postback: &domain.Postback{Payload: "GET_STARTED"},
			}}},
		},
	}
	svc.HandleBatch(ctx, payload)

	if dialog.calls() != 1 {
		t.Fatalf("expected one dialog call, got %d", dialog.calls())
	}
	if string(dialog.contexts[0]) != "{}" {
		t.Fatalf("postback must force the empty context, got %s", dialog.contexts[0])
	}
}

func TestHandleBatchOptinSendsAck(t *testing.T) {
	dialog := &fakeDialog{}
	gateway := &fakeGateway{}
	svc, _, _ := newTestService(dialog, gateway)

	payload := &domain.WebhookPayload{
		Object: "page",
		Entry: []domain.Entry{
			{ID: "p1", Messaging: []domain.Event{{
				Sender: domain.Party{ID: "u1"},
				Optin:  &domain.Optin{Ref: "PASS_THROUGH"},
			}}},
		},
	}
	svc.HandleBatch(context.Background(), payload)

	sent := gateway.sentMessages()
	if len(sent) != 1 || sent[0].Message.Text != "Authentication successful" {
		t.Fatalf("unexpected optin ack: %+v", sent)
	}
}

func TestHandleBatchAccountUnlinkSendsPrompt(t *testing.T) {
	dialog := &fakeDialog{}
	gateway := &fakeGateway{}
	svc, _, _ := newTestService(dialog, gateway)

	payload := &domain.WebhookPayload{
		Object: "page",
		Entry: []domain.Entry{
			{ID: "p1", Messaging: []domain.Event{{
				Sender:      domain.Party{ID: "u1"},
				AccountLink: &domain.AccountLink{Status: "unlinked"},
			}}},
		},
	}
	svc.HandleBatch(context.Background(), payload)

	sent := gateway.sentMessages()
	if len(sent) != 1 || sent[0].Message.Attachment == nil {
		t.Fatalf("expected account link template, got %+v", sent)
	}
	buttons := sent[0].Message.Attachment.Payload.Buttons
	if len(buttons) != 1 || buttons[0].Type != "account_link" {
		t.Fatalf("unexpected buttons: %+v", buttons)
	}
}

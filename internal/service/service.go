// Package service implements event dispatch and the per-sender
// conversation exchange.
package service

import (
	"context"
	"encoding/json"

	"github.com/rs/zerolog"

	"github.com/anoopsurendrananp/facebook-bot/internal/config"
	"github.com/anoopsurendrananp/facebook-bot/internal/domain"
	"github.com/anoopsurendrananp/facebook-bot/internal/store"
)

// DialogClient is the dialog engine port.
type DialogClient interface {
	Message(ctx context.Context, text string, dialogContext json.RawMessage) (*domain.DialogResponse, error)
}

// SendGateway is the outbound delivery port.
type SendGateway interface {
	Send(ctx context.Context, msg *domain.OutboundMessage) (*domain.SendReceipt, error)
	SendAction(ctx context.Context, recipientID, action string) error
}

// Service owns the webhook event pipeline: classification, session
// state, dialog exchange, and reply delivery.
type Service struct {
	store   store.SessionStore
	dialog  DialogClient
	gateway SendGateway
	cfg     *config.Config
	logger  zerolog.Logger
	senders *keyedMutex
}

// New creates a service with all collaborators injected.
func New(sessions store.SessionStore, dialog DialogClient, gateway SendGateway, cfg *config.Config, logger zerolog.Logger) *Service {
	return &Service{
		store:   sessions,
		dialog:  dialog,
		gateway: gateway,
		cfg:     cfg,
		logger:  logger,
		senders: newKeyedMutex(),
	}
}

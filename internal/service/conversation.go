package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/anoopsurendrananp/facebook-bot/internal/domain"
	"github.com/anoopsurendrananp/facebook-bot/internal/store"
)

// Exchange runs one dialog turn for a sender: load the session, call
// the dialog engine, shift the context history, persist, map the
// response, and deliver it. welcome forces an empty dialog context, for
// postback-triggered flows that must not carry prior state.
//
// The whole read-modify-write is serialized per sender, so concurrent
// events for the same sender cannot lose context updates.
func (s *Service) Exchange(ctx context.Context, senderID, text string, welcome bool) error {
	unlock := s.senders.Lock(senderID)
	defer unlock()

	key := domain.SessionKey(s.cfg.AppSecret, senderID)
	session := s.loadSession(ctx, key, senderID)

	// Best effort; an undelivered typing indicator never blocks the turn.
	if err := s.gateway.SendAction(ctx, senderID, domain.ActionMarkSeen); err != nil {
		s.logger.Warn().Err(err).Str("sender", senderID).Msg("failed to send mark_seen")
	}
	if err := s.gateway.SendAction(ctx, senderID, domain.ActionTypingOn); err != nil {
		s.logger.Warn().Err(err).Str("sender", senderID).Msg("failed to send typing_on")
	}
	// The indicator must be cleared on every exit path, a failed dialog
	// call included, or it lingers until the platform times it out.
	defer func() {
		if err := s.gateway.SendAction(ctx, senderID, domain.ActionTypingOff); err != nil {
			s.logger.Warn().Err(err).Str("sender", senderID).Msg("failed to send typing_off")
		}
	}()

	dialogContext := session.Context
	if welcome {
		dialogContext = domain.EmptyContext
	}

	resp, err := s.dialog.Message(ctx, text, dialogContext)
	if err != nil {
		// Session stays unmodified and nothing is sent for this event.
		return fmt.Errorf("dialog engine call failed: %w", err)
	}

	session.PreviousContext = session.Context
	session.Context = resp.Context
	session.LastQuery = text
	if err := s.store.Put(ctx, key, session); err != nil {
		s.logger.Error().Err(err).Str("sender", senderID).Msg("failed to persist session")
	}

	msg := MapResponse(senderID, resp)
	if msg == nil {
		s.logger.Warn().Str("sender", senderID).Msg("dialog response had no sendable output")
		return nil
	}

	receipt, err := s.gateway.Send(ctx, msg)
	if err != nil {
		return fmt.Errorf("send gateway call failed: %w", err)
	}
	if receipt.MessageID != "" {
		s.logger.Info().
			Str("message_id", receipt.MessageID).
			Str("recipient", receipt.RecipientID).
			Msg("reply delivered")
	}
	return nil
}

// loadSession fetches the sender's session, creating and persisting a
// fresh one on first contact. Cache failures degrade to an empty
// session so the turn can still run.
func (s *Service) loadSession(ctx context.Context, key, senderID string) *domain.Session {
	session, err := s.store.Get(ctx, key)
	switch {
	case errors.Is(err, store.ErrNotFound):
		session = domain.NewSession(senderID)
		if err := s.store.Put(ctx, key, session); err != nil {
			s.logger.Error().Err(err).Str("sender", senderID).Msg("failed to initialize session")
		}
	case err != nil:
		s.logger.Error().Err(err).Str("sender", senderID).Msg("session lookup failed, using empty session")
		session = domain.NewSession(senderID)
	}
	return session
}

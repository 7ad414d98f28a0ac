package store

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/anoopsurendrananp/facebook-bot/internal/domain"
)

func newTestSQLiteStore(t *testing.T) *SQLiteStore {
	t.Helper()
	s, err := NewSQLiteStore(":memory:")
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestSQLiteStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	s := newTestSQLiteStore(t)

	if _, err := s.Get(ctx, "k1"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	session := &domain.Session{
		SenderID:        "u1",
		Context:         json.RawMessage(`{"a": 1}`),
		PreviousContext: json.RawMessage(`{}`),
		LastQuery:       "hi",
	}
	if err := s.Put(ctx, "k1", session); err != nil {
		t.Fatalf("Put failed: %v", err)
	}

	got, err := s.Get(ctx, "k1")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if string(got.Context) != `{"a": 1}` || got.SenderID != "u1" || got.LastQuery != "hi" {
		t.Fatalf("unexpected session: %+v", got)
	}

	ok, err := s.Exists(ctx, "k1")
	if err != nil || !ok {
		t.Fatalf("expected present key, got ok=%v err=%v", ok, err)
	}
	ok, err = s.Exists(ctx, "other")
	if err != nil || ok {
		t.Fatalf("expected absent key, got ok=%v err=%v", ok, err)
	}
}

func TestSQLiteStoreOverwrite(t *testing.T) {
	ctx := context.Background()
	s := newTestSQLiteStore(t)

	if err := s.Put(ctx, "k1", domain.NewSession("u1")); err != nil {
		t.Fatalf("Put failed: %v", err)
	}

	updated := domain.NewSession("u1")
	updated.Context = json.RawMessage(`{"turn":2}`)
	if err := s.Put(ctx, "k1", updated); err != nil {
		t.Fatalf("Put failed: %v", err)
	}

	got, err := s.Get(ctx, "k1")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if string(got.Context) != `{"turn":2}` {
		t.Fatalf("record not replaced: %+v", got)
	}
}

func TestSQLiteStoreFlush(t *testing.T) {
	ctx := context.Background()
	s := newTestSQLiteStore(t)

	if err := s.Put(ctx, "k1", domain.NewSession("u1")); err != nil {
		t.Fatalf("Put failed: %v", err)
	}
	if err := s.Put(ctx, "k2", domain.NewSession("u2")); err != nil {
		t.Fatalf("Put failed: %v", err)
	}
	if err := s.Flush(ctx); err != nil {
		t.Fatalf("Flush failed: %v", err)
	}
	for _, key := range []string{"k1", "k2"} {
		if _, err := s.Get(ctx, key); !errors.Is(err, ErrNotFound) {
			t.Fatalf("expected ErrNotFound for %s after flush, got %v", key, err)
		}
	}
}

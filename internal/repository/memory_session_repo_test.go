package repository

import (
	"context"
	"errors"
	"testing"

	"genchat/internal/domain"
)

func TestMemorySessionRepository(t *testing.T) {
	runSessionRepositoryContract(t, func(t *testing.T) SessionRepository {
		return NewMemorySessionRepository()
	})
}

func TestMemorySessionRepository_GetReturnsCopy(t *testing.T) {
	repo := NewMemorySessionRepository()
	ctx := context.Background()
	id, err := repo.Create(ctx, "t", domain.NewTurn("q", "a", domain.KindText))
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	session, _ := repo.GetByID(ctx, id)
	session.Messages[0].Content = "mutated"

	again, _ := repo.GetByID(ctx, id)
	if again.Messages[0].Content != "q" {
		t.Fatalf("expected stored history untouched, got %q", again.Messages[0].Content)
	}
}

func TestMemorySessionRepository_CancelledContext(t *testing.T) {
	repo := NewMemorySessionRepository()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := repo.Create(ctx, "t", domain.NewTurn("q", "a", domain.KindText)); !errors.Is(err, ErrStorageUnavailable) {
		t.Fatalf("expected ErrStorageUnavailable, got %v", err)
	}
	if !errors.Is(repo.AppendTurn(ctx, "x", domain.NewTurn("q", "a", domain.KindText)), ErrStorageUnavailable) {
		t.Fatalf("expected ErrStorageUnavailable on append")
	}
	if _, err := repo.GetByID(ctx, "x"); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected wrapped context.Canceled, got %v", err)
	}
}

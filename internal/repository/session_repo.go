package repository

import (
	"context"
	"errors"
	"fmt"

	"genchat/internal/domain"
)

var (
	ErrSessionNotFound    = errors.New("session not found")
	ErrStorageUnavailable = errors.New("storage unavailable")
)

// SessionRepository es el Session Store: historial append-only de turnos por sesion.
type SessionRepository interface {
	// Create asigna un id nuevo y guarda el titulo junto con el primer turno.
	Create(ctx context.Context, title string, first domain.Turn) (string, error)
	// AppendTurn agrega user y bot de forma atomica. Un id inexistente es ErrSessionNotFound.
	AppendTurn(ctx context.Context, id string, turn domain.Turn) error
	GetByID(ctx context.Context, id string) (domain.Session, error)
	// List devuelve las sesiones de la mas reciente a la mas antigua.
	List(ctx context.Context) ([]domain.SessionSummary, error)
	// Delete es idempotente.
	Delete(ctx context.Context, id string) error
}

// storageError conserva el sentinel y la causa del driver para errors.Is.
func storageError(op string, err error) error {
	return fmt.Errorf("%w: %s: %w", ErrStorageUnavailable, op, err)
}

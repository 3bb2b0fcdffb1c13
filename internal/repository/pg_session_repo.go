package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"genchat/internal/domain"
)

type PgSessionRepository struct {
	pool *pgxpool.Pool
}

func NewPgSessionRepository(pool *pgxpool.Pool) *PgSessionRepository {
	return &PgSessionRepository{pool: pool}
}

func (r *PgSessionRepository) Create(ctx context.Context, title string, first domain.Turn) (string, error) {
	if err := first.Validate(); err != nil {
		return "", err
	}
	payload, err := json.Marshal(first.Messages())
	if err != nil {
		return "", fmt.Errorf("marshal messages: %w", err)
	}

	const query = `
		INSERT INTO chat_sessions (id, title, messages, created_at)
		VALUES ($1, $2, $3::jsonb, $4)
	`
	id := uuid.NewString()
	if _, err := r.pool.Exec(ctx, query, id, title, payload, time.Now().UTC()); err != nil {
		return "", storageError("create session", err)
	}
	return id, nil
}

// AppendTurn concatena ambos mensajes en un unico UPDATE; el lock de fila serializa appends concurrentes.
func (r *PgSessionRepository) AppendTurn(ctx context.Context, id string, turn domain.Turn) error {
	if err := turn.Validate(); err != nil {
		return err
	}
	payload, err := json.Marshal(turn.Messages())
	if err != nil {
		return fmt.Errorf("marshal messages: %w", err)
	}

	const query = `
		UPDATE chat_sessions
		SET messages = messages || $2::jsonb
		WHERE id = $1
	`
	tag, err := r.pool.Exec(ctx, query, id, payload)
	if err != nil {
		return storageError("append turn", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrSessionNotFound
	}
	return nil
}

func (r *PgSessionRepository) GetByID(ctx context.Context, id string) (domain.Session, error) {
	const query = `
		SELECT id, title, messages, created_at
		FROM chat_sessions
		WHERE id = $1
	`
	var (
		session domain.Session
		raw     []byte
	)
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&session.ID,
		&session.Title,
		&raw,
		&session.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Session{}, ErrSessionNotFound
	}
	if err != nil {
		return domain.Session{}, storageError("get session", err)
	}
	if err := json.Unmarshal(raw, &session.Messages); err != nil {
		return domain.Session{}, fmt.Errorf("unmarshal messages: %w", err)
	}
	return session, nil
}

func (r *PgSessionRepository) List(ctx context.Context) ([]domain.SessionSummary, error) {
	const query = `
		SELECT id, title
		FROM chat_sessions
		ORDER BY created_at DESC, id DESC
	`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, storageError("list sessions", err)
	}
	defer rows.Close()

	summaries := []domain.SessionSummary{}
	for rows.Next() {
		var s domain.SessionSummary
		if err := rows.Scan(&s.ID, &s.Title); err != nil {
			return nil, storageError("scan session", err)
		}
		summaries = append(summaries, s)
	}
	if err := rows.Err(); err != nil {
		return nil, storageError("list sessions", err)
	}
	return summaries, nil
}

func (r *PgSessionRepository) Delete(ctx context.Context, id string) error {
	const query = `DELETE FROM chat_sessions WHERE id = $1`
	if _, err := r.pool.Exec(ctx, query, id); err != nil {
		return storageError("delete session", err)
	}
	return nil
}

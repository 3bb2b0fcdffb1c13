package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"

	"genchat/internal/domain"
	"genchat/internal/repository"
)

const defaultStoreTimeout = 5 * time.Second

var ErrChatServiceNotConfigured = errors.New("chat session service not configured")

// SaveTurnInput es un intercambio ya generado que se quiere persistir.
type SaveTurnInput struct {
	Prompt    string
	Answer    string
	Kind      domain.Kind
	SessionID string
}

// ChatSessionService persiste turnos completos en el Session Store.
// No reintenta: los errores de storage se devuelven tal cual.
type ChatSessionService struct {
	repo         repository.SessionRepository
	logger       *zap.Logger
	storeTimeout time.Duration
}

func NewChatSessionService(repo repository.SessionRepository, logger *zap.Logger, storeTimeout time.Duration) *ChatSessionService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if storeTimeout <= 0 {
		storeTimeout = defaultStoreTimeout
	}
	return &ChatSessionService{repo: repo, logger: logger, storeTimeout: storeTimeout}
}

// SaveTurn crea una sesion nueva si SessionID esta vacio, o agrega el turno a la existente.
// Devuelve el id resuelto.
func (s *ChatSessionService) SaveTurn(ctx context.Context, in SaveTurnInput) (string, error) {
	if s == nil || s.repo == nil {
		return "", ErrChatServiceNotConfigured
	}

	sessionID := strings.TrimSpace(in.SessionID)
	if strings.TrimSpace(in.Prompt) == "" || strings.TrimSpace(in.Answer) == "" {
		return "", ErrInvalidInput
	}
	kind := in.Kind
	if strings.TrimSpace(string(kind)) == "" {
		kind = domain.KindText
	}
	// El contenido se guarda tal cual; solo el titulo se normaliza.
	turn := domain.NewTurn(in.Prompt, in.Answer, kind)

	ctx, cancel := context.WithTimeout(ctx, s.storeTimeout)
	defer cancel()

	if sessionID == "" {
		id, err := s.repo.Create(ctx, domain.TitleFromPrompt(in.Prompt), turn)
		if err != nil {
			return "", err
		}
		s.logger.Debug("session created", zap.String("session_id", id))
		return id, nil
	}

	if err := s.repo.AppendTurn(ctx, sessionID, turn); err != nil {
		return "", err
	}
	return sessionID, nil
}

func (s *ChatSessionService) ListSessions(ctx context.Context) ([]domain.SessionSummary, error) {
	if s == nil || s.repo == nil {
		return nil, ErrChatServiceNotConfigured
	}
	ctx, cancel := context.WithTimeout(ctx, s.storeTimeout)
	defer cancel()
	return s.repo.List(ctx)
}

func (s *ChatSessionService) GetSession(ctx context.Context, sessionID string) (domain.Session, error) {
	if s == nil || s.repo == nil {
		return domain.Session{}, ErrChatServiceNotConfigured
	}
	sessionID = strings.TrimSpace(sessionID)
	if sessionID == "" {
		return domain.Session{}, repository.ErrSessionNotFound
	}
	ctx, cancel := context.WithTimeout(ctx, s.storeTimeout)
	defer cancel()
	return s.repo.GetByID(ctx, sessionID)
}

// DeleteSession es idempotente; un id vacio no hace nada.
func (s *ChatSessionService) DeleteSession(ctx context.Context, sessionID string) error {
	if s == nil || s.repo == nil {
		return ErrChatServiceNotConfigured
	}
	sessionID = strings.TrimSpace(sessionID)
	if sessionID == "" {
		return nil
	}
	ctx, cancel := context.WithTimeout(ctx, s.storeTimeout)
	defer cancel()
	return s.repo.Delete(ctx, sessionID)
}

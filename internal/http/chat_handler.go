package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"genchat/internal/domain"
	"genchat/internal/repository"
	"genchat/internal/service"
)

// ChatHandler mantiene dependencias para endpoints de sesiones de chat.
type ChatHandler struct {
	logger *zap.Logger
	chats  *service.ChatSessionService
}

// NewChatHandler crea una instancia de ChatHandler con dependencias necesarias.
func NewChatHandler(logger *zap.Logger, chats *service.ChatSessionService) *ChatHandler {
	return &ChatHandler{
		logger: logger,
		chats:  chats,
	}
}

// SaveChat maneja POST /save-chat.
func (h *ChatHandler) SaveChat(c *gin.Context) {
	var req struct {
		Prompt   string `json:"prompt"`
		Response string `json:"response"`
		Mode     string `json:"mode"`
		ChatID   string `json:"chat_id"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid save chat request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	id, err := h.chats.SaveTurn(c.Request.Context(), service.SaveTurnInput{
		Prompt:    req.Prompt,
		Answer:    req.Response,
		Kind:      domain.Kind(req.Mode),
		SessionID: req.ChatID,
	})
	if err != nil {
		h.writeStoreError(c, "save chat", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"chat_id": id})
}

// ListChats maneja GET /get-chats.
func (h *ChatHandler) ListChats(c *gin.Context) {
	sessions, err := h.chats.ListSessions(c.Request.Context())
	if err != nil {
		h.writeStoreError(c, "list chats", err)
		return
	}
	c.JSON(http.StatusOK, sessions)
}

// GetChat maneja GET /get-chat/:id y devuelve los mensajes en orden.
func (h *ChatHandler) GetChat(c *gin.Context) {
	session, err := h.chats.GetSession(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.writeStoreError(c, "get chat", err)
		return
	}
	c.JSON(http.StatusOK, session.Messages)
}

// DeleteChat maneja DELETE /delete-chat/:id.
func (h *ChatHandler) DeleteChat(c *gin.Context) {
	if err := h.chats.DeleteSession(c.Request.Context(), c.Param("id")); err != nil {
		h.writeStoreError(c, "delete chat", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "deleted"})
}

func (h *ChatHandler) writeStoreError(c *gin.Context, op string, err error) {
	switch {
	case errors.Is(err, service.ErrInvalidInput):
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid data"})
	case errors.Is(err, repository.ErrSessionNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "chat not found"})
	case errors.Is(err, repository.ErrStorageUnavailable):
		h.logger.Error(op+" failed", zap.Error(err))
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "storage unavailable"})
	default:
		h.logger.Error(op+" failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not " + op})
	}
}

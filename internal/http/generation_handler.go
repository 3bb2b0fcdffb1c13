package http

import (
	"context"
	"encoding/base64"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"genchat/internal/domain"
	"genchat/internal/repository"
	"genchat/internal/service"
)

const (
	textUnavailableAnswer     = "❌ Text service unavailable"
	statusClientClosedRequest = 499
)

// GenerationHandler expone el Fallback Gateway y, opcionalmente, guarda el turno generado.
type GenerationHandler struct {
	logger  *zap.Logger
	gateway *service.FallbackGateway
	chats   *service.ChatSessionService
}

// NewGenerationHandler crea una instancia de GenerationHandler con dependencias necesarias.
func NewGenerationHandler(logger *zap.Logger, gateway *service.FallbackGateway, chats *service.ChatSessionService) *GenerationHandler {
	return &GenerationHandler{
		logger:  logger,
		gateway: gateway,
		chats:   chats,
	}
}

type generateRequest struct {
	Prompt string `json:"prompt"`
	Save   bool   `json:"save"`
	ChatID string `json:"chat_id"`
}

// TextToText maneja POST /text-to-text.
func (h *GenerationHandler) TextToText(c *gin.Context) {
	var req generateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid text request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}
	if strings.TrimSpace(req.Prompt) == "" {
		c.JSON(http.StatusOK, gin.H{"answer": ""})
		return
	}

	res, err := h.gateway.GenerateText(c.Request.Context(), req.Prompt)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrServiceUnavailable):
			// Respuesta degradada: el cliente muestra el marcador en lugar de un error HTTP.
			c.JSON(http.StatusOK, gin.H{"answer": textUnavailableAnswer, "unavailable": true})
		case isCancellation(err):
			h.logger.Info("text generation cancelled by client")
			c.AbortWithStatus(statusClientClosedRequest)
		default:
			h.logger.Error("text generation failed", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not generate text"})
		}
		return
	}

	resp := gin.H{"answer": res.Answer}
	if req.Save {
		h.saveAlongside(c, resp, service.SaveTurnInput{
			Prompt:    req.Prompt,
			Answer:    res.Answer,
			Kind:      domain.KindText,
			SessionID: req.ChatID,
		})
	}
	c.JSON(http.StatusOK, resp)
}

// TextToImage maneja POST /text-to-image.
func (h *GenerationHandler) TextToImage(c *gin.Context) {
	var req generateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid image request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}
	if strings.TrimSpace(req.Prompt) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "prompt is required"})
		return
	}

	res, err := h.gateway.GenerateImage(c.Request.Context(), req.Prompt)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrServiceUnavailable):
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "image service unavailable"})
		case isCancellation(err):
			h.logger.Info("image generation cancelled by client")
			c.AbortWithStatus(statusClientClosedRequest)
		default:
			h.logger.Error("image generation failed", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not generate image"})
		}
		return
	}

	resp := gin.H{"fallback": res.Fallback}
	var reference string
	if res.Image.IsReference() {
		resp["image_url"] = res.Image.URL
		reference = res.Image.URL
	} else {
		encoded := base64.StdEncoding.EncodeToString(res.Image.Data)
		resp["image_base64"] = encoded
		resp["mime_type"] = res.Image.MIMEType
		reference = "data:" + res.Image.MIMEType + ";base64," + encoded
	}
	if res.Fallback {
		resp["prompt"] = res.Prompt
		resp["seed"] = res.Seed
	}

	if req.Save {
		h.saveAlongside(c, resp, service.SaveTurnInput{
			Prompt:    req.Prompt,
			Answer:    reference,
			Kind:      domain.KindImage,
			SessionID: req.ChatID,
		})
	}
	c.JSON(http.StatusOK, resp)
}

// saveAlongside persiste el turno sin invalidar la generacion: el error viaja junto a la respuesta.
func (h *GenerationHandler) saveAlongside(c *gin.Context, resp gin.H, in service.SaveTurnInput) {
	if c.Request.Context().Err() != nil {
		return
	}
	id, err := h.chats.SaveTurn(c.Request.Context(), in)
	if err != nil {
		h.logger.Warn("save after generation failed", zap.String("chat_id", in.SessionID), zap.Error(err))
		resp["save_error"] = storeErrorMessage(err)
		return
	}
	resp["chat_id"] = id
}

func isCancellation(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}

func storeErrorMessage(err error) string {
	switch {
	case errors.Is(err, service.ErrInvalidInput):
		return "invalid data"
	case errors.Is(err, repository.ErrSessionNotFound):
		return "chat not found"
	case errors.Is(err, repository.ErrStorageUnavailable):
		return "storage unavailable"
	default:
		return "save failed"
	}
}

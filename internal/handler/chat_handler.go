package handler

import (
	"errors"
	"net/http"

	"lumina-chat/internal/identity"
	"lumina-chat/internal/services"
	"lumina-chat/internal/transport/httpdto"
	lumina_errors "lumina-chat/pkg/errors"
	"lumina-chat/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type ChatHandler struct {
	service *services.ChatService
	logger  *logger.Logger
}

func NewChatHandler(service *services.ChatService, l *logger.Logger) *ChatHandler {
	return &ChatHandler{service: service, logger: l}
}

func (h *ChatHandler) Create(c *gin.Context) {
	userID, ok := identity.UserIDFromContext(c.Request.Context())
	if !ok {
		c.JSON(http.StatusUnauthorized, httpdto.NewErrorResponse("unauthenticated", "UNAUTHORIZED"))
		return
	}

	var req httpdto.CreateChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, httpdto.NewErrorResponse("invalid request", "INVALID_REQUEST"))
		return
	}

	chatID, err := h.service.CreateChat(c.Request.Context(), userID, req.Text)
	if err != nil {
		if errors.Is(err, lumina_errors.ErrInvalidInput) {
			c.JSON(http.StatusBadRequest, httpdto.NewErrorResponse("invalid request", "INVALID_REQUEST"))
			return
		}
		h.logError(c, "error creating chat: %s", err)
		c.JSON(http.StatusInternalServerError, httpdto.NewErrorResponse("error creating chat", "INTERNAL_ERROR"))
		return
	}

	c.JSON(http.StatusCreated, httpdto.NewSuccessResponse(httpdto.CreateChatResponse{ChatID: chatID.String()}))
}

func (h *ChatHandler) ListUserChats(c *gin.Context) {
	userID, ok := identity.UserIDFromContext(c.Request.Context())
	if !ok {
		c.JSON(http.StatusUnauthorized, httpdto.NewErrorResponse("unauthenticated", "UNAUTHORIZED"))
		return
	}

	refs, err := h.service.ListUserChats(c.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, lumina_errors.ErrNotFound) {
			c.JSON(http.StatusNotFound, httpdto.NewErrorResponse("no chats found for the user", "NOT_FOUND"))
			return
		}
		h.logError(c, "error fetching user chats: %s", err)
		c.JSON(http.StatusInternalServerError, httpdto.NewErrorResponse("error fetching user chats", "INTERNAL_ERROR"))
		return
	}

	c.JSON(http.StatusOK, httpdto.NewSuccessResponse(refs))
}

func (h *ChatHandler) GetByID(c *gin.Context) {
	userID, ok := identity.UserIDFromContext(c.Request.Context())
	if !ok {
		c.JSON(http.StatusUnauthorized, httpdto.NewErrorResponse("unauthenticated", "UNAUTHORIZED"))
		return
	}

	// A malformed id cannot match any chat; report it exactly like an
	// unknown or foreign one.
	chatID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, httpdto.NewErrorResponse("chat not found", "NOT_FOUND"))
		return
	}

	chat, err := h.service.GetChat(c.Request.Context(), userID, chatID)
	if err != nil {
		if errors.Is(err, lumina_errors.ErrNotFound) {
			c.JSON(http.StatusNotFound, httpdto.NewErrorResponse("chat not found", "NOT_FOUND"))
			return
		}
		h.logError(c, "error fetching chat: %s", err)
		c.JSON(http.StatusInternalServerError, httpdto.NewErrorResponse("error fetching chat", "INTERNAL_ERROR"))
		return
	}

	c.JSON(http.StatusOK, httpdto.NewSuccessResponse(chat))
}

func (h *ChatHandler) AppendTurns(c *gin.Context) {
	userID, ok := identity.UserIDFromContext(c.Request.Context())
	if !ok {
		c.JSON(http.StatusUnauthorized, httpdto.NewErrorResponse("unauthenticated", "UNAUTHORIZED"))
		return
	}

	chatID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, httpdto.NewErrorResponse("chat not found", "NOT_FOUND"))
		return
	}

	var req httpdto.AppendTurnsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, httpdto.NewErrorResponse("invalid request", "INVALID_REQUEST"))
		return
	}

	ack, err := h.service.AppendTurns(c.Request.Context(), userID, chatID, services.AppendInput{
		Question: req.Question,
		Img:      req.Img,
		Answer:   req.Answer,
	})
	if err != nil {
		if errors.Is(err, lumina_errors.ErrInvalidInput) {
			c.JSON(http.StatusBadRequest, httpdto.NewErrorResponse("invalid request", "INVALID_REQUEST"))
			return
		}
		h.logError(c, "error adding conversation: %s", err)
		c.JSON(http.StatusInternalServerError, httpdto.NewErrorResponse("error adding conversation", "INTERNAL_ERROR"))
		return
	}

	// A zero ack means the chat does not exist or is owned by someone
	// else; the append contract treats that as a silent no-op.
	c.JSON(http.StatusOK, httpdto.NewSuccessResponse(ack))
}

func (h *ChatHandler) logError(c *gin.Context, template string, args ...interface{}) {
	log := h.logger
	if log == nil {
		log = logger.GetGlobalLogger()
	}
	if log != nil {
		log.ErrorfCtx(c.Request.Context(), template, args...)
	}
}

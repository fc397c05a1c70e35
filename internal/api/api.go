// Package api exposes the chat and auth HTTP endpoints.
package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/askdsu/campus-assistant-go/internal/auth"
	"github.com/askdsu/campus-assistant-go/internal/chat"
	apperrors "github.com/askdsu/campus-assistant-go/internal/errors"
	"github.com/askdsu/campus-assistant-go/internal/logger"
	"github.com/askdsu/campus-assistant-go/internal/metrics"
	"github.com/askdsu/campus-assistant-go/internal/render"
	"github.com/gin-gonic/gin"
)

// MessageProcessor handles one chat message end to end.
type MessageProcessor interface {
	Process(ctx context.Context, message string) chat.Reply
}

// AIDispatcher answers a message with the AI fallback directly.
type AIDispatcher interface {
	Dispatch(ctx context.Context, message string) string
}

// Handler serves the JSON API.
type Handler struct {
	processor        MessageProcessor
	ai               AIDispatcher
	auth             *auth.Service
	metrics          *metrics.Metrics
	logger           *logger.Logger
	maxMessageLength int
}

// Config holds dependencies for creating a Handler.
type Config struct {
	Processor        MessageProcessor
	AI               AIDispatcher
	Auth             *auth.Service
	Metrics          *metrics.Metrics
	Logger           *logger.Logger
	MaxMessageLength int
}

// NewHandler creates an API handler.
func NewHandler(cfg Config) *Handler {
	return &Handler{
		processor:        cfg.Processor,
		ai:               cfg.AI,
		auth:             cfg.Auth,
		metrics:          cfg.Metrics,
		logger:           cfg.Logger,
		maxMessageLength: cfg.MaxMessageLength,
	}
}

// RegisterRoutes attaches the API endpoints to the router.
// Chat endpoints sit behind the bearer-token middleware.
func (h *Handler) RegisterRoutes(router *gin.Engine) {
	router.POST("/api/auth/login", h.Login)

	authed := router.Group("/api", auth.Middleware(h.auth))
	authed.POST("/auth/logout", h.Logout)
	authed.POST("/chat", h.Chat)
	authed.POST("/chat/ai", h.ChatAI)
}

type loginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// Login verifies credentials and issues a session token.
func (h *Handler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, "email and password are required")
		return
	}

	token, err := h.auth.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, apperrors.ErrUnauthorized) {
			h.recordError("bad_credentials", c.FullPath())
			c.JSON(http.StatusUnauthorized, gin.H{"success": false, "error": "invalid credentials"})
			return
		}
		h.logger.WithModule("api").WithError(err).Error("Login failed")
		h.recordError("internal", c.FullPath())
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "login failed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "token": token})
}

// Logout invalidates the presented session token.
func (h *Handler) Logout(c *gin.Context) {
	token := c.GetHeader("Authorization")
	if len(token) > 7 {
		token = token[7:] // middleware already validated the Bearer scheme
	}
	if err := h.auth.Logout(c.Request.Context(), token); err != nil {
		h.logger.WithModule("api").WithError(err).Error("Logout failed")
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "logout failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

type chatRequest struct {
	Message string `json:"message"`
}

// Chat runs one message through the intent pipeline.
// Handler-level failures still answer 200 with a user-facing string;
// only transport problems (bad JSON, oversized input) get a 4xx.
func (h *Handler) Chat(c *gin.Context) {
	message, ok := h.bindMessage(c)
	if !ok {
		return
	}

	reply := h.processor.Process(c.Request.Context(), message)
	if !reply.Handled {
		h.badRequest(c, "message is required")
		return
	}

	response := reply.Text
	if c.Query("format") == "html" {
		response = render.ToHTML(response)
	}

	c.JSON(http.StatusOK, gin.H{
		"success":  true,
		"response": response,
		"intent":   string(reply.Intent),
	})
}

// ChatAI sends the message straight to the AI dispatcher, skipping
// intent classification.
func (h *Handler) ChatAI(c *gin.Context) {
	message, ok := h.bindMessage(c)
	if !ok {
		return
	}

	response := h.ai.Dispatch(c.Request.Context(), message)
	if c.Query("format") == "html" {
		response = render.ToHTML(response)
	}

	c.JSON(http.StatusOK, gin.H{
		"success":  true,
		"response": response,
	})
}

// bindMessage parses and validates the chat request body.
func (h *Handler) bindMessage(c *gin.Context) (string, bool) {
	var req chatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, "invalid request body")
		return "", false
	}
	if req.Message == "" {
		h.badRequest(c, "message is required")
		return "", false
	}
	if h.maxMessageLength > 0 && len(req.Message) > h.maxMessageLength {
		h.badRequest(c, "message too long")
		return "", false
	}
	return req.Message, true
}

func (h *Handler) badRequest(c *gin.Context, message string) {
	h.recordError("bad_request", c.FullPath())
	c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": message})
}

func (h *Handler) recordError(errorType, endpoint string) {
	if h.metrics != nil {
		h.metrics.RecordHTTPError(errorType, endpoint)
	}
}

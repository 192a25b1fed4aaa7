package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/oikia/backend-go/internal/database/repository"
	"github.com/oikia/backend-go/internal/database/service"
)

// IntentHandler handles HTTP requests for intent capture
type IntentHandler struct {
	service service.IntentService
	logger  *slog.Logger
}

// NewIntentHandler creates a new intent handler
func NewIntentHandler(service service.IntentService, logger *slog.Logger) *IntentHandler {
	return &IntentHandler{
		service: service,
		logger:  logger,
	}
}

type CreateIntentRequest struct {
	RawInput string `json:"raw_input" binding:"required,min=1,max=2000"`
}

// Create stores a raw intent and queues it for background processing.
func (h *IntentHandler) Create(c *gin.Context) {
	var req CreateIntentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Error("❌ [Handler] Invalid intent request", "error", err)
		c.JSON(http.StatusBadRequest, gin.H{"detail": "raw_input is required"})
		return
	}

	intent, err := h.service.Create(c.Request.Context(), req.RawInput)
	if err != nil {
		h.logger.Error("❌ [Handler] Internal server error", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "Internal server error"})
		return
	}

	c.JSON(http.StatusCreated, intent)
}

// Get reads an intent back by id.
func (h *IntentHandler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "Invalid intent id"})
		return
	}

	intent, err := h.service.Get(id)
	if err != nil {
		if errors.Is(err, repository.ErrIntentNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"detail": "Intent not found"})
			return
		}
		h.logger.Error("❌ [Handler] Internal server error", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "Internal server error"})
		return
	}

	c.JSON(http.StatusOK, intent)
}

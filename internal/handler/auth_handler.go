package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/oikia/backend-go/internal/database/repository"
	"github.com/oikia/backend-go/internal/database/service"
)

// AuthHandler handles HTTP requests for authentication
type AuthHandler struct {
	service     service.AuthService
	tokenRepo   repository.TokenRepository
	refreshRepo repository.RefreshRepository
	sessionRepo repository.SessionRepository
	logger      *slog.Logger
}

// NewAuthHandler creates a new authentication handler
func NewAuthHandler(
	service service.AuthService,
	tokenRepo repository.TokenRepository,
	refreshRepo repository.RefreshRepository,
	sessionRepo repository.SessionRepository,
	logger *slog.Logger,
) *AuthHandler {
	return &AuthHandler{
		service:     service,
		tokenRepo:   tokenRepo,
		refreshRepo: refreshRepo,
		sessionRepo: sessionRepo,
		logger:      logger,
	}
}

// Request/Response DTOs
type RegisterRequest struct {
	Username  string `json:"username" binding:"required,min=3,max=50"`
	Email     string `json:"email" binding:"required,email"`
	FirstName string `json:"first_name" binding:"required,min=1,max=50"`
	LastName  string `json:"last_name" binding:"required,min=1,max=50"`
	Password  string `json:"password" binding:"required,min=6"`
}

// AuthenticateRequest carries OAuth2 password-grant style form fields; the
// username field holds the email address.
type AuthenticateRequest struct {
	Username string `form:"username" binding:"required"`
	Password string `form:"password" binding:"required"`
}

type TokenAuthRequest struct {
	Token   string `json:"token" binding:"required"`
	Refresh string `json:"refresh"`
}

type SessionRequest struct {
	IPv4 string `json:"ip_v4"`
	IPv6 string `json:"ip_v6"`
}

type AuthResponse struct {
	Token   string `json:"token"`
	Refresh string `json:"refresh"`
	Session string `json:"session"`
}

// Register handles user registration
func (h *AuthHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Error("❌ [Handler] Invalid registration request", "error", err)
		c.JSON(http.StatusBadRequest, gin.H{"detail": "Invalid request. Username, email, first_name, last_name, and password (min 6 chars) required."})
		return
	}

	user, err := h.service.Register(req.Username, req.Email, req.FirstName, req.LastName, req.Password)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, user)
}

// Authenticate exchanges credentials for a (token, refresh) pair.
func (h *AuthHandler) Authenticate(c *gin.Context) {
	var req AuthenticateRequest
	if err := c.ShouldBind(&req); err != nil {
		h.logger.Error("❌ [Handler] Invalid authentication request", "error", err)
		c.JSON(http.StatusBadRequest, gin.H{"detail": "Username and password required"})
		return
	}

	result, err := h.service.Authenticate(req.Username, req.Password)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, AuthResponse{
		Token:   result.Token,
		Refresh: result.Refresh,
		Session: result.SessionID.String(),
	})
}

// AuthenticateToken validates a bearer token, renewing it through the refresh
// token when expired.
func (h *AuthHandler) AuthenticateToken(c *gin.Context) {
	var req TokenAuthRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Error("❌ [Handler] Invalid token authentication request", "error", err)
		c.JSON(http.StatusBadRequest, gin.H{"detail": "Token required"})
		return
	}

	result, err := h.service.AuthenticateByToken(req.Token, req.Refresh)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"token":   result.Token,
		"refresh": result.Refresh,
		"user":    result.User,
	})
}

// CreateSession finds or creates the connection session for a client IP.
func (h *AuthHandler) CreateSession(c *gin.Context) {
	var req SessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Error("❌ [Handler] Invalid session request", "error", err)
		c.JSON(http.StatusBadRequest, gin.H{"detail": "Invalid request body"})
		return
	}

	session, created, err := h.service.CreateOrGetSession(req.IPv4, req.IPv6)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	c.JSON(status, session)
}

// CreateAPIKey issues a signed API key bound to a fresh client.
func (h *AuthHandler) CreateAPIKey(c *gin.Context) {
	key, err := h.service.CreateAPIKey()
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"api_key": key})
}

// ListTokens returns a page of live bearer tokens.
func (h *AuthHandler) ListTokens(c *gin.Context) {
	page, size := pageParams(c)

	tokens, count, err := h.tokenRepo.List((page-1)*size, size)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, pageEnvelope(tokens, count, page, size))
}

// ListRefreshes returns a page of refresh tokens.
func (h *AuthHandler) ListRefreshes(c *gin.Context) {
	page, size := pageParams(c)

	refreshes, count, err := h.refreshRepo.List((page-1)*size, size)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, pageEnvelope(refreshes, count, page, size))
}

// ListSessions returns a page of sessions.
func (h *AuthHandler) ListSessions(c *gin.Context) {
	page, size := pageParams(c)

	sessions, count, err := h.sessionRepo.List((page-1)*size, size)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, pageEnvelope(sessions, count, page, size))
}

// handleServiceError maps service errors to HTTP responses
func (h *AuthHandler) handleServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrUnauthorized):
		c.JSON(http.StatusUnauthorized, gin.H{"detail": "Unauthorized"})
	case errors.Is(err, service.ErrIPRequired):
		c.JSON(http.StatusBadRequest, gin.H{"detail": "An IP address is required"})
	case errors.Is(err, repository.ErrEmailTaken):
		c.JSON(http.StatusBadRequest, gin.H{"detail": "Email already registered"})
	case errors.Is(err, repository.ErrUsernameTaken):
		c.JSON(http.StatusBadRequest, gin.H{"detail": "Username already taken"})
	case errors.Is(err, repository.ErrUserNotFound):
		c.JSON(http.StatusNotFound, gin.H{"detail": "User not found"})
	default:
		h.logger.Error("❌ [Handler] Internal server error", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "Internal server error"})
	}
}

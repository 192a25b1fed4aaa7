package service

import (
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/oikia/backend-go/internal/config"
	"github.com/oikia/backend-go/internal/crypt"
	"github.com/oikia/backend-go/internal/database/models"
	"github.com/oikia/backend-go/internal/database/repository"
)

// AuthService defines the interface for the authentication lifecycle: it
// binds each user to at most one live (token, refresh) pair and retires old
// tokens to the blacklist on re-authentication.
type AuthService interface {
	Register(username, email, firstName, lastName, password string) (*models.User, error)
	Authenticate(email, password string) (*AuthResult, error)
	AuthenticateByToken(token, refresh string) (*TokenAuthResult, error)
	CreateOrGetSession(ipV4, ipV6 string) (*models.Session, bool, error)
	CreateAPIKey() (string, error)
	ResolveBearer(token string) (*models.User, error)
	ResolveAPIKey(key string) (*models.Client, error)
}

// AuthResult carries the freshly issued pair and its session binding.
type AuthResult struct {
	Token     string
	Refresh   string
	SessionID uuid.UUID
}

// TokenAuthResult is the outcome of token-based authentication. Refresh is
// the stored opaque token, which is never rotated on this path.
type TokenAuthResult struct {
	Token   string
	Refresh string
	User    *models.User
}

type authService struct {
	userRepo    repository.UserRepository
	tokenRepo   repository.TokenRepository
	refreshRepo repository.RefreshRepository
	sessionRepo repository.SessionRepository
	clientRepo  repository.ClientRepository
	cfg         *config.Config
	logger      *slog.Logger
}

// NewAuthService creates a new authentication service instance
func NewAuthService(
	userRepo repository.UserRepository,
	tokenRepo repository.TokenRepository,
	refreshRepo repository.RefreshRepository,
	sessionRepo repository.SessionRepository,
	clientRepo repository.ClientRepository,
	cfg *config.Config,
	logger *slog.Logger,
) AuthService {
	return &authService{
		userRepo:    userRepo,
		tokenRepo:   tokenRepo,
		refreshRepo: refreshRepo,
		sessionRepo: sessionRepo,
		clientRepo:  clientRepo,
		cfg:         cfg,
		logger:      logger,
	}
}

func (s *authService) Register(username, email, firstName, lastName, password string) (*models.User, error) {
	s.logger.Info("📝 [AuthService] Registration attempt", "email", email, "username", username)

	hashedPassword, err := crypt.HashPassword(password)
	if err != nil {
		s.logger.Error("❌ [AuthService] Failed to hash password", "error", err)
		return nil, err
	}

	user := &models.User{
		Username:     username,
		EmailAddress: email,
		FirstName:    firstName,
		LastName:     lastName,
		Password:     hashedPassword,
		IsActive:     true,
	}

	if err := s.userRepo.CreateWithEmail(user); err != nil {
		if errors.Is(err, repository.ErrEmailTaken) || errors.Is(err, repository.ErrUsernameTaken) {
			s.logger.Warn("⚠️ [AuthService] Registration conflict", "email", email, "error", err)
			return nil, err
		}
		s.logger.Error("❌ [AuthService] Failed to create user", "error", err)
		return nil, err
	}

	s.logger.Info("✅ [AuthService] User registered successfully", "user_id", user.ID)
	return user, nil
}

// Authenticate verifies credentials and always leaves the user with exactly
// one live (token, refresh) pair. An existing token is a rotation: the old
// token string is blacklisted and both old rows are deleted before the new
// pair is issued.
func (s *authService) Authenticate(email, password string) (*AuthResult, error) {
	s.logger.Info("🔐 [AuthService] Authentication attempt", "email", email)

	user, err := s.userRepo.FindByEmail(email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			s.logger.Warn("⚠️ [AuthService] Authentication attempt with missing user", "email", email)
			return nil, ErrUnauthorized
		}
		s.logger.Error("❌ [AuthService] Database error", "error", err)
		return nil, err
	}

	if !crypt.CheckPassword(password, user.Password) {
		s.logger.Warn("⚠️ [AuthService] Authentication denied", "email", email)
		return nil, ErrUnauthorized
	}

	existing, err := s.tokenRepo.FindByUser(user.ID)
	if err != nil && !errors.Is(err, repository.ErrTokenNotFound) {
		s.logger.Error("❌ [AuthService] Database error looking up token", "error", err)
		return nil, err
	}

	if existing != nil {
		// Rotation: the old token becomes permanently unusable even though
		// it may not yet have expired.
		if err := s.tokenRepo.Blacklist(existing.Token); err != nil {
			s.logger.Error("❌ [AuthService] Failed to blacklist token", "error", err)
			return nil, err
		}
		if err := s.tokenRepo.Delete(existing.Token); err != nil {
			return nil, err
		}
		if oldRefresh, err := s.refreshRepo.FindByUser(user.ID); err == nil {
			if err := s.refreshRepo.Delete(oldRefresh.Token); err != nil {
				return nil, err
			}
		} else if !errors.Is(err, repository.ErrRefreshNotFound) {
			return nil, err
		}
	}

	tokenString, refreshString, err := s.issuePair(user)
	if err != nil {
		return nil, err
	}

	session, err := s.bindSession(user.ID, tokenString, refreshString)
	if err != nil {
		return nil, err
	}

	s.logger.Info("✅ [AuthService] User authenticated successfully", "user_id", user.ID)
	return &AuthResult{
		Token:     tokenString,
		Refresh:   refreshString,
		SessionID: session.ID,
	}, nil
}

// AuthenticateByToken validates a bearer token. When the token is expired
// and the supplied refresh token is still valid, a new bearer is minted for
// the same user; the refresh token itself is not rotated. Any other failure
// yields no renewal.
func (s *authService) AuthenticateByToken(token, refresh string) (*TokenAuthResult, error) {
	claims, status := crypt.DecodeToken(token, s.cfg.JWTSecret)

	switch status {
	case crypt.TokenOK:
		user, err := s.userFromClaims(claims, token)
		if err != nil {
			return nil, err
		}

		refreshString := refresh
		if refreshString == "" {
			if stored, err := s.refreshRepo.FindByUser(user.ID); err == nil {
				refreshString = stored.Token
			}
		}

		return &TokenAuthResult{Token: token, Refresh: refreshString, User: user}, nil

	case crypt.TokenExpired:
		if refresh == "" {
			return nil, ErrUnauthorized
		}

		// A rotated-out bearer stays dead even with a valid refresh.
		blacklisted, err := s.tokenRepo.IsBlacklisted(token)
		if err != nil {
			return nil, err
		}
		if blacklisted {
			s.logger.Warn("⚠️ [AuthService] Blacklisted expired token presented for renewal")
			return nil, ErrUnauthorized
		}

		stored, err := s.refreshRepo.FindByToken(refresh)
		if err != nil {
			if errors.Is(err, repository.ErrRefreshNotFound) {
				s.logger.Warn("⚠️ [AuthService] Expired token with unknown refresh")
				return nil, ErrUnauthorized
			}
			return nil, err
		}
		if !stored.IsValid() {
			s.logger.Warn("⚠️ [AuthService] Expired token with expired refresh", "user_id", stored.UserID)
			return nil, ErrUnauthorized
		}

		user, err := s.userRepo.FindByID(stored.UserID)
		if err != nil {
			if errors.Is(err, repository.ErrUserNotFound) {
				return nil, ErrUnauthorized
			}
			return nil, err
		}

		// Retire the expired bearer and mint a replacement, keeping the
		// refresh token as-is.
		if err := s.tokenRepo.Blacklist(token); err != nil {
			return nil, err
		}
		if err := s.tokenRepo.Delete(token); err != nil {
			return nil, err
		}

		newToken, err := crypt.GenerateToken(
			map[string]any{"email": user.EmailAddress},
			s.cfg.AccessTokenExpiration,
			s.cfg.JWTSecret,
		)
		if err != nil {
			return nil, err
		}
		if err := s.tokenRepo.Create(&models.Token{Token: newToken, UserID: user.ID}); err != nil {
			return nil, err
		}

		if session, err := s.sessionRepo.FindByUser(user.ID); err == nil {
			session.TokenID = &newToken
			if err := s.sessionRepo.Update(session); err != nil {
				return nil, err
			}
		} else if !errors.Is(err, repository.ErrSessionNotFound) {
			return nil, err
		}

		s.logger.Info("🔄 [AuthService] Bearer token renewed via refresh", "user_id", user.ID)
		return &TokenAuthResult{Token: newToken, Refresh: stored.Token, User: user}, nil

	default:
		s.logger.Warn("⚠️ [AuthService] Token rejected", "status", status.String())
		return nil, ErrUnauthorized
	}
}

// CreateOrGetSession looks up a connection-level session by IP, creating one
// when absent. It binds no user.
func (s *authService) CreateOrGetSession(ipV4, ipV6 string) (*models.Session, bool, error) {
	if ipV4 == "" && ipV6 == "" {
		return nil, false, ErrIPRequired
	}

	var session *models.Session
	created := false

	if ipV4 != "" {
		found, err := s.sessionRepo.FindByIPv4(ipV4)
		switch {
		case err == nil:
			session = found
		case errors.Is(err, repository.ErrSessionNotFound):
			session = &models.Session{IPv4: &ipV4, IPType: models.IPTypeUnknown, IPClass: models.IPClassUnknown}
			if err := s.sessionRepo.Create(session); err != nil {
				return nil, false, err
			}
			created = true
		default:
			return nil, false, err
		}
	}

	if ipV6 != "" {
		found, err := s.sessionRepo.FindByIPv6(ipV6)
		switch {
		case err == nil:
			session = found
		case errors.Is(err, repository.ErrSessionNotFound):
			session = &models.Session{IPv6: &ipV6, IPType: models.IPTypeUnknown, IPClass: models.IPClassUnknown}
			if err := s.sessionRepo.Create(session); err != nil {
				return nil, false, err
			}
			created = true
		default:
			return nil, false, err
		}
	}

	return session, created, nil
}

// CreateAPIKey creates a throwaway client and a signed key bound to it.
func (s *authService) CreateAPIKey() (string, error) {
	client := &models.Client{Name: "client"}
	if err := s.clientRepo.CreateClient(client); err != nil {
		return "", err
	}

	key, err := crypt.GenerateToken(
		map[string]any{"client_id": client.ID.String()},
		s.cfg.AccessTokenExpiration,
		s.cfg.JWTSecret,
	)
	if err != nil {
		return "", err
	}

	if err := s.clientRepo.CreateApiKey(&models.ApiKey{Key: key, ClientID: client.ID}); err != nil {
		return "", err
	}

	s.logger.Info("🔑 [AuthService] API key created", "client_id", client.ID)
	return key, nil
}

// ResolveBearer returns the user a valid, non-blacklisted bearer token
// belongs to.
func (s *authService) ResolveBearer(token string) (*models.User, error) {
	claims, status := crypt.DecodeToken(token, s.cfg.JWTSecret)
	if status != crypt.TokenOK {
		return nil, ErrUnauthorized
	}
	return s.userFromClaims(claims, token)
}

// ResolveAPIKey returns the client a stored API key belongs to.
func (s *authService) ResolveAPIKey(key string) (*models.Client, error) {
	claims, status := crypt.DecodeToken(key, s.cfg.JWTSecret)
	if status != crypt.TokenOK {
		return nil, ErrUnauthorized
	}
	if _, ok := claims["client_id"].(string); !ok {
		return nil, ErrUnauthorized
	}

	apiKey, err := s.clientRepo.FindApiKey(key)
	if err != nil {
		if errors.Is(err, repository.ErrApiKeyNotFound) {
			s.logger.Warn("⚠️ [AuthService] Attempt to access with unknown API key")
			return nil, ErrUnauthorized
		}
		return nil, err
	}
	return &apiKey.Client, nil
}

func (s *authService) userFromClaims(claims map[string]any, token string) (*models.User, error) {
	blacklisted, err := s.tokenRepo.IsBlacklisted(token)
	if err != nil {
		return nil, err
	}
	if blacklisted {
		s.logger.Warn("⚠️ [AuthService] Attempt to use blacklisted token")
		return nil, ErrUnauthorized
	}

	email, ok := claims["email"].(string)
	if !ok || email == "" {
		return nil, ErrUnauthorized
	}

	user, err := s.userRepo.FindByEmail(email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			s.logger.Warn("⚠️ [AuthService] Token for missing user")
			return nil, ErrUnauthorized
		}
		return nil, err
	}
	return user, nil
}

func (s *authService) issuePair(user *models.User) (string, string, error) {
	tokenString, err := crypt.GenerateToken(
		map[string]any{"email": user.EmailAddress},
		s.cfg.AccessTokenExpiration,
		s.cfg.JWTSecret,
	)
	if err != nil {
		return "", "", err
	}
	if err := s.tokenRepo.Create(&models.Token{Token: tokenString, UserID: user.ID}); err != nil {
		return "", "", err
	}

	refreshString, err := crypt.GenerateRefreshToken(int(s.cfg.RefreshTokenLength))
	if err != nil {
		return "", "", err
	}
	refresh := &models.Refresh{
		Token:    refreshString,
		UserID:   user.ID,
		ExpireAt: time.Now().Add(time.Duration(s.cfg.RefreshTokenExpiration) * time.Second),
	}
	if err := s.refreshRepo.Create(refresh); err != nil {
		return "", "", err
	}

	return tokenString, refreshString, nil
}

// bindSession updates the user's session row in place when one exists,
// otherwise creates it.
func (s *authService) bindSession(userID uuid.UUID, token, refresh string) (*models.Session, error) {
	session, err := s.sessionRepo.FindByUser(userID)
	if err == nil {
		session.TokenID = &token
		session.RefreshID = &refresh
		if err := s.sessionRepo.Update(session); err != nil {
			return nil, err
		}
		return session, nil
	}
	if !errors.Is(err, repository.ErrSessionNotFound) {
		return nil, err
	}

	session = &models.Session{
		TokenID:   &token,
		RefreshID: &refresh,
		UserID:    &userID,
		IPType:    models.IPTypeUnknown,
		IPClass:   models.IPClassUnknown,
	}
	if err := s.sessionRepo.Create(session); err != nil {
		return nil, err
	}
	return session, nil
}

// Service errors
var (
	ErrUnauthorized = errors.New("unauthorized")
	ErrIPRequired   = errors.New("ip address is required")
)

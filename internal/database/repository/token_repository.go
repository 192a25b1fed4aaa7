package repository

import (
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/oikia/backend-go/internal/database/models"
)

// TokenRepository defines the interface for bearer token and blacklist
// operations.
type TokenRepository interface {
	Create(token *models.Token) error
	FindByToken(token string) (*models.Token, error)
	FindByUser(userID uuid.UUID) (*models.Token, error)
	Delete(token string) error
	Blacklist(token string) error
	IsBlacklisted(token string) (bool, error)
	List(offset, limit int) ([]models.Token, int64, error)
}

type tokenRepository struct {
	db *gorm.DB
}

// NewTokenRepository creates a new token repository instance
func NewTokenRepository(db *gorm.DB) TokenRepository {
	return &tokenRepository{db: db}
}

func (r *tokenRepository) Create(token *models.Token) error {
	return r.db.Create(token).Error
}

func (r *tokenRepository) FindByToken(token string) (*models.Token, error) {
	var t models.Token
	err := r.db.Where("token = ?", token).First(&t).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTokenNotFound
		}
		return nil, err
	}
	return &t, nil
}

func (r *tokenRepository) FindByUser(userID uuid.UUID) (*models.Token, error) {
	var t models.Token
	err := r.db.Where("user_id = ?", userID).First(&t).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTokenNotFound
		}
		return nil, err
	}
	return &t, nil
}

func (r *tokenRepository) Delete(token string) error {
	return r.db.Delete(&models.Token{}, "token = ?", token).Error
}

// Blacklist records a retired token string. Re-blacklisting is a no-op.
func (r *tokenRepository) Blacklist(token string) error {
	return r.db.Clauses(clause.OnConflict{DoNothing: true}).
		Create(&models.TokenBlacklist{Token: token}).Error
}

func (r *tokenRepository) IsBlacklisted(token string) (bool, error) {
	var count int64
	err := r.db.Model(&models.TokenBlacklist{}).
		Where("token = ?", token).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *tokenRepository) List(offset, limit int) ([]models.Token, int64, error) {
	var count int64
	if err := r.db.Model(&models.Token{}).Count(&count).Error; err != nil {
		return nil, 0, err
	}
	var tokens []models.Token
	err := r.db.Order("created_at DESC").Offset(offset).Limit(limit).Find(&tokens).Error
	return tokens, count, err
}

// Repository errors
var (
	ErrTokenNotFound = errors.New("token not found")
)

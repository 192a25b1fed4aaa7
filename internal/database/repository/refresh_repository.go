package repository

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/oikia/backend-go/internal/database/models"
)

// RefreshRepository defines the interface for refresh token operations
type RefreshRepository interface {
	Create(refresh *models.Refresh) error
	FindByToken(token string) (*models.Refresh, error)
	FindByUser(userID uuid.UUID) (*models.Refresh, error)
	Delete(token string) error
	DeleteExpired() error
	List(offset, limit int) ([]models.Refresh, int64, error)
}

type refreshRepository struct {
	db *gorm.DB
}

// NewRefreshRepository creates a new refresh token repository instance
func NewRefreshRepository(db *gorm.DB) RefreshRepository {
	return &refreshRepository{db: db}
}

func (r *refreshRepository) Create(refresh *models.Refresh) error {
	return r.db.Create(refresh).Error
}

func (r *refreshRepository) FindByToken(token string) (*models.Refresh, error) {
	var refresh models.Refresh
	err := r.db.Where("token = ?", token).First(&refresh).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRefreshNotFound
		}
		return nil, err
	}
	return &refresh, nil
}

func (r *refreshRepository) FindByUser(userID uuid.UUID) (*models.Refresh, error) {
	var refresh models.Refresh
	err := r.db.Where("user_id = ?", userID).First(&refresh).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRefreshNotFound
		}
		return nil, err
	}
	return &refresh, nil
}

func (r *refreshRepository) Delete(token string) error {
	return r.db.Delete(&models.Refresh{}, "token = ?", token).Error
}

func (r *refreshRepository) DeleteExpired() error {
	return r.db.Where("expire_at < ?", time.Now()).Delete(&models.Refresh{}).Error
}

func (r *refreshRepository) List(offset, limit int) ([]models.Refresh, int64, error) {
	var count int64
	if err := r.db.Model(&models.Refresh{}).Count(&count).Error; err != nil {
		return nil, 0, err
	}
	var refreshes []models.Refresh
	err := r.db.Order("created_at DESC").Offset(offset).Limit(limit).Find(&refreshes).Error
	return refreshes, count, err
}

// Repository errors
var (
	ErrRefreshNotFound = errors.New("refresh token not found")
)

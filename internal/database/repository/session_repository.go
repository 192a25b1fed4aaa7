package repository

import (
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/oikia/backend-go/internal/database/models"
)

// SessionRepository defines the interface for session operations
type SessionRepository interface {
	Create(session *models.Session) error
	Update(session *models.Session) error
	FindByUser(userID uuid.UUID) (*models.Session, error)
	FindByIPv4(ip string) (*models.Session, error)
	FindByIPv6(ip string) (*models.Session, error)
	List(offset, limit int) ([]models.Session, int64, error)
}

type sessionRepository struct {
	db *gorm.DB
}

// NewSessionRepository creates a new session repository instance
func NewSessionRepository(db *gorm.DB) SessionRepository {
	return &sessionRepository{db: db}
}

func (r *sessionRepository) Create(session *models.Session) error {
	if session.ID == uuid.Nil {
		session.ID = uuid.New()
	}
	return r.db.Create(session).Error
}

func (r *sessionRepository) Update(session *models.Session) error {
	return r.db.Save(session).Error
}

func (r *sessionRepository) FindByUser(userID uuid.UUID) (*models.Session, error) {
	var session models.Session
	err := r.db.Where("user_id = ?", userID).First(&session).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSessionNotFound
		}
		return nil, err
	}
	return &session, nil
}

func (r *sessionRepository) FindByIPv4(ip string) (*models.Session, error) {
	var session models.Session
	err := r.db.Where("ip_v4 = ?", ip).First(&session).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSessionNotFound
		}
		return nil, err
	}
	return &session, nil
}

func (r *sessionRepository) FindByIPv6(ip string) (*models.Session, error) {
	var session models.Session
	err := r.db.Where("ip_v6 = ?", ip).First(&session).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSessionNotFound
		}
		return nil, err
	}
	return &session, nil
}

func (r *sessionRepository) List(offset, limit int) ([]models.Session, int64, error) {
	var count int64
	if err := r.db.Model(&models.Session{}).Count(&count).Error; err != nil {
		return nil, 0, err
	}

	var sessions []models.Session
	err := r.db.Order("created_at DESC").Offset(offset).Limit(limit).Find(&sessions).Error
	if err != nil {
		return nil, 0, err
	}
	return sessions, count, nil
}

// Repository errors
var (
	ErrSessionNotFound = errors.New("session not found")
)

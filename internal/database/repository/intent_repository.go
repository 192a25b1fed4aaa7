package repository

import (
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/oikia/backend-go/internal/database/models"
)

// IntentRepository defines the interface for intent records
type IntentRepository interface {
	Create(intent *models.Intent) error
	FindByID(id uuid.UUID) (*models.Intent, error)
	MarkProcessed(id uuid.UUID) error
}

type intentRepository struct {
	db *gorm.DB
}

// NewIntentRepository creates a new intent repository instance
func NewIntentRepository(db *gorm.DB) IntentRepository {
	return &intentRepository{db: db}
}

func (r *intentRepository) Create(intent *models.Intent) error {
	if intent.ID == uuid.Nil {
		intent.ID = uuid.New()
	}
	return r.db.Create(intent).Error
}

func (r *intentRepository) FindByID(id uuid.UUID) (*models.Intent, error) {
	var intent models.Intent
	err := r.db.Where("id = ?", id).First(&intent).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrIntentNotFound
		}
		return nil, err
	}
	return &intent, nil
}

func (r *intentRepository) MarkProcessed(id uuid.UUID) error {
	result := r.db.Model(&models.Intent{}).
		Where("id = ?", id).
		Update("processed", true)

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrIntentNotFound
	}
	return nil
}

// Repository errors
var (
	ErrIntentNotFound = errors.New("intent not found")
)

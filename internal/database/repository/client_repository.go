package repository

import (
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/oikia/backend-go/internal/database/models"
)

// ClientRepository defines the interface for API clients and their keys
type ClientRepository interface {
	CreateClient(client *models.Client) error
	CreateApiKey(key *models.ApiKey) error
	FindApiKey(key string) (*models.ApiKey, error)
}

type clientRepository struct {
	db *gorm.DB
}

// NewClientRepository creates a new client repository instance
func NewClientRepository(db *gorm.DB) ClientRepository {
	return &clientRepository{db: db}
}

func (r *clientRepository) CreateClient(client *models.Client) error {
	if client.ID == uuid.Nil {
		client.ID = uuid.New()
	}
	return r.db.Create(client).Error
}

func (r *clientRepository) CreateApiKey(key *models.ApiKey) error {
	return r.db.Create(key).Error
}

func (r *clientRepository) FindApiKey(key string) (*models.ApiKey, error) {
	var apiKey models.ApiKey
	err := r.db.Where("key = ?", key).Preload("Client").First(&apiKey).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrApiKeyNotFound
		}
		return nil, err
	}
	return &apiKey, nil
}

// Repository errors
var (
	ErrApiKeyNotFound = errors.New("api key not found")
)

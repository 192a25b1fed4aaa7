package repository

import (
	"errors"

	"gorm.io/gorm"

	"github.com/oikia/backend-go/internal/database/models"
)

// PermissionRepository defines the interface for permission rows
type PermissionRepository interface {
	GetOrCreate(name string) (created bool, err error)
	Count() (int64, error)
}

type permissionRepository struct {
	db *gorm.DB
}

// NewPermissionRepository creates a new permission repository instance
func NewPermissionRepository(db *gorm.DB) PermissionRepository {
	return &permissionRepository{db: db}
}

func (r *permissionRepository) GetOrCreate(name string) (bool, error) {
	var existing models.Permission
	err := r.db.Where("name = ?", name).First(&existing).Error
	if err == nil {
		return false, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return false, err
	}

	if err := r.db.Create(&models.Permission{Name: name}).Error; err != nil {
		return false, err
	}
	return true, nil
}

func (r *permissionRepository) Count() (int64, error) {
	var count int64
	err := r.db.Model(&models.Permission{}).Count(&count).Error
	return count, err
}

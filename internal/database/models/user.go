package models

import (
	"time"

	"github.com/google/uuid"
)

// User represents a user account. Email lives in its own table so an address
// can be claimed before the account row exists.
type User struct {
	ID          uuid.UUID `gorm:"type:uuid;primarykey" json:"id"`
	Username    string    `gorm:"uniqueIndex;not null" json:"username"`
	Password    string    `gorm:"not null" json:"-"`
	FirstName   string    `json:"first_name"`
	LastName    string    `json:"last_name"`
	Avatar      *string   `json:"avatar,omitempty"`
	IsActive    bool      `gorm:"not null;default:true" json:"is_active"`
	IsAdmin     bool      `gorm:"not null;default:false" json:"is_admin"`
	IsSuperuser bool      `gorm:"not null;default:false" json:"is_superuser"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	EmailAddress string `gorm:"column:email;uniqueIndex;not null" json:"email"`
	Email        Email  `gorm:"foreignKey:EmailAddress;references:Address" json:"-"`
}

// TableName overrides the table name
func (User) TableName() string {
	return "users"
}

// Email is the claimed-address table referenced by users.
type Email struct {
	Address   string    `gorm:"primarykey" json:"email"`
	CreatedAt time.Time `json:"created_at"`
}

// TableName overrides the table name
func (Email) TableName() string {
	return "emails"
}

// Permission is a flat entity:verb grant generated by the CLI.
type Permission struct {
	ID   uint   `gorm:"primarykey" json:"id"`
	Name string `gorm:"uniqueIndex;not null" json:"name"`
}

// TableName overrides the table name
func (Permission) TableName() string {
	return "permissions"
}

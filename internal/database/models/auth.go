package models

import (
	"time"

	"github.com/google/uuid"
)

// IPType classifies a session's source address.
type IPType string

const (
	IPTypeUnknown IPType = "unknown"
	IPTypePublic  IPType = "public"
	IPTypePrivate IPType = "private"
)

// IPClass is the legacy A-E address class recorded for a session.
type IPClass string

const (
	IPClassUnknown IPClass = "unknown"
	IPClassA       IPClass = "A"
	IPClassB       IPClass = "B"
	IPClassC       IPClass = "C"
	IPClassD       IPClass = "D"
	IPClassE       IPClass = "E"
)

// Token is a live bearer token. The token string itself is the primary key.
// At most one live token per user is intended; that is enforced by the auth
// service, not by a constraint.
type Token struct {
	Token     string    `gorm:"primarykey" json:"token"`
	CreatedAt time.Time `json:"created_at"`

	UserID uuid.UUID `gorm:"type:uuid;not null;index" json:"user_id"`
	User   User      `gorm:"foreignKey:UserID" json:"-"`
}

// TableName overrides the table name
func (Token) TableName() string {
	return "tokens"
}

// TokenBlacklist records retired bearer tokens. Append-only: presence means
// the token must not be honored even if its signature still verifies.
type TokenBlacklist struct {
	Token     string    `gorm:"primarykey" json:"token"`
	CreatedAt time.Time `json:"created_at"`
}

// TableName overrides the table name
func (TokenBlacklist) TableName() string {
	return "token_blacklist"
}

// Refresh is an opaque refresh token with a stored expiry.
type Refresh struct {
	Token     string    `gorm:"primarykey" json:"token"`
	CreatedAt time.Time `json:"created_at"`
	ExpireAt  time.Time `gorm:"not null" json:"expire_at"`

	UserID uuid.UUID `gorm:"type:uuid;not null;index" json:"user_id"`
	User   User      `gorm:"foreignKey:UserID" json:"-"`
}

// TableName overrides the table name
func (Refresh) TableName() string {
	return "refresh_tokens"
}

// IsValid reports whether the refresh token has not yet expired.
func (r *Refresh) IsValid() bool {
	return time.Now().Before(r.ExpireAt)
}

// Session is the durable link between a live token/refresh pair and a user,
// plus client metadata. All references are nullable: a session may exist for
// a connection before anyone authenticates on it.
type Session struct {
	ID        uuid.UUID `gorm:"type:uuid;primarykey" json:"id"`
	IPv4      *string   `gorm:"column:ip_v4;size:15;index" json:"ip_v4,omitempty"`
	IPv6      *string   `gorm:"column:ip_v6;size:64;index" json:"ip_v6,omitempty"`
	IPType    IPType    `gorm:"not null;default:unknown" json:"ip_type"`
	IPClass   IPClass   `gorm:"not null;default:unknown" json:"ip_class"`
	ISP       *string   `json:"isp,omitempty"`
	OS        *string   `json:"os,omitempty"`
	UserAgent *string   `json:"user_agent,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	TokenID   *string    `gorm:"index" json:"token,omitempty"`
	RefreshID *string    `gorm:"index" json:"refresh,omitempty"`
	UserID    *uuid.UUID `gorm:"type:uuid;index" json:"user_id,omitempty"`
}

// TableName overrides the table name
func (Session) TableName() string {
	return "sessions"
}

// Client is a machine consumer of the API.
type Client struct {
	ID        uuid.UUID `gorm:"type:uuid;primarykey" json:"id"`
	Name      string    `gorm:"not null" json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

// TableName overrides the table name
func (Client) TableName() string {
	return "clients"
}

// ApiKey is a signed key issued to a client.
type ApiKey struct {
	Key       string    `gorm:"primarykey" json:"key"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	ClientID uuid.UUID `gorm:"type:uuid;not null;index" json:"client_id"`
	Client   Client    `gorm:"foreignKey:ClientID" json:"-"`
}

// TableName overrides the table name
func (ApiKey) TableName() string {
	return "api_keys"
}

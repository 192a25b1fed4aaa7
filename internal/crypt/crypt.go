// Package crypt implements password hashing and the two token kinds used by
// the auth flow: signed bearer tokens and opaque refresh tokens.
package crypt

import (
	"crypto/rand"
	"encoding/base64"
	"errors"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

// DefaultTokenTTL is the bearer token lifetime in seconds when the caller
// does not override it.
const DefaultTokenTTL int64 = 10

// DefaultRefreshTokenLength is the display length of opaque refresh tokens.
const DefaultRefreshTokenLength = 128

// DecodeStatus classifies the outcome of decoding a bearer token.
type DecodeStatus int

const (
	TokenOK DecodeStatus = iota
	TokenExpired
	TokenInvalidSignature
	TokenMalformed
	TokenInvalid
)

func (s DecodeStatus) String() string {
	switch s {
	case TokenOK:
		return "ok"
	case TokenExpired:
		return "expired"
	case TokenInvalidSignature:
		return "invalid_signature"
	case TokenMalformed:
		return "malformed"
	default:
		return "invalid"
	}
}

// HashPassword hashes a plaintext password with bcrypt. The salt is embedded
// in the returned hash.
func HashPassword(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

// CheckPassword verifies a plaintext password against a stored bcrypt hash.
// A malformed stored hash yields false, never an error.
func CheckPassword(password, hashed string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hashed), []byte(password)) == nil
}

// GenerateToken signs an HS256 bearer token carrying the given claims plus an
// exp claim ttlSeconds from now. A zero TTL falls back to the default; a
// negative TTL is honored so callers can mint already-expired tokens.
func GenerateToken(claims map[string]any, ttlSeconds int64, secret string) (string, error) {
	if ttlSeconds == 0 {
		ttlSeconds = DefaultTokenTTL
	}

	mapClaims := jwt.MapClaims{
		"exp": time.Now().Add(time.Duration(ttlSeconds) * time.Second).Unix(),
		"iat": time.Now().Unix(),
	}
	for k, v := range claims {
		mapClaims[k] = v
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, mapClaims)
	return token.SignedString([]byte(secret))
}

// DecodeToken parses and verifies a bearer token. On failure the returned
// status says why; claims are nil unless the status is TokenOK.
func DecodeToken(tokenString, secret string) (jwt.MapClaims, DecodeStatus) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return []byte(secret), nil
	})

	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenExpired):
			return nil, TokenExpired
		case errors.Is(err, jwt.ErrTokenSignatureInvalid):
			return nil, TokenInvalidSignature
		case errors.Is(err, jwt.ErrTokenMalformed):
			return nil, TokenMalformed
		default:
			return nil, TokenInvalid
		}
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return nil, TokenInvalid
	}

	return claims, TokenOK
}

// GenerateRefreshToken returns a URL-safe opaque token of exactly length
// characters from a cryptographically secure source. Validity of a refresh
// token is tracked in the store, not embedded here.
func GenerateRefreshToken(length int) (string, error) {
	if length <= 0 {
		length = DefaultRefreshTokenLength
	}

	numBytes := (length * 3) / 4
	randomBytes := make([]byte, numBytes)
	if _, err := rand.Read(randomBytes); err != nil {
		return "", err
	}

	token := base64.URLEncoding.EncodeToString(randomBytes)
	if len(token) > length {
		return token[:length], nil
	}
	return token + strings.Repeat("=", length-len(token)), nil
}

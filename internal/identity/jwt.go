// Package identity issues and validates the bearer tokens scanner service
// accounts use to call ingest() (spec §1 scopes user login/registration out;
// only the ApiServiceAccount surface is implemented).
//
// Grounded in modules/auth/service/jwt_service.go's claims/signing shape,
// trimmed to the one token kind SynApSec actually needs.
package identity

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/synapsec/core/internal/config"
	"github.com/synapsec/core/internal/domain/entity"
)

var (
	ErrInvalidToken = errors.New("invalid token")
	ErrTokenExpired = errors.New("token expired")
)

// Claims identifies a scanner service account for the lifetime of one token.
type Claims struct {
	UserID uuid.UUID       `json:"user_id"`
	Role   entity.UserRole `json:"role"`
	jwt.RegisteredClaims
}

// JWTService signs and verifies access tokens for scanner_api_keys-backed
// service accounts.
type JWTService struct {
	secretKey    []byte
	accessExpiry time.Duration
}

func NewJWTService(cfg config.JWTConfig) *JWTService {
	return &JWTService{secretKey: []byte(cfg.Secret), accessExpiry: cfg.AccessTokenExpiry}
}

func (s *JWTService) GenerateToken(userID uuid.UUID, role entity.UserRole) (string, error) {
	now := time.Now()
	claims := Claims{
		UserID: userID,
		Role:   role,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(s.accessExpiry)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			Issuer:    "synapsec",
			Subject:   userID.String(),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secretKey)
}

func (s *JWTService) ValidateToken(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return s.secretKey, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, ErrInvalidToken
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

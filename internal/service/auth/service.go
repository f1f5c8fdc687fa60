// Package auth authenticates staff and issues the JWTs the protected
// routes require.
package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/sigemech/admission-api/config"
	"github.com/sigemech/admission-api/internal/model"
	"github.com/sigemech/admission-api/internal/repository"
	"github.com/sigemech/admission-api/pkg/apperror"
	"github.com/sigemech/admission-api/pkg/security"
)

// Claims is the token payload. Subject carries the user ID.
type Claims struct {
	DocumentNumber string `json:"document_number"`
	jwt.RegisteredClaims
}

type Service struct {
	users     repository.UserRepository
	passwords security.PasswordHasher
	cfg       config.JWTConfig
	logger    zerolog.Logger
	now       func() time.Time
}

func NewService(users repository.UserRepository, cfg config.JWTConfig, logger zerolog.Logger) *Service {
	return &Service{
		users:     users,
		passwords: security.NewBcryptHasher(bcrypt.DefaultCost),
		cfg:       cfg,
		logger:    logger,
		now:       time.Now,
	}
}

// Login checks the credentials and returns a signed token. The response
// is identical for an unknown document and a wrong password.
func (s *Service) Login(ctx context.Context, req *model.LoginRequest) (*model.LoginResponse, error) {
	user, err := s.users.FindByDocument(ctx, req.DocumentNumber)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperror.Unauthorized("invalid credentials")
		}
		return nil, apperror.Internal(err)
	}
	if !user.IsActive {
		s.logger.Warn().Int64("user_id", user.ID).Msg("login attempt on inactive account")
		return nil, apperror.Unauthorized("invalid credentials")
	}
	if err := s.passwords.Compare(user.PasswordHash, req.Password); err != nil {
		return nil, apperror.Unauthorized("invalid credentials")
	}

	token, err := s.issueToken(user)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	return &model.LoginResponse{Token: token, User: user}, nil
}

func (s *Service) issueToken(user *model.User) (string, error) {
	now := s.now()
	claims := Claims{
		DocumentNumber: user.DocumentNumber,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   fmt.Sprintf("%d", user.ID),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Duration(s.cfg.ExpiryHours) * time.Hour)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.cfg.Secret))
}

// ParseToken validates a bearer token and returns its claims.
func (s *Service) ParseToken(tokenString string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return []byte(s.cfg.Secret), nil
	})
	if err != nil || !token.Valid {
		return nil, apperror.Unauthorized("invalid or expired token")
	}
	return claims, nil
}

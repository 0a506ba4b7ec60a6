package auth

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"hrcontracts/internal/platform/logging"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInactiveUser       = errors.New("user is inactive")
	ErrWeakPassword       = errors.New("password must have at least 8 characters")
)

const TokenTTL = 8 * time.Hour

type Service struct {
	Store  *Store
	Secret string
}

func NewService(store *Store, secret string) *Service {
	return &Service{Store: store, Secret: secret}
}

type Session struct {
	Token              string `json:"token"`
	UserID             string `json:"userId"`
	Email              string `json:"email"`
	FullName           string `json:"fullName"`
	Role               string `json:"role"`
	MustChangePassword bool   `json:"mustChangePassword"`
}

func (s *Service) Login(ctx context.Context, email, password string) (Session, error) {
	creds, err := s.Store.FindByEmail(ctx, strings.TrimSpace(email))
	if errors.Is(err, pgx.ErrNoRows) {
		return Session{}, ErrInvalidCredentials
	}
	if err != nil {
		return Session{}, err
	}
	if creds.PasswordHash == "" || CheckPassword(creds.PasswordHash, password) != nil {
		return Session{}, ErrInvalidCredentials
	}
	if !creds.IsActive {
		return Session{}, ErrInactiveUser
	}

	token, err := GenerateToken(s.Secret, Claims{UserID: creds.ID, Email: creds.Email, Role: creds.Role}, TokenTTL)
	if err != nil {
		return Session{}, err
	}
	if err := s.Store.UpdateLastSignIn(ctx, creds.ID); err != nil {
		logging.FromContext(ctx).Warn("update last_sign_in_at failed", zap.String("user_id", creds.ID), zap.Error(err))
	}
	return Session{
		Token:              token,
		UserID:             creds.ID,
		Email:              creds.Email,
		FullName:           creds.FullName,
		Role:               creds.Role,
		MustChangePassword: creds.MustChangePassword,
	}, nil
}

func (s *Service) ChangePassword(ctx context.Context, userID, newPassword string) error {
	if len(newPassword) < 8 {
		return ErrWeakPassword
	}
	hash, err := HashPassword(newPassword)
	if err != nil {
		return err
	}
	return s.Store.UpdatePassword(ctx, userID, hash)
}

package auth

import (
	"context"

	"hrcontracts/internal/platform/querier"
)

type Store struct {
	DB querier.Querier
}

func NewStore(db querier.Querier) *Store {
	return &Store{DB: db}
}

type Credentials struct {
	ID                 string
	Email              string
	FullName           string
	Role               string
	PasswordHash       string
	IsActive           bool
	MustChangePassword bool
}

func (s *Store) FindByEmail(ctx context.Context, email string) (Credentials, error) {
	var out Credentials
	err := s.DB.QueryRow(ctx, `
    SELECT id, email, full_name, role, COALESCE(password_hash, ''), is_active, must_change_password
    FROM profiles
    WHERE lower(email) = lower($1)
  `, email).Scan(&out.ID, &out.Email, &out.FullName, &out.Role, &out.PasswordHash, &out.IsActive, &out.MustChangePassword)
	return out, err
}

func (s *Store) UpdateLastSignIn(ctx context.Context, userID string) error {
	_, err := s.DB.Exec(ctx, "UPDATE profiles SET last_sign_in_at = now() WHERE id = $1", userID)
	return err
}

func (s *Store) UpdatePassword(ctx context.Context, userID, hash string) error {
	_, err := s.DB.Exec(ctx, `
    UPDATE profiles SET password_hash = $1, must_change_password = false, updated_at = now()
    WHERE id = $2
  `, hash, userID)
	return err
}

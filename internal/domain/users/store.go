package users

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"hrcontracts/internal/platform/querier"
)

type StoreAPI interface {
	ListProfiles(ctx context.Context) ([]Profile, error)
	Get(ctx context.Context, id string) (Profile, error)
	SetActive(ctx context.Context, id string, active bool) error
	SetTemporaryPassword(ctx context.Context, id, hash string) error
}

var _ StoreAPI = (*Store)(nil)

type Store struct {
	DB querier.Querier
}

func NewStore(db querier.Querier) *Store {
	return &Store{DB: db}
}

const profileColumns = `id::text, email, full_name, role, is_active, must_change_password, last_sign_in_at, created_at`

func scanProfile(row pgx.Row) (Profile, error) {
	var p Profile
	err := row.Scan(&p.ID, &p.Email, &p.FullName, &p.Role, &p.IsActive, &p.MustChangePassword, &p.LastSignInAt, &p.CreatedAt)
	return p, err
}

// ListProfiles calls get_all_user_profiles.
func (s *Store) ListProfiles(ctx context.Context) ([]Profile, error) {
	rows, err := s.DB.Query(ctx, `SELECT `+profileColumns+` FROM get_all_user_profiles()`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []Profile{}
	for rows.Next() {
		p, err := scanProfile(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (s *Store) Get(ctx context.Context, id string) (Profile, error) {
	p, err := scanProfile(s.DB.QueryRow(ctx, `SELECT `+profileColumns+` FROM profiles WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return Profile{}, ErrNotFound
	}
	return p, err
}

func (s *Store) SetActive(ctx context.Context, id string, active bool) error {
	tag, err := s.DB.Exec(ctx, `UPDATE profiles SET is_active = $1, updated_at = now() WHERE id = $2`, active, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Store) SetTemporaryPassword(ctx context.Context, id, hash string) error {
	tag, err := s.DB.Exec(ctx, `
    UPDATE profiles SET password_hash = $1, must_change_password = true, updated_at = now()
    WHERE id = $2
  `, hash, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

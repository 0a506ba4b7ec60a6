package db

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"hrcontracts/internal/domain/auth"
	"hrcontracts/internal/platform/config"
	"hrcontracts/internal/platform/querier"
)

// Seed makes sure the bootstrap administrator exists. An existing profile is left as is.
func Seed(ctx context.Context, db querier.Querier, cfg config.Config) error {
	return ensureAdminUser(ctx, db, cfg.SeedAdminEmail, cfg.SeedAdminPassword)
}

func ensureAdminUser(ctx context.Context, db querier.Querier, email, password string) error {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || strings.TrimSpace(password) == "" {
		return nil
	}

	var id string
	err := db.QueryRow(ctx, "SELECT id FROM profiles WHERE lower(email) = $1", email).Scan(&id)
	if err == nil {
		return nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("seed: lookup admin: %w", err)
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return fmt.Errorf("seed: hash password: %w", err)
	}
	_, err = db.Exec(ctx, `
    INSERT INTO profiles (email, full_name, role, password_hash)
    VALUES ($1, $2, $3, $4)
    ON CONFLICT (email) DO NOTHING
  `, email, "Administrador", auth.RoleAdmin, hash)
	if err != nil {
		return fmt.Errorf("seed: insert admin: %w", err)
	}
	return nil
}

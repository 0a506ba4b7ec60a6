package db

import (
	"strings"
	"testing"
)

func TestPgx5URL(t *testing.T) {
	cases := map[string]string{
		"postgres://u:p@localhost:5432/hr?sslmode=disable": "pgx5://u:p@localhost:5432/hr?sslmode=disable",
		"postgresql://localhost/hr":                        "pgx5://localhost/hr",
		"pgx5://localhost/hr":                              "pgx5://localhost/hr",
	}
	for in, want := range cases {
		if got := pgx5URL(in); got != want {
			t.Fatalf("pgx5URL(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestEmbeddedMigrationsPresent(t *testing.T) {
	entries, err := migrationFiles.ReadDir("migrations")
	if err != nil {
		t.Fatalf("read embedded migrations: %v", err)
	}
	if len(entries) == 0 {
		t.Fatal("expected embedded migrations")
	}
	for _, entry := range entries {
		name := entry.Name()
		if !strings.HasSuffix(name, ".up.sql") && !strings.HasSuffix(name, ".down.sql") {
			t.Fatalf("unexpected migration file name %q", name)
		}
	}
}

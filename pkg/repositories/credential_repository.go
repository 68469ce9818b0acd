// Package repositories provides data access for the engine database.
package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/tablemind-ai/tablemind-engine/pkg/crypto"
	"github.com/tablemind-ai/tablemind-engine/pkg/models"
)

// Querier is the subset of pgxpool.Pool used by repositories.
type Querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

// CredentialRepository persists datasource connection credentials for later
// reuse. Passwords are bcrypt-hashed before they reach storage.
type CredentialRepository interface {
	// Save upserts the credential for (user, host, database). The raw
	// password is hashed here and never stored.
	Save(ctx context.Context, userID string, params *models.ConnectionParams) error

	// Get returns the stored credential, or nil if none exists.
	Get(ctx context.Context, userID, host, database string) (*models.StoredCredential, error)
}

type credentialRepository struct {
	db Querier
}

// NewCredentialRepository creates a credential repository backed by the
// engine database.
func NewCredentialRepository(db Querier) CredentialRepository {
	return &credentialRepository{db: db}
}

func (r *credentialRepository) Save(ctx context.Context, userID string, params *models.ConnectionParams) error {
	hash, err := crypto.HashPassword(params.Password)
	if err != nil {
		return fmt.Errorf("hash credential password: %w", err)
	}

	query := `
		INSERT INTO db_credentials (user_id, dialect, host, port, username, password_hash, database_name, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, now())
		ON CONFLICT (user_id, host, database_name)
		DO UPDATE SET
			dialect = EXCLUDED.dialect,
			port = EXCLUDED.port,
			username = EXCLUDED.username,
			password_hash = EXCLUDED.password_hash,
			updated_at = now()
	`

	_, err = r.db.Exec(ctx, query,
		userID, string(params.Dialect), params.Hostname, params.Port,
		params.Username, hash, params.Database)
	if err != nil {
		return fmt.Errorf("upsert credential: %w", err)
	}
	return nil
}

func (r *credentialRepository) Get(ctx context.Context, userID, host, database string) (*models.StoredCredential, error) {
	query := `
		SELECT id, user_id, dialect, host, port, username, password_hash, database_name, updated_at
		FROM db_credentials
		WHERE user_id = $1 AND host = $2 AND database_name = $3
	`

	var cred models.StoredCredential
	err := r.db.QueryRow(ctx, query, userID, host, database).Scan(
		&cred.ID, &cred.UserID, &cred.Dialect, &cred.Host, &cred.Port,
		&cred.Username, &cred.PasswordHash, &cred.Database, &cred.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query credential: %w", err)
	}
	return &cred, nil
}

package models

import (
	"time"

	"github.com/google/uuid"
)

// StoredCredential is a saved datasource connection for later reuse.
// PasswordHash is a bcrypt hash; the raw password is never persisted.
type StoredCredential struct {
	ID           uuid.UUID `json:"id"`
	UserID       string    `json:"user_id"`
	Dialect      Dialect   `json:"dialect"`
	Host         string    `json:"host"`
	Port         int       `json:"port"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"`
	Database     string    `json:"database"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// MemoryEntry is one embedded table document in the local memory store.
type MemoryEntry struct {
	ID        uuid.UUID `json:"id"`
	UserID    string    `json:"user_id"`
	Category  string    `json:"category"`
	TableName string    `json:"table_name"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

package data

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
)

// SQLContactRepository stores contact form messages using sqlx.
type SQLContactRepository struct {
	db *sqlx.DB
}

// NewSQLContactRepository creates a new SQLContactRepository.
func NewSQLContactRepository(db *sqlx.DB) *SQLContactRepository {
	return &SQLContactRepository{db: db}
}

// CreateMessage inserts a message.
func (r *SQLContactRepository) CreateMessage(ctx context.Context, m *ContactMessage) error {
	m.CreatedAt = now()
	query := `INSERT INTO contact_messages (name, email, phone, subject, message, created_at)
		VALUES (:name, :email, :phone, :subject, :message, :created_at)`
	id, err := insert(ctx, r.db, query, m)
	if err != nil {
		return translate(err, "failed to create contact message")
	}
	m.ID = id
	return nil
}

// ListMessages retrieves messages, newest first.
func (r *SQLContactRepository) ListMessages(ctx context.Context) ([]*ContactMessage, error) {
	messages := []*ContactMessage{}
	query := `SELECT id, name, email, phone, subject, message, created_at FROM contact_messages ORDER BY created_at DESC, id DESC`
	if err := r.db.SelectContext(ctx, &messages, query); err != nil {
		return nil, fmt.Errorf("failed to list contact messages: %w", err)
	}
	return messages, nil
}

// DeleteMessage removes a message.
func (r *SQLContactRepository) DeleteMessage(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, r.db.Rebind(`DELETE FROM contact_messages WHERE id = ?`), id)
	if err != nil {
		return translate(err, "failed to delete contact message")
	}
	return mustAffect(result, "contact message", id)
}

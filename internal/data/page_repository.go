package data

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
)

const pageColumns = `id, slug, title, description, body, published, created_at, updated_at`

// SQLPageRepository stores CMS pages using sqlx.
type SQLPageRepository struct {
	db *sqlx.DB
}

// NewSQLPageRepository creates a new SQLPageRepository.
func NewSQLPageRepository(db *sqlx.DB) *SQLPageRepository {
	return &SQLPageRepository{db: db}
}

// CreatePage inserts a new page and sets its ID and timestamps.
func (r *SQLPageRepository) CreatePage(ctx context.Context, page *Page) error {
	page.CreatedAt = now()
	page.UpdatedAt = page.CreatedAt
	query := `INSERT INTO pages (slug, title, description, body, published, created_at, updated_at)
		VALUES (:slug, :title, :description, :body, :published, :created_at, :updated_at)`
	id, err := insert(ctx, r.db, query, page)
	if err != nil {
		return translate(err, "failed to create page")
	}
	page.ID = id
	return nil
}

// GetPageBySlug retrieves a single page by its slug.
func (r *SQLPageRepository) GetPageBySlug(ctx context.Context, slug string) (*Page, error) {
	var page Page
	query := r.db.Rebind(`SELECT ` + pageColumns + ` FROM pages WHERE slug = ?`)
	if err := r.db.GetContext(ctx, &page, query, slug); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("page with slug '%s': %w", slug, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get page by slug: %w", err)
	}
	return &page, nil
}

// GetPageByID retrieves a single page by its ID.
func (r *SQLPageRepository) GetPageByID(ctx context.Context, id int64) (*Page, error) {
	var page Page
	query := r.db.Rebind(`SELECT ` + pageColumns + ` FROM pages WHERE id = ?`)
	if err := r.db.GetContext(ctx, &page, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("page with id %d: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get page by id: %w", err)
	}
	return &page, nil
}

// ListPages retrieves pages ordered by title, optionally only the published ones.
func (r *SQLPageRepository) ListPages(ctx context.Context, publishedOnly bool) ([]*Page, error) {
	pages := []*Page{}
	query := `SELECT ` + pageColumns + ` FROM pages`
	if publishedOnly {
		query += ` WHERE published = ?`
	}
	query += ` ORDER BY title`
	var args []interface{}
	if publishedOnly {
		args = append(args, true)
	}
	if err := r.db.SelectContext(ctx, &pages, r.db.Rebind(query), args...); err != nil {
		return nil, fmt.Errorf("failed to list pages: %w", err)
	}
	return pages, nil
}

// UpdatePage updates an existing page.
func (r *SQLPageRepository) UpdatePage(ctx context.Context, page *Page) error {
	page.UpdatedAt = now()
	query := `UPDATE pages SET slug = :slug, title = :title, description = :description, body = :body,
		published = :published, updated_at = :updated_at WHERE id = :id`
	result, err := r.db.NamedExecContext(ctx, query, page)
	if err != nil {
		return translate(err, "failed to update page")
	}
	return mustAffect(result, "page", page.ID)
}

// DeletePage removes a page and, through the foreign key, its sections.
func (r *SQLPageRepository) DeletePage(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, r.db.Rebind(`DELETE FROM pages WHERE id = ?`), id)
	if err != nil {
		return translate(err, "failed to delete page")
	}
	return mustAffect(result, "page", id)
}

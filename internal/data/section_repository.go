package data

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
)

const sectionColumns = `s.id, s.page_id, s.section_key, s.title, s.subtitle, s.body, s.image_url,
	s.sort_order, s.visible, s.created_at, s.updated_at`

// SQLSectionRepository stores page sections using sqlx.
type SQLSectionRepository struct {
	db *sqlx.DB
}

// NewSQLSectionRepository creates a new SQLSectionRepository.
func NewSQLSectionRepository(db *sqlx.DB) *SQLSectionRepository {
	return &SQLSectionRepository{db: db}
}

// CreateSection inserts a section and sets its ID and timestamps.
func (r *SQLSectionRepository) CreateSection(ctx context.Context, s *Section) error {
	s.CreatedAt = now()
	s.UpdatedAt = s.CreatedAt
	query := `INSERT INTO sections (page_id, section_key, title, subtitle, body, image_url, sort_order, visible, created_at, updated_at)
		VALUES (:page_id, :section_key, :title, :subtitle, :body, :image_url, :sort_order, :visible, :created_at, :updated_at)`
	id, err := insert(ctx, r.db, query, s)
	if err != nil {
		return translate(err, "failed to create section")
	}
	s.ID = id
	return nil
}

// GetSectionByID retrieves a section by its ID.
func (r *SQLSectionRepository) GetSectionByID(ctx context.Context, id int64) (*Section, error) {
	var s Section
	query := r.db.Rebind(`SELECT ` + sectionColumns + ` FROM sections s WHERE s.id = ?`)
	if err := r.db.GetContext(ctx, &s, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("section with id %d: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get section: %w", err)
	}
	return &s, nil
}

// ListSectionsByPage retrieves every section of a page in display order.
func (r *SQLSectionRepository) ListSectionsByPage(ctx context.Context, pageID int64) ([]*Section, error) {
	sections := []*Section{}
	query := r.db.Rebind(`SELECT ` + sectionColumns + ` FROM sections s WHERE s.page_id = ? ORDER BY s.sort_order, s.id`)
	if err := r.db.SelectContext(ctx, &sections, query, pageID); err != nil {
		return nil, fmt.Errorf("failed to list sections: %w", err)
	}
	return sections, nil
}

// ListVisibleSectionsBySlug retrieves the visible sections of the page with the given slug.
func (r *SQLSectionRepository) ListVisibleSectionsBySlug(ctx context.Context, slug string) ([]*Section, error) {
	sections := []*Section{}
	query := r.db.Rebind(`SELECT ` + sectionColumns + ` FROM sections s
		JOIN pages p ON p.id = s.page_id
		WHERE p.slug = ? AND s.visible = ?
		ORDER BY s.sort_order, s.id`)
	if err := r.db.SelectContext(ctx, &sections, query, slug, true); err != nil {
		return nil, fmt.Errorf("failed to list sections by slug: %w", err)
	}
	return sections, nil
}

// UpdateSection updates an existing section.
func (r *SQLSectionRepository) UpdateSection(ctx context.Context, s *Section) error {
	s.UpdatedAt = now()
	query := `UPDATE sections SET section_key = :section_key, title = :title, subtitle = :subtitle, body = :body,
		image_url = :image_url, sort_order = :sort_order, visible = :visible, updated_at = :updated_at WHERE id = :id`
	result, err := r.db.NamedExecContext(ctx, query, s)
	if err != nil {
		return translate(err, "failed to update section")
	}
	return mustAffect(result, "section", s.ID)
}

// DeleteSection removes a section.
func (r *SQLSectionRepository) DeleteSection(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, r.db.Rebind(`DELETE FROM sections WHERE id = ?`), id)
	if err != nil {
		return translate(err, "failed to delete section")
	}
	return mustAffect(result, "section", id)
}

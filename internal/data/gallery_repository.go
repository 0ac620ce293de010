package data

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
)

const galleryColumns = `id, title, caption, image_url, category, sort_order, published, created_at, updated_at`

// SQLGalleryRepository stores gallery images using sqlx.
type SQLGalleryRepository struct {
	db *sqlx.DB
}

// NewSQLGalleryRepository creates a new SQLGalleryRepository.
func NewSQLGalleryRepository(db *sqlx.DB) *SQLGalleryRepository {
	return &SQLGalleryRepository{db: db}
}

// CreateImage inserts an image and sets its ID and timestamps.
func (r *SQLGalleryRepository) CreateImage(ctx context.Context, img *GalleryImage) error {
	img.CreatedAt = now()
	img.UpdatedAt = img.CreatedAt
	query := `INSERT INTO gallery_images (title, caption, image_url, category, sort_order, published, created_at, updated_at)
		VALUES (:title, :caption, :image_url, :category, :sort_order, :published, :created_at, :updated_at)`
	id, err := insert(ctx, r.db, query, img)
	if err != nil {
		return translate(err, "failed to create gallery image")
	}
	img.ID = id
	return nil
}

// GetImageByID retrieves an image by its ID.
func (r *SQLGalleryRepository) GetImageByID(ctx context.Context, id int64) (*GalleryImage, error) {
	var img GalleryImage
	query := r.db.Rebind(`SELECT ` + galleryColumns + ` FROM gallery_images WHERE id = ?`)
	if err := r.db.GetContext(ctx, &img, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("gallery image with id %d: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get gallery image: %w", err)
	}
	return &img, nil
}

// ListImages retrieves images in display order, optionally only the published ones.
func (r *SQLGalleryRepository) ListImages(ctx context.Context, publishedOnly bool) ([]*GalleryImage, error) {
	images := []*GalleryImage{}
	query := `SELECT ` + galleryColumns + ` FROM gallery_images`
	var args []interface{}
	if publishedOnly {
		query += ` WHERE published = ?`
		args = append(args, true)
	}
	query += ` ORDER BY sort_order, id`
	if err := r.db.SelectContext(ctx, &images, r.db.Rebind(query), args...); err != nil {
		return nil, fmt.Errorf("failed to list gallery images: %w", err)
	}
	return images, nil
}

// UpdateImage updates an existing image.
func (r *SQLGalleryRepository) UpdateImage(ctx context.Context, img *GalleryImage) error {
	img.UpdatedAt = now()
	query := `UPDATE gallery_images SET title = :title, caption = :caption, image_url = :image_url, category = :category,
		sort_order = :sort_order, published = :published, updated_at = :updated_at WHERE id = :id`
	result, err := r.db.NamedExecContext(ctx, query, img)
	if err != nil {
		return translate(err, "failed to update gallery image")
	}
	return mustAffect(result, "gallery image", img.ID)
}

// DeleteImage removes an image.
func (r *SQLGalleryRepository) DeleteImage(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, r.db.Rebind(`DELETE FROM gallery_images WHERE id = ?`), id)
	if err != nil {
		return translate(err, "failed to delete gallery image")
	}
	return mustAffect(result, "gallery image", id)
}

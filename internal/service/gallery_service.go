package service

import (
	"carlton/internal/data"
	"context"
	"strings"
)

// GalleryRepository defines the interface for database operations on gallery images.
type GalleryRepository interface {
	CreateImage(ctx context.Context, img *data.GalleryImage) error
	GetImageByID(ctx context.Context, id int64) (*data.GalleryImage, error)
	ListImages(ctx context.Context, publishedOnly bool) ([]*data.GalleryImage, error)
	UpdateImage(ctx context.Context, img *data.GalleryImage) error
	DeleteImage(ctx context.Context, id int64) error
}

// GalleryInput is the editable part of a gallery image.
type GalleryInput struct {
	Title     string `json:"title"`
	Caption   string `json:"caption"`
	ImageURL  string `json:"image_url"`
	Category  string `json:"category"`
	SortOrder int    `json:"sort_order"`
	Published bool   `json:"published"`
}

func (in *GalleryInput) validate() error {
	in.Title = strings.TrimSpace(in.Title)
	in.ImageURL = strings.TrimSpace(in.ImageURL)
	in.Category = strings.ToLower(strings.TrimSpace(in.Category))

	var v ValidationError
	if in.Title == "" {
		v.add("title", "is required")
	}
	if in.ImageURL == "" {
		v.add("image_url", "is required")
	} else if !validImageURL(in.ImageURL) {
		v.add("image_url", "must be an absolute http(s) URL or a /static path")
	}
	return v.err()
}

// GalleryService manages gallery images.
type GalleryService struct {
	repo GalleryRepository
	inv  Invalidator
}

// NewGalleryService creates a new GalleryService. A nil repo means no database.
func NewGalleryService(repo GalleryRepository, inv Invalidator) *GalleryService {
	if inv == nil {
		inv = nopInvalidator{}
	}
	return &GalleryService{repo: repo, inv: inv}
}

// ListImages returns every image, unpublished ones included.
func (s *GalleryService) ListImages(ctx context.Context) ([]*data.GalleryImage, error) {
	if s.repo == nil {
		return nil, ErrUnavailable
	}
	return s.repo.ListImages(ctx, false)
}

// GetImage returns an image by id.
func (s *GalleryService) GetImage(ctx context.Context, id int64) (*data.GalleryImage, error) {
	if s.repo == nil {
		return nil, ErrUnavailable
	}
	return s.repo.GetImageByID(ctx, id)
}

// CreateImage validates and stores an image.
func (s *GalleryService) CreateImage(ctx context.Context, in GalleryInput) (*data.GalleryImage, error) {
	if s.repo == nil {
		return nil, ErrUnavailable
	}
	if err := in.validate(); err != nil {
		return nil, err
	}
	img := &data.GalleryImage{}
	in.apply(img)
	if err := s.repo.CreateImage(ctx, img); err != nil {
		return nil, err
	}
	s.inv.Invalidate(ctx)
	return img, nil
}

// UpdateImage replaces the editable fields of an image.
func (s *GalleryService) UpdateImage(ctx context.Context, id int64, in GalleryInput) (*data.GalleryImage, error) {
	if s.repo == nil {
		return nil, ErrUnavailable
	}
	img, err := s.repo.GetImageByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := in.validate(); err != nil {
		return nil, err
	}
	in.apply(img)
	if err := s.repo.UpdateImage(ctx, img); err != nil {
		return nil, err
	}
	s.inv.Invalidate(ctx)
	return img, nil
}

// DeleteImage removes an image.
func (s *GalleryService) DeleteImage(ctx context.Context, id int64) error {
	if s.repo == nil {
		return ErrUnavailable
	}
	if err := s.repo.DeleteImage(ctx, id); err != nil {
		return err
	}
	s.inv.Invalidate(ctx)
	return nil
}

// PublishedImages lists what the public gallery shows. Without a database it is empty.
func (s *GalleryService) PublishedImages(ctx context.Context) ([]*data.GalleryImage, error) {
	if s.repo == nil {
		return []*data.GalleryImage{}, nil
	}
	return s.repo.ListImages(ctx, true)
}

func (in GalleryInput) apply(img *data.GalleryImage) {
	img.Title = in.Title
	img.Caption = in.Caption
	img.ImageURL = in.ImageURL
	img.Category = in.Category
	img.SortOrder = in.SortOrder
	img.Published = in.Published
}

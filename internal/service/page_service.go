package service

import (
	"carlton/internal/data"
	"context"
	"regexp"
	"strings"
)

// PageRepository defines the interface for database operations on pages.
type PageRepository interface {
	CreatePage(ctx context.Context, page *data.Page) error
	GetPageBySlug(ctx context.Context, slug string) (*data.Page, error)
	GetPageByID(ctx context.Context, id int64) (*data.Page, error)
	ListPages(ctx context.Context, publishedOnly bool) ([]*data.Page, error)
	UpdatePage(ctx context.Context, page *data.Page) error
	DeletePage(ctx context.Context, id int64) error
}

// Invalidator drops cached public pages after content changes.
type Invalidator interface {
	Invalidate(ctx context.Context, cmsSlugs ...string)
}

type nopInvalidator struct{}

func (nopInvalidator) Invalidate(context.Context, ...string) {}

// PageInput is the editable part of a CMS page.
type PageInput struct {
	Slug        string `json:"slug"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Body        string `json:"body"`
	Published   bool   `json:"published"`
}

// PageService provides business logic for managing pages.
type PageService struct {
	repo PageRepository
	inv  Invalidator
}

// NewPageService creates a new PageService. A nil repo means no database.
func NewPageService(repo PageRepository, inv Invalidator) *PageService {
	if inv == nil {
		inv = nopInvalidator{}
	}
	return &PageService{repo: repo, inv: inv}
}

var slugRe = regexp.MustCompile(`[^a-z0-9]+`)

// Slugify lowercases s and joins its alphanumeric runs with hyphens.
func Slugify(s string) string {
	return strings.Trim(slugRe.ReplaceAllString(strings.ToLower(strings.TrimSpace(s)), "-"), "-")
}

func (in *PageInput) validate() error {
	in.Title = strings.TrimSpace(in.Title)
	in.Description = strings.TrimSpace(in.Description)
	if in.Slug == "" {
		in.Slug = in.Title
	}
	in.Slug = Slugify(in.Slug)

	var v ValidationError
	if in.Title == "" {
		v.add("title", "is required")
	} else if len(in.Title) > 200 {
		v.add("title", "must be at most 200 characters")
	}
	if in.Slug == "" {
		v.add("slug", "must contain letters or digits")
	} else if len(in.Slug) > 120 {
		v.add("slug", "must be at most 120 characters")
	}
	if len(in.Description) > 300 {
		v.add("description", "must be at most 300 characters")
	}
	return v.err()
}

// ListPages returns every page, drafts included.
func (s *PageService) ListPages(ctx context.Context) ([]*data.Page, error) {
	if s.repo == nil {
		return nil, ErrUnavailable
	}
	return s.repo.ListPages(ctx, false)
}

// GetPage returns a page by id.
func (s *PageService) GetPage(ctx context.Context, id int64) (*data.Page, error) {
	if s.repo == nil {
		return nil, ErrUnavailable
	}
	return s.repo.GetPageByID(ctx, id)
}

// CreatePage validates and stores a new page.
func (s *PageService) CreatePage(ctx context.Context, in PageInput) (*data.Page, error) {
	if s.repo == nil {
		return nil, ErrUnavailable
	}
	if err := in.validate(); err != nil {
		return nil, err
	}
	page := &data.Page{
		Slug:        in.Slug,
		Title:       in.Title,
		Description: in.Description,
		Body:        in.Body,
		Published:   in.Published,
	}
	if err := s.repo.CreatePage(ctx, page); err != nil {
		return nil, err
	}
	s.inv.Invalidate(ctx, page.Slug)
	return page, nil
}

// UpdatePage handles the logic for updating an existing page.
func (s *PageService) UpdatePage(ctx context.Context, id int64, in PageInput) (*data.Page, error) {
	if s.repo == nil {
		return nil, ErrUnavailable
	}
	page, err := s.repo.GetPageByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := in.validate(); err != nil {
		return nil, err
	}
	oldSlug := page.Slug

	page.Slug = in.Slug
	page.Title = in.Title
	page.Description = in.Description
	page.Body = in.Body
	page.Published = in.Published
	if err := s.repo.UpdatePage(ctx, page); err != nil {
		return nil, err
	}
	s.inv.Invalidate(ctx, oldSlug, page.Slug)
	return page, nil
}

// DeletePage handles the deletion of a page by its ID.
func (s *PageService) DeletePage(ctx context.Context, id int64) error {
	if s.repo == nil {
		return ErrUnavailable
	}
	page, err := s.repo.GetPageByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.repo.DeletePage(ctx, id); err != nil {
		return err
	}
	s.inv.Invalidate(ctx, page.Slug)
	return nil
}

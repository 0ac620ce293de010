package service

import (
	"carlton/internal/data"
	"context"
	"strings"
)

// SectionRepository defines the interface for database operations on sections.
type SectionRepository interface {
	CreateSection(ctx context.Context, s *data.Section) error
	GetSectionByID(ctx context.Context, id int64) (*data.Section, error)
	ListSectionsByPage(ctx context.Context, pageID int64) ([]*data.Section, error)
	ListVisibleSectionsBySlug(ctx context.Context, slug string) ([]*data.Section, error)
	UpdateSection(ctx context.Context, s *data.Section) error
	DeleteSection(ctx context.Context, id int64) error
}

// SectionInput is the editable part of a section. Text fields accept the
// inline markup used across the site.
type SectionInput struct {
	Key       string `json:"key"`
	Title     string `json:"title"`
	Subtitle  string `json:"subtitle"`
	Body      string `json:"body"`
	ImageURL  string `json:"image_url"`
	SortOrder int    `json:"sort_order"`
	Visible   bool   `json:"visible"`
}

func (in *SectionInput) validate() error {
	in.Key = Slugify(in.Key)
	in.Title = strings.TrimSpace(in.Title)
	in.ImageURL = strings.TrimSpace(in.ImageURL)

	var v ValidationError
	if in.Key == "" {
		v.add("key", "is required")
	}
	if len(in.Title) > 200 {
		v.add("title", "must be at most 200 characters")
	}
	if in.ImageURL != "" && !validImageURL(in.ImageURL) {
		v.add("image_url", "must be an absolute http(s) URL or a /static path")
	}
	return v.err()
}

// SectionService manages the keyed sections of CMS pages.
type SectionService struct {
	repo  SectionRepository
	pages PageRepository
	inv   Invalidator
}

// NewSectionService creates a new SectionService. Nil repositories mean no database.
func NewSectionService(repo SectionRepository, pages PageRepository, inv Invalidator) *SectionService {
	if inv == nil {
		inv = nopInvalidator{}
	}
	return &SectionService{repo: repo, pages: pages, inv: inv}
}

// ListSections returns the sections of a page in display order.
func (s *SectionService) ListSections(ctx context.Context, pageID int64) ([]*data.Section, error) {
	if s.repo == nil {
		return nil, ErrUnavailable
	}
	if _, err := s.pages.GetPageByID(ctx, pageID); err != nil {
		return nil, err
	}
	return s.repo.ListSectionsByPage(ctx, pageID)
}

// CreateSection adds a section to a page.
func (s *SectionService) CreateSection(ctx context.Context, pageID int64, in SectionInput) (*data.Section, error) {
	if s.repo == nil {
		return nil, ErrUnavailable
	}
	page, err := s.pages.GetPageByID(ctx, pageID)
	if err != nil {
		return nil, err
	}
	if err := in.validate(); err != nil {
		return nil, err
	}
	section := &data.Section{PageID: page.ID}
	in.apply(section)
	if err := s.repo.CreateSection(ctx, section); err != nil {
		return nil, err
	}
	s.inv.Invalidate(ctx, page.Slug)
	return section, nil
}

// UpdateSection replaces the editable fields of a section.
func (s *SectionService) UpdateSection(ctx context.Context, id int64, in SectionInput) (*data.Section, error) {
	if s.repo == nil {
		return nil, ErrUnavailable
	}
	section, err := s.repo.GetSectionByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := in.validate(); err != nil {
		return nil, err
	}
	in.apply(section)
	if err := s.repo.UpdateSection(ctx, section); err != nil {
		return nil, err
	}
	s.invalidatePage(ctx, section.PageID)
	return section, nil
}

// DeleteSection removes a section.
func (s *SectionService) DeleteSection(ctx context.Context, id int64) error {
	if s.repo == nil {
		return ErrUnavailable
	}
	section, err := s.repo.GetSectionByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.repo.DeleteSection(ctx, id); err != nil {
		return err
	}
	s.invalidatePage(ctx, section.PageID)
	return nil
}

func (s *SectionService) invalidatePage(ctx context.Context, pageID int64) {
	if page, err := s.pages.GetPageByID(ctx, pageID); err == nil {
		s.inv.Invalidate(ctx, page.Slug)
		return
	}
	s.inv.Invalidate(ctx)
}

func (in SectionInput) apply(s *data.Section) {
	s.Key = in.Key
	s.Title = in.Title
	s.Subtitle = in.Subtitle
	s.Body = in.Body
	s.ImageURL = in.ImageURL
	s.SortOrder = in.SortOrder
	s.Visible = in.Visible
}

func validImageURL(u string) bool {
	return strings.HasPrefix(u, "https://") || strings.HasPrefix(u, "http://") || strings.HasPrefix(u, "/static/")
}

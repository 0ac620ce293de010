package service

import (
	"carlton/internal/cache"
	"carlton/internal/content"
	"carlton/internal/data"
	"carlton/internal/logger"
	"context"
	"encoding/json"
	"errors"
	"html/template"
	"time"
)

const (
	keyPagePrefix = "site:page:"
	keyCMSPrefix  = "site:cms:"
	keyRooms      = "site:rooms"
	keyGallery    = "site:gallery"
)

// PageView is a public page after CMS overrides have been applied.
type PageView struct {
	Page    content.Page           `json:"page"`
	Rooms   []content.Room         `json:"rooms,omitempty"`
	Gallery []content.GalleryImage `json:"gallery,omitempty"`
}

// CMSView is a published CMS page ready to render.
type CMSView struct {
	Slug        string        `json:"slug"`
	Title       string        `json:"title"`
	Description string        `json:"description"`
	HTML        template.HTML `json:"html"`
	UpdatedAt   time.Time     `json:"updated_at"`
}

// SitemapEntry is one URL of the sitemap.
type SitemapEntry struct {
	Path    string
	LastMod time.Time
}

// SiteRepositories are the optional CMS sources of the public site. Any of
// them may be nil, in which case the static content is used alone.
type SiteRepositories struct {
	Pages    PageRepository
	Sections SectionRepository
	Rooms    RoomRepository
	Gallery  GalleryRepository
}

// SiteService assembles the public pages and caches the result.
type SiteService struct {
	content  *content.Content
	repos    SiteRepositories
	renderer *Renderer
	cache    cache.Store
	ttl      time.Duration
	log      logger.Logger
}

// NewSiteService creates a new SiteService.
func NewSiteService(c *content.Content, repos SiteRepositories, renderer *Renderer, store cache.Store, ttl time.Duration, log logger.Logger) *SiteService {
	if store == nil {
		store = cache.Nop{}
	}
	return &SiteService{content: c, repos: repos, renderer: renderer, cache: store, ttl: ttl, log: log}
}

// Site returns the details shared by every page.
func (s *SiteService) Site() content.Site {
	return s.content.Site
}

// PagePath is the public URL path of a static page.
func PagePath(slug string) string {
	if slug == "home" {
		return "/"
	}
	return "/" + slug
}

// Page returns the static page with the given slug, CMS overrides applied.
func (s *SiteService) Page(ctx context.Context, slug string) (*PageView, error) {
	var view PageView
	if s.cached(ctx, keyPagePrefix+slug, &view) {
		return &view, nil
	}

	page, ok := s.content.Page(slug)
	if !ok {
		return nil, data.ErrNotFound
	}
	if err := s.applyOverrides(ctx, &page); err != nil {
		return nil, err
	}
	view.Page = page

	switch slug {
	case "home", "rooms":
		rooms, err := s.Rooms(ctx)
		if err != nil {
			return nil, err
		}
		view.Rooms = rooms
	case "gallery":
		images, err := s.Gallery(ctx)
		if err != nil {
			return nil, err
		}
		view.Gallery = images
	}

	s.store(ctx, keyPagePrefix+slug, view)
	return &view, nil
}

func (s *SiteService) applyOverrides(ctx context.Context, page *content.Page) error {
	if s.repos.Pages != nil {
		cms, err := s.repos.Pages.GetPageBySlug(ctx, page.Slug)
		switch {
		case err == nil && cms.Published:
			if cms.Title != "" {
				page.Title = cms.Title
			}
			if cms.Description != "" {
				page.Description = cms.Description
			}
		case err != nil && !errors.Is(err, data.ErrNotFound):
			return err
		}
	}
	if s.repos.Sections == nil {
		return nil
	}
	sections, err := s.repos.Sections.ListVisibleSectionsBySlug(ctx, page.Slug)
	if err != nil {
		return err
	}
	for _, sec := range sections {
		overlaySection(page, sec)
	}
	return nil
}

// overlaySection applies a CMS section onto the static page. The "hero" key
// targets the page header, keys of listing items target those items, and
// unknown keys become new sections.
func overlaySection(page *content.Page, sec *data.Section) {
	if sec.Key == "hero" {
		override(&page.Hero.Title, sec.Title)
		override(&page.Hero.Subtitle, sec.Subtitle)
		override(&page.Hero.Image, sec.ImageURL)
		return
	}
	for i := range page.Sections {
		if page.Sections[i].Key == sec.Key {
			st := &page.Sections[i]
			override(&st.Title, sec.Title)
			override(&st.Subtitle, sec.Subtitle)
			override(&st.Body, sec.Body)
			override(&st.Image, sec.ImageURL)
			return
		}
	}
	for i := range page.Items {
		if page.Items[i].Key == sec.Key {
			it := &page.Items[i]
			override(&it.Name, sec.Title)
			override(&it.Subtitle, sec.Subtitle)
			override(&it.Body, sec.Body)
			override(&it.Image, sec.ImageURL)
			return
		}
	}
	page.Sections = append(page.Sections, content.Section{
		Key:      sec.Key,
		Title:    sec.Title,
		Subtitle: sec.Subtitle,
		Body:     sec.Body,
		Image:    sec.ImageURL,
	})
}

func override(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

// Rooms lists the rooms shown on the site: the available CMS rooms, or the
// static ones when the CMS has none.
func (s *SiteService) Rooms(ctx context.Context) ([]content.Room, error) {
	var rooms []content.Room
	if s.cached(ctx, keyRooms, &rooms) {
		return rooms, nil
	}
	rooms = s.content.Rooms
	if s.repos.Rooms != nil {
		stored, err := s.repos.Rooms.ListRooms(ctx, true)
		if err != nil {
			return nil, err
		}
		if len(stored) > 0 {
			rooms = make([]content.Room, 0, len(stored))
			for _, r := range stored {
				rooms = append(rooms, content.Room{
					Slug:          r.Slug,
					Name:          r.Name,
					Summary:       r.Summary,
					Description:   r.Description,
					PricePerNight: r.PricePerNight,
					Currency:      r.Currency,
					Capacity:      r.Capacity,
					SizeSqm:       r.SizeSqm,
					BedType:       r.BedType,
					Image:         r.ImageURL,
					Amenities:     r.AmenityList(),
				})
			}
		}
	}
	s.store(ctx, keyRooms, rooms)
	return rooms, nil
}

// Room returns one of the rooms listed by Rooms.
func (s *SiteService) Room(ctx context.Context, slug string) (*content.Room, error) {
	rooms, err := s.Rooms(ctx)
	if err != nil {
		return nil, err
	}
	for i := range rooms {
		if rooms[i].Slug == slug {
			return &rooms[i], nil
		}
	}
	return nil, data.ErrNotFound
}

// Gallery lists the published CMS images, or the static ones when there are none.
func (s *SiteService) Gallery(ctx context.Context) ([]content.GalleryImage, error) {
	var images []content.GalleryImage
	if s.cached(ctx, keyGallery, &images) {
		return images, nil
	}
	images = s.content.Gallery
	if s.repos.Gallery != nil {
		stored, err := s.repos.Gallery.ListImages(ctx, true)
		if err != nil {
			return nil, err
		}
		if len(stored) > 0 {
			images = make([]content.GalleryImage, 0, len(stored))
			for _, img := range stored {
				images = append(images, content.GalleryImage{
					Title:    img.Title,
					Caption:  img.Caption,
					URL:      img.ImageURL,
					Category: img.Category,
				})
			}
		}
	}
	s.store(ctx, keyGallery, images)
	return images, nil
}

// CMSPage returns a published CMS page with its body rendered.
func (s *SiteService) CMSPage(ctx context.Context, slug string) (*CMSView, error) {
	var view CMSView
	if s.cached(ctx, keyCMSPrefix+slug, &view) {
		return &view, nil
	}
	if s.repos.Pages == nil {
		return nil, data.ErrNotFound
	}
	page, err := s.repos.Pages.GetPageBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	if !page.Published {
		return nil, data.ErrNotFound
	}
	html, err := s.renderer.Render(page.Body)
	if err != nil {
		return nil, err
	}
	view = CMSView{
		Slug:        page.Slug,
		Title:       page.Title,
		Description: page.Description,
		HTML:        html,
		UpdatedAt:   page.UpdatedAt,
	}
	s.store(ctx, keyCMSPrefix+slug, view)
	return &view, nil
}

// Sitemap lists the static pages, the rooms and the published CMS pages.
func (s *SiteService) Sitemap(ctx context.Context) ([]SitemapEntry, error) {
	var entries []SitemapEntry
	for _, p := range s.content.Pages {
		entries = append(entries, SitemapEntry{Path: PagePath(p.Slug)})
	}
	rooms, err := s.Rooms(ctx)
	if err != nil {
		return nil, err
	}
	for _, r := range rooms {
		entries = append(entries, SitemapEntry{Path: "/rooms/" + r.Slug})
	}
	if s.repos.Pages != nil {
		pages, err := s.repos.Pages.ListPages(ctx, true)
		if err != nil {
			return nil, err
		}
		for _, p := range pages {
			entries = append(entries, SitemapEntry{Path: "/p/" + p.Slug, LastMod: p.UpdatedAt})
		}
	}
	return entries, nil
}

// Invalidate drops every cached static page and the given CMS pages.
func (s *SiteService) Invalidate(ctx context.Context, cmsSlugs ...string) {
	keys := []string{keyRooms, keyGallery}
	for _, p := range s.content.Pages {
		keys = append(keys, keyPagePrefix+p.Slug)
	}
	for _, slug := range cmsSlugs {
		keys = append(keys, keyCMSPrefix+slug)
	}
	if err := s.cache.Delete(ctx, keys...); err != nil {
		s.log.Warn("Failed to invalidate page cache: " + err.Error())
	}
}

func (s *SiteService) cached(ctx context.Context, key string, dst interface{}) bool {
	raw, err := s.cache.Get(ctx, key)
	if err != nil {
		s.log.Warn("Cache read failed for " + key + ": " + err.Error())
		return false
	}
	if raw == nil {
		return false
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		s.log.Warn("Discarding undecodable cache entry " + key)
		return false
	}
	return true
}

func (s *SiteService) store(ctx context.Context, key string, v interface{}) {
	raw, err := json.Marshal(v)
	if err != nil {
		s.log.Warn("Failed to encode cache entry " + key + ": " + err.Error())
		return
	}
	if err := s.cache.Set(ctx, key, raw, s.ttl); err != nil {
		s.log.Warn("Cache write failed for " + key + ": " + err.Error())
	}
}

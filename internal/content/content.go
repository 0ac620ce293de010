// Package content holds the static content tables the public site is built from.
package content

import (
	"fmt"
	"io/fs"

	"gopkg.in/yaml.v3"
)

// Content is the decoded site content file.
type Content struct {
	Site    Site           `yaml:"site"`
	Pages   []Page         `yaml:"pages"`
	Rooms   []Room         `yaml:"rooms"`
	Gallery []GalleryImage `yaml:"gallery"`
}

// Site carries the details shared by every page.
type Site struct {
	Name    string    `yaml:"name"`
	Tagline string    `yaml:"tagline"`
	Contact Contact   `yaml:"contact"`
	Nav     []NavItem `yaml:"nav"`
}

// Contact is the hotel's contact block.
type Contact struct {
	Address string `yaml:"address"`
	Phone   string `yaml:"phone"`
	Email   string `yaml:"email"`
	MapURL  string `yaml:"map_url"`
}

// NavItem is an entry of the main navigation.
type NavItem struct {
	Label string `yaml:"label"`
	Path  string `yaml:"path"`
}

// Page is one public page. Sections are addressed by key so CMS records can override them.
type Page struct {
	Slug        string    `yaml:"slug"`
	Title       string    `yaml:"title"`
	Description string    `yaml:"description"`
	Hero        Hero      `yaml:"hero"`
	Sections    []Section `yaml:"sections"`
	Items       []Item    `yaml:"items"`
}

// Hero is the full-bleed header of a page.
type Hero struct {
	Title    string  `yaml:"title"`
	Subtitle string  `yaml:"subtitle"`
	Image    string  `yaml:"image"`
	Speed    float64 `yaml:"speed"`
}

// Section is a titled block of copy.
type Section struct {
	Key      string `yaml:"key"`
	Title    string `yaml:"title"`
	Subtitle string `yaml:"subtitle"`
	Body     string `yaml:"body"`
	Image    string `yaml:"image"`
}

// Item is a card on a listing page: a restaurant, an event venue, a treatment.
type Item struct {
	Key      string   `yaml:"key"`
	Name     string   `yaml:"name"`
	Subtitle string   `yaml:"subtitle"`
	Body     string   `yaml:"body"`
	Image    string   `yaml:"image"`
	Details  []Detail `yaml:"details"`
}

// Detail is a label/value pair, e.g. opening hours or capacity.
type Detail struct {
	Label string `yaml:"label"`
	Value string `yaml:"value"`
}

// Room is a room category as shown on the rooms pages.
type Room struct {
	Slug          string   `yaml:"slug"`
	Name          string   `yaml:"name"`
	Summary       string   `yaml:"summary"`
	Description   string   `yaml:"description"`
	PricePerNight int64    `yaml:"price_per_night"` // minor units
	Currency      string   `yaml:"currency"`
	Capacity      int      `yaml:"capacity"`
	SizeSqm       int      `yaml:"size_sqm"`
	BedType       string   `yaml:"bed_type"`
	Image         string   `yaml:"image"`
	Amenities     []string `yaml:"amenities"`
}

// GalleryImage is a picture of the gallery page.
type GalleryImage struct {
	Title    string `yaml:"title"`
	Caption  string `yaml:"caption"`
	URL      string `yaml:"url"`
	Category string `yaml:"category"`
}

// Load decodes the content file at path from fsys.
func Load(fsys fs.FS, path string) (*Content, error) {
	raw, err := fs.ReadFile(fsys, path)
	if err != nil {
		return nil, fmt.Errorf("failed to read content file: %w", err)
	}
	var c Content
	if err := yaml.Unmarshal(raw, &c); err != nil {
		return nil, fmt.Errorf("failed to decode content file: %w", err)
	}
	if err := c.validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

func (c *Content) validate() error {
	seen := make(map[string]bool)
	for _, p := range c.Pages {
		if p.Slug == "" {
			return fmt.Errorf("content page %q has no slug", p.Title)
		}
		if seen[p.Slug] {
			return fmt.Errorf("duplicate content page slug %q", p.Slug)
		}
		seen[p.Slug] = true
	}
	rooms := make(map[string]bool)
	for _, r := range c.Rooms {
		if r.Slug == "" {
			return fmt.Errorf("content room %q has no slug", r.Name)
		}
		if rooms[r.Slug] {
			return fmt.Errorf("duplicate content room slug %q", r.Slug)
		}
		rooms[r.Slug] = true
	}
	return nil
}

// Page returns a copy of the page with the given slug.
func (c *Content) Page(slug string) (Page, bool) {
	for _, p := range c.Pages {
		if p.Slug == slug {
			return p.Clone(), true
		}
	}
	return Page{}, false
}

// Room returns the static room with the given slug.
func (c *Content) Room(slug string) (Room, bool) {
	for _, r := range c.Rooms {
		if r.Slug == slug {
			return r, true
		}
	}
	return Room{}, false
}

// Clone returns a copy whose slices can be modified without touching the table.
func (p Page) Clone() Page {
	out := p
	out.Sections = append([]Section(nil), p.Sections...)
	out.Items = append([]Item(nil), p.Items...)
	return out
}

// Section returns the section with the given key.
func (p *Page) Section(key string) (Section, bool) {
	for _, s := range p.Sections {
		if s.Key == key {
			return s, true
		}
	}
	return Section{}, false
}

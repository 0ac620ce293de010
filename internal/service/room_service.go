package service

import (
	"carlton/internal/content"
	"carlton/internal/data"
	"context"
	"strings"
)

// RoomRepository defines the interface for database operations on rooms.
type RoomRepository interface {
	CreateRoom(ctx context.Context, room *data.Room) error
	GetRoomByID(ctx context.Context, id int64) (*data.Room, error)
	GetRoomBySlug(ctx context.Context, slug string) (*data.Room, error)
	ListRooms(ctx context.Context, availableOnly bool) ([]*data.Room, error)
	UpdateRoom(ctx context.Context, room *data.Room) error
	DeleteRoom(ctx context.Context, id int64) error
}

// RoomInput is the editable part of a room.
type RoomInput struct {
	Slug          string   `json:"slug"`
	Name          string   `json:"name"`
	Summary       string   `json:"summary"`
	Description   string   `json:"description"`
	PricePerNight int64    `json:"price_per_night"`
	Currency      string   `json:"currency"`
	Capacity      int      `json:"capacity"`
	SizeSqm       int      `json:"size_sqm"`
	BedType       string   `json:"bed_type"`
	ImageURL      string   `json:"image_url"`
	Amenities     []string `json:"amenities"`
	Available     bool     `json:"available"`
	SortOrder     int      `json:"sort_order"`
}

func (in *RoomInput) validate() error {
	in.Name = strings.TrimSpace(in.Name)
	if in.Slug == "" {
		in.Slug = in.Name
	}
	in.Slug = Slugify(in.Slug)
	in.Currency = strings.ToUpper(strings.TrimSpace(in.Currency))
	if in.Currency == "" {
		in.Currency = "MGA"
	}

	var v ValidationError
	if in.Name == "" {
		v.add("name", "is required")
	}
	if in.Slug == "" {
		v.add("slug", "must contain letters or digits")
	}
	if in.PricePerNight < 0 {
		v.add("price_per_night", "must not be negative")
	}
	if len(in.Currency) != 3 {
		v.add("currency", "must be a three letter ISO code")
	}
	if in.Capacity < 1 || in.Capacity > 12 {
		v.add("capacity", "must be between 1 and 12")
	}
	if in.SizeSqm < 0 {
		v.add("size_sqm", "must not be negative")
	}
	if in.ImageURL != "" && !validImageURL(in.ImageURL) {
		v.add("image_url", "must be an absolute http(s) URL or a /static path")
	}
	return v.err()
}

func (in RoomInput) apply(r *data.Room) {
	r.Slug = in.Slug
	r.Name = in.Name
	r.Summary = in.Summary
	r.Description = in.Description
	r.PricePerNight = in.PricePerNight
	r.Currency = in.Currency
	r.Capacity = in.Capacity
	r.SizeSqm = in.SizeSqm
	r.BedType = in.BedType
	r.ImageURL = in.ImageURL
	amenities := make([]string, 0, len(in.Amenities))
	for _, a := range in.Amenities {
		if a = strings.TrimSpace(strings.ReplaceAll(a, ",", " ")); a != "" {
			amenities = append(amenities, a)
		}
	}
	r.Amenities = strings.Join(amenities, ",")
	r.Available = in.Available
	r.SortOrder = in.SortOrder
}

// RoomService manages room categories.
type RoomService struct {
	repo RoomRepository
	inv  Invalidator
}

// NewRoomService creates a new RoomService. A nil repo means no database.
func NewRoomService(repo RoomRepository, inv Invalidator) *RoomService {
	if inv == nil {
		inv = nopInvalidator{}
	}
	return &RoomService{repo: repo, inv: inv}
}

// ListRooms returns every room, unavailable ones included.
func (s *RoomService) ListRooms(ctx context.Context) ([]*data.Room, error) {
	if s.repo == nil {
		return nil, ErrUnavailable
	}
	return s.repo.ListRooms(ctx, false)
}

// GetRoom returns a room by id.
func (s *RoomService) GetRoom(ctx context.Context, id int64) (*data.Room, error) {
	if s.repo == nil {
		return nil, ErrUnavailable
	}
	return s.repo.GetRoomByID(ctx, id)
}

// CreateRoom validates and stores a room.
func (s *RoomService) CreateRoom(ctx context.Context, in RoomInput) (*data.Room, error) {
	if s.repo == nil {
		return nil, ErrUnavailable
	}
	if err := in.validate(); err != nil {
		return nil, err
	}
	room := &data.Room{}
	in.apply(room)
	if err := s.repo.CreateRoom(ctx, room); err != nil {
		return nil, err
	}
	s.inv.Invalidate(ctx)
	return room, nil
}

// UpdateRoom replaces the editable fields of a room.
func (s *RoomService) UpdateRoom(ctx context.Context, id int64, in RoomInput) (*data.Room, error) {
	if s.repo == nil {
		return nil, ErrUnavailable
	}
	room, err := s.repo.GetRoomByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := in.validate(); err != nil {
		return nil, err
	}
	in.apply(room)
	if err := s.repo.UpdateRoom(ctx, room); err != nil {
		return nil, err
	}
	s.inv.Invalidate(ctx)
	return room, nil
}

// DeleteRoom removes a room. Rooms with bookings are kept and ErrConflict is returned.
func (s *RoomService) DeleteRoom(ctx context.Context, id int64) error {
	if s.repo == nil {
		return ErrUnavailable
	}
	if err := s.repo.DeleteRoom(ctx, id); err != nil {
		return err
	}
	s.inv.Invalidate(ctx)
	return nil
}

// AvailableRooms lists the rooms shown on the public site. Without a database it is empty.
func (s *RoomService) AvailableRooms(ctx context.Context) ([]*data.Room, error) {
	if s.repo == nil {
		return []*data.Room{}, nil
	}
	return s.repo.ListRooms(ctx, true)
}

// SeedFromContent copies the static rooms into an empty rooms table so they
// can be booked and edited. It returns how many rooms were inserted.
func (s *RoomService) SeedFromContent(ctx context.Context, rooms []content.Room) (int, error) {
	if s.repo == nil {
		return 0, ErrUnavailable
	}
	existing, err := s.repo.ListRooms(ctx, false)
	if err != nil {
		return 0, err
	}
	if len(existing) > 0 {
		return 0, nil
	}
	for i, r := range rooms {
		room := &data.Room{
			Slug:          r.Slug,
			Name:          r.Name,
			Summary:       r.Summary,
			Description:   r.Description,
			PricePerNight: r.PricePerNight,
			Currency:      r.Currency,
			Capacity:      r.Capacity,
			SizeSqm:       r.SizeSqm,
			BedType:       r.BedType,
			ImageURL:      r.Image,
			Amenities:     strings.Join(r.Amenities, ","),
			Available:     true,
			SortOrder:     i,
		}
		if err := s.repo.CreateRoom(ctx, room); err != nil {
			return i, err
		}
	}
	if len(rooms) > 0 {
		s.inv.Invalidate(ctx)
	}
	return len(rooms), nil
}

package data

import (
	"strings"
	"time"
)

// Roles a User can hold.
const (
	RoleAdmin  = "admin"
	RoleEditor = "editor"
)

// Booking statuses.
const (
	BookingPending   = "pending"
	BookingConfirmed = "confirmed"
	BookingCancelled = "cancelled"
)

// User is an admin panel account.
type User struct {
	ID           int64     `db:"id" json:"id"`
	Email        string    `db:"email" json:"email"`
	Name         string    `db:"name" json:"name"`
	PasswordHash string    `db:"password_hash" json:"-"`
	Role         string    `db:"role" json:"role"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
}

// Page is a CMS page, served at /p/{slug} and used to override static page copy.
type Page struct {
	ID          int64     `db:"id" json:"id"`
	Slug        string    `db:"slug" json:"slug"`
	Title       string    `db:"title" json:"title"`
	Description string    `db:"description" json:"description"`
	Body        string    `db:"body" json:"body"`
	Published   bool      `db:"published" json:"published"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time `db:"updated_at" json:"updated_at"`
}

// Section is a keyed block of copy belonging to a page.
type Section struct {
	ID        int64     `db:"id" json:"id"`
	PageID    int64     `db:"page_id" json:"page_id"`
	Key       string    `db:"section_key" json:"key"`
	Title     string    `db:"title" json:"title"`
	Subtitle  string    `db:"subtitle" json:"subtitle"`
	Body      string    `db:"body" json:"body"`
	ImageURL  string    `db:"image_url" json:"image_url"`
	SortOrder int       `db:"sort_order" json:"sort_order"`
	Visible   bool      `db:"visible" json:"visible"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// GalleryImage is a picture shown on the gallery page.
type GalleryImage struct {
	ID        int64     `db:"id" json:"id"`
	Title     string    `db:"title" json:"title"`
	Caption   string    `db:"caption" json:"caption"`
	ImageURL  string    `db:"image_url" json:"image_url"`
	Category  string    `db:"category" json:"category"`
	SortOrder int       `db:"sort_order" json:"sort_order"`
	Published bool      `db:"published" json:"published"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// Room is a bookable room category.
type Room struct {
	ID            int64     `db:"id" json:"id"`
	Slug          string    `db:"slug" json:"slug"`
	Name          string    `db:"name" json:"name"`
	Summary       string    `db:"summary" json:"summary"`
	Description   string    `db:"description" json:"description"`
	PricePerNight int64     `db:"price_per_night" json:"price_per_night"` // minor units
	Currency      string    `db:"currency" json:"currency"`
	Capacity      int       `db:"capacity" json:"capacity"`
	SizeSqm       int       `db:"size_sqm" json:"size_sqm"`
	BedType       string    `db:"bed_type" json:"bed_type"`
	ImageURL      string    `db:"image_url" json:"image_url"`
	Amenities     string    `db:"amenities" json:"amenities"` // comma separated
	Available     bool      `db:"available" json:"available"`
	SortOrder     int       `db:"sort_order" json:"sort_order"`
	CreatedAt     time.Time `db:"created_at" json:"created_at"`
	UpdatedAt     time.Time `db:"updated_at" json:"updated_at"`
}

// AmenityList splits the stored amenities.
func (r *Room) AmenityList() []string {
	var out []string
	for _, a := range strings.Split(r.Amenities, ",") {
		if a = strings.TrimSpace(a); a != "" {
			out = append(out, a)
		}
	}
	return out
}

// Booking is a reservation request for a room.
type Booking struct {
	ID         int64     `db:"id" json:"id"`
	Reference  string    `db:"reference" json:"reference"`
	RoomID     int64     `db:"room_id" json:"room_id"`
	RoomName   string    `db:"room_name" json:"room_name"`
	GuestName  string    `db:"guest_name" json:"guest_name"`
	GuestEmail string    `db:"guest_email" json:"guest_email"`
	GuestPhone string    `db:"guest_phone" json:"guest_phone"`
	CheckIn    time.Time `db:"check_in" json:"check_in"`
	CheckOut   time.Time `db:"check_out" json:"check_out"`
	Guests     int       `db:"guests" json:"guests"`
	Status     string    `db:"status" json:"status"`
	Notes      string    `db:"notes" json:"notes"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
	UpdatedAt  time.Time `db:"updated_at" json:"updated_at"`
}

// Nights is the length of the stay.
func (b *Booking) Nights() int {
	return int(b.CheckOut.Sub(b.CheckIn).Hours() / 24)
}

// ContactMessage is a message sent through the contact form.
type ContactMessage struct {
	ID        int64     `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	Email     string    `db:"email" json:"email"`
	Phone     string    `db:"phone" json:"phone"`
	Subject   string    `db:"subject" json:"subject"`
	Message   string    `db:"message" json:"message"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

package service

import (
	"carlton/internal/data"
	"context"
	"errors"
	"fmt"
	"io"
	"net/mail"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"
)

// MaxStayNights bounds a single booking request.
const MaxStayNights = 30

// BookingRepository defines the interface for database operations on bookings.
type BookingRepository interface {
	CreateBooking(ctx context.Context, b *data.Booking) error
	GetBookingByID(ctx context.Context, id int64) (*data.Booking, error)
	GetBookingByReference(ctx context.Context, ref string) (*data.Booking, error)
	ListBookings(ctx context.Context, status string) ([]*data.Booking, error)
	UpdateBooking(ctx context.Context, b *data.Booking) error
	DeleteBooking(ctx context.Context, id int64) error
}

// BookingRequest is what a guest submits from a room page.
type BookingRequest struct {
	RoomSlug   string
	GuestName  string
	GuestEmail string
	GuestPhone string
	CheckIn    string // YYYY-MM-DD
	CheckOut   string // YYYY-MM-DD
	Guests     int
	Notes      string
}

// BookingUpdate is what an admin may change on a booking.
type BookingUpdate struct {
	Status string `json:"status"`
	Notes  string `json:"notes"`
}

// BookingService handles booking requests and their administration.
type BookingService struct {
	repo  BookingRepository
	rooms RoomRepository
	now   func() time.Time
}

// NewBookingService creates a new BookingService. Nil repositories mean no database.
func NewBookingService(repo BookingRepository, rooms RoomRepository) *BookingService {
	return &BookingService{repo: repo, rooms: rooms, now: time.Now}
}

// RequestBooking validates a guest request and stores it as pending.
func (s *BookingService) RequestBooking(ctx context.Context, req BookingRequest) (*data.Booking, error) {
	if s.repo == nil || s.rooms == nil {
		return nil, ErrUnavailable
	}

	var v ValidationError
	room, err := s.rooms.GetRoomBySlug(ctx, req.RoomSlug)
	switch {
	case errors.Is(err, data.ErrNotFound):
		v.add("room", "does not exist")
	case err != nil:
		return nil, err
	case !room.Available:
		v.add("room", "is not available for booking")
	}

	name := strings.TrimSpace(req.GuestName)
	if name == "" {
		v.add("guest_name", "is required")
	}
	email := strings.TrimSpace(req.GuestEmail)
	if !validEmail(email) {
		v.add("guest_email", "must be a valid email address")
	}

	today := s.now().UTC().Truncate(24 * time.Hour)
	checkIn, inErr := time.Parse(time.DateOnly, strings.TrimSpace(req.CheckIn))
	checkOut, outErr := time.Parse(time.DateOnly, strings.TrimSpace(req.CheckOut))
	if inErr != nil {
		v.add("check_in", "must be a date")
	} else if checkIn.Before(today) {
		v.add("check_in", "must not be in the past")
	}
	if outErr != nil {
		v.add("check_out", "must be a date")
	} else if inErr == nil {
		nights := int(checkOut.Sub(checkIn).Hours() / 24)
		if nights < 1 {
			v.add("check_out", "must be after check-in")
		} else if nights > MaxStayNights {
			v.add("check_out", fmt.Sprintf("stays are limited to %d nights", MaxStayNights))
		}
	}

	if req.Guests < 1 {
		v.add("guests", "must be at least 1")
	} else if room != nil && req.Guests > room.Capacity {
		v.add("guests", fmt.Sprintf("this room sleeps at most %d", room.Capacity))
	}
	if len(req.Notes) > 2000 {
		v.add("notes", "must be at most 2000 characters")
	}
	if err := v.err(); err != nil {
		return nil, err
	}

	b := &data.Booking{
		Reference:  uuid.NewString(),
		RoomID:     room.ID,
		RoomName:   room.Name,
		GuestName:  name,
		GuestEmail: email,
		GuestPhone: strings.TrimSpace(req.GuestPhone),
		CheckIn:    checkIn,
		CheckOut:   checkOut,
		Guests:     req.Guests,
		Status:     data.BookingPending,
		Notes:      strings.TrimSpace(req.Notes),
	}
	if err := s.repo.CreateBooking(ctx, b); err != nil {
		return nil, err
	}
	return b, nil
}

// ListBookings returns bookings, optionally filtered by status.
func (s *BookingService) ListBookings(ctx context.Context, status string) ([]*data.Booking, error) {
	if s.repo == nil {
		return nil, ErrUnavailable
	}
	if status != "" && !validStatus(status) {
		return nil, &ValidationError{Fields: map[string]string{"status": "unknown booking status"}}
	}
	return s.repo.ListBookings(ctx, status)
}

// GetBooking returns a booking by id.
func (s *BookingService) GetBooking(ctx context.Context, id int64) (*data.Booking, error) {
	if s.repo == nil {
		return nil, ErrUnavailable
	}
	return s.repo.GetBookingByID(ctx, id)
}

// GetBookingByReference returns the booking a guest quotes by its full reference.
func (s *BookingService) GetBookingByReference(ctx context.Context, ref string) (*data.Booking, error) {
	if s.repo == nil {
		return nil, ErrUnavailable
	}
	id, err := uuid.Parse(strings.TrimSpace(ref))
	if err != nil {
		return nil, &ValidationError{Fields: map[string]string{"reference": "is not a booking reference"}}
	}
	return s.repo.GetBookingByReference(ctx, id.String())
}

// UpdateBooking changes the status and notes of a booking.
func (s *BookingService) UpdateBooking(ctx context.Context, id int64, in BookingUpdate) (*data.Booking, error) {
	if s.repo == nil {
		return nil, ErrUnavailable
	}
	b, err := s.repo.GetBookingByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !validStatus(in.Status) {
		return nil, &ValidationError{Fields: map[string]string{"status": "must be pending, confirmed or cancelled"}}
	}
	b.Status = in.Status
	b.Notes = strings.TrimSpace(in.Notes)
	if err := s.repo.UpdateBooking(ctx, b); err != nil {
		return nil, err
	}
	return b, nil
}

// DeleteBooking removes a booking.
func (s *BookingService) DeleteBooking(ctx context.Context, id int64) error {
	if s.repo == nil {
		return ErrUnavailable
	}
	return s.repo.DeleteBooking(ctx, id)
}

var exportHeader = []interface{}{
	"Reference", "Room", "Guest", "Email", "Phone", "Check-in", "Check-out",
	"Nights", "Guests", "Status", "Notes", "Received",
}

// ExportBookings writes the bookings as an xlsx workbook.
func (s *BookingService) ExportBookings(ctx context.Context, status string, w io.Writer) error {
	bookings, err := s.ListBookings(ctx, status)
	if err != nil {
		return err
	}

	f := excelize.NewFile()
	defer f.Close()

	const sheet = "Bookings"
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return fmt.Errorf("failed to name sheet: %w", err)
	}
	if err := f.SetSheetRow(sheet, "A1", &exportHeader); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("failed to create style: %w", err)
	}
	if err := f.SetCellStyle(sheet, "A1", "L1", bold); err != nil {
		return fmt.Errorf("failed to style header: %w", err)
	}

	for i, b := range bookings {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		row := []interface{}{
			b.Reference, b.RoomName, b.GuestName, b.GuestEmail, b.GuestPhone,
			b.CheckIn.Format(time.DateOnly), b.CheckOut.Format(time.DateOnly),
			b.Nights(), b.Guests, b.Status, b.Notes, b.CreatedAt.Format(time.DateTime),
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("failed to write booking %s: %w", b.Reference, err)
		}
	}
	if err := f.SetColWidth(sheet, "A", "A", 38); err != nil {
		return err
	}
	if err := f.SetColWidth(sheet, "B", "E", 22); err != nil {
		return err
	}
	return f.Write(w)
}

func validStatus(status string) bool {
	switch status {
	case data.BookingPending, data.BookingConfirmed, data.BookingCancelled:
		return true
	}
	return false
}

func validEmail(s string) bool {
	if s == "" || len(s) > 254 {
		return false
	}
	addr, err := mail.ParseAddress(s)
	return err == nil && addr.Address == s
}

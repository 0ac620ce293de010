package data

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
)

const bookingSelect = `SELECT b.id, b.reference, b.room_id, r.name AS room_name, b.guest_name, b.guest_email,
	b.guest_phone, b.check_in, b.check_out, b.guests, b.status, b.notes, b.created_at, b.updated_at
	FROM bookings b JOIN rooms r ON r.id = b.room_id`

// SQLBookingRepository stores bookings using sqlx.
type SQLBookingRepository struct {
	db *sqlx.DB
}

// NewSQLBookingRepository creates a new SQLBookingRepository.
func NewSQLBookingRepository(db *sqlx.DB) *SQLBookingRepository {
	return &SQLBookingRepository{db: db}
}

// CreateBooking inserts a booking and sets its ID and timestamps.
func (r *SQLBookingRepository) CreateBooking(ctx context.Context, b *Booking) error {
	b.CreatedAt = now()
	b.UpdatedAt = b.CreatedAt
	query := `INSERT INTO bookings (reference, room_id, guest_name, guest_email, guest_phone, check_in, check_out,
			guests, status, notes, created_at, updated_at)
		VALUES (:reference, :room_id, :guest_name, :guest_email, :guest_phone, :check_in, :check_out,
			:guests, :status, :notes, :created_at, :updated_at)`
	id, err := insert(ctx, r.db, query, b)
	if err != nil {
		return translate(err, "failed to create booking")
	}
	b.ID = id
	return nil
}

// GetBookingByID retrieves a booking by its ID.
func (r *SQLBookingRepository) GetBookingByID(ctx context.Context, id int64) (*Booking, error) {
	var b Booking
	if err := r.db.GetContext(ctx, &b, r.db.Rebind(bookingSelect+` WHERE b.id = ?`), id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("booking with id %d: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get booking: %w", err)
	}
	return &b, nil
}

// GetBookingByReference retrieves a booking by its public reference.
func (r *SQLBookingRepository) GetBookingByReference(ctx context.Context, ref string) (*Booking, error) {
	var b Booking
	if err := r.db.GetContext(ctx, &b, r.db.Rebind(bookingSelect+` WHERE b.reference = ?`), ref); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("booking with reference '%s': %w", ref, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get booking by reference: %w", err)
	}
	return &b, nil
}

// ListBookings retrieves bookings by arrival date. An empty status lists all of them.
func (r *SQLBookingRepository) ListBookings(ctx context.Context, status string) ([]*Booking, error) {
	bookings := []*Booking{}
	query := bookingSelect
	var args []interface{}
	if status != "" {
		query += ` WHERE b.status = ?`
		args = append(args, status)
	}
	query += ` ORDER BY b.check_in, b.id`
	if err := r.db.SelectContext(ctx, &bookings, r.db.Rebind(query), args...); err != nil {
		return nil, fmt.Errorf("failed to list bookings: %w", err)
	}
	return bookings, nil
}

// UpdateBooking updates an existing booking.
func (r *SQLBookingRepository) UpdateBooking(ctx context.Context, b *Booking) error {
	b.UpdatedAt = now()
	query := `UPDATE bookings SET room_id = :room_id, guest_name = :guest_name, guest_email = :guest_email,
		guest_phone = :guest_phone, check_in = :check_in, check_out = :check_out, guests = :guests,
		status = :status, notes = :notes, updated_at = :updated_at WHERE id = :id`
	result, err := r.db.NamedExecContext(ctx, query, b)
	if err != nil {
		return translate(err, "failed to update booking")
	}
	return mustAffect(result, "booking", b.ID)
}

// DeleteBooking removes a booking.
func (r *SQLBookingRepository) DeleteBooking(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, r.db.Rebind(`DELETE FROM bookings WHERE id = ?`), id)
	if err != nil {
		return translate(err, "failed to delete booking")
	}
	return mustAffect(result, "booking", id)
}

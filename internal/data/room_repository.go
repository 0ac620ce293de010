package data

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
)

const roomColumns = `id, slug, name, summary, description, price_per_night, currency, capacity, size_sqm,
	bed_type, image_url, amenities, available, sort_order, created_at, updated_at`

// SQLRoomRepository stores rooms using sqlx.
type SQLRoomRepository struct {
	db *sqlx.DB
}

// NewSQLRoomRepository creates a new SQLRoomRepository.
func NewSQLRoomRepository(db *sqlx.DB) *SQLRoomRepository {
	return &SQLRoomRepository{db: db}
}

// CreateRoom inserts a room and sets its ID and timestamps.
func (r *SQLRoomRepository) CreateRoom(ctx context.Context, room *Room) error {
	room.CreatedAt = now()
	room.UpdatedAt = room.CreatedAt
	query := `INSERT INTO rooms (slug, name, summary, description, price_per_night, currency, capacity, size_sqm,
			bed_type, image_url, amenities, available, sort_order, created_at, updated_at)
		VALUES (:slug, :name, :summary, :description, :price_per_night, :currency, :capacity, :size_sqm,
			:bed_type, :image_url, :amenities, :available, :sort_order, :created_at, :updated_at)`
	id, err := insert(ctx, r.db, query, room)
	if err != nil {
		return translate(err, "failed to create room")
	}
	room.ID = id
	return nil
}

// GetRoomByID retrieves a room by its ID.
func (r *SQLRoomRepository) GetRoomByID(ctx context.Context, id int64) (*Room, error) {
	var room Room
	query := r.db.Rebind(`SELECT ` + roomColumns + ` FROM rooms WHERE id = ?`)
	if err := r.db.GetContext(ctx, &room, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("room with id %d: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get room: %w", err)
	}
	return &room, nil
}

// GetRoomBySlug retrieves a room by its slug.
func (r *SQLRoomRepository) GetRoomBySlug(ctx context.Context, slug string) (*Room, error) {
	var room Room
	query := r.db.Rebind(`SELECT ` + roomColumns + ` FROM rooms WHERE slug = ?`)
	if err := r.db.GetContext(ctx, &room, query, slug); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("room with slug '%s': %w", slug, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get room by slug: %w", err)
	}
	return &room, nil
}

// ListRooms retrieves rooms in display order, optionally only the available ones.
func (r *SQLRoomRepository) ListRooms(ctx context.Context, availableOnly bool) ([]*Room, error) {
	rooms := []*Room{}
	query := `SELECT ` + roomColumns + ` FROM rooms`
	var args []interface{}
	if availableOnly {
		query += ` WHERE available = ?`
		args = append(args, true)
	}
	query += ` ORDER BY sort_order, id`
	if err := r.db.SelectContext(ctx, &rooms, r.db.Rebind(query), args...); err != nil {
		return nil, fmt.Errorf("failed to list rooms: %w", err)
	}
	return rooms, nil
}

// UpdateRoom updates an existing room.
func (r *SQLRoomRepository) UpdateRoom(ctx context.Context, room *Room) error {
	room.UpdatedAt = now()
	query := `UPDATE rooms SET slug = :slug, name = :name, summary = :summary, description = :description,
		price_per_night = :price_per_night, currency = :currency, capacity = :capacity, size_sqm = :size_sqm,
		bed_type = :bed_type, image_url = :image_url, amenities = :amenities, available = :available,
		sort_order = :sort_order, updated_at = :updated_at WHERE id = :id`
	result, err := r.db.NamedExecContext(ctx, query, room)
	if err != nil {
		return translate(err, "failed to update room")
	}
	return mustAffect(result, "room", room.ID)
}

// DeleteRoom removes a room. Rooms with bookings cannot be deleted.
func (r *SQLRoomRepository) DeleteRoom(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, r.db.Rebind(`DELETE FROM rooms WHERE id = ?`), id)
	if err != nil {
		return translate(err, "failed to delete room")
	}
	return mustAffect(result, "room", id)
}

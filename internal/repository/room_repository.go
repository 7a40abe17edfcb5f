package repository // repository holds data access logic for domain entities

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/campusbook/room-booking/internal/model"
)

// RoomRepo provides methods to create, retrieve, update and delete rooms.
// Rooms are the resource bookings compete for; LockTx is the serialization
// point for the conflict check.
type RoomRepo struct {
	db *sql.DB
}

// NewRoomRepo constructs a RoomRepo with the given DB handle.
func NewRoomRepo(db *sql.DB) *RoomRepo {
	return &RoomRepo{db: db}
}

// DB exposes the underlying handle so handlers can open transactions that
// span rooms, bookings and schedules.
func (r *RoomRepo) DB() *sql.DB { return r.db }

// List returns all rooms ordered by id.
func (r *RoomRepo) List(ctx context.Context) ([]model.Room, error) {
	const q = `SELECT room_id, room_name, type, capacity FROM rooms ORDER BY room_id`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]model.Room, 0)
	for rows.Next() {
		var rm model.Room
		if err := rows.Scan(&rm.ID, &rm.Name, &rm.Type, &rm.Capacity); err != nil {
			return nil, err
		}
		out = append(out, rm)
	}
	return out, rows.Err()
}

// GetByID retrieves a room by its ID.  Returns ErrRoomNotFound when no row
// matches.
func (r *RoomRepo) GetByID(ctx context.Context, id uint64) (*model.Room, error) {
	const q = `SELECT room_id, room_name, type, capacity FROM rooms WHERE room_id = ?`
	var rm model.Room
	err := r.db.QueryRowContext(ctx, q, id).Scan(&rm.ID, &rm.Name, &rm.Type, &rm.Capacity)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrRoomNotFound
		}
		return nil, err
	}
	return &rm, nil
}

// LockTx loads a room inside a transaction with FOR UPDATE.  Holding the
// room row lock serializes every "check overlap then write" sequence for
// that room: two concurrent submissions or approvals for the same room
// cannot both pass the conflict check.  Returns ErrRoomNotFound when the
// room does not exist.
func (r *RoomRepo) LockTx(ctx context.Context, tx *sql.Tx, id uint64) (*model.Room, error) {
	const q = `SELECT room_id, room_name, type, capacity FROM rooms WHERE room_id = ? FOR UPDATE`
	var rm model.Room
	err := tx.QueryRowContext(ctx, q, id).Scan(&rm.ID, &rm.Name, &rm.Type, &rm.Capacity)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrRoomNotFound
		}
		return nil, err
	}
	return &rm, nil
}

// Create inserts a room and populates its generated ID.
func (r *RoomRepo) Create(ctx context.Context, rm *model.Room) error {
	const q = `INSERT INTO rooms (room_name, type, capacity) VALUES (?, ?, ?)`
	res, err := r.db.ExecContext(ctx, q, rm.Name, rm.Type, rm.Capacity)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	rm.ID = uint64(id)
	return nil
}

// Update rewrites a room's mutable fields.  Returns ErrRoomNotFound when no
// row was touched.
func (r *RoomRepo) Update(ctx context.Context, rm *model.Room) error {
	const q = `UPDATE rooms SET room_name = ?, type = ?, capacity = ? WHERE room_id = ?`
	res, err := r.db.ExecContext(ctx, q, rm.Name, rm.Type, rm.Capacity, rm.ID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrRoomNotFound
	}
	return nil
}

// Delete removes a room.  A room that still has bookings cannot be deleted;
// the FK violation is surfaced as ErrHasDependents.
func (r *RoomRepo) Delete(ctx context.Context, id uint64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM rooms WHERE room_id = ?`, id)
	if err != nil {
		if strings.Contains(err.Error(), "1451") {
			return ErrHasDependents
		}
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrRoomNotFound
	}
	return nil
}

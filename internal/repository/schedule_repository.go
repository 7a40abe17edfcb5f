package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/campusbook/room-booking/internal/booking"
)

// ScheduleRepo covers the admin-only manual schedule maintenance endpoints.
// Entries created or moved here belong to existing bookings, so every write
// runs inside a handler transaction that already holds the room lock and
// has re-validated the slot against the conflict rule.
type ScheduleRepo struct {
	db *sql.DB
}

func NewScheduleRepo(db *sql.DB) *ScheduleRepo { return &ScheduleRepo{db: db} }

// DB exposes the handle for handler-managed transactions.
func (r *ScheduleRepo) DB() *sql.DB { return r.db }

// GetByID loads one schedule entry.  Returns ErrScheduleNotFound.
func (r *ScheduleRepo) GetByID(ctx context.Context, id uint64) (*ScheduleInfo, error) {
	const q = `SELECT id, request_id, room_id, day, start_time, end_time FROM schedules WHERE id = ?`
	s, err := scanScheduleInfo(r.db.QueryRowContext(ctx, q, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrScheduleNotFound
		}
		return nil, err
	}
	return &s, nil
}

// GetForUpdateTx loads a schedule row with FOR UPDATE for a move/delete.
func (r *ScheduleRepo) GetForUpdateTx(ctx context.Context, tx *sql.Tx, id uint64) (*ScheduleInfo, error) {
	const q = `SELECT id, request_id, room_id, day, start_time, end_time FROM schedules WHERE id = ? FOR UPDATE`
	s, err := scanScheduleInfo(tx.QueryRowContext(ctx, q, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrScheduleNotFound
		}
		return nil, err
	}
	return &s, nil
}

// CreateTx attaches one manual entry to an existing booking.  A FK failure
// on request_id maps to ErrBookingNotFound.
func (r *ScheduleRepo) CreateTx(ctx context.Context, tx *sql.Tx, requestID, roomID uint64, slot booking.Slot) (*ScheduleInfo, error) {
	const q = `INSERT INTO schedules (request_id, room_id, day, start_time, end_time) VALUES (?, ?, ?, ?, ?)`
	res, err := tx.ExecContext(ctx, q, requestID, roomID, string(slot.Day), slot.Start.String(), slot.End.String())
	if err != nil {
		if strings.Contains(err.Error(), "1452") {
			return nil, ErrBookingNotFound
		}
		return nil, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}
	return &ScheduleInfo{
		ID:        uint64(id),
		RequestID: requestID,
		RoomID:    roomID,
		Day:       string(slot.Day),
		StartTime: slot.Start.String(),
		EndTime:   slot.End.String(),
	}, nil
}

// UpdateSlotTx rewrites day and time range of a schedule entry.
func (r *ScheduleRepo) UpdateSlotTx(ctx context.Context, tx *sql.Tx, id uint64, slot booking.Slot) error {
	res, err := tx.ExecContext(ctx,
		`UPDATE schedules SET day = ?, start_time = ?, end_time = ? WHERE id = ?`,
		string(slot.Day), slot.Start.String(), slot.End.String(), id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrScheduleNotFound
	}
	return nil
}

// DeleteTx removes one schedule entry.
func (r *ScheduleRepo) DeleteTx(ctx context.Context, tx *sql.Tx, id uint64) error {
	res, err := tx.ExecContext(ctx, `DELETE FROM schedules WHERE id = ?`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrScheduleNotFound
	}
	return nil
}

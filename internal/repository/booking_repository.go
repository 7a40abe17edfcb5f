package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/campusbook/room-booking/internal/booking"
	"github.com/campusbook/room-booking/internal/model"
)

// BookingRepo provides persistence for booking requests and their schedule
// entries.  A booking owns its schedules (FK ON DELETE CASCADE); the two are
// always written together inside a transaction opened by the handler.  The
// conflict-sensitive reads carry FOR UPDATE and must run inside the same
// transaction that holds the room row lock (RoomRepo.LockTx).
type BookingRepo struct {
	db *sql.DB
}

// NewBookingRepo returns a BookingRepo bound to the given database.
func NewBookingRepo(db *sql.DB) *BookingRepo { return &BookingRepo{db: db} }

// DB exposes the handle for handler-managed transactions.
func (r *BookingRepo) DB() *sql.DB { return r.db }

// BookingRecord mirrors the bookings table.  Used when constructing or
// scanning rows; response shaping happens in BookingDetail.
type BookingRecord struct {
	RequestID   uint64
	UserID      uint64
	RoomID      uint64
	Category    string
	Status      string
	StartDate   time.Time
	EndDate     time.Time
	Description string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// ScheduleInfo is the JSON shape of one schedule entry nested inside a
// booking response.  Times are rendered as HH:MM.
type ScheduleInfo struct {
	ID        uint64 `json:"id"`
	RequestID uint64 `json:"requestId"`
	RoomID    uint64 `json:"roomId"`
	Day       string `json:"day"`
	StartTime string `json:"startTime"`
	EndTime   string `json:"endTime"`
}

// UserInfo is the owner projection exposed on admin booking listings.
type UserInfo struct {
	UserID uint64 `json:"userId"`
	Email  string `json:"email"`
}

// BookingDetail is a booking with its nested room, schedules and (for admin
// views) owner.  Field names follow the public API contract.
type BookingDetail struct {
	RequestID   uint64         `json:"requestId"`
	UserID      uint64         `json:"userId"`
	RoomID      uint64         `json:"roomId"`
	Category    string         `json:"category"`
	Status      string         `json:"status"`
	StartDate   time.Time      `json:"startDate"`
	EndDate     time.Time      `json:"endDate"`
	Description string         `json:"description"`
	CreatedAt   time.Time      `json:"createdAt"`
	Room        *model.Room    `json:"room,omitempty"`
	User        *UserInfo      `json:"user,omitempty"`
	Schedules   []ScheduleInfo `json:"schedules"`
}

// CreateTx inserts a new booking within an existing transaction and
// populates the store-generated request id plus timestamps on the record.
// Identity comes from AUTO_INCREMENT only; the caller never supplies it.
func (r *BookingRepo) CreateTx(ctx context.Context, tx *sql.Tx, rec *BookingRecord) error {
	const q = `INSERT INTO bookings (user_id, room_id, category, status, start_date, end_date, description)
			   VALUES (?, ?, ?, ?, ?, ?, ?)`
	res, err := tx.ExecContext(ctx, q,
		rec.UserID, rec.RoomID, rec.Category, rec.Status, rec.StartDate, rec.EndDate, rec.Description)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	rec.RequestID = uint64(id)
	const sel = `SELECT created_at, updated_at FROM bookings WHERE request_id = ?`
	return tx.QueryRowContext(ctx, sel, rec.RequestID).Scan(&rec.CreatedAt, &rec.UpdatedAt)
}

// CreateSchedulesBulkTx inserts all schedule entries of a booking in one
// statement and reads them back with their generated ids.  Passing an empty
// slot set is a caller bug upstream validation prevents; it returns nil.
func (r *BookingRepo) CreateSchedulesBulkTx(ctx context.Context, tx *sql.Tx, requestID, roomID uint64, slots []booking.Slot) ([]ScheduleInfo, error) {
	if len(slots) == 0 {
		return nil, nil
	}
	query := `INSERT INTO schedules (request_id, room_id, day, start_time, end_time) VALUES `
	args := make([]interface{}, 0, len(slots)*5)
	for i, s := range slots {
		if i > 0 {
			query += ","
		}
		query += "(?, ?, ?, ?, ?)"
		args = append(args, requestID, roomID, string(s.Day), s.Start.String(), s.End.String())
	}
	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		return nil, err
	}
	return r.schedulesByRequestTx(ctx, tx, requestID)
}

func (r *BookingRepo) schedulesByRequestTx(ctx context.Context, tx *sql.Tx, requestID uint64) ([]ScheduleInfo, error) {
	const q = `SELECT id, request_id, room_id, day, start_time, end_time
			   FROM schedules WHERE request_id = ? ORDER BY id`
	rows, err := tx.QueryContext(ctx, q, requestID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]ScheduleInfo, 0)
	for rows.Next() {
		s, err := scanScheduleInfo(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

// scanScheduleInfo scans a schedule row and normalizes the TIME columns
// ("HH:MM:SS" from MySQL) into HH:MM.
func scanScheduleInfo(rs rowScanner) (ScheduleInfo, error) {
	var s ScheduleInfo
	var startRaw, endRaw string
	if err := rs.Scan(&s.ID, &s.RequestID, &s.RoomID, &s.Day, &startRaw, &endRaw); err != nil {
		return ScheduleInfo{}, err
	}
	start, err := booking.ParseClock(startRaw)
	if err != nil {
		return ScheduleInfo{}, err
	}
	end, err := booking.ParseClock(endRaw)
	if err != nil {
		return ScheduleInfo{}, err
	}
	s.StartTime, s.EndTime = start.String(), end.String()
	return s, nil
}

// SlotsForRequestTx returns the parsed slots of one booking, for the
// approval-time conflict re-check.
func (r *BookingRepo) SlotsForRequestTx(ctx context.Context, tx *sql.Tx, requestID uint64) ([]booking.Slot, error) {
	infos, err := r.schedulesByRequestTx(ctx, tx, requestID)
	if err != nil {
		return nil, err
	}
	slots := make([]booking.Slot, 0, len(infos))
	for _, s := range infos {
		day, ok := booking.ParseWeekday(s.Day)
		if !ok {
			continue
		}
		start, err := booking.ParseClock(s.StartTime)
		if err != nil {
			return nil, err
		}
		end, err := booking.ParseClock(s.EndTime)
		if err != nil {
			return nil, err
		}
		slots = append(slots, booking.Slot{Day: day, Start: start, End: end})
	}
	return slots, nil
}

// ApprovedTakenTx loads every schedule entry belonging to an APPROVED
// booking for the given room, locking the rows.  excludeRequest removes one
// booking from consideration (used when approving that very booking).  The
// result feeds booking.FindConflict; running it under the room lock makes
// the check-then-write sequence race-free.
func (r *BookingRepo) ApprovedTakenTx(ctx context.Context, tx *sql.Tx, roomID, excludeRequest uint64) ([]booking.TakenSlot, error) {
	const q = `SELECT s.id, s.request_id, s.room_id, s.day, s.start_time, s.end_time
			   FROM schedules s
			   JOIN bookings b ON b.request_id = s.request_id
			   WHERE s.room_id = ? AND b.status = 'APPROVED' AND s.request_id <> ?
			   FOR UPDATE`
	rows, err := tx.QueryContext(ctx, q, roomID, excludeRequest)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var taken []booking.TakenSlot
	for rows.Next() {
		var t booking.TakenSlot
		var day, startRaw, endRaw string
		if err := rows.Scan(&t.ScheduleID, &t.RequestID, &t.RoomID, &day, &startRaw, &endRaw); err != nil {
			return nil, err
		}
		wd, ok := booking.ParseWeekday(day)
		if !ok {
			continue // unreachable with the enum column, but never trust old rows
		}
		start, err := booking.ParseClock(startRaw)
		if err != nil {
			return nil, err
		}
		end, err := booking.ParseClock(endRaw)
		if err != nil {
			return nil, err
		}
		t.Slot = booking.Slot{Day: wd, Start: start, End: end}
		taken = append(taken, t)
	}
	return taken, rows.Err()
}

// GetRecordForUpdateTx loads a booking row with FOR UPDATE so a status
// transition or delete sees a stable status.  Returns ErrBookingNotFound.
func (r *BookingRepo) GetRecordForUpdateTx(ctx context.Context, tx *sql.Tx, requestID uint64) (*BookingRecord, error) {
	const q = `SELECT request_id, user_id, room_id, category, status, start_date, end_date, description, created_at, updated_at
			   FROM bookings WHERE request_id = ? FOR UPDATE`
	var rec BookingRecord
	var desc sql.NullString
	err := tx.QueryRowContext(ctx, q, requestID).Scan(
		&rec.RequestID, &rec.UserID, &rec.RoomID, &rec.Category, &rec.Status,
		&rec.StartDate, &rec.EndDate, &desc, &rec.CreatedAt, &rec.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrBookingNotFound
		}
		return nil, err
	}
	rec.Description = desc.String
	return &rec, nil
}

// UpdateStatusTx flips the booking status inside a transaction.  State
// machine checks happen in the handler before this runs.
func (r *BookingRepo) UpdateStatusTx(ctx context.Context, tx *sql.Tx, requestID uint64, status booking.Status) error {
	res, err := tx.ExecContext(ctx,
		`UPDATE bookings SET status = ?, updated_at = CURRENT_TIMESTAMP WHERE request_id = ?`,
		string(status), requestID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrBookingNotFound
	}
	return nil
}

// DeleteTx removes a booking; its schedules go with it via the FK cascade.
func (r *BookingRepo) DeleteTx(ctx context.Context, tx *sql.Tx, requestID uint64) error {
	res, err := tx.ExecContext(ctx, `DELETE FROM bookings WHERE request_id = ?`, requestID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrBookingNotFound
	}
	return nil
}

// MetadataUpdate carries the optional fields of an admin metadata edit.
// Nil pointers leave the column untouched.
type MetadataUpdate struct {
	Category    *string
	StartDate   *time.Time
	EndDate     *time.Time
	Description *string
}

// UpdateMetadataTx patches category/dates/description of a booking.  The
// handler has already verified the booking is still PENDING under lock.
func (r *BookingRepo) UpdateMetadataTx(ctx context.Context, tx *sql.Tx, requestID uint64, up MetadataUpdate) error {
	sets := make([]string, 0, 4)
	args := make([]interface{}, 0, 5)
	if up.Category != nil {
		sets = append(sets, "category = ?")
		args = append(args, *up.Category)
	}
	if up.StartDate != nil {
		sets = append(sets, "start_date = ?")
		args = append(args, *up.StartDate)
	}
	if up.EndDate != nil {
		sets = append(sets, "end_date = ?")
		args = append(args, *up.EndDate)
	}
	if up.Description != nil {
		sets = append(sets, "description = ?")
		args = append(args, *up.Description)
	}
	if len(sets) == 0 {
		return nil
	}
	sets = append(sets, "updated_at = CURRENT_TIMESTAMP")
	args = append(args, requestID)
	q := "UPDATE bookings SET " + strings.Join(sets, ", ") + " WHERE request_id = ?"
	_, err := tx.ExecContext(ctx, q, args...)
	return err
}

// GetDetailByID returns one booking with its room and schedules.  Ownership
// is the handler's concern: the detail carries UserID for that check.
// Returns ErrBookingNotFound when the id does not resolve.
func (r *BookingRepo) GetDetailByID(ctx context.Context, requestID uint64) (*BookingDetail, error) {
	const q = `SELECT b.request_id, b.user_id, b.room_id, b.category, b.status,
					  b.start_date, b.end_date, b.description, b.created_at,
					  r.room_id, r.room_name, r.type, r.capacity
			   FROM bookings b
			   JOIN rooms r ON r.room_id = b.room_id
			   WHERE b.request_id = ?`
	var d BookingDetail
	var desc sql.NullString
	var room model.Room
	err := r.db.QueryRowContext(ctx, q, requestID).Scan(
		&d.RequestID, &d.UserID, &d.RoomID, &d.Category, &d.Status,
		&d.StartDate, &d.EndDate, &desc, &d.CreatedAt,
		&room.ID, &room.Name, &room.Type, &room.Capacity)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrBookingNotFound
		}
		return nil, err
	}
	d.Description = desc.String
	d.Room = &room
	d.Schedules = make([]ScheduleInfo, 0)
	const sq = `SELECT id, request_id, room_id, day, start_time, end_time
				FROM schedules WHERE request_id = ? ORDER BY id`
	rows, err := r.db.QueryContext(ctx, sq, requestID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		s, err := scanScheduleInfo(rows)
		if err != nil {
			return nil, err
		}
		d.Schedules = append(d.Schedules, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return &d, nil
}

// ListByUser returns all bookings of one user, newest first, with rooms and
// schedules attached.
func (r *BookingRepo) ListByUser(ctx context.Context, userID uint64) ([]BookingDetail, error) {
	return r.list(ctx, `WHERE b.user_id = ?`, false, userID)
}

// ListApproved returns every APPROVED booking with room and schedules, for
// the public browse endpoint.
func (r *BookingRepo) ListApproved(ctx context.Context) ([]BookingDetail, error) {
	return r.list(ctx, `WHERE b.status = 'APPROVED'`, false)
}

// ListApprovedByRoom returns APPROVED bookings for one room, letting
// clients render a room's occupancy timeline.
func (r *BookingRepo) ListApprovedByRoom(ctx context.Context, roomID uint64) ([]BookingDetail, error) {
	return r.list(ctx, `WHERE b.status = 'APPROVED' AND b.room_id = ?`, false, roomID)
}

// ListByDepartment returns bookings whose owner belongs to the given
// department, with the owner projection attached.  This is the admin view:
// an admin only ever sees their own department's requests.
func (r *BookingRepo) ListByDepartment(ctx context.Context, deptID uint64) ([]BookingDetail, error) {
	return r.list(ctx, `JOIN users u ON u.id = b.user_id WHERE u.dept_id = ?`, true, deptID)
}

// list runs the shared booking+room query with a caller-supplied filter
// clause, then attaches all schedules with a single IN query.
func (r *BookingRepo) list(ctx context.Context, filter string, withUser bool, args ...interface{}) ([]BookingDetail, error) {
	q := `SELECT b.request_id, b.user_id, b.room_id, b.category, b.status,
				 b.start_date, b.end_date, b.description, b.created_at,
				 r.room_id, r.room_name, r.type, r.capacity`
	if withUser {
		q += `, u.id, u.email`
	}
	q += ` FROM bookings b JOIN rooms r ON r.room_id = b.room_id `
	q += filter
	q += ` ORDER BY b.created_at DESC, b.request_id DESC`

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	details := make([]BookingDetail, 0)
	index := make(map[uint64]int)
	for rows.Next() {
		var d BookingDetail
		var desc sql.NullString
		var room model.Room
		dest := []interface{}{
			&d.RequestID, &d.UserID, &d.RoomID, &d.Category, &d.Status,
			&d.StartDate, &d.EndDate, &desc, &d.CreatedAt,
			&room.ID, &room.Name, &room.Type, &room.Capacity,
		}
		var owner UserInfo
		if withUser {
			dest = append(dest, &owner.UserID, &owner.Email)
		}
		if err := rows.Scan(dest...); err != nil {
			return nil, err
		}
		d.Description = desc.String
		d.Room = &room
		if withUser {
			d.User = &owner
		}
		d.Schedules = make([]ScheduleInfo, 0)
		index[d.RequestID] = len(details)
		details = append(details, d)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(details) == 0 {
		return details, nil
	}

	// One query for all schedules of the page.
	ids := make([]interface{}, 0, len(details))
	placeholders := make([]string, 0, len(details))
	for _, d := range details {
		ids = append(ids, d.RequestID)
		placeholders = append(placeholders, "?")
	}
	sq := `SELECT id, request_id, room_id, day, start_time, end_time
		   FROM schedules
		   WHERE request_id IN (` + strings.Join(placeholders, ",") + `)
		   ORDER BY request_id, id`
	srows, err := r.db.QueryContext(ctx, sq, ids...)
	if err != nil {
		return nil, err
	}
	defer srows.Close()
	for srows.Next() {
		s, err := scanScheduleInfo(srows)
		if err != nil {
			return nil, err
		}
		if idx, ok := index[s.RequestID]; ok {
			details[idx].Schedules = append(details[idx].Schedules, s)
		}
	}
	if err := srows.Err(); err != nil {
		return nil, err
	}
	return details, nil
}

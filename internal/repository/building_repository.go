package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/campusbook/room-booking/internal/model"
)

// ErrHasDependents is returned when a delete is blocked by child rows, such
// as removing a building that still has departments.  Handlers map it to 400.
var ErrHasDependents = errors.New("resource has dependent records")

// BuildingRepo provides CRUD over the 'buildings' table.
type BuildingRepo struct {
	db *sql.DB
}

func NewBuildingRepo(db *sql.DB) *BuildingRepo { return &BuildingRepo{db: db} }

// List returns all buildings ordered by id.
func (r *BuildingRepo) List(ctx context.Context) ([]model.Building, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT building_id, floors FROM buildings ORDER BY building_id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]model.Building, 0)
	for rows.Next() {
		var b model.Building
		var floors sql.NullInt64
		if err := rows.Scan(&b.ID, &floors); err != nil {
			return nil, err
		}
		if floors.Valid {
			f := int(floors.Int64)
			b.Floors = &f
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

// GetByID retrieves a building or ErrBuildingNotFound.
func (r *BuildingRepo) GetByID(ctx context.Context, id uint64) (*model.Building, error) {
	var b model.Building
	var floors sql.NullInt64
	err := r.db.QueryRowContext(ctx,
		`SELECT building_id, floors FROM buildings WHERE building_id = ?`, id).Scan(&b.ID, &floors)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrBuildingNotFound
		}
		return nil, err
	}
	if floors.Valid {
		f := int(floors.Int64)
		b.Floors = &f
	}
	return &b, nil
}

// Create inserts a building and populates its generated ID.
func (r *BuildingRepo) Create(ctx context.Context, b *model.Building) error {
	var floors interface{}
	if b.Floors != nil {
		floors = *b.Floors
	}
	res, err := r.db.ExecContext(ctx, `INSERT INTO buildings (floors) VALUES (?)`, floors)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	b.ID = uint64(id)
	return nil
}

// Update rewrites the floors count.
func (r *BuildingRepo) Update(ctx context.Context, b *model.Building) error {
	var floors interface{}
	if b.Floors != nil {
		floors = *b.Floors
	}
	res, err := r.db.ExecContext(ctx, `UPDATE buildings SET floors = ? WHERE building_id = ?`, floors, b.ID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrBuildingNotFound
	}
	return nil
}

// Delete removes a building.  A building that still has departments cannot
// be deleted; the FK violation is surfaced as ErrHasDependents.
func (r *BuildingRepo) Delete(ctx context.Context, id uint64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM buildings WHERE building_id = ?`, id)
	if err != nil {
		// 1451 = MySQL cannot delete parent row, foreign key constraint
		if strings.Contains(err.Error(), "1451") {
			return ErrHasDependents
		}
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrBuildingNotFound
	}
	return nil
}

package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/campusbook/room-booking/internal/model"
)

// DepartmentRepo provides CRUD over the 'departments' table.
type DepartmentRepo struct {
	db *sql.DB
}

func NewDepartmentRepo(db *sql.DB) *DepartmentRepo { return &DepartmentRepo{db: db} }

// List returns all departments ordered by id.
func (r *DepartmentRepo) List(ctx context.Context) ([]model.Department, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT dept_id, name, building_id FROM departments ORDER BY dept_id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]model.Department, 0)
	for rows.Next() {
		var d model.Department
		if err := rows.Scan(&d.ID, &d.Name, &d.BuildingID); err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

// GetByID retrieves a department or ErrDepartmentNotFound.
func (r *DepartmentRepo) GetByID(ctx context.Context, id uint64) (*model.Department, error) {
	var d model.Department
	err := r.db.QueryRowContext(ctx,
		`SELECT dept_id, name, building_id FROM departments WHERE dept_id = ?`, id).
		Scan(&d.ID, &d.Name, &d.BuildingID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrDepartmentNotFound
		}
		return nil, err
	}
	return &d, nil
}

// Create inserts a department and populates its generated ID.  The building
// must exist; a FK failure maps to ErrBuildingNotFound so the handler can
// report the actual missing entity.
func (r *DepartmentRepo) Create(ctx context.Context, d *model.Department) error {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO departments (name, building_id) VALUES (?, ?)`, d.Name, d.BuildingID)
	if err != nil {
		// 1452 = MySQL cannot add child row, referenced building missing
		if strings.Contains(err.Error(), "1452") {
			return ErrBuildingNotFound
		}
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	d.ID = uint64(id)
	return nil
}

// Update rewrites name and building reference.
func (r *DepartmentRepo) Update(ctx context.Context, d *model.Department) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE departments SET name = ?, building_id = ? WHERE dept_id = ?`,
		d.Name, d.BuildingID, d.ID)
	if err != nil {
		if strings.Contains(err.Error(), "1452") {
			return ErrBuildingNotFound
		}
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrDepartmentNotFound
	}
	return nil
}

// Delete removes a department, refusing when users still reference it.
func (r *DepartmentRepo) Delete(ctx context.Context, id uint64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM departments WHERE dept_id = ?`, id)
	if err != nil {
		if strings.Contains(err.Error(), "1451") {
			return ErrHasDependents
		}
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrDepartmentNotFound
	}
	return nil
}

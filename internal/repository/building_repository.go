// This file defines repository methods for buildings. A Building is a thin
// entity (id + name) that groups rooms; all validation beyond the schema
// happens at the handler layer.
package repository

import (
	"context"      // context allows passing deadlines and cancellation signals to DB operations
	"database/sql" // sql provides generic database operations and drivers
	"errors"       // errors is used to define custom error values

	"github.com/wmu/thats-my-spot/internal/model"
)

// ErrBuildingNotFound is returned when a building cannot be found in the DB.
var ErrBuildingNotFound = errors.New("building not found")

// BuildingRepo encapsulates all database queries related to buildings.  It
// depends on a sql.DB connection which should be configured elsewhere.
type BuildingRepo struct {
	db *sql.DB // db is the underlying database connection pool
}

// NewBuildingRepo constructs a BuildingRepo with the provided DB handle.  This
// function allows dependency injection of the database in tests and at
// startup.  There is no initialization logic beyond assigning the field.
func NewBuildingRepo(db *sql.DB) *BuildingRepo {
	return &BuildingRepo{db: db}
}

// Create inserts a new building.  On success the building's ID field is
// populated with the auto‑generated value.
func (r *BuildingRepo) Create(ctx context.Context, b *model.Building) error {
	res, err := r.db.ExecContext(ctx, "INSERT INTO buildings (name) VALUES (?)", b.Name)
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

// GetByID fetches a building by its ID.  It returns ErrBuildingNotFound
// if no row is found.
func (r *BuildingRepo) GetByID(ctx context.Context, id uint64) (*model.Building, error) {
	var b model.Building
	err := r.db.QueryRowContext(ctx,
		"SELECT id, name FROM buildings WHERE id = ?", id).Scan(&b.ID, &b.Name)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrBuildingNotFound
		}
		return nil, err
	}
	return &b, nil
}

// ListAll returns all buildings ordered by id.
func (r *BuildingRepo) ListAll(ctx context.Context) ([]*model.Building, error) {
	rows, err := r.db.QueryContext(ctx, "SELECT id, name FROM buildings ORDER BY id")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]*model.Building, 0)
	for rows.Next() {
		b := new(model.Building)
		if err := rows.Scan(&b.ID, &b.Name); err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// UpdateName updates the building name. It returns ErrBuildingNotFound
// when no row with that id exists.
func (r *BuildingRepo) UpdateName(ctx context.Context, id uint64, name string) error {
	res, err := r.db.ExecContext(ctx,
		"UPDATE buildings SET name = ? WHERE id = ?", name, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		// Either absent or unchanged; distinguish with a lookup.
		var one int
		if err := r.db.QueryRowContext(ctx,
			"SELECT 1 FROM buildings WHERE id = ? LIMIT 1", id).Scan(&one); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return ErrBuildingNotFound
			}
			return err
		}
	}
	return nil
}

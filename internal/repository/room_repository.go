package repository // repository holds data access logic for domain entities

import (
	"context"      // context is used to manage deadlines and cancellation
	"database/sql" // sql provides DB primitives
	"errors"       // errors package allows sentinel error definitions
	"strings"

	"github.com/wmu/thats-my-spot/internal/model"
)

// ErrRoomNotFound is returned when a room lookup fails.
var ErrRoomNotFound = errors.New("room not found")

// RoomRepo provides methods to create, retrieve and retire rooms.  The
// features column is a JSON document; it travels through this layer as a
// raw byte slice so the stored bytes round-trip unchanged.
type RoomRepo struct {
	db *sql.DB // db is the underlying database connection
}

// NewRoomRepo constructs a RoomRepo with the given DB handle.
func NewRoomRepo(db *sql.DB) *RoomRepo {
	return &RoomRepo{db: db}
}

const roomColumns = "id, name, building_id, capacity, features, access_type, is_active, image_path"

// scanRoom scans one row of roomColumns into a model.Room, converting the
// nullable features and image_path columns.
func scanRoom(row interface{ Scan(...any) error }) (*model.Room, error) {
	var rm model.Room
	var features []byte
	var imagePath sql.NullString
	if err := row.Scan(&rm.ID, &rm.Name, &rm.BuildingID, &rm.Capacity,
		&features, &rm.AccessType, &rm.IsActive, &imagePath); err != nil {
		return nil, err
	}
	if len(features) > 0 {
		rm.Features = features
	}
	if imagePath.Valid {
		p := imagePath.String
		rm.ImagePath = &p
	}
	return &rm, nil
}

// Create inserts a new room.  The room must have Name, BuildingID and
// Capacity set; Features may be nil.  After insert the ID field of the
// room is populated.  A duplicate (name, building_id) pair is reported
// as ErrConflict via the unique index.
func (r *RoomRepo) Create(ctx context.Context, rm *model.Room) error {
	const q = `INSERT INTO rooms (name, building_id, capacity, features, access_type, is_active, image_path)
	           VALUES (?, ?, ?, ?, ?, ?, ?)`
	res, err := r.db.ExecContext(ctx, q,
		rm.Name, rm.BuildingID, rm.Capacity, nullJSON(rm.Features), rm.AccessType, rm.IsActive, rm.ImagePath)
	if err != nil {
		if strings.Contains(strings.ToLower(err.Error()), "1062") {
			return ErrConflict
		}
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	rm.ID = uint64(id)
	return nil
}

// GetByID retrieves a room by its ID, active or not.  It returns
// ErrRoomNotFound when no row is found.
func (r *RoomRepo) GetByID(ctx context.Context, id uint64) (*model.Room, error) {
	rm, err := scanRoom(r.db.QueryRowContext(ctx,
		"SELECT "+roomColumns+" FROM rooms WHERE id = ?", id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrRoomNotFound
		}
		return nil, err
	}
	return rm, nil
}

// ListAll returns all rooms ordered by id, including inactive ones so
// administrators can see retired rooms.
func (r *RoomRepo) ListAll(ctx context.Context) ([]*model.Room, error) {
	return r.list(ctx, "SELECT "+roomColumns+" FROM rooms ORDER BY id")
}

// ListByBuilding returns all rooms inside a building ordered by id.
func (r *RoomRepo) ListByBuilding(ctx context.Context, buildingID uint64) ([]*model.Room, error) {
	return r.list(ctx, "SELECT "+roomColumns+" FROM rooms WHERE building_id = ? ORDER BY id", buildingID)
}

func (r *RoomRepo) list(ctx context.Context, q string, args ...any) ([]*model.Room, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]*model.Room, 0)
	for rows.Next() {
		rm, err := scanRoom(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rm)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// Update rewrites a room's mutable fields, preserving its id.  Returns
// ErrRoomNotFound when the row is absent and ErrConflict when the new
// (name, building_id) pair collides with another room.
func (r *RoomRepo) Update(ctx context.Context, rm *model.Room) error {
	const q = `UPDATE rooms
	           SET name = ?, building_id = ?, capacity = ?, features = ?, access_type = ?, is_active = ?, image_path = ?
	           WHERE id = ?`
	res, err := r.db.ExecContext(ctx, q,
		rm.Name, rm.BuildingID, rm.Capacity, nullJSON(rm.Features), rm.AccessType, rm.IsActive, rm.ImagePath, rm.ID)
	if err != nil {
		if strings.Contains(strings.ToLower(err.Error()), "1062") {
			return ErrConflict
		}
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		var one int
		if err := r.db.QueryRowContext(ctx,
			"SELECT 1 FROM rooms WHERE id = ? LIMIT 1", rm.ID).Scan(&one); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return ErrRoomNotFound
			}
			return err
		}
	}
	return nil
}

// SoftDelete marks a room inactive.  The row is retained so existing
// bookings keep resolving.  Deleting an already-inactive room is a no-op;
// only a missing id is an error.
func (r *RoomRepo) SoftDelete(ctx context.Context, id uint64) error {
	res, err := r.db.ExecContext(ctx,
		"UPDATE rooms SET is_active = FALSE WHERE id = ?", id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		var one int
		if err := r.db.QueryRowContext(ctx,
			"SELECT 1 FROM rooms WHERE id = ? LIMIT 1", id).Scan(&one); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return ErrRoomNotFound
			}
			return err
		}
	}
	return nil
}

// nullJSON converts an empty raw message to NULL so the JSON column stays
// NULL rather than holding an empty string MySQL would reject.
func nullJSON(raw []byte) any {
	if len(raw) == 0 {
		return nil
	}
	return raw
}

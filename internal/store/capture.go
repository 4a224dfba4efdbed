package store

import (
	"database/sql"
	"errors"
	"time"
)

// Capture represents one automatically taken photograph.
type Capture struct {
	ID         string
	Path       string
	WidthRatio float64
	Width      int
	Height     int
	TakenAt    time.Time
}

// CaptureRepository provides CRUD operations for captures.
type CaptureRepository struct {
	db *sql.DB
}

// Captures returns the capture repository for this store.
func (s *Store) Captures() *CaptureRepository {
	return &CaptureRepository{db: s.db}
}

// Create inserts a new capture into the database.
func (r *CaptureRepository) Create(c *Capture) error {
	if c.TakenAt.IsZero() {
		c.TakenAt = time.Now()
	}

	_, err := r.db.Exec(
		`INSERT INTO captures (id, path, width_ratio, width, height, taken_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		c.ID, c.Path, c.WidthRatio, c.Width, c.Height, c.TakenAt,
	)
	return err
}

// GetByID retrieves a capture by its ID.
func (r *CaptureRepository) GetByID(id string) (*Capture, error) {
	c := &Capture{}

	err := r.db.QueryRow(
		`SELECT id, path, width_ratio, width, height, taken_at
		 FROM captures WHERE id = ?`,
		id,
	).Scan(&c.ID, &c.Path, &c.WidthRatio, &c.Width, &c.Height, &c.TakenAt)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	return c, nil
}

// List retrieves captures newest first, at most limit rows. A limit of zero
// or less returns everything.
func (r *CaptureRepository) List(limit int) ([]*Capture, error) {
	query := `SELECT id, path, width_ratio, width, height, taken_at
		 FROM captures ORDER BY taken_at DESC`
	args := []any{}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var captures []*Capture
	for rows.Next() {
		c := &Capture{}
		if err := rows.Scan(&c.ID, &c.Path, &c.WidthRatio, &c.Width, &c.Height, &c.TakenAt); err != nil {
			return nil, err
		}
		captures = append(captures, c)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return captures, nil
}

// Count returns the total number of captures.
func (r *CaptureRepository) Count() (int, error) {
	var n int
	if err := r.db.QueryRow(`SELECT COUNT(*) FROM captures`).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}

// Delete removes a capture from the database by its ID.
func (r *CaptureRepository) Delete(id string) error {
	result, err := r.db.Exec(`DELETE FROM captures WHERE id = ?`, id)
	if err != nil {
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rowsAffected == 0 {
		return ErrNotFound
	}

	return nil
}

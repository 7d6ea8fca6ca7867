package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/ykchoudhary110/Communtity-Fridge/internal/model"
)

const fridgeColumns = `id, name, address, contact, capacity, latitude, longitude,
       status, photo_url, photo_mime, created_at, last_updated`

// FridgeParams holds the editable attributes of a fridge. Latitude and
// longitude are independently nullable.
type FridgeParams struct {
	Name      string
	Address   string
	Contact   string
	Capacity  string
	Latitude  *float64
	Longitude *float64
	Status    string
	PhotoURL  string
}

// CreateFridge inserts a new fridge and returns the stored record with its
// assigned id. An empty status defaults to "available".
func CreateFridge(ctx context.Context, db *sql.DB, p FridgeParams) (*model.Fridge, error) {
	if p.Status == "" {
		p.Status = string(model.StatusAvailable)
	}

	id := uuid.NewString()
	now := time.Now().UTC()
	_, err := db.ExecContext(ctx,
		`INSERT INTO fridges (id, name, address, contact, capacity, latitude, longitude,
		                      status, photo_url, created_at, last_updated)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		id, p.Name, p.Address, p.Contact, p.Capacity, p.Latitude, p.Longitude,
		p.Status, p.PhotoURL, now, now,
	)
	if err != nil {
		return nil, fmt.Errorf("creating fridge: %w", err)
	}

	return GetFridge(ctx, db, id)
}

// GetFridge returns a fridge by id, or nil if it does not exist.
func GetFridge(ctx context.Context, db *sql.DB, id string) (*model.Fridge, error) {
	row := db.QueryRowContext(ctx,
		`SELECT `+fridgeColumns+` FROM fridges WHERE id = ?`, id,
	)
	fridge, err := scanFridge(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting fridge: %w", err)
	}
	return fridge, nil
}

// ListFridges returns all fridges ordered by last update, newest first.
func ListFridges(ctx context.Context, db *sql.DB) ([]model.Fridge, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT `+fridgeColumns+` FROM fridges ORDER BY last_updated DESC`,
	)
	if err != nil {
		return nil, fmt.Errorf("listing fridges: %w", err)
	}
	defer rows.Close()

	var fridges []model.Fridge
	for rows.Next() {
		fridge, err := scanFridge(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning fridge: %w", err)
		}
		fridges = append(fridges, *fridge)
	}
	return fridges, rows.Err()
}

// UpdateFridge replaces all editable attributes of a fridge and refreshes
// last_updated. Returns the updated record, or nil if the fridge is gone.
func UpdateFridge(ctx context.Context, db *sql.DB, id string, p FridgeParams) (*model.Fridge, error) {
	_, err := db.ExecContext(ctx,
		`UPDATE fridges
		 SET name = ?, address = ?, contact = ?, capacity = ?, latitude = ?, longitude = ?,
		     status = ?, photo_url = ?, last_updated = ?
		 WHERE id = ?`,
		p.Name, p.Address, p.Contact, p.Capacity, p.Latitude, p.Longitude,
		p.Status, p.PhotoURL, time.Now().UTC(), id,
	)
	if err != nil {
		return nil, fmt.Errorf("updating fridge: %w", err)
	}
	return GetFridge(ctx, db, id)
}

// UpdateFridgeStatus sets only the status and refreshes last_updated.
func UpdateFridgeStatus(ctx context.Context, db *sql.DB, id, status string) error {
	_, err := db.ExecContext(ctx,
		`UPDATE fridges SET status = ?, last_updated = ? WHERE id = ?`,
		status, time.Now().UTC(), id,
	)
	if err != nil {
		return fmt.Errorf("updating fridge status: %w", err)
	}
	return nil
}

// SetFridgePhoto stores a fridge's photo data.
func SetFridgePhoto(ctx context.Context, db *sql.DB, id string, photo []byte, mime string) error {
	_, err := db.ExecContext(ctx,
		`UPDATE fridges SET photo = ?, photo_mime = ?, last_updated = ? WHERE id = ?`,
		photo, mime, time.Now().UTC(), id,
	)
	if err != nil {
		return fmt.Errorf("setting fridge photo: %w", err)
	}
	return nil
}

// GetFridgePhoto returns a fridge's photo data and MIME type.
func GetFridgePhoto(ctx context.Context, db *sql.DB, id string) ([]byte, string, error) {
	var photo []byte
	var mime sql.NullString
	err := db.QueryRowContext(ctx,
		`SELECT photo, photo_mime FROM fridges WHERE id = ?`, id,
	).Scan(&photo, &mime)
	if err == sql.ErrNoRows {
		return nil, "", nil
	}
	if err != nil {
		return nil, "", fmt.Errorf("getting fridge photo: %w", err)
	}
	return photo, mime.String, nil
}

// scanner is satisfied by both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanFridge(s scanner) (*model.Fridge, error) {
	f := &model.Fridge{}
	var address, contact, capacity, photoURL, photoMime sql.NullString
	var latitude, longitude sql.NullFloat64
	err := s.Scan(&f.ID, &f.Name, &address, &contact, &capacity, &latitude, &longitude,
		&f.Status, &photoURL, &photoMime, &f.CreatedAt, &f.LastUpdated)
	if err != nil {
		return nil, err
	}
	f.Address = address.String
	f.Contact = contact.String
	f.Capacity = capacity.String
	f.PhotoURL = photoURL.String
	f.PhotoMime = photoMime.String
	if latitude.Valid {
		f.Latitude = &latitude.Float64
	}
	if longitude.Valid {
		f.Longitude = &longitude.Float64
	}
	return f, nil
}

// Package detail loads a single fridge together with its status history and
// applies the status-change and edit write protocols.
package detail

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"strconv"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/ykchoudhary110/Communtity-Fridge/internal/model"
	"github.com/ykchoudhary110/Communtity-Fridge/internal/store"
)

var (
	// ErrNameRequired signals a create or edit without a name. Checked before
	// any store call.
	ErrNameRequired = errors.New("name is required")
	// ErrStatusRequired signals a status update without a status. Checked
	// before any store call.
	ErrStatusRequired = errors.New("status is required")
	// ErrInvalidStatus signals a status outside the canonical set.
	ErrInvalidStatus = errors.New("invalid status")
	// ErrNotFound signals a write against a fridge that does not exist.
	ErrNotFound = errors.New("fridge not found")
)

// EditNote is recorded on log entries produced by the edit form.
const EditNote = "Updated via edit form"

// Store is the slice of the entity store the controller needs.
type Store interface {
	GetFridge(ctx context.Context, id string) (*model.Fridge, error)
	ListStatusLogs(ctx context.Context, fridgeID string) ([]model.StatusLogEntry, error)
	CreateFridge(ctx context.Context, p store.FridgeParams) (*model.Fridge, error)
	UpdateFridge(ctx context.Context, id string, p store.FridgeParams) (*model.Fridge, error)
	UpdateFridgeStatus(ctx context.Context, id, status string) error
	AppendStatusLog(ctx context.Context, fridgeID, status, note string) (*model.StatusLogEntry, error)
}

// Detail is a fridge with its log entries, newest first.
type Detail struct {
	Fridge *model.Fridge          `json:"fridge"`
	Logs   []model.StatusLogEntry `json:"logs"`
}

// Controller applies per-fridge reads and writes.
type Controller struct {
	store Store
}

// NewController creates a controller backed by the SQLite store.
func NewController(db *sql.DB) *Controller {
	return &Controller{store: sqlStore{db: db}}
}

func newController(s Store) *Controller {
	return &Controller{store: s}
}

// Load fetches a fridge and its logs concurrently. Returns (nil, nil) when
// the fridge does not exist; the log lookup result is immaterial then.
func (c *Controller) Load(ctx context.Context, id string) (*Detail, error) {
	var fridge *model.Fridge
	var logs []model.StatusLogEntry

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		fridge, err = c.store.GetFridge(gctx, id)
		return err
	})
	g.Go(func() error {
		var err error
		logs, err = c.store.ListStatusLogs(gctx, id)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	if fridge == nil {
		return nil, nil
	}
	return &Detail{Fridge: fridge, Logs: logs}, nil
}

// UpdateStatus applies the status-change protocol: update the fridge row
// (status plus a fresh last_updated), then append a log entry, then reload.
// The fridge update must succeed before the log append is attempted, so the
// log never records a status the fridge row does not also reflect. A failed
// log append after a successful update is reported but not rolled back; the
// fridge's status stays correct while the audit trail misses the transition.
func (c *Controller) UpdateStatus(ctx context.Context, id, status, note string) (*Detail, error) {
	if status == "" {
		return nil, ErrStatusRequired
	}
	normalized := model.ParseStatus(status)
	if !normalized.Valid() {
		return nil, ErrInvalidStatus
	}

	fridge, err := c.store.GetFridge(ctx, id)
	if err != nil {
		return nil, err
	}
	if fridge == nil {
		return nil, ErrNotFound
	}

	if err := c.store.UpdateFridgeStatus(ctx, id, string(normalized)); err != nil {
		return nil, err
	}

	if _, err := c.store.AppendStatusLog(ctx, id, string(normalized), note); err != nil {
		slog.Error("failed to append status log", "fridge", id, "error", err)
	}

	return c.Load(ctx, id)
}

// EditParams carries the edit form's raw field values. Latitude and
// longitude arrive as text and are coerced independently.
type EditParams struct {
	Name      string
	Address   string
	Contact   string
	Capacity  string
	Status    string
	PhotoURL  string
	Latitude  string
	Longitude string
}

func (p EditParams) fridgeParams() store.FridgeParams {
	return store.FridgeParams{
		Name:      strings.TrimSpace(p.Name),
		Address:   p.Address,
		Contact:   p.Contact,
		Capacity:  p.Capacity,
		Latitude:  parseCoordinate(p.Latitude),
		Longitude: parseCoordinate(p.Longitude),
		Status:    p.Status,
		PhotoURL:  p.PhotoURL,
	}
}

// Create validates and inserts a new fridge. Status defaults to "available"
// when unset; a status outside the canonical set is rejected.
func (c *Controller) Create(ctx context.Context, p EditParams) (*model.Fridge, error) {
	params := p.fridgeParams()
	if params.Name == "" {
		return nil, ErrNameRequired
	}
	if params.Status == "" {
		params.Status = string(model.StatusAvailable)
	} else {
		normalized := model.ParseStatus(params.Status)
		if !normalized.Valid() {
			return nil, ErrInvalidStatus
		}
		params.Status = string(normalized)
	}
	return c.store.CreateFridge(ctx, params)
}

// Edit replaces all editable attributes of a fridge. Unlike the status form,
// which always logs on submit, the edit form only appends a log entry when
// the status actually changed from the previously stored value.
func (c *Controller) Edit(ctx context.Context, id string, p EditParams) (*model.Fridge, error) {
	params := p.fridgeParams()
	if params.Name == "" {
		return nil, ErrNameRequired
	}
	if params.Status != "" {
		normalized := model.ParseStatus(params.Status)
		if !normalized.Valid() {
			return nil, ErrInvalidStatus
		}
		params.Status = string(normalized)
	}

	prior, err := c.store.GetFridge(ctx, id)
	if err != nil {
		return nil, err
	}
	if prior == nil {
		return nil, ErrNotFound
	}

	updated, err := c.store.UpdateFridge(ctx, id, params)
	if err != nil {
		return nil, err
	}

	if model.ParseStatus(prior.Status) != model.ParseStatus(params.Status) {
		if _, err := c.store.AppendStatusLog(ctx, id, params.Status, EditNote); err != nil {
			slog.Error("failed to append status log after edit", "fridge", id, "error", err)
		}
	}

	return updated, nil
}

// parseCoordinate converts coordinate text to numeric-or-null. Empty and
// unparsable values both coerce to null.
func parseCoordinate(raw string) *float64 {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil
	}
	return &v
}

// sqlStore adapts the store package's functions to the Store interface.
type sqlStore struct {
	db *sql.DB
}

func (s sqlStore) GetFridge(ctx context.Context, id string) (*model.Fridge, error) {
	return store.GetFridge(ctx, s.db, id)
}

func (s sqlStore) ListStatusLogs(ctx context.Context, fridgeID string) ([]model.StatusLogEntry, error) {
	return store.ListStatusLogs(ctx, s.db, fridgeID)
}

func (s sqlStore) CreateFridge(ctx context.Context, p store.FridgeParams) (*model.Fridge, error) {
	return store.CreateFridge(ctx, s.db, p)
}

func (s sqlStore) UpdateFridge(ctx context.Context, id string, p store.FridgeParams) (*model.Fridge, error) {
	return store.UpdateFridge(ctx, s.db, id, p)
}

func (s sqlStore) UpdateFridgeStatus(ctx context.Context, id, status string) error {
	return store.UpdateFridgeStatus(ctx, s.db, id, status)
}

func (s sqlStore) AppendStatusLog(ctx context.Context, fridgeID, status, note string) (*model.StatusLogEntry, error) {
	return store.AppendStatusLog(ctx, s.db, fridgeID, status, note)
}

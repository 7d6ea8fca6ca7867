package api

import (
	"database/sql"
	"errors"
	"log/slog"
	"net/http"

	"github.com/ykchoudhary110/Communtity-Fridge/internal/detail"
	"github.com/ykchoudhary110/Communtity-Fridge/internal/imaging"
	"github.com/ykchoudhary110/Communtity-Fridge/internal/model"
	"github.com/ykchoudhary110/Communtity-Fridge/internal/poll"
	"github.com/ykchoudhary110/Communtity-Fridge/internal/store"
	"github.com/ykchoudhary110/Communtity-Fridge/internal/view"
)

// FridgesHandler handles fridge directory endpoints. List reads are served
// from the poller's in-memory mirror, so they may lag a write by up to one
// polling interval.
type FridgesHandler struct {
	DB         *sql.DB
	Fetcher    *poll.Fetcher
	Controller *detail.Controller
}

type fridgeRequest struct {
	Name      string `json:"name"`
	Address   string `json:"address"`
	Contact   string `json:"contact"`
	Capacity  string `json:"capacity"`
	Status    string `json:"status"`
	PhotoURL  string `json:"photo_url"`
	Latitude  string `json:"latitude"`
	Longitude string `json:"longitude"`
}

func (r fridgeRequest) editParams() detail.EditParams {
	return detail.EditParams{
		Name:      r.Name,
		Address:   r.Address,
		Contact:   r.Contact,
		Capacity:  r.Capacity,
		Status:    r.Status,
		PhotoURL:  r.PhotoURL,
		Latitude:  r.Latitude,
		Longitude: r.Longitude,
	}
}

type statusRequest struct {
	Status string `json:"status"`
	Note   string `json:"note"`
}

type listResponse struct {
	Fridges []model.Fridge `json:"fridges"`
	Counts  view.Counts    `json:"counts"`
	Loading bool           `json:"loading"`
}

// List handles GET /api/fridges. Supports q (search) and status (filter)
// query parameters; counts always cover the unfiltered collection.
func (h *FridgesHandler) List(w http.ResponseWriter, r *http.Request) {
	fridges, loading := h.Fetcher.Snapshot()

	filtered := view.Filter(fridges, r.URL.Query().Get("q"), r.URL.Query().Get("status"))
	if filtered == nil {
		filtered = []model.Fridge{}
	}

	jsonResponse(w, http.StatusOK, listResponse{
		Fridges: filtered,
		Counts:  view.Count(fridges),
		Loading: loading,
	})
}

// Reload handles POST /api/fridges/reload: force one fetch cycle.
func (h *FridgesHandler) Reload(w http.ResponseWriter, r *http.Request) {
	h.Fetcher.Reload(r.Context())
	h.List(w, r)
}

// Create handles POST /api/fridges.
func (h *FridgesHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req fridgeRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	fridge, err := h.Controller.Create(r.Context(), req.editParams())
	if err != nil {
		switch {
		case errors.Is(err, detail.ErrNameRequired):
			jsonError(w, http.StatusBadRequest, "name required")
		case errors.Is(err, detail.ErrInvalidStatus):
			jsonError(w, http.StatusBadRequest, err.Error())
		default:
			jsonError(w, http.StatusInternalServerError, "failed to create fridge")
		}
		return
	}

	if identity := GetIdentity(r.Context()); identity != nil {
		slog.Info("fridge created", "user", identity.Email, "fridge", fridge.Name)
	}
	jsonResponse(w, http.StatusCreated, fridge)
}

// Get handles GET /api/fridges/{id}: the fridge with its status history.
func (h *FridgesHandler) Get(w http.ResponseWriter, r *http.Request) {
	d, err := h.Controller.Load(r.Context(), r.PathValue("id"))
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to get fridge")
		return
	}
	if d == nil {
		jsonError(w, http.StatusNotFound, "fridge not found")
		return
	}
	if d.Logs == nil {
		d.Logs = []model.StatusLogEntry{}
	}
	jsonResponse(w, http.StatusOK, d)
}

// Update handles PUT /api/fridges/{id}: full attribute replacement.
func (h *FridgesHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req fridgeRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	fridge, err := h.Controller.Edit(r.Context(), r.PathValue("id"), req.editParams())
	if err != nil {
		switch {
		case errors.Is(err, detail.ErrNameRequired):
			jsonError(w, http.StatusBadRequest, "name required")
		case errors.Is(err, detail.ErrInvalidStatus):
			jsonError(w, http.StatusBadRequest, err.Error())
		case errors.Is(err, detail.ErrNotFound):
			jsonError(w, http.StatusNotFound, "fridge not found")
		default:
			jsonError(w, http.StatusInternalServerError, "failed to update fridge")
		}
		return
	}

	jsonResponse(w, http.StatusOK, fridge)
}

// UpdateStatus handles POST /api/fridges/{id}/status.
func (h *FridgesHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	var req statusRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	d, err := h.Controller.UpdateStatus(r.Context(), r.PathValue("id"), req.Status, req.Note)
	if err != nil {
		switch {
		case errors.Is(err, detail.ErrStatusRequired), errors.Is(err, detail.ErrInvalidStatus):
			jsonError(w, http.StatusBadRequest, err.Error())
		case errors.Is(err, detail.ErrNotFound):
			jsonError(w, http.StatusNotFound, "fridge not found")
		default:
			jsonError(w, http.StatusInternalServerError, "failed to update status")
		}
		return
	}

	jsonResponse(w, http.StatusOK, d)
}

// Logs handles GET /api/fridges/{id}/logs.
func (h *FridgesHandler) Logs(w http.ResponseWriter, r *http.Request) {
	logs, err := store.ListStatusLogs(r.Context(), h.DB, r.PathValue("id"))
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to list status logs")
		return
	}
	if logs == nil {
		logs = []model.StatusLogEntry{}
	}
	jsonResponse(w, http.StatusOK, logs)
}

// UploadPhoto handles PUT /api/fridges/{id}/photo.
func (h *FridgesHandler) UploadPhoto(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	fridge, err := store.GetFridge(r.Context(), h.DB, id)
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to get fridge")
		return
	}
	if fridge == nil {
		jsonError(w, http.StatusNotFound, "fridge not found")
		return
	}

	// Limit to 5 MB.
	r.Body = http.MaxBytesReader(w, r.Body, 5<<20)

	if err := r.ParseMultipartForm(5 << 20); err != nil {
		jsonError(w, http.StatusBadRequest, "file too large or invalid multipart form")
		return
	}

	file, _, err := r.FormFile("photo")
	if err != nil {
		jsonError(w, http.StatusBadRequest, "photo file required")
		return
	}
	defer file.Close()

	photo, err := imaging.Process(file)
	if err != nil {
		jsonError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := store.SetFridgePhoto(r.Context(), h.DB, id, photo.Data, photo.MIME); err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to save photo")
		return
	}

	jsonResponse(w, http.StatusOK, map[string]string{"message": "photo uploaded"})
}

// GetPhoto handles GET /api/fridges/{id}/photo.
func (h *FridgesHandler) GetPhoto(w http.ResponseWriter, r *http.Request) {
	data, mime, err := store.GetFridgePhoto(r.Context(), h.DB, r.PathValue("id"))
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to get photo")
		return
	}
	if data == nil {
		jsonError(w, http.StatusNotFound, "no photo")
		return
	}

	w.Header().Set("Content-Type", mime)
	w.Header().Set("Cache-Control", "public, max-age=3600")
	w.Write(data)
}

package web

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/ykchoudhary110/Communtity-Fridge/internal/detail"
	"github.com/ykchoudhary110/Communtity-Fridge/internal/imaging"
	"github.com/ykchoudhary110/Communtity-Fridge/internal/model"
	"github.com/ykchoudhary110/Communtity-Fridge/internal/store"
	"github.com/ykchoudhary110/Communtity-Fridge/internal/view"
)

// ListPage handles GET /. The collection comes from the poll mirror, not a
// direct query, so it may lag a write by up to one polling interval.
func (s *Server) ListPage(w http.ResponseWriter, r *http.Request) {
	fridges, loading := s.Fetcher.Snapshot()

	query := r.URL.Query().Get("q")
	statusFilter := r.URL.Query().Get("status")
	if statusFilter == "" {
		statusFilter = view.FilterAll
	}

	s.Templates.Render(w, "fridges.html", &struct {
		PageData
		Fridges      []model.Fridge
		Counts       view.Counts
		Loading      bool
		Query        string
		StatusFilter string
		Statuses     []model.Status
	}{
		PageData:     PageData{Title: "Community Fridges", User: GetWebIdentity(r.Context())},
		Fridges:      view.Filter(fridges, query, statusFilter),
		Counts:       view.Count(fridges),
		Loading:      loading,
		Query:        query,
		StatusFilter: statusFilter,
		Statuses:     model.Statuses,
	})
}

// ReloadSubmit handles POST /reload: force one fetch cycle, then return to
// the list.
func (s *Server) ReloadSubmit(w http.ResponseWriter, r *http.Request) {
	s.Fetcher.Reload(r.Context())
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// DetailPage handles GET /fridges/{id}.
func (s *Server) DetailPage(w http.ResponseWriter, r *http.Request) {
	d, err := s.Controller.Load(r.Context(), r.PathValue("id"))
	if err != nil {
		slog.Error("failed to load fridge detail", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	if d == nil {
		s.renderNotFound(w, r)
		return
	}

	s.Templates.Render(w, "fridge_detail.html", &struct {
		PageData
		Fridge   *model.Fridge
		Logs     []model.StatusLogEntry
		Statuses []model.Status
	}{
		PageData: PageData{Title: d.Fridge.Name, User: GetWebIdentity(r.Context())},
		Fridge:   d.Fridge,
		Logs:     d.Logs,
		Statuses: model.Statuses,
	})
}

// StatusSubmit handles POST /fridges/{id}/status.
func (s *Server) StatusSubmit(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	identity := GetWebIdentity(r.Context())

	_, err := s.Controller.UpdateStatus(r.Context(), id, r.FormValue("status"), r.FormValue("note"))
	if err != nil {
		switch {
		case errors.Is(err, detail.ErrStatusRequired), errors.Is(err, detail.ErrInvalidStatus):
			http.Redirect(w, r, fmt.Sprintf("/fridges/%s", id), http.StatusSeeOther)
		case errors.Is(err, detail.ErrNotFound):
			s.renderNotFound(w, r)
		default:
			slog.Error("failed to update fridge status", "fridge", id, "error", err)
			http.Error(w, "failed to update status", http.StatusInternalServerError)
		}
		return
	}

	slog.Info("fridge status updated", "user", identity.Email, "fridge", id, "status", r.FormValue("status"))
	http.Redirect(w, r, fmt.Sprintf("/fridges/%s", id), http.StatusSeeOther)
}

// NewPage handles GET /fridges/new.
func (s *Server) NewPage(w http.ResponseWriter, r *http.Request) {
	s.Templates.Render(w, "fridge_new.html", &struct {
		PageData
		Statuses []model.Status
	}{
		PageData: PageData{Title: "Add a new fridge", User: GetWebIdentity(r.Context())},
		Statuses: model.Statuses,
	})
}

// CreateSubmit handles POST /fridges/new. On success the browser lands on
// the new fridge's detail page, addressed by the store-assigned id.
func (s *Server) CreateSubmit(w http.ResponseWriter, r *http.Request) {
	identity := GetWebIdentity(r.Context())

	fridge, err := s.Controller.Create(r.Context(), formEditParams(r))
	if err != nil {
		if errors.Is(err, detail.ErrNameRequired) || errors.Is(err, detail.ErrInvalidStatus) {
			msg := "Name is required."
			if errors.Is(err, detail.ErrInvalidStatus) {
				msg = "Choose one of the listed statuses."
			}
			s.Templates.Render(w, "fridge_new.html", &struct {
				PageData
				Statuses []model.Status
			}{
				PageData: PageData{Title: "Add a new fridge", User: identity, Error: msg},
				Statuses: model.Statuses,
			})
			return
		}
		slog.Error("failed to create fridge", "error", err)
		http.Error(w, "failed to create fridge", http.StatusInternalServerError)
		return
	}

	slog.Info("fridge created", "user", identity.Email, "fridge", fridge.Name)
	http.Redirect(w, r, fmt.Sprintf("/fridges/%s", fridge.ID), http.StatusSeeOther)
}

// EditPage handles GET /fridges/{id}/edit.
func (s *Server) EditPage(w http.ResponseWriter, r *http.Request) {
	fridge, err := store.GetFridge(r.Context(), s.DB, r.PathValue("id"))
	if err != nil {
		slog.Error("failed to get fridge", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	if fridge == nil {
		s.renderNotFound(w, r)
		return
	}

	s.Templates.Render(w, "fridge_edit.html", &struct {
		PageData
		Fridge   *model.Fridge
		Statuses []model.Status
	}{
		PageData: PageData{Title: "Edit fridge", User: GetWebIdentity(r.Context())},
		Fridge:   fridge,
		Statuses: model.Statuses,
	})
}

// EditSubmit handles POST /fridges/{id}/edit.
func (s *Server) EditSubmit(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	identity := GetWebIdentity(r.Context())

	fridge, err := s.Controller.Edit(r.Context(), id, formEditParams(r))
	if err != nil {
		switch {
		case errors.Is(err, detail.ErrInvalidStatus):
			http.Redirect(w, r, fmt.Sprintf("/fridges/%s/edit", id), http.StatusSeeOther)
		case errors.Is(err, detail.ErrNameRequired):
			prior, _ := store.GetFridge(r.Context(), s.DB, id)
			if prior == nil {
				s.renderNotFound(w, r)
				return
			}
			s.Templates.Render(w, "fridge_edit.html", &struct {
				PageData
				Fridge   *model.Fridge
				Statuses []model.Status
			}{
				PageData: PageData{Title: "Edit fridge", User: identity, Error: "Name is required."},
				Fridge:   prior,
				Statuses: model.Statuses,
			})
		case errors.Is(err, detail.ErrNotFound):
			s.renderNotFound(w, r)
		default:
			slog.Error("failed to update fridge", "fridge", id, "error", err)
			http.Error(w, "failed to update fridge", http.StatusInternalServerError)
		}
		return
	}

	slog.Info("fridge updated", "user", identity.Email, "fridge", fridge.Name)
	http.Redirect(w, r, fmt.Sprintf("/fridges/%s", id), http.StatusSeeOther)
}

// PhotoSubmit handles POST /fridges/{id}/photo.
func (s *Server) PhotoSubmit(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	r.Body = http.MaxBytesReader(w, r.Body, 5<<20)
	if err := r.ParseMultipartForm(5 << 20); err != nil {
		http.Error(w, "file too large", http.StatusBadRequest)
		return
	}

	file, _, err := r.FormFile("photo")
	if err != nil {
		http.Error(w, "photo required", http.StatusBadRequest)
		return
	}
	defer file.Close()

	// Validate format by sniffing bytes, downscale, compress.
	photo, err := imaging.Process(file)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if err := store.SetFridgePhoto(r.Context(), s.DB, id, photo.Data, photo.MIME); err != nil {
		slog.Error("failed to save photo", "error", err)
		http.Error(w, "failed to save photo", http.StatusInternalServerError)
		return
	}

	slog.Info("fridge photo uploaded", "user", GetWebIdentity(r.Context()).Email, "fridge", id)
	http.Redirect(w, r, fmt.Sprintf("/fridges/%s", id), http.StatusSeeOther)
}

// PhotoGet handles GET /fridges/{id}/photo.
func (s *Server) PhotoGet(w http.ResponseWriter, r *http.Request) {
	data, mime, err := store.GetFridgePhoto(r.Context(), s.DB, r.PathValue("id"))
	if err != nil {
		slog.Error("failed to get photo", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	if data == nil {
		http.NotFound(w, r)
		return
	}

	w.Header().Set("Content-Type", mime)
	w.Header().Set("Content-Disposition", "inline")
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.Header().Set("Cache-Control", "public, max-age=3600")
	if _, err := w.Write(data); err != nil {
		slog.Error("failed to write photo response", "error", err)
	}
}

// renderNotFound renders the dedicated not-found page. A missing fridge is
// a terminal page state, not an error notification.
func (s *Server) renderNotFound(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusNotFound)
	s.Templates.Render(w, "not_found.html", &PageData{
		Title: "Fridge not found",
		User:  GetWebIdentity(r.Context()),
	})
}

func formEditParams(r *http.Request) detail.EditParams {
	return detail.EditParams{
		Name:      r.FormValue("name"),
		Address:   r.FormValue("address"),
		Contact:   r.FormValue("contact"),
		Capacity:  r.FormValue("capacity"),
		Status:    r.FormValue("status"),
		PhotoURL:  r.FormValue("photo_url"),
		Latitude:  r.FormValue("latitude"),
		Longitude: r.FormValue("longitude"),
	}
}

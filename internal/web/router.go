package web

import (
	"database/sql"
	"net/http"

	"github.com/ykchoudhary110/Communtity-Fridge/internal/detail"
	"github.com/ykchoudhary110/Communtity-Fridge/internal/poll"
	"github.com/ykchoudhary110/Communtity-Fridge/internal/session"
	webembed "github.com/ykchoudhary110/Communtity-Fridge/web"
)

// NewRouter creates the web page router with all page routes registered.
// Identity flows through the session store, which is constructed once at
// startup and passed in here.
func NewRouter(db *sql.DB, sessions *session.Store, fetcher *poll.Fetcher) (http.Handler, error) {
	templates, err := LoadTemplates()
	if err != nil {
		return nil, err
	}

	s := &Server{
		DB:         db,
		Templates:  templates,
		Sessions:   sessions,
		Fetcher:    fetcher,
		Controller: detail.NewController(db),
	}

	mux := http.NewServeMux()
	guard := RequireSession(sessions)
	withSession := WithSession(sessions)

	// Static assets.
	mux.Handle("GET /static/", http.StripPrefix("/static/", http.FileServer(http.FS(webembed.StaticFS()))))

	// Public routes. The directory itself is open; the pages adapt to the
	// signed-in state.
	mux.HandleFunc("GET /login", s.LoginPage)
	mux.HandleFunc("POST /login", s.LoginSubmit)
	mux.HandleFunc("GET /signup", s.SignupPage)
	mux.HandleFunc("POST /signup", s.SignupSubmit)
	mux.HandleFunc("POST /logout", s.Logout)

	mux.Handle("GET /{$}", withSession(http.HandlerFunc(s.ListPage)))
	mux.HandleFunc("POST /reload", s.ReloadSubmit)
	mux.Handle("GET /fridges/{id}", withSession(http.HandlerFunc(s.DetailPage)))
	mux.HandleFunc("GET /fridges/{id}/photo", s.PhotoGet)

	// Guarded routes: anything that writes needs a session.
	mux.Handle("GET /fridges/new", guard(http.HandlerFunc(s.NewPage)))
	mux.Handle("POST /fridges/new", guard(http.HandlerFunc(s.CreateSubmit)))
	mux.Handle("POST /fridges/{id}/status", guard(http.HandlerFunc(s.StatusSubmit)))
	mux.Handle("GET /fridges/{id}/edit", guard(http.HandlerFunc(s.EditPage)))
	mux.Handle("POST /fridges/{id}/edit", guard(http.HandlerFunc(s.EditSubmit)))
	mux.Handle("POST /fridges/{id}/photo", guard(http.HandlerFunc(s.PhotoSubmit)))

	return mux, nil
}

package api

import (
	"database/sql"
	"net/http"

	"github.com/ykchoudhary110/Communtity-Fridge/internal/auth"
	"github.com/ykchoudhary110/Communtity-Fridge/internal/detail"
	"github.com/ykchoudhary110/Communtity-Fridge/internal/poll"
)

// NewRouter creates the API router with all endpoints registered.
func NewRouter(db *sql.DB, svc *auth.Service, fetcher *poll.Fetcher) http.Handler {
	mux := http.NewServeMux()

	authHandler := &AuthHandler{Service: svc}
	fridgesHandler := &FridgesHandler{
		DB:         db,
		Fetcher:    fetcher,
		Controller: detail.NewController(db),
	}

	authMW := AuthMiddleware(svc)

	// Public: account creation and login.
	mux.HandleFunc("POST /api/auth/signup", authHandler.Signup)
	mux.HandleFunc("POST /api/auth/login", authHandler.Login)
	mux.Handle("POST /api/auth/logout", authMW(http.HandlerFunc(authHandler.Logout)))

	// Directory reads are public; the list is served from the poll mirror.
	mux.HandleFunc("GET /api/fridges", fridgesHandler.List)
	mux.HandleFunc("POST /api/fridges/reload", fridgesHandler.Reload)
	mux.HandleFunc("GET /api/fridges/{id}", fridgesHandler.Get)
	mux.HandleFunc("GET /api/fridges/{id}/logs", fridgesHandler.Logs)
	mux.HandleFunc("GET /api/fridges/{id}/photo", fridgesHandler.GetPhoto)

	// Writes require a session.
	mux.Handle("POST /api/fridges", authMW(http.HandlerFunc(fridgesHandler.Create)))
	mux.Handle("PUT /api/fridges/{id}", authMW(http.HandlerFunc(fridgesHandler.Update)))
	mux.Handle("POST /api/fridges/{id}/status", authMW(http.HandlerFunc(fridgesHandler.UpdateStatus)))
	mux.Handle("PUT /api/fridges/{id}/photo", authMW(http.HandlerFunc(fridgesHandler.UploadPhoto)))

	return mux
}

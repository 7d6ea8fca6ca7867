package web

import (
	"errors"
	"net/http"

	"github.com/ykchoudhary110/Communtity-Fridge/internal/auth"
)

// LoginPage handles GET /login.
func (s *Server) LoginPage(w http.ResponseWriter, r *http.Request) {
	s.Templates.Render(w, "login.html", &PageData{Title: "Log in"})
}

// LoginSubmit handles POST /login.
func (s *Server) LoginSubmit(w http.ResponseWriter, r *http.Request) {
	email := r.FormValue("email")
	password := r.FormValue("password")

	if email == "" || password == "" {
		s.Templates.Render(w, "login.html", &PageData{
			Title: "Log in",
			Error: "Enter your email and password.",
		})
		return
	}

	token, err := s.Sessions.SignIn(r.Context(), email, password)
	if err != nil {
		msg := "Something went wrong, please try again."
		if errors.Is(err, auth.ErrInvalidCredentials) {
			msg = "Wrong email or password."
		}
		s.Templates.Render(w, "login.html", &PageData{
			Title: "Log in",
			Error: msg,
		})
		return
	}

	setSessionCookie(w, token)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// SignupPage handles GET /signup.
func (s *Server) SignupPage(w http.ResponseWriter, r *http.Request) {
	s.Templates.Render(w, "signup.html", &PageData{Title: "Create an account"})
}

// SignupSubmit handles POST /signup: the session store creates the account
// and signs in with it immediately.
func (s *Server) SignupSubmit(w http.ResponseWriter, r *http.Request) {
	email := r.FormValue("email")
	password := r.FormValue("password")

	if email == "" || password == "" {
		s.Templates.Render(w, "signup.html", &PageData{
			Title: "Create an account",
			Error: "Enter an email and password.",
		})
		return
	}

	token, err := s.Sessions.SignUp(r.Context(), email, password)
	if err != nil {
		if errors.Is(err, auth.ErrWeakPassword) || errors.Is(err, auth.ErrEmailTaken) {
			s.Templates.Render(w, "signup.html", &PageData{
				Title: "Create an account",
				Error: err.Error(),
			})
			return
		}
		// The account may exist but the session could not start; let the
		// user log in manually.
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}

	setSessionCookie(w, token)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// Logout handles POST /logout: end the session and clear the cookie.
func (s *Server) Logout(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie(sessionCookie); err == nil && cookie.Value != "" {
		_ = s.Sessions.SignOut(r.Context(), cookie.Value)
	}
	clearSessionCookie(w)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func setSessionCookie(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookie,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteStrictMode,
		MaxAge:   86400, // 24 hours
	})
}

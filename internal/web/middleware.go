package web

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/ykchoudhary110/Communtity-Fridge/internal/auth"
	"github.com/ykchoudhary110/Communtity-Fridge/internal/session"
)

type webContextKey string

const webIdentityKey webContextKey = "webidentity"
const webTokenKey webContextKey = "webtoken"

// sessionCookie is the browser session cookie name.
const sessionCookie = "token"

// RequireSession guards a page: it resolves the session cookie through the
// session store and redirects to the login page when no session can be
// established. The redirect is a 303, so the guarded URL never enters history
// as a rendered page. A cookie that fails to resolve is cleared so the next
// attempt starts clean.
func RequireSession(sessions *session.Store) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			cookie, err := r.Cookie(sessionCookie)
			if err != nil || cookie.Value == "" {
				http.Redirect(w, r, "/login", http.StatusSeeOther)
				return
			}

			identity, err := sessions.Resolve(r.Context(), cookie.Value)
			if err != nil {
				slog.Error("failed to resolve session", "error", err)
			}
			if identity == nil {
				clearSessionCookie(w)
				http.Redirect(w, r, "/login", http.StatusSeeOther)
				return
			}

			ctx := context.WithValue(r.Context(), webIdentityKey, identity)
			ctx = context.WithValue(ctx, webTokenKey, cookie.Value)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// WithSession resolves the session cookie when present but never redirects.
// Public pages use it to adapt what they render to the signed-in state.
func WithSession(sessions *session.Store) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			cookie, err := r.Cookie(sessionCookie)
			if err == nil && cookie.Value != "" {
				identity, err := sessions.Resolve(r.Context(), cookie.Value)
				if err != nil {
					slog.Error("failed to resolve session", "error", err)
				}
				if identity != nil {
					ctx := context.WithValue(r.Context(), webIdentityKey, identity)
					ctx = context.WithValue(ctx, webTokenKey, cookie.Value)
					r = r.WithContext(ctx)
				}
			}
			next.ServeHTTP(w, r)
		})
	}
}

// clearSessionCookie clears the session cookie with consistent attributes.
func clearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteStrictMode,
	})
}

// GetWebIdentity retrieves the authenticated identity from web context.
func GetWebIdentity(ctx context.Context) *auth.Identity {
	identity, _ := ctx.Value(webIdentityKey).(*auth.Identity)
	return identity
}

// GetWebToken retrieves the raw session token from web context.
func GetWebToken(ctx context.Context) string {
	token, _ := ctx.Value(webTokenKey).(string)
	return token
}

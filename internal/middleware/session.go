package middleware

import (
	"net/http"

	"fleetops/dashboard/internal/constants"
	reqctx "fleetops/dashboard/internal/context"
	"fleetops/dashboard/internal/services"
)

// SessionMiddleware attaches the caller's dashboard session to the request,
// starting one and setting its cookie when the cookie is missing or stale.
func SessionMiddleware(store *services.SessionStore, secure bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := ""
			if cookie, err := r.Cookie(constants.SessionCookieName); err == nil {
				id = cookie.Value
			}

			state, created := store.GetOrCreate(id)
			if created {
				http.SetCookie(w, &http.Cookie{
					Name:     constants.SessionCookieName,
					Value:    state.ID,
					Path:     "/",
					HttpOnly: true,
					Secure:   secure,
					SameSite: http.SameSiteLaxMode,
				})
			}

			next.ServeHTTP(w, r.WithContext(reqctx.SetSession(r.Context(), state)))
		})
	}
}

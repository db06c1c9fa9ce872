package middleware

import (
	"net/http"

	reqctx "fleetops/dashboard/internal/context"
)

const themeCookieName = "theme_preference"

var validThemes = map[string]bool{
	"light": true,
	"dark":  true,
}

// ThemeMiddleware injects the user's theme preference into the request context
func ThemeMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		theme := "light"
		if cookie, err := r.Cookie(themeCookieName); err == nil && validThemes[cookie.Value] {
			theme = cookie.Value
		}
		next.ServeHTTP(w, r.WithContext(reqctx.SetTheme(r.Context(), theme)))
	})
}

package context

import (
	"context"

	"fleetops/dashboard/internal/services"
)

type contextKey string

var (
	sessionKey   contextKey = "session"
	requestIDKey contextKey = "request_id"
	themeKey     contextKey = "theme"
)

func SetSession(ctx context.Context, state *services.SessionState) context.Context {
	return context.WithValue(ctx, sessionKey, state)
}

// GetSession returns the request's dashboard session, or nil outside the session middleware.
func GetSession(ctx context.Context) *services.SessionState {
	if state, ok := ctx.Value(sessionKey).(*services.SessionState); ok {
		return state
	}
	return nil
}

func SetRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey, id)
}

func GetRequestID(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey).(string)
	return id
}

func SetTheme(ctx context.Context, theme string) context.Context {
	return context.WithValue(ctx, themeKey, theme)
}

// GetTheme defaults to "light".
func GetTheme(ctx context.Context) string {
	if theme, ok := ctx.Value(themeKey).(string); ok && theme != "" {
		return theme
	}
	return "light"
}

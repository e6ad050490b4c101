package contexthelpers

import (
	"context"
	"net/http"

	"github.com/myrjola/fitroutine/internal/i18n"
)

// WithProfileID stores the profile ID on ctx. Used outside HTTP handlers, e.g. in tests and the CLI.
func WithProfileID(ctx context.Context, profileID string) context.Context {
	return context.WithValue(ctx, ProfileIDContextKey, profileID)
}

func SetProfileID(r *http.Request, profileID string) *http.Request {
	return r.WithContext(WithProfileID(r.Context(), profileID))
}

func SetCurrentPath(r *http.Request, currentPath string) *http.Request {
	ctx := r.Context()
	ctx = context.WithValue(ctx, CurrentPathContextKey, currentPath)
	return r.WithContext(ctx)
}

func SetCSPNonce(r *http.Request, cspNonce string) *http.Request {
	ctx := r.Context()
	ctx = context.WithValue(ctx, CspNonceContextKey, cspNonce)
	return r.WithContext(ctx)
}

func SetLanguage(r *http.Request, language i18n.Language) *http.Request {
	ctx := r.Context()
	ctx = context.WithValue(ctx, LanguageContextKey, language)
	return r.WithContext(ctx)
}

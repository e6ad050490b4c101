package contexthelpers

import (
	"context"

	"github.com/myrjola/fitroutine/internal/i18n"
)

// ProfileID returns the anonymous profile of the current browser session or an empty string.
func ProfileID(ctx context.Context) string {
	profileID, ok := ctx.Value(ProfileIDContextKey).(string)
	if !ok {
		return ""
	}

	return profileID
}

func CurrentPath(ctx context.Context) string {
	currentPath, ok := ctx.Value(CurrentPathContextKey).(string)
	if !ok {
		return ""
	}

	return currentPath
}

func CSPNonce(ctx context.Context) string {
	cspNonce, ok := ctx.Value(CspNonceContextKey).(string)
	if !ok {
		return ""
	}

	return cspNonce
}

// Language returns the UI language, falling back to i18n.DefaultLanguage.
func Language(ctx context.Context) i18n.Language {
	language, ok := ctx.Value(LanguageContextKey).(i18n.Language)
	if !ok {
		return i18n.DefaultLanguage
	}

	return language
}

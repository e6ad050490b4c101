package main

import (
	"net/http"
	"strings"
	"time"

	"github.com/myrjola/fitroutine/internal/i18n"
)

const (
	languageCookieName   = "language"
	languageCookieMaxAge = 365 * 24 * time.Hour
)

// isRelativePath reports whether path has no scheme or host and does not start with an ambiguous slash.
func isRelativePath(path string) bool {
	if strings.Contains(path, "://") || strings.HasPrefix(path, "//") {
		return false
	}
	return strings.HasPrefix(path, "/") && (len(path) == 1 || (path[1] != '/' && path[1] != '\\'))
}

// setLanguagePOST stores the chosen UI language in a cookie and sends the user back to the page they came from.
func (app *application) setLanguagePOST(w http.ResponseWriter, r *http.Request) {
	lang := i18n.Language(r.PostFormValue("language"))
	if !i18n.IsSupported(lang) {
		http.Error(w, "Invalid language", http.StatusBadRequest)
		return
	}

	http.SetCookie(w, &http.Cookie{ //nolint:exhaustruct // defaults are fine for the rest.
		Name:     languageCookieName,
		Value:    string(lang),
		Path:     "/",
		MaxAge:   int(languageCookieMaxAge.Seconds()),
		HttpOnly: true,
		Secure:   app.secureCookies,
		SameSite: http.SameSiteLaxMode,
	})

	// The form posts the current path. Only relative paths are followed to avoid open redirects.
	back := r.PostFormValue("redirect")
	if !isRelativePath(back) {
		back = "/"
	}
	http.Redirect(w, r, back, http.StatusSeeOther)
}

package main

import (
	"fmt"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"
)

// fileServerHandler serves ui/static. Missing files render the not found page through the session chain so the
// page is translated and carries the navigation.
func (app *application) fileServerHandler(session func(http.Handler) http.Handler) (http.Handler, error) {
	fileRoot := path.Join(".", "ui", "static")
	if _, err := os.Stat(fileRoot); os.IsNotExist(err) {
		dir, findErr := findModuleDir()
		if findErr != nil {
			return nil, fmt.Errorf("findModuleDir: %w", findErr)
		}
		fileRoot = path.Join(dir, "ui", "static")
	}
	if stat, err := os.Stat(fileRoot); err != nil || !stat.IsDir() {
		return nil, fmt.Errorf("file server root %s does not exist or is not a directory", fileRoot)
	}

	fileServer := http.FileServer(http.Dir(fileRoot))
	notFound := session(http.HandlerFunc(app.notFound))
	static := app.recoverPanic(app.logAndTraceRequest(secureHeaders(cacheForever(fileServer))))

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		cleanPath := filepath.Clean(r.URL.Path)
		if strings.Contains(cleanPath, "..") {
			notFound.ServeHTTP(w, r)
			return
		}
		stat, err := os.Stat(filepath.Join(fileRoot, cleanPath))
		if err != nil || stat.IsDir() {
			notFound.ServeHTTP(w, r)
			return
		}
		static.ServeHTTP(w, r)
	}), nil
}

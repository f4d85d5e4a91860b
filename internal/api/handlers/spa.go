package handlers

import (
	"io"
	"io/fs"
	"log/slog"
	"net/http"
	"strings"
)

// SPAHandler serves the embedded static page with index fallback. Any path
// that doesn't match a real file gets index.html.
func SPAHandler(staticFS fs.FS) http.HandlerFunc {
	fileServer := http.FileServer(http.FS(staticFS))

	return func(w http.ResponseWriter, r *http.Request) {
		path := r.URL.Path

		if strings.HasPrefix(path, "/api/") {
			http.NotFound(w, r)
			return
		}

		cleanPath := strings.TrimPrefix(path, "/")
		if cleanPath == "" {
			cleanPath = "index.html"
		}

		f, err := staticFS.Open(cleanPath)
		if err == nil {
			f.Close()
			w.Header().Set("Cache-Control", "no-cache")
			fileServer.ServeHTTP(w, r)
			return
		}

		slog.Debug("static fallback", "path", path)

		indexFile, err := staticFS.Open("index.html")
		if err != nil {
			slog.Error("failed to open index.html", "error", err)
			http.Error(w, "Internal Server Error", http.StatusInternalServerError)
			return
		}
		defer indexFile.Close()

		w.Header().Set("Cache-Control", "no-cache")
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		io.Copy(w, indexFile)
	}
}

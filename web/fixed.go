package web

import (
	"errors"
	"io/fs"
	"net/http"
	"path"
	"strings"
)

// fixed serves a single file of fsys at a fixed route, such as /favicon.ico.
func fixed(fsys fs.FS, filename string) http.HandlerFunc {
	filename = strings.TrimPrefix(path.Clean("/"+filename), "/")
	return func(w http.ResponseWriter, r *http.Request) {
		fi, err := fs.Stat(fsys, filename)
		if errors.Is(err, fs.ErrNotExist) || (err == nil && fi.IsDir()) {
			notFound(w, r)
			return
		} else if err != nil {
			serverError(w, "fixed", err)
			return
		}
		http.ServeFileFS(w, r, fsys, filename)
	}
}

package web

import (
	"bytes"
	"io"
	"log"
	"net/http"
)

// ErrorPageFunc renders the page body for a failed request.
type ErrorPageFunc func(w io.Writer, statusCode int) error

// ErrorHandler captures 404 and 500 errors and replaces the response body with the page rendered by page.
func ErrorHandler(h http.Handler, page ErrorPageFunc) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writer := &responseWriter{
			ResponseWriter: w,
			page:           page,
			head:           r.Method == http.MethodHead,
		}
		h.ServeHTTP(writer, r)
	})
}

type responseWriter struct {
	http.ResponseWriter
	page    ErrorPageFunc
	head    bool
	noWrite bool
	err     error
}

func (w *responseWriter) Write(b []byte) (int, error) {
	if w.noWrite {
		return len(b), w.err
	}
	return w.ResponseWriter.Write(b)
}

func (w *responseWriter) WriteHeader(statusCode int) {
	if statusCode == http.StatusNotFound || statusCode == http.StatusInternalServerError {
		// special processing of response
		var b bytes.Buffer
		err := w.page(&b, statusCode)
		if err == nil {
			w.Header().Set("Content-Type", "text/html; charset=utf-8")
			w.Header().Del("Content-Length")
			w.Header().Del("X-Content-Type-Options")
			w.ResponseWriter.WriteHeader(statusCode)
			w.noWrite = true
			if !w.head {
				_, w.err = w.ResponseWriter.Write(b.Bytes())
			}
			return
		}
		log.Printf("ErrorHandler: %s", err)
	}
	// normal processing
	w.ResponseWriter.WriteHeader(statusCode)
}

package server

import (
	"mime"
	"net/http"
	"net/url"
	"strings"

	appErrors "imgsel/internal/errors"
)

// sameOrigin accepts requests without an Origin header (curl, scripts) and
// browser requests whose Origin host matches the host they were sent to.
func sameOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" {
		return true
	}
	u, err := url.Parse(origin)
	if err != nil {
		return false
	}
	return strings.EqualFold(u.Host, r.Host)
}

// guardRequests keeps other web pages from driving the API: cross-origin
// requests are refused and request bodies must be declared as JSON, which a
// plain HTML form or a CORS-simple fetch cannot do.
func (s *Server) guardRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !sameOrigin(r) {
			s.logger.Warnf("Rejected cross-origin %s %s from %s", r.Method, r.URL.Path, r.Header.Get("Origin"))
			writeJSON(w, http.StatusForbidden, errorResponse{
				Error: "cross-origin requests are not allowed",
				Kind:  appErrors.PermissionDenied,
			})
			return
		}
		if r.Method == http.MethodPost {
			mediaType, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
			if err != nil || mediaType != "application/json" {
				writeJSON(w, http.StatusUnsupportedMediaType, errorResponse{
					Error: "request body must be application/json",
					Kind:  appErrors.InvalidConfig,
				})
				return
			}
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		stop := s.logger.Measure(r.Method + " " + r.URL.Path)
		defer stop()
		next.ServeHTTP(w, r)
	})
}

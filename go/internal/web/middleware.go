package web

import (
	"bufio"
	"net"
	"net/http"
	"time"

	"github.com/gorilla/csrf"
	"github.com/rs/zerolog/log"
)

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

// Hijack keeps WebSocket upgrades working behind the logger.
func (r *statusRecorder) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	r.status = http.StatusSwitchingProtocols
	return http.NewResponseController(r.ResponseWriter).Hijack()
}

func (r *statusRecorder) Unwrap() http.ResponseWriter {
	return r.ResponseWriter
}

// RequestLogger logs one line per request.
func RequestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(rec, r)

		log.Info().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", rec.status).
			Dur("took", time.Since(start)).
			Msg("request")
	})
}

// CSRF protects form posts with gorilla/csrf. Requests without TLS are
// marked plaintext so the origin checks accept http:// pages, and get a
// cookie without the Secure flag.
func CSRF(key []byte, next http.Handler) http.Handler {
	protect := func(secure bool) http.Handler {
		return csrf.Protect(key,
			csrf.Path("/"),
			csrf.FieldName("csrf_token"),
			csrf.SameSite(csrf.SameSiteLaxMode),
			csrf.Secure(secure),
		)(next)
	}
	overTLS, plaintext := protect(true), protect(false)
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.TLS != nil {
			overTLS.ServeHTTP(w, r)
			return
		}
		plaintext.ServeHTTP(w, csrf.PlaintextHTTPRequest(r))
	})
}

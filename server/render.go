package server

import (
	"bytes"
	"html/template"
	"net/http"

	"github.com/getsentry/sentry-go"
	"github.com/jrsteele09/go-portfolio-server/internal/errors"
	"github.com/rs/zerolog/log"
)

const contentTypeHTML = "text/html; charset=utf-8"

// render executes into a buffer first so a template error never leaves a half-written page
func render(w http.ResponseWriter, status int, tmpl *template.Template, data any) {
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		log.Err(err).Str("template", tmpl.Name()).Msg("failed to render template")
		sentry.CaptureException(err)
		http.Error(w, "500 - Internal Server Error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", contentTypeHTML)
	w.WriteHeader(status)
	_, _ = w.Write(buf.Bytes())
}

// writeFragment answers with a short HTML snippet in place of a failed widget
func writeFragment(w http.ResponseWriter, status int, text string) {
	w.Header().Set("Content-Type", contentTypeHTML)
	w.WriteHeader(status)
	_, _ = w.Write([]byte(template.HTMLEscapeString(text)))
}

// reportUpstreamError logs a failed upstream call. Anything other than a missing login is
// unexpected and also goes to sentry.
func reportUpstreamError(r *http.Request, err error, msg string) {
	if errors.Is(err, errors.ErrNotAuthenticated) {
		log.Warn().Err(err).Str("path", r.URL.Path).Msg(msg)
		return
	}
	log.Err(err).Str("path", r.URL.Path).Msg(msg)
	if hub := sentry.GetHubFromContext(r.Context()); hub != nil {
		hub.CaptureException(err)
		return
	}
	sentry.CaptureException(err)
}

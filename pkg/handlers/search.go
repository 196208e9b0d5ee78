// Package handlers includes HTTP handlers for the Wave front end. This file
// contains the JSON search endpoint and the thumbnail proxy, plus the mapping
// from Wave client errors to HTTP status codes.
package handlers

import (
	"errors"
	"io"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	log "github.com/sirupsen/logrus"

	"Wave-Go/pkg/wave"
)

// SearchJSON answers GET /api/search?q= with {"items": [...]}. Items are
// passed through from the Wave API so absent fields are encoded as null.
// When a DB is configured the query is recorded in the search history.
func (app *Application) SearchJSON(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query().Get("q")
	items, err := app.Wave.Search(r.Context(), q)
	if err != nil {
		log.WithError(err).WithField("query", q).Warn("wave search failed")
		respondJSONError(w, waveErrorStatus(err), err.Error())
		return
	}
	if app.DB != nil {
		if err := app.DB.AddSearch(r.Context(), q, len(items), time.Now()); err != nil {
			log.WithError(err).Error("record search history")
		}
	}
	respondJSON(w, http.StatusOK, map[string][]wave.MusicItem{"items": items})
}

// Thumbnail streams the thumbnail for the item id in the path. The upstream
// Content-Type is forwarded.
func (app *Application) Thumbnail(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	img, err := app.Wave.Thumbnail(r.Context(), wave.MusicItem{ID: &id})
	if err != nil {
		log.WithError(err).WithField("id", id).Warn("wave thumbnail failed")
		respondJSONError(w, waveErrorStatus(err), err.Error())
		return
	}
	defer img.Close()
	if img.ContentType != "" {
		w.Header().Set("Content-Type", img.ContentType)
	}
	if img.ContentLength >= 0 {
		w.Header().Set("Content-Length", strconv.FormatInt(img.ContentLength, 10))
	}
	w.Header().Set("Cache-Control", "public, max-age=86400")
	if _, err := io.Copy(w, img); err != nil {
		log.WithError(err).WithField("id", id).Debug("thumbnail copy interrupted")
	}
}

// waveErrorStatus maps a Wave client error to the status reported to our own
// clients. Upstream failures are gateway errors except for a 404, which is
// passed through.
func waveErrorStatus(err error) int {
	var (
		me *wave.MissingIDError
		se *wave.HTTPStatusError
		te *wave.TransportError
		de *wave.DecodeError
		ne net.Error
	)
	switch {
	case errors.As(err, &me):
		return http.StatusBadRequest
	case errors.As(err, &se):
		if se.Code == http.StatusNotFound {
			return http.StatusNotFound
		}
		return http.StatusBadGateway
	case errors.As(err, &te):
		if errors.As(err, &ne) && ne.Timeout() {
			return http.StatusGatewayTimeout
		}
		return http.StatusBadGateway
	case errors.As(err, &de):
		return http.StatusBadGateway
	}
	return http.StatusInternalServerError
}

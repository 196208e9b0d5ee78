// Package handlers groups HTTP handlers for the Wave front end. This file
// focuses on endpoints that manage bookmarked items and the search history
// summary.

package handlers

import (
	"database/sql"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	log "github.com/sirupsen/logrus"

	"Wave-Go/pkg/db"
	"Wave-Go/pkg/wave"
)

// requireDB writes a 503 and returns false when no database is configured.
func (app *Application) requireDB(w http.ResponseWriter) bool {
	if app.DB == nil {
		respondJSONError(w, http.StatusServiceUnavailable, "db not configured")
		return false
	}
	return true
}

// AddBookmark accepts a MusicItem as JSON, as returned by /api/search, and
// saves it. The item must carry an id.
func (app *Application) AddBookmark(w http.ResponseWriter, r *http.Request) {
	if !app.requireDB(w) {
		return
	}
	var item wave.MusicItem
	if err := decodeJSON(r, &item); err != nil {
		respondJSONError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := app.DB.AddBookmark(r.Context(), item); err != nil {
		if errors.Is(err, db.ErrNoID) {
			respondJSONError(w, http.StatusBadRequest, "id is required")
			return
		}
		log.WithError(err).Error("save bookmark")
		respondJSONError(w, http.StatusInternalServerError, "failed to save bookmark")
		return
	}
	respondJSON(w, http.StatusCreated, item)
}

// Bookmarks returns all bookmarks as {"items": [...]}, newest first.
func (app *Application) Bookmarks(w http.ResponseWriter, r *http.Request) {
	if !app.requireDB(w) {
		return
	}
	items, err := app.DB.ListBookmarks(r.Context())
	if err != nil {
		log.WithError(err).Error("list bookmarks")
		respondJSONError(w, http.StatusInternalServerError, "failed to load bookmarks")
		return
	}
	respondJSON(w, http.StatusOK, map[string][]wave.MusicItem{"items": items})
}

// DeleteBookmark removes the bookmark named in the path.
func (app *Application) DeleteBookmark(w http.ResponseWriter, r *http.Request) {
	if !app.requireDB(w) {
		return
	}
	err := app.DB.DeleteBookmark(r.Context(), chi.URLParam(r, "id"))
	switch {
	case errors.Is(err, sql.ErrNoRows):
		respondJSONError(w, http.StatusNotFound, "bookmark not found")
	case err != nil:
		log.WithError(err).Error("delete bookmark")
		respondJSONError(w, http.StatusInternalServerError, "failed to delete bookmark")
	default:
		w.WriteHeader(http.StatusNoContent)
	}
}

// HistoryJSON returns the most searched queries. The period defaults to seven
// days and can be changed with the days query parameter.
func (app *Application) HistoryJSON(w http.ResponseWriter, r *http.Request) {
	if !app.requireDB(w) {
		return
	}
	days := 7
	if v := r.URL.Query().Get("days"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			respondJSONError(w, http.StatusBadRequest, "days must be a positive integer")
			return
		}
		days = n
	}
	res, err := app.DB.TopQueriesSince(r.Context(), time.Now().AddDate(0, 0, -days))
	if err != nil {
		log.WithError(err).Error("load search history")
		respondJSONError(w, http.StatusInternalServerError, "failed to load history")
		return
	}
	respondJSON(w, http.StatusOK, res)
}

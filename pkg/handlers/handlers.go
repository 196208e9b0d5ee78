// Package handlers contains the HTTP handlers of the Wave web front end. The
// JSON API exposes Wave search results unchanged, so absent fields stay null,
// while the HTML pages render the provider-neutral music.Track model.

package handlers

import (
	"context"
	"errors"
	"fmt"
	"html/template"
	"net/http"
	"strings"

	log "github.com/sirupsen/logrus"

	"Wave-Go/pkg/db"
	"Wave-Go/pkg/music"
	"Wave-Go/pkg/wave"
)

// WaveAPI is the subset of wave.Client used by the JSON handlers. It allows
// the client to be replaced in tests.
type WaveAPI interface {
	Search(ctx context.Context, query string) ([]wave.MusicItem, error)
	Thumbnail(ctx context.Context, item wave.MusicItem) (*wave.Image, error)
}

// Application bundles the dependencies used by the handlers. DB may be nil,
// in which case history is not recorded and bookmark endpoints answer 503.
type Application struct {
	Wave  WaveAPI
	Music music.Service
	DB    *db.DB
}

var homePage = template.Must(template.New("home").Parse(`<!DOCTYPE html>
<title>Wave</title>
<h1>Wave music search</h1>
<form action="/search" method="get">
	<input type="text" name="q" placeholder="Search for a song" value="{{.}}">
	<button type="submit">Search</button>
</form>
`))

var resultsPage = template.Must(template.New("results").Funcs(template.FuncMap{
	"artist":   music.ArtistName,
	"duration": formatDuration,
}).Parse(`<!DOCTYPE html>
<title>Wave - {{.Query}}</title>
<h1>Search Results</h1>
{{if not .Tracks}}<p>No tracks found for '{{.Query}}'</p>{{end}}
<ul>
{{range .Tracks}}	<li>
		{{if .ID}}<img src="/api/thumbnail/{{.ID}}" alt="" width="60">{{end}}
		<strong>{{.Name}}</strong> from {{artist .}}
		{{if .Duration}}({{duration .Duration}}){{end}}
		{{with .ExternalURLs.youtube}}<a href="{{.}}">Listen</a>{{end}}
	</li>
{{end}}</ul>
`))

// Home renders the search form.
func (app *Application) Home(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := homePage.Execute(w, ""); err != nil {
		log.WithError(err).Error("render home")
	}
}

// Search renders an HTML page with results for the q query parameter. An
// empty result set is not an error and renders a short notice instead.
func (app *Application) Search(w http.ResponseWriter, r *http.Request) {
	q := strings.TrimSpace(r.URL.Query().Get("q"))
	if q == "" {
		http.Redirect(w, r, "/", http.StatusFound)
		return
	}
	tracks, err := app.Music.SearchTrack(r.Context(), q)
	if err != nil && !errors.Is(err, music.ErrNoTracks) {
		log.WithError(err).WithField("query", q).Error("search failed")
		http.Error(w, "An error occurred while searching for tracks", waveErrorStatus(err))
		return
	}
	data := struct {
		Query  string
		Tracks []music.Track
	}{q, tracks}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := resultsPage.Execute(w, data); err != nil {
		log.WithError(err).Error("render search results")
	}
}

// Healthz reports that the process is serving requests.
func (app *Application) Healthz(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// formatDuration renders milliseconds as m:ss.
func formatDuration(ms int) string {
	s := ms / 1000
	return fmt.Sprintf("%d:%02d", s/60, s%60)
}

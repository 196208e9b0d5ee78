package handlers_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	libspotify "github.com/zmb3/spotify"

	"Wave-Go/pkg/db"
	"Wave-Go/pkg/handlers"
	"Wave-Go/pkg/music"
	"Wave-Go/pkg/wave"
)

// fakeWave implements handlers.WaveAPI with canned results.
type fakeWave struct {
	items      []wave.MusicItem
	err        error
	image      string
	thumbCalls []string
}

func (f *fakeWave) Search(context.Context, string) ([]wave.MusicItem, error) {
	return f.items, f.err
}

func (f *fakeWave) Thumbnail(_ context.Context, item wave.MusicItem) (*wave.Image, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.thumbCalls = append(f.thumbCalls, *item.ID)
	return &wave.Image{
		ReadCloser:    io.NopCloser(strings.NewReader(f.image)),
		ContentType:   "image/jpeg",
		ContentLength: int64(len(f.image)),
	}, nil
}

// fakeMusic implements music.Service.
type fakeMusic struct {
	tracks []music.Track
	err    error
}

func (f fakeMusic) SearchTrack(context.Context, string) ([]music.Track, error) {
	return f.tracks, f.err
}

func newServer(t *testing.T, app *handlers.Application) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(app.Routes(nil))
	t.Cleanup(srv.Close)
	return srv
}

func newDB(t *testing.T) *db.DB {
	t.Helper()
	d, err := db.New(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { d.Close() })
	return d
}

func TestHomeHandler(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rr := httptest.NewRecorder()
	app := &handlers.Application{}
	app.Home(rr, req)
	assert.Contains(t, rr.Body.String(), "<form")
}

// TestSearchPage renders tracks from the music service.
func TestSearchPage(t *testing.T) {
	track := music.Track{SimpleTrack: libspotify.SimpleTrack{
		ID:       "abc",
		Name:     "Song",
		Artists:  []libspotify.SimpleArtist{{Name: "Artist"}},
		Duration: 185000,
	}}
	srv := newServer(t, &handlers.Application{Music: fakeMusic{tracks: []music.Track{track}}})
	resp, err := http.Get(srv.URL + "/search?q=song")
	require.NoError(t, err)
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), "Search Results")
	assert.Contains(t, string(body), "Song</strong> from Artist")
	assert.Contains(t, string(body), "3:05")
	assert.Contains(t, string(body), "/api/thumbnail/abc")
	assert.Equal(t, "default-src 'self'", resp.Header.Get("Content-Security-Policy"))
}

// TestSearchPageNoTracks shows a notice instead of failing.
func TestSearchPageNoTracks(t *testing.T) {
	srv := newServer(t, &handlers.Application{Music: fakeMusic{err: music.ErrNoTracks}})
	resp, err := http.Get(srv.URL + "/search?q=nothing")
	require.NoError(t, err)
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), "No tracks found for 'nothing'")
}

// TestSearchJSONPreservesNulls checks absent fields are encoded as null.
func TestSearchJSONPreservesNulls(t *testing.T) {
	fw := &fakeWave{items: []wave.MusicItem{{Title: wave.String("A"), Duration: wave.Uint32(180), ID: wave.String("xyz")}}}
	d := newDB(t)
	srv := newServer(t, &handlers.Application{Wave: fw, DB: d})

	resp, err := http.Get(srv.URL + "/api/search?q=a")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body struct {
		Items []map[string]any `json:"items"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	require.Len(t, body.Items, 1)
	item := body.Items[0]
	assert.Equal(t, "A", item["title"])
	assert.Equal(t, float64(180), item["duration"])
	assert.Contains(t, item, "uploaderName")
	assert.Nil(t, item["uploaderName"])

	top, err := d.TopQueriesSince(context.Background(), time.Time{})
	require.NoError(t, err)
	assert.Equal(t, []db.QueryCount{{Query: "a", Count: 1}}, top)
}

// TestSearchJSONEmpty returns an empty array rather than null.
func TestSearchJSONEmpty(t *testing.T) {
	srv := newServer(t, &handlers.Application{Wave: &fakeWave{items: []wave.MusicItem{}}})
	resp, err := http.Get(srv.URL + "/api/search?q=a")
	require.NoError(t, err)
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)
	assert.JSONEq(t, `{"items":[]}`, string(body))
}

// timeoutErr satisfies net.Error.
type timeoutErr struct{}

func (timeoutErr) Error() string   { return "i/o timeout" }
func (timeoutErr) Timeout() bool   { return true }
func (timeoutErr) Temporary() bool { return true }

// TestErrorMapping verifies each Wave error maps to its HTTP status.
func TestErrorMapping(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"upstream 404", &wave.HTTPStatusError{Code: 404}, http.StatusNotFound},
		{"upstream 500", &wave.HTTPStatusError{Code: 500}, http.StatusBadGateway},
		{"decode", &wave.DecodeError{Diagnostic: "bad"}, http.StatusBadGateway},
		{"transport", &wave.TransportError{Err: errors.New("refused")}, http.StatusBadGateway},
		{"timeout", &wave.TransportError{Err: &url.Error{Op: "Get", URL: "x", Err: timeoutErr{}}}, http.StatusGatewayTimeout},
		{"missing id", &wave.MissingIDError{}, http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := newServer(t, &handlers.Application{Wave: &fakeWave{err: tt.err}})
			for _, path := range []string{"/api/search?q=x", "/api/thumbnail/abc"} {
				resp, err := http.Get(srv.URL + path)
				require.NoError(t, err)
				var body map[string]string
				json.NewDecoder(resp.Body).Decode(&body)
				resp.Body.Close()
				assert.Equal(t, tt.want, resp.StatusCode, path)
				assert.NotEmpty(t, body["error"], path)
			}
		})
	}
}

// TestThumbnailProxy streams the image with its content type.
func TestThumbnailProxy(t *testing.T) {
	fw := &fakeWave{image: "jpegdata"}
	srv := newServer(t, &handlers.Application{Wave: fw})
	resp, err := http.Get(srv.URL + "/api/thumbnail/xyz")
	require.NoError(t, err)
	defer resp.Body.Close()
	data, _ := io.ReadAll(resp.Body)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "jpegdata", string(data))
	assert.Equal(t, "image/jpeg", resp.Header.Get("Content-Type"))
	assert.Equal(t, []string{"xyz"}, fw.thumbCalls)
}

// TestBookmarksFlow adds, lists and deletes a bookmark.
func TestBookmarksFlow(t *testing.T) {
	srv := newServer(t, &handlers.Application{DB: newDB(t)})

	body := `{"title":"Song","uploaderName":null,"uploaderUrl":null,"duration":120,"id":"abc"}`
	resp, err := http.Post(srv.URL+"/api/bookmarks", "application/json", strings.NewReader(body))
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp, err = http.Get(srv.URL + "/api/bookmarks")
	require.NoError(t, err)
	got, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	assert.JSONEq(t, `{"items":[`+body+`]}`, string(got))

	req, _ := http.NewRequest(http.MethodDelete, srv.URL+"/api/bookmarks/abc", nil)
	resp, err = http.DefaultClient.Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp, err = http.DefaultClient.Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

// TestAddBookmarkValidation rejects bodies without an id or with unknown keys.
func TestAddBookmarkValidation(t *testing.T) {
	srv := newServer(t, &handlers.Application{DB: newDB(t)})
	for _, body := range []string{`{"title":"x"}`, `{"id":"a","extra":1}`, ``} {
		resp, err := http.Post(srv.URL+"/api/bookmarks", "application/json", strings.NewReader(body))
		require.NoError(t, err)
		resp.Body.Close()
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode, body)
	}
}

// TestNoDatabase answers 503 on endpoints that need storage.
func TestNoDatabase(t *testing.T) {
	srv := newServer(t, &handlers.Application{})
	for _, path := range []string{"/api/bookmarks", "/api/history"} {
		resp, err := http.Get(srv.URL + path)
		require.NoError(t, err)
		resp.Body.Close()
		assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode, path)
	}
}

// TestHistory validates the days parameter.
func TestHistory(t *testing.T) {
	d := newDB(t)
	require.NoError(t, d.AddSearch(context.Background(), "rock", 2, time.Now()))
	srv := newServer(t, &handlers.Application{DB: d})

	resp, err := http.Get(srv.URL + "/api/history?days=1")
	require.NoError(t, err)
	got, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	assert.JSONEq(t, `[{"query":"rock","count":1}]`, string(got))

	resp, err = http.Get(srv.URL + "/api/history?days=zero")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

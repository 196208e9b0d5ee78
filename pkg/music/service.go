// Package music defines the provider-neutral track model used by the web
// front end. Providers such as the Wave client adapt their own results to
// Track so pages and JSON views do not depend on one API's schema.
//
// Track is an alias of spotify.FullTrack so templates operate on familiar
// fields (Name, Album, Artists etc). Providers fill in what they have and
// leave the rest at the zero value.
package music

import (
	"context"
	"errors"

	libspotify "github.com/zmb3/spotify"
)

// Track represents a track returned by a music service.
type Track = libspotify.FullTrack

// ErrNoTracks is returned by SearchTrack when the provider found nothing.
var ErrNoTracks = errors.New("no tracks found")

// Service exposes searching. The context is used for request cancellation
// and timeout propagation.
type Service interface {
	// SearchTrack returns tracks matching the query string. ErrNoTracks is
	// returned when the provider answered successfully with no results.
	SearchTrack(ctx context.Context, query string) ([]Track, error)
}

// ArtistName returns the name of the first artist of t, or "" when the
// provider did not report one.
func ArtistName(t Track) string {
	if len(t.Artists) == 0 {
		return ""
	}
	return t.Artists[0].Name
}

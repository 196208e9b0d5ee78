package wave

import (
	"context"

	libspotify "github.com/zmb3/spotify"

	"Wave-Go/pkg/music"
)

// Service adapts a Client to the music.Service interface.
type Service struct {
	Client *Client
}

// ensure Service implements the music.Service interface.
var _ music.Service = Service{}

// SearchTrack runs Search and converts the items into music.Track values.
// Absent fields become zero values; callers needing to tell absence apart
// should use Client.Search directly.
func (s Service) SearchTrack(ctx context.Context, q string) ([]music.Track, error) {
	c := s.Client
	if c == nil {
		c = &Client{}
	}
	items, err := c.Search(ctx, q)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, music.ErrNoTracks
	}
	tracks := make([]music.Track, len(items))
	for i, item := range items {
		tracks[i] = toTrack(c, item)
	}
	return tracks, nil
}

func toTrack(c *Client, item MusicItem) music.Track {
	artist := libspotify.SimpleArtist{Name: deref(item.UploaderName)}
	if u, ok := item.UploaderURLValue(); ok {
		artist.ExternalURLs = map[string]string{"wave": u}
	}
	t := libspotify.FullTrack{
		SimpleTrack: libspotify.SimpleTrack{
			Name:    deref(item.Title),
			Artists: []libspotify.SimpleArtist{artist},
		},
	}
	if d, ok := item.DurationValue(); ok {
		t.Duration = int(d) * 1000
	}
	if id, ok := item.IDValue(); ok {
		t.ID = libspotify.ID(id)
		t.ExternalURLs = map[string]string{"youtube": "https://music.youtube.com/watch?v=" + id}
		t.Album.Images = []libspotify.Image{{URL: c.ThumbnailURL(id)}}
	}
	return t
}

// Package wave is a client for the Wave API (https://wireway.ch), a music
// search service backed by YouTube Music. It supports the two endpoints the
// API offers: searching by free text and downloading an item's thumbnail.
//
// Both calls are synchronous and independent. A Client holds no mutable state
// so one value may be shared between goroutines as long as its http.Client is
// safe for concurrent use, which the standard one is.
//
// Every error returned by a Client implements Error and is one of
// *TransportError, *HTTPStatusError, *DecodeError or *MissingIDError.
package wave

import (
	"context"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"
)

// DefaultBaseURL is the root of the public Wave API.
const DefaultBaseURL = "https://api.wireway.ch/wave"

const (
	endpointSearch    = "search"
	endpointThumbnail = "thumbnail"
)

// defaultHTTP is shared by clients that do not supply their own http.Client.
var defaultHTTP = &http.Client{Timeout: 10 * time.Second}

// Client talks to the Wave API. The zero value is ready for use: BaseURL
// defaults to DefaultBaseURL, HTTP to a client with a 10 second timeout and
// Logger to the logrus standard logger. Metrics may be nil.
type Client struct {
	BaseURL string
	HTTP    *http.Client
	Logger  log.FieldLogger
	Metrics *Metrics
}

// Search queries the search endpoint and returns the items in the order the
// API sent them. An empty result is an empty slice, not an error. The query
// is sent as-is apart from percent-encoding.
func (c *Client) Search(ctx context.Context, query string) ([]MusicItem, error) {
	start := time.Now()
	items, err := c.search(ctx, query)
	c.Metrics.observe(endpointSearch, start, err)
	return items, err
}

func (c *Client) search(ctx context.Context, query string) ([]MusicItem, error) {
	u := c.SearchURL(query)
	resp, err := c.get(ctx, endpointSearch, u)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &TransportError{Op: endpointSearch, URL: u, Err: err}
	}
	items, err := decodeSearch(data)
	if err != nil {
		c.logger().WithError(err).WithField("url", u).Warn("failed to parse wave search response")
		return nil, err
	}
	return items, nil
}

// Image is a thumbnail body. The caller must Close it.
type Image struct {
	io.ReadCloser
	// ContentType is the media type reported by the server, if any.
	ContentType string
	// ContentLength is -1 when unknown.
	ContentLength int64
}

// Thumbnail downloads the thumbnail of item. It fails with *MissingIDError,
// without touching the network, when the item has no id.
func (c *Client) Thumbnail(ctx context.Context, item MusicItem) (*Image, error) {
	start := time.Now()
	img, err := c.thumbnail(ctx, item)
	c.Metrics.observe(endpointThumbnail, start, err)
	return img, err
}

func (c *Client) thumbnail(ctx context.Context, item MusicItem) (*Image, error) {
	id, ok := item.IDValue()
	if !ok {
		return nil, &MissingIDError{}
	}
	resp, err := c.get(ctx, endpointThumbnail, c.ThumbnailURL(id))
	if err != nil {
		return nil, err
	}
	return &Image{
		ReadCloser:    resp.Body,
		ContentType:   resp.Header.Get("Content-Type"),
		ContentLength: resp.ContentLength,
	}, nil
}

// SearchURL returns the search endpoint URL for query.
func (c *Client) SearchURL(query string) string {
	return c.base() + "/ytmusicsearch?" + url.Values{"q": {query}}.Encode()
}

// ThumbnailURL returns the thumbnail endpoint URL for the item id.
func (c *Client) ThumbnailURL(id string) string {
	return c.base() + "/thumbnail/" + url.PathEscape(id)
}

// get issues a GET request and returns the response only when the status is
// in the 2xx range. Other responses are drained, closed and reported as
// *HTTPStatusError.
func (c *Client) get(ctx context.Context, op, u string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, &TransportError{Op: op, URL: u, Err: err}
	}
	logger := c.logger().WithFields(log.Fields{"op": op, "url": u})
	logger.Debug("wave request")

	resp, err := c.httpClient().Do(req)
	if err != nil {
		return nil, &TransportError{Op: op, URL: u, Err: err}
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		io.Copy(io.Discard, io.LimitReader(resp.Body, 4<<10))
		resp.Body.Close()
		logger.WithField("status", resp.StatusCode).Debug("wave request failed")
		return nil, &HTTPStatusError{Op: op, URL: u, Code: resp.StatusCode, Status: resp.Status}
	}
	return resp, nil
}

func (c *Client) base() string {
	if c.BaseURL == "" {
		return DefaultBaseURL
	}
	return strings.TrimRight(c.BaseURL, "/")
}

func (c *Client) httpClient() *http.Client {
	if c.HTTP == nil {
		return defaultHTTP
	}
	return c.HTTP
}

func (c *Client) logger() log.FieldLogger {
	if c.Logger == nil {
		return log.StandardLogger()
	}
	return c.Logger
}

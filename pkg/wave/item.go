package wave

import (
	"encoding/json"
	"errors"
)

// MusicItem is a single search result. Every field is optional and nil means
// the API sent null or omitted the key.
type MusicItem struct {
	Title        *string `json:"title"`
	UploaderName *string `json:"uploaderName"`
	UploaderURL  *string `json:"uploaderUrl"`
	// Duration is the length in seconds.
	Duration *uint32 `json:"duration"`
	ID       *string `json:"id"`
}

// String renders the item as "<title> from <uploader>", using empty text for
// absent fields.
func (m MusicItem) String() string {
	return deref(m.Title) + " from " + deref(m.UploaderName)
}

// TitleValue returns the title and whether it was present.
func (m MusicItem) TitleValue() (string, bool) { return value(m.Title) }

// UploaderNameValue returns the uploader name and whether it was present.
func (m MusicItem) UploaderNameValue() (string, bool) { return value(m.UploaderName) }

// UploaderURLValue returns the uploader URL and whether it was present.
func (m MusicItem) UploaderURLValue() (string, bool) { return value(m.UploaderURL) }

// DurationValue returns the duration in seconds and whether it was present.
func (m MusicItem) DurationValue() (uint32, bool) {
	if m.Duration == nil {
		return 0, false
	}
	return *m.Duration, true
}

// IDValue returns the id and whether it is usable for a thumbnail request.
// An empty id counts as absent.
func (m MusicItem) IDValue() (string, bool) {
	if m.ID == nil || *m.ID == "" {
		return "", false
	}
	return *m.ID, true
}

// String and Uint32 return pointers to copies of v. They are convenient when
// building items by hand.
func String(v string) *string { return &v }

func Uint32(v uint32) *uint32 { return &v }

func deref(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}

func value(p *string) (string, bool) {
	if p == nil {
		return "", false
	}
	return *p, true
}

// searchResponse mirrors the search endpoint body. Items is a pointer so a
// missing key can be told apart from an empty list.
type searchResponse struct {
	Items *[]MusicItem `json:"items"`
}

var errMissingItems = errors.New(`missing "items" array`)

// decodeSearch parses a search body into items. An empty array yields an
// empty, non-nil slice.
func decodeSearch(data []byte) ([]MusicItem, error) {
	var body searchResponse
	if err := json.Unmarshal(data, &body); err != nil {
		return nil, &DecodeError{Diagnostic: "invalid search response", Err: err}
	}
	if body.Items == nil {
		return nil, &DecodeError{Diagnostic: "unexpected search response shape", Err: errMissingItems}
	}
	items := *body.Items
	if items == nil {
		items = []MusicItem{}
	}
	return items, nil
}

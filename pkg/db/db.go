// Package db provides the persistence layer used by the web front end. It
// wraps a SQLite database and exposes helper methods for bookmarked Wave items
// and search history. Callers are expected to open a single DB instance using
// New and reuse it for all operations.
//
// Nullable columns mirror the optional fields of wave.MusicItem so an item
// read back has exactly the fields it was saved with.

package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"Wave-Go/pkg/wave"
)

// ErrNoID is returned when saving an item that has no usable id.
var ErrNoID = errors.New("item has no id")

// DB wraps a sql.DB connection and exposes helper methods for the
// application's persistence layer.
type DB struct {
	*sql.DB
}

// New opens the SQLite database located at path. If the file does not
// exist it is created along with the required schema.
func New(path string) (*DB, error) {
	d, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}
	// An in-memory database exists per connection.
	if path == ":memory:" {
		d.SetMaxOpenConns(1)
	}
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS bookmarks (item_id TEXT PRIMARY KEY, title TEXT, uploader_name TEXT, uploader_url TEXT, duration INTEGER, saved_at TIMESTAMP NOT NULL)`,
		`CREATE TABLE IF NOT EXISTS searches (id INTEGER PRIMARY KEY AUTOINCREMENT, query TEXT NOT NULL, results INTEGER NOT NULL, searched_at TIMESTAMP NOT NULL)`,
		`CREATE INDEX IF NOT EXISTS idx_searches_at ON searches(searched_at)`,
	}
	// Errors here likely mean the database file is not writable.
	for _, s := range stmts {
		if _, err := d.Exec(s); err != nil {
			d.Close()
			return nil, fmt.Errorf("init db: %w", err)
		}
	}
	return &DB{d}, nil
}

// AddBookmark saves item, replacing any earlier bookmark with the same id.
// Items without an id cannot be bookmarked and yield ErrNoID.
func (db *DB) AddBookmark(ctx context.Context, item wave.MusicItem) error {
	id, ok := item.IDValue()
	if !ok {
		return ErrNoID
	}
	var duration sql.NullInt64
	if d, ok := item.DurationValue(); ok {
		duration = sql.NullInt64{Int64: int64(d), Valid: true}
	}
	_, err := db.ExecContext(ctx, `INSERT INTO bookmarks(item_id, title, uploader_name, uploader_url, duration, saved_at) VALUES(?,?,?,?,?,?)
		ON CONFLICT(item_id) DO UPDATE SET title=excluded.title, uploader_name=excluded.uploader_name, uploader_url=excluded.uploader_url, duration=excluded.duration, saved_at=excluded.saved_at`,
		id, nullString(item.Title), nullString(item.UploaderName), nullString(item.UploaderURL), duration, time.Now().UTC())
	return err
}

// DeleteBookmark removes the bookmark with the given item id. sql.ErrNoRows
// is returned when no such bookmark exists which allows callers to respond
// with a 404.
func (db *DB) DeleteBookmark(ctx context.Context, id string) error {
	res, err := db.ExecContext(ctx, `DELETE FROM bookmarks WHERE item_id=?`, id)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// ListBookmarks returns all bookmarks, most recently saved first.
func (db *DB) ListBookmarks(ctx context.Context) ([]wave.MusicItem, error) {
	rows, err := db.QueryContext(ctx, `SELECT item_id, title, uploader_name, uploader_url, duration FROM bookmarks ORDER BY saved_at DESC, rowid DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := []wave.MusicItem{}
	for rows.Next() {
		var (
			id                         string
			title, uploader, uploadURL sql.NullString
			duration                   sql.NullInt64
		)
		if err := rows.Scan(&id, &title, &uploader, &uploadURL, &duration); err != nil {
			return nil, err
		}
		item := wave.MusicItem{
			ID:           wave.String(id),
			Title:        stringPtr(title),
			UploaderName: stringPtr(uploader),
			UploaderURL:  stringPtr(uploadURL),
		}
		if duration.Valid {
			item.Duration = wave.Uint32(uint32(duration.Int64))
		}
		items = append(items, item)
	}
	// rows.Err returns the first error encountered while iterating.
	return items, rows.Err()
}

// AddSearch records a search for query that returned results items.
func (db *DB) AddSearch(ctx context.Context, query string, results int, at time.Time) error {
	_, err := db.ExecContext(ctx, `INSERT INTO searches(query, results, searched_at) VALUES(?,?,?)`, query, results, at.UTC())
	return err
}

// QueryCount represents how many times a query was searched.
type QueryCount struct {
	Query string `json:"query"`
	Count int    `json:"count"`
}

// TopQueriesSince returns the most frequent queries since the provided time,
// most frequent first. Ties are ordered alphabetically.
func (db *DB) TopQueriesSince(ctx context.Context, since time.Time) ([]QueryCount, error) {
	rows, err := db.QueryContext(ctx, `SELECT query, COUNT(*) c FROM searches WHERE searched_at>=? GROUP BY query ORDER BY c DESC, query`, since.UTC())
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	res := []QueryCount{}
	for rows.Next() {
		var qc QueryCount
		if err := rows.Scan(&qc.Query, &qc.Count); err != nil {
			return nil, err
		}
		res = append(res, qc)
	}
	return res, rows.Err()
}

func nullString(p *string) sql.NullString {
	if p == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *p, Valid: true}
}

func stringPtr(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	return wave.String(ns.String)
}

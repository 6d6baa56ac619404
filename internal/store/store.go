package store

import (
	"context"
	"encoding/json"
	"errors"
)

var (
	ErrNotFound = errors.New("not found")
	ErrConflict = errors.New("document conflict")
)

// Named views the application depends on. These are precomputed indexes on
// the store side; callers query them by key and direction, nothing more.
const (
	ViewPostsAll    = "posts_all"
	ViewPostsByID   = "posts_by_id"
	ViewUsersByID   = "users_by_id"
	ViewPostsByUser = "posts_by_user"
)

// ViewOpts selects rows from a view. An empty Key means no filter; an
// exact-match filter otherwise.
type ViewOpts struct {
	Descending bool
	Key        string
}

// Row is one entry of a view result: the document id, the view key it was
// indexed under, and the document body.
type Row struct {
	ID    string
	Key   string
	Value json.RawMessage
}

// Store is the document-store port. View never reports an empty result as
// an error. Save with an empty key lets the store assign the identifier.
type Store interface {
	View(ctx context.Context, view string, opts ViewOpts) ([]Row, error)
	Save(ctx context.Context, key string, doc any) (string, error)
	Close() error
}

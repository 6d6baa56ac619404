package sqlite

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"

	"github.com/microblog-net/microblog/internal/model"
	"github.com/microblog-net/microblog/internal/store"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	path := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	st, err := Open(path)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	return st
}

func savePost(t *testing.T, st *Store, user, text, date string) string {
	t.Helper()
	id, err := st.Save(context.Background(), "", model.Post{
		Type:        model.TypePost,
		Text:        text,
		User:        user,
		DateCreated: date,
	})
	if err != nil {
		t.Fatalf("save post: %v", err)
	}
	return id
}

func TestSaveAssignsID(t *testing.T) {
	st := newTestStore(t)
	defer st.Close()

	id := savePost(t, st, "alice", "hello", "2026-08-28 09:00:00")
	if id == "" {
		t.Fatalf("expected store-assigned id")
	}

	rows, err := st.View(context.Background(), store.ViewPostsByID, store.ViewOpts{Key: id, Descending: true})
	if err != nil {
		t.Fatalf("view: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("expected 1 row, got %d", len(rows))
	}
	var post model.Post
	if err := json.Unmarshal(rows[0].Value, &post); err != nil {
		t.Fatalf("decode row: %v", err)
	}
	if post.Text != "hello" || post.User != "alice" {
		t.Fatalf("unexpected post: %+v", post)
	}
}

func TestSaveKeyConflict(t *testing.T) {
	st := newTestStore(t)
	defer st.Close()

	user := model.User{Type: model.TypeUser, Password: "x", DateCreated: "2026-08-28"}
	if _, err := st.Save(context.Background(), "alice", user); err != nil {
		t.Fatalf("save user: %v", err)
	}
	if _, err := st.Save(context.Background(), "alice", user); err != store.ErrConflict {
		t.Fatalf("expected ErrConflict, got %v", err)
	}
}

func TestPostsAllDescending(t *testing.T) {
	st := newTestStore(t)
	defer st.Close()

	savePost(t, st, "alice", "first", "2026-08-28 09:00:00")
	savePost(t, st, "bob", "second", "2026-08-28 10:00:00")
	savePost(t, st, "alice", "third", "2026-08-28 11:00:00")

	rows, err := st.View(context.Background(), store.ViewPostsAll, store.ViewOpts{Descending: true})
	if err != nil {
		t.Fatalf("view: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("expected 3 rows, got %d", len(rows))
	}
	var first model.Post
	if err := json.Unmarshal(rows[0].Value, &first); err != nil {
		t.Fatalf("decode row: %v", err)
	}
	if first.Text != "third" {
		t.Fatalf("expected newest post first, got %q", first.Text)
	}
	if rows[0].Key != "2026-08-28 11:00:00" {
		t.Fatalf("unexpected view key: %q", rows[0].Key)
	}
}

func TestPostsByUserFilters(t *testing.T) {
	st := newTestStore(t)
	defer st.Close()

	savePost(t, st, "alice", "mine", "2026-08-28 09:00:00")
	savePost(t, st, "bob", "not mine", "2026-08-28 10:00:00")

	rows, err := st.View(context.Background(), store.ViewPostsByUser, store.ViewOpts{Key: "alice", Descending: true})
	if err != nil {
		t.Fatalf("view: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("expected 1 row, got %d", len(rows))
	}
	if rows[0].Key != "alice" {
		t.Fatalf("unexpected view key: %q", rows[0].Key)
	}
}

func TestUsersViewIgnoresPosts(t *testing.T) {
	st := newTestStore(t)
	defer st.Close()

	savePost(t, st, "alice", "hello", "2026-08-28 09:00:00")
	if _, err := st.Save(context.Background(), "alice", model.User{Type: model.TypeUser, Password: "x", DateCreated: "2026-08-28"}); err != nil {
		t.Fatalf("save user: %v", err)
	}

	rows, err := st.View(context.Background(), store.ViewUsersByID, store.ViewOpts{})
	if err != nil {
		t.Fatalf("view: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("expected 1 user row, got %d", len(rows))
	}
	if rows[0].ID != "alice" {
		t.Fatalf("unexpected user id: %q", rows[0].ID)
	}
}

func TestViewEmptyResult(t *testing.T) {
	st := newTestStore(t)
	defer st.Close()

	rows, err := st.View(context.Background(), store.ViewPostsByID, store.ViewOpts{Key: "no-such-id", Descending: true})
	if err != nil {
		t.Fatalf("view: %v", err)
	}
	if len(rows) != 0 {
		t.Fatalf("expected empty result, got %d rows", len(rows))
	}
}

func TestUnknownView(t *testing.T) {
	st := newTestStore(t)
	defer st.Close()

	if _, err := st.View(context.Background(), "posts_by_tag", store.ViewOpts{}); err == nil {
		t.Fatalf("expected error for unknown view")
	}
}

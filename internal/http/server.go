package httpapp

import (
	"encoding/json"
	"errors"
	"html/template"
	"net/http"
	"strings"

	"github.com/microblog-net/microblog/internal/auth"
	"github.com/microblog-net/microblog/internal/config"
	"github.com/microblog-net/microblog/internal/datefmt"
	"github.com/microblog-net/microblog/internal/model"
	"github.com/microblog-net/microblog/internal/store"

	"golang.org/x/crypto/bcrypt"
)

type Server struct {
	store     store.Store
	auth      *auth.Service
	dates     *datefmt.Formatter
	cfg       config.Config
	templates *Templates
}

func NewServer(st store.Store, authSvc *auth.Service, dates *datefmt.Formatter, cfg config.Config) (*Server, error) {
	tmpl, err := loadTemplates()
	if err != nil {
		return nil, err
	}
	return &Server{store: st, auth: authSvc, dates: dates, cfg: cfg, templates: tmpl}, nil
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	path := r.URL.Path

	if path == "/" {
		if r.Method != http.MethodGet {
			methodNotAllowed(w)
			return
		}
		s.handleHome(w, r)
		return
	}
	if path == "/messages/" {
		if r.Method != http.MethodPost {
			methodNotAllowed(w)
			return
		}
		s.handleCreateMessage(w, r)
		return
	}
	if strings.HasPrefix(path, "/messages/") {
		if r.Method != http.MethodGet {
			methodNotAllowed(w)
			return
		}
		s.handleMessage(w, r, strings.TrimPrefix(path, "/messages/"))
		return
	}
	if path == "/users/" {
		switch r.Method {
		case http.MethodGet:
			s.handleUsers(w, r)
		case http.MethodPost:
			s.handleCreateUser(w, r)
		default:
			methodNotAllowed(w)
		}
		return
	}
	if strings.HasPrefix(path, "/users/") {
		if r.Method != http.MethodGet {
			methodNotAllowed(w)
			return
		}
		s.handleUser(w, r, strings.TrimPrefix(path, "/users/"))
		return
	}
	if strings.HasPrefix(path, "/user-messages/") {
		if r.Method != http.MethodGet {
			methodNotAllowed(w)
			return
		}
		s.handleUserMessages(w, r, strings.TrimPrefix(path, "/user-messages/"))
		return
	}
	if path == "/register/" || path == "/register" {
		if r.Method != http.MethodGet {
			methodNotAllowed(w)
			return
		}
		s.handleRegister(w, r)
		return
	}

	notFound(w)
}

func (s *Server) handleHome(w http.ResponseWriter, r *http.Request) {
	rows, err := s.store.View(r.Context(), store.ViewPostsAll, store.ViewOpts{Descending: true})
	if err != nil {
		internalError(w)
		return
	}
	items, err := decodePosts(rows)
	if err != nil {
		internalError(w)
		return
	}
	s.render(w, r, s.templates.Index, "Home", items)
}

func (s *Server) handleMessage(w http.ResponseWriter, r *http.Request, id string) {
	rows, err := s.store.View(r.Context(), store.ViewPostsByID, store.ViewOpts{Descending: true, Key: id})
	if err != nil {
		internalError(w)
		return
	}
	// The original renders an empty item view for an unknown id; strict
	// mode turns that into a 404.
	if s.cfg.StrictNotFound && len(rows) == 0 {
		notFound(w)
		return
	}
	items, err := decodePosts(rows)
	if err != nil {
		internalError(w)
		return
	}
	s.render(w, r, s.templates.Message, id, items)
}

func (s *Server) handleCreateMessage(w http.ResponseWriter, r *http.Request) {
	creds, ok := s.requireAuth(w, r)
	if !ok {
		return
	}
	text := r.PostFormValue("message")
	if text == "" {
		writeText(w, http.StatusBadRequest, "Empty message")
		return
	}
	post := model.Post{
		Type:        model.TypePost,
		Text:        text,
		User:        creds.UserID,
		DateCreated: s.dates.Now(),
	}
	if _, err := s.store.Save(r.Context(), "", post); err != nil {
		internalError(w)
		return
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (s *Server) handleUser(w http.ResponseWriter, r *http.Request, id string) {
	rows, err := s.store.View(r.Context(), store.ViewUsersByID, store.ViewOpts{Descending: true, Key: id})
	if err != nil {
		internalError(w)
		return
	}
	if s.cfg.StrictNotFound && len(rows) == 0 {
		notFound(w)
		return
	}
	items, err := decodeUsers(rows)
	if err != nil {
		internalError(w)
		return
	}
	s.render(w, r, s.templates.User, id, items)
}

func (s *Server) handleUserMessages(w http.ResponseWriter, r *http.Request, id string) {
	rows, err := s.store.View(r.Context(), store.ViewPostsByUser, store.ViewOpts{Descending: true, Key: id})
	if err != nil {
		internalError(w)
		return
	}
	items, err := decodePosts(rows)
	if err != nil {
		internalError(w)
		return
	}
	s.render(w, r, s.templates.UserMessages, id, items)
}

func (s *Server) handleUsers(w http.ResponseWriter, r *http.Request) {
	rows, err := s.store.View(r.Context(), store.ViewUsersByID, store.ViewOpts{})
	if err != nil {
		internalError(w)
		return
	}
	items, err := decodeUsers(rows)
	if err != nil {
		internalError(w)
		return
	}
	s.render(w, r, s.templates.Users, "User List", items)
}

func (s *Server) handleCreateUser(w http.ResponseWriter, r *http.Request) {
	userID := r.PostFormValue("user")
	if userID == "" {
		writeText(w, http.StatusBadRequest, "Missing user ID")
		return
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(r.PostFormValue("password")), s.cfg.BcryptCost)
	if err != nil {
		internalError(w)
		return
	}
	user := model.User{
		Type:        model.TypeUser,
		Password:    string(hash),
		Name:        r.PostFormValue("name"),
		Email:       r.PostFormValue("email"),
		Description: r.PostFormValue("description"),
		ImageURL:    r.PostFormValue("avatar"),
		WebsiteURL:  r.PostFormValue("website"),
		DateCreated: s.dates.Today(),
	}
	if _, err := s.store.Save(r.Context(), userID, user); err != nil {
		internalError(w)
		return
	}
	http.Redirect(w, r, "/users/", http.StatusSeeOther)
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	s.render(w, r, s.templates.Register, "Register", nil)
}

// requireAuth runs the authentication gate for protected handlers. A
// missing header and invalid credentials produce the same 401 challenge;
// only a non-Basic scheme is reported differently.
func (s *Server) requireAuth(w http.ResponseWriter, r *http.Request) (model.Credentials, bool) {
	creds, err := s.auth.Authenticate(r.Context(), r.Header.Get("Authorization"))
	if err != nil {
		if errors.Is(err, auth.ErrScheme) {
			writeText(w, http.StatusBadRequest, "Unsupported authorization scheme")
			return model.Credentials{}, false
		}
		s.authRequired(w)
		return model.Credentials{}, false
	}
	return creds, true
}

func (s *Server) authRequired(w http.ResponseWriter) {
	w.Header().Set("WWW-Authenticate", `Basic realm="`+s.cfg.Realm+`"`)
	writeText(w, http.StatusUnauthorized, "Unauthorized")
}

func (s *Server) render(w http.ResponseWriter, r *http.Request, t *template.Template, title string, items any) {
	w.Header().Set("Content-Type", negotiateContentType(r))
	data := map[string]any{"Title": title, "Items": items}
	if err := t.ExecuteTemplate(w, "layout", data); err != nil {
		internalError(w)
	}
}

// negotiateContentType maps the Accept header to one of four supported
// media types. Literal equality only; no q-values, no wildcards. Anything
// unrecognized falls back to text/html.
func negotiateContentType(r *http.Request) string {
	switch r.Header.Get("Accept") {
	case "text/xml":
		return "text/xml"
	case "application/xml":
		return "application/xml"
	case "application/xhtml+xml":
		return "application/xhtml+xml"
	default:
		return "text/html"
	}
}

// postItem pairs a store-assigned id with the decoded post for rendering.
type postItem struct {
	ID   string
	Post model.Post
}

type userItem struct {
	ID   string
	User model.User
}

func decodePosts(rows []store.Row) ([]postItem, error) {
	items := make([]postItem, 0, len(rows))
	for _, row := range rows {
		var post model.Post
		if err := json.Unmarshal(row.Value, &post); err != nil {
			return nil, err
		}
		items = append(items, postItem{ID: row.ID, Post: post})
	}
	return items, nil
}

func decodeUsers(rows []store.Row) ([]userItem, error) {
	items := make([]userItem, 0, len(rows))
	for _, row := range rows {
		var user model.User
		if err := json.Unmarshal(row.Value, &user); err != nil {
			return nil, err
		}
		items = append(items, userItem{ID: row.ID, User: user})
	}
	return items, nil
}

func writeText(w http.ResponseWriter, status int, body string) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write([]byte(body))
}

func notFound(w http.ResponseWriter) {
	writeText(w, http.StatusNotFound, "Not Found")
}

func methodNotAllowed(w http.ResponseWriter) {
	writeText(w, http.StatusMethodNotAllowed, "Method Not Allowed")
}

func internalError(w http.ResponseWriter) {
	writeText(w, http.StatusInternalServerError, "Internal Server Error")
}

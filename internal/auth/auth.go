// Package auth implements the HTTP Basic authentication gate: header
// parsing, user lookup through the users_by_id view, and password
// comparison.
package auth

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"strings"

	"github.com/microblog-net/microblog/internal/model"
	"github.com/microblog-net/microblog/internal/store"

	"golang.org/x/crypto/bcrypt"
)

var (
	// ErrMissing means no Authorization header was sent.
	ErrMissing = errors.New("authorization required")
	// ErrScheme means the header carried something other than Basic.
	ErrScheme = errors.New("unsupported authorization scheme")
	// ErrInvalidCredentials covers unknown user, lookup failure, undecodable
	// payload and password mismatch alike, so a 401 never reveals which
	// usernames exist.
	ErrInvalidCredentials = errors.New("invalid credentials")
)

type Service struct {
	store store.Store
}

func NewService(st store.Store) *Service {
	return &Service{store: st}
}

// ParseBasic decodes an Authorization header into credentials. The payload
// is base64 of "user:password"; the split is on the first colon so
// passwords may contain colons.
func ParseBasic(header string) (model.Credentials, error) {
	if header == "" {
		return model.Credentials{}, ErrMissing
	}
	scheme, payload, _ := strings.Cut(header, " ")
	if scheme != "Basic" {
		return model.Credentials{}, ErrScheme
	}
	decoded, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return model.Credentials{}, ErrInvalidCredentials
	}
	userID, password, _ := strings.Cut(string(decoded), ":")
	return model.Credentials{UserID: userID, Password: password}, nil
}

// Authenticate parses the header, looks the claimed user up and compares
// passwords. It returns the credentials on success so handlers can attach
// them to the request.
func (s *Service) Authenticate(ctx context.Context, header string) (model.Credentials, error) {
	creds, err := ParseBasic(header)
	if err != nil {
		return model.Credentials{}, err
	}
	// An empty user id would turn the keyed lookup into an unfiltered scan.
	if creds.UserID == "" {
		return model.Credentials{}, ErrInvalidCredentials
	}

	rows, err := s.store.View(ctx, store.ViewUsersByID, store.ViewOpts{Descending: true, Key: creds.UserID})
	if err != nil || len(rows) == 0 {
		return model.Credentials{}, ErrInvalidCredentials
	}
	var user model.User
	if err := json.Unmarshal(rows[0].Value, &user); err != nil {
		return model.Credentials{}, ErrInvalidCredentials
	}
	if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(creds.Password)) != nil {
		return model.Credentials{}, ErrInvalidCredentials
	}
	return creds, nil
}

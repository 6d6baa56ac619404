package auth

import (
	"context"
	"encoding/base64"
	"testing"

	"github.com/microblog-net/microblog/internal/model"
	"github.com/microblog-net/microblog/internal/store/sqlite"

	"golang.org/x/crypto/bcrypt"
)

func basicHeader(user, password string) string {
	return "Basic " + base64.StdEncoding.EncodeToString([]byte(user+":"+password))
}

func newTestService(t *testing.T) (*Service, *sqlite.Store) {
	t.Helper()
	st, err := sqlite.Open("file:" + t.Name() + "?mode=memory&cache=shared")
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	return NewService(st), st
}

func saveUser(t *testing.T, st *sqlite.Store, id, password string) {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	_, err = st.Save(context.Background(), id, model.User{
		Type:        model.TypeUser,
		Password:    string(hash),
		DateCreated: "2026-08-28",
	})
	if err != nil {
		t.Fatalf("save user: %v", err)
	}
}

func TestParseBasic(t *testing.T) {
	tests := []struct {
		name    string
		header  string
		wantErr error
		user    string
		pass    string
	}{
		{name: "missing header", header: "", wantErr: ErrMissing},
		{name: "bearer scheme", header: "Bearer abc", wantErr: ErrScheme},
		{name: "lowercase basic", header: "basic abc", wantErr: ErrScheme},
		{name: "bad base64", header: "Basic !!!", wantErr: ErrInvalidCredentials},
		{name: "ok", header: basicHeader("alice", "s3cret"), user: "alice", pass: "s3cret"},
		{name: "colon in password", header: basicHeader("alice", "a:b:c"), user: "alice", pass: "a:b:c"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			creds, err := ParseBasic(tt.header)
			if err != tt.wantErr {
				t.Fatalf("expected error %v, got %v", tt.wantErr, err)
			}
			if tt.wantErr != nil {
				return
			}
			if creds.UserID != tt.user || creds.Password != tt.pass {
				t.Fatalf("unexpected credentials: %+v", creds)
			}
		})
	}
}

func TestAuthenticateValid(t *testing.T) {
	svc, st := newTestService(t)
	defer st.Close()
	saveUser(t, st, "alice", "s3cret")

	creds, err := svc.Authenticate(context.Background(), basicHeader("alice", "s3cret"))
	if err != nil {
		t.Fatalf("authenticate: %v", err)
	}
	if creds.UserID != "alice" || creds.Password != "s3cret" {
		t.Fatalf("unexpected credentials: %+v", creds)
	}
}

func TestAuthenticateWrongPassword(t *testing.T) {
	svc, st := newTestService(t)
	defer st.Close()
	saveUser(t, st, "alice", "s3cret")

	_, err := svc.Authenticate(context.Background(), basicHeader("alice", "wrong"))
	if err != ErrInvalidCredentials {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestAuthenticateEmptyPayload(t *testing.T) {
	svc, st := newTestService(t)
	defer st.Close()
	saveUser(t, st, "alice", "s3cret")

	// "Basic" with no payload must not fall through to an unfiltered scan.
	_, err := svc.Authenticate(context.Background(), "Basic")
	if err != ErrInvalidCredentials {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestAuthenticateUnknownUser(t *testing.T) {
	svc, st := newTestService(t)
	defer st.Close()

	// Unknown user and wrong password must be the same error, so a caller
	// cannot tell which usernames exist.
	_, err := svc.Authenticate(context.Background(), basicHeader("nobody", "whatever"))
	if err != ErrInvalidCredentials {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/quickcart/product-catalog/internal/core/domain"
	"github.com/quickcart/product-catalog/internal/core/token"
)

type stubUserRepo struct {
	users map[string]*domain.User
}

func (r *stubUserRepo) FindByUsername(_ context.Context, username string) (*domain.User, error) {
	u, ok := r.users[username]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	clone := *u
	return &clone, nil
}

func (r *stubUserRepo) Create(_ context.Context, user *domain.User) (*domain.User, error) {
	r.users[user.Username] = user
	return user, nil
}

func newTestCodec(t *testing.T) *token.Codec {
	t.Helper()
	codec, err := token.NewCodec(token.Config{Secret: []byte("secret")})
	if err != nil {
		t.Fatalf("NewCodec: %v", err)
	}
	return codec
}

func authContext(header string) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if header != "" {
		req.Header.Set(echo.HeaderAuthorization, header)
	}
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func TestAuth_ValidToken(t *testing.T) {
	codec := newTestCodec(t)
	repo := &stubUserRepo{users: map[string]*domain.User{
		"alice": {Username: "alice", Role: domain.RolePrivileged, Active: true},
	}}

	signed, _, err := codec.Encode("alice", domain.RolePrivileged, time.Hour)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}

	c, rec := authContext("Bearer " + signed)
	called := false
	handler := Auth(codec, repo, zerolog.Nop())(func(c echo.Context) error {
		called = true
		caller, ok := c.Get(CallerKey).(*domain.User)
		if !ok {
			t.Fatalf("caller not set")
		}
		if caller.Username != "alice" || caller.Role != domain.RolePrivileged {
			t.Fatalf("unexpected caller: %+v", caller)
		}
		return c.NoContent(http.StatusOK)
	})

	if err := handler(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if !called {
		t.Fatalf("next not called")
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestAuth_CallerCarriesCurrentDirectoryRole(t *testing.T) {
	codec := newTestCodec(t)
	// Token was minted while bob was nonadmin; the directory has since
	// promoted him. The caller must carry the directory's current role.
	repo := &stubUserRepo{users: map[string]*domain.User{
		"bob": {Username: "bob", Role: domain.RolePrivileged},
	}}

	signed, _, err := codec.Encode("bob", domain.RoleNonAdmin, time.Hour)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}

	c, _ := authContext("Bearer " + signed)
	handler := Auth(codec, repo, zerolog.Nop())(func(c echo.Context) error {
		caller := c.Get(CallerKey).(*domain.User)
		if caller.Role != domain.RolePrivileged {
			t.Fatalf("caller role = %s, want directory role privileged", caller.Role)
		}
		return c.NoContent(http.StatusOK)
	})

	if err := handler(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
}

func TestAuth_MissingHeader(t *testing.T) {
	codec := newTestCodec(t)
	repo := &stubUserRepo{users: map[string]*domain.User{}}

	c, _ := authContext("")
	handler := Auth(codec, repo, zerolog.Nop())(func(c echo.Context) error {
		t.Fatalf("should not reach next")
		return nil
	})

	if err := handler(c); !errors.Is(err, domain.ErrMissingCredentials) {
		t.Fatalf("expected ErrMissingCredentials, got %v", err)
	}
}

func TestAuth_MalformedHeader(t *testing.T) {
	codec := newTestCodec(t)
	repo := &stubUserRepo{users: map[string]*domain.User{}}

	for _, header := range []string{"Token abc", "Bearer", "bearertoken"} {
		c, _ := authContext(header)
		handler := Auth(codec, repo, zerolog.Nop())(func(c echo.Context) error {
			t.Fatalf("should not reach next for %q", header)
			return nil
		})
		if err := handler(c); !errors.Is(err, domain.ErrMalformedCredentials) {
			t.Fatalf("header %q: expected ErrMalformedCredentials, got %v", header, err)
		}
	}
}

func TestAuth_SchemeIsCaseInsensitive(t *testing.T) {
	codec := newTestCodec(t)
	repo := &stubUserRepo{users: map[string]*domain.User{
		"alice": {Username: "alice", Role: domain.RolePrivileged},
	}}

	signed, _, err := codec.Encode("alice", domain.RolePrivileged, time.Hour)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}

	c, _ := authContext("bEaReR " + signed)
	handler := Auth(codec, repo, zerolog.Nop())(func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})
	if err := handler(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
}

func TestAuth_InvalidToken(t *testing.T) {
	codec := newTestCodec(t)
	repo := &stubUserRepo{users: map[string]*domain.User{}}

	c, _ := authContext("Bearer not-a-token")
	handler := Auth(codec, repo, zerolog.Nop())(func(c echo.Context) error {
		t.Fatalf("should not reach next")
		return nil
	})

	if err := handler(c); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestAuth_UnknownSubject(t *testing.T) {
	codec := newTestCodec(t)
	// The user was deleted after the token was issued.
	repo := &stubUserRepo{users: map[string]*domain.User{}}

	signed, _, err := codec.Encode("ghost", domain.RoleNonAdmin, time.Hour)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}

	c, _ := authContext("Bearer " + signed)
	handler := Auth(codec, repo, zerolog.Nop())(func(c echo.Context) error {
		t.Fatalf("should not reach next")
		return nil
	})

	if err := handler(c); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

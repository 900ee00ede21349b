package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/quickcart/product-catalog/internal/core/domain"
	"github.com/quickcart/product-catalog/internal/core/ports"
	"github.com/quickcart/product-catalog/internal/core/token"
)

type stubUserRepo struct {
	users map[string]*domain.User
}

func newStubUserRepo(users ...*domain.User) *stubUserRepo {
	r := &stubUserRepo{users: make(map[string]*domain.User)}
	for _, u := range users {
		r.users[u.Username] = u
	}
	return r
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
	if _, exists := r.users[user.Username]; exists {
		return nil, domain.ErrUserExists
	}
	r.users[user.Username] = user
	return user, nil
}

type stubLimiter struct {
	allow bool
	err   error
}

func (l *stubLimiter) Allow(_ context.Context, _ string) (bool, error) {
	return l.allow, l.err
}

func testUsers() *stubUserRepo {
	return newStubUserRepo(
		&domain.User{Username: "admin", Role: domain.RoleAdmin, Active: true},
		&domain.User{Username: "alice", Role: domain.RolePrivileged, Active: true},
		&domain.User{Username: "bob", Role: domain.RoleNonAdmin, Active: true},
	)
}

func newTokenService(t *testing.T, users ports.UserRepository, limiter ports.IssueLimiter) (*TokenService, *token.Codec) {
	t.Helper()
	codec, err := token.NewCodec(token.Config{Secret: []byte("secret")})
	if err != nil {
		t.Fatalf("NewCodec: %v", err)
	}
	return NewTokenService(users, codec, limiter, zerolog.Nop()), codec
}

func TestTokenService_AdminIssuesForAnyone(t *testing.T) {
	users := testUsers()
	svc, codec := newTokenService(t, users, nil)

	admin, _ := users.FindByUsername(context.Background(), "admin")
	issued, err := svc.Issue(context.Background(), ports.IssueTokenInput{
		Caller:         admin,
		TargetUsername: "bob",
	})
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	if issued.TokenType != "bearer" {
		t.Fatalf("token_type = %q, want bearer", issued.TokenType)
	}
	if issued.Role != domain.RoleNonAdmin {
		t.Fatalf("role = %s, want nonadmin", issued.Role)
	}

	claims, err := codec.Decode(issued.AccessToken)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if claims.Subject != "bob" || claims.Role != string(domain.RoleNonAdmin) {
		t.Fatalf("unexpected claims: sub=%q role=%q", claims.Subject, claims.Role)
	}
}

func TestTokenService_SelfIssuance(t *testing.T) {
	users := testUsers()
	svc, _ := newTokenService(t, users, nil)

	alice, _ := users.FindByUsername(context.Background(), "alice")
	issued, err := svc.Issue(context.Background(), ports.IssueTokenInput{
		Caller:         alice,
		TargetUsername: "alice",
	})
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	if issued.Role != domain.RolePrivileged {
		t.Fatalf("role = %s, want privileged", issued.Role)
	}
}

func TestTokenService_DelegationForbidden(t *testing.T) {
	users := testUsers()
	svc, _ := newTokenService(t, users, nil)

	alice, _ := users.FindByUsername(context.Background(), "alice")
	_, err := svc.Issue(context.Background(), ports.IssueTokenInput{
		Caller:         alice,
		TargetUsername: "bob",
	})
	if !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
}

func TestTokenService_TargetNotFound(t *testing.T) {
	users := testUsers()
	svc, _ := newTokenService(t, users, nil)

	admin, _ := users.FindByUsername(context.Background(), "admin")
	_, err := svc.Issue(context.Background(), ports.IssueTokenInput{
		Caller:         admin,
		TargetUsername: "ghost",
	})
	if !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}

func TestTokenService_TTLOverride(t *testing.T) {
	users := testUsers()
	svc, _ := newTokenService(t, users, nil)

	admin, _ := users.FindByUsername(context.Background(), "admin")
	before := time.Now().UTC()
	issued, err := svc.Issue(context.Background(), ports.IssueTokenInput{
		Caller:         admin,
		TargetUsername: "bob",
		TTL:            time.Minute,
	})
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	after := time.Now().UTC()

	if issued.ExpiresAt.Before(before.Add(time.Minute)) || issued.ExpiresAt.After(after.Add(time.Minute)) {
		t.Fatalf("expires_at = %v, want ~1m from now", issued.ExpiresAt)
	}
}

func TestTokenService_RateLimited(t *testing.T) {
	users := testUsers()
	svc, _ := newTokenService(t, users, &stubLimiter{allow: false})

	alice, _ := users.FindByUsername(context.Background(), "alice")
	_, err := svc.Issue(context.Background(), ports.IssueTokenInput{
		Caller:         alice,
		TargetUsername: "alice",
	})
	if !errors.Is(err, domain.ErrRateLimited) {
		t.Fatalf("expected ErrRateLimited, got %v", err)
	}
}

func TestTokenService_LimiterOutageFailsOpen(t *testing.T) {
	users := testUsers()
	svc, _ := newTokenService(t, users, &stubLimiter{err: errors.New("redis down")})

	alice, _ := users.FindByUsername(context.Background(), "alice")
	if _, err := svc.Issue(context.Background(), ports.IssueTokenInput{
		Caller:         alice,
		TargetUsername: "alice",
	}); err != nil {
		t.Fatalf("expected issuance despite limiter outage, got %v", err)
	}
}

func TestTokenService_RoleChangeStaleClaimWindow(t *testing.T) {
	users := testUsers()
	svc, codec := newTokenService(t, users, nil)

	admin, _ := users.FindByUsername(context.Background(), "admin")

	first, err := svc.Issue(context.Background(), ports.IssueTokenInput{
		Caller:         admin,
		TargetUsername: "bob",
	})
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	// Promote bob after the first token was issued.
	users.users["bob"].Role = domain.RolePrivileged

	second, err := svc.Issue(context.Background(), ports.IssueTokenInput{
		Caller:         admin,
		TargetUsername: "bob",
	})
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	firstClaims, err := codec.Decode(first.AccessToken)
	if err != nil {
		t.Fatalf("Decode first: %v", err)
	}
	secondClaims, err := codec.Decode(second.AccessToken)
	if err != nil {
		t.Fatalf("Decode second: %v", err)
	}

	if firstClaims.Role != string(domain.RoleNonAdmin) {
		t.Fatalf("first token role = %q, want the role frozen at issuance", firstClaims.Role)
	}
	if secondClaims.Role != string(domain.RolePrivileged) {
		t.Fatalf("second token role = %q, want the new directory role", secondClaims.Role)
	}
}

package identity

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/annagruz/taskvault/internal/common"
	"github.com/annagruz/taskvault/internal/server/auth"
	"github.com/annagruz/taskvault/internal/server/models"
)

type fakeAccounts struct {
	account *models.Account
	err     error
}

func (f *fakeAccounts) GetByID(ctx context.Context, id string) (*models.Account, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.account, nil
}

type fakeRegistry struct {
	live bool
	err  error

	added   map[string][]string
	revoked map[string][]string
}

func (f *fakeRegistry) Add(ctx context.Context, accountID, token string) error {
	if f.added == nil {
		f.added = map[string][]string{}
	}
	f.added[accountID] = append(f.added[accountID], token)
	return nil
}

func (f *fakeRegistry) Revoke(ctx context.Context, accountID, token string) error {
	if f.revoked == nil {
		f.revoked = map[string][]string{}
	}
	f.revoked[accountID] = append(f.revoked[accountID], token)
	return nil
}

func (f *fakeRegistry) RevokeAll(ctx context.Context, accountID string) error { return nil }

func (f *fakeRegistry) Contains(ctx context.Context, accountID, token string) (bool, error) {
	return f.live, f.err
}

func newResolverFixture(t *testing.T) (*Resolver, *fakeRegistry, string) {
	t.Helper()

	tokens := auth.NewTokenService([]byte("test-secret"), time.Hour)
	tok, err := tokens.Issue("acc-1")
	if err != nil {
		t.Fatalf("issuing token: %v", err)
	}

	registry := &fakeRegistry{live: true}
	accounts := &fakeAccounts{account: &models.Account{ID: "acc-1", Email: "a@x.com"}}
	return NewResolver(accounts, registry, tokens), registry, tok
}

func TestResolve_Success(t *testing.T) {
	r, _, tok := newResolverFixture(t)

	account, presented, err := r.Resolve(context.Background(), "Bearer "+tok)
	if err != nil {
		t.Fatalf("Resolve error: %v", err)
	}
	if account.ID != "acc-1" {
		t.Fatalf("unexpected account: %+v", account)
	}
	if presented != tok {
		t.Fatalf("expected the presented token back, got %q", presented)
	}
}

func TestResolve_MissingOrMalformedHeader(t *testing.T) {
	r, _, tok := newResolverFixture(t)

	for _, header := range []string{"", "Bearer ", "Basic " + tok, tok} {
		_, _, err := r.Resolve(context.Background(), header)
		if !errors.Is(err, common.ErrUnauthenticated) {
			t.Fatalf("header %q: expected common.ErrUnauthenticated, got %v", header, err)
		}
	}
}

func TestResolve_BadToken(t *testing.T) {
	r, _, _ := newResolverFixture(t)

	_, _, err := r.Resolve(context.Background(), "Bearer not.a.jwt")
	if !errors.Is(err, common.ErrUnauthenticated) {
		t.Fatalf("expected common.ErrUnauthenticated, got %v", err)
	}
}

func TestResolve_ExpiredToken(t *testing.T) {
	expired := auth.NewTokenService([]byte("test-secret"), -time.Second)
	tok, err := expired.Issue("acc-1")
	if err != nil {
		t.Fatalf("issuing token: %v", err)
	}

	r, _, _ := newResolverFixture(t)
	_, _, err = r.Resolve(context.Background(), "Bearer "+tok)
	if !errors.Is(err, common.ErrUnauthenticated) {
		t.Fatalf("expected common.ErrUnauthenticated, got %v", err)
	}
}

func TestResolve_UnknownAccount(t *testing.T) {
	tokens := auth.NewTokenService([]byte("test-secret"), time.Hour)
	tok, _ := tokens.Issue("ghost")
	r := NewResolver(&fakeAccounts{err: common.ErrNotFound}, &fakeRegistry{live: true}, tokens)

	_, _, err := r.Resolve(context.Background(), "Bearer "+tok)
	if !errors.Is(err, common.ErrUnauthenticated) {
		t.Fatalf("expected common.ErrUnauthenticated, got %v", err)
	}
}

// A revoked token still has a valid signature; registry membership decides.
func TestResolve_RevokedToken(t *testing.T) {
	r, registry, tok := newResolverFixture(t)
	registry.live = false

	_, _, err := r.Resolve(context.Background(), "Bearer "+tok)
	if !errors.Is(err, common.ErrUnauthenticated) {
		t.Fatalf("expected common.ErrUnauthenticated for revoked token, got %v", err)
	}
}

func TestResolve_RegistryLookupError(t *testing.T) {
	r, registry, tok := newResolverFixture(t)
	registry.err = errors.New("db down")

	_, _, err := r.Resolve(context.Background(), "Bearer "+tok)
	if !errors.Is(err, common.ErrUnauthenticated) {
		t.Fatalf("lookup errors must coarsen to common.ErrUnauthenticated, got %v", err)
	}
}

// Whatever goes wrong, the caller sees one identical signal.
func TestResolve_FailureSignalIsUniform(t *testing.T) {
	r, registry, tok := newResolverFixture(t)

	_, _, missingErr := r.Resolve(context.Background(), "")
	registry.live = false
	_, _, revokedErr := r.Resolve(context.Background(), "Bearer "+tok)

	if missingErr.Error() != revokedErr.Error() {
		t.Fatalf("failure signals differ: %q vs %q", missingErr, revokedErr)
	}
}

func TestContextRoundTrip(t *testing.T) {
	account := &models.Account{ID: "acc-1"}
	ctx := NewContext(context.Background(), Session{Account: account, Token: "tok"})

	s, ok := FromContext(ctx)
	if !ok || s.Account.ID != "acc-1" || s.Token != "tok" {
		t.Fatalf("unexpected session from context: %+v ok=%v", s, ok)
	}

	if _, ok := FromContext(context.Background()); ok {
		t.Fatalf("empty context must not yield a session")
	}
}

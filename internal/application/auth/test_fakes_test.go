package auth

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/loginbase/auth-gateway/internal/domain"
	"github.com/loginbase/auth-gateway/internal/infrastructure/oauth"
)

/*
Fakes for ports
*/

type fakeUserRepo struct {
	mu sync.Mutex

	byID    map[string]domain.User
	byEmail map[string]domain.User

	// injected errors (if set, method returns error)
	getByEmailErr error
	getByIDErr    error
	upsertErr     error

	upserts []domain.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{
		byID:    map[string]domain.User{},
		byEmail: map[string]domain.User{},
	}
}

func (f *fakeUserRepo) add(u domain.User) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.byID[u.ID] = u
	f.byEmail[u.Email] = u
}

func (f *fakeUserRepo) GetByEmail(ctx context.Context, email string) (domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.getByEmailErr != nil {
		return domain.User{}, f.getByEmailErr
	}
	u, ok := f.byEmail[email]
	if !ok {
		return domain.User{}, domain.ErrUserNotFound()
	}
	return u, nil
}

func (f *fakeUserRepo) GetByID(ctx context.Context, id string) (domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.getByIDErr != nil {
		return domain.User{}, f.getByIDErr
	}
	u, ok := f.byID[id]
	if !ok {
		return domain.User{}, domain.ErrUserNotFound()
	}
	return u, nil
}

func (f *fakeUserRepo) UpsertOAuthUser(ctx context.Context, u domain.User) (domain.User, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.upsertErr != nil {
		return domain.User{}, false, f.upsertErr
	}
	f.upserts = append(f.upserts, u)

	if existing, ok := f.byEmail[u.Email]; ok {
		existing.FirstName = u.FirstName
		existing.LastName = u.LastName
		existing.Image = u.Image
		f.byID[existing.ID] = existing
		f.byEmail[existing.Email] = existing
		return existing, false, nil
	}

	f.byID[u.ID] = u
	f.byEmail[u.Email] = u
	return u, true, nil
}

type fakeHasher struct {
	hashFn    func(pw string) (string, error)
	compareFn func(hash, pw string) error
}

func newFakeHasher() *fakeHasher {
	return &fakeHasher{
		hashFn: func(pw string) (string, error) { return "hash:" + pw, nil },
		compareFn: func(hash, pw string) error {
			if hash == "hash:"+pw {
				return nil
			}
			return errors.New("mismatch")
		},
	}
}

func (f *fakeHasher) Hash(pw string) (string, error)       { return f.hashFn(pw) }
func (f *fakeHasher) Compare(hash string, pw string) error { return f.compareFn(hash, pw) }

type fakeCodec struct {
	mu       sync.Mutex
	n        int
	byToken  map[string]SessionClaims
	encodeFn func(claims SessionClaims, ttl time.Duration) (string, error)
}

func newFakeCodec() *fakeCodec {
	return &fakeCodec{byToken: map[string]SessionClaims{}}
}

func (f *fakeCodec) Encode(claims SessionClaims, ttl time.Duration) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.encodeFn != nil {
		return f.encodeFn(claims, ttl)
	}
	f.n++
	tok := fmt.Sprintf("tok-%d", f.n)
	claims.ExpiresAt = time.Now().Add(ttl)
	f.byToken[tok] = claims
	return tok, nil
}

func (f *fakeCodec) Decode(token string) (SessionClaims, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	c, ok := f.byToken[token]
	if !ok {
		return SessionClaims{}, domain.ErrSessionInvalid()
	}
	return c, nil
}

type fakeStateStore struct {
	mu        sync.Mutex
	n         int
	byToken   map[string]OAuthStateData
	createErr error
}

func newFakeStateStore() *fakeStateStore {
	return &fakeStateStore{byToken: map[string]OAuthStateData{}}
}

func (f *fakeStateStore) Create(ctx context.Context, state OAuthStateData) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.createErr != nil {
		return "", f.createErr
	}
	f.n++
	tok := fmt.Sprintf("state-%d", f.n)
	f.byToken[tok] = state
	return tok, nil
}

func (f *fakeStateStore) Consume(ctx context.Context, token string) (OAuthStateData, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	s, ok := f.byToken[token]
	if !ok {
		return OAuthStateData{}, errors.New("state not found")
	}
	delete(f.byToken, token)
	return s, nil
}

type fakeGoogle struct {
	configured bool

	exchangeFn func(ctx context.Context, code, verifier string) (*oauth.TokenResponse, error)
	userinfoFn func(ctx context.Context, accessToken string) (*oauth.UserInfo, error)
}

func newFakeGoogle() *fakeGoogle {
	return &fakeGoogle{
		configured: true,
		exchangeFn: func(ctx context.Context, code, verifier string) (*oauth.TokenResponse, error) {
			return &oauth.TokenResponse{AccessToken: "at-" + code}, nil
		},
		userinfoFn: func(ctx context.Context, accessToken string) (*oauth.UserInfo, error) {
			return &oauth.UserInfo{
				Sub:     "sub-1",
				Email:   "ada@x.com",
				Name:    "Ada Lovelace",
				Picture: "p.png",
			}, nil
		},
	}
}

func (f *fakeGoogle) IsConfigured() bool { return f.configured }

func (f *fakeGoogle) AuthURL(state, challenge string) string {
	return "https://accounts.example/auth?state=" + state + "&challenge=" + challenge
}

func (f *fakeGoogle) ExchangeCode(ctx context.Context, code, verifier string) (*oauth.TokenResponse, error) {
	return f.exchangeFn(ctx, code, verifier)
}

func (f *fakeGoogle) GetUserInfo(ctx context.Context, accessToken string) (*oauth.UserInfo, error) {
	return f.userinfoFn(ctx, accessToken)
}

type fakePublisher struct {
	mu     sync.Mutex
	events []SignInEvent
	err    error
}

func (f *fakePublisher) PublishSignIn(ctx context.Context, evt SignInEvent) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.err != nil {
		return f.err
	}
	f.events = append(f.events, evt)
	return nil
}

/*
Service under test
*/

func newSvcForTest(t *testing.T) (*Service, *fakeUserRepo, *fakeHasher, *fakeCodec, *fakeStateStore, *fakeGoogle, *fakePublisher) {
	t.Helper()

	users := newFakeUserRepo()
	hasher := newFakeHasher()
	codec := newFakeCodec()
	states := newFakeStateStore()
	google := newFakeGoogle()
	pub := &fakePublisher{}

	svc := NewService(users, hasher, codec, states, google, pub, Config{
		SessionTTL: 24 * time.Hour,
	})
	return svc, users, hasher, codec, states, google, pub
}

func requireDomainCode(t *testing.T, err error, code string) {
	t.Helper()
	if !domain.Is(err, code) {
		t.Fatalf("expected domain code %q, got %v", code, err)
	}
}

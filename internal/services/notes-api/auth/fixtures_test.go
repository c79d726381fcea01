package auth

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	tokens "github.com/NordCoder/Noteboard/internal/auth"
	domainoutbox "github.com/NordCoder/Noteboard/internal/domain/outbox"
	"github.com/NordCoder/Noteboard/internal/domain/user"
	"github.com/NordCoder/Noteboard/internal/repository/memory"
	"github.com/google/uuid"
	"github.com/grpc-ecosystem/grpc-gateway/v2/runtime"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

type clock struct {
	mu  sync.Mutex
	now time.Time
}

func newClock() *clock { return &clock{now: time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)} }

func (c *clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *clock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

type memUsers struct {
	mu      sync.Mutex
	byEmail map[string]*user.User
	err     error
}

func newMemUsers() *memUsers { return &memUsers{byEmail: map[string]*user.User{}} }

func (m *memUsers) Create(_ context.Context, u *user.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	if _, ok := m.byEmail[u.Email]; ok {
		return user.ErrEmailTaken
	}
	cp := *u
	m.byEmail[u.Email] = &cp
	return nil
}

func (m *memUsers) GetByID(_ context.Context, id uuid.UUID) (*user.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	for _, u := range m.byEmail {
		if u.ID == id {
			cp := *u
			return &cp, nil
		}
	}
	return nil, user.ErrNotFound
}

func (m *memUsers) GetByEmail(_ context.Context, email string) (*user.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	u, ok := m.byEmail[email]
	if !ok {
		return nil, user.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (m *memUsers) DeleteByEmail(_ context.Context, email string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.byEmail, email)
	return nil
}

type recOutbox struct {
	mu    sync.Mutex
	kinds []domainoutbox.Kind
}

func (o *recOutbox) Enqueue(_ context.Context, _ string, kind domainoutbox.Kind, _ []byte) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.kinds = append(o.kinds, kind)
	return nil
}

type passTx struct{}

func (passTx) WithTx(ctx context.Context, fn func(ctx context.Context) error) error { return fn(ctx) }

type brokenStore struct{}

func (brokenStore) Put(context.Context, string, uuid.UUID, time.Duration) error {
	return errors.New("redis: connection refused")
}
func (brokenStore) Get(context.Context, string) (uuid.UUID, error) {
	return uuid.Nil, errors.New("redis: connection refused")
}
func (brokenStore) Delete(context.Context, string) error { return errors.New("redis: connection refused") }

const (
	testAccessTTL  = 15 * time.Minute
	testRefreshTTL = 7 * 24 * time.Hour
)

type harness struct {
	clock  *clock
	users  *memUsers
	store  *memory.RefreshStore
	outbox *recOutbox
	uc     *Usecase
	mux    *runtime.ServeMux
	cookie CookieConfig
}

type harnessOpt func(*harness)

func withSecureCookie() harnessOpt { return func(h *harness) { h.cookie.Secure = true } }

func newHarness(t *testing.T, opts ...harnessOpt) *harness {
	t.Helper()
	h := &harness{
		clock:  newClock(),
		users:  newMemUsers(),
		outbox: &recOutbox{},
		cookie: CookieConfig{Name: "refreshToken", Path: "/", MaxAge: testRefreshTTL},
	}
	for _, o := range opts {
		o(h)
	}
	h.store = memory.NewRefreshStore(h.clock.Now)

	pw, err := tokens.NewPasswords(bcrypt.MinCost)
	require.NoError(t, err)
	issuer := tokens.NewIssuer([]byte("test-secret"), testAccessTTL, h.clock.Now)

	h.uc = NewUseCase(h.users, h.store, issuer, pw, passTx{}, h.outbox,
		Config{RefreshTTL: testRefreshTTL, Now: h.clock.Now}, nil)

	h.mux = runtime.NewServeMux()
	ctrl := NewController(h.uc, h.cookie, NewGuard(h.uc.ParseAccess, nil), nil)
	require.NoError(t, ctrl.Register(h.mux, ""))
	return h
}

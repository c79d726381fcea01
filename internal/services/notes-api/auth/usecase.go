package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	tokens "github.com/NordCoder/Noteboard/internal/auth"
	"github.com/NordCoder/Noteboard/internal/domain/events"
	domainoutbox "github.com/NordCoder/Noteboard/internal/domain/outbox"
	"github.com/NordCoder/Noteboard/internal/domain/session"
	"github.com/NordCoder/Noteboard/internal/domain/user"
	"github.com/NordCoder/Noteboard/internal/obs"
	"github.com/NordCoder/Noteboard/internal/outbox"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

var (
	ErrInvalidCredentials    = errors.New("invalid credentials")
	ErrMissingToken          = errors.New("refresh token missing")
	ErrInvalidOrExpiredToken = errors.New("invalid or expired refresh token")
	ErrUnauthenticated       = errors.New("unauthenticated")
	ErrEmailInUse            = errors.New("email already in use")
)

type Transactor interface {
	WithTx(ctx context.Context, fn func(ctx context.Context) error) error
}

type Outbox interface {
	Enqueue(ctx context.Context, key string, kind domainoutbox.Kind, data []byte) error
}

type Config struct {
	RefreshTTL time.Duration
	Now        func() time.Time
}

type Usecase struct {
	users  user.Repo
	store  session.RefreshStore
	issuer *tokens.Issuer
	pw     *tokens.Passwords
	tx     Transactor
	outbox Outbox
	cfg    Config
	log    *zap.Logger
}

func NewUseCase(
	users user.Repo,
	store session.RefreshStore,
	issuer *tokens.Issuer,
	pw *tokens.Passwords,
	tx Transactor,
	ob Outbox,
	cfg Config,
	log *zap.Logger,
) *Usecase {
	if cfg.Now == nil {
		cfg.Now = func() time.Time { return time.Now().UTC() }
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Usecase{users: users, store: store, issuer: issuer, pw: pw, tx: tx, outbox: ob, cfg: cfg, log: log}
}

func normalizeEmail(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

type RegisterInput struct {
	Name     string
	Email    string
	Password string
}

// Register creates the account and queues a user.registered event in the same
// transaction. It does not open a session.
func (u *Usecase) Register(ctx context.Context, in RegisterInput) (*user.User, error) {
	now := u.cfg.Now()
	hash, err := u.pw.Hash(in.Password)
	if err != nil {
		return nil, err
	}
	nu := &user.User{
		ID:        uuid.New(),
		Name:      strings.TrimSpace(in.Name),
		Email:     normalizeEmail(in.Email),
		Password:  hash,
		CreatedAt: now,
		UpdatedAt: now,
	}

	err = u.tx.WithTx(ctx, func(ctx context.Context) error {
		if err := u.users.Create(ctx, nu); err != nil {
			return err
		}
		data, err := outbox.MarshalUserRegistered(events.UserRegistered{
			UserID: nu.ID, Email: nu.Email, Name: nu.Name, At: now,
		})
		if err != nil {
			return err
		}
		return u.outbox.Enqueue(ctx, uuid.NewString(), domainoutbox.KindUserRegistered, data)
	})
	if err != nil {
		if errors.Is(err, user.ErrEmailTaken) {
			registerTotal.WithLabelValues("email_taken").Inc()
			return nil, ErrEmailInUse
		}
		registerTotal.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("register: %w", err)
	}
	registerTotal.WithLabelValues("ok").Inc()
	obs.WithTrace(ctx, u.log).Info("auth.register", zap.String("user_id", nu.ID.String()), zap.String("email", nu.Email))
	return nu, nil
}

type Session struct {
	UserID       uuid.UUID
	AccessToken  string
	RefreshToken string
}

// Login verifies credentials and opens a session. Unknown email and wrong
// password both yield ErrInvalidCredentials after one bcrypt comparison.
func (u *Usecase) Login(ctx context.Context, email, password string) (*Session, error) {
	rec, err := u.users.GetByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			u.pw.VerifyAbsent(password)
			loginTotal.WithLabelValues("invalid").Inc()
			return nil, ErrInvalidCredentials
		}
		loginTotal.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("lookup user: %w", err)
	}
	if err := u.pw.Verify(rec.Password, password); err != nil {
		loginTotal.WithLabelValues("invalid").Inc()
		return nil, ErrInvalidCredentials
	}

	access, err := u.issuer.Issue(rec.ID)
	if err != nil {
		loginTotal.WithLabelValues("error").Inc()
		return nil, err
	}
	refresh, err := tokens.GenerateRawToken(tokens.RefreshTokenBytes)
	if err != nil {
		loginTotal.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("generate refresh token: %w", err)
	}
	if err := u.store.Put(ctx, refresh, rec.ID, u.cfg.RefreshTTL); err != nil {
		loginTotal.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("store refresh token: %w", err)
	}

	loginTotal.WithLabelValues("ok").Inc()
	obs.WithTrace(ctx, u.log).Info("auth.login", zap.String("user_id", rec.ID.String()))
	return &Session{UserID: rec.ID, AccessToken: access, RefreshToken: refresh}, nil
}

// Refresh trades a stored refresh token for a new access token. The refresh
// token itself is left as is and keeps its original expiry.
func (u *Usecase) Refresh(ctx context.Context, raw string) (string, error) {
	if raw == "" {
		refreshTotal.WithLabelValues("missing").Inc()
		return "", ErrMissingToken
	}
	uid, err := u.store.Get(ctx, raw)
	if err != nil {
		if errors.Is(err, session.ErrTokenNotFound) {
			refreshTotal.WithLabelValues("invalid").Inc()
			return "", ErrInvalidOrExpiredToken
		}
		refreshTotal.WithLabelValues("error").Inc()
		return "", fmt.Errorf("load refresh token: %w", err)
	}
	access, err := u.issuer.Issue(uid)
	if err != nil {
		refreshTotal.WithLabelValues("error").Inc()
		return "", err
	}
	refreshTotal.WithLabelValues("ok").Inc()
	return access, nil
}

// Logout forgets the refresh token when one is given. Store failures are
// logged only: logging out never fails for the caller.
func (u *Usecase) Logout(ctx context.Context, raw string) {
	if raw == "" {
		return
	}
	if err := u.store.Delete(ctx, raw); err != nil {
		obs.WithTrace(ctx, u.log).Warn("auth.logout: delete refresh token", zap.Error(err))
	}
}

func (u *Usecase) ParseAccess(token string) (uuid.UUID, error) {
	id, err := u.issuer.Parse(token)
	if err != nil {
		return uuid.Nil, ErrUnauthenticated
	}
	return id, nil
}

func (u *Usecase) Me(ctx context.Context, id uuid.UUID) (*user.User, error) {
	rec, err := u.users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return nil, ErrUnauthenticated
		}
		return nil, fmt.Errorf("load user: %w", err)
	}
	return rec, nil
}

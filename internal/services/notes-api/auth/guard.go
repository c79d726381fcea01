package auth

import (
	"context"
	"net/http"
	"strings"

	"github.com/NordCoder/Noteboard/internal/obs"
	"github.com/NordCoder/Noteboard/internal/services/notes-api/httpx"
	"github.com/google/uuid"
	"github.com/grpc-ecosystem/grpc-gateway/v2/runtime"
	"go.uber.org/zap"
)

const (
	msgTokenMissing = "Not authorized, no token found."
	msgTokenInvalid = "Token is not valid or has expired."
)

type ctxKey int

const userIDKey ctxKey = 1

func WithUserID(ctx context.Context, id uuid.UUID) context.Context {
	return context.WithValue(ctx, userIDKey, id)
}

func UserIDFromCtx(ctx context.Context) (uuid.UUID, bool) {
	id, ok := ctx.Value(userIDKey).(uuid.UUID)
	return id, ok && id != uuid.Nil
}

// CallerID returns the authenticated subject of r. When there is none it
// writes 401 and reports false, so handlers reached without Guard.Wrap fail
// closed.
func CallerID(w http.ResponseWriter, r *http.Request, log *zap.Logger) (uuid.UUID, bool) {
	id, ok := UserIDFromCtx(r.Context())
	if !ok {
		httpx.WriteError(w, r, log, httpx.Unauthorized(msgTokenMissing))
	}
	return id, ok
}

// Guard admits requests that carry a valid access token and puts the subject
// into the request context. It never touches the refresh store.
type Guard struct {
	parse func(token string) (uuid.UUID, error)
	log   *zap.Logger
}

func NewGuard(parse func(token string) (uuid.UUID, error), log *zap.Logger) *Guard {
	if log == nil {
		log = zap.NewNop()
	}
	return &Guard{parse: parse, log: log}
}

func (g *Guard) Wrap(next runtime.HandlerFunc) runtime.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request, params map[string]string) {
		token, ok := bearer(r.Header.Get("Authorization"))
		if !ok {
			g.reject(w, r, msgTokenMissing, nil)
			return
		}
		uid, err := g.parse(token)
		if err != nil {
			g.reject(w, r, msgTokenInvalid, err)
			return
		}
		next(w, r.WithContext(WithUserID(r.Context(), uid)), params)
	}
}

func (g *Guard) reject(w http.ResponseWriter, r *http.Request, msg string, cause error) {
	obs.WithTrace(r.Context(), g.log).Debug("auth guard rejected",
		zap.String("path", r.URL.Path), zap.String("reason", msg), zap.Error(cause))
	httpx.WriteError(w, r, g.log, httpx.Unauthorized(msg))
}

// bearer extracts the token from an "Authorization: Bearer <token>" value.
func bearer(header string) (string, bool) {
	scheme, token, ok := strings.Cut(strings.TrimSpace(header), " ")
	if !ok || !strings.EqualFold(scheme, "bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}

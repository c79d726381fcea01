package auth

import (
	"errors"
	"net/http"

	tokens "github.com/NordCoder/Noteboard/internal/auth"
	"github.com/NordCoder/Noteboard/internal/services/notes-api/httpx"
	"github.com/grpc-ecosystem/grpc-gateway/v2/runtime"
	"go.uber.org/zap"
)

const (
	msgInvalidCredentials = "Invalid credentials."
	msgEmailInUse         = "Email already in use."
	msgRefreshMissing     = "Refresh token not found."
	msgRefreshInvalid     = "Invalid or expired refresh token."
	msgLoggedOut          = "Logout successful."
)

type Controller struct {
	uc     *Usecase
	cookie CookieConfig
	guard  *Guard
	log    *zap.Logger
}

func NewController(uc *Usecase, cookie CookieConfig, guard *Guard, log *zap.Logger) *Controller {
	if log == nil {
		log = zap.NewNop()
	}
	return &Controller{uc: uc, cookie: cookie, guard: guard, log: log.With(zap.String("component", "auth"))}
}

// Register mounts the /auth routes under prefix.
func (c *Controller) Register(mux *runtime.ServeMux, prefix string) error {
	routes := []struct {
		method, path string
		h            runtime.HandlerFunc
	}{
		{http.MethodPost, "/auth/register", c.register},
		{http.MethodPost, "/auth/login", c.login},
		{http.MethodPost, "/auth/refresh", c.refresh},
		{http.MethodPost, "/auth/logout", c.logout},
		{http.MethodGet, "/auth/me", c.guard.Wrap(c.me)},
	}
	for _, rt := range routes {
		if err := mux.HandlePath(rt.method, prefix+rt.path, rt.h); err != nil {
			return err
		}
	}
	return nil
}

type registerRequest struct {
	Name     string `json:"name" validate:"required,min=3"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8,maxbytes=72"`
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type userResponse struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

type tokenResponse struct {
	AccessToken string `json:"accessToken"`
}

func (c *Controller) register(w http.ResponseWriter, r *http.Request, _ map[string]string) {
	var req registerRequest
	if err := httpx.DecodeJSON(w, r, &req); err != nil {
		httpx.WriteError(w, r, c.log, err)
		return
	}
	if err := httpx.Validate(req); err != nil {
		httpx.WriteError(w, r, c.log, err)
		return
	}
	u, err := c.uc.Register(r.Context(), RegisterInput{Name: req.Name, Email: req.Email, Password: req.Password})
	if err != nil {
		httpx.WriteError(w, r, c.log, mapErr(err))
		return
	}
	c.log.Info("auth.register", zap.String("user_id", u.ID.String()))
	httpx.WriteJSON(w, http.StatusCreated, userResponse{ID: u.ID.String(), Name: u.Name, Email: u.Email})
}

func (c *Controller) login(w http.ResponseWriter, r *http.Request, _ map[string]string) {
	var req loginRequest
	if err := httpx.DecodeJSON(w, r, &req); err != nil {
		httpx.WriteError(w, r, c.log, err)
		return
	}
	if err := httpx.Validate(req); err != nil {
		httpx.WriteError(w, r, c.log, err)
		return
	}
	s, err := c.uc.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		httpx.WriteError(w, r, c.log, mapErr(err))
		return
	}
	c.cookie.set(w, s.RefreshToken)
	httpx.WriteJSON(w, http.StatusOK, tokenResponse{AccessToken: s.AccessToken})
}

func (c *Controller) refresh(w http.ResponseWriter, r *http.Request, _ map[string]string) {
	access, err := c.uc.Refresh(r.Context(), c.cookie.read(r))
	if err != nil {
		httpx.WriteError(w, r, c.log, mapErr(err))
		return
	}
	httpx.WriteJSON(w, http.StatusOK, tokenResponse{AccessToken: access})
}

func (c *Controller) logout(w http.ResponseWriter, r *http.Request, _ map[string]string) {
	c.uc.Logout(r.Context(), c.cookie.read(r))
	c.cookie.clear(w)
	httpx.WriteMessage(w, http.StatusOK, msgLoggedOut)
}

func (c *Controller) me(w http.ResponseWriter, r *http.Request, _ map[string]string) {
	id, ok := CallerID(w, r, c.log)
	if !ok {
		return
	}
	u, err := c.uc.Me(r.Context(), id)
	if err != nil {
		httpx.WriteError(w, r, c.log, mapErr(err))
		return
	}
	httpx.WriteJSON(w, http.StatusOK, userResponse{ID: u.ID.String(), Name: u.Name, Email: u.Email})
}

func mapErr(err error) error {
	switch {
	case errors.Is(err, ErrInvalidCredentials):
		return httpx.Unauthorized(msgInvalidCredentials)
	case errors.Is(err, ErrEmailInUse):
		return httpx.BadRequest(msgEmailInUse)
	case errors.Is(err, tokens.ErrPasswordTooLong):
		return &httpx.APIError{
			Status:  http.StatusBadRequest,
			Message: httpx.MsgValidation,
			Errors:  []httpx.FieldError{{Field: "password", Message: "must be at most 72 bytes"}},
		}
	case errors.Is(err, ErrMissingToken):
		return httpx.Unauthorized(msgRefreshMissing)
	case errors.Is(err, ErrInvalidOrExpiredToken):
		return httpx.Forbidden(msgRefreshInvalid)
	case errors.Is(err, ErrUnauthenticated):
		return httpx.Unauthorized(msgTokenInvalid)
	default:
		return err
	}
}

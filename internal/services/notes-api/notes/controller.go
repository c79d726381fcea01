package notes

import (
	"errors"
	"net/http"

	"github.com/NordCoder/Noteboard/internal/services/notes-api/auth"
	"github.com/NordCoder/Noteboard/internal/services/notes-api/httpx"
	"github.com/google/uuid"
	"github.com/grpc-ecosystem/grpc-gateway/v2/runtime"
	"go.uber.org/zap"
)

const (
	msgRequired  = "Title and content are required."
	msgNotFound  = "Note not found or not authorized."
	msgListFail  = "Error fetching notes."
	msgCreateErr = "Error creating note."
	msgDeleteErr = "Error deleting note."
)

type Controller struct {
	uc    *Usecase
	guard *auth.Guard
	log   *zap.Logger
}

func NewController(uc *Usecase, guard *auth.Guard, log *zap.Logger) *Controller {
	if log == nil {
		log = zap.NewNop()
	}
	return &Controller{uc: uc, guard: guard, log: log.With(zap.String("component", "notes"))}
}

func (c *Controller) Register(mux *runtime.ServeMux, prefix string) error {
	if err := mux.HandlePath(http.MethodGet, prefix+"/notes", c.guard.Wrap(c.list)); err != nil {
		return err
	}
	if err := mux.HandlePath(http.MethodPost, prefix+"/notes", c.guard.Wrap(c.create)); err != nil {
		return err
	}
	return mux.HandlePath(http.MethodDelete, prefix+"/notes/{id}", c.guard.Wrap(c.delete))
}

type createRequest struct {
	Title   string `json:"title" validate:"required"`
	Content string `json:"content" validate:"required"`
}

func (c *Controller) list(w http.ResponseWriter, r *http.Request, _ map[string]string) {
	uid, ok := auth.CallerID(w, r, c.log)
	if !ok {
		return
	}
	ns, err := c.uc.List(r.Context(), uid)
	if err != nil {
		c.fail(w, r, err, msgListFail)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, ns)
}

func (c *Controller) create(w http.ResponseWriter, r *http.Request, _ map[string]string) {
	uid, ok := auth.CallerID(w, r, c.log)
	if !ok {
		return
	}
	var req createRequest
	if err := httpx.DecodeJSON(w, r, &req); err != nil {
		httpx.WriteError(w, r, c.log, err)
		return
	}
	if err := httpx.Validate(req); err != nil {
		httpx.WriteError(w, r, c.log, httpx.BadRequest(msgRequired))
		return
	}
	n, err := c.uc.Create(r.Context(), uid, req.Title, req.Content)
	if err != nil {
		c.fail(w, r, err, msgCreateErr)
		return
	}
	httpx.WriteJSON(w, http.StatusCreated, n)
}

func (c *Controller) delete(w http.ResponseWriter, r *http.Request, params map[string]string) {
	uid, ok := auth.CallerID(w, r, c.log)
	if !ok {
		return
	}
	id, err := uuid.Parse(params["id"])
	if err != nil {
		httpx.WriteError(w, r, c.log, httpx.NotFound(msgNotFound))
		return
	}
	if err := c.uc.Delete(r.Context(), uid, id); err != nil {
		if errors.Is(err, ErrNotFound) {
			httpx.WriteError(w, r, c.log, httpx.NotFound(msgNotFound))
			return
		}
		c.fail(w, r, err, msgDeleteErr)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (c *Controller) fail(w http.ResponseWriter, r *http.Request, err error, msg string) {
	c.log.Error("notes request failed", zap.String("path", r.URL.Path), zap.Error(err))
	httpx.WriteJSON(w, http.StatusInternalServerError, httpx.NewError(http.StatusInternalServerError, msg))
}

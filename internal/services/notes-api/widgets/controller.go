package widgets

import (
	"errors"
	"net/http"

	"github.com/NordCoder/Noteboard/internal/obs"
	"github.com/NordCoder/Noteboard/internal/services/notes-api/auth"
	"github.com/NordCoder/Noteboard/internal/services/notes-api/httpx"
	"github.com/grpc-ecosystem/grpc-gateway/v2/runtime"
	"go.uber.org/zap"
)

const (
	msgUserRequired = `Parameter "user" is required.`
	msgGitHubFail   = "Error fetching GitHub repositories."
	msgPokemonFail  = "Error fetching Pokémon data."
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
	return &Controller{uc: uc, guard: guard, log: log.With(zap.String("component", "widgets"))}
}

func (c *Controller) Register(mux *runtime.ServeMux, prefix string) error {
	if err := mux.HandlePath(http.MethodGet, prefix+"/widgets/github", c.guard.Wrap(c.github)); err != nil {
		return err
	}
	if err := mux.HandlePath(http.MethodGet, prefix+"/widgets/pokemon", c.guard.Wrap(c.pokemon)); err != nil {
		return err
	}
	return mux.HandlePath(http.MethodGet, prefix+"/widgets/weather", c.guard.Wrap(c.weather))
}

func (c *Controller) github(w http.ResponseWriter, r *http.Request, _ map[string]string) {
	user := r.URL.Query().Get("user")
	if user == "" {
		httpx.WriteError(w, r, c.log, httpx.BadRequest(msgUserRequired))
		return
	}
	repos, err := c.uc.GitHubRepos(r.Context(), user)
	if err != nil {
		c.upstreamFail(w, r, err, msgGitHubFail)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, repos)
}

func (c *Controller) pokemon(w http.ResponseWriter, r *http.Request, _ map[string]string) {
	p, err := c.uc.RandomPokemon(r.Context())
	if err != nil {
		c.upstreamFail(w, r, err, msgPokemonFail)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, p)
}

func (c *Controller) weather(w http.ResponseWriter, r *http.Request, _ map[string]string) {
	httpx.WriteJSON(w, http.StatusOK, c.uc.Weather(r.URL.Query().Get("city")))
}

// upstreamFail mirrors the third party's status code when there is one.
func (c *Controller) upstreamFail(w http.ResponseWriter, r *http.Request, err error, msg string) {
	status := http.StatusInternalServerError
	var ue *UpstreamError
	if errors.As(err, &ue) && ue.Status >= 400 {
		status = ue.Status
	}
	obs.WithTrace(r.Context(), c.log).Warn("widget upstream failed", zap.Int("status", status), zap.Error(err))
	httpx.WriteJSON(w, status, httpx.NewError(status, msg))
}

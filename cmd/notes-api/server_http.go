package main

import (
	"net/http"
	"strings"
	"time"

	config "github.com/NordCoder/Noteboard/internal/config/notes-api"
	"github.com/NordCoder/Noteboard/internal/obs"
	"github.com/NordCoder/Noteboard/internal/services/notes-api/auth"
	"github.com/NordCoder/Noteboard/internal/services/notes-api/notes"
	"github.com/NordCoder/Noteboard/internal/services/notes-api/widgets"
	"github.com/grpc-ecosystem/grpc-gateway/v2/runtime"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"
	"go.uber.org/zap"
)

type controllers struct {
	auth    *auth.Controller
	notes   *notes.Controller
	widgets *widgets.Controller
}

func buildHTTPServer(cfg *config.Config, logger *zap.Logger, ctrls controllers, health obs.HealthCheck) (*http.Server, error) {
	mux := runtime.NewServeMux(
		runtime.WithMarshalerOption(runtime.MIMEWildcard, &runtime.JSONBuiltin{}),
	)
	prefix := strings.TrimRight(cfg.Server.APIPrefix, "/")
	if err := ctrls.auth.Register(mux, prefix); err != nil {
		return nil, err
	}
	if err := ctrls.notes.Register(mux, prefix); err != nil {
		return nil, err
	}
	if err := ctrls.widgets.Register(mux, prefix); err != nil {
		return nil, err
	}

	root := http.NewServeMux()
	root.Handle("/", mux)
	root.Handle("/metrics", promhttp.Handler())
	root.Handle("/healthz", obs.HealthHandler(health))

	c := cors.New(cors.Options{
		AllowedOrigins:   cfg.Server.CORSOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           600,
	})

	var handler http.Handler = root
	handler = obs.AccessLog(logger, routeLabel(prefix))(handler)
	handler = c.Handler(handler)
	handler = obs.HTTPHandler(handler, "notes-api")

	return &http.Server{
		Addr:              cfg.Server.HTTPAddr,
		Handler:           handler,
		ReadTimeout:       cfg.Server.ReadTimeout,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      cfg.Server.WriteTimeout,
		IdleTimeout:       cfg.Server.IdleTimeout,
	}, nil
}

// knownRoutes lists the registered paths, without the api prefix.
var knownRoutes = []string{
	"/auth/register", "/auth/login", "/auth/refresh", "/auth/logout", "/auth/me",
	"/notes",
	"/widgets/github", "/widgets/pokemon", "/widgets/weather",
}

// routeLabel folds note ids and sends every unregistered path to
// obs.RouteOther so the metrics label set stays bounded.
func routeLabel(prefix string) obs.RouteFunc {
	exact := map[string]struct{}{"/metrics": {}, "/healthz": {}}
	for _, p := range knownRoutes {
		exact[prefix+p] = struct{}{}
	}
	notesItem := prefix + "/notes/"
	return func(r *http.Request) string {
		p := r.URL.Path
		if _, ok := exact[p]; ok {
			return p
		}
		if id, ok := strings.CutPrefix(p, notesItem); ok && id != "" && !strings.Contains(id, "/") {
			return notesItem + "{id}"
		}
		return obs.RouteOther
	}
}

func serveHTTP(srv *http.Server, logger *zap.Logger) error {
	logger.Info("http listening", zap.String("addr", srv.Addr))
	return srv.ListenAndServe()
}

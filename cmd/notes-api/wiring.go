package main

import (
	"fmt"

	tokens "github.com/NordCoder/Noteboard/internal/auth"
	config "github.com/NordCoder/Noteboard/internal/config/notes-api"
	"github.com/NordCoder/Noteboard/internal/obs/retry"
	"github.com/NordCoder/Noteboard/internal/outbox"
	"github.com/NordCoder/Noteboard/internal/repository/kafka"
	pg "github.com/NordCoder/Noteboard/internal/repository/postgres"
	"github.com/NordCoder/Noteboard/internal/services/notes-api/auth"
	"github.com/NordCoder/Noteboard/internal/services/notes-api/notes"
	"github.com/NordCoder/Noteboard/internal/services/notes-api/widgets"
	"go.uber.org/zap"
)

type app struct {
	authUC   *auth.Usecase
	ctrls    controllers
	relay    *outbox.Runner
	producer *kafka.Producer
}

func wiring(cfg *config.Config, db *pg.DB, store *refreshStore, l *zap.Logger) (*app, error) {
	issuer := tokens.NewIssuer([]byte(cfg.Auth.JWTSecret), cfg.Auth.AccessTTL, nil)
	passwords, err := tokens.NewPasswords(cfg.Auth.BcryptCost)
	if err != nil {
		return nil, fmt.Errorf("passwords: %w", err)
	}

	users := pg.NewUserRepo(db)
	outboxRepo := pg.NewOutboxRepo(db)

	authUC := auth.NewUseCase(
		users, store, issuer, passwords,
		pg.NewTransactor(db, l), outboxRepo,
		auth.Config{RefreshTTL: cfg.Auth.RefreshTTL},
		l,
	)
	guard := auth.NewGuard(authUC.ParseAccess, l.Named("auth.guard"))

	cookie := auth.CookieConfig{
		Name:   cfg.Auth.CookieName,
		Path:   cfg.Auth.CookiePath,
		Domain: cfg.Auth.CookieDomain,
		Secure: cfg.Auth.CookieSecure,
		MaxAge: cfg.Auth.RefreshTTL,
	}

	httpClient := widgets.NewHTTPClient(widgets.ClientConfig{
		Timeout:   cfg.Widgets.Timeout,
		UserAgent: cfg.Widgets.UserAgent,
	})
	widgetsUC := widgets.New(httpClient, widgets.Config{
		GitHubBaseURL:  cfg.Widgets.GitHubBaseURL,
		PokeAPIBaseURL: cfg.Widgets.PokeAPIBaseURL,
		UserAgent:      cfg.Widgets.UserAgent,
	})

	a := &app{
		authUC: authUC,
		ctrls: controllers{
			auth:    auth.NewController(authUC, cookie, guard, l),
			notes:   notes.NewController(notes.New(pg.NewNoteRepo(db)), guard, l),
			widgets: widgets.NewController(widgetsUC, guard, l),
		},
	}

	if cfg.Kafka.Enable {
		a.producer = kafka.NewProducer(cfg.Kafka.Brokers, cfg.Kafka.Topic).WithLogger(l)
		dispatch := outbox.NewDispatcher(
			kafka.NewUserEventsKafka(a.producer),
			retry.PublishPolicy("outbox.publish", l),
		)
		a.relay = outbox.NewRunner(l, outboxRepo, dispatch, cfg.Outbox)
	} else {
		l.Warn("kafka disabled: user events stay in the outbox until a relay runs")
	}
	return a, nil
}

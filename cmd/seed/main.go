package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"time"

	tokens "github.com/NordCoder/Noteboard/internal/auth"
	config "github.com/NordCoder/Noteboard/internal/config/notes-api"
	"github.com/NordCoder/Noteboard/internal/obs"
	pg "github.com/NordCoder/Noteboard/internal/repository/postgres"
	"go.uber.org/zap"
	"golang.org/x/term"
)

func terminalPrompt(out io.Writer) (string, bool, error) {
	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		return "", false, nil
	}
	_, _ = fmt.Fprintf(out, "Password for %s (empty for default): ", demoEmail)
	b, err := term.ReadPassword(fd)
	_, _ = fmt.Fprintln(out)
	if err != nil {
		return "", false, err
	}
	return string(b), true, nil
}

func main() {
	configPath := flag.String("config", os.Getenv("NOTES_API_CONFIG"), "path to the notes-api yaml config")
	password := flag.String("password", "", "demo user password")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatal(err)
	}
	l, err := obs.NewLogger(obs.LogConfig{Level: cfg.Log.Level, Pretty: true, App: "noteboard/seed", Env: cfg.App.Env})
	if err != nil {
		log.Fatal(err)
	}
	defer func() { _ = l.Sync() }()

	pw, err := resolvePassword(*password, os.Getenv("SEED_PASSWORD"), terminalPrompt, os.Stderr)
	if err != nil {
		l.Fatal("read password", zap.Error(err))
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	db, err := pg.NewDB(ctx, cfg.DB)
	if err != nil {
		l.Fatal("db connect", zap.Error(err))
	}
	defer db.Close()

	hasher, err := tokens.NewPasswords(cfg.Auth.BcryptCost)
	if err != nil {
		l.Fatal("passwords", zap.Error(err))
	}

	u, err := seedDemoUser(ctx, pg.NewUserRepo(db), hasher, pw, time.Now().UTC())
	if err != nil {
		l.Fatal("seed", zap.Error(err))
	}
	l.Info("demo user created", zap.String("id", u.ID.String()), zap.String("email", u.Email))
}

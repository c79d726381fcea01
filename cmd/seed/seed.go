package main

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/NordCoder/Noteboard/internal/domain/user"
	"github.com/google/uuid"
)

const (
	demoEmail    = "test@example.com"
	demoName     = "Test User"
	demoPassword = "password123"
)

type userStore interface {
	DeleteByEmail(ctx context.Context, email string) error
	Create(ctx context.Context, u *user.User) error
}

type hasher interface {
	Hash(password string) (string, error)
}

// promptFunc reads a password without echo; ok is false when there is no terminal.
type promptFunc func(out io.Writer) (pw string, ok bool, err error)

// resolvePassword picks the first non-empty of flag, env and prompt, then the default.
func resolvePassword(flagVal, envVal string, prompt promptFunc, out io.Writer) (string, error) {
	if flagVal != "" {
		return flagVal, nil
	}
	if envVal != "" {
		return envVal, nil
	}
	if prompt != nil {
		pw, ok, err := prompt(out)
		if err != nil {
			return "", err
		}
		if ok && strings.TrimSpace(pw) != "" {
			return pw, nil
		}
	}
	return demoPassword, nil
}

// seedDemoUser replaces the demo account so repeated runs are idempotent.
func seedDemoUser(ctx context.Context, users userStore, pw hasher, password string, now time.Time) (*user.User, error) {
	hash, err := pw.Hash(password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	if err := users.DeleteByEmail(ctx, demoEmail); err != nil {
		return nil, fmt.Errorf("delete old demo user: %w", err)
	}
	u := &user.User{
		ID:        uuid.New(),
		Name:      demoName,
		Email:     demoEmail,
		Password:  hash,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := users.Create(ctx, u); err != nil {
		return nil, fmt.Errorf("create demo user: %w", err)
	}
	return u, nil
}

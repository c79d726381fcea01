package main

import (
	"bytes"
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/NordCoder/Noteboard/internal/domain/user"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeUsers struct {
	byEmail   map[string]*user.User
	deleted   []string
	createErr error
}

func (f *fakeUsers) DeleteByEmail(_ context.Context, email string) error {
	f.deleted = append(f.deleted, email)
	delete(f.byEmail, email)
	return nil
}

func (f *fakeUsers) Create(_ context.Context, u *user.User) error {
	if f.createErr != nil {
		return f.createErr
	}
	f.byEmail[u.Email] = u
	return nil
}

type plainHasher struct{}

func (plainHasher) Hash(p string) (string, error) { return "hashed:" + p, nil }

func TestResolvePassword(t *testing.T) {
	never := func(io.Writer) (string, bool, error) { t.Fatal("prompt must not run"); return "", false, nil }
	noTTY := func(io.Writer) (string, bool, error) { return "", false, nil }
	typed := func(io.Writer) (string, bool, error) { return "typed-pw", true, nil }
	blank := func(io.Writer) (string, bool, error) { return "  ", true, nil }

	cases := []struct {
		name         string
		flagVal, env string
		prompt       promptFunc
		want         string
	}{
		{"flag wins", "from-flag", "from-env", never, "from-flag"},
		{"env next", "", "from-env", never, "from-env"},
		{"prompt", "", "", typed, "typed-pw"},
		{"blank prompt falls back", "", "", blank, demoPassword},
		{"no terminal falls back", "", "", noTTY, demoPassword},
		{"nil prompt", "", "", nil, demoPassword},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := resolvePassword(tc.flagVal, tc.env, tc.prompt, &bytes.Buffer{})
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}

	_, err := resolvePassword("", "", func(io.Writer) (string, bool, error) {
		return "", false, errors.New("tty gone")
	}, &bytes.Buffer{})
	require.Error(t, err)
}

func TestSeedDemoUser_ReplacesExisting(t *testing.T) {
	old := &user.User{Email: demoEmail, Name: "Old"}
	users := &fakeUsers{byEmail: map[string]*user.User{demoEmail: old}}
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	u, err := seedDemoUser(context.Background(), users, plainHasher{}, "s3cret", now)
	require.NoError(t, err)

	assert.Equal(t, []string{demoEmail}, users.deleted)
	assert.Equal(t, demoName, u.Name)
	assert.Equal(t, "hashed:s3cret", u.Password)
	assert.Equal(t, now, u.CreatedAt)
	assert.Same(t, u, users.byEmail[demoEmail])
}

func TestSeedDemoUser_CreateFails(t *testing.T) {
	users := &fakeUsers{byEmail: map[string]*user.User{}, createErr: errors.New("boom")}
	_, err := seedDemoUser(context.Background(), users, plainHasher{}, "pw", time.Now())
	require.ErrorContains(t, err, "create demo user")
}

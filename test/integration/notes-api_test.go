//go:build integration

package integration

import (
	"encoding/json"
	"fmt"
	"net/http"
	"testing"
	"time"

	kafkax "github.com/NordCoder/Noteboard/internal/repository/kafka"
	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/structpb"
)

type userDTO struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

type tokenDTO struct {
	AccessToken string `json:"accessToken"`
}

type noteDTO struct {
	ID      string `json:"id"`
	Title   string `json:"title"`
	Content string `json:"content"`
}

func uniqueEmail(tag string) string {
	return fmt.Sprintf("it-%s-%s@example.com", tag, uuid.NewString()[:8])
}

func TestSessionLifecycle(t *testing.T) {
	cfg := LoadCfg()
	WaitHealthz(t, cfg.APIBase+"/healthz", 60*time.Second)
	b := NewBrowser(t)

	email := uniqueEmail("session")
	pass := "correcthorse"

	var u userDTO
	require.NoError(t, json.Unmarshal(b.Expect(http.MethodPost, cfg.URL("/auth/register"), map[string]string{
		"name": "Ann", "email": email, "password": pass,
	}, "", http.StatusCreated), &u))
	assert.Equal(t, email, u.Email)

	b.Expect(http.MethodPost, cfg.URL("/auth/register"), map[string]string{
		"name": "Ann", "email": email, "password": pass,
	}, "", http.StatusBadRequest)

	b.Expect(http.MethodPost, cfg.URL("/auth/login"), map[string]string{
		"email": email, "password": "wrong-password",
	}, "", http.StatusUnauthorized)

	code, body, resp := b.Do(http.MethodPost, cfg.URL("/auth/login"), map[string]string{
		"email": email, "password": pass,
	}, "")
	require.Equal(t, http.StatusOK, code, string(body))
	var tok tokenDTO
	require.NoError(t, json.Unmarshal(body, &tok))
	require.NotEmpty(t, tok.AccessToken)

	var rc *http.Cookie
	for _, c := range resp.Cookies() {
		if c.Name == "refreshToken" {
			rc = c
		}
	}
	require.NotNil(t, rc, "refresh cookie missing")
	assert.True(t, rc.HttpOnly)
	assert.Equal(t, http.SameSiteStrictMode, rc.SameSite)

	var me userDTO
	require.NoError(t, json.Unmarshal(b.Expect(http.MethodGet, cfg.URL("/auth/me"), nil, tok.AccessToken, http.StatusOK), &me))
	assert.Equal(t, u.ID, me.ID)

	var n noteDTO
	require.NoError(t, json.Unmarshal(b.Expect(http.MethodPost, cfg.URL("/notes"), map[string]string{
		"title": "groceries", "content": "milk",
	}, tok.AccessToken, http.StatusCreated), &n))

	var list []noteDTO
	require.NoError(t, json.Unmarshal(b.Expect(http.MethodGet, cfg.URL("/notes"), nil, tok.AccessToken, http.StatusOK), &list))
	require.Len(t, list, 1)
	assert.Equal(t, n.ID, list[0].ID)

	b.Expect(http.MethodGet, cfg.URL("/notes"), nil, "", http.StatusUnauthorized)
	b.Expect(http.MethodGet, cfg.URL("/notes"), nil, "garbage", http.StatusUnauthorized)

	var refreshed tokenDTO
	require.NoError(t, json.Unmarshal(b.Expect(http.MethodPost, cfg.URL("/auth/refresh"), nil, "", http.StatusOK), &refreshed))
	require.NotEmpty(t, refreshed.AccessToken)
	b.Expect(http.MethodGet, cfg.URL("/notes"), nil, refreshed.AccessToken, http.StatusOK)

	b.Expect(http.MethodDelete, cfg.URL("/notes/"+n.ID), nil, refreshed.AccessToken, http.StatusNoContent)

	b.Expect(http.MethodPost, cfg.URL("/auth/logout"), nil, "", http.StatusOK)
	b.Expect(http.MethodPost, cfg.URL("/auth/refresh"), nil, "", http.StatusUnauthorized)
	b.Expect(http.MethodPost, cfg.URL("/auth/logout"), nil, "", http.StatusOK)
}

func TestRefresh_ForgedCookie(t *testing.T) {
	cfg := LoadCfg()
	WaitHealthz(t, cfg.APIBase+"/healthz", 60*time.Second)

	req, _ := http.NewRequest(http.MethodPost, cfg.URL("/auth/refresh"), nil)
	req.AddCookie(&http.Cookie{Name: "refreshToken", Value: "not-a-real-token"})
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	_ = resp.Body.Close()
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func TestNotes_OtherUsersNoteIsHidden(t *testing.T) {
	cfg := LoadCfg()
	WaitHealthz(t, cfg.APIBase+"/healthz", 60*time.Second)

	login := func(b *Browser, tag string) string {
		email := uniqueEmail(tag)
		b.Expect(http.MethodPost, cfg.URL("/auth/register"), map[string]string{
			"name": "User " + tag, "email": email, "password": "password123",
		}, "", http.StatusCreated)
		var tok tokenDTO
		require.NoError(t, json.Unmarshal(b.Expect(http.MethodPost, cfg.URL("/auth/login"), map[string]string{
			"email": email, "password": "password123",
		}, "", http.StatusOK), &tok))
		return tok.AccessToken
	}
	ann, bob := NewBrowser(t), NewBrowser(t)
	annTok, bobTok := login(ann, "ann"), login(bob, "bob")

	var n noteDTO
	require.NoError(t, json.Unmarshal(ann.Expect(http.MethodPost, cfg.URL("/notes"), map[string]string{
		"title": "secret", "content": "mine",
	}, annTok, http.StatusCreated), &n))

	bob.Expect(http.MethodDelete, cfg.URL("/notes/"+n.ID), nil, bobTok, http.StatusNotFound)

	var list []noteDTO
	require.NoError(t, json.Unmarshal(bob.Expect(http.MethodGet, cfg.URL("/notes"), nil, bobTok, http.StatusOK), &list))
	assert.Empty(t, list)
}

func TestRegister_PublishesUserRegistered(t *testing.T) {
	cfg := LoadCfg()
	WaitHealthz(t, cfg.APIBase+"/healthz", 60*time.Second)
	EnsureTopic(t, cfg.KafkaBootstrap, cfg.UserTopic)
	b := NewBrowser(t)

	email := uniqueEmail("event")
	var u userDTO
	require.NoError(t, json.Unmarshal(b.Expect(http.MethodPost, cfg.URL("/auth/register"), map[string]string{
		"name": "Evented", "email": email, "password": "password123",
	}, "", http.StatusCreated), &u))

	found := ReadUntil(t, cfg.KafkaBootstrap, cfg.UserTopic, 30*time.Second, func(m kafka.Message) bool {
		if string(m.Key) != u.ID {
			return false
		}
		var s structpb.Struct
		if err := proto.Unmarshal(m.Value, &s); err != nil {
			return false
		}
		ev, err := kafkax.DecodeUserRegistered(&s)
		return err == nil && ev.Email == email
	})
	assert.True(t, found, "user.registered for %s not on %s", u.ID, cfg.UserTopic)

	db := DBOpen(t, cfg.DBDSN)
	defer db.Close()
	WaitNotification(t, db, uuid.MustParse(u.ID), 30*time.Second)
}

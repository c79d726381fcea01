package auth

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func (h *harness) do(t *testing.T, method, path, body string, mods ...func(*http.Request)) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	for _, m := range mods {
		m(req)
	}
	rr := httptest.NewRecorder()
	h.mux.ServeHTTP(rr, req)
	return rr
}

func withBearer(tok string) func(*http.Request) {
	return func(r *http.Request) { r.Header.Set("Authorization", "Bearer "+tok) }
}

func withCookie(c *http.Cookie) func(*http.Request) {
	return func(r *http.Request) { r.AddCookie(&http.Cookie{Name: c.Name, Value: c.Value}) }
}

func refreshCookie(t *testing.T, rr *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()
	for _, c := range rr.Result().Cookies() {
		if c.Name == "refreshToken" {
			return c
		}
	}
	t.Fatalf("no refreshToken cookie in %v", rr.Header().Values("Set-Cookie"))
	return nil
}

func decode(t *testing.T, rr *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var m map[string]any
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &m), rr.Body.String())
	return m
}

const annBody = `{"name":"Ann","email":"ann@x.com","password":"longenough1"}`
const annLogin = `{"email":"ann@x.com","password":"longenough1"}`

func TestHTTP_AnnScenario(t *testing.T) {
	h := newHarness(t)

	rr := h.do(t, http.MethodPost, "/auth/register", annBody)
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	reg := decode(t, rr)
	assert.Equal(t, "Ann", reg["name"])
	assert.Equal(t, "ann@x.com", reg["email"])
	assert.NotEmpty(t, reg["id"])
	assert.NotContains(t, rr.Body.String(), "password")
	assert.Empty(t, rr.Header().Values("Set-Cookie"))

	rr = h.do(t, http.MethodPost, "/auth/login", annLogin)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	access, _ := decode(t, rr)["accessToken"].(string)
	require.NotEmpty(t, access)
	cookie := refreshCookie(t, rr)

	rr = h.do(t, http.MethodGet, "/auth/me", "", withBearer(access))
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	assert.Equal(t, "ann@x.com", decode(t, rr)["email"])

	rr = h.do(t, http.MethodGet, "/auth/me", "")
	assert.Equal(t, http.StatusUnauthorized, rr.Code)

	rr = h.do(t, http.MethodPost, "/auth/logout", "", withCookie(cookie))
	assert.Equal(t, http.StatusOK, rr.Code)

	rr = h.do(t, http.MethodPost, "/auth/refresh", "", withCookie(cookie))
	assert.Equal(t, http.StatusForbidden, rr.Code)
}

func TestHTTP_LoginCookieAttributes(t *testing.T) {
	for _, secure := range []bool{false, true} {
		var opts []harnessOpt
		if secure {
			opts = append(opts, withSecureCookie())
		}
		h := newHarness(t, opts...)
		require.Equal(t, http.StatusCreated, h.do(t, http.MethodPost, "/auth/register", annBody).Code)

		rr := h.do(t, http.MethodPost, "/auth/login", annLogin)
		require.Equal(t, http.StatusOK, rr.Code)
		c := refreshCookie(t, rr)

		assert.True(t, c.HttpOnly)
		assert.Equal(t, http.SameSiteStrictMode, c.SameSite)
		assert.Equal(t, 604800, c.MaxAge)
		assert.Equal(t, secure, c.Secure)
		assert.Equal(t, "/", c.Path)
		assert.GreaterOrEqual(t, len(c.Value), 43)
	}
}

func TestHTTP_LoginNonEnumeration(t *testing.T) {
	h := newHarness(t)
	require.Equal(t, http.StatusCreated, h.do(t, http.MethodPost, "/auth/register", annBody).Code)

	wrong := h.do(t, http.MethodPost, "/auth/login", `{"email":"ann@x.com","password":"not-the-one"}`)
	unknown := h.do(t, http.MethodPost, "/auth/login", `{"email":"nobody@x.com","password":"longenough1"}`)

	assert.Equal(t, http.StatusUnauthorized, wrong.Code)
	assert.Equal(t, http.StatusUnauthorized, unknown.Code)
	assert.Equal(t, wrong.Body.String(), unknown.Body.String())
	assert.Equal(t, "Invalid credentials.", decode(t, wrong)["message"])
	assert.Empty(t, wrong.Header().Values("Set-Cookie"))
}

func TestHTTP_RegisterValidation(t *testing.T) {
	h := newHarness(t)

	rr := h.do(t, http.MethodPost, "/auth/register", `{"name":"An","email":"bad","password":"short"}`)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	body := decode(t, rr)
	assert.Len(t, body["errors"], 3)

	rr = h.do(t, http.MethodPost, "/auth/register", `not json`)
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	require.Equal(t, http.StatusCreated, h.do(t, http.MethodPost, "/auth/register", annBody).Code)
	rr = h.do(t, http.MethodPost, "/auth/register", annBody)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Equal(t, "Email already in use.", decode(t, rr)["message"])
}

func TestHTTP_RegisterOverlongPassword(t *testing.T) {
	h := newHarness(t)

	for _, pw := range []string{strings.Repeat("a", 80), strings.Repeat("é", 40)} {
		rr := h.do(t, http.MethodPost, "/auth/register", `{"name":"Bob","email":"bob@x.com","password":"`+pw+`"}`)
		require.Equal(t, http.StatusBadRequest, rr.Code, rr.Body.String())
		body := decode(t, rr)
		assert.Equal(t, "Validation failed.", body["message"])
		assert.Equal(t, []any{map[string]any{"field": "password", "message": "must be at most 72 bytes"}}, body["errors"])
	}

	rr := h.do(t, http.MethodPost, "/auth/register", `{"name":"Bob","email":"bob@x.com","password":"`+strings.Repeat("a", 72)+`"}`)
	assert.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())

	rr = h.do(t, http.MethodPost, "/auth/login", `{"email":"bob@x.com","password":"`+strings.Repeat("a", 80)+`"}`)
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestHTTP_Refresh(t *testing.T) {
	h := newHarness(t)
	require.Equal(t, http.StatusCreated, h.do(t, http.MethodPost, "/auth/register", annBody).Code)
	rr := h.do(t, http.MethodPost, "/auth/login", annLogin)
	require.Equal(t, http.StatusOK, rr.Code)
	cookie := refreshCookie(t, rr)

	rr = h.do(t, http.MethodPost, "/auth/refresh", "")
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
	assert.Equal(t, "Refresh token not found.", decode(t, rr)["message"])

	rr = h.do(t, http.MethodPost, "/auth/refresh", "", withCookie(&http.Cookie{Name: "refreshToken", Value: "forged"}))
	assert.Equal(t, http.StatusForbidden, rr.Code)
	assert.Equal(t, "Invalid or expired refresh token.", decode(t, rr)["message"])

	rr = h.do(t, http.MethodPost, "/auth/refresh", "", withCookie(cookie))
	require.Equal(t, http.StatusOK, rr.Code)
	access, _ := decode(t, rr)["accessToken"].(string)
	assert.NotEmpty(t, access)
	assert.Empty(t, rr.Header().Values("Set-Cookie"), "refresh must not rotate the cookie")

	h.clock.Advance(testRefreshTTL)
	rr = h.do(t, http.MethodPost, "/auth/refresh", "", withCookie(cookie))
	assert.Equal(t, http.StatusForbidden, rr.Code)
}

func TestHTTP_LogoutAlwaysClears(t *testing.T) {
	h := newHarness(t)

	for _, mods := range [][]func(*http.Request){
		nil,
		{withCookie(&http.Cookie{Name: "refreshToken", Value: "unknown"})},
	} {
		rr := h.do(t, http.MethodPost, "/auth/logout", "", mods...)
		assert.Equal(t, http.StatusOK, rr.Code)
		assert.Equal(t, "Logout successful.", decode(t, rr)["message"])
		c := refreshCookie(t, rr)
		assert.Empty(t, c.Value)
		assert.Less(t, c.MaxAge, 0)
	}
}

func TestHTTP_GuardRejectsExpiredAndForged(t *testing.T) {
	h := newHarness(t)
	require.Equal(t, http.StatusCreated, h.do(t, http.MethodPost, "/auth/register", annBody).Code)
	rr := h.do(t, http.MethodPost, "/auth/login", annLogin)
	access, _ := decode(t, rr)["accessToken"].(string)

	rr = h.do(t, http.MethodGet, "/auth/me", "", withBearer(access+"x"))
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
	assert.Equal(t, "Token is not valid or has expired.", decode(t, rr)["message"])

	rr = h.do(t, http.MethodGet, "/auth/me", "", func(r *http.Request) { r.Header.Set("Authorization", access) })
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
	assert.Equal(t, "Not authorized, no token found.", decode(t, rr)["message"])

	h.clock.Advance(testAccessTTL + time.Second)
	rr = h.do(t, http.MethodGet, "/auth/me", "", withBearer(access))
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestHTTP_StoreOutageIsInternal(t *testing.T) {
	h := newHarness(t)
	require.Equal(t, http.StatusCreated, h.do(t, http.MethodPost, "/auth/register", annBody).Code)
	h.users.err = assert.AnError

	rr := h.do(t, http.MethodPost, "/auth/login", annLogin)
	assert.Equal(t, http.StatusInternalServerError, rr.Code)
	assert.Equal(t, "Internal server error.", decode(t, rr)["message"])
	assert.NotContains(t, rr.Body.String(), assert.AnError.Error())
}

package auth

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	appcfg "github.com/ntkr/core/internal/config"
	"github.com/ntkr/core/internal/pkg/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

func newAuthRouter(t *testing.T, opts appcfg.AuthOptions) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	r := gin.New()
	NewHandler(opts, false, zap.NewNop()).RegisterRoutes(r.Group("/api"))
	return r
}

func login(r *gin.Engine, username, password string) *httptest.ResponseRecorder {
	payload, _ := json.Marshal(map[string]string{"username": username, "password": password})
	req := httptest.NewRequest(http.MethodPost, "/api/auth/login", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestLoginBcrypt(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("hunter2"), bcrypt.MinCost)
	require.NoError(t, err)
	r := newAuthRouter(t, appcfg.AuthOptions{Username: "owner", PasswordBcrypt: string(hash)})

	w := login(r, "owner", "hunter2")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	cookies := w.Result().Cookies()
	require.NotEmpty(t, cookies)
	var sessionCookie *http.Cookie
	for _, c := range cookies {
		if c.Name == session.CookieName {
			sessionCookie = c
		}
	}
	require.NotNil(t, sessionCookie)
	assert.True(t, sessionCookie.HttpOnly)

	claims, err := session.Parse(sessionCookie.Value)
	require.NoError(t, err)
	assert.Equal(t, "owner", claims.Username)
}

func TestLoginWrongPassword(t *testing.T) {
	hash, _ := bcrypt.GenerateFromPassword([]byte("hunter2"), bcrypt.MinCost)
	r := newAuthRouter(t, appcfg.AuthOptions{Username: "owner", PasswordBcrypt: string(hash)})

	w := login(r, "owner", "wrong")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = login(r, "intruder", "hunter2")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestLoginPlainPasswordFallback(t *testing.T) {
	r := newAuthRouter(t, appcfg.AuthOptions{Username: "owner", Password: "devpass"})

	w := login(r, "owner", "devpass")
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestLoginNotConfigured(t *testing.T) {
	r := newAuthRouter(t, appcfg.AuthOptions{})

	w := login(r, "owner", "anything")
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "Authentication not configured")
}

func TestLoginMissingFields(t *testing.T) {
	r := newAuthRouter(t, appcfg.AuthOptions{Username: "owner", Password: "devpass"})

	req := httptest.NewRequest(http.MethodPost, "/api/auth/login", strings.NewReader(`{"username":"owner"}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestLogoutClearsCookie(t *testing.T) {
	r := newAuthRouter(t, appcfg.AuthOptions{Username: "owner", Password: "devpass"})

	req := httptest.NewRequest(http.MethodPost, "/api/auth/logout", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	cookies := w.Result().Cookies()
	require.NotEmpty(t, cookies)
	assert.Equal(t, session.CookieName, cookies[0].Name)
	assert.Less(t, cookies[0].MaxAge, 0)
}

func TestMe(t *testing.T) {
	r := newAuthRouter(t, appcfg.AuthOptions{Username: "owner", Password: "devpass"})

	req := httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	token, err := session.Sign("owner")
	require.NoError(t, err)
	req = httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
	req.AddCookie(&http.Cookie{Name: session.CookieName, Value: token})
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "owner")
}

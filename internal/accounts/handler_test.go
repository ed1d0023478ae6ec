package accounts

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubIssuer struct {
	token string
	err   error
}

func (s *stubIssuer) Issue(accountID int64) (string, time.Time, error) {
	if s.err != nil {
		return "", time.Time{}, s.err
	}
	return s.token, time.Now().Add(time.Hour), nil
}

func newTestRouter(t *testing.T, svc *Service, issuer TokenIssuer) http.Handler {
	t.Helper()
	handler := NewHandler(nil, svc, issuer, nil)
	r := chi.NewRouter()
	handler.MountRoutes(r)
	return r
}

func postJSON(t *testing.T, router http.Handler, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	res := httptest.NewRecorder()
	router.ServeHTTP(res, req)
	return res
}

func TestSignup(t *testing.T) {
	svc := newTestService(newMockRepository(), nil)
	router := newTestRouter(t, svc, &stubIssuer{token: "signed"})

	t.Run("created", func(t *testing.T) {
		res := postJSON(t, router, "/signup", `{"email":"alice@example.com","password":"hunter2secret"}`)
		require.Equal(t, http.StatusCreated, res.Code)
		var body map[string]int64
		require.NoError(t, json.Unmarshal(res.Body.Bytes(), &body))
		assert.Equal(t, int64(1), body["account_id"])
	})

	t.Run("no token issued on signup", func(t *testing.T) {
		res := postJSON(t, router, "/signup", `{"email":"bob@example.com","password":"hunter2secret"}`)
		require.Equal(t, http.StatusCreated, res.Code)
		assert.NotContains(t, res.Body.String(), "token")
	})

	t.Run("duplicate", func(t *testing.T) {
		res := postJSON(t, router, "/signup", `{"email":"Alice@Example.com","password":"otherpassword"}`)
		assert.Equal(t, http.StatusConflict, res.Code)
	})

	t.Run("invalid email", func(t *testing.T) {
		res := postJSON(t, router, "/signup", `{"email":"not-an-email","password":"hunter2secret"}`)
		assert.Equal(t, http.StatusBadRequest, res.Code)
	})

	t.Run("short password", func(t *testing.T) {
		res := postJSON(t, router, "/signup", `{"email":"carol@example.com","password":"short"}`)
		assert.Equal(t, http.StatusBadRequest, res.Code)
	})

	t.Run("malformed body", func(t *testing.T) {
		res := postJSON(t, router, "/signup", `{`)
		assert.Equal(t, http.StatusBadRequest, res.Code)
	})
}

func TestLogin(t *testing.T) {
	svc := newTestService(newMockRepository(), nil)
	router := newTestRouter(t, svc, &stubIssuer{token: "signed-token"})
	res := postJSON(t, router, "/signup", `{"email":"alice@example.com","password":"hunter2secret"}`)
	require.Equal(t, http.StatusCreated, res.Code)

	t.Run("success returns token", func(t *testing.T) {
		res := postJSON(t, router, "/login", `{"email":"alice@example.com","password":"hunter2secret"}`)
		require.Equal(t, http.StatusOK, res.Code)
		var body struct {
			Token     string    `json:"token"`
			ExpiresAt time.Time `json:"expires_at"`
		}
		require.NoError(t, json.Unmarshal(res.Body.Bytes(), &body))
		assert.Equal(t, "signed-token", body.Token)
		assert.False(t, body.ExpiresAt.IsZero())
	})

	t.Run("wrong password and unknown email yield the same response", func(t *testing.T) {
		wrongPass := postJSON(t, router, "/login", `{"email":"alice@example.com","password":"wrongpassword"}`)
		unknown := postJSON(t, router, "/login", `{"email":"nobody@example.com","password":"hunter2secret"}`)
		assert.Equal(t, http.StatusUnauthorized, wrongPass.Code)
		assert.Equal(t, http.StatusUnauthorized, unknown.Code)
		assert.Equal(t, wrongPass.Body.String(), unknown.Body.String())
	})
}

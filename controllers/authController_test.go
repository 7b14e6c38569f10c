package controllers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sudhr-gitthub/community-driven-issues-tracker/store"
)

func newAuthRouter(t *testing.T) (*gin.Engine, *store.InMemoryUserStore) {
	t.Helper()
	t.Setenv("JWT_SECRET", "test-secret")
	gin.SetMode(gin.TestMode)

	users := store.NewInMemoryUserStore()
	ac := NewAuthController(users)

	r := gin.New()
	r.POST("/api/auth/register", ac.RegisterUser)
	r.POST("/api/auth/login", ac.LoginUser)
	return r, users
}

func postJSON(t *testing.T, r *gin.Engine, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	payload, err := json.Marshal(body)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func registration() map[string]string {
	return map[string]string{
		"name":        "Alice",
		"email":       "alice@example.com",
		"username":    "alice",
		"phoneNumber": "5551234",
		"password":    "hunter22",
	}
}

func TestRegisterUser(t *testing.T) {
	r, _ := newAuthRouter(t)

	w := postJSON(t, r, "/api/auth/register", registration())
	require.Equal(t, http.StatusCreated, w.Code)

	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp["token"])
	assert.NotEmpty(t, resp["userId"])
	assert.Equal(t, "USER", resp["role"])

	t.Run("duplicate registration is rejected", func(t *testing.T) {
		w := postJSON(t, r, "/api/auth/register", registration())
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("short password is rejected", func(t *testing.T) {
		bad := registration()
		bad["email"] = "bob@example.com"
		bad["username"] = "bob"
		bad["password"] = "12345"
		w := postJSON(t, r, "/api/auth/register", bad)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestLoginUser(t *testing.T) {
	r, _ := newAuthRouter(t)
	require.Equal(t, http.StatusCreated, postJSON(t, r, "/api/auth/register", registration()).Code)

	t.Run("login works with email, username or phone", func(t *testing.T) {
		for _, identifier := range []string{"alice@example.com", "alice", "5551234"} {
			w := postJSON(t, r, "/api/auth/login", map[string]string{
				"identifier": identifier,
				"password":   "hunter22",
			})
			require.Equal(t, http.StatusOK, w.Code, "identifier %q", identifier)

			var resp map[string]interface{}
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
			assert.NotEmpty(t, resp["token"])
		}
	})

	t.Run("wrong password is unauthorized", func(t *testing.T) {
		w := postJSON(t, r, "/api/auth/login", map[string]string{
			"identifier": "alice",
			"password":   "wrong",
		})
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("unknown identifier is unauthorized", func(t *testing.T) {
		w := postJSON(t, r, "/api/auth/login", map[string]string{
			"identifier": "nobody",
			"password":   "hunter22",
		})
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}

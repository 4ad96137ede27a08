package middleware

import (
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"adminlte-api/internal/domain"
)

const testSecret = "test-secret"

func signToken(t *testing.T, method jwt.SigningMethod, key interface{}, claims jwt.MapClaims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(method, claims).SignedString(key)
	require.NoError(t, err)
	return token
}

func validToken(t *testing.T, sub string) string {
	return signToken(t, jwt.SigningMethodHS256, []byte(testSecret), jwt.MapClaims{
		"sub": sub,
		"exp": time.Now().Add(time.Hour).Unix(),
	})
}

// authRouter reports the actor seen by the handler as a header
func authRouter(required bool) *gin.Engine {
	r := gin.New()
	r.Use(NewActorResolver(testSecret, required).Middleware())
	handler := func(c *gin.Context) {
		if actor := domain.ActorFrom(c.Request.Context()); actor != nil {
			c.Header("X-Actor", strconv.Itoa(*actor))
		}
		c.Status(http.StatusOK)
	}
	r.GET("/r", handler)
	r.POST("/r", handler)
	return r
}

func doAuth(r *gin.Engine, method, header string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, "/r", nil)
	if header != "" {
		req.Header.Set("Authorization", header)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestActorResolver_ValidToken(t *testing.T) {
	w := doAuth(authRouter(true), http.MethodPost, "Bearer "+validToken(t, "7"))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "7", w.Header().Get("X-Actor"))
}

func TestActorResolver_Anonymous(t *testing.T) {
	t.Run("optional allows writes", func(t *testing.T) {
		w := doAuth(authRouter(false), http.MethodPost, "")
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Empty(t, w.Header().Get("X-Actor"))
	})

	t.Run("required allows reads", func(t *testing.T) {
		w := doAuth(authRouter(true), http.MethodGet, "")
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("required rejects writes", func(t *testing.T) {
		w := doAuth(authRouter(true), http.MethodPost, "")
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Contains(t, w.Body.String(), "UNAUTHORIZED")
	})
}

func TestActorResolver_Rejects(t *testing.T) {
	expired := signToken(t, jwt.SigningMethodHS256, []byte(testSecret), jwt.MapClaims{
		"sub": "7",
		"exp": time.Now().Add(-time.Hour).Unix(),
	})
	wrongKey := signToken(t, jwt.SigningMethodHS256, []byte("other"), jwt.MapClaims{"sub": "7"})
	noneAlg := signToken(t, jwt.SigningMethodNone, jwt.UnsafeAllowNoneSignatureType, jwt.MapClaims{"sub": "7"})

	tests := []struct {
		name   string
		header string
	}{
		{"bad scheme", "Basic abc"},
		{"missing token", "Bearer"},
		{"garbage", "Bearer not-a-jwt"},
		{"expired", "Bearer " + expired},
		{"wrong key", "Bearer " + wrongKey},
		{"none alg", "Bearer " + noneAlg},
		{"non numeric subject", "Bearer " + validToken(t, "alice")},
		{"zero subject", "Bearer " + validToken(t, "0")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// an invalid token is rejected even where auth is optional
			w := doAuth(authRouter(false), http.MethodGet, tt.header)
			assert.Equal(t, http.StatusUnauthorized, w.Code)
		})
	}
}

func TestActorResolver_NoSecret(t *testing.T) {
	_, err := NewActorResolver("", false).Resolve(validToken(t, "7"))
	assert.Error(t, err)
}

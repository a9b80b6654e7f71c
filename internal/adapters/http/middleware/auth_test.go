package middleware

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Haleralex/quefilme/internal/pkg/logger"
)

const testSecret = "test-secret-with-enough-entropy-123"

// MockTokenValidator - mock с функцией-полем.
type MockTokenValidator struct {
	ValidateFunc func(token string) (*AuthClaims, error)
}

func (m *MockTokenValidator) Validate(token string) (*AuthClaims, error) {
	return m.ValidateFunc(token)
}

func newAuthRouter(validator TokenValidator, seen *string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(RequestID())
	router.Use(Auth(&AuthConfig{Validator: validator, SkipPaths: []string{"/health"}}))
	router.GET("/movies", func(c *gin.Context) {
		if seen != nil {
			*seen = GetAuthUserID(c) + "|" + logger.GetUserID(c.Request.Context())
		}
		c.JSON(http.StatusOK, []any{})
	})
	router.GET("/health", func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	return router
}

func assertAccessDenied(t *testing.T, w *httptest.ResponseRecorder) {
	t.Helper()
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "Error", body["status"])
	assert.Equal(t, "AccessDeniedError", body["message"])
}

func TestAuth(t *testing.T) {
	validator, err := NewJWTValidator(testSecret, "quefilme")
	require.NoError(t, err)

	t.Run("ValidToken", func(t *testing.T) {
		token, err := validator.Issue("user-123", "viewer", time.Hour)
		require.NoError(t, err)

		var seen string
		router := newAuthRouter(validator, &seen)

		req := httptest.NewRequest(http.MethodGet, "/movies", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "user-123|user-123", seen)
	})

	t.Run("MissingAuthHeader", func(t *testing.T) {
		router := newAuthRouter(validator, nil)

		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/movies", nil))

		assertAccessDenied(t, w)
	})

	t.Run("InvalidHeaderFormat", func(t *testing.T) {
		router := newAuthRouter(validator, nil)

		req := httptest.NewRequest(http.MethodGet, "/movies", nil)
		req.Header.Set("Authorization", "Basic dXNlcjpwYXNz")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assertAccessDenied(t, w)
	})

	t.Run("ExpiredToken", func(t *testing.T) {
		token, err := validator.Issue("user-123", "viewer", -time.Minute)
		require.NoError(t, err)
		router := newAuthRouter(validator, nil)

		req := httptest.NewRequest(http.MethodGet, "/movies", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assertAccessDenied(t, w)
	})

	t.Run("WrongSecret", func(t *testing.T) {
		other, err := NewJWTValidator("another-secret-another-secret-12", "quefilme")
		require.NoError(t, err)
		token, err := other.Issue("user-123", "viewer", time.Hour)
		require.NoError(t, err)
		router := newAuthRouter(validator, nil)

		req := httptest.NewRequest(http.MethodGet, "/movies", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assertAccessDenied(t, w)
	})

	t.Run("SkipPath", func(t *testing.T) {
		router := newAuthRouter(validator, nil)

		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))

		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("ValidatorError", func(t *testing.T) {
		mock := &MockTokenValidator{ValidateFunc: func(string) (*AuthClaims, error) {
			return nil, errors.New("revoked")
		}}
		router := newAuthRouter(mock, nil)

		req := httptest.NewRequest(http.MethodGet, "/movies", nil)
		req.Header.Set("Authorization", "Bearer anything")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assertAccessDenied(t, w)
	})
}

func TestJWTValidator(t *testing.T) {
	t.Run("EmptySecret", func(t *testing.T) {
		_, err := NewJWTValidator("", "")
		assert.Error(t, err)
	})

	t.Run("RejectsOtherAlgorithms", func(t *testing.T) {
		validator, err := NewJWTValidator(testSecret, "")
		require.NoError(t, err)

		claims := &AuthClaims{RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "user-1",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		}}
		token, err := jwt.NewWithClaims(jwt.SigningMethodHS512, claims).SignedString([]byte(testSecret))
		require.NoError(t, err)

		_, err = validator.Validate(token)
		assert.Error(t, err)
	})

	t.Run("RequiresExpiration", func(t *testing.T) {
		validator, err := NewJWTValidator(testSecret, "")
		require.NoError(t, err)

		claims := &AuthClaims{RegisteredClaims: jwt.RegisteredClaims{Subject: "user-1"}}
		token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
		require.NoError(t, err)

		_, err = validator.Validate(token)
		assert.Error(t, err)
	})

	t.Run("ChecksIssuer", func(t *testing.T) {
		issuer, err := NewJWTValidator(testSecret, "someone-else")
		require.NoError(t, err)
		token, err := issuer.Issue("user-1", "", time.Hour)
		require.NoError(t, err)

		validator, err := NewJWTValidator(testSecret, "quefilme")
		require.NoError(t, err)
		_, err = validator.Validate(token)
		assert.Error(t, err)

		claims, err := issuer.Validate(token)
		require.NoError(t, err)
		assert.Equal(t, "user-1", claims.Subject)
	})
}

func TestBearerToken(t *testing.T) {
	tok, err := bearerToken("bearer abc")
	require.NoError(t, err)
	assert.Equal(t, "abc", tok)

	for _, header := range []string{"", "Bearer", "Bearer   ", "Token abc"} {
		_, err := bearerToken(header)
		assert.ErrorIs(t, err, ErrMissingToken, header)
	}
}

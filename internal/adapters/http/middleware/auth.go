// Package middleware - Authentication middleware.
//
// Опциональная защита /movies bearer-токеном (JWT, HS256).
// Любой отказ отвечает 401 AccessDeniedError.
package middleware

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"github.com/Haleralex/quefilme/internal/adapters/http/common"
	domainerrors "github.com/Haleralex/quefilme/internal/domain/errors"
	"github.com/Haleralex/quefilme/internal/pkg/logger"
)

const (
	// AuthUserIDKey - ключ для хранения subject токена в контексте
	AuthUserIDKey = "auth_user_id"
	// AuthUserRoleKey - ключ для хранения роли пользователя
	AuthUserRoleKey = "auth_user_role"
)

// ErrMissingToken is returned when the Authorization header has no bearer token.
var ErrMissingToken = errors.New("bearer token is required")

// AuthClaims - данные из токена авторизации.
type AuthClaims struct {
	Role string `json:"role,omitempty"`
	jwt.RegisteredClaims
}

// TokenValidator проверяет токен и возвращает claims.
type TokenValidator interface {
	Validate(token string) (*AuthClaims, error)
}

// JWTValidator validates HS256 tokens signed with a shared secret.
type JWTValidator struct {
	secret []byte
	issuer string
}

// NewJWTValidator creates a validator; an empty issuer accepts any issuer.
func NewJWTValidator(secret, issuer string) (*JWTValidator, error) {
	if secret == "" {
		return nil, fmt.Errorf("jwt secret is required")
	}
	return &JWTValidator{secret: []byte(secret), issuer: issuer}, nil
}

// Validate parses the token, checks the signature and the registered claims.
func (v *JWTValidator) Validate(token string) (*AuthClaims, error) {
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
	}
	if v.issuer != "" {
		opts = append(opts, jwt.WithIssuer(v.issuer))
	}

	parsed, err := jwt.ParseWithClaims(token, &AuthClaims{}, func(*jwt.Token) (any, error) {
		return v.secret, nil
	}, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to parse token: %w", err)
	}

	claims, ok := parsed.Claims.(*AuthClaims)
	if !ok || !parsed.Valid {
		return nil, fmt.Errorf("invalid token claims")
	}
	return claims, nil
}

// Issue signs a token for subject. Used by tests and the config tooling.
func (v *JWTValidator) Issue(subject, role string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := &AuthClaims{
		Role: role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			Issuer:    v.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(v.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// AuthConfig - конфигурация для authentication middleware.
type AuthConfig struct {
	Validator TokenValidator
	// SkipPaths - маршруты (c.FullPath), не требующие авторизации
	SkipPaths []string
}

// Auth middleware для проверки авторизации.
//
// 1. Извлекает токен из заголовка Authorization
// 2. Валидирует токен
// 3. Кладёт subject в gin context и в context.Context для логов
func Auth(config *AuthConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		if slices.Contains(config.SkipPaths, c.FullPath()) {
			c.Next()
			return
		}

		token, err := bearerToken(c.GetHeader("Authorization"))
		if err != nil {
			common.HandleError(c, domainerrors.WithCause(domainerrors.AccessDenied(), err))
			return
		}

		claims, err := config.Validator.Validate(token)
		if err != nil {
			common.HandleError(c, domainerrors.WithCause(domainerrors.AccessDenied(), err))
			return
		}

		c.Set(AuthUserIDKey, claims.Subject)
		c.Set(AuthUserRoleKey, claims.Role)
		c.Request = c.Request.WithContext(logger.WithUserID(c.Request.Context(), claims.Subject))

		c.Next()
	}
}

func bearerToken(header string) (string, error) {
	scheme, token, ok := strings.Cut(header, " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") || strings.TrimSpace(token) == "" {
		return "", ErrMissingToken
	}
	return strings.TrimSpace(token), nil
}

// GetAuthUserID возвращает subject авторизованного пользователя или "".
func GetAuthUserID(c *gin.Context) string {
	return c.GetString(AuthUserIDKey)
}

// GetAuthUserRole возвращает роль авторизованного пользователя.
func GetAuthUserRole(c *gin.Context) string {
	return c.GetString(AuthUserRoleKey)
}

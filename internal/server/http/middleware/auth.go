package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	pkgAuth "github.com/polkiloo/fournil/internal/pkg/auth"
)

const (
	// ClientIDContextKey is a gin context key for authenticated client identifier.
	ClientIDContextKey = "clientID"
	authCookieName     = "fournil_token"
)

// TokenParser resolves a client identifier from an auth token.
type TokenParser interface {
	ParseToken(token string) (int64, error)
}

// AdminChecker tells whether a client has administration rights.
type AdminChecker interface {
	IsAdmin(ctx context.Context, clientID int64) (bool, error)
}

// AuthRequired ensures client is authenticated before accessing handler.
func AuthRequired(parser TokenParser) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := extractToken(c)
		if token == "" {
			c.AbortWithStatus(http.StatusUnauthorized)
			return
		}

		clientID, err := parser.ParseToken(token)
		if err != nil {
			if errors.Is(err, pkgAuth.ErrInvalidToken) {
				c.AbortWithStatus(http.StatusUnauthorized)
				return
			}
			_ = c.Error(err)
			c.AbortWithStatus(http.StatusInternalServerError)
			return
		}

		c.Set(ClientIDContextKey, clientID)
		c.Next()
	}
}

// AdminRequired lets only administrators through. It runs after AuthRequired.
func AdminRequired(checker AdminChecker) gin.HandlerFunc {
	return func(c *gin.Context) {
		clientID := c.GetInt64(ClientIDContextKey)
		if clientID == 0 {
			c.AbortWithStatus(http.StatusUnauthorized)
			return
		}

		admin, err := checker.IsAdmin(c.Request.Context(), clientID)
		if err != nil {
			_ = c.Error(err)
			c.AbortWithStatus(http.StatusInternalServerError)
			return
		}
		if !admin {
			c.AbortWithStatus(http.StatusForbidden)
			return
		}
		c.Next()
	}
}

func extractToken(c *gin.Context) string {
	authHeader := c.GetHeader("Authorization")
	if strings.HasPrefix(strings.ToLower(authHeader), "bearer ") {
		return strings.TrimSpace(authHeader[7:])
	}
	if cookie, err := c.Cookie(authCookieName); err == nil {
		return cookie
	}
	return ""
}

// SetAuthCookie writes auth token cookie to response.
func SetAuthCookie(c *gin.Context, token string) {
	c.SetCookie(authCookieName, token, 0, "/", "", false, true)
	c.Header("Authorization", "Bearer "+token)
}

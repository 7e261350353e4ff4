package middleware

import (
	"net/http"
	"strings"

	"go-ats-backend/internal/delivery/http/response"
	"go-ats-backend/internal/domain"
	"go-ats-backend/pkg/auth"
	"go-ats-backend/pkg/security"

	"github.com/gin-gonic/gin"
)

// AuthCookieName is read when no Authorization header is sent.
const AuthCookieName = "auth_token"

// AuthMiddleware verifies the bearer token and stores its subject as the caller principal.
func AuthMiddleware(verifier *auth.Verifier, secLog *security.SecurityLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var tokenString string

		// header first, then cookie
		if authHeader := c.GetHeader("Authorization"); authHeader != "" {
			tokenString = strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer "))
		} else if cookie, err := c.Cookie(AuthCookieName); err == nil {
			tokenString = cookie
		}

		if tokenString == "" {
			response.Abort(c, http.StatusUnauthorized, "Authorization header or auth_token cookie required")
			return
		}

		sub, err := verifier.Subject(c.Request.Context(), tokenString)
		if err != nil {
			secLog.Log(c.Request.Context(), security.SecurityEvent{
				Event:     security.EventInvalidToken,
				IP:        c.ClientIP(),
				RequestID: c.GetString(string(domain.KeyRequestID)),
				Details:   map[string]interface{}{"path": c.FullPath(), "error": err.Error()},
			})
			response.Abort(c, http.StatusUnauthorized, "Invalid token")
			return
		}

		c.Set(string(domain.KeyPrincipal), sub)
		c.Next()
	}
}

// Principal returns the caller set by AuthMiddleware, or "" on public routes.
func Principal(c *gin.Context) domain.Principal {
	return domain.Principal(c.GetString(string(domain.KeyPrincipal)))
}

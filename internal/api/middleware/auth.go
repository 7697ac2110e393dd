package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/afriart/marketplace/internal/auth"
	"github.com/afriart/marketplace/internal/domain"
	"github.com/afriart/marketplace/internal/logger"
)

const (
	// JWT_CLAIMS_KEY is the gin context key the parsed claims are stored under
	JWT_CLAIMS_KEY = "jwt_claims"
)

// TokenParser validates a bearer token and returns its claims
type TokenParser interface {
	ParseToken(tokenString string) (*auth.Claims, error)
}

// extractBearerToken pulls the token out of an Authorization header
func extractBearerToken(authHeader string) (string, error) {
	if authHeader == "" {
		return "", errors.New("missing Authorization header")
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return "", errors.New("invalid Authorization header format")
	}

	return parts[1], nil
}

// authenticate parses the request's bearer token and stores the claims in the
// gin context. Requests without a valid token are aborted with 401.
func authenticate(c *gin.Context, parser TokenParser, scopes ...string) bool {
	token, err := extractBearerToken(c.GetHeader("Authorization"))
	if err == nil {
		var claims *auth.Claims
		claims, err = parser.ParseToken(token)
		if err == nil {
			for _, scope := range scopes {
				if claims.Scope == scope {
					c.Set(JWT_CLAIMS_KEY, claims)
					return true
				}
			}
			err = errors.New("token scope not accepted for this endpoint")
		}
	}

	logger.Warn("Authentication failed",
		zap.Error(err),
		zap.String("path", c.Request.URL.Path),
		zap.String("client_ip", c.ClientIP()),
	)
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
		"error": gin.H{"code": "unauthorized", "message": "Authentication failed"},
	})
	return false
}

// Auth returns a gin middleware requiring a session token
func Auth(parser TokenParser) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !authenticate(c, parser, auth.ScopeSession) {
			return
		}
		c.Next()
	}
}

// RegistrationAuth returns a gin middleware accepting a registration token.
// Session tokens are accepted too so a signed-in client can hit the endpoint
// idempotently.
func RegistrationAuth(parser TokenParser) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !authenticate(c, parser, auth.ScopeRegistration, auth.ScopeSession) {
			return
		}
		c.Next()
	}
}

// RequireRole returns a gin middleware requiring a session token whose user
// holds one of the given roles
func RequireRole(parser TokenParser, roles ...domain.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !authenticate(c, parser, auth.ScopeSession) {
			return
		}

		claims := CurrentClaims(c)
		for _, role := range roles {
			if claims.Role == role {
				c.Next()
				return
			}
		}

		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
			"error": gin.H{"code": "forbidden", "message": "Insufficient role"},
		})
	}
}

// CurrentClaims returns the claims stored by the auth middleware, or nil when
// the request was not authenticated
func CurrentClaims(c *gin.Context) *auth.Claims {
	value, ok := c.Get(JWT_CLAIMS_KEY)
	if !ok {
		return nil
	}
	claims, ok := value.(*auth.Claims)
	if !ok {
		return nil
	}
	return claims
}

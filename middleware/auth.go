package middleware

import (
	"net/http"
	"strings"

	"blogcms/logger"
	"blogcms/utils"

	"github.com/gin-gonic/gin"
)

const PrincipalKey = "principal"

// AuthRequired rejects requests without a valid bearer token and stores the
// resulting utils.Principal in the gin context.
func AuthRequired(tokens *utils.TokenService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var token string
		authHeader := c.GetHeader("Authorization")
		if authHeader != "" && strings.HasPrefix(authHeader, "Bearer ") {
			token = strings.TrimSpace(authHeader[len("Bearer "):])
		}

		if token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "No token provided"})
			return
		}

		principal, err := tokens.Validate(token)
		if err != nil {
			logger.WithRequestID(GetRequestID(c)).Info("Token rejected", "error", err.Error())
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid token"})
			return
		}

		c.Set(PrincipalKey, principal)
		c.Next()
	}
}

func GetPrincipal(c *gin.Context) (utils.Principal, bool) {
	value, exists := c.Get(PrincipalKey)
	if !exists {
		return utils.Principal{}, false
	}
	principal, ok := value.(utils.Principal)
	if !ok || principal.UserID == 0 {
		return utils.Principal{}, false
	}
	return principal, true
}

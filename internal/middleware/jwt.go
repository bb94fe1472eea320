package middleware

import (
	"log"
	"strings"

	"github.com/gin-gonic/gin"

	"storefront_back_end/internal/apperrors"
	"storefront_back_end/internal/utils"
)

// AuthRequired vérifie le bearer token et place user_id (uint), email et role
// dans le contexte gin.
func AuthRequired(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.AbortWithStatusJSON(apperrors.Response(apperrors.Unauthorized("Token manquant")))
			return
		}

		parts := strings.Fields(authHeader)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			c.AbortWithStatusJSON(apperrors.Response(apperrors.Unauthorized("Format Authorization invalide")))
			return
		}

		claims, err := utils.ParseJWT(parts[1], secret)
		if err != nil {
			log.Printf("❌ Token refusé (%s): %v", c.FullPath(), err)
			c.AbortWithStatusJSON(apperrors.Response(apperrors.Unauthorized("Token invalide ou expiré")))
			return
		}

		c.Set("user_id", claims.UserID)
		c.Set("email", claims.Email)
		c.Set("role", claims.Role)
		c.Next()
	}
}

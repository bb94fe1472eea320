package middleware

import (
	"log"

	"github.com/gin-gonic/gin"

	"storefront_back_end/internal/apperrors"
	"storefront_back_end/internal/models"
)

// RequireAdmin vérifie que l'utilisateur a le rôle "admin"
func RequireAdmin(c *gin.Context) {
	if c.GetString("role") != models.RoleAdmin {
		log.Printf("🚫 Accès admin refusé pour user %d sur %s", c.GetUint("user_id"), c.FullPath())
		c.AbortWithStatusJSON(apperrors.Response(apperrors.Forbidden("Accès réservé aux administrateurs")))
		return
	}
	c.Next()
}

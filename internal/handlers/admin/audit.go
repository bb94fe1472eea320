package admin

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"storefront_back_end/internal/apperrors"
	"storefront_back_end/internal/handlers"
	"storefront_back_end/internal/store"
)

const (
	defaultAuditLimit = 100
	maxAuditLimit     = 500
)

// GetAuditLogs récupère les derniers logs d'audit, les plus récents d'abord
func GetAuditLogs(repo store.AuditRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		limit := defaultAuditLimit
		if raw := c.Query("limit"); raw != "" {
			v, err := strconv.Atoi(raw)
			if err != nil || v <= 0 {
				handlers.RespondError(c, apperrors.Invalid("limit invalide"))
				return
			}
			limit = v
		}
		if limit > maxAuditLimit {
			limit = maxAuditLimit
		}

		logs, err := repo.List(c.Request.Context(), limit)
		if err != nil {
			handlers.RespondError(c, apperrors.Internal("Erreur lors de la récupération des logs d'audit", err))
			return
		}
		c.JSON(http.StatusOK, gin.H{"logs": logs, "count": len(logs)})
	}
}

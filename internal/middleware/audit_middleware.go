package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"storefront_back_end/internal/utils"
)

// SetAuditValues est appelé par le handler pour enrichir l'entrée d'audit
func SetAuditValues(c *gin.Context, resourceID string, oldValue, newValue interface{}) {
	c.Set("audit_resource_id", resourceID)
	c.Set("audit_old", oldValue)
	c.Set("audit_new", newValue)
}

// SkipAudit : la requête ne concerne pas l'action auditée (ex. pas de changement de prix)
func SkipAudit(c *gin.Context) {
	c.Set("audit_skip", true)
}

// AuditAction enregistre l'action une fois le handler exécuté, réussie ou non
func AuditAction(audit *utils.AuditLogger, action, resource string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if c.GetBool("audit_skip") {
			return
		}

		resourceID := c.GetString("audit_resource_id")
		if resourceID == "" {
			resourceID = c.Param("id")
		}

		status := c.Writer.Status()
		if status >= 200 && status < 300 {
			oldValue, _ := c.Get("audit_old")
			newValue, _ := c.Get("audit_new")
			audit.LogAction(c, action, resource, resourceID, oldValue, newValue)
			return
		}
		audit.LogFailedAction(c, action, resource, resourceID, http.StatusText(status))
	}
}

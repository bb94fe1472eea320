// Package handlers regroupe les handlers HTTP ; ce fichier porte les
// utilitaires communs aux sous-packages.
package handlers

import (
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"storefront_back_end/internal/apperrors"
)

// RespondError traduit l'erreur en réponse JSON ; les 5xx sont journalisées
// avec leur cause, le client ne reçoit que le message public.
func RespondError(c *gin.Context, err error) {
	status, body := apperrors.Response(err)
	if status >= http.StatusInternalServerError {
		log.Printf("❌ %s %s [%s]: %v", c.Request.Method, c.FullPath(), c.GetString("request_id"), err)
	}
	c.JSON(status, body)
}

// BindJSON décode le corps ou répond 400
func BindJSON(c *gin.Context, dst interface{}) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		RespondError(c, apperrors.Invalid("Corps de requête invalide").
			WithDetails(map[string]interface{}{"reason": err.Error()}))
		return false
	}
	return true
}

// ParseID lit un identifiant numérique strictement positif dans l'URL
func ParseID(c *gin.Context, param string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(param), 10, 64)
	if err != nil || id == 0 {
		RespondError(c, apperrors.Invalid(param+" invalide"))
		return 0, false
	}
	return uint(id), true
}

package user

import (
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"storefront_back_end/internal/apperrors"
	"storefront_back_end/internal/handlers"
	"storefront_back_end/internal/services"
	"storefront_back_end/internal/utils"
)

type signupRequest struct {
	Username string `json:"username" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type loginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// Signup crée un compte client et renvoie un token
func Signup(identity *services.IdentityService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input signupRequest
		if !handlers.BindJSON(c, &input) {
			return
		}

		res, err := identity.Signup(c.Request.Context(), input.Username, input.Email, input.Password)
		if err != nil {
			handlers.RespondError(c, err)
			return
		}
		c.JSON(http.StatusCreated, res)
	}
}

func Login(identity *services.IdentityService, audit *utils.AuditLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input loginRequest
		if !handlers.BindJSON(c, &input) {
			return
		}

		res, err := identity.Login(c.Request.Context(), input.Email, input.Password)
		if err != nil {
			if errors.Is(err, apperrors.ErrUnauthorized) {
				log.Printf("🔐 Connexion refusée pour %s", input.Email)
				c.Set("email", input.Email)
				audit.LogFailedAction(c, utils.ACTION_LOGIN_FAILED, utils.RESOURCE_AUTH, "", "identifiants invalides")
			}
			handlers.RespondError(c, err)
			return
		}

		c.Set("user_id", res.User.ID)
		c.Set("email", res.User.Email)
		audit.LogAction(c, utils.ACTION_LOGIN_SUCCESS, utils.RESOURCE_AUTH, strconv.FormatUint(uint64(res.User.ID), 10), nil, nil)
		c.JSON(http.StatusOK, res)
	}
}

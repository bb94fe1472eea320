package product

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"storefront_back_end/internal/handlers"
	"storefront_back_end/internal/services"
)

type categoryRequest struct {
	Name string `json:"category_name" binding:"required"`
}

func GetAllCategories(catalog *services.CatalogService) gin.HandlerFunc {
	return func(c *gin.Context) {
		categories, err := catalog.ListCategories(c.Request.Context())
		if err != nil {
			handlers.RespondError(c, err)
			return
		}
		c.JSON(http.StatusOK, categories)
	}
}

func CreateCategory(catalog *services.CatalogService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input categoryRequest
		if !handlers.BindJSON(c, &input) {
			return
		}

		category, err := catalog.CreateCategory(c.Request.Context(), input.Name)
		if err != nil {
			handlers.RespondError(c, err)
			return
		}
		c.JSON(http.StatusCreated, category)
	}
}

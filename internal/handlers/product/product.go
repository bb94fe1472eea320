package product

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"storefront_back_end/internal/apperrors"
	"storefront_back_end/internal/handlers"
	"storefront_back_end/internal/middleware"
	"storefront_back_end/internal/models"
	"storefront_back_end/internal/services"
)

type productRequest struct {
	Name          *string          `json:"name"`
	Description   *string          `json:"description"`
	Price         *decimal.Decimal `json:"price"`
	CategoryID    *uint            `json:"category_id"`
	StockQuantity *int             `json:"stock_quantity"`
	ImageURL      *string          `json:"image_url"`
}

func (r productRequest) toUpdate() models.ProductUpdate {
	return models.ProductUpdate{
		Name:          r.Name,
		Description:   r.Description,
		Price:         r.Price,
		CategoryID:    r.CategoryID,
		StockQuantity: r.StockQuantity,
		ImageURL:      r.ImageURL,
	}
}

// GetAllProducts : filtres optionnels ?category_id= et ?search=
func GetAllProducts(catalog *services.CatalogService) gin.HandlerFunc {
	return func(c *gin.Context) {
		filter := models.ProductFilter{Search: strings.TrimSpace(c.Query("search"))}

		if raw := c.Query("category_id"); raw != "" {
			id, err := strconv.ParseUint(raw, 10, 64)
			if err != nil || id == 0 {
				handlers.RespondError(c, apperrors.Invalid("category_id invalide"))
				return
			}
			categoryID := uint(id)
			filter.CategoryID = &categoryID
		}

		products, err := catalog.ListProducts(c.Request.Context(), filter)
		if err != nil {
			handlers.RespondError(c, err)
			return
		}
		c.JSON(http.StatusOK, products)
	}
}

func GetProduct(catalog *services.CatalogService) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := handlers.ParseID(c, "id")
		if !ok {
			return
		}

		p, err := catalog.GetProduct(c.Request.Context(), id)
		if err != nil {
			handlers.RespondError(c, err)
			return
		}
		c.JSON(http.StatusOK, p)
	}
}

func CreateProduct(catalog *services.CatalogService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input productRequest
		if !handlers.BindJSON(c, &input) {
			return
		}
		if input.Name == nil || input.Price == nil {
			handlers.RespondError(c, apperrors.Invalid("Les champs 'name' et 'price' sont obligatoires"))
			return
		}

		p := &models.Product{
			Name:       *input.Name,
			Price:      *input.Price,
			CategoryID: input.CategoryID,
		}
		if input.Description != nil {
			p.Description = *input.Description
		}
		if input.StockQuantity != nil {
			p.StockQuantity = *input.StockQuantity
		}
		if input.ImageURL != nil {
			p.ImageURL = *input.ImageURL
		}

		if err := catalog.CreateProduct(c.Request.Context(), p); err != nil {
			handlers.RespondError(c, err)
			return
		}

		middleware.SetAuditValues(c, strconv.FormatUint(uint64(p.ID), 10), nil, p)
		c.JSON(http.StatusCreated, p)
	}
}

// UpdateProduct : mise à jour partielle ; seul un changement de prix est audité
func UpdateProduct(catalog *services.CatalogService) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := handlers.ParseID(c, "id")
		if !ok {
			return
		}

		var input productRequest
		if !handlers.BindJSON(c, &input) {
			return
		}
		if input.Price == nil {
			middleware.SkipAudit(c)
		}

		before, after, err := catalog.UpdateProduct(c.Request.Context(), id, input.toUpdate())
		if err != nil {
			handlers.RespondError(c, err)
			return
		}

		if before.Price.Equal(after.Price) {
			middleware.SkipAudit(c)
		} else {
			middleware.SetAuditValues(c, strconv.FormatUint(uint64(id), 10),
				gin.H{"price": before.Price}, gin.H{"price": after.Price})
		}
		c.JSON(http.StatusOK, after)
	}
}

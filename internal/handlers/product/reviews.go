package product

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"storefront_back_end/internal/handlers"
	"storefront_back_end/internal/services"
)

type reviewRequest struct {
	ProductID uint   `json:"product_id" binding:"required"`
	Rating    int    `json:"rating" binding:"required,min=1,max=5"`
	Comment   string `json:"comment"`
}

func CreateReview(reviews *services.ReviewService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input reviewRequest
		if !handlers.BindJSON(c, &input) {
			return
		}

		review, err := reviews.Create(c.Request.Context(), c.GetUint("user_id"), input.ProductID, input.Rating, input.Comment)
		if err != nil {
			handlers.RespondError(c, err)
			return
		}
		c.JSON(http.StatusCreated, review)
	}
}

func GetProductReviews(reviews *services.ReviewService) gin.HandlerFunc {
	return func(c *gin.Context) {
		productID, ok := handlers.ParseID(c, "id")
		if !ok {
			return
		}

		list, err := reviews.ListByProduct(c.Request.Context(), productID)
		if err != nil {
			handlers.RespondError(c, err)
			return
		}
		c.JSON(http.StatusOK, list)
	}
}

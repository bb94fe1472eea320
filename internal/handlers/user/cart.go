package user

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"storefront_back_end/internal/handlers"
	"storefront_back_end/internal/services"
)

type addToCartRequest struct {
	ProductID uint `json:"product_id" binding:"required"`
	Quantity  int  `json:"quantity" binding:"required,min=1"`
}

func GetCart(cart *services.CartService) gin.HandlerFunc {
	return func(c *gin.Context) {
		lines, err := cart.List(c.Request.Context(), c.GetUint("user_id"))
		if err != nil {
			handlers.RespondError(c, err)
			return
		}
		c.JSON(http.StatusOK, lines)
	}
}

// AddToCart : 201 pour une nouvelle ligne, 200 si la quantité a été cumulée
func AddToCart(cart *services.CartService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input addToCartRequest
		if !handlers.BindJSON(c, &input) {
			return
		}

		line, created, err := cart.Add(c.Request.Context(), c.GetUint("user_id"), input.ProductID, input.Quantity)
		if err != nil {
			handlers.RespondError(c, err)
			return
		}

		status := http.StatusOK
		if created {
			status = http.StatusCreated
		}
		c.JSON(status, line)
	}
}

func RemoveFromCart(cart *services.CartService) gin.HandlerFunc {
	return func(c *gin.Context) {
		productID, ok := handlers.ParseID(c, "productId")
		if !ok {
			return
		}

		if err := cart.Remove(c.Request.Context(), c.GetUint("user_id"), productID); err != nil {
			handlers.RespondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Produit retiré du panier"})
	}
}

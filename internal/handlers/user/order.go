package user

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"storefront_back_end/internal/handlers"
	"storefront_back_end/internal/middleware"
	"storefront_back_end/internal/models"
	"storefront_back_end/internal/services"
	"storefront_back_end/internal/utils"
)

type placeOrderRequest struct {
	Items           []services.OrderLine   `json:"items" binding:"required,min=1,dive"`
	ShippingAddress models.ShippingAddress `json:"shipping_address"`
}

// PlaceOrder crée la commande à partir des lignes envoyées par le client
func PlaceOrder(orders *services.OrderService, mailer *utils.Mailer) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input placeOrderRequest
		if !handlers.BindJSON(c, &input) {
			return
		}

		order, err := orders.PlaceOrder(c.Request.Context(), c.GetUint("user_id"), input.Items, input.ShippingAddress)
		if err != nil {
			handlers.RespondError(c, err)
			return
		}

		middleware.SetAuditValues(c, strconv.FormatUint(uint64(order.ID), 10), nil, gin.H{
			"total": order.Total,
			"items": len(order.Items),
		})
		mailer.SendOrderConfirmationAsync(c.GetString("email"), *order)

		c.JSON(http.StatusCreated, order)
	}
}

// GetOrders : toutes les commandes pour un admin, sinon celles de l'utilisateur
func GetOrders(orders *services.OrderService) gin.HandlerFunc {
	return func(c *gin.Context) {
		isAdmin := c.GetString("role") == models.RoleAdmin
		list, err := orders.List(c.Request.Context(), c.GetUint("user_id"), isAdmin)
		if err != nil {
			handlers.RespondError(c, err)
			return
		}
		c.JSON(http.StatusOK, list)
	}
}

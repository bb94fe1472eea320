package admin

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"storefront_back_end/internal/handlers"
	"storefront_back_end/internal/middleware"
	"storefront_back_end/internal/services"
	"storefront_back_end/internal/utils"
)

type statusRequest struct {
	Status string `json:"status"`
}

// UpdateOrderStatus change le statut d'une commande (admin) et prévient le client
func UpdateOrderStatus(orders *services.OrderService, mailer *utils.Mailer) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := handlers.ParseID(c, "id")
		if !ok {
			return
		}

		var input statusRequest
		if !handlers.BindJSON(c, &input) {
			return
		}

		order, previous, err := orders.UpdateStatus(c.Request.Context(), id, input.Status)
		if err != nil {
			handlers.RespondError(c, err)
			return
		}

		middleware.SetAuditValues(c, c.Param("id"), gin.H{"status": previous}, gin.H{"status": order.Status})
		if previous != order.Status {
			mailer.SendOrderStatusAsync(order.Email, *order)
		}
		c.JSON(http.StatusOK, order)
	}
}

package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/restaurant-pos/services"
	"github.com/yeremiapane/restaurant-pos/utils"
)

type ReceiptController struct {
	orders *services.OrderService
}

func NewReceiptController(orders *services.OrderService) *ReceiptController {
	return &ReceiptController{orders: orders}
}

// GetReceipt -> fixed payload for the receipt printer
func (rc *ReceiptController) GetReceipt(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	receipt, err := rc.orders.Receipt(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Receipt", receipt)
}

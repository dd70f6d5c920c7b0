package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/restaurant-pos/lifecycle"
	"github.com/yeremiapane/restaurant-pos/services"
	"github.com/yeremiapane/restaurant-pos/utils"
)

// KitchenController is the kitchen display. Whoever calls it, it only ever
// offers kitchen moves.
type KitchenController struct {
	orders      *services.OrderService
	transitions *services.TransitionService
}

func NewKitchenController(orders *services.OrderService, transitions *services.TransitionService) *KitchenController {
	return &KitchenController{orders: orders, transitions: transitions}
}

func (kc *KitchenController) GetQueue(c *gin.Context) {
	orders, err := kc.orders.List(c.Request.Context(), services.OrderFilter{Statuses: lifecycle.KitchenStatuses})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	details := make([]OrderDetail, 0, len(orders))
	for i := range orders {
		o := &orders[i]
		details = append(details, newOrderDetail(o, lifecycle.NextActions(o.Lifecycle(), lifecycle.RoleKitchen)))
	}
	utils.RespondJSON(c, http.StatusOK, "Kitchen queue", details)
}

func (kc *KitchenController) GetActions(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	_, actions, err := kc.transitions.Actions(c.Request.Context(), id, lifecycle.RoleKitchen)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	if actions == nil {
		actions = []lifecycle.Action{}
	}
	utils.RespondJSON(c, http.StatusOK, "Next actions", actions)
}

func (kc *KitchenController) TransitionOrder(c *gin.Context) {
	transition(c, kc.transitions, lifecycle.RoleKitchen)
}

package controllers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/restaurant-pos/lifecycle"
	"github.com/yeremiapane/restaurant-pos/models"
	"github.com/yeremiapane/restaurant-pos/services"
	"github.com/yeremiapane/restaurant-pos/utils"
)

// OrderDetail is an order with its badge and the buttons the caller may press.
type OrderDetail struct {
	Order   *models.Order      `json:"order"`
	Label   lifecycle.Label    `json:"status_label"`
	Actions []lifecycle.Action `json:"actions,omitempty"`
	History []models.StatusLog `json:"history,omitempty"`
}

func newOrderDetail(order *models.Order, actions []lifecycle.Action) OrderDetail {
	return OrderDetail{Order: order, Label: order.StatusLabel(), Actions: actions}
}

type OrderController struct {
	orders      *services.OrderService
	transitions *services.TransitionService
}

func NewOrderController(orders *services.OrderService, transitions *services.TransitionService) *OrderController {
	return &OrderController{orders: orders, transitions: transitions}
}

// parseFilter reads ?status=pending,confirmed&type=delivery&active=true&limit=50
func parseFilter(c *gin.Context) (services.OrderFilter, error) {
	var f services.OrderFilter
	if c.Query("active") == "true" {
		f.Statuses = lifecycle.ActiveStatuses()
	}
	if raw := c.Query("status"); raw != "" {
		f.Statuses = nil
		for _, s := range strings.Split(raw, ",") {
			st := lifecycle.Normalize(s)
			if !st.Valid() {
				return f, fmt.Errorf("unknown status %q", s)
			}
			f.Statuses = append(f.Statuses, st)
		}
	}
	if raw := c.Query("type"); raw != "" {
		t, ok := lifecycle.ParseOrderType(raw)
		if !ok {
			return f, fmt.Errorf("unknown order type %q", raw)
		}
		f.Type = string(t)
	}
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			return f, errors.New("invalid limit")
		}
		f.Limit = n
	}
	return f, nil
}

// GetAllOrders -> orders console listing, oldest first
func (oc *OrderController) GetAllOrders(c *gin.Context) {
	filter, err := parseFilter(c)
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}
	orders, err := oc.orders.List(c.Request.Context(), filter)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	role, _ := operatorRole(c)
	details := make([]OrderDetail, 0, len(orders))
	for i := range orders {
		o := &orders[i]
		details = append(details, newOrderDetail(o, lifecycle.NextActions(o.Lifecycle(), role)))
	}
	utils.RespondJSON(c, http.StatusOK, "List of orders", details)
}

func (oc *OrderController) GetOrderByID(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	role, _ := operatorRole(c)
	order, actions, err := oc.transitions.Actions(c.Request.Context(), id, role)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	history, err := oc.transitions.History(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	detail := newOrderDetail(order, actions)
	detail.History = history
	utils.RespondJSON(c, http.StatusOK, "Order details", detail)
}

func (oc *OrderController) GetActions(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	role, _ := operatorRole(c)
	_, actions, err := oc.transitions.Actions(c.Request.Context(), id, role)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	if actions == nil {
		actions = []lifecycle.Action{}
	}
	utils.RespondJSON(c, http.StatusOK, "Next actions", actions)
}

// TransitionOrder -> move the order along; the response is the stored order
func (oc *OrderController) TransitionOrder(c *gin.Context) {
	role, ok := operatorRole(c)
	if !ok {
		utils.RespondError(c, http.StatusForbidden, errors.New("role cannot change orders"))
		return
	}
	transition(c, oc.transitions, role)
}

// DeleteOrder -> drafts only
func (oc *OrderController) DeleteOrder(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	if err := oc.orders.DeleteDraft(c.Request.Context(), id); err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Draft deleted", nil)
}

// GetOrderStatus -> public tracking by order number
func (oc *OrderController) GetOrderStatus(c *gin.Context) {
	order, err := oc.orders.GetByOrderNo(c.Request.Context(), c.Param("order_no"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Order status", gin.H{
		"order_no":         order.OrderNo,
		"status":           lifecycle.Normalize(order.Status),
		"status_label":     order.StatusLabel(),
		"type":             order.Type,
		"payment_method":   order.PaymentMethod,
		"payment_verified": order.PaymentVerified(),
		"grand_total":      order.GrandTotal,
		"updated_at":       order.UpdatedAt,
	})
}

func transition(c *gin.Context, transitions *services.TransitionService, role lifecycle.Role) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var body struct {
		Status string `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	order, err := transitions.Transition(c.Request.Context(), id, body.Status, role, currentUserID(c))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, fmt.Sprintf("Order %s is now %s", order.OrderNo, order.StatusLabel().Text),
		newOrderDetail(order, lifecycle.NextActions(order.Lifecycle(), role)))
}

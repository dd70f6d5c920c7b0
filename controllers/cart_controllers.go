package controllers

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/yeremiapane/restaurant-pos/cart"
	"github.com/yeremiapane/restaurant-pos/services"
	"github.com/yeremiapane/restaurant-pos/utils"
)

// CartSessionHeader carries the customer cart key in both directions.
const CartSessionHeader = "X-Cart-Session"

// CartController serves one surface. The customer app keys carts by a
// session id it keeps; each POS operator has a cart of their own.
type CartController struct {
	carts   *services.CartService
	orders  *services.OrderService
	surface cart.Surface
}

func NewCustomerCartController(carts *services.CartService, orders *services.OrderService) *CartController {
	return &CartController{carts: carts, orders: orders, surface: cart.SurfaceCustomer}
}

func NewPOSCartController(carts *services.CartService, orders *services.OrderService) *CartController {
	return &CartController{carts: carts, orders: orders, surface: cart.SurfacePOS}
}

// sessionKey resolves the cart key for the request. Customers without a
// valid session id get a fresh one in the response header.
func (cc *CartController) sessionKey(c *gin.Context) (string, bool) {
	if cc.surface == cart.SurfacePOS {
		userID := currentUserID(c)
		if userID == nil {
			utils.RespondError(c, http.StatusUnauthorized, errors.New("unauthorized"))
			return "", false
		}
		return fmt.Sprintf("pos-%d", *userID), true
	}

	key := c.GetHeader(CartSessionHeader)
	if _, err := uuid.Parse(key); err != nil {
		key = uuid.NewString()
	}
	c.Header(CartSessionHeader, key)
	return key, true
}

func (cc *CartController) GetCart(c *gin.Context) {
	key, ok := cc.sessionKey(c)
	if !ok {
		return
	}
	l, err := cc.carts.Open(c.Request.Context(), key)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Cart", services.NewCartView(l))
}

func (cc *CartController) AddItem(c *gin.Context) {
	key, ok := cc.sessionKey(c)
	if !ok {
		return
	}
	var body services.LineInput
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	l, line, err := cc.carts.AddItem(c.Request.Context(), key, cc.surface, body)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusCreated, fmt.Sprintf("%s added to cart", line.Product.Name), gin.H{
		"line": line,
		"cart": services.NewCartView(l),
	})
}

// UpdateItem -> qty 0 or less removes the line
func (cc *CartController) UpdateItem(c *gin.Context) {
	key, ok := cc.sessionKey(c)
	if !ok {
		return
	}
	var body struct {
		Qty *int `json:"qty" binding:"required"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	l, err := cc.carts.UpdateQuantity(c.Request.Context(), key, c.Param("line_id"), *body.Qty)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Cart updated", services.NewCartView(l))
}

func (cc *CartController) RemoveItem(c *gin.Context) {
	key, ok := cc.sessionKey(c)
	if !ok {
		return
	}
	l, err := cc.carts.RemoveItem(c.Request.Context(), key, c.Param("line_id"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Item removed", services.NewCartView(l))
}

func (cc *CartController) ClearCart(c *gin.Context) {
	key, ok := cc.sessionKey(c)
	if !ok {
		return
	}
	if err := cc.carts.Clear(c.Request.Context(), key); err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Cart cleared", services.CartView{SessionKey: key, Lines: []cart.Line{}})
}

func (cc *CartController) ApplyDiscount(c *gin.Context) {
	key, ok := cc.sessionKey(c)
	if !ok {
		return
	}
	var body struct {
		Code string `json:"code" binding:"required"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	l, err := cc.carts.ApplyDiscount(c.Request.Context(), key, body.Code)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	view := services.NewCartView(l)
	utils.RespondJSON(c, http.StatusOK, fmt.Sprintf("Discount applied, you save %s", utils.FormatCurrencyIDR(view.Totals.Discount)), view)
}

func (cc *CartController) RemoveDiscount(c *gin.Context) {
	key, ok := cc.sessionKey(c)
	if !ok {
		return
	}
	l, err := cc.carts.RemoveDiscount(c.Request.Context(), key)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Discount removed", services.NewCartView(l))
}

// Checkout -> submit the cart as an order; the cart survives any failure
func (cc *CartController) Checkout(c *gin.Context) {
	key, ok := cc.sessionKey(c)
	if !ok {
		return
	}
	var body services.CheckoutInput
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	order, err := cc.orders.Checkout(c.Request.Context(), key, cc.surface, body)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusCreated,
		fmt.Sprintf("Order %s placed, total %s", order.OrderNo, utils.FormatCurrencyIDR(order.GrandTotal)),
		newOrderDetail(order, nil))
}

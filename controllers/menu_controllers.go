package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/restaurant-pos/services"
	"github.com/yeremiapane/restaurant-pos/utils"
)

type MenuController struct {
	catalog *services.CatalogService
}

func NewMenuController(catalog *services.CatalogService) *MenuController {
	return &MenuController{catalog: catalog}
}

// GetStore -> order/delivery switches
func (mc *MenuController) GetStore(c *gin.Context) {
	flags, err := mc.catalog.StoreFlags(c.Request.Context())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Store settings", flags)
}

// UpdateStore -> admin toggles ordering and delivery
func (mc *MenuController) UpdateStore(c *gin.Context) {
	var body struct {
		OrderEnabled    *bool `json:"order_enabled" binding:"required"`
		DeliveryEnabled *bool `json:"delivery_enabled" binding:"required"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}
	flags, err := mc.catalog.UpdateStoreFlags(c.Request.Context(), *body.OrderEnabled, *body.DeliveryEnabled)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Store settings updated", flags)
}

// GetAllMenus -> active products, optionally one category
func (mc *MenuController) GetAllMenus(c *gin.Context) {
	var categoryID *uint
	if raw := c.Query("category_id"); raw != "" {
		id, err := strconv.ParseUint(raw, 10, 32)
		if err != nil {
			utils.RespondError(c, http.StatusBadRequest, errors.New("invalid category_id"))
			return
		}
		v := uint(id)
		categoryID = &v
	}

	products, err := mc.catalog.ListProducts(c.Request.Context(), categoryID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "List of menus", products)
}

// GetMenuByID -> product with its modifier groups in display order
func (mc *MenuController) GetMenuByID(c *gin.Context) {
	id, ok := paramID(c, "product_id")
	if !ok {
		return
	}
	cfg, err := mc.catalog.ProductConfig(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, services.ErrProductUnavailable) {
			utils.RespondError(c, http.StatusNotFound, errors.New("menu not found"))
			return
		}
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Menu details", cfg)
}

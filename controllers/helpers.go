package controllers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/restaurant-pos/lifecycle"
	"github.com/yeremiapane/restaurant-pos/services"
	"github.com/yeremiapane/restaurant-pos/utils"
)

var (
	conflictErrors = []error{
		services.ErrOrderingDisabled,
		services.ErrDeliveryDisabled,
		services.ErrTransitionConflict,
		services.ErrAlreadyVerified,
		services.ErrNotDraft,
		services.ErrPricesChanged,
	}
	rejectedErrors = []error{
		services.ErrProductUnavailable,
		services.ErrInvalidSelection,
		services.ErrRequiredModifier,
		services.ErrEmptyCart,
		services.ErrInvalidOrder,
		services.ErrDiscountInvalid,
		services.ErrTransitionNotAllowed,
		services.ErrNotQRIS,
	}
	notFoundErrors = []error{
		services.ErrOrderNotFound,
		services.ErrLineNotFound,
	}
)

func isAny(err error, targets []error) bool {
	for _, t := range targets {
		if errors.Is(err, t) {
			return true
		}
	}
	return false
}

// respondServiceError maps service errors onto status codes. Constraint
// violations carry their message to the operator; anything unexpected is
// logged and hidden.
func respondServiceError(c *gin.Context, err error) {
	switch {
	case isAny(err, notFoundErrors):
		utils.RespondError(c, http.StatusNotFound, err)
	case errors.Is(err, services.ErrTransitionConflict):
		utils.RespondRetryable(c, http.StatusConflict, err)
	case isAny(err, conflictErrors):
		utils.RespondError(c, http.StatusConflict, err)
	case isAny(err, rejectedErrors):
		utils.RespondError(c, http.StatusUnprocessableEntity, err)
	case errors.Is(err, services.ErrDiscountUnavailable):
		utils.RespondRetryable(c, http.StatusBadGateway, err)
	default:
		utils.ErrorLogger.Errorf("%s %s: %v", c.Request.Method, c.FullPath(), err)
		utils.RespondError(c, http.StatusInternalServerError, errors.New("something went wrong, please try again"))
	}
}

func paramID(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 32)
	if err != nil || id == 0 {
		utils.RespondError(c, http.StatusBadRequest, fmt.Errorf("invalid %s", name))
		return 0, false
	}
	return uint(id), true
}

// currentUserID returns the authenticated account id, if any.
func currentUserID(c *gin.Context) *uint {
	v, ok := c.Get("user_id")
	if !ok {
		return nil
	}
	id, ok := v.(uint)
	if !ok || id == 0 {
		return nil
	}
	return &id
}

// operatorRole maps the account role on the request to a lifecycle role.
func operatorRole(c *gin.Context) (lifecycle.Role, bool) {
	role, _ := c.Get("role")
	s, _ := role.(string)
	return lifecycle.RoleFor(s)
}

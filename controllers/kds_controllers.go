package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/yeremiapane/restaurant-pos/kds"
	"github.com/yeremiapane/restaurant-pos/lifecycle"
	"github.com/yeremiapane/restaurant-pos/middlewares"
	"github.com/yeremiapane/restaurant-pos/utils"
)

type KDSController struct {
	hub      *kds.Hub
	upgrader websocket.Upgrader
}

// NewKDSController accepts upgrades from the same origins CORS allows.
func NewKDSController(hub *kds.Hub, origins string) *KDSController {
	allowed := middlewares.ParseOrigins(origins)
	return &KDSController{
		hub: hub,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				return allowed.Allows(r.Header.Get("Origin"))
			},
		},
	}
}

// KDSHandler -> GET /ws/:role. Kitchen screens can be opened by any
// operator; the staff feed needs a front of house account.
func (kc *KDSController) KDSHandler(c *gin.Context) {
	account, ok := operatorRole(c)
	if !ok {
		utils.RespondError(c, http.StatusForbidden, errors.New("role cannot open live screens"))
		return
	}

	screen := lifecycle.Role(c.Param("role"))
	switch screen {
	case lifecycle.RoleKitchen:
	case lifecycle.RoleStaff:
		if account != lifecycle.RoleStaff {
			utils.RespondError(c, http.StatusForbidden, errors.New("staff screen needs a staff account"))
			return
		}
	default:
		utils.RespondError(c, http.StatusNotFound, errors.New("unknown screen"))
		return
	}

	ws, err := kc.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		utils.ErrorLogger.Printf("websocket upgrade failed: %v", err)
		return
	}

	kc.hub.Register(ws, screen)
	utils.InfoLogger.WithField("screen", screen).Info("kds client connected")

	for {
		if _, _, err := ws.ReadMessage(); err != nil {
			break
		}
	}

	kc.hub.Unregister(ws)
}

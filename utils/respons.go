package utils

import (
	"github.com/gin-gonic/gin"
)

type JSONResponse struct {
	Status  bool        `json:"status"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
	// Retryable tells the client the same request may succeed later as is.
	Retryable bool `json:"retryable,omitempty"`
}

func RespondJSON(c *gin.Context, code int, message string, data interface{}) {
	c.JSON(code, JSONResponse{
		Status:  code >= 200 && code < 300,
		Message: message,
		Data:    data,
	})
}

func RespondError(c *gin.Context, code int, err error) {
	c.JSON(code, JSONResponse{
		Status:  false,
		Message: err.Error(),
	})
}

// RespondRetryable reports a failure the client can retry without changing
// anything, e.g. an upstream outage or a lost race on an order.
func RespondRetryable(c *gin.Context, code int, err error) {
	c.JSON(code, JSONResponse{
		Status:    false,
		Message:   err.Error(),
		Retryable: true,
	})
}

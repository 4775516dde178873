package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	svcErr "github.com/datera/datera-backend/internal/errors"
)

// Response is the uniform JSON envelope. Code is 0 on success and the
// HTTP status on failure.
type Response struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

func respondOK(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, Response{Code: 0, Message: "success", Data: data})
}

func respondCreated(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, Response{Code: 0, Message: "created", Data: data})
}

func respondBadRequest(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, Response{Code: http.StatusBadRequest, Message: message})
}

// respondError maps a service error onto the envelope. The payment
// outcome carries a paywall marker so clients can branch without string
// matching.
func respondError(c *gin.Context, err error) {
	status := svcErr.Status(err)
	resp := Response{Code: status, Message: err.Error()}
	if status == http.StatusPaymentRequired {
		resp.Data = gin.H{"paywall": true}
	}
	c.JSON(status, resp)
}

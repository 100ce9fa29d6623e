package utils

import (
	"github.com/gin-gonic/gin"
)

// JSONResponse is the envelope every handler answers with. Code carries the
// stable machine-readable token of a domain failure; Items names the menu
// item IDs a failure applies to.
type JSONResponse struct {
	Status  bool        `json:"status"`
	Message string      `json:"message"`
	Code    string      `json:"code,omitempty"`
	Items   []uint      `json:"items,omitempty"`
	Data    interface{} `json:"data,omitempty"`
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

// RespondFailure reports a typed domain failure with its stable code and the
// item IDs it concerns.
func RespondFailure(c *gin.Context, httpStatus int, code, message string, items []uint) {
	c.JSON(httpStatus, JSONResponse{
		Status:  false,
		Message: message,
		Code:    code,
		Items:   items,
	})
}

package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/yeremiapane/restaurant-orders/services"
	"github.com/yeremiapane/restaurant-orders/utils"
)

// respondServiceError maps a typed domain failure onto its status line and
// machine-readable code; anything untyped is a 500.
func respondServiceError(c *gin.Context, err error) {
	var de *services.DomainError
	if errors.As(err, &de) {
		utils.RespondFailure(c, de.HTTPStatus(), de.Code, de.Message, de.Items)
		return
	}
	utils.RespondError(c, http.StatusInternalServerError, err)
}

// paramUint parses a numeric path parameter, answering a 400 itself when the
// value is garbage.
func paramUint(c *gin.Context, name string) (uint, bool) {
	raw := c.Param(name)
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		utils.RespondFailure(c, http.StatusBadRequest, services.CodeValidation,
			"invalid "+name+" parameter", nil)
		return 0, false
	}
	return uint(id), true
}

// currentUserID pulls the authenticated user's ID placed by the auth
// middleware, nil when the route runs unauthenticated.
func currentUserID(c *gin.Context) *uint {
	v, ok := c.Get("user_id")
	if !ok {
		return nil
	}
	id, ok := v.(uint)
	if !ok {
		return nil
	}
	return &id
}

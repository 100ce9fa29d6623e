package middlewares

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yeremiapane/restaurant-orders/utils"
)

// RequireRoles lets the request through only when the authenticated role is
// one of the listed ones. Admin passes every check.
func RequireRoles(roles ...string) gin.HandlerFunc {
	allowed := make(map[string]bool, len(roles))
	for _, role := range roles {
		allowed[role] = true
	}

	return func(c *gin.Context) {
		userRole, exists := c.Get("role")
		if !exists {
			utils.RespondError(c, http.StatusUnauthorized, fmt.Errorf("unauthorized"))
			c.Abort()
			return
		}

		role, _ := userRole.(string)
		if role != "admin" && !allowed[role] {
			utils.RespondError(c, http.StatusForbidden, fmt.Errorf("%s access required", rolesLabel(roles)))
			c.Abort()
			return
		}
		c.Next()
	}
}

func rolesLabel(roles []string) string {
	if len(roles) == 1 {
		return roles[0]
	}
	label := ""
	for i, role := range roles {
		if i > 0 {
			label += " or "
		}
		label += role
	}
	return label
}

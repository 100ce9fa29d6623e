package utils

import (
	"strconv"

	"github.com/gin-gonic/gin"
)

// Pagination converts ?page= and ?limit= query params into an offset/limit
// pair, clamping the limit to keep list endpoints bounded.
func Pagination(c *gin.Context, defaultLimit int) (offset, limit int) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ = strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(defaultLimit)))

	if page < 1 {
		page = 1
	}
	if limit <= 0 || limit > 100 {
		limit = defaultLimit
	}
	return (page - 1) * limit, limit
}

package middleware

import (
	"strconv"

	"github.com/labstack/echo/v4"
)

// AdminID returns the admin id stored by AdminAuth.
func AdminID(c echo.Context) (int64, bool) {
	id, ok := c.Get(AdminIDKey).(int64)
	return id, ok && id > 0
}

// requester identifies the caller for rate limiting: the admin id when
// authenticated, "anon" otherwise.
func requester(c echo.Context) string {
	if id, ok := AdminID(c); ok {
		return "admin-" + strconv.FormatInt(id, 10)
	}
	return "anon"
}

// Package handler implements the HTTP endpoints. Handlers depend on small
// store interfaces (declared next to the handler that uses them) rather
// than concrete repositories, so each endpoint can be exercised in tests
// with in-memory fakes and no live database.
package handler

import (
	"strconv"

	"github.com/labstack/echo/v4"
)

// dbTimeout bounds every storage call made from a handler.
const dbTimeoutSeconds = 5

// pathID parses a numeric path parameter. A malformed value is reported by
// the caller as 400; a well-formed ID that matches nothing becomes 404.
func pathID(c echo.Context, name string) (uint64, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		return 0, false
	}
	return id, true
}

// Package handlers exposes the workshop engine over HTTP. Authorization is
// thin: public reads need only the session code, participant writes trust the
// client-held participant id, and admin operations require the session's
// admin key.
package handlers

import (
	"strings"

	"github.com/gin-gonic/gin"
)

// adminKeyHeader carries the session admin key on admin requests.
const adminKeyHeader = "X-Admin-Key"

// sessionCode normalizes the :code path parameter the way join codes are
// displayed: uppercase, no surrounding space.
func sessionCode(c *gin.Context) string {
	return strings.ToUpper(strings.TrimSpace(c.Param("code")))
}

// adminKey extracts the admin key from the header, falling back to the "key"
// query parameter for GET requests.
func adminKey(c *gin.Context) string {
	if key := c.GetHeader(adminKeyHeader); key != "" {
		return key
	}
	return c.Query("key")
}

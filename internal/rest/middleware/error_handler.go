package middleware

import (
	"github.com/gin-gonic/gin"

	ierr "github.com/revlytics/revlytics/internal/errors"
)

// ErrorHandler converts errors attached to the gin context into the standard
// error response shape. Handlers call c.Error(err) and return; this middleware
// owns the status code and body.
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 {
			return
		}

		err := c.Errors.Last().Err
		c.JSON(ierr.HTTPStatusFromErr(err), ierr.NewErrorResponse(err))
	}
}

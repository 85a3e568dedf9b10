package middleware

import (
	"math/rand"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/oklog/ulid/v2"

	"github.com/revlytics/revlytics/internal/types"
)

// RequestIDMiddleware assigns every request a ULID, honoring an incoming
// X-Request-ID header when present, and stores it on the request context
func RequestIDMiddleware() gin.HandlerFunc {
	entropy := ulid.Monotonic(rand.New(rand.NewSource(time.Now().UnixNano())), 0)

	return func(c *gin.Context) {
		requestID := c.GetHeader(types.HeaderRequestID)
		if requestID == "" {
			requestID = ulid.MustNew(ulid.Timestamp(time.Now()), entropy).String()
		}

		ctx := types.SetRequestID(c.Request.Context(), requestID)
		c.Request = c.Request.WithContext(ctx)
		c.Header(types.HeaderRequestID, requestID)

		c.Next()
	}
}

package middleware

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/google/uuid"
)

const (
	// RequestIDHeader is the header name for request ID
	RequestIDHeader = fiber.HeaderXRequestID
	// RequestIDKey is the fiber.Locals key for request ID
	RequestIDKey = "request_id"
)

// RequestID adds a unique request ID to each request.
// If the client provides an X-Request-ID header, it is used; otherwise, a new UUID is generated.
func RequestID() fiber.Handler {
	return requestid.New(requestid.Config{
		Header: RequestIDHeader,
		Generator: func() string {
			return uuid.New().String()
		},
		ContextKey: RequestIDKey,
	})
}

// GetRequestID retrieves the request ID from the fiber context.
func GetRequestID(c *fiber.Ctx) string {
	if id, ok := c.Locals(RequestIDKey).(string); ok {
		return id
	}
	return ""
}

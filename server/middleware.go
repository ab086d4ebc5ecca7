package server

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/lessonforge/lessonforge/logging"
)

// RequestLogger returns a middleware that logs one structured line per
// request: method, path, status, latency and client address.
func RequestLogger(logger logging.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path

		c.Next()

		logger.Info("http.request",
			"method", c.Request.Method,
			"path", path,
			"status", c.Writer.Status(),
			"latency_ms", time.Since(start).Milliseconds(),
			"client_ip", c.ClientIP(),
		)
	}
}

// Recovery returns a middleware that converts handler panics into a 500
// response instead of tearing down the connection.
func Recovery(logger logging.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if r := recover(); r != nil {
				logger.Error("http.panic", "path", c.Request.URL.Path, "recover", r)
				c.AbortWithStatusJSON(http.StatusInternalServerError,
					gin.H{"error": "internal server error"})
			}
		}()
		c.Next()
	}
}

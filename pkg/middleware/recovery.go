package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/liftmate/liftmate/pkg/common"
	"github.com/liftmate/liftmate/pkg/logger"
	"go.uber.org/zap"
)

const somethingBroke = "something went wrong, please try again"

// wantsHTML reports whether the client is a browser asking for a page
func wantsHTML(c *gin.Context) bool {
	return strings.Contains(c.GetHeader("Accept"), "text/html")
}

// Recovery turns a panicking handler into a 500. Pages get plain text, the
// API gets the JSON envelope. Nothing is written once the response has started.
func Recovery() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			rec := recover()
			if rec == nil {
				return
			}
			logger.WithContext(c.Request.Context()).Error("Panic recovered",
				zap.Any("panic", rec),
				zap.String("path", c.Request.URL.Path),
				zap.String("method", c.Request.Method),
				zap.Stack("stack"),
			)

			if c.Writer.Written() {
				c.Abort()
				return
			}
			if wantsHTML(c) {
				c.String(http.StatusInternalServerError, somethingBroke)
			} else {
				common.ErrorResponse(c, http.StatusInternalServerError, somethingBroke)
			}
			c.Abort()
		}()

		c.Next()
	}
}

package middleware

import (
	"log/slog"
	"net/http"

	"omiam-waitlist/internal/handler/httperr"
	"omiam-waitlist/internal/pkg/errs"

	"github.com/gin-gonic/gin"
)

const stackDepth = 12

// ErrorHandler renders the last public error when a handler aborted without
// writing a body, and logs the cause of every 5xx with its stack.
func ErrorHandler(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()
		defer logServerErrors(c, logger)

		if c.Writer.Written() {
			return
		}
		for i := len(c.Errors) - 1; i >= 0; i-- {
			if resp, ok := c.Errors[i].Meta.(httperr.Response); ok && c.Errors[i].IsType(gin.ErrorTypePublic) {
				c.JSON(resp.Status, resp)
				return
			}
		}
		switch {
		case len(c.Errors) > 0:
			writeInternalError(c)
		case c.Writer.Status() != http.StatusOK:
			c.Writer.WriteHeaderNow()
		}
	}
}

func logServerErrors(c *gin.Context, logger *slog.Logger) {
	if c.Writer.Status() < http.StatusInternalServerError {
		return
	}
	for _, e := range c.Errors {
		logger.Error("request failed",
			"request_id", GetRequestID(c),
			"route", c.FullPath(),
			"error", e.Err.Error(),
			"stack", errs.ExtractStackLines(e.Err, stackDepth))
	}
}

// CustomRecovery turns a panic into the standard 500 body. It must be the outermost middleware.
func CustomRecovery(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if rec := recover(); rec != nil {
				logger.Error("recovered from panic",
					"panic", rec,
					"request_id", GetRequestID(c),
					"method", c.Request.Method,
					"path", c.Request.URL.Path)
				writeInternalError(c)
				c.Abort()
			}
		}()
		c.Next()
	}
}

func writeInternalError(c *gin.Context) {
	resp := httperr.Response{Status: http.StatusInternalServerError}
	resp.Error.Message = "Internal server error"
	c.JSON(http.StatusInternalServerError, resp)
}

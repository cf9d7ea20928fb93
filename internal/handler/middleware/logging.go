package middleware

import (
	"io"
	"log/slog"
	"os"
	"time"

	"omiam-waitlist/internal/pkg/config"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	headerRequestID = "X-Request-ID"
	ctxRequestID    = "request_id"
	maxRequestIDLen = 64
)

// NewLogger builds the process logger: JSON in release mode, text otherwise,
// with timestamps rendered in the configured zone.
func NewLogger(cfg config.LogConfig) *slog.Logger {
	return newLogger(os.Stdout, cfg, gin.Mode() == gin.ReleaseMode)
}

func newLogger(w io.Writer, cfg config.LogConfig, asJSON bool) *slog.Logger {
	var level slog.Level
	if err := level.UnmarshalText([]byte(cfg.Level)); err != nil {
		level = slog.LevelInfo
	}

	loc := logLocation(cfg)
	opts := &slog.HandlerOptions{
		Level: level,
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			if len(groups) > 0 || a.Key != slog.TimeKey {
				return a
			}
			if t, ok := a.Value.Any().(time.Time); ok {
				a.Value = slog.StringValue(t.In(loc).Format(cfg.TimeFormat))
			}
			return a
		},
	}

	if asJSON {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

// logLocation prefers the IANA zone so that DST is honoured, falling back to
// the fixed offset when tzdata is unavailable.
func logLocation(cfg config.LogConfig) *time.Location {
	if loc, err := time.LoadLocation(cfg.TimeZone); err == nil {
		return loc
	}
	return time.FixedZone(cfg.TimeZone, cfg.TimeZoneOffset)
}

// RequestLogger tags every request with an id and logs one line when it completes.
func RequestLogger(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		requestID := c.GetHeader(headerRequestID)
		if requestID == "" || len(requestID) > maxRequestIDLen {
			requestID = uuid.NewString()
		}
		c.Set(ctxRequestID, requestID)
		c.Header(headerRequestID, requestID)

		c.Next()

		status := c.Writer.Status()
		attrs := []slog.Attr{
			slog.String("request_id", requestID),
			slog.String("method", c.Request.Method),
			slog.String("route", c.FullPath()),
			slog.Int("status_code", status),
			slog.Duration("duration", time.Since(start)),
			slog.String("client_ip", c.ClientIP()),
		}
		if id := c.Param("id"); id != "" {
			attrs = append(attrs, slog.String("entry_id", id))
		}
		if key := c.GetHeader("Idempotency-Key"); key != "" {
			attrs = append(attrs, slog.String("idempotency_key", key))
		}
		// staff context is only known once the route's auth middleware has run
		if staffID, ok := GetStaffID(c); ok {
			attrs = append(attrs, slog.String("staff_id", staffID.String()))
		}
		if role, ok := GetStaffRole(c); ok {
			attrs = append(attrs, slog.String("role", role.String()))
		}
		if len(c.Errors) > 0 {
			attrs = append(attrs, slog.String("errors", c.Errors.String()))
		}

		level := slog.LevelInfo
		switch {
		case status >= 500:
			level = slog.LevelError
		case status >= 400:
			level = slog.LevelWarn
		}
		logger.LogAttrs(c.Request.Context(), level, "request completed", attrs...)
	}
}

func GetRequestID(c *gin.Context) string {
	return c.GetString(ctxRequestID)
}

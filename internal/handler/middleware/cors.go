package middleware

import (
	"log/slog"
	"slices"

	"omiam-waitlist/internal/pkg/config"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// headers the waitlist front end reads on every response
var waitlistExposeHeaders = []string{"X-Request-ID", "Idempotent-Replayed"}

func NewCORSMiddleware(cfg config.CORSConfig) gin.HandlerFunc {
	expose := slices.Clone(cfg.ExposeHeaders)
	for _, h := range waitlistExposeHeaders {
		if !slices.Contains(expose, h) {
			expose = append(expose, h)
		}
	}

	slog.Info("CORS middleware initialized", "allow_origins", cfg.AllowOrigins, "expose_headers", expose)
	return cors.New(cors.Config{
		AllowOrigins:     cfg.AllowOrigins,
		AllowMethods:     cfg.AllowMethods,
		AllowHeaders:     append(slices.Clone(cfg.AllowHeaders), "X-Request-ID"),
		ExposeHeaders:    expose,
		AllowCredentials: cfg.AllowCredentials,
		MaxAge:           cfg.MaxAge,
	})
}

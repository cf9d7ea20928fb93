package handler

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"omiam-waitlist/internal/domain/staff"
	"omiam-waitlist/internal/handler/api"
	reqdto "omiam-waitlist/internal/handler/dto/request"
	"omiam-waitlist/internal/handler/middleware"
	"omiam-waitlist/internal/pkg/config"
	"omiam-waitlist/internal/pkg/metrics"
)

type route struct {
	Method  string
	Path    string
	Handler gin.HandlerFunc
	Mw      []gin.HandlerFunc
}

func NewRouter(
	engine *gin.Engine,
	cfg config.Config,
	logger *slog.Logger,
	waitlistHandler *api.WaitlistHandler,
	configHandler *api.ConfigurationHandler,
	authMiddleware *middleware.AuthMiddleware,
) {
	reqdto.RegisterValidators()
	setupMiddleware(engine, cfg, logger)
	setupRoutes(engine, waitlistHandler, configHandler, authMiddleware)
}

func setupMiddleware(engine *gin.Engine, cfg config.Config, logger *slog.Logger) {
	// Recovery must be first (outermost) to catch panics from all other middleware
	engine.Use(middleware.CustomRecovery(logger))
	engine.Use(middleware.NewCORSMiddleware(cfg.CORS))
	engine.Use(middleware.RequestLogger(logger))
	engine.Use(middleware.MetricsMiddleware())
	engine.Use(middleware.ErrorHandler(logger))
}

func setupRoutes(engine *gin.Engine, waitlistHandler *api.WaitlistHandler, configHandler *api.ConfigurationHandler, authMiddleware *middleware.AuthMiddleware) {
	engine.GET("/health", healthCheck)
	engine.GET("/metrics", gin.WrapH(metrics.Handler()))

	if gin.Mode() == gin.DebugMode {
		engine.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	waitlistGroup := engine.Group("/api/waitlist")
	{
		addRoutes(waitlistGroup, []route{
			{Method: http.MethodPost, Path: "/entries", Handler: waitlistHandler.Create},
		})

		staffOnly := waitlistGroup.Group("")
		staffOnly.Use(authMiddleware.RequireAuth(), authMiddleware.RequireRoleAtLeast(staff.RoleHost))
		addRoutes(staffOnly, []route{
			{Method: http.MethodGet, Path: "/entries", Handler: waitlistHandler.Search},
			{Method: http.MethodGet, Path: "/entries/:id", Handler: waitlistHandler.Get},
			{Method: http.MethodPatch, Path: "/entries/:id", Handler: waitlistHandler.Update},
			{Method: http.MethodPut, Path: "/entries/:id/status", Handler: waitlistHandler.ChangeStatus},
			{Method: http.MethodDelete, Path: "/entries/:id", Handler: waitlistHandler.Delete},
			{Method: http.MethodPost, Path: "/entries/:id/notifications", Handler: waitlistHandler.SendNotification},
			{Method: http.MethodPost, Path: "/entries/:id/notify", Handler: waitlistHandler.NotifyAvailability},
			{Method: http.MethodPost, Path: "/matches", Handler: waitlistHandler.FindMatches},
			{Method: http.MethodGet, Path: "/stats", Handler: waitlistHandler.Stats},
			{Method: http.MethodGet, Path: "/config", Handler: configHandler.Get},
			{Method: http.MethodGet, Path: "/templates", Handler: configHandler.Templates},
			{
				Method:  http.MethodPost,
				Path:    "/cleanup",
				Handler: waitlistHandler.Cleanup,
				Mw:      []gin.HandlerFunc{authMiddleware.RequireRoleAtLeast(staff.RoleManager)},
			},
			{
				Method:  http.MethodPut,
				Path:    "/config",
				Handler: configHandler.Replace,
				Mw:      []gin.HandlerFunc{authMiddleware.RequireRoleAtLeast(staff.RoleAdmin)},
			},
			{
				Method:  http.MethodPatch,
				Path:    "/config",
				Handler: configHandler.Merge,
				Mw:      []gin.HandlerFunc{authMiddleware.RequireRoleAtLeast(staff.RoleAdmin)},
			},
		})
	}
}

// @Summary Health check
// @Description Check if the service is healthy
// @Tags health
// @Produce json
// @Success 200 {object} map[string]string
// @Router /health [get]
func healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"message": "Service is healthy",
	})
}

func addRoutes(g *gin.RouterGroup, rs []route) {
	for _, r := range rs {
		h := r.Handler
		if len(r.Mw) > 0 {
			h = chainHandlers(append(r.Mw, r.Handler)...)
		}
		switch r.Method {
		case http.MethodGet:
			g.GET(r.Path, h)
		case http.MethodPost:
			g.POST(r.Path, h)
		case http.MethodPut:
			g.PUT(r.Path, h)
		case http.MethodPatch:
			g.PATCH(r.Path, h)
		case http.MethodDelete:
			g.DELETE(r.Path, h)
		default:
			g.Any(r.Path, h)
		}
	}
}

func chainHandlers(hs ...gin.HandlerFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		for _, h := range hs {
			h(c)
			if c.IsAborted() {
				return
			}
		}
	}
}

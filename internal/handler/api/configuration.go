package api

import (
	"net/http"

	"omiam-waitlist/internal/domain/waitlist"
	reqdto "omiam-waitlist/internal/handler/dto/request"
	resdto "omiam-waitlist/internal/handler/dto/response"
	"omiam-waitlist/internal/handler/httperr"
	"omiam-waitlist/internal/usecase/commands"
	"omiam-waitlist/internal/usecase/queries"

	"github.com/gin-gonic/gin"
)

type ConfigurationHandler struct {
	commands commands.ConfigurationCommands
	queries  queries.ConfigurationQueries
}

func NewConfigurationHandler(cmds commands.ConfigurationCommands, q queries.ConfigurationQueries) *ConfigurationHandler {
	return &ConfigurationHandler{commands: cmds, queries: q}
}

// @Summary Current waitlist configuration
// @Tags configuration
// @Produce json
// @Security BearerAuth
// @Success 200 {object} waitlist.Configuration
// @Router /api/waitlist/config [get]
func (h *ConfigurationHandler) Get(c *gin.Context) {
	c.JSON(http.StatusOK, h.queries.Get(c.Request.Context()))
}

// @Summary Replace waitlist configuration
// @Tags configuration
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body waitlist.Configuration true "Full configuration"
// @Success 200 {object} waitlist.Configuration
// @Failure 400 {object} httperr.Response
// @Router /api/waitlist/config [put]
func (h *ConfigurationHandler) Replace(c *gin.Context) {
	var cfg waitlist.Configuration
	if err := c.ShouldBindJSON(&cfg); err != nil {
		httperr.AbortBadRequest(c, err, "Invalid request")
		return
	}
	updated, err := h.commands.Replace(c.Request.Context(), cfg)
	if err != nil {
		abortWithConfigurationError(c, err)
		return
	}
	c.JSON(http.StatusOK, updated)
}

// @Summary Update part of the waitlist configuration
// @Tags configuration
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body reqdto.ConfigurationPatchRequest true "Sections to replace"
// @Success 200 {object} waitlist.Configuration
// @Failure 400 {object} httperr.Response
// @Router /api/waitlist/config [patch]
func (h *ConfigurationHandler) Merge(c *gin.Context) {
	var req reqdto.ConfigurationPatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.AbortBadRequest(c, err, "Invalid request")
		return
	}
	updated, err := h.commands.Merge(c.Request.Context(), req.ToCommand())
	if err != nil {
		abortWithConfigurationError(c, err)
		return
	}
	c.JSON(http.StatusOK, updated)
}

// @Summary Notification templates
// @Tags configuration
// @Produce json
// @Security BearerAuth
// @Success 200 {array} resdto.TemplateResponse
// @Router /api/waitlist/templates [get]
func (h *ConfigurationHandler) Templates(c *gin.Context) {
	c.JSON(http.StatusOK, resdto.FromTemplateViews(h.queries.Templates(c.Request.Context())))
}

func abortWithConfigurationError(c *gin.Context, err error) {
	httperr.AbortWithRules(c, err, []httperr.Rule{
		{Target: commands.ErrDomainValidation, Status: http.StatusBadRequest, Message: "Invalid configuration"},
	})
}

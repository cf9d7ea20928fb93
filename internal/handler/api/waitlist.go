package api

import (
	"net/http"

	"omiam-waitlist/internal/domain/notification"
	"omiam-waitlist/internal/domain/waitlist"
	reqdto "omiam-waitlist/internal/handler/dto/request"
	resdto "omiam-waitlist/internal/handler/dto/response"
	"omiam-waitlist/internal/handler/httperr"
	"omiam-waitlist/internal/pkg/errs"
	"omiam-waitlist/internal/usecase/commands"
	"omiam-waitlist/internal/usecase/queries"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	headerIdempotencyKey = "Idempotency-Key"
	headerReplayed       = "Idempotent-Replayed"
	maxIdempotencyKeyLen = 255
)

type WaitlistHandler struct {
	commands commands.WaitlistCommands
	queries  queries.WaitlistQueries
}

func NewWaitlistHandler(cmds commands.WaitlistCommands, q queries.WaitlistQueries) *WaitlistHandler {
	return &WaitlistHandler{commands: cmds, queries: q}
}

// @Summary Join the waitlist
// @Description Creates a waitlist entry. Priority and estimated wait are computed by the server.
// @Tags waitlist
// @Accept json
// @Produce json
// @Param Idempotency-Key header string false "Replays the first result for identical retries"
// @Param request body reqdto.CreateEntryRequest true "Entry"
// @Success 201 {object} resdto.EntryResponse
// @Failure 400 {object} httperr.Response
// @Failure 409 {object} httperr.Response
// @Router /api/waitlist/entries [post]
func (h *WaitlistHandler) Create(c *gin.Context) {
	key := c.GetHeader(headerIdempotencyKey)
	if len(key) > maxIdempotencyKeyLen {
		httperr.AbortBadRequest(c, errs.New("idempotency key too long"), "Invalid Idempotency-Key")
		return
	}

	var req reqdto.CreateEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.AbortBadRequest(c, err, "Invalid request")
		return
	}
	cmd, err := req.ToCommand()
	if err != nil {
		httperr.AbortBadRequest(c, err, "Invalid request")
		return
	}

	result, err := h.commands.Create(c.Request.Context(), cmd, key)
	if err != nil {
		abortWithWaitlistError(c, err)
		return
	}

	view, err := h.queries.GetByID(c.Request.Context(), result.EntryID)
	if err != nil {
		httperr.AbortWithError(c, http.StatusInternalServerError, err, "Failed to load entry", nil)
		return
	}

	c.Header("Location", "/api/waitlist/entries/"+result.EntryID.String())
	status := http.StatusCreated
	if result.IsReplayed {
		c.Header(headerReplayed, "true")
		status = http.StatusOK
	}
	c.JSON(status, resdto.FromEntryView(view))
}

// @Summary Search entries
// @Tags waitlist
// @Produce json
// @Security BearerAuth
// @Param status query string false "Comma separated statuses"
// @Param priority query string false "Comma separated priorities"
// @Param seating query string false "Comma separated seating preferences"
// @Param from query string false "Earliest preferred date (YYYY-MM-DD)"
// @Param to query string false "Latest preferred date (YYYY-MM-DD)"
// @Param q query string false "Matches name, email or phone"
// @Param after query string false "Cursor from a previous page"
// @Param limit query int false "Page size"
// @Success 200 {object} resdto.EntryListResponse
// @Failure 400 {object} httperr.Response
// @Router /api/waitlist/entries [get]
func (h *WaitlistHandler) Search(c *gin.Context) {
	var q reqdto.SearchQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		httperr.AbortBadRequest(c, err, "Invalid query")
		return
	}
	filter, err := q.ToFilter()
	if err != nil {
		httperr.AbortBadRequest(c, err, "Invalid query")
		return
	}

	var after *queries.Cursor
	if q.After != "" {
		after = &queries.Cursor{After: q.After}
	}

	views, next, err := h.queries.Search(c.Request.Context(), filter, after, q.Limit)
	if err != nil {
		abortWithWaitlistError(c, err)
		return
	}
	c.JSON(http.StatusOK, resdto.FromEntryViews(views, next))
}

// @Summary Get entry
// @Tags waitlist
// @Produce json
// @Security BearerAuth
// @Param id path string true "Entry ID"
// @Success 200 {object} resdto.EntryResponse
// @Failure 404 {object} httperr.Response
// @Router /api/waitlist/entries/{id} [get]
func (h *WaitlistHandler) Get(c *gin.Context) {
	id, ok := entryID(c)
	if !ok {
		return
	}
	view, err := h.queries.GetByID(c.Request.Context(), id)
	if err != nil {
		abortWithWaitlistError(c, err)
		return
	}
	c.JSON(http.StatusOK, resdto.FromEntryView(view))
}

// @Summary Update entry
// @Description Merges the supplied fields. Priority is only changed when given explicitly.
// @Tags waitlist
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Entry ID"
// @Param request body reqdto.UpdateEntryRequest true "Fields to change"
// @Success 200 {object} resdto.EntryResponse
// @Failure 400 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Router /api/waitlist/entries/{id} [patch]
func (h *WaitlistHandler) Update(c *gin.Context) {
	id, ok := entryID(c)
	if !ok {
		return
	}
	var req reqdto.UpdateEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.AbortBadRequest(c, err, "Invalid request")
		return
	}
	cmd, err := req.ToCommand()
	if err != nil {
		httperr.AbortBadRequest(c, err, "Invalid request")
		return
	}

	if err := h.commands.Update(c.Request.Context(), id, cmd); err != nil {
		abortWithWaitlistError(c, err)
		return
	}
	h.respondWithEntry(c, id)
}

// @Summary Change entry status
// @Tags waitlist
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Entry ID"
// @Param request body reqdto.ChangeStatusRequest true "New status"
// @Success 200 {object} resdto.EntryResponse
// @Failure 400 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Router /api/waitlist/entries/{id}/status [put]
func (h *WaitlistHandler) ChangeStatus(c *gin.Context) {
	id, ok := entryID(c)
	if !ok {
		return
	}
	var req reqdto.ChangeStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.AbortBadRequest(c, err, "Invalid request")
		return
	}

	if err := h.commands.ChangeStatus(c.Request.Context(), id, waitlist.Status(req.Status)); err != nil {
		abortWithWaitlistError(c, err)
		return
	}
	h.respondWithEntry(c, id)
}

// @Summary Delete entry
// @Tags waitlist
// @Security BearerAuth
// @Param id path string true "Entry ID"
// @Success 204
// @Failure 404 {object} httperr.Response
// @Router /api/waitlist/entries/{id} [delete]
func (h *WaitlistHandler) Delete(c *gin.Context) {
	id, ok := entryID(c)
	if !ok {
		return
	}
	found, err := h.commands.Delete(c.Request.Context(), id)
	if err != nil {
		abortWithWaitlistError(c, err)
		return
	}
	if !found {
		httperr.AbortWithError(c, http.StatusNotFound, commands.ErrEntryNotFound, "Entry not found", nil)
		return
	}
	c.Status(http.StatusNoContent)
}

// @Summary Send a notification
// @Description Renders the active template of the category and hands it to the transport.
// @Tags notifications
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Entry ID"
// @Param request body reqdto.SendNotificationRequest true "Template category"
// @Success 202 {object} resdto.SendNotificationResponse
// @Failure 404 {object} httperr.Response
// @Failure 409 {object} httperr.Response
// @Failure 422 {object} httperr.Response
// @Router /api/waitlist/entries/{id}/notifications [post]
func (h *WaitlistHandler) SendNotification(c *gin.Context) {
	id, ok := entryID(c)
	if !ok {
		return
	}
	var req reqdto.SendNotificationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.AbortBadRequest(c, err, "Invalid request")
		return
	}
	category, err := notification.NewCategory(req.Category)
	if err != nil {
		httperr.AbortBadRequest(c, err, "Invalid category")
		return
	}

	result, err := h.commands.Send(c.Request.Context(), id, category)
	if err != nil {
		abortWithWaitlistError(c, err)
		return
	}
	c.JSON(http.StatusAccepted, resdto.FromSendResult(result))
}

// @Summary Offer a table
// @Description Sends the availability template and marks a waiting entry as notified.
// @Tags notifications
// @Produce json
// @Security BearerAuth
// @Param id path string true "Entry ID"
// @Success 202 {object} resdto.SendNotificationResponse
// @Failure 404 {object} httperr.Response
// @Router /api/waitlist/entries/{id}/notify [post]
func (h *WaitlistHandler) NotifyAvailability(c *gin.Context) {
	id, ok := entryID(c)
	if !ok {
		return
	}
	result, err := h.commands.NotifyAvailability(c.Request.Context(), id)
	if err != nil {
		abortWithWaitlistError(c, err)
		return
	}
	c.JSON(http.StatusAccepted, resdto.FromSendResult(result))
}

// @Summary Match freed tables
// @Tags waitlist
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body reqdto.FindMatchesRequest true "Available slots"
// @Success 200 {array} resdto.MatchResponse
// @Failure 400 {object} httperr.Response
// @Router /api/waitlist/matches [post]
func (h *WaitlistHandler) FindMatches(c *gin.Context) {
	var req reqdto.FindMatchesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.AbortBadRequest(c, err, "Invalid request")
		return
	}
	slots, err := req.ToDomain()
	if err != nil {
		httperr.AbortBadRequest(c, err, "Invalid request")
		return
	}

	matches, err := h.queries.FindMatches(c.Request.Context(), slots)
	if err != nil {
		abortWithWaitlistError(c, err)
		return
	}
	c.JSON(http.StatusOK, resdto.FromMatchViews(matches))
}

// @Summary Remove expired entries
// @Tags maintenance
// @Produce json
// @Security BearerAuth
// @Success 200 {object} resdto.CleanupResponse
// @Router /api/waitlist/cleanup [post]
func (h *WaitlistHandler) Cleanup(c *gin.Context) {
	removed, err := h.commands.Cleanup(c.Request.Context())
	if err != nil {
		abortWithWaitlistError(c, err)
		return
	}
	c.JSON(http.StatusOK, resdto.CleanupResponse{Removed: removed})
}

// @Summary Waitlist statistics
// @Tags maintenance
// @Produce json
// @Security BearerAuth
// @Success 200 {object} resdto.StatsResponse
// @Router /api/waitlist/stats [get]
func (h *WaitlistHandler) Stats(c *gin.Context) {
	stats, err := h.queries.Stats(c.Request.Context())
	if err != nil {
		abortWithWaitlistError(c, err)
		return
	}
	c.JSON(http.StatusOK, resdto.FromStatsView(stats))
}

func (h *WaitlistHandler) respondWithEntry(c *gin.Context, id uuid.UUID) {
	view, err := h.queries.GetByID(c.Request.Context(), id)
	if err != nil {
		abortWithWaitlistError(c, err)
		return
	}
	c.JSON(http.StatusOK, resdto.FromEntryView(view))
}

func entryID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httperr.AbortBadRequest(c, err, "Invalid entry ID format")
		return uuid.Nil, false
	}
	return id, true
}

var waitlistErrorRules = []httperr.Rule{
	{Target: commands.ErrEntryNotFound, Status: http.StatusNotFound, Message: "Entry not found"},
	{Target: queries.ErrEntryNotFound, Status: http.StatusNotFound, Message: "Entry not found"},
	{Target: commands.ErrCapacityExceeded, Status: http.StatusConflict, Message: "Customer has too many active waitlist entries"},
	{Target: commands.ErrIdempotencyInProgress, Status: http.StatusConflict, Message: "Request is currently being processed"},
	{Target: commands.ErrIdempotencyConflict, Status: http.StatusConflict, Message: "Idempotency key reused with a different request"},
	{Target: commands.ErrTemplateUnavailable, Status: http.StatusUnprocessableEntity, Message: "No active template for this category"},
	{Target: commands.ErrChannelDisabled, Status: http.StatusUnprocessableEntity, Message: "No notification channel enabled"},
	{Target: commands.ErrQuietHours, Status: http.StatusConflict, Message: "Notifications are paused during quiet hours"},
	{Target: commands.ErrEntryNotWaiting, Status: http.StatusConflict, Message: "Entry is no longer waiting for a table"},
	{Target: queries.ErrInvalidCursor, Status: http.StatusBadRequest, Message: "Invalid cursor"},
	{Target: commands.ErrDomainValidation, Status: http.StatusBadRequest, Message: "Domain validation failed"},
}

func abortWithWaitlistError(c *gin.Context, err error) {
	httperr.AbortWithRules(c, err, waitlistErrorRules)
}

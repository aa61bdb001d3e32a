package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/tradevault/backend/internal/models"
	"github.com/tradevault/backend/internal/repositories"
	"github.com/tradevault/backend/internal/services"
)

// ActivityHandler serves the global activity log and its aggregated index.
type ActivityHandler struct {
	activity   *services.ActivityService
	activities repositories.ActivityRepository
	aggregated repositories.AggregatedRepository
}

// NewActivityHandler creates a new ActivityHandler.
func NewActivityHandler(activity *services.ActivityService, activities repositories.ActivityRepository, aggregated repositories.AggregatedRepository) *ActivityHandler {
	return &ActivityHandler{
		activity:   activity,
		activities: activities,
		aggregated: aggregated,
	}
}

// RegisterActivityRoutes registers activity log routes.
func (h *ActivityHandler) RegisterActivityRoutes(g *echo.Group) {
	g.POST("/activity", h.RecordActivity)
	g.GET("/activity", h.ListActivity)
	g.GET("/activity/accounts/:account", h.ListAccountActivity)

	g.GET("/activity/aggregated", h.QueryAggregated)
	g.GET("/activity/aggregated/:id", h.GetAggregated)
	g.POST("/activity/aggregated/:id/tags", h.AddTag)
	g.DELETE("/activity/aggregated/:id/tags/:tag", h.RemoveTag)
}

// RecordActivity records one activity event for an account.
func (h *ActivityHandler) RecordActivity(c echo.Context) error {
	var req models.AddActivityRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	stored, err := h.activity.Record(c.Request().Context(), req)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusCreated, echo.Map{"success": true, "data": stored})
}

// ListActivity lists activity across accounts with optional filters.
func (h *ActivityHandler) ListActivity(c echo.Context) error {
	filter := activityFilterFromQuery(c)
	entries, err := h.activities.ListAll(c.Request().Context(), filter)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": entries, "meta": pageMeta(entries)})
}

// ListAccountActivity pages through one account's activity, newest first.
// The last entry's timestamp is the cursor for the next page.
func (h *ActivityHandler) ListAccountActivity(c echo.Context) error {
	filter := activityFilterFromQuery(c)
	account := models.NormalizeAddress(c.Param("account"))
	entries, err := h.activities.ListByAccount(c.Request().Context(), account, filter)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": entries, "meta": pageMeta(entries)})
}

// QueryAggregated filters the aggregated index. Account, txHash and
// contractAddress match case-insensitively.
func (h *ActivityHandler) QueryAggregated(c echo.Context) error {
	filter := models.AggregatedFilter{
		Account:             c.QueryParam("account"),
		TxHash:              c.QueryParam("txHash"),
		ContractAddress:     c.QueryParam("contractAddress"),
		Limit:               queryInt(c, "limit"),
		StartAfterTimestamp: queryInt(c, "startAfter"),
	}
	if tags := c.QueryParam("tags"); tags != "" {
		filter.Tags = strings.Split(tags, ",")
	}

	rows, err := h.aggregated.Query(c.Request().Context(), filter)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": rows})
}

// GetAggregated fetches one aggregated entry by id.
func (h *ActivityHandler) GetAggregated(c echo.Context) error {
	row, err := h.aggregated.GetByID(c.Request().Context(), c.Param("id"))
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": row})
}

// AddTag adds a tag to an aggregated entry. Duplicate adds are no-ops.
func (h *ActivityHandler) AddTag(c echo.Context) error {
	var req models.TagRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}
	if err := h.aggregated.AddTag(c.Request().Context(), c.Param("id"), req.Tag); err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true})
}

// RemoveTag removes a tag from an aggregated entry. Absent tags are no-ops.
func (h *ActivityHandler) RemoveTag(c echo.Context) error {
	if err := h.aggregated.RemoveTag(c.Request().Context(), c.Param("id"), c.Param("tag")); err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true})
}

func activityFilterFromQuery(c echo.Context) models.ActivityFilter {
	return models.ActivityFilter{
		Account:             models.NormalizeAddress(c.QueryParam("account")),
		TxHash:              c.QueryParam("txHash"),
		ContractAddress:     models.NormalizeAddress(c.QueryParam("contractAddress")),
		Limit:               queryInt(c, "limit"),
		StartAfterTimestamp: queryInt(c, "startAfter"),
	}
}

func queryInt(c echo.Context, name string) int64 {
	v, _ := strconv.ParseInt(c.QueryParam(name), 10, 64)
	return v
}

// pageMeta reports the cursor for the next page, zero when this page was
// empty.
func pageMeta(entries []models.ActivityLog) echo.Map {
	var next int64
	if len(entries) > 0 {
		next = entries[len(entries)-1].Timestamp
	}
	return echo.Map{"count": len(entries), "nextStartAfter": next}
}

package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	mw "github.com/lifedash/lifedash/internal/app/api/middleware"
	trackersvc "github.com/lifedash/lifedash/internal/app/service/tracker"
	"github.com/lifedash/lifedash/pkg/response"
	"github.com/lifedash/lifedash/pkg/types"
)

type CreateEntryRequest struct {
	Payload    map[string]any `json:"payload"`
	OccurredAt *time.Time     `json:"occurred_at"`
}

type UpdateEntryRequest struct {
	Payload    map[string]any `json:"payload"`
	OccurredAt *time.Time     `json:"occurred_at"`
}

func trackerKind(c *gin.Context) (types.TrackerKind, bool) {
	kind := types.TrackerKind(c.Param("kind"))
	if !kind.Valid() {
		c.JSON(http.StatusOK, response.ErrorT[any](response.APIResponseCodeBadRequest, "unknown tracker kind"))
		return "", false
	}
	return kind, true
}

// @Summary      List Tracker Entries
// @Description  Returns all entries of one tracker kind for the signed-in user.
// @Tags         Trackers
// @Produce      json
// @Param        kind path string true "Tracker kind"
// @Success      200  {object}  response.APIResponse[[]models.TrackerEntry]
// @Router       /api/v1/trackers/{kind}/entries [get]
func ApiListTrackerEntries(svc *trackersvc.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		kind, ok := trackerKind(c)
		if !ok {
			return
		}
		u := mw.CurrentUser(c)
		entries, err := svc.ListEntries(c.Request.Context(), u.ID, kind)
		if err != nil {
			c.JSON(http.StatusOK, response.ErrorT[any](response.APIResponseCodeError, err.Error()))
			return
		}
		c.JSON(http.StatusOK, response.OKT(entries))
	}
}

// @Summary      Create Tracker Entry
// @Tags         Trackers
// @Accept       json
// @Produce      json
// @Param        kind path string true "Tracker kind"
// @Param        request body CreateEntryRequest true "Entry payload"
// @Success      200  {object}  response.APIResponse[models.TrackerEntry]
// @Router       /api/v1/trackers/{kind}/entries [post]
func ApiCreateTrackerEntry(svc *trackersvc.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		kind, ok := trackerKind(c)
		if !ok {
			return
		}
		var req CreateEntryRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusOK, response.ErrorT[any](response.APIResponseCodeBadRequest, err.Error()))
			return
		}
		u := mw.CurrentUser(c)
		occurredAt := time.Now()
		if req.OccurredAt != nil {
			occurredAt = *req.OccurredAt
		}
		entry, err := svc.CreateEntry(c.Request.Context(), u.ID, kind, req.Payload, occurredAt)
		if err != nil {
			c.JSON(http.StatusOK, response.ErrorT[any](response.APIResponseCodeError, err.Error()))
			return
		}
		c.JSON(http.StatusOK, response.OKT(entry))
	}
}

// @Summary      Update Tracker Entry
// @Tags         Trackers
// @Accept       json
// @Produce      json
// @Param        kind path string true "Tracker kind"
// @Param        id path string true "Entry id"
// @Param        request body UpdateEntryRequest true "Fields to update"
// @Success      200  {object}  response.APIResponse[models.TrackerEntry]
// @Router       /api/v1/trackers/{kind}/entries/{id} [put]
func ApiUpdateTrackerEntry(svc *trackersvc.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := trackerKind(c); !ok {
			return
		}
		var req UpdateEntryRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusOK, response.ErrorT[any](response.APIResponseCodeBadRequest, err.Error()))
			return
		}
		u := mw.CurrentUser(c)
		entry, err := svc.UpdateEntry(c.Request.Context(), u.ID, c.Param("id"), req.Payload, req.OccurredAt)
		if err != nil {
			c.JSON(http.StatusOK, response.ErrorT[any](response.APIResponseCodeError, err.Error()))
			return
		}
		c.JSON(http.StatusOK, response.OKT(entry))
	}
}

// @Summary      Delete Tracker Entry
// @Tags         Trackers
// @Produce      json
// @Param        kind path string true "Tracker kind"
// @Param        id path string true "Entry id"
// @Success      200  {object}  response.APIResponse[any]
// @Router       /api/v1/trackers/{kind}/entries/{id} [delete]
func ApiDeleteTrackerEntry(svc *trackersvc.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := trackerKind(c); !ok {
			return
		}
		u := mw.CurrentUser(c)
		if err := svc.DeleteEntry(c.Request.Context(), u.ID, c.Param("id")); err != nil {
			c.JSON(http.StatusOK, response.ErrorT[any](response.APIResponseCodeError, err.Error()))
			return
		}
		c.JSON(http.StatusOK, response.OKT[any](nil))
	}
}

// @Summary      Tracker Stats
// @Description  Derived statistics (count, sum, average, streak) for one tracker kind.
// @Tags         Trackers
// @Produce      json
// @Param        kind path string true "Tracker kind"
// @Param        field query string false "Numeric payload field to aggregate"
// @Param        since query string false "Window start (RFC3339)"
// @Success      200  {object}  response.APIResponse[trackersvc.Summary]
// @Router       /api/v1/trackers/{kind}/stats [get]
func ApiTrackerStats(svc *trackersvc.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		kind, ok := trackerKind(c)
		if !ok {
			return
		}
		var since time.Time
		if raw := c.Query("since"); raw != "" {
			parsed, err := time.Parse(time.RFC3339, raw)
			if err != nil {
				c.JSON(http.StatusOK, response.ErrorT[any](response.APIResponseCodeBadRequest, "since must be RFC3339"))
				return
			}
			since = parsed
		}
		u := mw.CurrentUser(c)
		summary, err := svc.Stats(c.Request.Context(), u.ID, kind, c.Query("field"), since)
		if err != nil {
			c.JSON(http.StatusOK, response.ErrorT[any](response.APIResponseCodeError, err.Error()))
			return
		}
		c.JSON(http.StatusOK, response.OKT(summary))
	}
}

func RegisterTrackerRoutes(r gin.IRouter, svc *trackersvc.Service) {
	r.GET("/trackers/:kind/entries", ApiListTrackerEntries(svc))
	r.POST("/trackers/:kind/entries", ApiCreateTrackerEntry(svc))
	r.PUT("/trackers/:kind/entries/:id", ApiUpdateTrackerEntry(svc))
	r.DELETE("/trackers/:kind/entries/:id", ApiDeleteTrackerEntry(svc))
	r.GET("/trackers/:kind/stats", ApiTrackerStats(svc))
}

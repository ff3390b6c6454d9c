// Package server exposes the scheduler over HTTP. It is a thin presentation
// boundary: requests are parsed, the façade runs, the serializable Result is
// returned as-is. No scheduling logic lives here.
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/hupe1980/shiftmesh"
	"github.com/hupe1980/shiftmesh/dataload"
	"github.com/hupe1980/shiftmesh/explain"
	"github.com/hupe1980/shiftmesh/roster"
)

// Runner is the slice of the façade the server needs; tests stub it.
type Runner interface {
	RunSchedule(ctx context.Context, storeID string, startDate, endDate time.Time, maxIterations int) (*shiftmesh.Result, error)
}

// Handler contains dependencies for the route handlers.
type Handler struct {
	Scheduler Runner
	Explainer *explain.Explainer
}

// ScheduleRequest is the POST /api/v1/schedule body.
type ScheduleRequest struct {
	StoreID       string `json:"store_id" binding:"required"`
	StartDate     string `json:"start_date" binding:"required"`
	EndDate       string `json:"end_date" binding:"required"`
	MaxIterations int    `json:"max_iterations"`
	Explain       bool   `json:"explain"`
}

// ScheduleResponse wraps the run result with an optional narrative.
type ScheduleResponse struct {
	Result      *shiftmesh.Result `json:"result"`
	Explanation string            `json:"explanation,omitempty"`
}

// Router builds the gin engine with all routes registered.
func (h *Handler) Router() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.POST("/api/v1/schedule", h.postSchedule)
	return r
}

func (h *Handler) postSchedule(c *gin.Context) {
	var req ScheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	start, err := time.Parse("2006-01-02", req.StartDate)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "start_date must be YYYY-MM-DD"})
		return
	}
	end, err := time.Parse("2006-01-02", req.EndDate)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "end_date must be YYYY-MM-DD"})
		return
	}
	if roster.Day(end).Before(roster.Day(start)) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "end_date is before start_date"})
		return
	}

	result, err := h.Scheduler.RunSchedule(c.Request.Context(), req.StoreID, start, end, req.MaxIterations)
	if err != nil {
		status := http.StatusInternalServerError
		var dlErr *dataload.DataLoadError
		if errors.As(err, &dlErr) {
			status = http.StatusNotFound
		}
		c.JSON(status, gin.H{"error": err.Error()})
		return
	}

	resp := ScheduleResponse{Result: result}
	if req.Explain && h.Explainer != nil {
		// The narrative is post-processing on the finished result; a slow or
		// failing text service only delays this response, never the schedule.
		resp.Explanation = h.Explainer.Explain(c.Request.Context(), result)
	}
	c.JSON(http.StatusOK, resp)
}

package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"suraksha_mesh/internal/service"

	"github.com/gin-gonic/gin"
)

const (
	errFromInvalid     = "invalid 'from' time; use RFC3339 or YYYY-MM-DD"
	errToInvalid       = "invalid 'to' time; use RFC3339 or YYYY-MM-DD"
	errListAssessments = "failed to load assessments"

	layoutDateTime = "2006-01-02 15:04:05"
	layoutDate     = "2006-01-02"
)

// isDateOnly reports whether the query string represents a date without time component.
func isDateOnly(s string) bool {
	return !strings.ContainsAny(s, "T ")
}

// @Summary      List assessments
// @Description  Assessment history ordered by assessed_at. Dates accept RFC3339, 'YYYY-MM-DD HH:MM:SS' or 'YYYY-MM-DD'; a date-only 'to' covers the whole day.
// @Tags         assessments
// @Produce      json
// @Param        from       query  string  false  "Start of range (inclusive)"  example(2025-08-01)
// @Param        to         query  string  false  "End of range (inclusive)"  example(2025-08-31)
// @Param        decision   query  string  false  "Decision"  Enums(CRITICAL,MONITOR,NORMAL)
// @Param        worker_id  query  string  false  "Worker ID"
// @Success      200  {object}  map[string]interface{}  "count, assessments"
// @Failure      400  {object}  map[string]string
// @Failure      401  {object}  map[string]string
// @Failure      500  {object}  map[string]string
// @Router       /api/v1/assessments [get]
// @Security     BearerAuth
func (h *Handler) listAssessments(c *gin.Context) {
	var (
		from time.Time
		to   time.Time
		err  error
	)
	if qs := c.Query("from"); qs != "" {
		from, err = parseQueryTime(qs)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": errFromInvalid})
			return
		}
	}
	if qs := c.Query("to"); qs != "" {
		to, err = parseQueryTime(qs)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": errToInvalid})
			return
		}
		if isDateOnly(qs) {
			to = to.Add(24*time.Hour - time.Nanosecond).UTC()
		}
	}

	filter := service.LogFilter{
		From:     from,
		To:       to,
		Decision: c.Query("decision"),
		WorkerID: c.Query("worker_id"),
	}
	out, err := h.services.AssessmentLog.List(c.Request.Context(), filter)
	if err != nil {
		if errors.Is(err, service.ErrInvalidTimeRange) || errors.Is(err, service.ErrInvalidDecision) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		h.logAndJSONError(c, http.StatusInternalServerError, errListAssessments, "assessments_list_failed", err,
			"from", from, "to", to, "decision", filter.Decision, "worker_id", filter.WorkerID)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"count":       len(out),
		"assessments": out,
	})
}

func parseQueryTime(s string) (time.Time, error) {
	for _, layout := range []string{time.RFC3339Nano, layoutDateTime, layoutDate} {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf(
		"invalid time format %q, expected one of: "+
			"RFC3339 (e.g. 2025-08-27T15:04:05Z), "+
			"'YYYY-MM-DD HH:MM:SS', "+
			"'YYYY-MM-DD'",
		s,
	)
}

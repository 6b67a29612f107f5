package handlers

import (
	"errors"
	"io"
	"net/http"

	"suraksha_mesh/internal/ingest"
	"suraksha_mesh/internal/models"
	"suraksha_mesh/internal/narrator"

	"github.com/gin-gonic/gin"
)

// Common response/status constants to avoid magic strings and typos.
const (
	statusOK = "ok"

	errReadBody  = "failed to read request body"
	errNarration = "narration unavailable"

	maxBodyBytes = 4 << 20 // 4 MB
)

// TelemetryRequest documents the accepted reading payload. Sensor values may
// also be nested under "sensors" (gas_ppm, heart_rate_bpm, fire_detected).
type TelemetryRequest struct {
	WorkerID        string  `json:"worker_id" example:"W-102"`
	RiskScore       float64 `json:"risk_score" example:"92"`
	GasPPM          float64 `json:"gas_ppm" example:"450"`
	HeartRateBPM    float64 `json:"heart_rate_bpm" example:"128"`
	FireDetected    bool    `json:"fire_detected" example:"false"`
	DurationSeconds float64 `json:"duration_seconds" example:"12"`
	Zone            string  `json:"zone,omitempty" example:"Furnace_B"`
}

// NarratedAssessment is the narrate endpoint response. On narration failure
// the assessment is still returned together with NarrativeError.
type NarratedAssessment struct {
	Assessment     models.Assessment   `json:"assessment"`
	Narrative      *narrator.Narrative `json:"narrative,omitempty"`
	NarrativeError string              `json:"narrative_error,omitempty"`
}

// Centralized error logging and response.
func (h *Handler) logAndJSONError(c *gin.Context, httpCode int, userMsg, logKey string, err error, kv ...interface{}) {
	if h.log != nil && err != nil {
		fields := append([]interface{}{"err", err}, kv...)
		h.log.Errorw(logKey, fields...)
	}
	c.JSON(httpCode, gin.H{"error": userMsg})
}

// readBody returns the raw request body, answering 400 itself on failure.
func (h *Handler) readBody(c *gin.Context) ([]byte, bool) {
	raw, err := io.ReadAll(http.MaxBytesReader(c.Writer, c.Request.Body, maxBodyBytes))
	if err != nil {
		if h.log != nil {
			h.log.Infow("telemetry_read_body_failed", "err", err)
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": errReadBody})
		return nil, false
	}
	return raw, true
}

// rejectInvalid answers 400 with the validation text verbatim. It reports
// whether err was handled.
func (h *Handler) rejectInvalid(c *gin.Context, err error) bool {
	var verr *ingest.ValidationError
	if !errors.As(err, &verr) {
		return false
	}
	h.metrics.IncValidationFailure()
	if h.log != nil {
		h.log.Infow("telemetry_rejected", "path", c.FullPath(), "issues", len(verr.Issues), "err", verr)
	}
	c.JSON(http.StatusBadRequest, gin.H{"error": verr.Error()})
	return true
}

// parseReading reads and validates a single reading.
func (h *Handler) parseReading(c *gin.Context) (models.TelemetryReading, bool) {
	raw, ok := h.readBody(c)
	if !ok {
		return models.TelemetryReading{}, false
	}
	r, err := ingest.Parse(raw)
	if err != nil {
		if !h.rejectInvalid(c, err) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		}
		return models.TelemetryReading{}, false
	}
	return r, true
}

// @Summary      Health check
// @Tags         system
// @Produce      json
// @Success      200  {object}  map[string]string
// @Router       /health [get]
func (h *Handler) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": statusOK,
	})
}

// @Summary      Classify one reading
// @Description  Validates the reading, classifies it as CRITICAL, MONITOR or NORMAL and records the assessment.
// @Tags         telemetry
// @Accept       json
// @Produce      json
// @Param        body  body      TelemetryRequest  true  "Telemetry reading"
// @Success      200   {object}  models.Assessment
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Router       /api/v1/telemetry/classify [post]
// @Security     BearerAuth
func (h *Handler) classifyReading(c *gin.Context) {
	r, ok := h.parseReading(c)
	if !ok {
		return
	}
	// A storage error is logged by the service; the verdict is still returned.
	a, _ := h.services.Assess(c.Request.Context(), r, models.SourceAPI)
	c.JSON(http.StatusOK, a)
}

// @Summary      Classify a batch
// @Description  Accepts a JSON array of readings (or a single object). Any invalid record rejects the whole batch.
// @Tags         telemetry
// @Accept       json
// @Produce      json
// @Param        body  body      []TelemetryRequest  true  "Telemetry readings"
// @Success      200   {object}  map[string]interface{}  "count, assessments"
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Router       /api/v1/telemetry/batch [post]
// @Security     BearerAuth
func (h *Handler) classifyBatch(c *gin.Context) {
	raw, ok := h.readBody(c)
	if !ok {
		return
	}
	readings, err := ingest.ParseBatch(raw)
	if err != nil {
		if !h.rejectInvalid(c, err) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		}
		return
	}

	out, _ := h.services.AssessBatch(c.Request.Context(), readings, models.SourceBatch)
	c.JSON(http.StatusOK, gin.H{
		"count":       len(out),
		"assessments": out,
	})
}

// @Summary      Classify and narrate
// @Description  Classifies one reading and adds a commander briefing. The decision in the briefing always matches the verdict.
// @Tags         telemetry
// @Accept       json
// @Produce      json
// @Param        body  body      TelemetryRequest  true  "Telemetry reading"
// @Success      200   {object}  NarratedAssessment
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Router       /api/v1/telemetry/narrate [post]
// @Security     BearerAuth
func (h *Handler) narrateReading(c *gin.Context) {
	r, ok := h.parseReading(c)
	if !ok {
		return
	}
	ctx := c.Request.Context()
	a, _ := h.services.Assess(ctx, r, models.SourceAPI)

	resp := NarratedAssessment{Assessment: a}
	n, err := h.services.Narrate(ctx, a)
	if err != nil {
		resp.NarrativeError = errNarration
	} else {
		resp.Narrative = &n
	}
	c.JSON(http.StatusOK, resp)
}

package handlers

import (
	"errors"
	"net/http"

	"suraksha_mesh/internal/service"

	"github.com/gin-gonic/gin"
)

const (
	errListWorkers = "failed to load workers"
	errGetWorker   = "failed to load worker"
)

// @Summary      Worker status board
// @Description  Latest assessment summary per worker, ordered by worker ID.
// @Tags         workers
// @Produce      json
// @Success      200  {object}  map[string]interface{}  "count, workers"
// @Failure      401  {object}  map[string]string
// @Failure      500  {object}  map[string]string
// @Router       /api/v1/workers [get]
// @Security     BearerAuth
func (h *Handler) listWorkers(c *gin.Context) {
	workers, err := h.services.ListWorkers(c.Request.Context())
	if err != nil {
		h.logAndJSONError(c, http.StatusInternalServerError, errListWorkers, "workers_list_failed", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"count":   len(workers),
		"workers": workers,
	})
}

// @Summary      Worker status
// @Tags         workers
// @Produce      json
// @Param        id   path      string  true  "Worker ID"
// @Success      200  {object}  models.WorkerStatus
// @Failure      401  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Failure      500  {object}  map[string]string
// @Router       /api/v1/workers/{id} [get]
// @Security     BearerAuth
func (h *Handler) getWorker(c *gin.Context) {
	id := c.Param("id")
	st, err := h.services.GetWorker(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrWorkerNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		h.logAndJSONError(c, http.StatusInternalServerError, errGetWorker, "worker_get_failed", err, "worker_id", id)
		return
	}
	c.JSON(http.StatusOK, st)
}

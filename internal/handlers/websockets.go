package handlers

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"suraksha_mesh/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

// Send/receive timing configuration and message size limits.
const (
	writeWait        = 10 * time.Second
	pongWait         = 60 * time.Second
	pingPeriod       = (pongWait * 9) / 10
	maxMsgSize       = 1 << 12 // 4 KB
	defaultInterval  = 1 * time.Second
	maxInterval      = 10 * time.Second
	maxIntervalMilli = 10_000 // 10s in ms
)

// wsEnvelope wraps every frame on /ws.
type wsEnvelope struct {
	Type  string      `json:"type"`
	Data  interface{} `json:"data,omitempty"`
	Error string      `json:"error,omitempty"`
}

// Frame types. A client first gets the whole board, then only the workers
// whose status moved since the previous frame.
const (
	wsTypeBoard   = "board"
	wsTypeChanges = "changes"
)

// boardSummary counts workers per decision across the whole board.
type boardSummary struct {
	Total    int `json:"total"`
	Critical int `json:"critical"`
	Monitor  int `json:"monitor"`
	Normal   int `json:"normal"`
}

type boardFrame struct {
	Summary boardSummary          `json:"summary"`
	Workers []models.WorkerStatus `json:"workers"`
}

func summarize(workers []models.WorkerStatus) boardSummary {
	sum := boardSummary{Total: len(workers)}
	for _, w := range workers {
		switch w.Decision {
		case models.DecisionCritical:
			sum.Critical++
		case models.DecisionMonitor:
			sum.Monitor++
		case models.DecisionNormal:
			sum.Normal++
		}
	}
	return sum
}

// boardTracker remembers the last assessment pushed per worker.
type boardTracker struct {
	seen map[string]string
	sent bool
}

func newBoardTracker() *boardTracker {
	return &boardTracker{seen: make(map[string]string)}
}

// changed returns the workers whose last assessment differs from what was
// pushed before, and marks them as pushed.
func (t *boardTracker) changed(workers []models.WorkerStatus) []models.WorkerStatus {
	var out []models.WorkerStatus
	for _, w := range workers {
		key := w.LastAssessmentID + "@" + w.UpdatedAt.UTC().Format(time.RFC3339Nano)
		if t.seen[w.WorkerID] == key {
			continue
		}
		t.seen[w.WorkerID] = key
		out = append(out, w)
	}
	return out
}

// Upgrader for HTTP -> WebSocket. The dashboard is served from other origins.
var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// @Summary      Live status board
// @Description  WebSocket stream of the worker status board. The first frame ("board") carries every worker, later frames ("changes") only the workers whose status moved; both carry a per-decision summary. Quiet ticks send nothing. Interval via ?interval=2s or ?interval_ms=2000 (max 10s).
// @Tags         workers
// @Param        interval     query  string  false  "Push interval (Go duration)"
// @Param        interval_ms  query  int     false  "Push interval in milliseconds"
// @Router       /ws [get]
func (h *Handler) wsConnect(c *gin.Context) {
	interval := h.parseInterval(c)

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		if h.log != nil {
			h.log.Errorw("ws_upgrade_failed", "err", err)
		}
		return
	}
	defer func() { _ = conn.Close() }()

	// Configure read limits and pong handler to extend read deadline.
	conn.SetReadLimit(maxMsgSize)
	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	// Reader goroutine to handle control frames and detect disconnects.
	done := make(chan struct{})
	go h.startReader(conn, done)

	// Periodic writers: board changes and pings.
	ticker := time.NewTicker(interval)
	ping := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		ping.Stop()
	}()

	// Send the whole board immediately.
	tracker := newBoardTracker()
	if err := h.sendBoard(c.Request.Context(), conn, tracker); err != nil {
		// If initial send fails, log and close the connection.
		if h.log != nil {
			h.log.Infow("ws_write_failed_initial", "err", err)
		}
		return
	}

	// Writer/select loop.
	for {
		select {
		case <-done:
			return
		case <-c.Request.Context().Done():
			return
		case <-ping.C:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				if h.log != nil {
					h.log.Infow("ws_ping_failed", "err", err)
				}
				return
			}
		case <-ticker.C:
			if err := h.sendBoard(c.Request.Context(), conn, tracker); err != nil {
				if h.log != nil {
					h.log.Infow("ws_write_failed", "err", err)
				}
				return
			}
		}
	}
}

// Helper: parseInterval reads ?interval=2s or ?interval_ms=2000 with bounds.
func (h *Handler) parseInterval(c *gin.Context) time.Duration {
	interval := defaultInterval

	if s := c.Query("interval"); s != "" {
		if d, err := time.ParseDuration(s); err == nil && d > 0 && d <= maxInterval {
			return d
		}
	}

	if ms := c.Query("interval_ms"); ms != "" {
		if v, err := strconv.Atoi(ms); err == nil && v > 0 && v <= maxIntervalMilli {
			return time.Duration(v) * time.Millisecond
		}
	}

	return interval
}

// Helper: startReader drains incoming messages to handle control frames and detect closure.
func (h *Handler) startReader(conn *websocket.Conn, done chan<- struct{}) {
	defer close(done)
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			if h.log != nil {
				h.log.Infow("ws_read_closed", "err", err)
			}
			return
		}
	}
}

// Helper: sendBoard lists the board and writes the full board on the first
// call, then only changed workers. Nothing is written when no worker moved.
func (h *Handler) sendBoard(ctx context.Context, conn *websocket.Conn, tracker *boardTracker) error {
	workers, err := h.services.ListWorkers(ctx)
	if err != nil {
		if h.log != nil {
			h.log.Errorw("ws_list_workers_failed", "err", err)
		}
		return err
	}

	first := !tracker.sent
	tracker.sent = true
	changed := tracker.changed(workers)
	frame := wsEnvelope{Type: wsTypeChanges}
	switch {
	case first:
		frame.Type = wsTypeBoard
		frame.Data = boardFrame{Summary: summarize(workers), Workers: nonNil(workers)}
	case len(changed) == 0:
		return nil
	default:
		frame.Data = boardFrame{Summary: summarize(workers), Workers: changed}
	}

	_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
	return conn.WriteJSON(frame)
}

func nonNil(workers []models.WorkerStatus) []models.WorkerStatus {
	if workers == nil {
		return []models.WorkerStatus{}
	}
	return workers
}

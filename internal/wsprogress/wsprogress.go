// Package wsprogress streams layer-by-layer optimizer progress over a
// websocket connection, narrowed to the one event an optimize job
// produces: "a layer just finished, here is the beam size and best score
// so far."
package wsprogress

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
)

// LayerEvent is one message pushed to every subscriber of a job.
type LayerEvent struct {
	Type      string  `json:"type"`
	JobID     string  `json:"job_id"`
	Slot      int     `json:"slot,omitempty"`
	Survivors int     `json:"survivors,omitempty"`
	BestScore float64 `json:"best_score,omitempty"`
	Error     string  `json:"error,omitempty"`
}

// EventDone and EventLayer distinguish a completion message from a
// regular layer-progress message; EventFailed marks a job that aborted.
const (
	EventLayer  = "layer_complete"
	EventDone   = "done"
	EventFailed = "failed"
)

// Hub fans out LayerEvents for in-flight jobs to any number of websocket
// subscribers per job. A job with no subscribers simply drops its events;
// Publish never blocks on a slow or absent reader.
type Hub struct {
	mu   sync.Mutex
	subs map[uuid.UUID][]chan LayerEvent

	upgrader websocket.Upgrader
}

// NewHub builds a Hub with the given read/write buffer sizes (from
// config.WebSocketConfig) and an origin check that accepts any origin.
func NewHub(readBufferSize, writeBufferSize int) *Hub {
	return &Hub{
		subs: make(map[uuid.UUID][]chan LayerEvent),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  readBufferSize,
			WriteBufferSize: writeBufferSize,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
	}
}

// Publish delivers evt to every subscriber currently watching jobID. Each
// subscriber channel is buffered; a full channel drops the event rather
// than blocking the optimizer goroutine producing it.
func (h *Hub) Publish(jobID uuid.UUID, evt LayerEvent) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for _, ch := range h.subs[jobID] {
		select {
		case ch <- evt:
		default:
		}
	}
}

// subscribe registers a new channel for jobID and returns it plus an
// unsubscribe func the caller must defer.
func (h *Hub) subscribe(jobID uuid.UUID) (chan LayerEvent, func()) {
	ch := make(chan LayerEvent, 16)
	h.mu.Lock()
	h.subs[jobID] = append(h.subs[jobID], ch)
	h.mu.Unlock()

	return ch, func() {
		h.mu.Lock()
		defer h.mu.Unlock()
		peers := h.subs[jobID]
		for i, c := range peers {
			if c == ch {
				h.subs[jobID] = append(peers[:i], peers[i+1:]...)
				break
			}
		}
		if len(h.subs[jobID]) == 0 {
			delete(h.subs, jobID)
		}
		close(ch)
	}
}

// Handler upgrades GET /api/v1/optimize/:id/stream to a websocket and
// forwards every LayerEvent published for that job until the connection
// closes or a terminal event (done/failed) is sent.
func (h *Hub) Handler(c *gin.Context) {
	jobID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid job id"})
		return
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		logrus.WithError(err).Warn("wsprogress: upgrade failed")
		return
	}
	defer conn.Close()

	ch, unsubscribe := h.subscribe(jobID)
	defer unsubscribe()

	_ = conn.WriteJSON(LayerEvent{Type: "subscribed", JobID: jobID.String()})

	for evt := range ch {
		_ = conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
		if err := conn.WriteJSON(evt); err != nil {
			return
		}
		if evt.Type == EventDone || evt.Type == EventFailed {
			return
		}
	}
}

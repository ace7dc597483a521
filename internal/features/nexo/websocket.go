package nexo

import (
	"sync"

	"github.com/gofiber/contrib/websocket"
	"go.uber.org/zap"
)

// ImportStatusEvent is the message pushed to websocket subscribers each
// time an import log changes status.
type ImportStatusEvent struct {
	ID     string       `json:"id"`
	Status ImportStatus `json:"status"`
}

// Hub pushes import status changes to connected websocket clients. It
// implements Notifier so the importer stays transport-agnostic.
type Hub struct {
	mu     sync.Mutex
	conns  map[*websocket.Conn]bool
	logger *zap.Logger
}

func NewHub(logger *zap.Logger) *Hub {
	return &Hub{
		conns:  make(map[*websocket.Conn]bool),
		logger: logger,
	}
}

// Handle keeps one client subscribed until it disconnects. Incoming
// messages are drained and ignored; the stream is push-only.
func (h *Hub) Handle(c *websocket.Conn) {
	h.mu.Lock()
	h.conns[c] = true
	h.mu.Unlock()

	defer func() {
		h.mu.Lock()
		delete(h.conns, c)
		h.mu.Unlock()
		c.Close()
	}()

	for {
		if _, _, err := c.ReadMessage(); err != nil {
			return
		}
	}
}

func (h *Hub) NotifyImport(log *NexoImportLog) {
	event := ImportStatusEvent{ID: log.ID.Hex(), Status: log.Status}

	h.mu.Lock()
	defer h.mu.Unlock()
	for c := range h.conns {
		if err := c.WriteJSON(event); err != nil {
			h.logger.Debug("websocket push failed, dropping client", zap.Error(err))
			delete(h.conns, c)
			c.Close()
		}
	}
}

package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/hamed0406/statuspage/internal/domain"
	"github.com/hamed0406/statuspage/internal/render"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10
	sendBuffer = 16
)

// Viewer exposes the rendered page.
type Viewer interface {
	View(after int64) render.View
}

// Message is one websocket frame. The first frame a client sees is a
// "snapshot" of the whole page, later frames are "delta" views holding only
// events the client has not received yet.
type Message struct {
	Type string      `json:"type"`
	View render.View `json:"view"`
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// Hub pushes page updates to websocket clients. It is a render.Renderer so
// it can sit next to the Timeline in a render.Multi, after it.
type Hub struct {
	logger *zap.Logger
	viewer Viewer

	mu      sync.Mutex
	clients map[*client]struct{}
	closed  bool
}

var errHubClosed = errors.New("hub closed")

func NewHub(logger *zap.Logger, viewer Viewer) *Hub {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Hub{logger: logger, viewer: viewer, clients: make(map[*client]struct{})}
}

func (h *Hub) RenderStatus(*domain.Checkup) { h.push(true) }

// RenderEvents is a no-op; new events go out with the RenderOverall delta
// that closes every cycle.
func (h *Hub) RenderEvents([]domain.Event) {}

func (h *Hub) RenderOverall(domain.Indicator, int) { h.push(true) }

func (h *Hub) RefreshTime() { h.push(false) }

// Clients reports the number of connected websocket clients.
func (h *Hub) Clients() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

// push sends every client the events newer than the last one it received.
// Without always, a client is skipped when there is nothing to show.
func (h *Hub) push(always bool) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for c := range h.clients {
		v := h.viewer.View(c.lastID)
		if !always && len(v.Events) == 0 && v.LastCheck == "" {
			continue
		}
		data, err := json.Marshal(Message{Type: "delta", View: v})
		if err != nil {
			h.logger.Error("ws_marshal_failed", zap.Error(err))
			return
		}
		select {
		case c.send <- data:
			if len(v.Events) > 0 {
				c.lastID = v.Events[0].EventID
			}
		default:
			// slow consumer
			h.dropLocked(c)
		}
	}
}

// register sends the snapshot and adds c under the same lock as push; the
// client's cursor starts at the newest event of its snapshot.
func (h *Hub) register(c *client) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return errHubClosed
	}
	v := h.viewer.View(0)
	data, err := json.Marshal(Message{Type: "snapshot", View: v})
	if err != nil {
		return err
	}
	if len(v.Events) > 0 {
		c.lastID = v.Events[0].EventID
	}
	c.send <- data
	h.clients[c] = struct{}{}
	return nil
}

func (h *Hub) unregister(c *client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.dropLocked(c)
}

func (h *Hub) dropLocked(c *client) {
	if _, ok := h.clients[c]; ok {
		delete(h.clients, c)
		close(c.send)
	}
}

// Close disconnects every client and refuses new ones.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.closed = true
	for c := range h.clients {
		h.dropLocked(c)
	}
}

// ServeWS upgrades the request and streams page updates until the peer
// goes away.
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("ws_upgrade_failed", zap.Error(err))
		return
	}
	c := &client{conn: conn, send: make(chan []byte, sendBuffer)}
	if err := h.register(c); err != nil {
		if errors.Is(err, errHubClosed) {
			_ = conn.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseGoingAway, "shutting down"),
				time.Now().Add(writeWait))
		} else {
			h.logger.Error("ws_snapshot_failed", zap.Error(err))
		}
		_ = conn.Close()
		return
	}
	h.logger.Info("ws_connected", zap.String("remote", r.RemoteAddr))

	go c.writePump()
	c.readPump(h)
}

type client struct {
	conn   *websocket.Conn
	send   chan []byte
	lastID int64 // newest event sent, guarded by Hub.mu
}

// readPump only services control frames; the stream is one-way.
func (c *client) readPump(h *Hub) {
	defer func() {
		h.unregister(c)
		_ = c.conn.Close()
	}()
	c.conn.SetReadLimit(512)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				h.logger.Info("ws_closed", zap.Error(err))
			}
			return
		}
	}
}

func (c *client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()
	for {
		select {
		case msg, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

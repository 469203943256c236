package server

import (
	"net/http"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus"
)

const (
	liveWriteWait  = 10 * time.Second
	livePongWait   = 60 * time.Second
	livePingPeriod = (livePongWait * 9) / 10
	liveReadLimit  = 512
	liveSendBuffer = 8
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
}

// liveMessage announces a published frame.
type liveMessage struct {
	Frame string `json:"frame"`
	Seq   uint64 `json:"seq"`
}

type liveClient struct {
	conn *websocket.Conn
	send chan liveMessage
}

// liveHub fans frame announcements out to connected pages. A client whose
// buffer is full is dropped; the page falls back to its refresh interval.
type liveHub struct {
	mu      sync.Mutex
	clients map[*liveClient]struct{}
	gauge   prometheus.Gauge
	logger  *log.Logger
}

func newLiveHub(gauge prometheus.Gauge, logger *log.Logger) *liveHub {
	return &liveHub{
		clients: make(map[*liveClient]struct{}),
		gauge:   gauge,
		logger:  logger,
	}
}

// add registers c and queues initial, if any, under the same lock as
// broadcast so a newer announcement never overtakes it.
func (h *liveHub) add(c *liveClient, initial func() (liveMessage, bool)) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if msg, ok := initial(); ok {
		c.send <- msg
	}
	h.clients[c] = struct{}{}
	h.gauge.Set(float64(len(h.clients)))
}

func (h *liveHub) remove(c *liveClient) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.dropLocked(c)
}

func (h *liveHub) dropLocked(c *liveClient) {
	if _, ok := h.clients[c]; !ok {
		return
	}
	delete(h.clients, c)
	close(c.send)
	h.gauge.Set(float64(len(h.clients)))
}

func (h *liveHub) broadcast(msg liveMessage) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for c := range h.clients {
		select {
		case c.send <- msg:
		default:
			h.dropLocked(c)
			h.logger.Warn("live client too slow, disconnected", "frame", msg.Frame)
		}
	}
}

// closeAll disconnects every client. Hijacked connections are not closed
// by http.Server.Shutdown.
func (h *liveHub) closeAll() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for c := range h.clients {
		h.dropLocked(c)
	}
}

func (h *liveHub) count() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

// readPump discards client messages and keeps the read deadline moving on
// pongs. It returns when the connection fails.
func (h *liveHub) readPump(c *liveClient) {
	defer func() {
		h.remove(c)
		c.conn.Close()
	}()

	c.conn.SetReadLimit(liveReadLimit)
	if err := c.conn.SetReadDeadline(time.Now().Add(livePongWait)); err != nil {
		return
	}
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(livePongWait))
	})
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				h.logger.Debug("live read failed", "error", err)
			}
			return
		}
	}
}

// writePump sends queued announcements and pings. A closed send channel
// ends the session with a close frame.
func (h *liveHub) writePump(c *liveClient) {
	ticker := time.NewTicker(livePingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case msg, ok := <-c.send:
			if err := c.conn.SetWriteDeadline(time.Now().Add(liveWriteWait)); err != nil {
				return
			}
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage,
					websocket.FormatCloseMessage(websocket.CloseGoingAway, ""))
				return
			}
			if err := c.conn.WriteJSON(msg); err != nil {
				h.logger.Debug("live write failed", "error", err)
				return
			}
		case <-ticker.C:
			if err := c.conn.SetWriteDeadline(time.Now().Add(liveWriteWait)); err != nil {
				return
			}
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// handleLive upgrades to a WebSocket and streams frame announcements,
// starting with the current frame.
func (s *Server) handleLive(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Debug("live upgrade failed", "error", err, "request_id", r.Header.Get(requestIDHeader))
		return
	}

	c := &liveClient{conn: conn, send: make(chan liveMessage, liveSendBuffer)}
	s.live.add(c, func() (liveMessage, bool) {
		f := s.board.Current()
		if f == nil {
			return liveMessage{}, false
		}
		return liveMessage{Frame: f.ID, Seq: f.Seq}, true
	})
	go s.live.writePump(c)
	s.live.readPump(c)
}

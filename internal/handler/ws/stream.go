package ws

import (
	"net/http"
	"time"

	"ForexDash/internal/domain/models"
	xlogger "ForexDash/pkg/logger"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
)

const (
	writeWait      = 5 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 4 << 10
)

// Source hands out session snapshots.
type Source interface {
	Subscribe() (<-chan models.RequestState, func())
}

// StreamHandler pushes every session snapshot to connected websocket clients.
type StreamHandler struct {
	logger   *xlogger.Logger
	source   Source
	upgrader websocket.Upgrader
}

func NewStreamHandler(logger *xlogger.Logger, source Source) *StreamHandler {
	return &StreamHandler{
		logger: logger.With("ws"),
		source: source,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 4096,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
	}
}

func (h *StreamHandler) RegisterRoutes(e *echo.Echo) {
	e.GET("/api/session/stream", h.Stream)
}

// Stream upgrades the connection and writes snapshots until either side
// goes away. Client messages are read only to process control frames.
func (h *StreamHandler) Stream(c echo.Context) error {
	conn, err := h.upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		// the upgrader already wrote the HTTP error
		h.logger.Debug("websocket upgrade failed", xlogger.Error(err))
		return nil
	}

	updates, cancel := h.source.Subscribe()
	closed := make(chan struct{})
	go h.readPump(conn, closed)

	h.logger.Debug("websocket client connected", xlogger.String("remote", c.RealIP()))
	h.writePump(conn, updates, closed)
	cancel()
	h.logger.Debug("websocket client disconnected", xlogger.String("remote", c.RealIP()))
	return nil
}

func (h *StreamHandler) readPump(conn *websocket.Conn, closed chan<- struct{}) {
	defer close(closed)

	conn.SetReadLimit(maxMessageSize)
	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				h.logger.Debug("websocket read error", xlogger.Error(err))
			}
			return
		}
	}
}

func (h *StreamHandler) writePump(conn *websocket.Conn, updates <-chan models.RequestState, closed <-chan struct{}) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = conn.Close()
	}()

	for {
		select {
		case <-closed:
			return

		case snap, ok := <-updates:
			// the server write timeout survives the hijack, so every write
			// sets its own deadline
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := conn.WriteJSON(snap); err != nil {
				h.logger.Debug("websocket write error", xlogger.Error(err))
				return
			}

		case <-ticker.C:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

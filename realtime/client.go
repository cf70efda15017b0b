package realtime

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10
)

// Frames above maxMessageSize end the connection at the transport; smaller malformed
// frames are ignored.
const maxMessageSize = 4096

// Client binds a websocket connection to a hub session.
type Client struct {
	hub     *Hub
	conn    *websocket.Conn
	session *Session
	logger  *slog.Logger

	stop     chan struct{}
	stopOnce sync.Once
}

func NewClient(hub *Hub, conn *websocket.Conn, logger *slog.Logger) *Client {
	session := hub.NewSession()
	return &Client{
		hub:     hub,
		conn:    conn,
		session: session,
		logger:  logger.With(slog.String("session_id", session.ID())),
		stop:    make(chan struct{}),
	}
}

func (c *Client) Session() *Session {
	return c.session
}

// Serve runs both pumps and returns once the connection is gone.
func (c *Client) Serve(ctx context.Context) {
	go c.WritePump()
	c.ReadPump(ctx)
}

func (c *Client) shutdown() {
	c.stopOnce.Do(func() { close(c.stop) })
}

// ReadPump applies join-save and leave-save frames until the connection fails.
func (c *Client) ReadPump(ctx context.Context) {
	defer func() {
		c.shutdown()
		// The hub may already be gone during server shutdown.
		disconnectCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), writeWait)
		defer cancel()
		if err := c.hub.Disconnect(disconnectCtx, c.session); err != nil {
			c.logger.Debug("disconnect after close", slog.Any("error", err))
		}
		c.conn.Close()
	}()
	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error { c.conn.SetReadDeadline(time.Now().Add(pongWait)); return nil })

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.logger.Warn("websocket read failed", slog.Any("error", err))
			}
			return
		}

		cmd, ok := parseCommand(data)
		if !ok {
			c.logger.Debug("ignoring malformed frame", slog.Int("bytes", len(data)))
			continue
		}
		if cmd.join {
			err = c.hub.Join(ctx, c.session, cmd.saveGameID)
		} else {
			err = c.hub.Leave(ctx, c.session, cmd.saveGameID)
		}
		if err != nil {
			c.logger.Warn("room membership change failed", slog.Int("save_game_id", cmd.saveGameID), slog.Any("error", err))
			return
		}
	}
}

// WritePump writes one frame per queued message and keeps the connection alive with pings.
func (c *Client) WritePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()
	for {
		select {
		case message, ok := <-c.session.Outbound():
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				c.logger.Debug("websocket write failed", slog.Any("error", err))
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		case <-c.stop:
			return
		}
	}
}

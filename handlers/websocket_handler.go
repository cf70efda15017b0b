package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/websocket"

	"github.com/Dosada05/matchday-engine/realtime"
)

type WebSocketHandler struct {
	hub      *realtime.Hub
	upgrader websocket.Upgrader
	logger   *slog.Logger
}

// NewWebSocketHandler accepts connections from allowedOrigins; "*" or an empty list allows any origin.
func NewWebSocketHandler(hub *realtime.Hub, allowedOrigins []string, logger *slog.Logger) *WebSocketHandler {
	allowAll := len(allowedOrigins) == 0
	origins := make(map[string]struct{}, len(allowedOrigins))
	for _, o := range allowedOrigins {
		if o == "*" {
			allowAll = true
		}
		origins[o] = struct{}{}
	}

	return &WebSocketHandler{
		hub:    hub,
		logger: logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				if allowAll {
					return true
				}
				origin := r.Header.Get("Origin")
				if origin == "" {
					return true
				}
				_, ok := origins[origin]
				return ok
			},
		},
	}
}

// ServeWs upgrades the request and serves the connection until it closes.
// Rooms are joined afterwards with join-save frames.
func (h *WebSocketHandler) ServeWs(w http.ResponseWriter, r *http.Request) {
	if !h.hub.Running() {
		errorResponse(w, r, http.StatusServiceUnavailable, "realtime hub is not running")
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("failed to upgrade websocket connection", slog.Any("error", err))
		return
	}

	client := realtime.NewClient(h.hub, conn, h.logger)
	h.logger.Debug("websocket connected", slog.String("session_id", client.Session().ID()), slog.String("remote_addr", r.RemoteAddr))
	client.Serve(r.Context())
	h.logger.Debug("websocket closed", slog.String("session_id", client.Session().ID()))
}

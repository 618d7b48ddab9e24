// Package realtime pushes the "rides changed" signal to open listing pages.
package realtime

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/liftmate/liftmate/pkg/events"
	"github.com/liftmate/liftmate/pkg/logger"
	ws "github.com/liftmate/liftmate/pkg/websocket"
	"go.uber.org/zap"
)

// Sink forwards delivered events to every connected viewer
func Sink(hub *ws.Hub) events.Sink {
	return func(evt events.Event) {
		data := map[string]interface{}{}
		if evt.RideID != "" {
			data["ride_id"] = evt.RideID
		}
		hub.SendToAll(&ws.Message{Type: evt.Type, Data: data})
	}
}

// Handler upgrades listing viewers to websocket connections
type Handler struct {
	hub      *ws.Hub
	upgrader websocket.Upgrader
}

// NewHandler creates a realtime handler. Connections are accepted from the
// page's own host and from allowedOrigins.
func NewHandler(hub *ws.Hub, allowedOrigins []string) *Handler {
	allowed := make(map[string]bool, len(allowedOrigins))
	for _, o := range allowedOrigins {
		if o = strings.TrimSpace(o); o != "" {
			allowed[strings.TrimRight(o, "/")] = true
		}
	}

	h := &Handler{hub: hub}
	h.upgrader = websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(r *http.Request) bool {
			origin := r.Header.Get("Origin")
			if origin == "" || allowed[origin] {
				return true
			}
			u, err := url.Parse(origin)
			return err == nil && u.Host == r.Host
		},
	}

	hub.RegisterHandler("ping", func(client *ws.Client, _ *ws.Message) {
		client.SendMessage(&ws.Message{Type: "pong"})
	})
	return h
}

// HandleWebSocket registers the viewer with the hub
// GET /ws
func (h *Handler) HandleWebSocket(c *gin.Context) {
	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		logger.WithContext(c.Request.Context()).Debug("websocket upgrade failed", zap.Error(err))
		return
	}

	client := ws.NewClient(uuid.New().String(), conn, h.hub, logger.Get())
	h.hub.Register <- client

	go client.WritePump()
	go client.ReadPump()
}

// Stats reports the number of connected viewers
// GET /api/v1/realtime/stats
func (h *Handler) Stats(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"connected_clients": h.hub.GetClientCount()})
}

// RegisterRoutes mounts the websocket endpoint and stats
func (h *Handler) RegisterRoutes(r gin.IRouter, api *gin.RouterGroup) {
	r.GET("/ws", h.HandleWebSocket)
	api.GET("/realtime/stats", h.Stats)
}

package realtime

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

// Handler serves the websocket endpoint and the internal notify
// endpoint the document-processing pipeline calls on status changes.
type Handler struct {
	registry   Registry
	hub        *Hub
	dispatcher *Dispatcher
	upgrader   websocket.Upgrader
	log        *slog.Logger
}

func NewHandler(registry Registry, hub *Hub, dispatcher *Dispatcher, allowedOrigins []string, log *slog.Logger) *Handler {
	return &Handler{
		registry:   registry,
		hub:        hub,
		dispatcher: dispatcher,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     originChecker(allowedOrigins),
		},
		log: log,
	}
}

func (h *Handler) RegisterRoutes(r *gin.Engine, internal *gin.RouterGroup) {
	r.GET("/ws", h.Connect)
	internal.POST("/notify", h.Notify)
}

// originChecker allows the configured portal origins. An empty list
// allows everything, matching local development.
func originChecker(allowed []string) func(*http.Request) bool {
	if len(allowed) == 0 {
		return func(*http.Request) bool { return true }
	}
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		for _, a := range allowed {
			if strings.EqualFold(origin, a) {
				return true
			}
		}
		return false
	}
}

// Connect upgrades the request, registers the connection and runs the
// read loop until the peer goes away.
func (h *Handler) Connect(c *gin.Context) {
	sock, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		// Upgrade already wrote the HTTP error response.
		h.log.Warn("websocket upgrade failed", "error", err)
		return
	}

	connectionID := uuid.NewString()
	userID := c.Query("userId")
	if userID == "" {
		userID = AnonymousUser
	}

	now := time.Now()
	conn := Connection{
		ConnectionID: connectionID,
		UserID:       userID,
		ConnectedAt:  now,
		LastActivity: now,
	}

	ctx := c.Request.Context()
	if err := h.registry.Register(ctx, conn); err != nil {
		h.log.Error("failed to register connection", "connection_id", connectionID, "error", err)
		_ = sock.Close()
		return
	}

	h.hub.Add(connectionID, sock)
	defer func() {
		h.hub.Remove(connectionID)
		if err := h.registry.Unregister(ctx, connectionID); err != nil {
			h.log.Warn("failed to unregister connection", "connection_id", connectionID, "error", err)
		}
		_ = sock.Close()
	}()

	h.log.Info("websocket connected", "connection_id", connectionID, "user_id", userID)

	welcome := OutboundMessage{
		Type:         TypeConnectionEstablished,
		Message:      "Connected to Document Processing Service",
		ConnectionID: connectionID,
		Timestamp:    timestamp(now),
	}
	if err := h.hub.Send(ctx, connectionID, welcome); err != nil {
		return
	}

	for {
		_, data, err := sock.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				h.log.Warn("websocket read failed", "connection_id", connectionID, "error", err)
			}
			h.log.Info("websocket disconnected", "connection_id", connectionID)
			return
		}

		// Any inbound message is a keep-alive.
		if err := h.registry.Touch(ctx, connectionID); err != nil {
			h.log.Warn("failed to touch connection", "connection_id", connectionID, "error", err)
		}

		var msg InboundMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			reply := OutboundMessage{
				Type:      TypeError,
				Message:   "Invalid JSON message",
				Timestamp: timestamp(time.Now()),
			}
			if err := h.hub.Send(ctx, connectionID, reply); err != nil {
				return
			}
			continue
		}

		if reply := handleInbound(msg, time.Now()); reply != nil {
			if err := h.hub.Send(ctx, connectionID, *reply); err != nil {
				return
			}
		}
	}
}

// Notify accepts a status event from the processing pipeline and
// broadcasts it to every registered connection.
func (h *Handler) Notify(c *gin.Context) {
	var event DocumentUpdate
	if err := c.ShouldBindJSON(&event); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid JSON in request body"})
		return
	}

	var missing []string
	if event.DocumentID == "" {
		missing = append(missing, "documentId")
	}
	if event.Status == "" {
		missing = append(missing, "status")
	}
	if len(missing) > 0 {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Missing required fields: " + strings.Join(missing, ", "),
		})
		return
	}

	report, err := h.dispatcher.Notify(c.Request.Context(), event)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to send notifications"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":             "Notification sent successfully",
		"documentId":          event.DocumentID,
		"status":              event.Status,
		"connectionsNotified": report.Delivered,
	})
}

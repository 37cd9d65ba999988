package handlers

import (
	"net/http"
	"sync"
	"time"

	"farmhub/internal/auth"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
)

// WebSocketHandler pushes order events to connected dashboards. Connections
// are grouped by organization so a submission only reaches its own org.
type WebSocketHandler struct {
	authService *auth.Service
	upgrader    websocket.Upgrader

	mu    sync.RWMutex
	conns map[uuid.UUID]map[*websocket.Conn]bool
}

// NewWebSocketHandler creates a new WebSocket handler
func NewWebSocketHandler(authService *auth.Service) *WebSocketHandler {
	return &WebSocketHandler{
		authService: authService,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
		conns: make(map[uuid.UUID]map[*websocket.Conn]bool),
	}
}

// HandleWebSocket authenticates via the token query parameter and keeps the
// connection registered until the client goes away.
func (h *WebSocketHandler) HandleWebSocket(c echo.Context) error {
	token := c.QueryParam("token")
	if token == "" {
		return echo.NewHTTPError(http.StatusUnauthorized, "token query parameter required")
	}

	claims, err := h.authService.ValidateToken(token)
	if err != nil || claims.Type != "access" {
		return echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
	}
	if claims.OrganizationID == nil {
		return echo.NewHTTPError(http.StatusForbidden, "organization context required")
	}
	orgID := *claims.OrganizationID

	conn, err := h.upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		log.Warn().Err(err).Msg("websocket upgrade failed")
		return err
	}
	defer conn.Close()

	h.register(orgID, conn)
	defer h.unregister(orgID, conn)

	log.Debug().Str("organization_id", orgID.String()).Msg("dashboard connected")

	conn.WriteJSON(map[string]interface{}{
		"type":      "connected",
		"timestamp": time.Now().Format(time.RFC3339),
	})

	// Read loop exists only to detect the close; clients do not send data
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return nil
		}
	}
}

// NotifyOrdersSubmitted broadcasts a submitted batch to the organization's
// connected dashboards.
func (h *WebSocketHandler) NotifyOrdersSubmitted(organizationID uuid.UUID, count int) {
	message := map[string]interface{}{
		"type":      "orders_submitted",
		"count":     count,
		"timestamp": time.Now().Format(time.RFC3339),
	}

	h.mu.RLock()
	conns := make([]*websocket.Conn, 0, len(h.conns[organizationID]))
	for conn := range h.conns[organizationID] {
		conns = append(conns, conn)
	}
	h.mu.RUnlock()

	for _, conn := range conns {
		if err := conn.WriteJSON(message); err != nil {
			log.Debug().Err(err).Msg("websocket write failed, dropping connection")
			h.unregister(organizationID, conn)
			conn.Close()
		}
	}
}

func (h *WebSocketHandler) register(organizationID uuid.UUID, conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.conns[organizationID] == nil {
		h.conns[organizationID] = make(map[*websocket.Conn]bool)
	}
	h.conns[organizationID][conn] = true
}

func (h *WebSocketHandler) unregister(organizationID uuid.UUID, conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.conns[organizationID], conn)
	if len(h.conns[organizationID]) == 0 {
		delete(h.conns, organizationID)
	}
}

package websocket

import (
	"net/http"
	"strings"
	"sync"

	"github.com/gorilla/websocket"

	"github.com/petitchef/petit-chef/game/service"
	"github.com/petitchef/petit-chef/telemetry"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// The browser client is served from a different origin in development.
		return true
	},
}

// Verifier checks a handshake bearer token and returns the player id.
type Verifier interface {
	Verify(token string) (string, error)
}

// Hub tracks the connected clients per player and owns the connection
// lifecycle. Order and service events flow to clients through their sinks;
// the hub itself only registers, unregisters and counts.
type Hub struct {
	svc      service.GameService
	verifier Verifier

	mu      sync.Mutex
	clients map[string]map[*Client]bool
}

// NewHub creates a gateway hub bound to the resolution engine.
func NewHub(svc service.GameService, verifier Verifier) *Hub {
	return &Hub{
		svc:      svc,
		verifier: verifier,
		clients:  make(map[string]map[*Client]bool),
	}
}

// ServeWS authenticates and upgrades a connection. The token comes from the
// `token` query parameter or an Authorization bearer header; connections
// without a valid token are rejected before the upgrade.
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request) {
	playerID, err := h.verifier.Verify(bearerToken(r))
	if err != nil {
		http.Error(w, "authentication required", http.StatusUnauthorized)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		telemetry.Warnf("gateway: upgrade failed: %v", err)
		return
	}

	client := &Client{
		hub:      h,
		conn:     conn,
		send:     make(chan []byte, sendBufferSize),
		playerID: playerID,
	}
	h.register(client)

	go client.writePump()
	go client.readPump()
}

// ClientCount returns the number of open connections for a player.
func (h *Hub) ClientCount(playerID string) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients[playerID])
}

func (h *Hub) register(client *Client) {
	h.mu.Lock()
	if h.clients[client.playerID] == nil {
		h.clients[client.playerID] = make(map[*Client]bool)
	}
	h.clients[client.playerID][client] = true
	total := len(h.clients[client.playerID])
	h.mu.Unlock()

	telemetry.Infof("gateway: client connected (player: %s, connections: %d)", client.playerID, total)
}

// unregister drops a client and stops the player's session. The persisted
// active flag is deliberately left alone; the status endpoint still reports
// the service as open until the player stops it or the game ends.
func (h *Hub) unregister(client *Client) {
	h.mu.Lock()
	clients, ok := h.clients[client.playerID]
	if ok {
		if _, present := clients[client]; present {
			delete(clients, client)
			client.closeSend()
		}
		if len(clients) == 0 {
			delete(h.clients, client.playerID)
		}
	}
	h.mu.Unlock()

	if ok {
		h.svc.Disconnect(client.playerID)
		telemetry.Infof("gateway: client disconnected (player: %s)", client.playerID)
	}
}

func bearerToken(r *http.Request) string {
	if token := r.URL.Query().Get("token"); token != "" {
		return token
	}
	header := r.Header.Get("Authorization")
	if strings.HasPrefix(header, "Bearer ") {
		return strings.TrimPrefix(header, "Bearer ")
	}
	return ""
}

package websocket

import (
	"context"
	"encoding/json"
	"sync"

	"schoolhub-be/internal/dto"
	"schoolhub-be/internal/pkg/logger"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const clusterChannel = "cluster_events"

// clusterEnvelope is what travels over Redis between instances.
type clusterEnvelope struct {
	Origin       string          `json:"origin"`
	TargetUserID string          `json:"target_user_id"`
	Message      json.RawMessage `json:"message"`
}

type Hub struct {
	// UserID -> connected clients (multi-device)
	clients map[uuid.UUID][]*Client

	register   chan *Client
	unregister chan *Client

	mu sync.RWMutex

	// Redis connection for cross-instance fan-out, nil when running alone
	rdb        *redis.Client
	instanceID string
	subscribed chan struct{}

	logger logger.ILogger
}

func NewHub(rdb *redis.Client, instanceID string, log logger.ILogger) *Hub {
	return &Hub{
		register:   make(chan *Client),
		unregister: make(chan *Client),
		clients:    make(map[uuid.UUID][]*Client),
		rdb:        rdb,
		instanceID: instanceID,
		subscribed: make(chan struct{}),
		logger:     log,
	}
}

// Run owns client registration until ctx is cancelled.
func (h *Hub) Run(ctx context.Context) {
	if h.rdb != nil {
		go h.subscribeToRedis(ctx)
	} else {
		close(h.subscribed)
	}

	for {
		select {
		case <-ctx.Done():
			return

		case client := <-h.register:
			h.mu.Lock()
			h.clients[client.UserID] = append(h.clients[client.UserID], client)
			h.mu.Unlock()
			h.logger.Info("Hub", "Client registered", map[string]interface{}{"user_id": client.UserID})

		case client := <-h.unregister:
			h.mu.Lock()
			clients := h.clients[client.UserID]
			for i, c := range clients {
				if c == client {
					h.clients[client.UserID] = append(clients[:i], clients[i+1:]...)
					close(client.Send)
					break
				}
			}
			if len(h.clients[client.UserID]) == 0 {
				delete(h.clients, client.UserID)
				h.logger.Info("Hub", "Client completely unregistered", map[string]interface{}{"user_id": client.UserID})
			}
			h.mu.Unlock()
		}
	}
}

// Subscribed is closed once the Redis subscription is live (immediately
// without Redis).
func (h *Hub) Subscribed() <-chan struct{} {
	return h.subscribed
}

// ClientCount returns the number of local connections for userID.
func (h *Hub) ClientCount(userID uuid.UUID) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients[userID])
}

// Notify pushes a toast to every session of userID, here and on the other
// instances. Delivery is best effort.
func (h *Hub) Notify(userID uuid.UUID, toast dto.Toast) {
	data, err := json.Marshal(map[string]interface{}{
		"type": "toast",
		"data": toast,
	})
	if err != nil {
		h.logger.Error("Hub", "Failed to encode toast", map[string]interface{}{"error": err.Error()})
		return
	}

	h.deliverLocal(userID, data)

	if h.rdb == nil {
		return
	}
	payload, _ := json.Marshal(clusterEnvelope{
		Origin:       h.instanceID,
		TargetUserID: userID.String(),
		Message:      data,
	})
	if err := h.rdb.Publish(context.Background(), clusterChannel, payload).Err(); err != nil {
		h.logger.Warn("Hub", "Redis publish failed", map[string]interface{}{
			"user_id": userID,
			"error":   err.Error(),
		})
	}
}

// deliverLocal never blocks: a client whose buffer is full misses the message.
func (h *Hub) deliverLocal(userID uuid.UUID, data []byte) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, client := range h.clients[userID] {
		select {
		case client.Send <- data:
		default:
			h.logger.Warn("Hub", "Client Send buffer full, dropping message", map[string]interface{}{"user_id": userID})
		}
	}
}

func (h *Hub) subscribeToRedis(ctx context.Context) {
	pubsub := h.rdb.Subscribe(ctx, clusterChannel)
	defer pubsub.Close()

	if _, err := pubsub.Receive(ctx); err != nil {
		h.logger.Error("Hub", "Redis subscribe failed", map[string]interface{}{"error": err.Error()})
		close(h.subscribed)
		return
	}
	close(h.subscribed)

	ch := pubsub.Channel()
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			var env clusterEnvelope
			if err := json.Unmarshal([]byte(msg.Payload), &env); err != nil {
				h.logger.Warn("Hub", "Redis msg parse error", map[string]interface{}{"error": err.Error()})
				continue
			}
			// Our own publish was already delivered locally.
			if env.Origin == h.instanceID {
				continue
			}
			uid, err := uuid.Parse(env.TargetUserID)
			if err != nil {
				continue
			}
			h.deliverLocal(uid, env.Message)
		}
	}
}

package websocket

import (
	"context"
	"encoding/json"
	"log"
	"sync"

	"car-support-be/internal/pkg/logger"

	"github.com/redis/go-redis/v9"
)

const redisChannel = "operator_events"

// Hub fans conversation events out to connected operator dashboards.
// Every operator sees every event; filtering happens client side.
type Hub struct {
	// Registered dashboards: OperatorID -> connections (multi-device)
	clients map[string][]*Client

	register   chan *Client
	unregister chan *Client

	mu sync.RWMutex

	// Redis connection for cross-instance fanout
	rdb *redis.Client

	logger logger.ILogger
}

func NewHub(rdb *redis.Client, log logger.ILogger) *Hub {
	return &Hub{
		register:   make(chan *Client),
		unregister: make(chan *Client),
		clients:    make(map[string][]*Client),
		rdb:        rdb,
		logger:     log,
	}
}

func (h *Hub) Run() {
	if h.rdb != nil {
		go h.subscribeToRedis()
	}

	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client.OperatorID] = append(h.clients[client.OperatorID], client)
			h.mu.Unlock()
			h.logger.Info("Hub", "Operator connected", map[string]interface{}{"operator_id": client.OperatorID})

		case client := <-h.unregister:
			h.mu.Lock()
			if clients, ok := h.clients[client.OperatorID]; ok {
				for i, c := range clients {
					if c == client {
						h.clients[client.OperatorID] = append(clients[:i], clients[i+1:]...)
						close(client.Send)
						break
					}
				}
				if len(h.clients[client.OperatorID]) == 0 {
					delete(h.clients, client.OperatorID)
					h.logger.Info("Hub", "Operator disconnected", map[string]interface{}{"operator_id": client.OperatorID})
				}
			}
			h.mu.Unlock()
		}
	}
}

// Broadcast delivers an event to every connected dashboard. With redis
// configured the event goes through pub/sub so every instance, this one
// included, picks it up in subscribeToRedis; without redis, or when the
// publish fails, delivery degrades to local connections.
func (h *Hub) Broadcast(eventType string, payload map[string]interface{}) {
	data, _ := json.Marshal(map[string]interface{}{
		"type": eventType,
		"data": payload,
	})

	if h.rdb != nil {
		err := h.rdb.Publish(context.Background(), redisChannel, data).Err()
		if err == nil {
			return
		}
		h.logger.Warn("Hub", "Redis publish failed, delivering locally", map[string]interface{}{"error": err.Error()})
	}

	h.deliverLocal(data)
}

func (h *Hub) deliverLocal(data []byte) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for _, clients := range h.clients {
		for _, client := range clients {
			select {
			case client.Send <- data:
			default:
				h.logger.Warn("Hub", "Operator send buffer full, dropping connection", map[string]interface{}{"operator_id": client.OperatorID})
				close(client.Send)
				go func(c *Client) { h.unregister <- c }(client)
			}
		}
	}
}

func (h *Hub) subscribeToRedis() {
	ctx := context.Background()
	pubsub := h.rdb.Subscribe(ctx, redisChannel)
	defer pubsub.Close()

	for msg := range pubsub.Channel() {
		h.deliverLocal([]byte(msg.Payload))
	}
	log.Printf("redis subscription for %s closed", redisChannel)
}

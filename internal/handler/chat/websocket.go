// Package chat exposes the conversational WebSocket surface: one persistent
// connection per client, one session per connection, one reply per message.
package chat

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/VanujaSooriyaarachchi/Employee-info-chatbot/internal/service/conversation"
)

const (
	readTimeout  = 60 * time.Second
	pingInterval = 54 * time.Second
	// Inbound messages queued ahead of the per-connection worker. A full
	// queue blocks the read loop, which is acceptable: handling stays
	// serialized and ordered either way.
	queueSize = 16
)

// Handler upgrades chat connections and runs their message loops.
type Handler struct {
	dispatcher *conversation.Dispatcher
	store      *conversation.Store
	upgrader   websocket.Upgrader
}

// New creates the WebSocket chat handler.
func New(dispatcher *conversation.Dispatcher, store *conversation.Store) *Handler {
	return &Handler{
		dispatcher: dispatcher,
		store:      store,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
	}
}

// RegisterRoutes mounts the chat endpoint.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/ws/chat", h.handleWebSocket)
}

type inboundMessage struct {
	Type      string          `json:"type"`
	Data      json.RawMessage `json:"data"`
	Timestamp int64           `json:"timestamp"`
}

type queryPayload struct {
	Query string `json:"query"`
}

type responsePayload struct {
	Response string `json:"response"`
}

type outgoingMessage struct {
	Type      string      `json:"type"`
	Data      interface{} `json:"data,omitempty"`
	Timestamp int64       `json:"timestamp"`
}

// connWriter serializes frame writes; the worker and the read loop both send.
type connWriter struct {
	mu   sync.Mutex
	conn *websocket.Conn
}

func (w *connWriter) writeJSON(msgType string, data interface{}) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.conn.WriteJSON(outgoingMessage{
		Type:      msgType,
		Data:      data,
		Timestamp: time.Now().Unix(),
	})
}

func (w *connWriter) writeError(message string) {
	if err := w.writeJSON("error", map[string]string{"message": message}); err != nil {
		log.Printf("[websocket] write error failed: %v", err)
	}
}

// handleWebSocket owns a connection's full lifecycle: session creation on
// connect, a reader feeding a single worker so messages on one connection
// are handled strictly in order, and synchronous session teardown on
// disconnect. Replies still in flight after teardown are discarded by the
// dispatcher's epoch guard.
func (h *Handler) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("[websocket] upgrade failed: %v", err)
		return
	}
	defer conn.Close()

	connID := uuid.NewString()
	h.store.Create(connID)
	log.Printf("[websocket] client connected conn=%s", connID)

	ctx, cancel := context.WithCancel(context.Background())
	queue := make(chan string, queueSize)

	defer func() {
		h.store.Delete(connID)
		cancel()
		close(queue)
		log.Printf("[websocket] client disconnected conn=%s", connID)
	}()

	writer := &connWriter{conn: conn}

	conn.SetReadDeadline(time.Now().Add(readTimeout))
	conn.SetPongHandler(func(string) error {
		conn.SetReadDeadline(time.Now().Add(readTimeout))
		return nil
	})

	go h.pingLoop(ctx, conn)
	go h.runWorker(ctx, connID, queue, writer)

	if err := writer.writeJSON("connected", map[string]string{"connectionId": connID}); err != nil {
		log.Printf("[websocket] write hello failed conn=%s: %v", connID, err)
		return
	}

	for {
		var msg inboundMessage
		if err := conn.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("[websocket] read error conn=%s: %v", connID, err)
			}
			return
		}

		conn.SetReadDeadline(time.Now().Add(readTimeout))

		switch msg.Type {
		case "message":
			var payload queryPayload
			if len(msg.Data) > 0 {
				if err := json.Unmarshal(msg.Data, &payload); err != nil {
					writer.writeError("invalid message payload")
					continue
				}
			}
			select {
			case queue <- payload.Query:
			case <-ctx.Done():
				return
			}
		default:
			writer.writeError("unsupported message type: " + msg.Type)
		}
	}
}

// runWorker drains the connection's queue one message at a time, so session
// reads and writes are atomic with respect to the triggering message and
// replies go out in arrival order.
func (h *Handler) runWorker(ctx context.Context, connID string, queue <-chan string, writer *connWriter) {
	for query := range queue {
		h.dispatcher.HandleMessage(ctx, connID, query, func(response string) error {
			return writer.writeJSON("chat_response", responsePayload{Response: response})
		})
	}
}

func (h *Handler) pingLoop(ctx context.Context, conn *websocket.Conn) {
	ticker := time.NewTicker(pingInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(5*time.Second)); err != nil {
				return
			}
		}
	}
}

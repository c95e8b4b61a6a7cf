package chat

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"

	trainingModel "github.com/VanujaSooriyaarachchi/Employee-info-chatbot/internal/model/training"
	"github.com/VanujaSooriyaarachchi/Employee-info-chatbot/internal/service/conversation"
)

type echoCompletion struct{}

func (echoCompletion) Complete(_ context.Context, prompt string) (string, error) {
	return "echo: " + prompt, nil
}

type stubTraining struct {
	records map[trainingModel.Status][]trainingModel.Record
}

func (s stubTraining) FetchTrainings(_ context.Context, status trainingModel.Status, _, _ string) ([]trainingModel.Record, error) {
	return s.records[status], nil
}

type envelope struct {
	Type      string          `json:"type"`
	Data      json.RawMessage `json:"data"`
	Timestamp int64           `json:"timestamp"`
}

func newTestServer(t *testing.T, store *conversation.Store, trainings stubTraining) *httptest.Server {
	t.Helper()

	dispatcher := conversation.NewDispatcher(store, conversation.NewKeywordClassifier(), echoCompletion{}, trainings)
	handler := New(dispatcher, store)

	r := chi.NewRouter()
	handler.RegisterRoutes(r)

	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return srv
}

func dial(t *testing.T, srv *httptest.Server) *websocket.Conn {
	t.Helper()

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws/chat"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial err: %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

func readEnvelope(t *testing.T, conn *websocket.Conn) envelope {
	t.Helper()

	conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	var msg envelope
	if err := conn.ReadJSON(&msg); err != nil {
		t.Fatalf("read err: %v", err)
	}
	return msg
}

func sendQuery(t *testing.T, conn *websocket.Conn, query string) {
	t.Helper()

	payload := map[string]any{
		"type": "message",
		"data": map[string]string{"query": query},
	}
	if err := conn.WriteJSON(payload); err != nil {
		t.Fatalf("write err: %v", err)
	}
}

func readResponse(t *testing.T, conn *websocket.Conn) string {
	t.Helper()

	msg := readEnvelope(t, conn)
	if msg.Type != "chat_response" {
		t.Fatalf("expected chat_response, got %s", msg.Type)
	}
	var payload struct {
		Response string `json:"response"`
	}
	if err := json.Unmarshal(msg.Data, &payload); err != nil {
		t.Fatalf("decode response payload: %v", err)
	}
	return payload.Response
}

func TestWebSocketGuidedFlowRoundTrip(t *testing.T) {
	store := conversation.NewStore()
	trainings := stubTraining{
		records: map[trainingModel.Status][]trainingModel.Record{
			trainingModel.StatusPending: {{Name: "Fire Safety"}},
		},
	}
	srv := newTestServer(t, store, trainings)
	conn := dial(t, srv)

	if hello := readEnvelope(t, conn); hello.Type != "connected" {
		t.Fatalf("expected connected hello, got %s", hello.Type)
	}

	sendQuery(t, conn, "Show me pending trainings")
	if got := readResponse(t, conn); got != "Enter your Employee ID" {
		t.Fatalf("got %q", got)
	}

	sendQuery(t, conn, "E123")
	if got := readResponse(t, conn); got != "Enter your Company ID" {
		t.Fatalf("got %q", got)
	}

	sendQuery(t, conn, "C99")
	want := "You have 1 pending trainings: Fire Safety. You have completed 0 trainings: ."
	if got := readResponse(t, conn); got != want {
		t.Fatalf("got %q want %q", got, want)
	}
}

func TestWebSocketRepliesStayOrdered(t *testing.T) {
	store := conversation.NewStore()
	srv := newTestServer(t, store, stubTraining{})
	conn := dial(t, srv)

	readEnvelope(t, conn) // hello

	sendQuery(t, conn, "first")
	sendQuery(t, conn, "second")
	sendQuery(t, conn, "third")

	for _, want := range []string{"echo: first", "echo: second", "echo: third"} {
		if got := readResponse(t, conn); got != want {
			t.Fatalf("got %q want %q", got, want)
		}
	}
}

func TestWebSocketMissingQueryDefaultsToEmpty(t *testing.T) {
	store := conversation.NewStore()
	srv := newTestServer(t, store, stubTraining{})
	conn := dial(t, srv)

	readEnvelope(t, conn) // hello

	if err := conn.WriteJSON(map[string]any{"type": "message"}); err != nil {
		t.Fatalf("write err: %v", err)
	}
	if got := readResponse(t, conn); got != "echo: " {
		t.Fatalf("got %q", got)
	}
}

func TestWebSocketUnsupportedTypeGetsError(t *testing.T) {
	store := conversation.NewStore()
	srv := newTestServer(t, store, stubTraining{})
	conn := dial(t, srv)

	readEnvelope(t, conn) // hello

	if err := conn.WriteJSON(map[string]any{"type": "bogus"}); err != nil {
		t.Fatalf("write err: %v", err)
	}
	if msg := readEnvelope(t, conn); msg.Type != "error" {
		t.Fatalf("expected error envelope, got %s", msg.Type)
	}
}

func TestWebSocketDisconnectRemovesSession(t *testing.T) {
	store := conversation.NewStore()
	srv := newTestServer(t, store, stubTraining{})
	conn := dial(t, srv)

	hello := readEnvelope(t, conn)
	var payload struct {
		ConnectionID string `json:"connectionId"`
	}
	if err := json.Unmarshal(hello.Data, &payload); err != nil {
		t.Fatalf("decode hello: %v", err)
	}

	if _, _, ok := store.Snapshot(payload.ConnectionID); !ok {
		t.Fatal("expected session to exist while connected")
	}

	conn.Close()

	deadline := time.Now().Add(2 * time.Second)
	for {
		if _, _, ok := store.Snapshot(payload.ConnectionID); !ok {
			return
		}
		if time.Now().After(deadline) {
			t.Fatal("session still present after disconnect")
		}
		time.Sleep(10 * time.Millisecond)
	}
}

package ws_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/deptpulse/deptpulse/internal/refresh"
	wsHub "github.com/deptpulse/deptpulse/internal/ws"
	"github.com/deptpulse/deptpulse/pkg/model"
)

const testInterval = 20 * time.Millisecond

// --- helpers ----------------------------------------------------------------

// stubState is a mutable snapshot source standing in for the scheduler.
type stubState struct {
	mu   sync.Mutex
	view refresh.View
}

func (s *stubState) View() refresh.View {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.view
}

func (s *stubState) set(v refresh.View) {
	s.mu.Lock()
	s.view = v
	s.mu.Unlock()
}

func dept(id, name string, score float64) model.Department {
	return model.Department{ID: id, Name: name, TotalScore: score}
}

// startHub starts a test HTTP server with the hub as its handler.
// The hub's Run loop is started with a cancellable context.
// Returns the ws:// URL, the hub, and the cancel function.
func startHub(t *testing.T, st *stubState) (wsURL string, hub *wsHub.Hub, cancel func()) {
	t.Helper()

	hub = wsHub.New(st, testInterval)
	ctx, cancelFn := context.WithCancel(context.Background())

	srv := httptest.NewServer(http.HandlerFunc(hub.ServeHTTP))
	go hub.Run(ctx)

	t.Cleanup(func() {
		cancelFn()
		srv.Close()
	})

	wsURL = "ws" + strings.TrimPrefix(srv.URL, "http")
	return wsURL, hub, cancelFn
}

// dial connects a WebSocket client to wsURL and returns the connection.
func dial(t *testing.T, wsURL string) *websocket.Conn {
	t.Helper()
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("dial %s: %v", wsURL, err)
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

// readMessage reads one text message from conn with a short deadline.
func readMessage(t *testing.T, conn *websocket.Conn) []byte {
	t.Helper()
	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, msg, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("ReadMessage: %v", err)
	}
	return msg
}

// --- tests ------------------------------------------------------------------

func TestHub_Connect_ReceivesImmediateSnapshot(t *testing.T) {
	st := &stubState{view: refresh.View{
		Departments: []model.Department{dept("1", "Finance", 0.8)},
		LastUpdated: time.Now(),
	}}
	wsURL, _, _ := startHub(t, st)

	conn := dial(t, wsURL)
	msg := readMessage(t, conn)

	var m map[string]interface{}
	if err := json.Unmarshal(msg, &m); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if m["event"] != "snapshot" {
		t.Errorf("event: got %v, want snapshot", m["event"])
	}
	data, ok := m["data"].(map[string]interface{})
	if !ok {
		t.Fatal("data: missing or wrong type")
	}
	if data["generated_at"] == nil || data["generated_at"] == "" {
		t.Error("generated_at: missing")
	}
}

func TestHub_MessageContainsDepartments(t *testing.T) {
	st := &stubState{view: refresh.View{
		Departments: []model.Department{
			dept("1", "Finance", 0.8),
			dept("2", "Engineering", 0.4),
		},
	}}
	wsURL, _, _ := startHub(t, st)

	conn := dial(t, wsURL)
	msg := readMessage(t, conn)

	var m map[string]interface{}
	json.Unmarshal(msg, &m) //nolint:errcheck
	data := m["data"].(map[string]interface{})
	departments, ok := data["departments"].([]interface{})
	if !ok {
		t.Fatal("departments: missing or wrong type")
	}
	if len(departments) != 2 {
		t.Errorf("departments: got %d, want 2", len(departments))
	}
}

func TestHub_EmptySnapshot_EmptyDepartments(t *testing.T) {
	wsURL, _, _ := startHub(t, &stubState{view: refresh.View{Loading: true}})
	conn := dial(t, wsURL)
	msg := readMessage(t, conn)

	var m map[string]interface{}
	json.Unmarshal(msg, &m) //nolint:errcheck
	data := m["data"].(map[string]interface{})
	departments, ok := data["departments"].([]interface{})
	if !ok {
		t.Fatal("departments: missing or wrong type")
	}
	if len(departments) != 0 {
		t.Errorf("departments: got %d, want 0", len(departments))
	}
	if data["loading"] != true {
		t.Errorf("loading: got %v, want true", data["loading"])
	}
}

func TestHub_CountClients_SingleClient(t *testing.T) {
	wsURL, hub, _ := startHub(t, &stubState{})

	conn := dial(t, wsURL)
	readMessage(t, conn) // consume initial message

	// Give the hub a moment to register the client.
	time.Sleep(10 * time.Millisecond)
	if n := hub.Count(); n != 1 {
		t.Errorf("Count: got %d, want 1", n)
	}
}

func TestHub_CountClients_MultipleClients(t *testing.T) {
	wsURL, hub, _ := startHub(t, &stubState{})

	for i := 0; i < 3; i++ {
		conn := dial(t, wsURL)
		readMessage(t, conn) // consume initial message
	}

	time.Sleep(10 * time.Millisecond)
	if n := hub.Count(); n != 3 {
		t.Errorf("Count: got %d, want 3", n)
	}
}

func TestHub_CountClients_DecreasesOnDisconnect(t *testing.T) {
	wsURL, hub, _ := startHub(t, &stubState{})

	conn := dial(t, wsURL)
	readMessage(t, conn)
	time.Sleep(10 * time.Millisecond)

	if n := hub.Count(); n != 1 {
		t.Errorf("Count before disconnect: got %d, want 1", n)
	}

	conn.Close()
	time.Sleep(50 * time.Millisecond) // let readPump detect the close

	if n := hub.Count(); n != 0 {
		t.Errorf("Count after disconnect: got %d, want 0", n)
	}
}

func TestHub_NotifyPushesNewSnapshot(t *testing.T) {
	st := &stubState{view: refresh.View{Loading: true}}
	wsURL, hub, _ := startHub(t, st)

	conn := dial(t, wsURL)
	readMessage(t, conn) // consume immediate snapshot (still loading)

	// A refresh lands and the scheduler hook fires.
	st.set(refresh.View{
		Departments: []model.Department{dept("9", "Operations", 0.6)},
		LastUpdated: time.Now(),
	})
	hub.Notify()

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, msg, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("waiting for notify broadcast: %v", err)
	}

	var m map[string]interface{}
	json.Unmarshal(msg, &m) //nolint:errcheck
	data := m["data"].(map[string]interface{})
	departments := data["departments"].([]interface{})
	if len(departments) != 1 {
		t.Fatalf("notify broadcast: got %d departments, want 1", len(departments))
	}
	d := departments[0].(map[string]interface{})
	if d["name"] != "Operations" {
		t.Errorf("name: got %v, want Operations", d["name"])
	}
}

func TestHub_ConnectDuringBroadcastStorm(t *testing.T) {
	st := &stubState{view: refresh.View{
		Departments: []model.Department{dept("1", "Finance", 0.8)},
	}}
	wsURL, hub, _ := startHub(t, st)

	// Hammer the hub with broadcasts while clients connect, so new
	// connections land between evictions of saturated send buffers.
	stop := make(chan struct{})
	go func() {
		for {
			select {
			case <-stop:
				return
			default:
				hub.Notify()
			}
		}
	}()
	defer close(stop)

	for i := 0; i < 5; i++ {
		conn := dial(t, wsURL)
		msg := readMessage(t, conn)
		var m map[string]interface{}
		if err := json.Unmarshal(msg, &m); err != nil {
			t.Fatalf("client %d: unmarshal: %v", i, err)
		}
		if m["event"] != "snapshot" {
			t.Errorf("client %d: event: got %v, want snapshot", i, m["event"])
		}
	}
}

func TestHub_AllClientsReceiveBroadcast(t *testing.T) {
	st := &stubState{view: refresh.View{
		Departments: []model.Department{dept("1", "Finance", 0.8)},
	}}
	wsURL, _, _ := startHub(t, st)

	conns := make([]*websocket.Conn, 3)
	for i := 0; i < 3; i++ {
		conns[i] = dial(t, wsURL)
	}

	// All three should receive the initial snapshot.
	for i, conn := range conns {
		msg := readMessage(t, conn)
		var m map[string]interface{}
		if err := json.Unmarshal(msg, &m); err != nil {
			t.Errorf("client %d: unmarshal: %v", i, err)
			continue
		}
		if m["event"] != "snapshot" {
			t.Errorf("client %d: event: got %v, want snapshot", i, m["event"])
		}
	}
}

func TestHub_CancelContextClosesConnections(t *testing.T) {
	wsURL, hub, cancel := startHub(t, &stubState{})

	conn := dial(t, wsURL)
	readMessage(t, conn)
	time.Sleep(10 * time.Millisecond)

	cancel() // signal shutdown

	// After cancel, hub should close all clients.
	time.Sleep(50 * time.Millisecond)
	if n := hub.Count(); n != 0 {
		t.Errorf("Count after cancel: got %d, want 0", n)
	}
}

func TestHub_NonWebSocketRequest_Returns400(t *testing.T) {
	hub := wsHub.New(&stubState{}, testInterval)
	srv := httptest.NewServer(http.HandlerFunc(hub.ServeHTTP))
	defer srv.Close()

	resp, err := http.Get(srv.URL)
	if err != nil {
		t.Fatalf("GET: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("status: got %d, want 400", resp.StatusCode)
	}
}

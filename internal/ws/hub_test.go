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

	wsHub "github.com/hirelens/hirelens/internal/ws"
	"github.com/hirelens/hirelens/pkg/types"
)

const testInterval = 20 * time.Millisecond

// --- helpers ----------------------------------------------------------------

// source is a swappable report holder.
type source struct {
	mu sync.Mutex
	r  *types.Report
}

func (s *source) Report() *types.Report {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.r
}

func (s *source) set(r *types.Report) {
	s.mu.Lock()
	s.r = r
	s.mu.Unlock()
}

func report(total int) *types.Report {
	return &types.Report{
		GeneratedAt: time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
		Headline:    types.Headline{TotalApplications: total},
		Alerts:      []types.Alert{},
	}
}

// startHub starts a test HTTP server with the hub as its handler and the
// hub's Run loop on a cancellable context.
func startHub(t *testing.T, src wsHub.Source, interval time.Duration) (wsURL string, hub *wsHub.Hub) {
	t.Helper()

	hub = wsHub.New(src, interval)
	ctx, cancel := context.WithCancel(context.Background())

	srv := httptest.NewServer(hub)
	go hub.Run(ctx)

	t.Cleanup(func() {
		cancel()
		srv.Close()
	})
	return "ws" + strings.TrimPrefix(srv.URL, "http"), hub
}

func dial(t *testing.T, wsURL string) *websocket.Conn {
	t.Helper()
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("dial %s: %v", wsURL, err)
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

func readMessage(t *testing.T, conn *websocket.Conn, within time.Duration) wsHub.Message {
	t.Helper()
	conn.SetReadDeadline(time.Now().Add(within))
	_, raw, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("ReadMessage: %v", err)
	}
	var m wsHub.Message
	if err := json.Unmarshal(raw, &m); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	return m
}

// --- tests ------------------------------------------------------------------

func TestHub_Connect_ReceivesImmediateReport(t *testing.T) {
	// Long interval so only the on-connect message can arrive in time.
	wsURL, _ := startHub(t, &source{r: report(5)}, time.Hour)

	m := readMessage(t, dial(t, wsURL), 2*time.Second)
	if m.Event != wsHub.EventReport {
		t.Errorf("event: got %q, want %q", m.Event, wsHub.EventReport)
	}
	if m.Data == nil || m.Data.Headline.TotalApplications != 5 {
		t.Errorf("data: got %+v", m.Data)
	}
}

func TestHub_NoReport_NothingSent(t *testing.T) {
	wsURL, _ := startHub(t, &source{}, testInterval)
	conn := dial(t, wsURL)

	conn.SetReadDeadline(time.Now().Add(150 * time.Millisecond))
	if _, _, err := conn.ReadMessage(); err == nil {
		t.Fatal("expected no message before the first report")
	}
}

func TestHub_ReceivesBroadcastOnTick(t *testing.T) {
	src := &source{}
	wsURL, _ := startHub(t, src, testInterval)
	conn := dial(t, wsURL)

	src.set(report(9))
	m := readMessage(t, conn, 2*time.Second)
	if m.Data.Headline.TotalApplications != 9 {
		t.Errorf("broadcast total: got %d, want 9", m.Data.Headline.TotalApplications)
	}
}

func TestHub_Publish(t *testing.T) {
	wsURL, hub := startHub(t, &source{}, time.Hour)
	conn := dial(t, wsURL)

	// Wait until the hub has registered the client.
	deadline := time.Now().Add(2 * time.Second)
	for hub.Count() != 1 && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}

	hub.Publish(report(42))
	m := readMessage(t, conn, 2*time.Second)
	if m.Data.Headline.TotalApplications != 42 {
		t.Errorf("published total: got %d, want 42", m.Data.Headline.TotalApplications)
	}
}

func TestHub_CountClients(t *testing.T) {
	wsURL, hub := startHub(t, &source{r: report(1)}, time.Hour)

	var conns []*websocket.Conn
	for i := 0; i < 3; i++ {
		c := dial(t, wsURL)
		readMessage(t, c, 2*time.Second) // consume initial message
		conns = append(conns, c)
	}

	time.Sleep(10 * time.Millisecond)
	if n := hub.Count(); n != 3 {
		t.Errorf("Count: got %d, want 3", n)
	}

	conns[0].Close()
	time.Sleep(50 * time.Millisecond) // let readPump detect the close
	if n := hub.Count(); n != 2 {
		t.Errorf("Count after disconnect: got %d, want 2", n)
	}
}

func TestHub_ShutdownClosesClients(t *testing.T) {
	hub := wsHub.New(&source{r: report(1)}, time.Hour)
	ctx, cancel := context.WithCancel(context.Background())
	srv := httptest.NewServer(http.HandlerFunc(hub.ServeHTTP))
	defer srv.Close()
	done := make(chan struct{})
	go func() {
		hub.Run(ctx)
		close(done)
	}()

	conn := dial(t, "ws"+strings.TrimPrefix(srv.URL, "http"))
	readMessage(t, conn, 2*time.Second)

	cancel()
	<-done

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	if _, _, err := conn.ReadMessage(); err == nil {
		t.Fatal("expected connection to close after shutdown")
	}
	if n := hub.Count(); n != 0 {
		t.Errorf("Count after shutdown: got %d, want 0", n)
	}
}

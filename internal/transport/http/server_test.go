package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
	"github.com/rs/zerolog"

	"github.com/vovakirdan/classroom-server/internal/config"
	"github.com/vovakirdan/classroom-server/internal/core"
	"github.com/vovakirdan/classroom-server/internal/proto"
)

type testServer struct {
	*httptest.Server
	hub    *core.Hub
	cancel context.CancelFunc
}

func testConfig() config.Config {
	cfg := config.Default()
	cfg.Addr = ":0"
	cfg.ReadHeaderTimeout = time.Second
	cfg.ShutdownTimeout = time.Second
	cfg.PingInterval = 0
	return cfg
}

func startTestServer(t *testing.T, cfg config.Config) *testServer {
	t.Helper()

	disabledLogger := zerolog.New(nil)
	hub := core.NewHub(&disabledLogger, nil)
	ctx, cancel := context.WithCancel(context.Background())
	go hub.Run(ctx)

	server := NewServer(hub, &cfg, &disabledLogger, nil)
	ts := httptest.NewServer(server.Handler)
	t.Cleanup(func() {
		cancel()
		ts.Close()
	})

	return &testServer{Server: ts, hub: hub, cancel: cancel}
}

func (ts *testServer) wsURL(query string) string {
	u := strings.Replace(ts.URL, "http", "ws", 1) + "/ws"
	if query != "" {
		u += "?" + query
	}
	return u
}

// outbound mirrors proto.Outbound with raw data for decoding in tests.
type outbound struct {
	Type  string          `json:"type"`
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data"`
	Error *proto.Error    `json:"error"`
}

// dialClient connects and consumes the connected greeting, returning the sid.
func dialClient(ctx context.Context, t *testing.T, url string) (*websocket.Conn, string) {
	t.Helper()

	conn, _, err := websocket.Dial(ctx, url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	t.Cleanup(func() { conn.Close(websocket.StatusNormalClosure, "done") })

	out := readOutbound(ctx, t, conn)
	if out.Type != proto.OutboundTypeEvent || out.Event != proto.EventConnected {
		t.Fatalf("expected connected event, got %+v", out)
	}
	var hello proto.EventConnectedData
	if err := json.Unmarshal(out.Data, &hello); err != nil {
		t.Fatalf("unmarshal connected: %v", err)
	}
	if hello.SID == "" {
		t.Fatal("connected event without sid")
	}
	if hello.Protocol != proto.ProtocolVersion {
		t.Fatalf("unexpected protocol version %d", hello.Protocol)
	}
	return conn, hello.SID
}

func readOutbound(ctx context.Context, t *testing.T, conn *websocket.Conn) outbound {
	t.Helper()

	var out outbound
	if err := wsjson.Read(ctx, conn, &out); err != nil {
		t.Fatalf("read outbound: %v", err)
	}
	return out
}

func readEvent(ctx context.Context, t *testing.T, conn *websocket.Conn, name string, data any) {
	t.Helper()

	out := readOutbound(ctx, t, conn)
	if out.Type != proto.OutboundTypeEvent || out.Event != name {
		t.Fatalf("expected event %q, got %+v", name, out)
	}
	if data == nil {
		return
	}
	if err := json.Unmarshal(out.Data, data); err != nil {
		t.Fatalf("unmarshal %s: %v", name, err)
	}
}

func readError(ctx context.Context, t *testing.T, conn *websocket.Conn, code string) {
	t.Helper()

	out := readOutbound(ctx, t, conn)
	if out.Type != proto.OutboundTypeError || out.Error == nil {
		t.Fatalf("expected error frame, got %+v", out)
	}
	if out.Error.Code != code {
		t.Fatalf("expected error code %q, got %q", code, out.Error.Code)
	}
}

func sendFrame(ctx context.Context, t *testing.T, conn *websocket.Conn, typ string, data any) {
	t.Helper()

	payload, err := json.Marshal(data)
	if err != nil {
		t.Fatalf("marshal %s: %v", typ, err)
	}
	if err := wsjson.Write(ctx, conn, proto.Inbound{Type: typ, Data: payload}); err != nil {
		t.Fatalf("write %s: %v", typ, err)
	}
}

func joinAs(ctx context.Context, t *testing.T, conn *websocket.Conn, room string) proto.EventExistingParticipantsData {
	t.Helper()

	sendFrame(ctx, t, conn, proto.InboundTypeJoin, proto.JoinData{RoomID: room})
	var existing proto.EventExistingParticipantsData
	readEvent(ctx, t, conn, proto.EventExistingParticipants, &existing)
	return existing
}

func TestHealthEndpoint(t *testing.T) {
	ts := startTestServer(t, testConfig())

	resp, err := ts.Client().Get(ts.URL + "/health")
	if err != nil {
		t.Fatalf("health request failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != 200 {
		t.Fatalf("unexpected status: %d", resp.StatusCode)
	}
	var health HealthResponse
	if err := json.NewDecoder(resp.Body).Decode(&health); err != nil {
		t.Fatalf("decode health: %v", err)
	}
	if health.Status != "ok" || health.Connections != 0 || health.Rooms != 0 {
		t.Fatalf("unexpected health: %+v", health)
	}
}

func TestMetricsRouteOptional(t *testing.T) {
	ts := startTestServer(t, testConfig())

	resp, err := ts.Client().Get(ts.URL + "/metrics")
	if err != nil {
		t.Fatalf("metrics request failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != 404 {
		t.Fatalf("expected 404 without a metrics handler, got %d", resp.StatusCode)
	}
}

func TestWebSocketUpgradeGreets(t *testing.T) {
	ts := startTestServer(t, testConfig())

	ctx, closeCtx := context.WithTimeout(context.Background(), 3*time.Second)
	defer closeCtx()

	conn, _, err := websocket.Dial(ctx, ts.wsURL("user=ada&name=Ada"), nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close(websocket.StatusNormalClosure, "done")

	var hello proto.EventConnectedData
	readEvent(ctx, t, conn, proto.EventConnected, &hello)
	if hello.SID == "" || hello.UserID != "ada" || hello.Name != "Ada" {
		t.Fatalf("unexpected greeting: %+v", hello)
	}
	if conns, _ := ts.hub.Stats(); conns != 1 {
		t.Fatalf("expected one live connection, got %d", conns)
	}
}

func TestCORSCredentials(t *testing.T) {
	tests := []struct {
		name            string
		origins         []string
		origin          string
		wantAllowOrigin string
		wantCredentials string
	}{
		{name: "wildcard", origins: []string{"*"}, origin: "https://evil.example", wantAllowOrigin: "*", wantCredentials: ""},
		{name: "listed origin", origins: []string{"https://class.example"}, origin: "https://class.example", wantAllowOrigin: "https://class.example", wantCredentials: "true"},
		{name: "unlisted origin", origins: []string{"https://class.example"}, origin: "https://evil.example", wantAllowOrigin: "", wantCredentials: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := testConfig()
			cfg.CORSOrigins = tt.origins
			ts := startTestServer(t, cfg)

			req, err := http.NewRequest(http.MethodGet, ts.URL+"/health", nil)
			if err != nil {
				t.Fatalf("build request: %v", err)
			}
			req.Header.Set("Origin", tt.origin)
			resp, err := ts.Client().Do(req)
			if err != nil {
				t.Fatalf("health request failed: %v", err)
			}
			resp.Body.Close()

			got := resp.Header.Get("Access-Control-Allow-Origin")
			if tt.wantAllowOrigin == "*" && got == tt.origin {
				got = "*"
			}
			if got != tt.wantAllowOrigin {
				t.Errorf("allow origin: expected %q, got %q", tt.wantAllowOrigin, got)
			}
			if got := resp.Header.Get("Access-Control-Allow-Credentials"); got != tt.wantCredentials {
				t.Errorf("allow credentials: expected %q, got %q", tt.wantCredentials, got)
			}
		})
	}
}

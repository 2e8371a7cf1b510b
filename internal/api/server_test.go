package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/nerrad567/topband-bridge/internal/device"
	"github.com/nerrad567/topband-bridge/internal/infrastructure/config"
	"github.com/nerrad567/topband-bridge/internal/infrastructure/logging"
	"github.com/nerrad567/topband-bridge/internal/point"
)

func testRegistry(t *testing.T) *device.Registry {
	t.Helper()

	snapshot := map[string]device.SnapshotPoint{
		"PARAM_ID_SYS_DEVICE_MODULE":  {Index: 1, Name: "PARAM_ID_SYS_DEVICE_MODULE", Type: point.TypeConst, Value: float64(3)},
		"PARAM_ID_TH_DELETE_TH_ADDR":  {Index: 2, Name: "PARAM_ID_TH_DELETE_TH_ADDR", Type: point.TypeInt, Value: float64(0)},
		"PARAM_ID_BOILER_CH_CUR_TEMP": {Index: 3, Name: "PARAM_ID_BOILER_CH_CUR_TEMP", Type: point.TypeFixed, Value: float64(452)},
		"PARAM_ID_SYS_DST_ENABLE":     {Index: 4, Name: "PARAM_ID_SYS_DST_ENABLE", Type: point.TypeInt, Value: float64(1)},
	}

	dev, err := device.New(device.Info{
		MAC:    "AA:BB:CC:DD:EE:FF",
		Name:   "Boiler",
		Model:  "RS-100",
		Online: true,
	}, snapshot, nil, nil)
	if err != nil {
		t.Fatalf("device.New() error = %v", err)
	}

	reg := device.NewRegistry()
	if err := reg.Add(dev); err != nil {
		t.Fatalf("Add() error = %v", err)
	}
	return reg
}

func testServer(t *testing.T) *Server {
	t.Helper()
	logger := logging.New(config.LoggingConfig{Level: "error", Format: "text", Output: "stdout"}, "test")

	s, err := New(Deps{
		Config: config.APIConfig{Host: "127.0.0.1", Port: 0},
		WS: config.WebSocketConfig{
			Path:           "/ws",
			MaxMessageSize: 8192,
			PingInterval:   30,
			PongTimeout:    10,
		},
		Logger:   logger,
		Registry: testRegistry(t),
		Version:  "test",
	})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	return s
}

func TestNewRequiresDependencies(t *testing.T) {
	if _, err := New(Deps{}); err == nil {
		t.Error("New() accepted empty dependencies")
	}
}

func TestHealthEndpoint(t *testing.T) {
	s := testServer(t)
	rec := httptest.NewRecorder()
	s.buildRouter().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var body map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decoding body: %v", err)
	}
	if body["status"] != "ok" || body["devices"] != float64(1) {
		t.Errorf("body = %v", body)
	}
}

func TestListDevices(t *testing.T) {
	s := testServer(t)
	rec := httptest.NewRecorder()
	s.buildRouter().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/devices", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var body struct {
		Devices []deviceSummary `json:"devices"`
		Count   int             `json:"count"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decoding body: %v", err)
	}
	if body.Count != 1 || len(body.Devices) != 1 {
		t.Fatalf("body = %+v", body)
	}
	d := body.Devices[0]
	if d.MAC != "AA:BB:CC:DD:EE:FF" || d.Name != "Boiler" || !d.Online || d.Points != 4 {
		t.Errorf("device = %+v", d)
	}
}

func TestGetDevice(t *testing.T) {
	s := testServer(t)
	router := s.buildRouter()

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/devices/AA:BB:CC:DD:EE:FF", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var body struct {
		Groups groupSummary `json:"groups"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decoding body: %v", err)
	}
	// CH_CUR_TEMP falls to the _TEMP sensor rule, DST_ENABLE is a switch.
	if body.Groups.Sensors != 1 || body.Groups.Switches != 1 {
		t.Errorf("groups = %+v", body.Groups)
	}

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/devices/no:such:mac", nil))
	if rec.Code != http.StatusNotFound {
		t.Errorf("unknown MAC status = %d, want 404", rec.Code)
	}
}

func TestDevicePoints(t *testing.T) {
	s := testServer(t)
	rec := httptest.NewRecorder()
	s.buildRouter().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/devices/AA:BB:CC:DD:EE:FF/points", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var body struct {
		Points []pointView `json:"points"`
		Count  int         `json:"count"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decoding body: %v", err)
	}
	if body.Count != 4 {
		t.Fatalf("count = %d, want 4", body.Count)
	}
	// Ordered by wire index.
	for i := 1; i < len(body.Points); i++ {
		if body.Points[i].Index < body.Points[i-1].Index {
			t.Errorf("points not ordered by index: %+v", body.Points)
		}
	}
	for _, p := range body.Points {
		if p.Name == "BOILER_CH_CUR_TEMP" && p.Value != float64(45.2) {
			t.Errorf("decoded value = %v, want 45.2", p.Value)
		}
	}
}

func TestWebSocketStreamsPointUpdates(t *testing.T) {
	s := testServer(t)
	s.hub = NewHub(s.wsCfg, s.logger)
	s.watchPoints()
	defer func() {
		for _, detach := range s.detach {
			detach()
		}
	}()

	server := httptest.NewServer(http.HandlerFunc(s.handleWebSocket))
	defer server.Close()

	url := "ws" + strings.TrimPrefix(server.URL, "http")
	conn, resp, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dialing websocket: %v", err)
	}
	if resp != nil {
		resp.Body.Close() //nolint:errcheck
	}
	defer conn.Close() //nolint:errcheck

	// Registration is synchronous in handleWebSocket, but give the
	// server a moment to finish the handshake goroutines.
	deadline := time.Now().Add(2 * time.Second)
	for s.hub.ClientCount() == 0 && time.Now().Before(deadline) {
		time.Sleep(10 * time.Millisecond)
	}

	dev, _ := s.registry.Get("AA:BB:CC:DD:EE:FF")
	p, _ := dev.Point("PARAM_ID_BOILER_CH_CUR_TEMP")
	p.UpdateRaw(float64(521))

	conn.SetReadDeadline(time.Now().Add(2 * time.Second)) //nolint:errcheck
	_, message, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("reading broadcast: %v", err)
	}

	var update pointUpdate
	if err := json.Unmarshal(message, &update); err != nil {
		t.Fatalf("decoding broadcast: %v", err)
	}
	if update.MAC != "AA:BB:CC:DD:EE:FF" || update.Point != "BOILER_CH_CUR_TEMP" {
		t.Errorf("update = %+v", update)
	}
	if update.Value != float64(52.1) {
		t.Errorf("value = %v, want decoded 52.1", update.Value)
	}
}

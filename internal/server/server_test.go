package server

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"keeper-client/internal/client"
	"keeper-client/internal/world"
	"keeper-client/pkg/logger"
	"keeper-client/pkg/protocol"
)

type idleTransport struct{ sent int }

func (t *idleTransport) Send([]byte) error           { t.sent++; return nil }
func (t *idleTransport) Poll() ([]byte, bool, error) { return nil, false, nil }
func (t *idleTransport) Close() error                { return nil }

type idleDialer struct{}

func (idleDialer) Dial(context.Context, string, int) (client.Transport, error) {
	return &idleTransport{}, nil
}

type levelStub struct{}

func (levelStub) Load(path string) (*world.Replica, error) {
	r := world.NewReplica(nil)
	r.LevelName = path
	if _, err := r.AddTile(protocol.TileData{X: 0, Y: 0, Type: protocol.TileDirt, Fullness: 100}); err != nil {
		return nil, err
	}
	err := r.AddEmptySeat(&world.Seat{Color: 1, Faction: protocol.FactionHuman})
	return r, err
}

func newSession(t *testing.T, connect bool) *client.Session {
	t.Helper()
	logger.Silence()
	s := client.NewSession(client.Options{Nick: "keeper", Dialer: idleDialer{}, Levels: levelStub{}})
	if connect {
		if err := s.Connect(context.Background(), "localhost", 1, "levels/test.yaml"); err != nil {
			t.Fatal(err)
		}
	}
	return s
}

func get(t *testing.T, h http.Handler, path string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	return rec
}

func TestHealthAndVersion(t *testing.T) {
	h := New(newSession(t, false), "").Router()

	rec := get(t, h, "/health")
	if rec.Code != http.StatusOK || rec.Body.String() != "ok" {
		t.Errorf("/health = %d %q", rec.Code, rec.Body.String())
	}
	if rec.Header().Get("Access-Control-Allow-Origin") != "*" {
		t.Error("CORS header missing")
	}

	rec = get(t, h, "/version")
	var info struct {
		Protocol string `json:"protocol"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&info); err != nil {
		t.Fatal(err)
	}
	if info.Protocol == "" {
		t.Error("version must report the protocol string")
	}
}

func TestReplicaBeforeConnect(t *testing.T) {
	h := New(newSession(t, false), "").Router()
	for _, path := range []string{"/debug/replica", "/debug/replica.msgpack"} {
		t.Run(path, func(t *testing.T) {
			if rec := get(t, h, path); rec.Code != http.StatusNotFound {
				t.Errorf("code = %d", rec.Code)
			}
		})
	}
}

func TestReplicaSummary(t *testing.T) {
	h := New(newSession(t, true), "").Router()

	rec := get(t, h, "/debug/replica")
	if rec.Code != http.StatusOK {
		t.Fatalf("code = %d", rec.Code)
	}
	var view replicaView
	if err := json.NewDecoder(rec.Body).Decode(&view); err != nil {
		t.Fatal(err)
	}
	if view.State != "handshaking" || view.Level != "levels/test.yaml" || view.Summary.Tiles != 1 {
		t.Errorf("view = %+v", view)
	}
}

func TestReplicaMsgpack(t *testing.T) {
	h := New(newSession(t, true), "").Router()

	rec := get(t, h, "/debug/replica.msgpack")
	if rec.Code != http.StatusOK {
		t.Fatalf("code = %d", rec.Code)
	}
	data, _ := io.ReadAll(rec.Body)
	snap, err := world.UnmarshalSnapshot(data)
	if err != nil {
		t.Fatal(err)
	}
	if len(snap.Tiles) != 1 || snap.Tiles[0].Type != protocol.TileDirt.String() {
		t.Errorf("snapshot tiles = %+v", snap.Tiles)
	}
}

func TestOutboundDepth(t *testing.T) {
	s := newSession(t, true)
	if err := s.AskPickUp("Kobold_1"); err != nil {
		t.Fatal(err)
	}
	h := New(s, "").Router()

	var out struct {
		Pending int `json:"pending"`
	}
	if err := json.NewDecoder(get(t, h, "/debug/outbound").Body).Decode(&out); err != nil {
		t.Fatal(err)
	}
	if out.Pending != 1 {
		t.Errorf("pending = %d", out.Pending)
	}
}

func TestRunStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	srv := New(newSession(t, false), "127.0.0.1:0")
	done := make(chan error, 1)
	go func() { done <- srv.Run(ctx) }()
	cancel()
	if err := <-done; err != nil {
		t.Fatalf("Run: %v", err)
	}
}

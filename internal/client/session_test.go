package client

import (
	"context"
	"errors"
	"testing"

	"keeper-client/internal/version"
	"keeper-client/internal/world"
	"keeper-client/pkg/protocol"
)

type sessionFixture struct {
	transport *fakeTransport
	dialer    *fakeDialer
	chat      *fakeChat
	renderer  *countingRenderer
	recorder  *fakeRecorder
	s         *Session
}

func newSessionFixture(seats ...*world.Seat) *sessionFixture {
	if len(seats) == 0 {
		seats = []*world.Seat{{Color: 1, Faction: protocol.FactionHuman, FactionTag: protocol.FactionTagHuman}}
	}
	f := &sessionFixture{
		transport: &fakeTransport{},
		chat:      &fakeChat{},
		renderer:  newCountingRenderer(),
		recorder:  &fakeRecorder{},
	}
	f.dialer = &fakeDialer{transport: f.transport}
	f.s = NewSession(Options{
		Nick:     "keeper",
		Dialer:   f.dialer,
		Levels:   &fakeLevels{seats: seats},
		Renderer: f.renderer,
		Chat:     f.chat,
		Recorder: f.recorder,
	})
	return f
}

func (f *sessionFixture) connect(t *testing.T) {
	t.Helper()
	if err := f.s.Connect(context.Background(), "localhost", 32222, "levels/test.yaml"); err != nil {
		t.Fatalf("Connect: %v", err)
	}
}

func (f *sessionFixture) tick(t *testing.T) int {
	t.Helper()
	turns, err := f.s.Tick()
	if err != nil {
		t.Fatalf("Tick: %v", err)
	}
	return turns
}

func TestConnectSendsHello(t *testing.T) {
	f := newSessionFixture()
	f.connect(t)

	if f.s.State() != StateHandshaking {
		t.Errorf("state = %s, want handshaking", f.s.State())
	}
	sent := f.transport.sentMessages(t)
	if len(sent) != 1 {
		t.Fatalf("sent %d messages, want 1", len(sent))
	}
	hello, ok := sent[0].(*protocol.Hello)
	if !ok {
		t.Fatalf("first message is %s", sent[0].Kind())
	}
	if hello.Version != version.ProtocolString() || hello.Level != "levels/test.yaml" {
		t.Errorf("hello = %+v", hello)
	}
}

func TestConnectRequiresHumanSeat(t *testing.T) {
	f := newSessionFixture(&world.Seat{Color: 2, Faction: protocol.FactionAI})

	err := f.s.Connect(context.Background(), "localhost", 32222, "ai-only")
	if !errors.Is(err, ErrNoHumanSeat) {
		t.Fatalf("expected ErrNoHumanSeat, got %v", err)
	}
	if f.dialer.calls != 0 {
		t.Error("transport must not be opened")
	}
	if f.s.State() != StateDisconnected {
		t.Errorf("state = %s", f.s.State())
	}
}

func TestConnectTwice(t *testing.T) {
	f := newSessionFixture()
	f.connect(t)

	err := f.s.Connect(context.Background(), "localhost", 32222, "levels/test.yaml")
	if !errors.Is(err, ErrAlreadyConnected) {
		t.Fatalf("expected ErrAlreadyConnected, got %v", err)
	}
	if f.dialer.calls != 1 {
		t.Errorf("dialed %d times", f.dialer.calls)
	}
}

func TestConnectDialFailure(t *testing.T) {
	f := newSessionFixture()
	f.dialer.err = errBrokenPipe

	err := f.s.Connect(context.Background(), "localhost", 1, "levels/test.yaml")
	if !errors.Is(err, ErrTransport) || !errors.Is(err, errBrokenPipe) {
		t.Fatalf("expected wrapped transport error, got %v", err)
	}
	if f.s.State() != StateDisconnected {
		t.Errorf("state = %s", f.s.State())
	}
}

// Сценарий: один человек, ноль AI; рукопожатие, затем addTile и tileFullnessChange.
func TestHandshakeAndTileScenario(t *testing.T) {
	f := newSessionFixture()
	f.connect(t)

	f.transport.push(&protocol.PickNick{}, &protocol.YourSeat{Color: 1})
	f.tick(t)

	if f.s.State() != StateSynchronized {
		t.Fatalf("state = %s, want synchronized", f.s.State())
	}
	sent := f.transport.sentMessages(t)
	if nick, ok := sent[len(sent)-1].(*protocol.SetNick); !ok || nick.Nick != "keeper" {
		t.Errorf("last sent = %#v", sent[len(sent)-1])
	}

	f.transport.push(
		&protocol.AddTile{Tile: protocol.TileData{X: 0, Y: 0, Type: protocol.TileDirt, Fullness: 1}},
		&protocol.AddTile{Tile: protocol.TileData{X: 1, Y: 0, Type: protocol.TileDirt, Fullness: 1}},
		&protocol.AddTile{Tile: protocol.TileData{X: -1, Y: 0, Type: protocol.TileDirt, Fullness: 1}},
		&protocol.AddTile{Tile: protocol.TileData{X: 0, Y: 1, Type: protocol.TileDirt, Fullness: 1}},
		&protocol.AddTile{Tile: protocol.TileData{X: 0, Y: -1, Type: protocol.TileDirt, Fullness: 1}},
	)
	f.tick(t)

	f.s.View(func(r *world.Replica) {
		if got := r.Tile(0, 0).Fullness; got != 1 {
			t.Errorf("fullness = %v, want 1", got)
		}
	})

	f.renderer.refreshed = make(map[world.TileKey]int)
	f.transport.push(&protocol.TileFullnessChange{Tile: protocol.TileData{X: 0, Y: 0, Fullness: 0}})
	f.tick(t)

	f.s.View(func(r *world.Replica) {
		if got := r.Tile(0, 0).Fullness; got != 0 {
			t.Errorf("fullness = %v, want 0", got)
		}
	})
	for _, key := range []world.TileKey{{X: 1, Y: 0}, {X: -1, Y: 0}, {X: 0, Y: 1}, {X: 0, Y: -1}} {
		if n := f.renderer.refreshed[key]; n != 1 {
			t.Errorf("neighbor %s refreshed %d times, want 1", key, n)
		}
	}
}

func TestTickAcksTurnsAndRefreshesChatOnce(t *testing.T) {
	f := newSessionFixture()
	f.connect(t)
	f.transport.sent = nil

	f.transport.push(&protocol.TurnStarted{Turn: 1}, &protocol.TurnStarted{Turn: 2})
	if turns := f.tick(t); turns != 2 {
		t.Errorf("turns = %d, want 2", turns)
	}

	sent := f.transport.sentMessages(t)
	if len(sent) != 2 {
		t.Fatalf("sent %d acks, want 2", len(sent))
	}
	for i, m := range sent {
		if ack, ok := m.(*protocol.AckNewTurn); !ok || ack.Turn != int64(i+1) {
			t.Errorf("ack %d = %#v", i, m)
		}
	}
	if f.chat.refreshes != 1 {
		t.Errorf("chat refreshed %d times, want 1", f.chat.refreshes)
	}

	f.tick(t)
	if f.chat.refreshes != 1 {
		t.Error("a tick without turns must not refresh chat")
	}
}

func TestTickDrainsIntentsAfterInbound(t *testing.T) {
	f := newSessionFixture()
	f.connect(t)
	f.transport.sent = nil

	if err := f.s.AskPickUp("Kobold_1"); err != nil {
		t.Fatal(err)
	}
	if err := f.s.AskBuildRoom(protocol.Rect{X1: 1, Y1: 1, X2: 2, Y2: 2}, protocol.RoomTreasury); err != nil {
		t.Fatal(err)
	}
	f.transport.push(&protocol.TurnStarted{Turn: 5})
	f.tick(t)

	sent := f.transport.sentMessages(t)
	want := []protocol.ClientKind{protocol.ClientAckNewTurn, protocol.ClientAskCreaturePickUp, protocol.ClientAskBuildRoom}
	if len(sent) != len(want) {
		t.Fatalf("sent %d messages, want %d", len(sent), len(want))
	}
	for i, k := range want {
		if sent[i].Kind() != k {
			t.Errorf("message %d = %s, want %s", i, sent[i].Kind(), k)
		}
	}
	if f.s.Outbound().Len() != 0 {
		t.Error("queue should be drained")
	}
}

func TestReceiveErrorDisconnects(t *testing.T) {
	f := newSessionFixture()
	f.connect(t)
	_ = f.s.AskPickUp("Kobold_1")

	f.transport.push(&protocol.Chat{Nick: "srv", Text: "bye"})
	f.transport.pollErr = errBrokenPipe

	_, err := f.s.Tick()
	if !errors.Is(err, ErrTransport) {
		t.Fatalf("expected ErrTransport, got %v", err)
	}
	if f.s.State() != StateDisconnected || !f.transport.closed {
		t.Error("session should be closed")
	}
	if f.s.Outbound().Len() != 0 {
		t.Error("queued intents must be discarded")
	}
	last := f.chat.lines[len(f.chat.lines)-1]
	if last != (chatLine{"SERVER_INFORMATION: ", "Disconnected from server."}) {
		t.Errorf("last chat line = %+v", last)
	}
	if f.chat.lines[0].text != "bye" {
		t.Error("buffered messages before the error must still be applied")
	}

	if _, err := f.s.Tick(); !errors.Is(err, ErrNotConnected) {
		t.Errorf("tick after drop: %v", err)
	}
}

func TestDisconnectDiscardsIntentsAndKeepsReplica(t *testing.T) {
	f := newSessionFixture()
	f.connect(t)
	f.transport.push(&protocol.AddTile{Tile: protocol.TileData{X: 3, Y: 3}})
	f.tick(t)
	sentBefore := len(f.transport.sent)

	_ = f.s.AskDrop(3, 3)
	_ = f.s.AskMarkTiles(protocol.Rect{X2: 3, Y2: 3}, true)
	if err := f.s.Disconnect(); err != nil {
		t.Fatal(err)
	}

	if f.s.Outbound().Len() != 0 || len(f.transport.sent) != sentBefore {
		t.Error("queued intents must never be transmitted")
	}
	f.s.View(func(r *world.Replica) {
		if r == nil || r.Tile(3, 3) == nil {
			t.Error("replica should be kept for inspection")
		}
	})

	if err := f.s.AskPickUp("x"); !errors.Is(err, ErrNotConnected) {
		t.Errorf("ask while disconnected: %v", err)
	}
	if err := f.s.NotifyExit(); !errors.Is(err, ErrNotConnected) {
		t.Errorf("second disconnect: %v", err)
	}
}

func TestReconnectLoadsFreshReplica(t *testing.T) {
	f := newSessionFixture()
	f.connect(t)
	f.transport.push(&protocol.AddTile{Tile: protocol.TileData{X: 3, Y: 3}})
	f.tick(t)
	_ = f.s.Disconnect()

	f.connect(t)
	f.s.View(func(r *world.Replica) {
		if r.NumTiles() != 0 {
			t.Error("new session must start from the level, not the old replica")
		}
	})
}

func TestRecorderSeesEveryFrame(t *testing.T) {
	f := newSessionFixture()
	f.connect(t)
	f.transport.push(&protocol.TurnStarted{Turn: 9}, &protocol.Chat{Nick: "a", Text: "b"})
	f.tick(t)

	if len(f.recorder.frames) != 2 {
		t.Fatalf("recorded %d frames, want 2", len(f.recorder.frames))
	}
	if f.recorder.frames[0].turn != world.NoTurn || f.recorder.frames[1].turn != 9 {
		t.Errorf("recorded turns %d, %d", f.recorder.frames[0].turn, f.recorder.frames[1].turn)
	}
}

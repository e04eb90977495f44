package client

import (
	"context"
	"testing"

	"keeper-client/internal/level"
	"keeper-client/internal/world"
	"keeper-client/pkg/protocol"
)

const shippedLevel = "../../levels/test.yaml"

// newLevelSession - сессия поверх настоящего загрузчика и уровня из репозитория.
func newLevelSession(t *testing.T) *sessionFixture {
	t.Helper()
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
		Levels:   level.Loader{},
		Renderer: f.renderer,
		Chat:     f.chat,
	})
	if err := f.s.Connect(context.Background(), "localhost", 32222, shippedLevel); err != nil {
		t.Fatalf("Connect: %v", err)
	}
	return f
}

func TestServerTilesOverrideLevelTiles(t *testing.T) {
	f := newLevelSession(t)

	f.transport.push(
		&protocol.PickNick{},
		&protocol.YourSeat{Color: 1},
		&protocol.AddTile{Tile: protocol.TileData{X: 0, Y: 0, Type: protocol.TileDirt, Fullness: 1}},
	)
	f.tick(t)

	if f.s.State() != StateSynchronized {
		t.Fatalf("state = %s, want synchronized", f.s.State())
	}
	f.s.View(func(r *world.Replica) {
		tile := r.Tile(0, 0)
		if tile.Fullness != 1 || tile.Type != protocol.TileDirt {
			t.Errorf("tile 0,0 = %+v, want the server's dirt with fullness 1", tile)
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
	for _, key := range []world.TileKey{{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 0, Y: 1}} {
		if n := f.renderer.refreshed[key]; n != 1 {
			t.Errorf("tile %s refreshed %d times, want 1", key, n)
		}
	}
}

func TestHandshakeAfterNewMap(t *testing.T) {
	f := newLevelSession(t)

	f.transport.push(
		&protocol.PickNick{},
		&protocol.YourSeat{Color: 1},
		&protocol.NewMap{},
		&protocol.YourSeat{Color: 1},
		&protocol.AddPlayer{Nick: "KeeperAI", SeatColor: 2},
	)
	f.tick(t)

	if f.s.State() != StateSynchronized {
		t.Errorf("state = %s, want synchronized", f.s.State())
	}
	f.s.View(func(r *world.Replica) {
		if r.NumPlayers() != 2 {
			t.Errorf("players = %d, want 2", r.NumPlayers())
		}
		if seat := r.LocalPlayer().Seat; seat == nil || seat.Color != 1 {
			t.Errorf("local seat = %+v", seat)
		}
		if r.NumTiles() != 0 {
			t.Errorf("newMap should drop tiles, got %d", r.NumTiles())
		}
	})
}

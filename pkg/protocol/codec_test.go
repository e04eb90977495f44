package protocol

import (
	"errors"
	"math"
	"reflect"
	"testing"

	"keeper-client/pkg/wire"
)

func TestTileDataRoundTrip(t *testing.T) {
	tiles := []TileData{
		{X: 0, Y: 0, Type: TileDirt, Fullness: 1.0, Color: 0},
		{X: -5, Y: 17, Type: TileClaimed, Fullness: 0, Color: 3},
		{X: math.MaxInt32, Y: math.MinInt32, Type: TileWater, Fullness: 0.25, Color: -1},
		{X: 12, Y: 9, Type: TileGold, Fullness: math.SmallestNonzeroFloat64, Color: 7},
	}

	for _, tile := range tiles {
		w := wire.NewWriter()
		tile.encode(w)

		var got TileData
		r := wire.NewReader(w.Bytes())
		got.decode(r)
		if err := r.Finish(); err != nil {
			t.Fatalf("decode %+v: %v", tile, err)
		}
		if got != tile {
			t.Errorf("round trip = %+v, want %+v", got, tile)
		}
	}
}

func TestEveryServerKindHasMessage(t *testing.T) {
	for _, kind := range ServerKinds() {
		msg, err := NewServerMessage(kind)
		if err != nil {
			t.Fatalf("NewServerMessage(%s): %v", kind, err)
		}
		if msg.Kind() != kind {
			t.Errorf("NewServerMessage(%s).Kind() = %s", kind, msg.Kind())
		}

		decoded, err := DecodeServer(EncodeServer(msg))
		if err != nil {
			t.Fatalf("zero %s does not decode: %v", kind, err)
		}
		if decoded.Kind() != kind {
			t.Errorf("decoded kind = %s, want %s", decoded.Kind(), kind)
		}
	}
}

func TestEveryClientKindHasMessage(t *testing.T) {
	for _, kind := range ClientKinds() {
		msg, err := NewClientMessage(kind)
		if err != nil {
			t.Fatalf("NewClientMessage(%s): %v", kind, err)
		}
		if _, err := DecodeClient(EncodeClient(msg)); err != nil {
			t.Fatalf("zero %s does not decode: %v", kind, err)
		}
	}
}

func TestDecodeServerMessages(t *testing.T) {
	tests := []struct {
		name string
		msg  ServerMessage
	}{
		{
			name: "build room with tiles",
			msg: &BuildRoom{Type: RoomTreasury, Color: 3, Tiles: []TileData{
				TileRef(1, 1), TileRef(1, 2),
			}},
		},
		{
			name: "animation state with walk direction",
			msg: &SetObjectAnimationState{
				Name: "Kobold_1", AnimState: "Walk", Loop: true,
				SetWalkDirection: true, WalkDirection: Vector3{X: 1, Y: -1},
			},
		},
		{
			name: "animation state without walk direction",
			msg:  &SetObjectAnimationState{Name: "Kobold_1", AnimState: "Idle"},
		},
		{
			name: "creature",
			msg: &AddCreature{Creature: CreatureData{
				ClassName: "Kobold", Name: "Kobold_7", Position: Vector3{X: 4, Y: 5},
				Color: 2, Level: 3, HP: 12.5, Mana: 4,
				WeaponL: WeaponData{Name: "none"}, WeaponR: WeaponData{Name: "Sword", Damage: 3, Range: 1},
			}},
		},
		{
			name: "treasury indicator",
			msg: &CreateTreasuryIndicator{TreasuryIndicator{
				Color: 1, RoomName: "Treasury_1", Tile: TileRef(2, 2), MeshName: "GoldstackLv1",
			}},
		},
		{
			name: "tile claimed",
			msg:  &TileClaimedMsg{Tile: TileData{X: 3, Y: 4, Type: TileClaimed, Color: 2}},
		},
		{
			name: "turn started",
			msg:  &TurnStarted{Turn: 1 << 33},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := DecodeServer(EncodeServer(tt.msg))
			if err != nil {
				t.Fatalf("DecodeServer: %v", err)
			}
			if !reflect.DeepEqual(got, tt.msg) {
				t.Errorf("decoded %#v, want %#v", got, tt.msg)
			}
		})
	}
}

func TestDecodeServerRejects(t *testing.T) {
	full := EncodeServer(&AddPlayer{Nick: "keeper", SeatColor: 2})

	badEnum := wire.NewWriter()
	badEnum.Int32(int32(ServerBuildRoom))
	badEnum.Int32(99)
	badEnum.Int32(1)
	badEnum.Int32(0)

	unknown := wire.NewWriter()
	unknown.Int32(int32(serverKindCount))

	tests := []struct {
		name        string
		body        []byte
		unknownKind bool
	}{
		{name: "empty body", body: nil},
		{name: "truncated payload", body: full[:len(full)-2]},
		{name: "trailing bytes", body: append(append([]byte{}, full...), 0)},
		{name: "room type out of range", body: badEnum.Bytes()},
		{name: "unknown kind", body: unknown.Bytes(), unknownKind: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg, err := DecodeServer(tt.body)
			if err == nil {
				t.Fatalf("expected error, got %#v", msg)
			}
			if !errors.Is(err, wire.ErrMalformed) {
				t.Errorf("error %v should wrap wire.ErrMalformed", err)
			}
			if IsUnknownKind(err) != tt.unknownKind {
				t.Errorf("IsUnknownKind(%v) = %v, want %v", err, !tt.unknownKind, tt.unknownKind)
			}
		})
	}
}

func TestClientIntentKinds(t *testing.T) {
	intents := map[ClientKind]bool{
		ClientAskCreaturePickUp: true,
		ClientAskCreatureDrop:   true,
		ClientAskMarkTile:       true,
		ClientAskBuildRoom:      true,
		ClientAskBuildTrap:      true,
	}
	for _, kind := range ClientKinds() {
		if kind.IsIntent() != intents[kind] {
			t.Errorf("%s.IsIntent() = %v", kind, kind.IsIntent())
		}
	}
}

func TestParseFaction(t *testing.T) {
	if ParseFaction("Player") != FactionHuman {
		t.Error("Player should be human")
	}
	if ParseFaction("KeeperAI") != FactionAI {
		t.Error("KeeperAI should be AI")
	}
	if ParseFaction("") != FactionNone {
		t.Error("empty tag should be none")
	}
}

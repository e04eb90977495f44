package world

import (
	"sort"

	"github.com/vmihailenco/msgpack/v5"
)

// Summary - счётчики коллекций реплики (для логов и /debug/replica).
type Summary struct {
	Turn       int64 `json:"turn"`
	Tiles      int   `json:"tiles"`
	Classes    int   `json:"classes"`
	Creatures  int   `json:"creatures"`
	EmptySeats int   `json:"emptySeats"`
	Players    int   `json:"players"`
	Rooms      int   `json:"rooms"`
	Traps      int   `json:"traps"`
	Missiles   int   `json:"missiles"`
	MapLights  int   `json:"mapLights"`
}

func (r *Replica) Summary() Summary {
	return Summary{
		Turn:       r.turn,
		Tiles:      len(r.tiles),
		Classes:    len(r.classes),
		Creatures:  len(r.creatures),
		EmptySeats: len(r.emptySeats),
		Players:    len(r.players),
		Rooms:      len(r.rooms),
		Traps:      len(r.traps),
		Missiles:   len(r.missiles),
		MapLights:  len(r.lights),
	}
}

// --- Снимок для отладки ---
// Плоские структуры без указателей: msgpack не должен ходить по циклам Room <-> Tile.

type TileView struct {
	X        int     `msgpack:"x"`
	Y        int     `msgpack:"y"`
	Type     string  `msgpack:"type"`
	Fullness float64 `msgpack:"fullness"`
	Color    int     `msgpack:"color"`
	Room     string  `msgpack:"room,omitempty"`
	Trap     string  `msgpack:"trap,omitempty"`
}

type CreatureView struct {
	Name   string  `msgpack:"name"`
	Class  string  `msgpack:"class"`
	X      float64 `msgpack:"x"`
	Y      float64 `msgpack:"y"`
	Color  int     `msgpack:"color"`
	Level  int     `msgpack:"level"`
	HP     float64 `msgpack:"hp"`
	Mana   float64 `msgpack:"mana"`
	HeldBy string  `msgpack:"heldBy,omitempty"`
}

type PlayerView struct {
	Nick  string `msgpack:"nick"`
	Color int    `msgpack:"color"`
	Local bool   `msgpack:"local"`
	Held  string `msgpack:"held,omitempty"`
	Gold  int    `msgpack:"gold"`
}

type RoomView struct {
	Name    string `msgpack:"name"`
	Type    string `msgpack:"type"`
	Color   int    `msgpack:"color"`
	Tiles   int    `msgpack:"tiles"`
	Objects int    `msgpack:"objects"`
}

type Snapshot struct {
	Level     string         `msgpack:"level"`
	Summary   Summary        `msgpack:"summary"`
	Tiles     []TileView     `msgpack:"tiles"`
	Creatures []CreatureView `msgpack:"creatures"`
	Players   []PlayerView   `msgpack:"players"`
	Rooms     []RoomView     `msgpack:"rooms"`
}

// Snapshot строит детерминированный (отсортированный) снимок реплики.
func (r *Replica) Snapshot() Snapshot {
	s := Snapshot{Level: r.LevelName, Summary: r.Summary()}

	for _, t := range r.tiles {
		v := TileView{X: t.X, Y: t.Y, Type: t.Type.String(), Fullness: t.Fullness, Color: t.Color}
		if t.Room != nil {
			v.Room = t.Room.Name
		}
		if t.Trap != nil {
			v.Trap = t.Trap.Name
		}
		s.Tiles = append(s.Tiles, v)
	}
	sort.Slice(s.Tiles, func(i, j int) bool {
		if s.Tiles[i].Y != s.Tiles[j].Y {
			return s.Tiles[i].Y < s.Tiles[j].Y
		}
		return s.Tiles[i].X < s.Tiles[j].X
	})

	for _, c := range r.creatures {
		v := CreatureView{
			Name: c.Name, Class: c.Class.Name(), X: c.Position.X, Y: c.Position.Y,
			Color: c.Color, Level: c.Level, HP: c.HP, Mana: c.Mana,
		}
		if c.HeldBy != nil {
			v.HeldBy = c.HeldBy.Nick
		}
		s.Creatures = append(s.Creatures, v)
	}
	sort.Slice(s.Creatures, func(i, j int) bool { return s.Creatures[i].Name < s.Creatures[j].Name })

	for color, p := range r.players {
		v := PlayerView{Nick: p.Nick, Color: color, Local: p.Local}
		if p.Held != nil {
			v.Held = p.Held.Name
		}
		if p.Seat != nil {
			v.Gold = p.Seat.Gold
		}
		s.Players = append(s.Players, v)
	}
	sort.Slice(s.Players, func(i, j int) bool { return s.Players[i].Color < s.Players[j].Color })

	for _, room := range r.rooms {
		s.Rooms = append(s.Rooms, RoomView{
			Name: room.Name, Type: room.Type.String(), Color: room.Color,
			Tiles: room.NumTiles(), Objects: room.NumObjects(),
		})
	}
	sort.Slice(s.Rooms, func(i, j int) bool { return s.Rooms[i].Name < s.Rooms[j].Name })

	return s
}

// MarshalSnapshot кодирует снимок в msgpack.
func (r *Replica) MarshalSnapshot() ([]byte, error) {
	return msgpack.Marshal(r.Snapshot())
}

// UnmarshalSnapshot - обратная операция (инструменты отладки, тесты).
func UnmarshalSnapshot(data []byte) (Snapshot, error) {
	var s Snapshot
	err := msgpack.Unmarshal(data, &s)
	return s, err
}

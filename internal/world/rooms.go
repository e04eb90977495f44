package world

import (
	"fmt"

	"keeper-client/pkg/protocol"
)

// checkBuildable: тайлы должны существовать и быть свободны от комнат и ловушек.
func checkBuildable(tiles []*Tile) error {
	if len(tiles) == 0 {
		return invalidState("no tiles to build on")
	}
	seen := make(map[TileKey]bool, len(tiles))
	for _, t := range tiles {
		if t == nil {
			return unresolved("nil tile in build list")
		}
		if t.IsCovered() {
			return invalidState("tile %s already covered", t.Key())
		}
		if seen[t.Key()] {
			return duplicate("tile %s listed twice", t.Key())
		}
		seen[t.Key()] = true
	}
	return nil
}

// BuildRoom создаёт комнату на тайлах. Имя - "<Тип>_<n>", n растёт на каждую постройку.
func (r *Replica) BuildRoom(typ protocol.RoomType, color int, tiles []*Tile) (*Room, error) {
	if err := checkBuildable(tiles); err != nil {
		return nil, err
	}

	r.roomSeq++
	room := &Room{
		Name:       fmt.Sprintf("%s_%d", typ, r.roomSeq),
		Type:       typ,
		Color:      color,
		objects:    make(map[TileKey]*RoomObject),
		indicators: make(map[TileKey]string),
	}
	for _, t := range tiles {
		t.Room = room
		room.tiles = append(room.tiles, t)
		r.renderer.RefreshTile(t)
	}
	r.rooms[room.Name] = room
	r.renderer.CreateVisual(room)
	return room, nil
}

func (r *Replica) Room(name string) *Room { return r.rooms[name] }

func (r *Replica) ResolveRoom(name string) (*Room, error) {
	room := r.rooms[name]
	if room == nil {
		return nil, unresolved("room %q", name)
	}
	return room, nil
}

func (r *Replica) NumRooms() int { return len(r.rooms) }

// RemoveRoomTile снимает покрытие. Комната без тайлов остаётся адресуемой.
func (r *Replica) RemoveRoomTile(room *Room, t *Tile) error {
	if !room.Covers(t) {
		return invalidState("tile %s is not covered by room %q", t.Key(), room.Name)
	}

	for i, covered := range room.tiles {
		if covered == t {
			room.tiles = append(room.tiles[:i], room.tiles[i+1:]...)
			break
		}
	}
	if obj, ok := room.objects[t.Key()]; ok {
		delete(room.objects, t.Key())
		r.renderer.DestroyVisual(obj)
	}
	if mesh, ok := room.indicators[t.Key()]; ok {
		delete(room.indicators, t.Key())
		r.renderer.DestroyVisual(indicatorVisual{room: room, tile: t, mesh: mesh})
	}
	t.Room = nil
	r.renderer.RefreshTile(t)
	return nil
}

// BuildTrap - то же, что BuildRoom, для ловушек.
func (r *Replica) BuildTrap(typ protocol.TrapType, color int, tiles []*Tile) (*Trap, error) {
	if err := checkBuildable(tiles); err != nil {
		return nil, err
	}

	r.trapSeq++
	trap := &Trap{
		Name:  fmt.Sprintf("%s_%d", typ, r.trapSeq),
		Type:  typ,
		Color: color,
	}
	for _, t := range tiles {
		t.Trap = trap
		trap.tiles = append(trap.tiles, t)
		r.renderer.RefreshTile(t)
	}
	r.traps[trap.Name] = trap
	r.renderer.CreateVisual(trap)
	return trap, nil
}

func (r *Replica) Trap(name string) *Trap { return r.traps[name] }

func (r *Replica) NumTraps() int { return len(r.traps) }

// --- Индикаторы сокровищницы ---

func checkTreasury(room *Room, color int, t *Tile) error {
	if room.Type != protocol.RoomTreasury {
		return invalidState("room %q is %s, not a treasury", room.Name, room.Type)
	}
	if room.Color != color {
		return invalidState("treasury %q has color %d, message says %d", room.Name, room.Color, color)
	}
	if !room.Covers(t) {
		return invalidState("tile %s is not covered by room %q", t.Key(), room.Name)
	}
	return nil
}

func (r *Replica) CreateTreasuryIndicator(room *Room, color int, t *Tile, mesh string) error {
	if err := checkTreasury(room, color, t); err != nil {
		return err
	}
	if old, ok := room.indicators[t.Key()]; ok {
		r.renderer.DestroyVisual(indicatorVisual{room: room, tile: t, mesh: old})
	}
	room.indicators[t.Key()] = mesh
	r.renderer.CreateVisual(indicatorVisual{room: room, tile: t, mesh: mesh})
	return nil
}

func (r *Replica) DestroyTreasuryIndicator(room *Room, color int, t *Tile, mesh string) error {
	if err := checkTreasury(room, color, t); err != nil {
		return err
	}
	current, ok := room.indicators[t.Key()]
	if !ok || current != mesh {
		return unresolved("indicator %q on tile %s of %q", mesh, t.Key(), room.Name)
	}
	delete(room.indicators, t.Key())
	r.renderer.DestroyVisual(indicatorVisual{room: room, tile: t, mesh: mesh})
	return nil
}

// --- Объекты комнат ---

func (r *Replica) AddRoomObject(room *Room, t *Tile, d protocol.RoomObjectData) (*RoomObject, error) {
	if !room.Covers(t) {
		return nil, invalidState("tile %s is not covered by room %q", t.Key(), room.Name)
	}
	if existing, ok := room.objects[t.Key()]; ok {
		return nil, duplicate("room object %q already on tile %s", existing.Name, t.Key())
	}
	obj := &RoomObject{Name: d.Name, MeshName: d.MeshName, Room: room, Tile: t}
	room.objects[t.Key()] = obj
	r.renderer.CreateVisual(obj)
	return obj, nil
}

func (r *Replica) RemoveRoomObject(room *Room, t *Tile) error {
	obj, ok := room.objects[t.Key()]
	if !ok {
		return unresolved("room object on tile %s of %q", t.Key(), room.Name)
	}
	delete(room.objects, t.Key())
	r.renderer.DestroyVisual(obj)
	return nil
}

// RemoveAllRoomObjects возвращает число удалённых объектов.
func (r *Replica) RemoveAllRoomObjects(room *Room) int {
	n := len(room.objects)
	for key, obj := range room.objects {
		delete(room.objects, key)
		r.renderer.DestroyVisual(obj)
	}
	return n
}

package world

import (
	"fmt"

	"keeper-client/pkg/protocol"
)

// TileKey - координаты тайла, ключ в реплике.
type TileKey struct {
	X int
	Y int
}

func (k TileKey) String() string { return fmt.Sprintf("%d,%d", k.X, k.Y) }

// Tile живёт всю сессию: создаётся addTile, дальше только меняет значения.
type Tile struct {
	X        int
	Y        int
	Type     protocol.TileType
	Fullness float64 // 0 - открытый, >0 - сплошной
	Color    int

	// Покрытие комнатой или ловушкой (не больше одного).
	Room *Room
	Trap *Trap

	markedBy map[int]bool // цвета игроков, пометивших тайл под копание
}

func (t *Tile) Key() TileKey { return TileKey{X: t.X, Y: t.Y} }

func (t *Tile) VisualName() string { return fmt.Sprintf("Tile_%d_%d", t.X, t.Y) }

func (t *Tile) IsSolid() bool { return t.Fullness > 0 }

func (t *Tile) IsCovered() bool { return t.Room != nil || t.Trap != nil }

// IsMarkedBy - помечен ли тайл под копание игроком данного цвета.
func (t *Tile) IsMarkedBy(color int) bool { return t.markedBy[color] }

// CreatureDefinition - класс существа. Добавляется один раз (addClass) и не меняется.
type CreatureDefinition struct {
	protocol.CreatureDefinitionData
}

func (d *CreatureDefinition) Name() string { return d.ClassName }

// Motion - общая часть "анимированных объектов" (существа и снаряды),
// к которым сервер обращается по имени.
type Motion struct {
	Destinations  []protocol.Vector3
	AnimState     string
	AnimLoop      bool
	WalkDirection protocol.Vector3
}

func (m *Motion) AddDestination(v protocol.Vector3) {
	m.Destinations = append(m.Destinations, v)
}

func (m *Motion) ClearDestinations() {
	m.Destinations = nil
}

type Weapon struct {
	Name    string
	Damage  float64
	Range   float64
	Defense float64
}

func weaponFrom(d protocol.WeaponData) Weapon {
	return Weapon{Name: d.Name, Damage: d.Damage, Range: d.Range, Defense: d.Defense}
}

type Creature struct {
	Name     string
	Class    *CreatureDefinition
	Position protocol.Vector3
	Color    int
	Level    int
	HP       float64
	Mana     float64
	WeaponL  Weapon
	WeaponR  Weapon

	Motion Motion

	// HeldBy != nil - существо в руке игрока, а не на карте.
	HeldBy *Player
}

func (c *Creature) VisualName() string { return "Creature_" + c.Name }

func (c *Creature) OnMap() bool { return c.HeldBy == nil }

// weaponVisual - визуальное представление оружия в левой или правой руке.
type weaponVisual struct {
	owner *Creature
	side  string
}

func (w weaponVisual) VisualName() string {
	return fmt.Sprintf("Weapon_%s_%s", w.side, w.owner.Name)
}

type Seat struct {
	Color           int
	Faction         protocol.Faction
	FactionTag      string
	Team            int
	StartingX       int
	StartingY       int
	Gold            int
	Mana            float64
	ManaDelta       float64
	NumClaimedTiles int

	Player *Player
}

// SeatFromData строит место из описания (уровень или refreshPlayerSeat).
func SeatFromData(d protocol.SeatData) *Seat {
	return &Seat{
		Color:           int(d.Color),
		Faction:         protocol.ParseFaction(d.Faction),
		FactionTag:      d.Faction,
		Team:            int(d.Team),
		StartingX:       int(d.StartingX),
		StartingY:       int(d.StartingY),
		Gold:            int(d.Gold),
		Mana:            d.Mana,
		ManaDelta:       d.ManaDelta,
		NumClaimedTiles: int(d.NumClaimedTiles),
	}
}

// RefreshFrom копирует изменяемые ресурсы. Цвет и фракция места не меняются.
func (s *Seat) RefreshFrom(d protocol.SeatData) {
	s.Gold = int(d.Gold)
	s.Mana = d.Mana
	s.ManaDelta = d.ManaDelta
	s.NumClaimedTiles = int(d.NumClaimedTiles)
}

type Player struct {
	Nick  string
	Seat  *Seat
	Held  *Creature
	Local bool
}

// Color - цвет места игрока, -1 если место ещё не назначено.
func (p *Player) Color() int {
	if p.Seat == nil {
		return -1
	}
	return p.Seat.Color
}

type Room struct {
	Name  string
	Type  protocol.RoomType
	Color int

	tiles      []*Tile
	objects    map[TileKey]*RoomObject
	indicators map[TileKey]string
}

func (r *Room) VisualName() string { return "Room_" + r.Name }

// Tiles возвращает покрытые тайлы в порядке добавления.
func (r *Room) Tiles() []*Tile { return r.tiles }

func (r *Room) NumTiles() int { return len(r.tiles) }

func (r *Room) Covers(t *Tile) bool { return t != nil && t.Room == r }

func (r *Room) Object(t *Tile) *RoomObject { return r.objects[t.Key()] }

func (r *Room) NumObjects() int { return len(r.objects) }

// Indicator возвращает меш индикатора сокровищницы на тайле.
func (r *Room) Indicator(t *Tile) (string, bool) {
	mesh, ok := r.indicators[t.Key()]
	return mesh, ok
}

type Trap struct {
	Name  string
	Type  protocol.TrapType
	Color int

	tiles []*Tile
}

func (t *Trap) VisualName() string { return "Trap_" + t.Name }

func (t *Trap) Tiles() []*Tile { return t.tiles }

type RoomObject struct {
	Name     string
	MeshName string
	Room     *Room
	Tile     *Tile
}

func (o *RoomObject) VisualName() string { return "RoomObject_" + o.Name }

type MissileObject struct {
	Name      string
	MeshName  string
	Position  protocol.Vector3
	Direction protocol.Vector3

	Motion Motion
}

func (m *MissileObject) VisualName() string { return "Missile_" + m.Name }

type MapLight struct {
	protocol.MapLightData
}

func (l *MapLight) VisualName() string { return "MapLight_" + l.Name }

// indicatorVisual - меш индикатора золота на тайле сокровищницы.
type indicatorVisual struct {
	room *Room
	tile *Tile
	mesh string
}

func (v indicatorVisual) VisualName() string {
	return fmt.Sprintf("%s_%s_%d_%d", v.mesh, v.room.Name, v.tile.X, v.tile.Y)
}

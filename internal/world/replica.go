// Package world - локальная копия (реплика) состояния мира, которое ведёт сервер.
// Все сущности адресуются по ключу: имя, цвет места или координаты тайла.
// Реплика не потокобезопасна: ею владеет одна клиентская сессия.
package world

import (
	"sort"

	"keeper-client/pkg/protocol"
)

// Visual - всё, что имеет визуальное представление на стороне рендера.
type Visual interface {
	VisualName() string
}

// Renderer - внешний коллаборатор (меши, сцена). Реплика только сообщает ему о событиях.
type Renderer interface {
	CreateVisual(v Visual)
	DestroyVisual(v Visual)
	// RefreshTile - пересчитать меш тайла (зависит от соседей).
	RefreshTile(t *Tile)
}

// NopRenderer ничего не рисует (headless-клиент, реплей).
type NopRenderer struct{}

func (NopRenderer) CreateVisual(Visual)  {}
func (NopRenderer) DestroyVisual(Visual) {}
func (NopRenderer) RefreshTile(*Tile)    {}

// NoTurn - номер хода до первого turnStarted.
const NoTurn int64 = -1

type Replica struct {
	LevelName string
	Width     int
	Height    int

	renderer Renderer

	tiles      map[TileKey]*Tile
	classes    map[string]*CreatureDefinition
	creatures  map[string]*Creature
	emptySeats map[int]*Seat
	seats      map[int]*Seat // занятые места
	players    map[int]*Player
	local      *Player
	rooms      map[string]*Room
	traps      map[string]*Trap
	missiles   map[string]*MissileObject
	lights     map[string]*MapLight

	roomSeq int
	trapSeq int

	turn           int64
	turnsPerSecond float64
}

func NewReplica(renderer Renderer) *Replica {
	if renderer == nil {
		renderer = NopRenderer{}
	}
	r := &Replica{renderer: renderer}
	r.reset()
	return r
}

func (r *Replica) reset() {
	r.tiles = make(map[TileKey]*Tile)
	r.classes = make(map[string]*CreatureDefinition)
	r.creatures = make(map[string]*Creature)
	r.emptySeats = make(map[int]*Seat)
	r.seats = make(map[int]*Seat)
	r.players = make(map[int]*Player)
	r.rooms = make(map[string]*Room)
	r.traps = make(map[string]*Trap)
	r.missiles = make(map[string]*MissileObject)
	r.lights = make(map[string]*MapLight)
	r.roomSeq = 0
	r.trapSeq = 0
	r.turn = NoTurn
}

// SetRenderer подменяет рендер (реплика создаётся загрузчиком уровня раньше сессии).
func (r *Replica) SetRenderer(renderer Renderer) {
	if renderer == nil {
		renderer = NopRenderer{}
	}
	r.renderer = renderer
}

// Clear - обработка newMap: удаляется всё, кроме локального игрока и таблицы мест.
// Места снова пустые, игроки от них отцеплены. Локальный игрок теряет место и существо в руке.
func (r *Replica) Clear() {
	for _, c := range r.creatures {
		r.renderer.DestroyVisual(weaponVisual{owner: c, side: "L"})
		r.renderer.DestroyVisual(weaponVisual{owner: c, side: "R"})
		r.renderer.DestroyVisual(c)
	}
	for _, m := range r.missiles {
		r.renderer.DestroyVisual(m)
	}
	for _, l := range r.lights {
		r.renderer.DestroyVisual(l)
	}
	for _, room := range r.rooms {
		for _, obj := range room.objects {
			r.renderer.DestroyVisual(obj)
		}
		for key, mesh := range room.indicators {
			t := r.tiles[key]
			if t == nil {
				t = &Tile{X: key.X, Y: key.Y}
			}
			r.renderer.DestroyVisual(indicatorVisual{room: room, tile: t, mesh: mesh})
		}
		r.renderer.DestroyVisual(room)
	}
	for _, trap := range r.traps {
		r.renderer.DestroyVisual(trap)
	}
	for _, t := range r.tiles {
		r.renderer.DestroyVisual(t)
	}

	seats := make([]*Seat, 0, len(r.emptySeats)+len(r.seats))
	for _, s := range r.emptySeats {
		seats = append(seats, s)
	}
	for _, s := range r.seats {
		seats = append(seats, s)
	}

	r.reset()
	for _, s := range seats {
		s.Player = nil
		r.emptySeats[s.Color] = s
	}
	if r.local != nil {
		r.local.Seat = nil
		r.local.Held = nil
	}
	r.turnsPerSecond = 0
}

// --- Ходы ---

func (r *Replica) Turn() int64 { return r.turn }

func (r *Replica) SetTurn(turn int64) { r.turn = turn }

func (r *Replica) TurnsPerSecond() float64 { return r.turnsPerSecond }

func (r *Replica) SetTurnsPerSecond(v float64) { r.turnsPerSecond = v }

// --- Тайлы ---

// AddTile регистрирует тайл и пересчитывает его и соседей.
func (r *Replica) AddTile(d protocol.TileData) (*Tile, error) {
	key := TileKey{X: int(d.X), Y: int(d.Y)}
	if _, ok := r.tiles[key]; ok {
		return nil, duplicate("tile %s", key)
	}

	t := &Tile{
		X:        key.X,
		Y:        key.Y,
		Type:     d.Type,
		Fullness: d.Fullness,
		Color:    int(d.Color),
	}
	r.tiles[key] = t
	r.renderer.CreateVisual(t)
	r.refreshAround(t)
	return t, nil
}

// PutTile - addTile от сервера: сервер главный, поэтому тайл, уже созданный
// из файла уровня, получает присланные тип, заполненность и цвет.
// Связи с комнатой и ловушкой сохраняются.
func (r *Replica) PutTile(d protocol.TileData) *Tile {
	t := r.Tile(int(d.X), int(d.Y))
	if t == nil {
		t, _ = r.AddTile(d)
		return t
	}
	t.Type = d.Type
	t.Fullness = d.Fullness
	t.Color = int(d.Color)
	r.refreshAround(t)
	return t
}

func (r *Replica) Tile(x, y int) *Tile {
	return r.tiles[TileKey{X: x, Y: y}]
}

// ResolveTile - тайл по сетевой ссылке или ErrUnresolved.
func (r *Replica) ResolveTile(d protocol.TileData) (*Tile, error) {
	t := r.Tile(int(d.X), int(d.Y))
	if t == nil {
		return nil, unresolved("tile %d,%d", d.X, d.Y)
	}
	return t, nil
}

func (r *Replica) NumTiles() int { return len(r.tiles) }

var neighborOffsets = [4]TileKey{{X: 0, Y: -1}, {X: 1, Y: 0}, {X: 0, Y: 1}, {X: -1, Y: 0}}

// Neighbors - существующие соседи по 4-связности.
func (r *Replica) Neighbors(t *Tile) []*Tile {
	out := make([]*Tile, 0, len(neighborOffsets))
	for _, off := range neighborOffsets {
		if n := r.Tile(t.X+off.X, t.Y+off.Y); n != nil {
			out = append(out, n)
		}
	}
	return out
}

func (r *Replica) refreshAround(t *Tile) {
	r.renderer.RefreshTile(t)
	for _, n := range r.Neighbors(t) {
		r.renderer.RefreshTile(n)
	}
}

// SetTileFullness меняет заполненность и пересчитывает тайл и каждого соседа ровно один раз.
func (r *Replica) SetTileFullness(x, y int, fullness float64) (*Tile, error) {
	t := r.Tile(x, y)
	if t == nil {
		return nil, unresolved("tile %d,%d", x, y)
	}
	t.Fullness = fullness
	r.refreshAround(t)
	return t, nil
}

// ClaimTile перекрашивает тайл в цвет игрока.
func (r *Replica) ClaimTile(x, y, color int) (*Tile, error) {
	t := r.Tile(x, y)
	if t == nil {
		return nil, unresolved("tile %d,%d", x, y)
	}
	t.Color = color
	t.Type = protocol.TileClaimed
	r.renderer.RefreshTile(t)
	return t, nil
}

// MarkTiles ставит или снимает пометку копания для игрока. Все тайлы должны существовать.
func (r *Replica) MarkTiles(tiles []*Tile, set bool, color int) {
	for _, t := range tiles {
		if set {
			if t.markedBy == nil {
				t.markedBy = make(map[int]bool)
			}
			t.markedBy[color] = true
		} else {
			delete(t.markedBy, color)
		}
		r.renderer.RefreshTile(t)
	}
}

// --- Места и игроки ---

// AddEmptySeat - место из описания уровня, ещё никем не занятое.
func (r *Replica) AddEmptySeat(s *Seat) error {
	if _, ok := r.emptySeats[s.Color]; ok {
		return duplicate("seat color %d", s.Color)
	}
	if _, ok := r.seats[s.Color]; ok {
		return duplicate("seat color %d", s.Color)
	}
	r.emptySeats[s.Color] = s
	return nil
}

// EmptySeats - свободные места по возрастанию цвета.
func (r *Replica) EmptySeats() []*Seat {
	out := make([]*Seat, 0, len(r.emptySeats))
	for _, s := range r.emptySeats {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Color < out[j].Color })
	return out
}

// CountFactions считает свободные места людей и AI.
func (r *Replica) CountFactions() (humans, ai int) {
	for _, s := range r.emptySeats {
		switch s.Faction {
		case protocol.FactionHuman:
			humans++
		case protocol.FactionAI:
			ai++
		}
	}
	return humans, ai
}

// PopEmptySeat переводит место из пустых в занятые. Переход происходит один раз.
func (r *Replica) PopEmptySeat(color int) (*Seat, error) {
	s, ok := r.emptySeats[color]
	if !ok {
		return nil, unresolved("empty seat color %d", color)
	}
	delete(r.emptySeats, color)
	r.seats[color] = s
	return s, nil
}

// HasEmptySeat - можно ли занять место этого цвета.
func (r *Replica) HasEmptySeat(color int) bool {
	_, ok := r.emptySeats[color]
	return ok
}

func (r *Replica) Seat(color int) *Seat { return r.seats[color] }

func (r *Replica) SetLocalPlayer(p *Player) {
	p.Local = true
	r.local = p
}

func (r *Replica) LocalPlayer() *Player { return r.local }

// AssignLocalSeat - yourSeat: локальный игрок занимает место.
func (r *Replica) AssignLocalSeat(color int) (*Seat, error) {
	if r.local == nil {
		return nil, unresolved("local player")
	}
	if r.local.Seat != nil {
		return nil, invalidState("local player already seated at color %d", r.local.Seat.Color)
	}
	s, err := r.PopEmptySeat(color)
	if err != nil {
		return nil, err
	}
	s.Player = r.local
	r.local.Seat = s
	r.players[color] = r.local
	return s, nil
}

// AddPlayer - addPlayer: удалённый игрок занимает свободное место.
func (r *Replica) AddPlayer(nick string, color int) (*Player, error) {
	if !r.HasEmptySeat(color) {
		return nil, unresolved("empty seat color %d for player %q", color, nick)
	}
	s, _ := r.PopEmptySeat(color)
	p := &Player{Nick: nick, Seat: s}
	s.Player = p
	r.players[color] = p
	return p, nil
}

// PlayerByColor ищет игрока (локального или удалённого) по цвету места.
func (r *Replica) PlayerByColor(color int) (*Player, error) {
	p, ok := r.players[color]
	if !ok {
		return nil, unresolved("player color %d", color)
	}
	return p, nil
}

func (r *Replica) NumPlayers() int { return len(r.players) }

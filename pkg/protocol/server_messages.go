package protocol

import "keeper-client/pkg/wire"

// ServerMessage - одно уведомление сервер -> клиент. Набор реализаций закрыт
// (неэкспортируемые методы), по одной структуре на дискриминант.
type ServerMessage interface {
	Kind() ServerKind
	encode(w *wire.Writer)
	decode(r *wire.Reader)
}

// NewServerMessage создаёт пустую структуру для дискриминанта.
func NewServerMessage(kind ServerKind) (ServerMessage, error) {
	switch kind {
	case ServerPickNick:
		return &PickNick{}, nil
	case ServerYourSeat:
		return &YourSeat{}, nil
	case ServerAddPlayer:
		return &AddPlayer{}, nil
	case ServerChat:
		return &Chat{}, nil
	case ServerNewMap:
		return &NewMap{}, nil
	case ServerTurnsPerSecond:
		return &TurnsPerSecond{}, nil
	case ServerAddTile:
		return &AddTile{}, nil
	case ServerAddMapLight:
		return &AddMapLight{}, nil
	case ServerRemoveMapLight:
		return &RemoveMapLight{}, nil
	case ServerAddClass:
		return &AddClass{}, nil
	case ServerAddCreature:
		return &AddCreature{}, nil
	case ServerRemoveCreature:
		return &RemoveCreature{}, nil
	case ServerTurnStarted:
		return &TurnStarted{}, nil
	case ServerAnimatedObjectAddDestination:
		return &AnimatedObjectAddDestination{}, nil
	case ServerAnimatedObjectClearDestinations:
		return &AnimatedObjectClearDestinations{}, nil
	case ServerPickupCreature:
		return &PickupCreature{}, nil
	case ServerDropCreature:
		return &DropCreature{}, nil
	case ServerCreaturePickedUp:
		return &CreaturePickedUp{}, nil
	case ServerCreatureDropped:
		return &CreatureDropped{}, nil
	case ServerSetObjectAnimationState:
		return &SetObjectAnimationState{}, nil
	case ServerTileFullnessChange:
		return &TileFullnessChange{}, nil
	case ServerTileClaimed:
		return &TileClaimedMsg{}, nil
	case ServerRefreshPlayerSeat:
		return &RefreshPlayerSeat{}, nil
	case ServerMarkTiles:
		return &MarkTiles{}, nil
	case ServerBuildRoom:
		return &BuildRoom{}, nil
	case ServerRemoveRoomTile:
		return &RemoveRoomTile{}, nil
	case ServerBuildTrap:
		return &BuildTrap{}, nil
	case ServerCreatureRefresh:
		return &CreatureRefresh{}, nil
	case ServerAddMissileObject:
		return &AddMissileObject{}, nil
	case ServerRemoveMissileObject:
		return &RemoveMissileObject{}, nil
	case ServerCreateTreasuryIndicator:
		return &CreateTreasuryIndicator{}, nil
	case ServerDestroyTreasuryIndicator:
		return &DestroyTreasuryIndicator{}, nil
	case ServerAddRoomObject:
		return &AddRoomObject{}, nil
	case ServerRemoveRoomObject:
		return &RemoveRoomObject{}, nil
	case ServerRemoveAllRoomObjectFromRoom:
		return &RemoveAllRoomObjectFromRoom{}, nil
	}
	return nil, ErrUnknownKind
}

// --- Handshake / сессия ---

type PickNick struct{}

func (*PickNick) Kind() ServerKind    { return ServerPickNick }
func (*PickNick) encode(*wire.Writer) {}
func (*PickNick) decode(*wire.Reader) {}

type YourSeat struct {
	Color int32
}

func (*YourSeat) Kind() ServerKind        { return ServerYourSeat }
func (m *YourSeat) encode(w *wire.Writer) { w.Int32(m.Color) }
func (m *YourSeat) decode(r *wire.Reader) { m.Color = r.Int32() }

type AddPlayer struct {
	Nick      string
	SeatColor int32
}

func (*AddPlayer) Kind() ServerKind { return ServerAddPlayer }
func (m *AddPlayer) encode(w *wire.Writer) {
	w.String(m.Nick)
	w.Int32(m.SeatColor)
}
func (m *AddPlayer) decode(r *wire.Reader) {
	m.Nick = r.String()
	m.SeatColor = r.Int32()
}

type Chat struct {
	Nick string
	Text string
}

func (*Chat) Kind() ServerKind { return ServerChat }
func (m *Chat) encode(w *wire.Writer) {
	w.String(m.Nick)
	w.String(m.Text)
}
func (m *Chat) decode(r *wire.Reader) {
	m.Nick = r.String()
	m.Text = r.String()
}

type NewMap struct{}

func (*NewMap) Kind() ServerKind    { return ServerNewMap }
func (*NewMap) encode(*wire.Writer) {}
func (*NewMap) decode(*wire.Reader) {}

type TurnsPerSecond struct {
	Value float64
}

func (*TurnsPerSecond) Kind() ServerKind        { return ServerTurnsPerSecond }
func (m *TurnsPerSecond) encode(w *wire.Writer) { w.Float64(m.Value) }
func (m *TurnsPerSecond) decode(r *wire.Reader) { m.Value = r.Float64() }

type TurnStarted struct {
	Turn int64
}

func (*TurnStarted) Kind() ServerKind        { return ServerTurnStarted }
func (m *TurnStarted) encode(w *wire.Writer) { w.Int64(m.Turn) }
func (m *TurnStarted) decode(r *wire.Reader) { m.Turn = r.Int64() }

// --- Карта и свет ---

type AddTile struct {
	Tile TileData
}

func (*AddTile) Kind() ServerKind        { return ServerAddTile }
func (m *AddTile) encode(w *wire.Writer) { m.Tile.encode(w) }
func (m *AddTile) decode(r *wire.Reader) { m.Tile.decode(r) }

type TileFullnessChange struct {
	Tile TileData
}

func (*TileFullnessChange) Kind() ServerKind        { return ServerTileFullnessChange }
func (m *TileFullnessChange) encode(w *wire.Writer) { m.Tile.encode(w) }
func (m *TileFullnessChange) decode(r *wire.Reader) { m.Tile.decode(r) }

type TileClaimedMsg struct {
	Tile TileData
}

func (*TileClaimedMsg) Kind() ServerKind        { return ServerTileClaimed }
func (m *TileClaimedMsg) encode(w *wire.Writer) { m.Tile.encode(w) }
func (m *TileClaimedMsg) decode(r *wire.Reader) { m.Tile.decode(r) }

type MarkTiles struct {
	IsDigSet bool
	Tiles    []TileData
}

func (*MarkTiles) Kind() ServerKind { return ServerMarkTiles }
func (m *MarkTiles) encode(w *wire.Writer) {
	w.Bool(m.IsDigSet)
	encodeTiles(w, m.Tiles)
}
func (m *MarkTiles) decode(r *wire.Reader) {
	m.IsDigSet = r.Bool()
	m.Tiles = decodeTiles(r)
}

type AddMapLight struct {
	Light MapLightData
}

func (*AddMapLight) Kind() ServerKind        { return ServerAddMapLight }
func (m *AddMapLight) encode(w *wire.Writer) { m.Light.encode(w) }
func (m *AddMapLight) decode(r *wire.Reader) { m.Light.decode(r) }

type RemoveMapLight struct {
	Name string
}

func (*RemoveMapLight) Kind() ServerKind        { return ServerRemoveMapLight }
func (m *RemoveMapLight) encode(w *wire.Writer) { w.String(m.Name) }
func (m *RemoveMapLight) decode(r *wire.Reader) { m.Name = r.String() }

// --- Существа ---

type AddClass struct {
	Definition CreatureDefinitionData
}

func (*AddClass) Kind() ServerKind        { return ServerAddClass }
func (m *AddClass) encode(w *wire.Writer) { m.Definition.encode(w) }
func (m *AddClass) decode(r *wire.Reader) { m.Definition.decode(r) }

type AddCreature struct {
	Creature CreatureData
}

func (*AddCreature) Kind() ServerKind        { return ServerAddCreature }
func (m *AddCreature) encode(w *wire.Writer) { m.Creature.encode(w) }
func (m *AddCreature) decode(r *wire.Reader) { m.Creature.decode(r) }

type RemoveCreature struct {
	Name string
}

func (*RemoveCreature) Kind() ServerKind        { return ServerRemoveCreature }
func (m *RemoveCreature) encode(w *wire.Writer) { w.String(m.Name) }
func (m *RemoveCreature) decode(r *wire.Reader) { m.Name = r.String() }

type CreatureRefresh struct {
	Creature CreatureData
}

func (*CreatureRefresh) Kind() ServerKind        { return ServerCreatureRefresh }
func (m *CreatureRefresh) encode(w *wire.Writer) { m.Creature.encode(w) }
func (m *CreatureRefresh) decode(r *wire.Reader) { m.Creature.decode(r) }

type AnimatedObjectAddDestination struct {
	Name        string
	Destination Vector3
}

func (*AnimatedObjectAddDestination) Kind() ServerKind { return ServerAnimatedObjectAddDestination }
func (m *AnimatedObjectAddDestination) encode(w *wire.Writer) {
	w.String(m.Name)
	m.Destination.encode(w)
}
func (m *AnimatedObjectAddDestination) decode(r *wire.Reader) {
	m.Name = r.String()
	m.Destination.decode(r)
}

type AnimatedObjectClearDestinations struct {
	Name string
}

func (*AnimatedObjectClearDestinations) Kind() ServerKind {
	return ServerAnimatedObjectClearDestinations
}
func (m *AnimatedObjectClearDestinations) encode(w *wire.Writer) { w.String(m.Name) }
func (m *AnimatedObjectClearDestinations) decode(r *wire.Reader) { m.Name = r.String() }

type SetObjectAnimationState struct {
	Name             string
	AnimState        string
	Loop             bool
	SetWalkDirection bool
	// WalkDirection передаётся только при SetWalkDirection.
	WalkDirection Vector3
}

func (*SetObjectAnimationState) Kind() ServerKind { return ServerSetObjectAnimationState }
func (m *SetObjectAnimationState) encode(w *wire.Writer) {
	w.String(m.Name)
	w.String(m.AnimState)
	w.Bool(m.Loop)
	w.Bool(m.SetWalkDirection)
	if m.SetWalkDirection {
		m.WalkDirection.encode(w)
	}
}
func (m *SetObjectAnimationState) decode(r *wire.Reader) {
	m.Name = r.String()
	m.AnimState = r.String()
	m.Loop = r.Bool()
	m.SetWalkDirection = r.Bool()
	if m.SetWalkDirection {
		m.WalkDirection.decode(r)
	}
}

// --- Pick up / drop ---

// PickupCreature - локальный игрок поднял существо.
type PickupCreature struct {
	Name string
}

func (*PickupCreature) Kind() ServerKind        { return ServerPickupCreature }
func (m *PickupCreature) encode(w *wire.Writer) { w.String(m.Name) }
func (m *PickupCreature) decode(r *wire.Reader) { m.Name = r.String() }

// DropCreature - локальный игрок опустил существо на тайл.
type DropCreature struct {
	Tile TileData
}

func (*DropCreature) Kind() ServerKind        { return ServerDropCreature }
func (m *DropCreature) encode(w *wire.Writer) { m.Tile.encode(w) }
func (m *DropCreature) decode(r *wire.Reader) { m.Tile.decode(r) }

// CreaturePickedUp - широковещательная форма: игрок с цветом PlayerColor поднял существо.
type CreaturePickedUp struct {
	PlayerColor int32
	Name        string
}

func (*CreaturePickedUp) Kind() ServerKind { return ServerCreaturePickedUp }
func (m *CreaturePickedUp) encode(w *wire.Writer) {
	w.Int32(m.PlayerColor)
	w.String(m.Name)
}
func (m *CreaturePickedUp) decode(r *wire.Reader) {
	m.PlayerColor = r.Int32()
	m.Name = r.String()
}

type CreatureDropped struct {
	PlayerColor int32
	Tile        TileData
}

func (*CreatureDropped) Kind() ServerKind { return ServerCreatureDropped }
func (m *CreatureDropped) encode(w *wire.Writer) {
	w.Int32(m.PlayerColor)
	m.Tile.encode(w)
}
func (m *CreatureDropped) decode(r *wire.Reader) {
	m.PlayerColor = r.Int32()
	m.Tile.decode(r)
}

// --- Места игроков ---

type RefreshPlayerSeat struct {
	Seat  SeatData
	Goals string
}

func (*RefreshPlayerSeat) Kind() ServerKind { return ServerRefreshPlayerSeat }
func (m *RefreshPlayerSeat) encode(w *wire.Writer) {
	m.Seat.encode(w)
	w.String(m.Goals)
}
func (m *RefreshPlayerSeat) decode(r *wire.Reader) {
	m.Seat.decode(r)
	m.Goals = r.String()
}

// --- Комнаты и ловушки ---

type BuildRoom struct {
	Type  RoomType
	Color int32
	Tiles []TileData
}

func (*BuildRoom) Kind() ServerKind { return ServerBuildRoom }
func (m *BuildRoom) encode(w *wire.Writer) {
	w.Int32(int32(m.Type))
	w.Int32(m.Color)
	encodeTiles(w, m.Tiles)
}
func (m *BuildRoom) decode(r *wire.Reader) {
	m.Type = RoomType(r.Enum(int32(roomTypeCount), "room type"))
	m.Color = r.Int32()
	m.Tiles = decodeTiles(r)
}

type RemoveRoomTile struct {
	RoomName string
	Tile     TileData
}

func (*RemoveRoomTile) Kind() ServerKind { return ServerRemoveRoomTile }
func (m *RemoveRoomTile) encode(w *wire.Writer) {
	w.String(m.RoomName)
	m.Tile.encode(w)
}
func (m *RemoveRoomTile) decode(r *wire.Reader) {
	m.RoomName = r.String()
	m.Tile.decode(r)
}

type BuildTrap struct {
	Type  TrapType
	Color int32
	Tiles []TileData
}

func (*BuildTrap) Kind() ServerKind { return ServerBuildTrap }
func (m *BuildTrap) encode(w *wire.Writer) {
	w.Int32(int32(m.Type))
	w.Int32(m.Color)
	encodeTiles(w, m.Tiles)
}
func (m *BuildTrap) decode(r *wire.Reader) {
	m.Type = TrapType(r.Enum(int32(trapTypeCount), "trap type"))
	m.Color = r.Int32()
	m.Tiles = decodeTiles(r)
}

// TreasuryIndicator - общая схема create/destroy индикатора золота в сокровищнице.
type TreasuryIndicator struct {
	Color    int32
	RoomName string
	Tile     TileData
	MeshName string
}

func (m *TreasuryIndicator) encode(w *wire.Writer) {
	w.Int32(m.Color)
	w.String(m.RoomName)
	m.Tile.encode(w)
	w.String(m.MeshName)
}

func (m *TreasuryIndicator) decode(r *wire.Reader) {
	m.Color = r.Int32()
	m.RoomName = r.String()
	m.Tile.decode(r)
	m.MeshName = r.String()
}

type CreateTreasuryIndicator struct{ TreasuryIndicator }

func (*CreateTreasuryIndicator) Kind() ServerKind { return ServerCreateTreasuryIndicator }

type DestroyTreasuryIndicator struct{ TreasuryIndicator }

func (*DestroyTreasuryIndicator) Kind() ServerKind { return ServerDestroyTreasuryIndicator }

type AddRoomObject struct {
	RoomName string
	Tile     TileData
	Object   RoomObjectData
}

func (*AddRoomObject) Kind() ServerKind { return ServerAddRoomObject }
func (m *AddRoomObject) encode(w *wire.Writer) {
	w.String(m.RoomName)
	m.Tile.encode(w)
	m.Object.encode(w)
}
func (m *AddRoomObject) decode(r *wire.Reader) {
	m.RoomName = r.String()
	m.Tile.decode(r)
	m.Object.decode(r)
}

type RemoveRoomObject struct {
	RoomName string
	Tile     TileData
}

func (*RemoveRoomObject) Kind() ServerKind { return ServerRemoveRoomObject }
func (m *RemoveRoomObject) encode(w *wire.Writer) {
	w.String(m.RoomName)
	m.Tile.encode(w)
}
func (m *RemoveRoomObject) decode(r *wire.Reader) {
	m.RoomName = r.String()
	m.Tile.decode(r)
}

type RemoveAllRoomObjectFromRoom struct {
	RoomName string
}

func (*RemoveAllRoomObjectFromRoom) Kind() ServerKind        { return ServerRemoveAllRoomObjectFromRoom }
func (m *RemoveAllRoomObjectFromRoom) encode(w *wire.Writer) { w.String(m.RoomName) }
func (m *RemoveAllRoomObjectFromRoom) decode(r *wire.Reader) { m.RoomName = r.String() }

// --- Снаряды ---

type AddMissileObject struct {
	Missile MissileObjectData
}

func (*AddMissileObject) Kind() ServerKind        { return ServerAddMissileObject }
func (m *AddMissileObject) encode(w *wire.Writer) { m.Missile.encode(w) }
func (m *AddMissileObject) decode(r *wire.Reader) { m.Missile.decode(r) }

type RemoveMissileObject struct {
	Name string
}

func (*RemoveMissileObject) Kind() ServerKind        { return ServerRemoveMissileObject }
func (m *RemoveMissileObject) encode(w *wire.Writer) { w.String(m.Name) }
func (m *RemoveMissileObject) decode(r *wire.Reader) { m.Name = r.String() }

package client

import (
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"

	"keeper-client/internal/world"
	"keeper-client/pkg/logger"
	"keeper-client/pkg/protocol"
	"keeper-client/pkg/wire"
)

// handlerFunc применяет уже полностью разобранное сообщение к реплике.
type handlerFunc func(d *Dispatcher, msg protocol.ServerMessage) error

// typedHandler - "чистый" обработчик, который работает с конкретным типом сообщения.
type typedHandler[T protocol.ServerMessage] func(d *Dispatcher, msg T) error

// on превращает типизированный обработчик в handlerFunc.
func on[T protocol.ServerMessage](h typedHandler[T]) handlerFunc {
	return func(d *Dispatcher, msg protocol.ServerMessage) error {
		m, ok := msg.(T)
		if !ok {
			return fmt.Errorf("%w: %s decoded as %T", wire.ErrMalformed, msg.Kind(), msg)
		}
		return h(d, m)
	}
}

// handlers заполняется один раз; тест проверяет, что покрыт весь каталог.
var handlers = map[protocol.ServerKind]handlerFunc{
	protocol.ServerPickNick:                        on(handlePickNick),
	protocol.ServerYourSeat:                        on(handleYourSeat),
	protocol.ServerAddPlayer:                       on(handleAddPlayer),
	protocol.ServerChat:                            on(handleChat),
	protocol.ServerNewMap:                          on(handleNewMap),
	protocol.ServerTurnsPerSecond:                  on(handleTurnsPerSecond),
	protocol.ServerAddTile:                         on(handleAddTile),
	protocol.ServerAddMapLight:                     on(handleAddMapLight),
	protocol.ServerRemoveMapLight:                  on(handleRemoveMapLight),
	protocol.ServerAddClass:                        on(handleAddClass),
	protocol.ServerAddCreature:                     on(handleAddCreature),
	protocol.ServerRemoveCreature:                  on(handleRemoveCreature),
	protocol.ServerTurnStarted:                     on(handleTurnStarted),
	protocol.ServerAnimatedObjectAddDestination:    on(handleAddDestination),
	protocol.ServerAnimatedObjectClearDestinations: on(handleClearDestinations),
	protocol.ServerPickupCreature:                  on(handlePickupCreature),
	protocol.ServerDropCreature:                    on(handleDropCreature),
	protocol.ServerCreaturePickedUp:                on(handleCreaturePickedUp),
	protocol.ServerCreatureDropped:                 on(handleCreatureDropped),
	protocol.ServerSetObjectAnimationState:         on(handleSetAnimationState),
	protocol.ServerTileFullnessChange:              on(handleTileFullnessChange),
	protocol.ServerTileClaimed:                     on(handleTileClaimed),
	protocol.ServerRefreshPlayerSeat:               on(handleRefreshPlayerSeat),
	protocol.ServerMarkTiles:                       on(handleMarkTiles),
	protocol.ServerBuildRoom:                       on(handleBuildRoom),
	protocol.ServerRemoveRoomTile:                  on(handleRemoveRoomTile),
	protocol.ServerBuildTrap:                       on(handleBuildTrap),
	protocol.ServerCreatureRefresh:                 on(handleCreatureRefresh),
	protocol.ServerAddMissileObject:                on(handleAddMissile),
	protocol.ServerRemoveMissileObject:             on(handleRemoveMissile),
	protocol.ServerCreateTreasuryIndicator:         on(handleCreateTreasuryIndicator),
	protocol.ServerDestroyTreasuryIndicator:        on(handleDestroyTreasuryIndicator),
	protocol.ServerAddRoomObject:                   on(handleAddRoomObject),
	protocol.ServerRemoveRoomObject:                on(handleRemoveRoomObject),
	protocol.ServerRemoveAllRoomObjectFromRoom:     on(handleRemoveAllRoomObjects),
}

// Dispatcher применяет уведомления сервера к реплике по одному сообщению.
// Порядок важен: каждое сообщение рассчитывает на то, что предыдущие уже применены.
type Dispatcher struct {
	Replica *world.Replica
	Sender  Sender
	Audio   Audio
	Chat    Chat
	// Nick - ответ на pickNick.
	Nick string

	// OnSeated вызывается после yourSeat (рукопожатие завершено).
	OnSeated func(seat *world.Seat)

	log *logrus.Entry
}

func NewDispatcher(replica *world.Replica, sender Sender, audio Audio, chat Chat, nick string) *Dispatcher {
	if audio == nil {
		audio = NopAudio{}
	}
	if chat == nil {
		chat = NopChat{}
	}
	return &Dispatcher{
		Replica: replica,
		Sender:  sender,
		Audio:   audio,
		Chat:    chat,
		Nick:    nick,
		log:     logger.Component("dispatcher"),
	}
}

// ProcessOne разбирает и применяет одно тело кадра.
// Сообщение сначала разбирается целиком во временную структуру, затем разрешаются все ссылки,
// и только потом меняется реплика. При ошибке реплика не меняется.
// newTurn == true, если сообщение начало новый ход.
func (d *Dispatcher) ProcessOne(body []byte) (newTurn bool, err error) {
	msg, err := protocol.DecodeServer(body)
	if err != nil {
		kind, _ := protocol.PeekServerKind(body)
		d.log.WithFields(logrus.Fields{"kind": kind.String(), "size": len(body)}).
			WithError(err).Warn("Malformed server message skipped")
		return false, err
	}

	h, ok := handlers[msg.Kind()]
	if !ok {
		// Не должно случаться: тест держит таблицу полной.
		err = fmt.Errorf("%w: no handler for %s", protocol.ErrUnknownKind, msg.Kind())
		d.log.WithField("kind", msg.Kind().String()).Error(err)
		return false, err
	}

	if err := h(d, msg); err != nil {
		d.report(msg.Kind(), err)
		return false, err
	}
	return msg.Kind() == protocol.ServerTurnStarted, nil
}

func (d *Dispatcher) report(kind protocol.ServerKind, err error) {
	entry := d.log.WithField("kind", kind.String()).WithError(err)
	switch {
	case errors.Is(err, ErrTransport):
		entry.Error("Reply could not be sent")
	case errors.Is(err, world.ErrUnresolved):
		entry.Warn("Unresolved reference, message skipped")
	default:
		entry.Warn("Message rejected by replica")
	}
}

func (d *Dispatcher) localPlayer() (*world.Player, error) {
	p := d.Replica.LocalPlayer()
	if p == nil {
		return nil, fmt.Errorf("%w: local player", world.ErrUnresolved)
	}
	return p, nil
}

// resolveTiles разрешает список тайлов. Неизвестные и повторные тайлы пропускаются с диагностикой;
// skipCovered отбрасывает тайлы, уже занятые комнатой или ловушкой.
func (d *Dispatcher) resolveTiles(kind protocol.ServerKind, refs []protocol.TileData, skipCovered bool) []*world.Tile {
	out := make([]*world.Tile, 0, len(refs))
	seen := make(map[world.TileKey]bool, len(refs))
	for _, ref := range refs {
		fields := logrus.Fields{"kind": kind.String(), "x": ref.X, "y": ref.Y}
		t := d.Replica.Tile(int(ref.X), int(ref.Y))
		switch {
		case t == nil:
			d.log.WithFields(fields).Warn("Unknown tile skipped")
		case seen[t.Key()]:
			d.log.WithFields(fields).Warn("Tile listed twice, skipped")
		case skipCovered && t.IsCovered():
			d.log.WithFields(fields).Warn("Tile already covered, skipped")
		default:
			seen[t.Key()] = true
			out = append(out, t)
		}
	}
	return out
}

// --- Рукопожатие и сессия ---

func handlePickNick(d *Dispatcher, _ *protocol.PickNick) error {
	return d.Sender.Send(&protocol.SetNick{Nick: d.Nick})
}

func handleYourSeat(d *Dispatcher, m *protocol.YourSeat) error {
	seat, err := d.Replica.AssignLocalSeat(int(m.Color))
	if err != nil {
		return err
	}
	d.log.WithField("color", seat.Color).Info("Seat assigned")
	if d.OnSeated != nil {
		d.OnSeated(seat)
	}
	return nil
}

func handleAddPlayer(d *Dispatcher, m *protocol.AddPlayer) error {
	p, err := d.Replica.AddPlayer(m.Nick, int(m.SeatColor))
	if err != nil {
		return err
	}
	d.log.WithFields(logrus.Fields{"nick": p.Nick, "color": m.SeatColor}).Info("Player joined")
	return nil
}

func handleChat(d *Dispatcher, m *protocol.Chat) error {
	d.Chat.PostMessage(m.Nick, m.Text)
	return nil
}

func handleNewMap(d *Dispatcher, _ *protocol.NewMap) error {
	d.Replica.Clear()
	return nil
}

func handleTurnsPerSecond(d *Dispatcher, m *protocol.TurnsPerSecond) error {
	d.Replica.SetTurnsPerSecond(m.Value)
	return nil
}

// handleTurnStarted подтверждает ход сразу и безусловно. Повторы - забота транспорта.
func handleTurnStarted(d *Dispatcher, m *protocol.TurnStarted) error {
	d.log.WithField("turn", m.Turn).Debug("Turn started")
	d.Replica.SetTurn(m.Turn)
	return d.Sender.Send(&protocol.AckNewTurn{Turn: m.Turn})
}

// --- Тайлы ---

func handleAddTile(d *Dispatcher, m *protocol.AddTile) error {
	d.Replica.PutTile(m.Tile)
	return nil
}

func handleTileFullnessChange(d *Dispatcher, m *protocol.TileFullnessChange) error {
	_, err := d.Replica.SetTileFullness(int(m.Tile.X), int(m.Tile.Y), m.Tile.Fullness)
	return err
}

func handleTileClaimed(d *Dispatcher, m *protocol.TileClaimedMsg) error {
	_, err := d.Replica.ClaimTile(int(m.Tile.X), int(m.Tile.Y), int(m.Tile.Color))
	return err
}

func handleMarkTiles(d *Dispatcher, m *protocol.MarkTiles) error {
	p, err := d.localPlayer()
	if err != nil {
		return err
	}
	tiles := d.resolveTiles(protocol.ServerMarkTiles, m.Tiles, false)
	d.Replica.MarkTiles(tiles, m.IsDigSet, p.Color())
	d.Audio.PlaySound(protocol.SoundDigSelect)
	return nil
}

// --- Свет и снаряды ---

func handleAddMapLight(d *Dispatcher, m *protocol.AddMapLight) error {
	_, err := d.Replica.AddMapLight(m.Light)
	return err
}

func handleRemoveMapLight(d *Dispatcher, m *protocol.RemoveMapLight) error {
	return d.Replica.RemoveMapLight(m.Name)
}

func handleAddMissile(d *Dispatcher, m *protocol.AddMissileObject) error {
	_, err := d.Replica.AddMissile(m.Missile)
	return err
}

func handleRemoveMissile(d *Dispatcher, m *protocol.RemoveMissileObject) error {
	return d.Replica.RemoveMissile(m.Name)
}

// --- Существа ---

func handleAddClass(d *Dispatcher, m *protocol.AddClass) error {
	_, err := d.Replica.AddClass(m.Definition)
	return err
}

func handleAddCreature(d *Dispatcher, m *protocol.AddCreature) error {
	_, err := d.Replica.AddCreature(m.Creature)
	return err
}

func handleRemoveCreature(d *Dispatcher, m *protocol.RemoveCreature) error {
	return d.Replica.RemoveCreature(m.Name)
}

func handleCreatureRefresh(d *Dispatcher, m *protocol.CreatureRefresh) error {
	_, err := d.Replica.RefreshCreature(m.Creature)
	return err
}

func handleAddDestination(d *Dispatcher, m *protocol.AnimatedObjectAddDestination) error {
	obj, err := d.Replica.AnimatedObject(m.Name)
	if err != nil {
		return err
	}
	obj.AddDestination(m.Destination)
	return nil
}

func handleClearDestinations(d *Dispatcher, m *protocol.AnimatedObjectClearDestinations) error {
	obj, err := d.Replica.AnimatedObject(m.Name)
	if err != nil {
		return err
	}
	obj.ClearDestinations()
	return nil
}

func handleSetAnimationState(d *Dispatcher, m *protocol.SetObjectAnimationState) error {
	obj, err := d.Replica.AnimatedObject(m.Name)
	if err != nil {
		return err
	}
	obj.AnimState = m.AnimState
	obj.AnimLoop = m.Loop
	if m.SetWalkDirection {
		obj.WalkDirection = m.WalkDirection
	}
	return nil
}

// --- Рука игрока ---

func (d *Dispatcher) pickUp(p *world.Player, name string) error {
	c := d.Replica.Creature(name)
	if c == nil {
		return fmt.Errorf("%w: creature %q", world.ErrUnresolved, name)
	}
	return d.Replica.PickUp(p, c)
}

func (d *Dispatcher) drop(p *world.Player, ref protocol.TileData) error {
	t, err := d.Replica.ResolveTile(ref)
	if err != nil {
		return err
	}
	_, err = d.Replica.Drop(p, t)
	return err
}

func handlePickupCreature(d *Dispatcher, m *protocol.PickupCreature) error {
	p, err := d.localPlayer()
	if err != nil {
		return err
	}
	return d.pickUp(p, m.Name)
}

func handleDropCreature(d *Dispatcher, m *protocol.DropCreature) error {
	p, err := d.localPlayer()
	if err != nil {
		return err
	}
	if err := d.drop(p, m.Tile); err != nil {
		return err
	}
	d.Audio.PlaySound(protocol.SoundDrop)
	return nil
}

func handleCreaturePickedUp(d *Dispatcher, m *protocol.CreaturePickedUp) error {
	p, err := d.Replica.PlayerByColor(int(m.PlayerColor))
	if err != nil {
		return err
	}
	return d.pickUp(p, m.Name)
}

func handleCreatureDropped(d *Dispatcher, m *protocol.CreatureDropped) error {
	p, err := d.Replica.PlayerByColor(int(m.PlayerColor))
	if err != nil {
		return err
	}
	return d.drop(p, m.Tile)
}

func handleRefreshPlayerSeat(d *Dispatcher, m *protocol.RefreshPlayerSeat) error {
	p, err := d.localPlayer()
	if err != nil {
		return err
	}
	if p.Seat == nil {
		return fmt.Errorf("%w: local player has no seat", world.ErrInvalidState)
	}
	p.Seat.RefreshFrom(m.Seat)
	d.Chat.RefreshPlayerDisplay(m.Goals)
	return nil
}

// --- Комнаты и ловушки ---

// Постройка на неизвестных или занятых тайлах пропускает их по одному.
// Если не осталось ни одного тайла, сущность не создаётся.
func (d *Dispatcher) buildTiles(kind protocol.ServerKind, color int32, refs []protocol.TileData) ([]*world.Tile, error) {
	tiles := d.resolveTiles(kind, refs, true)
	if len(tiles) == 0 {
		return nil, fmt.Errorf("%w: none of %d tiles usable for %s", world.ErrUnresolved, len(refs), kind)
	}
	if _, err := d.Replica.PlayerByColor(int(color)); err != nil {
		return nil, err
	}
	return tiles, nil
}

func handleBuildRoom(d *Dispatcher, m *protocol.BuildRoom) error {
	tiles, err := d.buildTiles(protocol.ServerBuildRoom, m.Color, m.Tiles)
	if err != nil {
		return err
	}
	room, err := d.Replica.BuildRoom(m.Type, int(m.Color), tiles)
	if err != nil {
		return err
	}
	d.log.WithFields(logrus.Fields{"name": room.Name, "color": m.Color, "tiles": room.NumTiles()}).Debug("Room built")
	return nil
}

func handleBuildTrap(d *Dispatcher, m *protocol.BuildTrap) error {
	tiles, err := d.buildTiles(protocol.ServerBuildTrap, m.Color, m.Tiles)
	if err != nil {
		return err
	}
	_, err = d.Replica.BuildTrap(m.Type, int(m.Color), tiles)
	return err
}

// roomTile разрешает пару (комната, тайл) - общая часть сообщений о комнатах.
func (d *Dispatcher) roomTile(roomName string, ref protocol.TileData) (*world.Room, *world.Tile, error) {
	room, err := d.Replica.ResolveRoom(roomName)
	if err != nil {
		return nil, nil, err
	}
	t, err := d.Replica.ResolveTile(ref)
	if err != nil {
		return nil, nil, err
	}
	return room, t, nil
}

func handleRemoveRoomTile(d *Dispatcher, m *protocol.RemoveRoomTile) error {
	room, t, err := d.roomTile(m.RoomName, m.Tile)
	if err != nil {
		return err
	}
	return d.Replica.RemoveRoomTile(room, t)
}

func handleCreateTreasuryIndicator(d *Dispatcher, m *protocol.CreateTreasuryIndicator) error {
	room, t, err := d.roomTile(m.RoomName, m.Tile)
	if err != nil {
		return err
	}
	return d.Replica.CreateTreasuryIndicator(room, int(m.Color), t, m.MeshName)
}

func handleDestroyTreasuryIndicator(d *Dispatcher, m *protocol.DestroyTreasuryIndicator) error {
	room, t, err := d.roomTile(m.RoomName, m.Tile)
	if err != nil {
		return err
	}
	return d.Replica.DestroyTreasuryIndicator(room, int(m.Color), t, m.MeshName)
}

func handleAddRoomObject(d *Dispatcher, m *protocol.AddRoomObject) error {
	room, t, err := d.roomTile(m.RoomName, m.Tile)
	if err != nil {
		return err
	}
	_, err = d.Replica.AddRoomObject(room, t, m.Object)
	return err
}

func handleRemoveRoomObject(d *Dispatcher, m *protocol.RemoveRoomObject) error {
	room, t, err := d.roomTile(m.RoomName, m.Tile)
	if err != nil {
		return err
	}
	return d.Replica.RemoveRoomObject(room, t)
}

func handleRemoveAllRoomObjects(d *Dispatcher, m *protocol.RemoveAllRoomObjectFromRoom) error {
	room, err := d.Replica.ResolveRoom(m.RoomName)
	if err != nil {
		return err
	}
	n := d.Replica.RemoveAllRoomObjects(room)
	d.log.WithFields(logrus.Fields{"room": room.Name, "objects": n}).Debug("Room objects cleared")
	return nil
}

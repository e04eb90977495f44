// Package protocol описывает каталог сообщений между клиентом и сервером:
// закрытые множества дискриминантов для обоих направлений, перечисления
// и DTO составных значений (Tile, Seat, Creature, ...).
//
// Схема полей каждого сообщения задаётся ровно в одном месте - в паре
// методов encode/decode его структуры. Сервер и клиент используют одну и ту же схему.
package protocol

import (
	"errors"
	"fmt"

	"keeper-client/pkg/wire"
)

// ErrUnknownKind - дискриминант вне каталога. Оборачивает wire.ErrMalformed.
var ErrUnknownKind = fmt.Errorf("%w: unknown message kind", wire.ErrMalformed)

// ServerKind - дискриминант сообщения сервер -> клиент.
type ServerKind int32

const (
	ServerPickNick ServerKind = iota
	ServerYourSeat
	ServerAddPlayer
	ServerChat
	ServerNewMap
	ServerTurnsPerSecond
	ServerAddTile
	ServerAddMapLight
	ServerRemoveMapLight
	ServerAddClass
	ServerAddCreature
	ServerRemoveCreature
	ServerTurnStarted
	ServerAnimatedObjectAddDestination
	ServerAnimatedObjectClearDestinations
	ServerPickupCreature
	ServerDropCreature
	ServerCreaturePickedUp
	ServerCreatureDropped
	ServerSetObjectAnimationState
	ServerTileFullnessChange
	ServerTileClaimed
	ServerRefreshPlayerSeat
	ServerMarkTiles
	ServerBuildRoom
	ServerRemoveRoomTile
	ServerBuildTrap
	ServerCreatureRefresh
	ServerAddMissileObject
	ServerRemoveMissileObject
	ServerCreateTreasuryIndicator
	ServerDestroyTreasuryIndicator
	ServerAddRoomObject
	ServerRemoveRoomObject
	ServerRemoveAllRoomObjectFromRoom

	serverKindCount
)

var serverKindNames = [serverKindCount]string{
	"pickNick",
	"yourSeat",
	"addPlayer",
	"chat",
	"newMap",
	"turnsPerSecond",
	"addTile",
	"addMapLight",
	"removeMapLight",
	"addClass",
	"addCreature",
	"removeCreature",
	"turnStarted",
	"animatedObjectAddDestination",
	"animatedObjectClearDestinations",
	"pickupCreature",
	"dropCreature",
	"creaturePickedUp",
	"creatureDropped",
	"setObjectAnimationState",
	"tileFullnessChange",
	"tileClaimed",
	"refreshPlayerSeat",
	"markTiles",
	"buildRoom",
	"removeRoomTile",
	"buildTrap",
	"creatureRefresh",
	"addMissileObject",
	"removeMissileObject",
	"createTreasuryIndicator",
	"destroyTreasuryIndicator",
	"addRoomObject",
	"removeRoomObject",
	"removeAllRoomObjectFromRoom",
}

// ServerKinds возвращает весь каталог в порядке дискриминантов.
func ServerKinds() []ServerKind {
	kinds := make([]ServerKind, serverKindCount)
	for i := range kinds {
		kinds[i] = ServerKind(i)
	}
	return kinds
}

func (k ServerKind) Valid() bool { return k >= 0 && k < serverKindCount }

func (k ServerKind) String() string {
	if k.Valid() {
		return serverKindNames[k]
	}
	return fmt.Sprintf("ServerKind(%d)", int32(k))
}

// ClientKind - дискриминант сообщения клиент -> сервер.
type ClientKind int32

const (
	ClientHello ClientKind = iota
	ClientSetNick
	ClientAckNewTurn
	ClientAskCreaturePickUp
	ClientAskCreatureDrop
	ClientAskMarkTile
	ClientAskBuildRoom
	ClientAskBuildTrap

	clientKindCount
)

var clientKindNames = [clientKindCount]string{
	"hello",
	"setNick",
	"ackNewTurn",
	"askCreaturePickUp",
	"askCreatureDrop",
	"askMarkTile",
	"askBuildRoom",
	"askBuildTrap",
}

func ClientKinds() []ClientKind {
	kinds := make([]ClientKind, clientKindCount)
	for i := range kinds {
		kinds[i] = ClientKind(i)
	}
	return kinds
}

func (k ClientKind) Valid() bool { return k >= 0 && k < clientKindCount }

func (k ClientKind) String() string {
	if k.Valid() {
		return clientKindNames[k]
	}
	return fmt.Sprintf("ClientKind(%d)", int32(k))
}

// IsIntent - true для сообщений, которые порождает игрок (ask*).
// Только они проходят через очередь исходящих уведомлений.
func (k ClientKind) IsIntent() bool {
	switch k {
	case ClientAskCreaturePickUp, ClientAskCreatureDrop, ClientAskMarkTile,
		ClientAskBuildRoom, ClientAskBuildTrap:
		return true
	}
	return false
}

// IsUnknownKind сообщает, что ошибка вызвана дискриминантом вне каталога.
func IsUnknownKind(err error) bool {
	return errors.Is(err, ErrUnknownKind)
}

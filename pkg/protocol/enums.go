package protocol

import "fmt"

// TileType - тип тайла карты.
type TileType int32

const (
	TileNull TileType = iota
	TileDirt
	TileGold
	TileRock
	TileClaimed
	TileLava
	TileWater

	tileTypeCount
)

var tileTypeNames = [tileTypeCount]string{"nullTileType", "dirt", "gold", "rock", "claimed", "lava", "water"}

func (t TileType) String() string {
	if t >= 0 && t < tileTypeCount {
		return tileTypeNames[t]
	}
	return fmt.Sprintf("TileType(%d)", int32(t))
}

// ParseTileType разбирает имя типа тайла (используется загрузчиком уровня).
func ParseTileType(s string) (TileType, error) {
	for i, name := range tileTypeNames {
		if name == s {
			return TileType(i), nil
		}
	}
	return TileNull, fmt.Errorf("unknown tile type %q", s)
}

// RoomType - тип комнаты.
type RoomType int32

const (
	RoomNull RoomType = iota
	RoomDungeonTemple
	RoomQuarters
	RoomTreasury
	RoomPortal
	RoomForge
	RoomTrainingHall
	RoomLibrary
	RoomHatchery
	RoomCrypt

	roomTypeCount
)

var roomTypeNames = [roomTypeCount]string{
	"nullRoomType", "DungeonTemple", "Quarters", "Treasury", "Portal",
	"Forge", "TrainingHall", "Library", "Hatchery", "Crypt",
}

func (t RoomType) String() string {
	if t >= 0 && t < roomTypeCount {
		return roomTypeNames[t]
	}
	return fmt.Sprintf("RoomType(%d)", int32(t))
}

// TrapType - тип ловушки.
type TrapType int32

const (
	TrapNull TrapType = iota
	TrapCannon
	TrapSpike
	TrapBoulder

	trapTypeCount
)

var trapTypeNames = [trapTypeCount]string{"nullTrapType", "Cannon", "Spike", "Boulder"}

func (t TrapType) String() string {
	if t >= 0 && t < trapTypeCount {
		return trapTypeNames[t]
	}
	return fmt.Sprintf("TrapType(%d)", int32(t))
}

// CreatureJob - роль существа, задаётся его классом.
type CreatureJob int32

const (
	JobNull CreatureJob = iota
	JobBasicWorker
	JobAdvancedWorker
	JobScout
	JobWeakFighter
	JobWeakSpellcaster
	JobWeakBuilder
	JobStrongFighter
	JobStrongSpellcaster
	JobStrongBuilder
	JobGuard
	JobSpecialCreature
	JobSummon
	JobSuperCreature

	creatureJobCount
)

var creatureJobNames = [creatureJobCount]string{
	"nullCreatureJob", "BasicWorker", "AdvancedWorker", "Scout", "WeakFighter",
	"WeakSpellcaster", "WeakBuilder", "StrongFighter", "StrongSpellcaster",
	"StrongBuilder", "Guard", "SpecialCreature", "Summon", "SuperCreature",
}

func (j CreatureJob) String() string {
	if j >= 0 && j < creatureJobCount {
		return creatureJobNames[j]
	}
	return fmt.Sprintf("CreatureJob(%d)", int32(j))
}

func (j CreatureJob) IsWorker() bool {
	return j == JobBasicWorker || j == JobAdvancedWorker
}

// Faction - кто занимает место (seat).
type Faction uint8

const (
	FactionNone Faction = iota
	FactionHuman
	FactionAI
)

// Строковые теги фракций в описании уровня и в SeatData.
const (
	FactionTagHuman = "Player"
	FactionTagAI    = "KeeperAI"
)

// ParseFaction: неизвестный тег означает пустое место без владельца.
func ParseFaction(tag string) Faction {
	switch tag {
	case FactionTagHuman:
		return FactionHuman
	case FactionTagAI:
		return FactionAI
	}
	return FactionNone
}

func (f Faction) String() string {
	switch f {
	case FactionHuman:
		return "human"
	case FactionAI:
		return "ai"
	}
	return "none"
}

// Sound - интерфейсные звуки, которые запускают некоторые сообщения.
type Sound uint8

const (
	SoundDrop Sound = iota + 1
	SoundDigSelect
)

func (s Sound) String() string {
	switch s {
	case SoundDrop:
		return "DROP"
	case SoundDigSelect:
		return "DIGSELECT"
	}
	return "UNKNOWN"
}

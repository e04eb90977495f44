package protocol

import "keeper-client/pkg/wire"

// ClientMessage - одно уведомление клиент -> сервер.
type ClientMessage interface {
	Kind() ClientKind
	encode(w *wire.Writer)
	decode(r *wire.Reader)
}

func NewClientMessage(kind ClientKind) (ClientMessage, error) {
	switch kind {
	case ClientHello:
		return &Hello{}, nil
	case ClientSetNick:
		return &SetNick{}, nil
	case ClientAckNewTurn:
		return &AckNewTurn{}, nil
	case ClientAskCreaturePickUp:
		return &AskCreaturePickUp{}, nil
	case ClientAskCreatureDrop:
		return &AskCreatureDrop{}, nil
	case ClientAskMarkTile:
		return &AskMarkTile{}, nil
	case ClientAskBuildRoom:
		return &AskBuildRoom{}, nil
	case ClientAskBuildTrap:
		return &AskBuildTrap{}, nil
	}
	return nil, ErrUnknownKind
}

// Hello открывает handshake: версия протокола и уровень, который загрузил клиент.
type Hello struct {
	Version string
	Level   string
}

func (*Hello) Kind() ClientKind { return ClientHello }
func (m *Hello) encode(w *wire.Writer) {
	w.String(m.Version)
	w.String(m.Level)
}
func (m *Hello) decode(r *wire.Reader) {
	m.Version = r.String()
	m.Level = r.String()
}

type SetNick struct {
	Nick string
}

func (*SetNick) Kind() ClientKind        { return ClientSetNick }
func (m *SetNick) encode(w *wire.Writer) { w.String(m.Nick) }
func (m *SetNick) decode(r *wire.Reader) { m.Nick = r.String() }

type AckNewTurn struct {
	Turn int64
}

func (*AckNewTurn) Kind() ClientKind        { return ClientAckNewTurn }
func (m *AckNewTurn) encode(w *wire.Writer) { w.Int64(m.Turn) }
func (m *AckNewTurn) decode(r *wire.Reader) { m.Turn = r.Int64() }

type AskCreaturePickUp struct {
	Name string
}

func (*AskCreaturePickUp) Kind() ClientKind        { return ClientAskCreaturePickUp }
func (m *AskCreaturePickUp) encode(w *wire.Writer) { w.String(m.Name) }
func (m *AskCreaturePickUp) decode(r *wire.Reader) { m.Name = r.String() }

type AskCreatureDrop struct {
	Tile TileData
}

func (*AskCreatureDrop) Kind() ClientKind        { return ClientAskCreatureDrop }
func (m *AskCreatureDrop) encode(w *wire.Writer) { m.Tile.encode(w) }
func (m *AskCreatureDrop) decode(r *wire.Reader) { m.Tile.decode(r) }

type AskMarkTile struct {
	Area     Rect
	IsDigSet bool
}

func (*AskMarkTile) Kind() ClientKind { return ClientAskMarkTile }
func (m *AskMarkTile) encode(w *wire.Writer) {
	m.Area.encode(w)
	w.Bool(m.IsDigSet)
}
func (m *AskMarkTile) decode(r *wire.Reader) {
	m.Area.decode(r)
	m.IsDigSet = r.Bool()
}

type AskBuildRoom struct {
	Area Rect
	Type RoomType
}

func (*AskBuildRoom) Kind() ClientKind { return ClientAskBuildRoom }
func (m *AskBuildRoom) encode(w *wire.Writer) {
	m.Area.encode(w)
	w.Int32(int32(m.Type))
}
func (m *AskBuildRoom) decode(r *wire.Reader) {
	m.Area.decode(r)
	m.Type = RoomType(r.Enum(int32(roomTypeCount), "room type"))
}

type AskBuildTrap struct {
	Area Rect
	Type TrapType
}

func (*AskBuildTrap) Kind() ClientKind { return ClientAskBuildTrap }
func (m *AskBuildTrap) encode(w *wire.Writer) {
	m.Area.encode(w)
	w.Int32(int32(m.Type))
}
func (m *AskBuildTrap) decode(r *wire.Reader) {
	m.Area.decode(r)
	m.Type = TrapType(r.Enum(int32(trapTypeCount), "trap type"))
}

package client

import (
	"context"
	"fmt"

	"keeper-client/internal/world"
	"keeper-client/pkg/protocol"
)

// Transport - установленное соединение с сервером. Poll не блокирует:
// ok == false без ошибки значит "данных пока нет".
type Transport interface {
	Send(body []byte) error
	Poll() (body []byte, ok bool, err error)
	Close() error
}

// Dialer открывает транспорт (websocket или tcp, см. internal/transport).
type Dialer interface {
	Dial(ctx context.Context, host string, port int) (Transport, error)
}

// LevelLoader строит начальную реплику из описания уровня.
type LevelLoader interface {
	Load(path string) (*world.Replica, error)
}

// Audio - интерфейсные звуки.
type Audio interface {
	PlaySound(s protocol.Sound)
}

// Chat - всё, что клиент показывает пользователю текстом.
type Chat interface {
	PostMessage(nick, text string)
	// RefreshChat вызывается не чаще раза за тик, если за тик начался хотя бы один ход.
	RefreshChat()
	RefreshPlayerDisplay(goals string)
	ReportError(text string)
}

// Sender отправляет одно клиентское сообщение.
type Sender interface {
	Send(msg protocol.ClientMessage) error
}

// Recorder получает каждое входящее тело кадра (см. internal/infrastructure/storage).
type Recorder interface {
	Record(turn int64, body []byte)
}

// --- Заглушки ---

type NopAudio struct{}

func (NopAudio) PlaySound(protocol.Sound) {}

type NopChat struct{}

func (NopChat) PostMessage(string, string)  {}
func (NopChat) RefreshChat()                {}
func (NopChat) RefreshPlayerDisplay(string) {}
func (NopChat) ReportError(string)          {}

// DiscardSender глотает ответы (реплей записанной сессии).
type DiscardSender struct{}

func (DiscardSender) Send(protocol.ClientMessage) error { return nil }

// transportSender кодирует сообщение и пишет его в транспорт.
type transportSender struct {
	t Transport
}

func (s transportSender) Send(msg protocol.ClientMessage) error {
	if err := s.t.Send(protocol.EncodeClient(msg)); err != nil {
		return fmt.Errorf("%w: send %s: %w", ErrTransport, msg.Kind(), err)
	}
	return nil
}

package client

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"

	"github.com/sasha-s/go-deadlock"
	"github.com/sirupsen/logrus"

	"keeper-client/internal/version"
	"keeper-client/internal/world"
	"keeper-client/pkg/logger"
	"keeper-client/pkg/protocol"
)

// State - этап жизни соединения.
type State int32

const (
	StateDisconnected State = iota
	StateConnecting
	StateHandshaking
	StateSynchronized
)

func (s State) String() string {
	switch s {
	case StateDisconnected:
		return "disconnected"
	case StateConnecting:
		return "connecting"
	case StateHandshaking:
		return "handshaking"
	case StateSynchronized:
		return "synchronized"
	}
	return fmt.Sprintf("State(%d)", int32(s))
}

// Options - внешние коллабораторы сессии. Dialer и Levels обязательны.
type Options struct {
	Nick     string
	Dialer   Dialer
	Levels   LevelLoader
	Renderer world.Renderer
	Audio    Audio
	Chat     Chat
	Recorder Recorder
}

// Session - клиентская сторона одного подключения: реплика, диспетчер и очередь намерений.
// Tick, Connect и Disconnect сериализуются мьютексом; Ask* можно звать из потока UI.
type Session struct {
	mu    deadlock.Mutex
	state atomic.Int32

	opts Options

	transport  Transport
	replica    *world.Replica
	dispatcher *Dispatcher
	outbound   *Queue
	level      string

	log *logrus.Entry
}

func NewSession(opts Options) *Session {
	if opts.Audio == nil {
		opts.Audio = NopAudio{}
	}
	if opts.Chat == nil {
		opts.Chat = NopChat{}
	}
	return &Session{
		opts:     opts,
		outbound: NewQueue(opts.Chat),
		log:      logger.Component("session"),
	}
}

func (s *Session) State() State { return State(s.state.Load()) }

func (s *Session) setState(st State) {
	old := State(s.state.Swap(int32(st)))
	if old != st {
		s.log.WithFields(logrus.Fields{"from": old.String(), "to": st.String()}).Debug("State changed")
	}
}

// Outbound - очередь намерений (для отладочного сервера и тестов).
func (s *Session) Outbound() *Queue { return s.outbound }

// Connect загружает уровень, проверяет места и открывает транспорт.
// Реплика существует до того, как сервер успеет на неё сослаться.
func (s *Session) Connect(ctx context.Context, host string, port int, level string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.State() != StateDisconnected {
		return ErrAlreadyConnected
	}
	s.setState(StateConnecting)

	fail := func(err error) error {
		s.setState(StateDisconnected)
		s.log.WithError(err).Error("Connect failed")
		return err
	}

	replica, err := s.opts.Levels.Load(level)
	if err != nil {
		return fail(fmt.Errorf("load level %q: %w", level, err))
	}
	replica.SetRenderer(s.opts.Renderer)
	replica.SetLocalPlayer(&world.Player{Nick: s.opts.Nick})

	humans, ai := replica.CountFactions()
	s.log.WithFields(logrus.Fields{"level": level, "humans": humans, "ai": ai}).Info("Level loaded")
	if humans == 0 {
		return fail(fmt.Errorf("%w: %s", ErrNoHumanSeat, level))
	}

	t, err := s.opts.Dialer.Dial(ctx, host, port)
	if err != nil {
		return fail(fmt.Errorf("%w: dial %s:%d: %w", ErrTransport, host, port, err))
	}

	// Старые намерения относились к прошлой сессии.
	s.outbound.Discard()

	sender := transportSender{t: t}
	d := NewDispatcher(replica, sender, s.opts.Audio, s.opts.Chat, s.opts.Nick)
	d.OnSeated = func(*world.Seat) { s.setState(StateSynchronized) }

	s.transport = t
	s.replica = replica
	s.dispatcher = d
	s.level = level

	if err := sender.Send(&protocol.Hello{Version: version.ProtocolString(), Level: level}); err != nil {
		s.disconnectLocked()
		return fail(err)
	}
	s.setState(StateHandshaking)
	s.log.WithFields(logrus.Fields{"host": host, "port": port}).Info("Connected, handshake started")
	return nil
}

// Tick - один шаг клиента: выбрать все пришедшие сообщения, затем отправить намерения.
// Возвращает число начатых ходов.
func (s *Session) Tick() (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	turns, err := s.processAllLocked()
	if err != nil {
		return turns, err
	}

	if _, err := s.outbound.Drain(transportSender{t: s.transport}); err != nil {
		return turns, s.dropLocked(err)
	}
	return turns, nil
}

// ProcessAll применяет всё, что транспорт уже принял, и не ждёт новых данных.
func (s *Session) ProcessAll() (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.processAllLocked()
}

func (s *Session) processAllLocked() (int, error) {
	if s.transport == nil {
		return 0, ErrNotConnected
	}

	turns := 0
	for {
		body, ok, err := s.transport.Poll()
		if err != nil {
			return turns, s.dropLocked(fmt.Errorf("%w: receive: %w", ErrTransport, err))
		}
		if !ok {
			break
		}

		if s.opts.Recorder != nil {
			s.opts.Recorder.Record(s.replica.Turn(), body)
		}

		newTurn, err := s.dispatcher.ProcessOne(body)
		if errors.Is(err, ErrTransport) {
			return turns, s.dropLocked(err)
		}
		if newTurn {
			turns++
		}
	}

	if turns > 0 {
		s.opts.Chat.RefreshChat()
	}
	return turns, nil
}

// dropLocked - реакция на отказ транспорта: сообщение пользователю и разрыв без переподключения.
func (s *Session) dropLocked(cause error) error {
	s.log.WithError(cause).Error("Connection lost")
	s.opts.Chat.PostMessage("SERVER_INFORMATION: ", "Disconnected from server.")
	s.disconnectLocked()
	return cause
}

// Disconnect закрывает транспорт и выбрасывает неотправленные намерения.
// Реплика остаётся доступной для просмотра до следующего Connect.
func (s *Session) Disconnect() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.transport == nil {
		return ErrNotConnected
	}
	return s.disconnectLocked()
}

// NotifyExit - выход из игры, то же что Disconnect.
func (s *Session) NotifyExit() error {
	return s.Disconnect()
}

func (s *Session) disconnectLocked() error {
	var err error
	if s.transport != nil {
		err = s.transport.Close()
		s.transport = nil
	}
	if n := s.outbound.Discard(); n > 0 {
		s.log.WithField("intents", n).Info("Queued intents discarded")
	}
	s.setState(StateDisconnected)
	return err
}

// View даёт доступ к реплике под мьютексом сессии. До первого Connect реплика nil.
func (s *Session) View(fn func(r *world.Replica)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn(s.replica)
}

// --- Намерения игрока ---

func (s *Session) enqueue(msg protocol.ClientMessage) error {
	if s.State() == StateDisconnected {
		return ErrNotConnected
	}
	s.outbound.Enqueue(msg)
	return nil
}

func (s *Session) AskPickUp(name string) error {
	return s.enqueue(&protocol.AskCreaturePickUp{Name: name})
}

func (s *Session) AskDrop(x, y int) error {
	return s.enqueue(&protocol.AskCreatureDrop{Tile: protocol.TileRef(x, y)})
}

func (s *Session) AskMarkTiles(area protocol.Rect, dig bool) error {
	return s.enqueue(&protocol.AskMarkTile{Area: area, IsDigSet: dig})
}

func (s *Session) AskBuildRoom(area protocol.Rect, typ protocol.RoomType) error {
	return s.enqueue(&protocol.AskBuildRoom{Area: area, Type: typ})
}

func (s *Session) AskBuildTrap(area protocol.Rect, typ protocol.TrapType) error {
	return s.enqueue(&protocol.AskBuildTrap{Area: area, Type: typ})
}

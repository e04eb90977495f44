package client

import (
	"fmt"

	"github.com/sasha-s/go-deadlock"
	"github.com/sirupsen/logrus"

	"keeper-client/pkg/logger"
	"keeper-client/pkg/protocol"
)

// Queue - FIFO намерений игрока (ask*). Добавлять можно из любого потока,
// выгрузка идёт из тика сессии.
type Queue struct {
	mu    deadlock.Mutex
	items []protocol.ClientMessage

	chat Chat
	log  *logrus.Entry
}

func NewQueue(chat Chat) *Queue {
	if chat == nil {
		chat = NopChat{}
	}
	return &Queue{
		chat: chat,
		log:  logger.Component("outbound"),
	}
}

func (q *Queue) Enqueue(msg protocol.ClientMessage) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.items = append(q.items, msg)
}

func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items)
}

// Discard выбрасывает всё, что ещё не отправлено. Возвращает число выброшенных намерений.
func (q *Queue) Discard() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	n := len(q.items)
	q.items = nil
	return n
}

func (q *Queue) pop() (protocol.ClientMessage, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if len(q.items) == 0 {
		return nil, false
	}
	msg := q.items[0]
	q.items[0] = nil
	q.items = q.items[1:]
	return msg, true
}

// Drain отправляет намерения строго в порядке добавления, по одному сообщению на намерение.
// Неизвестное намерение сообщается пользователю и пропускается; ошибка отправки прерывает выгрузку.
func (q *Queue) Drain(s Sender) (sent int, err error) {
	for {
		msg, ok := q.pop()
		if !ok {
			return sent, nil
		}

		if err := transmittable(msg); err != nil {
			q.log.WithField("kind", msg.Kind().String()).Error(err)
			q.chat.ReportError(err.Error())
			continue
		}

		if err := s.Send(msg); err != nil {
			return sent, err
		}
		sent++
	}
}

// transmittable - таблица того, что игрок может попросить у сервера.
// Ответы протокола (hello, setNick, ackNewTurn) уходят напрямую и в очередь не попадают.
func transmittable(msg protocol.ClientMessage) error {
	switch msg.(type) {
	case *protocol.AskCreaturePickUp,
		*protocol.AskCreatureDrop,
		*protocol.AskMarkTile,
		*protocol.AskBuildRoom,
		*protocol.AskBuildTrap:
		return nil
	}
	return fmt.Errorf("%w: %s", ErrUnknownIntent, msg.Kind())
}

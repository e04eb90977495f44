// Package transport - сетевые реализации client.Transport.
// Чтение идёт в отдельной горутине; Poll только забирает уже принятые кадры и никогда не ждёт.
package transport

import (
	"errors"
	"time"

	"github.com/sasha-s/go-deadlock"
)

// ErrClosed - транспорт уже закрыт локально.
var ErrClosed = errors.New("transport closed")

// Настройки соединения
const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10
)

// Options - общие параметры обоих транспортов.
type Options struct {
	// MaxFrameSize - предел тела кадра; больше - ошибка чтения.
	MaxFrameSize int
	// SendBuffer - ёмкость очередей входящих и исходящих кадров.
	SendBuffer int
	// WSPath - путь websocket-эндпоинта на сервере.
	WSPath           string
	HandshakeTimeout time.Duration
}

func (o Options) withDefaults() Options {
	if o.MaxFrameSize <= 0 {
		o.MaxFrameSize = 1 << 20
	}
	if o.SendBuffer <= 0 {
		o.SendBuffer = 256
	}
	if o.WSPath == "" {
		o.WSPath = "/ws"
	}
	if o.HandshakeTimeout <= 0 {
		o.HandshakeTimeout = 10 * time.Second
	}
	return o
}

// inbox - буфер принятых кадров и первая ошибка чтения.
// Ошибка отдаётся только после того, как выбраны все кадры, пришедшие до неё.
type inbox struct {
	frames chan []byte
	done   chan struct{}

	mu  deadlock.Mutex
	err error
}

func newInbox(size int) *inbox {
	return &inbox{
		frames: make(chan []byte, size),
		done:   make(chan struct{}),
	}
}

// push блокируется, пока Poll не освободит место, или до закрытия.
func (b *inbox) push(body []byte) bool {
	select {
	case b.frames <- body:
		return true
	case <-b.done:
		return false
	}
}

func (b *inbox) fail(err error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.err == nil {
		b.err = err
	}
}

func (b *inbox) failure() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.err
}

func (b *inbox) poll() ([]byte, bool, error) {
	select {
	case body := <-b.frames:
		return body, true, nil
	default:
	}

	err := b.failure()
	if err == nil {
		return nil, false, nil
	}
	// Кадры, положенные до ошибки, уже в канале.
	select {
	case body := <-b.frames:
		return body, true, nil
	default:
		return nil, false, err
	}
}

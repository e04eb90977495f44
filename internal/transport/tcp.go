package transport

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"strconv"
	"sync"
	"time"

	"github.com/sasha-s/go-deadlock"
	"github.com/sirupsen/logrus"

	"keeper-client/pkg/logger"
	"keeper-client/pkg/wire"
)

// TCP - транспорт поверх обычного сокета с кадрами "длина + тело" (wire.WriteFrame).
type TCP struct {
	conn net.Conn
	in   *inbox

	wmu deadlock.Mutex // запись кадра целиком

	maxFrame  int
	closeOnce sync.Once
	log       *logrus.Entry
}

func DialTCP(ctx context.Context, host string, port int, opts Options) (*TCP, error) {
	opts = opts.withDefaults()

	addr := net.JoinHostPort(host, strconv.Itoa(port))
	d := net.Dialer{Timeout: opts.HandshakeTimeout}
	conn, err := d.DialContext(ctx, "tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("dial %s: %w", addr, err)
	}
	return newTCP(conn, opts), nil
}

func newTCP(conn net.Conn, opts Options) *TCP {
	t := &TCP{
		conn:     conn,
		in:       newInbox(opts.SendBuffer),
		maxFrame: opts.MaxFrameSize,
		log:      logger.Component("transport").WithField("remote", conn.RemoteAddr().String()),
	}
	go t.readLoop()
	return t
}

func (t *TCP) readLoop() {
	defer t.shutdown()

	r := bufio.NewReader(t.conn)
	for {
		body, err := wire.ReadFrame(r, t.maxFrame)
		if err != nil {
			if !errors.Is(err, io.EOF) && !errors.Is(err, net.ErrClosed) {
				t.log.WithError(err).Error("TCP read error")
			}
			t.in.fail(err)
			return
		}
		if !t.in.push(body) {
			return
		}
	}
}

func (t *TCP) Send(body []byte) error {
	if err := t.in.failure(); err != nil {
		return err
	}

	t.wmu.Lock()
	defer t.wmu.Unlock()
	if err := t.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
		t.log.WithError(err).Warn("failed to set write deadline")
	}
	if err := wire.WriteFrame(t.conn, body); err != nil {
		t.in.fail(err)
		return err
	}
	return nil
}

func (t *TCP) Poll() ([]byte, bool, error) {
	return t.in.poll()
}

func (t *TCP) Close() error {
	t.in.fail(ErrClosed)
	return t.shutdown()
}

func (t *TCP) shutdown() error {
	var err error
	t.closeOnce.Do(func() {
		close(t.in.done)
		err = t.conn.Close()
	})
	return err
}

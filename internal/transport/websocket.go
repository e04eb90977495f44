package transport

import (
	"context"
	"fmt"
	"net"
	"net/url"
	"strconv"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"

	"keeper-client/pkg/logger"
)

// WebSocket - транспорт поверх gorilla/websocket. Один кадр протокола = одно binary-сообщение.
type WebSocket struct {
	conn *websocket.Conn
	in   *inbox
	send chan []byte

	closeOnce sync.Once
	log       *logrus.Entry
}

// DialWebSocket подключается к ws://host:port<path> и запускает насосы чтения и записи.
func DialWebSocket(ctx context.Context, host string, port int, opts Options) (*WebSocket, error) {
	opts = opts.withDefaults()

	u := url.URL{Scheme: "ws", Host: net.JoinHostPort(host, strconv.Itoa(port)), Path: opts.WSPath}
	dialer := websocket.Dialer{
		HandshakeTimeout: opts.HandshakeTimeout,
		ReadBufferSize:   1024,
		WriteBufferSize:  1024,
	}
	conn, resp, err := dialer.DialContext(ctx, u.String(), nil)
	if err != nil {
		if resp != nil {
			return nil, fmt.Errorf("dial %s: %w (status %s)", u.String(), err, resp.Status)
		}
		return nil, fmt.Errorf("dial %s: %w", u.String(), err)
	}

	return newWebSocket(conn, opts), nil
}

func newWebSocket(conn *websocket.Conn, opts Options) *WebSocket {
	ws := &WebSocket{
		conn: conn,
		in:   newInbox(opts.SendBuffer),
		send: make(chan []byte, opts.SendBuffer),
		log:  logger.Component("transport").WithField("remote", conn.RemoteAddr().String()),
	}
	conn.SetReadLimit(int64(opts.MaxFrameSize))

	go ws.readPump()
	go ws.writePump()
	return ws
}

// readPump читает кадры сервера в inbox
func (ws *WebSocket) readPump() {
	defer ws.shutdown()

	extend := func() {
		if err := ws.conn.SetReadDeadline(time.Now().Add(pongWait)); err != nil {
			ws.log.WithError(err).Warn("failed to set read deadline")
		}
	}
	extend()
	ws.conn.SetPongHandler(func(string) error {
		extend()
		return nil
	})

	for {
		typ, body, err := ws.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				ws.log.WithError(err).Error("WS read error")
			}
			ws.in.fail(err)
			return
		}
		if typ != websocket.BinaryMessage {
			ws.log.WithField("type", typ).Warn("Non-binary message ignored")
			continue
		}
		extend()
		if !ws.in.push(body) {
			return
		}
	}
}

// writePump отправляет кадры клиента + Ping
func (ws *WebSocket) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		ws.shutdown()
	}()

	for {
		select {
		case body := <-ws.send:
			if err := ws.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
				ws.log.WithError(err).Warn("failed to set write deadline")
			}
			if err := ws.conn.WriteMessage(websocket.BinaryMessage, body); err != nil {
				ws.log.WithError(err).Debug("write message failed")
				ws.in.fail(err)
				return
			}

		case <-ticker.C:
			if err := ws.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
				ws.log.WithError(err).Warn("failed to set ping write deadline")
			}
			if err := ws.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				ws.log.WithError(err).Debug("ping failed")
				ws.in.fail(err)
				return
			}

		case <-ws.in.done:
			if err := ws.conn.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
				time.Now().Add(writeWait)); err != nil {
				ws.log.WithError(err).Debug("write close message failed")
			}
			return
		}
	}
}

// Send ставит кадр в очередь записи. Ждёт не дольше writeWait.
func (ws *WebSocket) Send(body []byte) error {
	if err := ws.in.failure(); err != nil {
		return err
	}
	select {
	case ws.send <- body:
		return nil
	case <-ws.in.done:
		return ErrClosed
	case <-time.After(writeWait):
		return fmt.Errorf("send buffer full for %s", writeWait)
	}
}

func (ws *WebSocket) Poll() ([]byte, bool, error) {
	return ws.in.poll()
}

func (ws *WebSocket) Close() error {
	ws.in.fail(ErrClosed)
	ws.shutdown()
	return nil
}

// shutdown закрывает канал done; сокет закрывается с задержкой, чтобы writePump успел отправить Close.
func (ws *WebSocket) shutdown() {
	ws.closeOnce.Do(func() {
		close(ws.in.done)
		time.AfterFunc(time.Second, func() {
			if err := ws.conn.Close(); err != nil {
				ws.log.WithError(err).Debug("failed to close websocket connection")
			}
		})
	})
}

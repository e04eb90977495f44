package protocol

import (
	"fmt"

	"keeper-client/pkg/wire"
)

// EncodeServer кодирует сообщение сервера в тело кадра (дискриминант + payload).
// Клиенту нужен для тестов и записи сессий; сервер использует ту же функцию.
func EncodeServer(msg ServerMessage) []byte {
	w := wire.NewWriter()
	w.Int32(int32(msg.Kind()))
	msg.encode(w)
	return w.Bytes()
}

// DecodeServer разбирает тело кадра целиком во временную структуру.
// Любая ошибка оборачивает wire.ErrMalformed; частично разобранное сообщение не возвращается.
func DecodeServer(body []byte) (ServerMessage, error) {
	r := wire.NewReader(body)
	raw := r.Int32()
	if err := r.Err(); err != nil {
		return nil, err
	}

	kind := ServerKind(raw)
	msg, err := NewServerMessage(kind)
	if err != nil {
		return nil, fmt.Errorf("%w: %d", err, raw)
	}

	msg.decode(r)
	if err := r.Finish(); err != nil {
		return nil, fmt.Errorf("decode %s: %w", kind, err)
	}
	return msg, nil
}

// PeekServerKind читает только дискриминант (для логов и записи).
func PeekServerKind(body []byte) (ServerKind, bool) {
	r := wire.NewReader(body)
	k := ServerKind(r.Int32())
	return k, r.Err() == nil && k.Valid()
}

func EncodeClient(msg ClientMessage) []byte {
	w := wire.NewWriter()
	w.Int32(int32(msg.Kind()))
	msg.encode(w)
	return w.Bytes()
}

func DecodeClient(body []byte) (ClientMessage, error) {
	r := wire.NewReader(body)
	raw := r.Int32()
	if err := r.Err(); err != nil {
		return nil, err
	}

	kind := ClientKind(raw)
	msg, err := NewClientMessage(kind)
	if err != nil {
		return nil, fmt.Errorf("%w: %d", err, raw)
	}

	msg.decode(r)
	if err := r.Finish(); err != nil {
		return nil, fmt.Errorf("decode %s: %w", kind, err)
	}
	return msg, nil
}

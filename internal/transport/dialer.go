package transport

import (
	"context"
	"fmt"

	"keeper-client/internal/client"
)

// Виды транспорта в конфиге
const (
	KindWebSocket = "ws"
	KindTCP       = "tcp"
)

// Dialer выбирает транспорт по конфигу и реализует client.Dialer.
type Dialer struct {
	Kind    string
	Options Options
}

func (d Dialer) Dial(ctx context.Context, host string, port int) (client.Transport, error) {
	switch d.Kind {
	case KindWebSocket, "":
		ws, err := DialWebSocket(ctx, host, port, d.Options)
		if err != nil {
			return nil, err
		}
		return ws, nil
	case KindTCP:
		t, err := DialTCP(ctx, host, port, d.Options)
		if err != nil {
			return nil, err
		}
		return t, nil
	}
	return nil, fmt.Errorf("unknown transport %q", d.Kind)
}

package client

import (
	"context"
	"errors"
	"testing"

	"keeper-client/internal/world"
	"keeper-client/pkg/protocol"
)

// --- Транспорт в памяти ---

type fakeTransport struct {
	inbound [][]byte
	sent    [][]byte
	pollErr error
	sendErr error
	closed  bool
}

func (f *fakeTransport) push(msgs ...protocol.ServerMessage) {
	for _, m := range msgs {
		f.inbound = append(f.inbound, protocol.EncodeServer(m))
	}
}

func (f *fakeTransport) Send(body []byte) error {
	if f.sendErr != nil {
		return f.sendErr
	}
	f.sent = append(f.sent, body)
	return nil
}

func (f *fakeTransport) Poll() ([]byte, bool, error) {
	if len(f.inbound) > 0 {
		body := f.inbound[0]
		f.inbound = f.inbound[1:]
		return body, true, nil
	}
	if f.pollErr != nil {
		return nil, false, f.pollErr
	}
	return nil, false, nil
}

func (f *fakeTransport) Close() error {
	f.closed = true
	return nil
}

// sentMessages декодирует всё, что клиент отправил.
func (f *fakeTransport) sentMessages(t *testing.T) []protocol.ClientMessage {
	t.Helper()
	out := make([]protocol.ClientMessage, 0, len(f.sent))
	for _, body := range f.sent {
		msg, err := protocol.DecodeClient(body)
		if err != nil {
			t.Fatalf("client sent undecodable message: %v", err)
		}
		out = append(out, msg)
	}
	return out
}

type fakeDialer struct {
	transport *fakeTransport
	err       error
	calls     int
}

func (d *fakeDialer) Dial(context.Context, string, int) (Transport, error) {
	d.calls++
	if d.err != nil {
		return nil, d.err
	}
	return d.transport, nil
}

// fakeLevels строит реплику с заданными местами и без тайлов.
type fakeLevels struct {
	seats []*world.Seat
	err   error
}

func (l *fakeLevels) Load(path string) (*world.Replica, error) {
	if l.err != nil {
		return nil, l.err
	}
	r := world.NewReplica(nil)
	r.LevelName = path
	for _, s := range l.seats {
		seat := *s
		if err := r.AddEmptySeat(&seat); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// --- Коллабораторы UI ---

type chatLine struct{ nick, text string }

type fakeChat struct {
	lines     []chatLine
	refreshes int
	goals     []string
	errors    []string
}

func (c *fakeChat) PostMessage(nick, text string)     { c.lines = append(c.lines, chatLine{nick, text}) }
func (c *fakeChat) RefreshChat()                      { c.refreshes++ }
func (c *fakeChat) RefreshPlayerDisplay(goals string) { c.goals = append(c.goals, goals) }
func (c *fakeChat) ReportError(text string)           { c.errors = append(c.errors, text) }

type fakeAudio struct {
	played []protocol.Sound
}

func (a *fakeAudio) PlaySound(s protocol.Sound) { a.played = append(a.played, s) }

type recordingSender struct {
	msgs []protocol.ClientMessage
	err  error
}

func (s *recordingSender) Send(msg protocol.ClientMessage) error {
	if s.err != nil {
		return s.err
	}
	s.msgs = append(s.msgs, msg)
	return nil
}

// countingRenderer считает пересчёты тайлов.
type countingRenderer struct {
	refreshed map[world.TileKey]int
}

func newCountingRenderer() *countingRenderer {
	return &countingRenderer{refreshed: make(map[world.TileKey]int)}
}

func (c *countingRenderer) CreateVisual(world.Visual)  {}
func (c *countingRenderer) DestroyVisual(world.Visual) {}
func (c *countingRenderer) RefreshTile(t *world.Tile)  { c.refreshed[t.Key()]++ }

type frame struct {
	turn int64
	body []byte
}

type fakeRecorder struct {
	frames []frame
}

func (r *fakeRecorder) Record(turn int64, body []byte) {
	r.frames = append(r.frames, frame{turn, body})
}

var errBrokenPipe = errors.New("broken pipe")

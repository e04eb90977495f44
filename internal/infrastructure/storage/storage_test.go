package storage

import (
	"bytes"
	"encoding/binary"
	"reflect"
	"testing"

	"keeper-client/pkg/protocol"
)

func TestRecorderSaveAndLoad(t *testing.T) {
	r := NewRecorder(t.TempDir(), "levels/test.yaml")
	frames := []Frame{
		{Turn: -1, Body: protocol.EncodeServer(&protocol.PickNick{})},
		{Turn: -1, Body: protocol.EncodeServer(&protocol.TurnStarted{Turn: 1})},
		{Turn: 1, Body: protocol.EncodeServer(&protocol.Chat{Nick: "a", Text: "b"})},
	}
	for _, f := range frames {
		r.Record(f.Turn, f.Body)
	}
	if r.NumFrames() != 3 {
		t.Fatalf("NumFrames() = %d", r.NumFrames())
	}

	path, err := r.Save()
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	rec, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if rec.Level != "levels/test.yaml" || rec.Timestamp != r.rec.Timestamp {
		t.Errorf("header = %q, %d", rec.Level, rec.Timestamp)
	}
	if !reflect.DeepEqual(rec.Frames, frames) {
		t.Errorf("frames differ:\n got %v\nwant %v", rec.Frames, frames)
	}
}

func TestRecordCopiesBody(t *testing.T) {
	r := NewRecorder(t.TempDir(), "")
	body := []byte{1, 2, 3}
	r.Record(0, body)
	body[0] = 9
	if r.rec.Frames[0].Body[0] != 1 {
		t.Error("recorder must keep its own copy of the frame")
	}
}

func TestReadBinaryRejects(t *testing.T) {
	valid := func() []byte {
		var buf bytes.Buffer
		rec := &Recording{Level: "l", Frames: []Frame{{Turn: 1, Body: []byte{1, 0, 0, 0}}}}
		if err := writeBinary(&buf, rec); err != nil {
			t.Fatal(err)
		}
		return buf.Bytes()
	}

	tests := []struct {
		name   string
		mutate func([]byte) []byte
	}{
		{"bad magic", func(b []byte) []byte { b[0] = 'X'; return b }},
		{"bad version", func(b []byte) []byte { binary.LittleEndian.PutUint32(b[4:], 7); return b }},
		{"truncated frame", func(b []byte) []byte { return b[:len(b)-1] }},
		{"empty", func([]byte) []byte { return nil }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := readBinary(bytes.NewReader(tt.mutate(valid()))); err == nil {
				t.Fatal("expected error")
			}
		})
	}

	if _, err := readBinary(bytes.NewReader(valid())); err != nil {
		t.Fatalf("valid recording rejected: %v", err)
	}
}

func TestReadBinaryDoesNotTrustFrameCount(t *testing.T) {
	header := RecordingFileHeader{
		Version:    Version1,
		FrameCount: 1<<31 - 1,
		MaxFrame:   1 << 20,
	}
	copy(header.Magic[:], MagicHeader)

	var buf bytes.Buffer
	if err := binary.Write(&buf, binary.LittleEndian, &header); err != nil {
		t.Fatal(err)
	}
	if _, err := readBinary(&buf); err == nil {
		t.Fatal("expected error for a header without frames")
	}
}

func TestFrameLimitTravelsWithRecording(t *testing.T) {
	r := NewRecorder(t.TempDir(), "big")
	r.SetMaxFrame(4 << 20)
	big := bytes.Repeat([]byte{7}, 2<<20)
	r.Record(3, big)

	path, err := r.Save()
	if err != nil {
		t.Fatal(err)
	}
	rec, err := Load(path)
	if err != nil {
		t.Fatalf("frame above the default limit rejected: %v", err)
	}
	if rec.MaxFrame != 4<<20 || !bytes.Equal(rec.Frames[0].Body, big) {
		t.Errorf("limit = %d, body %d bytes", rec.MaxFrame, len(rec.Frames[0].Body))
	}
}

func TestReadBinaryRejectsFrameOverLimit(t *testing.T) {
	var buf bytes.Buffer
	rec := &Recording{MaxFrame: 4, Frames: []Frame{{Turn: 1, Body: []byte{1, 2, 3, 4, 5, 6, 7, 8}}}}
	if err := writeBinary(&buf, rec); err != nil {
		t.Fatal(err)
	}
	if _, err := readBinary(&buf); err == nil {
		t.Fatal("expected error for a frame above the recorded limit")
	}
}

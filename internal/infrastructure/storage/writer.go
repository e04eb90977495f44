package storage

import (
	"encoding/binary"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/sasha-s/go-deadlock"
	"github.com/sirupsen/logrus"

	"keeper-client/pkg/logger"
	"keeper-client/pkg/wire"
)

const (
	MagicHeader string = `KCRP` // 4 байта
	Version1    uint32 = 1

	maxLevelLen = 65535
)

// RecordingFileHeader - точное представление заголовка файла в памяти.
// binary.Write пишет его целиком: тут нет слайсов и строк, только массивы и числа.
type RecordingFileHeader struct {
	Magic      [4]byte // 4 байта
	Version    uint32  // 4 байта
	Timestamp  int64   // 8 байт
	FrameCount int32   // 4 байта
	MaxFrame   uint32  // 4 байта, предел тела кадра в этой сессии
	LevelLen   uint16  // 2 байта, сама строка идёт сразу за заголовком
}

// FrameHeader - заголовок каждого записанного кадра.
type FrameHeader struct {
	Turn int64  // 8
	Len  uint32 // 4
}

// Frame - тело входящего кадра и номер хода, при котором он пришёл.
type Frame struct {
	Turn int64
	Body []byte
}

type Recording struct {
	Timestamp int64
	Level     string
	MaxFrame  uint32
	Frames    []Frame
}

// Recorder копит входящие кадры сессии в памяти и сохраняет их одним файлом.
// Реализует client.Recorder.
type Recorder struct {
	SaveDir string

	mu  deadlock.Mutex
	rec Recording
	log *logrus.Entry
}

func NewRecorder(dir, level string) *Recorder {
	// Создаем папку если нет
	if err := os.MkdirAll(dir, 0755); err != nil {
		logger.Component("recorder").WithError(err).Warn("failed to create record dir")
	}
	return &Recorder{
		SaveDir: dir,
		rec: Recording{
			Timestamp: time.Now().Unix(),
			Level:     level,
			MaxFrame:  wire.DefaultMaxFrameSize,
		},
		log:     logger.Component("recorder"),
	}
}

// SetMaxFrame запоминает предел кадра живой сессии (max_frame_size из конфига).
func (r *Recorder) SetMaxFrame(n int) {
	if n <= 0 {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rec.MaxFrame = uint32(n)
}

func (r *Recorder) Record(turn int64, body []byte) {
	cp := make([]byte, len(body))
	copy(cp, body)

	r.mu.Lock()
	defer r.mu.Unlock()
	r.rec.Frames = append(r.rec.Frames, Frame{Turn: turn, Body: cp})
}

func (r *Recorder) NumFrames() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.rec.Frames)
}

// Save пишет recording_<ts>.kcrp и возвращает путь к файлу.
func (r *Recorder) Save() (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	filename := fmt.Sprintf("recording_%d.kcrp", r.rec.Timestamp)
	path := filepath.Join(r.SaveDir, filename)

	f, err := os.Create(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	if err := writeBinary(f, &r.rec); err != nil {
		return "", err
	}
	r.log.WithFields(logrus.Fields{"path": path, "frames": len(r.rec.Frames)}).Info("Recording saved")
	return path, nil
}

func writeBinary(w io.Writer, rec *Recording) error {
	if len(rec.Level) > maxLevelLen {
		return fmt.Errorf("level name too long: %d", len(rec.Level))
	}

	// 1. Глобальный заголовок
	header := RecordingFileHeader{
		Version:    Version1,
		Timestamp:  rec.Timestamp,
		FrameCount: int32(len(rec.Frames)),
		MaxFrame:   rec.MaxFrame,
		LevelLen:   uint16(len(rec.Level)),
	}
	if header.MaxFrame == 0 {
		header.MaxFrame = wire.DefaultMaxFrameSize
	}
	copy(header.Magic[:], MagicHeader)

	if err := binary.Write(w, binary.LittleEndian, &header); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	if _, err := io.WriteString(w, rec.Level); err != nil {
		return fmt.Errorf("failed to write level: %w", err)
	}

	// 2. Кадры
	for _, fr := range rec.Frames {
		fh := FrameHeader{Turn: fr.Turn, Len: uint32(len(fr.Body))}
		if err := binary.Write(w, binary.LittleEndian, &fh); err != nil {
			return err
		}
		if _, err := w.Write(fr.Body); err != nil {
			return err
		}
	}

	return nil
}

package wire

import (
	"encoding/binary"
	"fmt"
	"io"
)

// FrameHeaderSize - префикс длины кадра (uint32).
const FrameHeaderSize = 4

// DefaultMaxFrameSize - ограничение на размер тела одного кадра.
const DefaultMaxFrameSize = 1 << 20

// WriteFrame пишет один кадр: uint32 длина + тело.
func WriteFrame(w io.Writer, body []byte) error {
	if len(body) == 0 {
		return fmt.Errorf("%w: empty frame", ErrMalformed)
	}
	frame := make([]byte, FrameHeaderSize, FrameHeaderSize+len(body))
	binary.LittleEndian.PutUint32(frame, uint32(len(body)))
	frame = append(frame, body...)
	_, err := w.Write(frame)
	return err
}

// ReadFrame читает один кадр. Возвращает io.EOF, если поток закончился ровно на
// границе кадра, и io.ErrUnexpectedEOF, если посередине.
func ReadFrame(r io.Reader, maxSize int) ([]byte, error) {
	var header [FrameHeaderSize]byte
	if _, err := io.ReadFull(r, header[:]); err != nil {
		return nil, err
	}

	n := binary.LittleEndian.Uint32(header[:])
	if n == 0 || int64(n) > int64(maxSize) {
		return nil, fmt.Errorf("%w: frame length %d (max %d)", ErrMalformed, n, maxSize)
	}

	body := make([]byte, n)
	if _, err := io.ReadFull(r, body); err != nil {
		if err == io.EOF {
			err = io.ErrUnexpectedEOF
		}
		return nil, err
	}
	return body, nil
}

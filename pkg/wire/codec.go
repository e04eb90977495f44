// Package wire реализует бинарный кодек пакетов: примитивы фиксированной ширины,
// строки с префиксом длины и кадры (frame) с префиксом длины.
// Порядок байт - little-endian.
package wire

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"
	"unicode/utf8"
)

// ErrMalformed - сообщение обрезано, содержит значение вне допустимого диапазона
// или лишние байты в конце.
var ErrMalformed = errors.New("malformed message")

const (
	// MaxStringLen - максимальная длина строки в байтах.
	MaxStringLen = 64 << 10
	// MaxListLen - максимальное число элементов в списке (tiles в buildRoom и т.п.).
	MaxListLen = 4096
)

// Writer накапливает закодированные значения.
type Writer struct {
	buf []byte
}

func NewWriter() *Writer {
	return &Writer{buf: make([]byte, 0, 64)}
}

func (w *Writer) Uint8(v uint8) {
	w.buf = append(w.buf, v)
}

func (w *Writer) Bool(v bool) {
	if v {
		w.buf = append(w.buf, 1)
		return
	}
	w.buf = append(w.buf, 0)
}

func (w *Writer) Int32(v int32) {
	w.buf = binary.LittleEndian.AppendUint32(w.buf, uint32(v))
}

func (w *Writer) Int64(v int64) {
	w.buf = binary.LittleEndian.AppendUint64(w.buf, uint64(v))
}

func (w *Writer) Float64(v float64) {
	w.buf = binary.LittleEndian.AppendUint64(w.buf, math.Float64bits(v))
}

func (w *Writer) String(s string) {
	w.buf = binary.LittleEndian.AppendUint32(w.buf, uint32(len(s)))
	w.buf = append(w.buf, s...)
}

// Bytes возвращает накопленный буфер (без копирования).
func (w *Writer) Bytes() []byte { return w.buf }

func (w *Writer) Len() int { return len(w.buf) }

func (w *Writer) Reset() { w.buf = w.buf[:0] }

// Reader читает значения из тела сообщения.
// Первая ошибка "залипает": все последующие чтения возвращают нулевые значения,
// а Err() возвращает исходную причину.
type Reader struct {
	buf []byte
	off int
	err error
}

func NewReader(body []byte) *Reader {
	return &Reader{buf: body}
}

func (r *Reader) Err() error { return r.err }

// Remaining - сколько байт ещё не прочитано.
func (r *Reader) Remaining() int { return len(r.buf) - r.off }

// Fail фиксирует ошибку разбора, если её ещё нет.
func (r *Reader) Fail(format string, args ...any) {
	if r.err == nil {
		r.err = fmt.Errorf("%w: %s", ErrMalformed, fmt.Sprintf(format, args...))
	}
}

func (r *Reader) take(n int, what string) []byte {
	if r.err != nil {
		return nil
	}
	if r.Remaining() < n {
		r.Fail("need %d bytes for %s at offset %d, have %d", n, what, r.off, r.Remaining())
		return nil
	}
	b := r.buf[r.off : r.off+n]
	r.off += n
	return b
}

func (r *Reader) Uint8() uint8 {
	b := r.take(1, "uint8")
	if b == nil {
		return 0
	}
	return b[0]
}

func (r *Reader) Bool() bool {
	b := r.take(1, "bool")
	if b == nil {
		return false
	}
	switch b[0] {
	case 0:
		return false
	case 1:
		return true
	}
	r.Fail("invalid bool byte 0x%02x", b[0])
	return false
}

func (r *Reader) Int32() int32 {
	b := r.take(4, "int32")
	if b == nil {
		return 0
	}
	return int32(binary.LittleEndian.Uint32(b))
}

func (r *Reader) Int64() int64 {
	b := r.take(8, "int64")
	if b == nil {
		return 0
	}
	return int64(binary.LittleEndian.Uint64(b))
}

func (r *Reader) Float64() float64 {
	b := r.take(8, "float64")
	if b == nil {
		return 0
	}
	return math.Float64frombits(binary.LittleEndian.Uint64(b))
}

func (r *Reader) String() string {
	b := r.take(4, "string length")
	if b == nil {
		return ""
	}
	n := binary.LittleEndian.Uint32(b)
	if n > MaxStringLen {
		r.Fail("string length %d exceeds %d", n, MaxStringLen)
		return ""
	}
	s := r.take(int(n), "string body")
	if s == nil {
		return ""
	}
	if !utf8.Valid(s) {
		r.Fail("string is not valid UTF-8")
		return ""
	}
	return string(s)
}

// Enum читает int32 из закрытого множества [0, limit).
func (r *Reader) Enum(limit int32, what string) int32 {
	v := r.Int32()
	if r.err != nil {
		return 0
	}
	if v < 0 || v >= limit {
		r.Fail("%s %d out of range [0,%d)", what, v, limit)
		return 0
	}
	return v
}

// Count читает длину списка и проверяет её против MaxListLen.
func (r *Reader) Count(what string) int {
	v := r.Int32()
	if r.err != nil {
		return 0
	}
	if v < 0 || v > MaxListLen {
		r.Fail("%s count %d out of range", what, v)
		return 0
	}
	return int(v)
}

// Finish завершает разбор: ошибка, если чтение сломалось или остались лишние байты.
func (r *Reader) Finish() error {
	if r.err != nil {
		return r.err
	}
	if r.Remaining() != 0 {
		return fmt.Errorf("%w: %d trailing bytes", ErrMalformed, r.Remaining())
	}
	return nil
}

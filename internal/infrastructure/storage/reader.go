package storage

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"os"
)

// preallocFrames - сколько кадров резервировать заранее.
const preallocFrames = 1024

func Load(path string) (*Recording, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return readBinary(bufio.NewReader(f))
}

func readBinary(r io.Reader) (*Recording, error) {
	// 1. Читаем заголовок целиком
	var header RecordingFileHeader
	if err := binary.Read(r, binary.LittleEndian, &header); err != nil {
		return nil, fmt.Errorf("failed to read header: %w", err)
	}

	// Валидация
	if string(header.Magic[:]) != MagicHeader {
		return nil, fmt.Errorf("invalid magic")
	}
	if header.Version != Version1 {
		return nil, fmt.Errorf("unsupported version: %d (expected %d)", header.Version, Version1)
	}
	if header.FrameCount < 0 {
		return nil, fmt.Errorf("negative frame count: %d", header.FrameCount)
	}
	if header.MaxFrame == 0 {
		return nil, fmt.Errorf("zero frame limit")
	}

	level := make([]byte, header.LevelLen)
	if _, err := io.ReadFull(r, level); err != nil {
		return nil, fmt.Errorf("failed to read level: %w", err)
	}

	// Заголовку не верим: слайс растёт по мере чтения.
	rec := &Recording{
		Timestamp: header.Timestamp,
		Level:     string(level),
		MaxFrame:  header.MaxFrame,
		Frames:    make([]Frame, 0, min(int(header.FrameCount), preallocFrames)),
	}

	// 2. Читаем кадры
	for i := 0; i < int(header.FrameCount); i++ {
		var fh FrameHeader
		if err := binary.Read(r, binary.LittleEndian, &fh); err != nil {
			return nil, fmt.Errorf("frame %d: %w", i, err)
		}
		if fh.Len == 0 || fh.Len > header.MaxFrame {
			return nil, fmt.Errorf("frame %d: length %d out of range (limit %d)", i, fh.Len, header.MaxFrame)
		}

		// CopyN растит буфер по мере прихода данных, обрезанный файл не выделит fh.Len заранее.
		var body bytes.Buffer
		if _, err := io.CopyN(&body, r, int64(fh.Len)); err != nil {
			if err == io.EOF {
				err = io.ErrUnexpectedEOF
			}
			return nil, fmt.Errorf("frame %d: %w", i, err)
		}
		rec.Frames = append(rec.Frames, Frame{Turn: fh.Turn, Body: body.Bytes()})
	}

	return rec, nil
}

package world

import (
	"errors"
	"fmt"
)

var (
	// ErrUnresolved - ссылка по ключу (имя, цвет, координаты) не найдена в реплике.
	ErrUnresolved = errors.New("unresolved reference")
	// ErrDuplicate - событие создания для уже существующего ключа.
	ErrDuplicate = errors.New("duplicate key")
	// ErrInvalidState - переход невозможен в текущем состоянии (drop без поднятого существа и т.п.).
	ErrInvalidState = errors.New("invalid state")
)

func unresolved(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrUnresolved, fmt.Sprintf(format, args...))
}

func duplicate(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrDuplicate, fmt.Sprintf(format, args...))
}

func invalidState(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidState, fmt.Sprintf(format, args...))
}

package client

import "errors"

var (
	// ErrTransport - отказ сокета. Фатален для сессии, но не для процесса.
	ErrTransport = errors.New("transport failure")
	// ErrUnknownIntent - в очереди оказалось сообщение, которое передатчик не умеет отправлять.
	// Это ошибка клиента (каталог и таблица передачи разошлись), а не сервера.
	ErrUnknownIntent = errors.New("unknown outbound intent")

	ErrAlreadyConnected = errors.New("already connected")
	ErrNotConnected     = errors.New("not connected")
	// ErrNoHumanSeat - в уровне нет ни одного места для игрока-человека.
	ErrNoHumanSeat = errors.New("level has no human seat")
)

package logger

import (
	"io"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
)

// Log является глобальным экземпляром логгера для всего приложения.
// До вызова Init работает с настройками по умолчанию (info, text), поэтому пакеты и тесты
// могут писать в него сразу.
var Log = newLogger("info", "text")

// Init настраивает глобальный логгер.
// Эта функция должна быть вызвана один раз при старте приложения в main.go.
// Переменные окружения LOG_LEVEL и LOG_FORMAT имеют приоритет над аргументами.
func Init(level, format string) {
	if v, ok := os.LookupEnv("LOG_LEVEL"); ok && v != "" {
		level = v
	}
	if v, ok := os.LookupEnv("LOG_FORMAT"); ok && v != "" {
		format = v
	}
	Log = newLogger(level, format)
}

func newLogger(level, format string) *logrus.Logger {
	l := logrus.New()

	// 1. Уровень. Неизвестное значение - "info".
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		lvl = logrus.InfoLevel
	}
	l.SetLevel(lvl)

	// 2. Форматтер.
	// "json" - для продакшена и сбора логов.
	// "text" - для удобной разработки.
	if strings.ToLower(format) == "json" {
		l.SetFormatter(&logrus.JSONFormatter{})
	} else {
		l.SetFormatter(&logrus.TextFormatter{
			FullTimestamp: true,
		})
	}

	l.SetOutput(os.Stdout)
	return l
}

// Component - логгер с полем component (dispatcher, session, transport...).
func Component(name string) *logrus.Entry {
	return Log.WithField("component", name)
}

// Silence направляет вывод в никуда (тесты с шумными сценариями).
func Silence() {
	Log.SetOutput(io.Discard)
}

// Package logging настраивает структурированное логирование сервиса.
// Логи пишутся в JSON через log/slog, чтобы их было удобно собирать и фильтровать.
package logging

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

// Уровни логирования, принимаемые в конфигурации
const (
	LevelDebug = "DEBUG"
	LevelInfo  = "INFO"
	LevelWarn  = "WARN"
	LevelError = "ERROR"
)

// New создает JSON-логгер, пишущий в w. Если w == nil, используется stderr.
func New(w io.Writer, level string) *slog.Logger {
	if w == nil {
		w = os.Stderr
	}
	handler := slog.NewJSONHandler(w, &slog.HandlerOptions{Level: ParseLevel(level)})
	return slog.New(handler)
}

// Nop возвращает логгер, который ничего не пишет.
func Nop() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// ParseLevel переводит строковый уровень в slog.Level. Неизвестные значения дают INFO.
func ParseLevel(level string) slog.Level {
	switch strings.ToUpper(strings.TrimSpace(level)) {
	case LevelDebug:
		return slog.LevelDebug
	case LevelWarn:
		return slog.LevelWarn
	case LevelError:
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

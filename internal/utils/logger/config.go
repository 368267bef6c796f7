// internal/utils/logger/config.go
package logger

import "io"

type Config struct {
	Level       string // debug, info, warn, error
	LogFile     string // пусто: только консоль
	MaxSize     int    // мегабайты
	MaxAge      int    // дни
	MaxBackups  int
	Compress    bool
	Development bool

	// Console получает человекочитаемый вывод, по умолчанию os.Stdout.
	// Команды, пишущие события в stdout, переключают его на os.Stderr.
	Console io.Writer
}

// DefaultConfig возвращает конфигурацию по умолчанию
func DefaultConfig() *Config {
	return &Config{
		Level:      "info",
		LogFile:    "pumpfun.log",
		MaxSize:    100,
		MaxAge:     7,
		MaxBackups: 3,
		Compress:   true,
	}
}

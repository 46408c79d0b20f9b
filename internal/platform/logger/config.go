package logger

import (
	"cmp"
	"os"
	"strings"

	"go.uber.org/zap/zapcore"
)

// Config selects the level, encoding and destination of the process logger.
// It is read from LOG_LEVEL, LOG_FORMAT and LOG_OUTPUT_FILE before the rest of
// the configuration is loaded, so startup errors are logged too.
type Config struct {
	Level  zapcore.Level
	Format string
	Output string
}

func configFromEnv() Config {
	level, err := zapcore.ParseLevel(os.Getenv("LOG_LEVEL"))
	if err != nil {
		level = zapcore.InfoLevel
	}
	return Config{
		Level:  level,
		Format: strings.ToLower(cmp.Or(os.Getenv("LOG_FORMAT"), "json")),
		Output: cmp.Or(os.Getenv("LOG_OUTPUT_FILE"), "stdout"),
	}
}

// toFile reports whether output goes to a file in addition to stdout.
func (c Config) toFile() bool {
	return c.Output != "stdout" && c.Output != "stderr"
}

package logger

import (
	"fmt"
	"os"
	"strings"

	"go.uber.org/zap/zapcore"
)

const (
	FormatJSON    = "json"
	FormatConsole = "console"
)

// LoggerConfig holds configuration for the logger.
type LoggerConfig struct {
	Level      string
	Format     string
	OutputFile string
}

// DefaultConfig reads LOG_LEVEL, LOG_FORMAT and LOG_OUTPUT_FILE from the process environment.
func DefaultConfig() *LoggerConfig {
	return ConfigFromEnv(os.LookupEnv)
}

// ConfigFromEnv builds a config from lookup. Unset or blank keys keep their defaults.
func ConfigFromEnv(lookup func(string) (string, bool)) *LoggerConfig {
	get := func(key, fallback string) string {
		if v, ok := lookup(key); ok && strings.TrimSpace(v) != "" {
			return strings.TrimSpace(v)
		}
		return fallback
	}
	return &LoggerConfig{
		Level:      strings.ToLower(get("LOG_LEVEL", "info")),
		Format:     strings.ToLower(get("LOG_FORMAT", FormatJSON)),
		OutputFile: get("LOG_OUTPUT_FILE", "stdout"),
	}
}

// Normalize folds aliases ("text", "warning") into their canonical names and
// resets unknown values to the json/info defaults. The returned error lists what
// was reset; the config is usable either way.
func (c *LoggerConfig) Normalize() error {
	var problems []string

	switch c.Format {
	case FormatJSON, FormatConsole:
	case "text":
		c.Format = FormatConsole
	case "":
		c.Format = FormatJSON
	default:
		problems = append(problems, fmt.Sprintf("unknown LOG_FORMAT %q, using %s", c.Format, FormatJSON))
		c.Format = FormatJSON
	}

	switch c.Level {
	case "debug", "info", "warn", "error":
	case "warning":
		c.Level = "warn"
	case "":
		c.Level = "info"
	default:
		problems = append(problems, fmt.Sprintf("unknown LOG_LEVEL %q, using info", c.Level))
		c.Level = "info"
	}

	if len(problems) > 0 {
		return fmt.Errorf("logger: %s", strings.Join(problems, "; "))
	}
	return nil
}

// ToZapLevel converts the string log level to zapcore.Level. Unknown levels map to info.
func (c *LoggerConfig) ToZapLevel() zapcore.Level {
	switch c.Level {
	case "debug":
		return zapcore.DebugLevel
	case "warn", "warning":
		return zapcore.WarnLevel
	case "error":
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}

// Console reports whether the human-readable encoder is selected.
func (c *LoggerConfig) Console() bool {
	return c.Format == FormatConsole || c.Format == "text"
}

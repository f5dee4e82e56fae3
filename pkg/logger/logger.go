package logger

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// Options configures SetupLogging.
type Options struct {
	Dir    string
	Level  string
	Format string // "console" or "json"
}

// Global variable to track the rotating writer for proper cleanup
var activeRotatingWriter *DailyRotatingWriter

// SetupLogging configures the application logging: console (or JSON) output on
// stdout plus JSON lines in a daily rotating file under opts.Dir.
func SetupLogging(opts Options) (zerolog.Logger, error) {
	zerolog.TimeFieldFormat = time.RFC3339

	if err := os.MkdirAll(opts.Dir, 0755); err != nil {
		return zerolog.Nop(), fmt.Errorf("failed to create logs directory: %w", err)
	}

	fileWriter, err := NewDailyRotatingWriter(opts.Dir, "whatsapp-gateway-%s.log")
	if err != nil {
		return zerolog.Nop(), fmt.Errorf("failed to create log writer: %w", err)
	}
	activeRotatingWriter = fileWriter

	out := zerolog.MultiLevelWriter(consoleWriter(os.Stdout, opts.Format), fileWriter)
	logger := zerolog.New(out).
		Level(ParseLevel(opts.Level)).
		With().
		Timestamp().
		Logger()

	logger.Info().Str("file", fileWriter.Path()).Msg("Logging initialized")
	return logger, nil
}

// SetupFallbackLogger creates a simple console logger when file logging fails
func SetupFallbackLogger(level string) zerolog.Logger {
	fmt.Fprintln(os.Stderr, "Failed to set up file logging, using console logging only")
	return zerolog.New(consoleWriter(os.Stdout, "console")).
		Level(ParseLevel(level)).
		With().
		Timestamp().
		Logger()
}

// ParseLevel maps a level name to a zerolog level, defaulting to info.
func ParseLevel(level string) zerolog.Level {
	lvl, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(level)))
	if err != nil || lvl == zerolog.NoLevel {
		return zerolog.InfoLevel
	}
	return lvl
}

// CloseLogger properly closes the log file
func CloseLogger() error {
	if activeRotatingWriter != nil {
		return activeRotatingWriter.Close()
	}
	return nil
}

func consoleWriter(w io.Writer, format string) io.Writer {
	if format == "json" {
		return w
	}
	return zerolog.ConsoleWriter{Out: w, TimeFormat: "15:04:05"}
}

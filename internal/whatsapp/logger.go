package whatsapp

import (
	"fmt"

	"github.com/rs/zerolog"
	waLog "go.mau.fi/whatsmeow/util/log"
)

// zeroLogger bridges whatsmeow's logger interface onto zerolog
type zeroLogger struct {
	logger zerolog.Logger
}

func newWALogger(logger zerolog.Logger, module string) waLog.Logger {
	return &zeroLogger{logger: logger.With().Str("module", module).Logger()}
}

func (l *zeroLogger) Errorf(msg string, args ...interface{}) {
	l.logger.Error().Msg(fmt.Sprintf(msg, args...))
}

func (l *zeroLogger) Warnf(msg string, args ...interface{}) {
	l.logger.Warn().Msg(fmt.Sprintf(msg, args...))
}

func (l *zeroLogger) Infof(msg string, args ...interface{}) {
	l.logger.Info().Msg(fmt.Sprintf(msg, args...))
}

func (l *zeroLogger) Debugf(msg string, args ...interface{}) {
	l.logger.Debug().Msg(fmt.Sprintf(msg, args...))
}

func (l *zeroLogger) Sub(module string) waLog.Logger {
	return &zeroLogger{logger: l.logger.With().Str("sub", module).Logger()}
}

package whatsapp

import (
	"fmt"
	"log/slog"

	waLog "go.mau.fi/whatsmeow/util/log"
)

type slogLogger struct {
	l      *slog.Logger
	module string
}

// NewLogger bridges whatsmeow's logger onto slog.
func NewLogger(l *slog.Logger, module string) waLog.Logger {
	if l == nil {
		l = slog.Default()
	}
	return &slogLogger{l: l.With(slog.String("module", module)), module: module}
}

func (s *slogLogger) Errorf(msg string, args ...interface{}) { s.l.Error(fmt.Sprintf(msg, args...)) }
func (s *slogLogger) Warnf(msg string, args ...interface{})  { s.l.Warn(fmt.Sprintf(msg, args...)) }
func (s *slogLogger) Infof(msg string, args ...interface{})  { s.l.Info(fmt.Sprintf(msg, args...)) }
func (s *slogLogger) Debugf(msg string, args ...interface{}) { s.l.Debug(fmt.Sprintf(msg, args...)) }

func (s *slogLogger) Sub(module string) waLog.Logger {
	name := s.module + "/" + module
	return &slogLogger{l: s.l.With(slog.String("sub", module)), module: name}
}

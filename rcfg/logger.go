package rcfg

import "go.uber.org/zap"

// Logger is the small interface core packages depend on; callers may wire
// in any implementation. DefaultLogger wraps zap's SugaredLogger, the
// logging library the rest of this module's dependency pack uses.
type Logger interface {
	Warnf(format string, args ...interface{})
	Infof(format string, args ...interface{})
}

type zapLogger struct {
	s *zap.SugaredLogger
}

// NewDefaultLogger builds a production zap logger and wraps it as a Logger.
// Falls back to a no-op logger if zap construction fails, since logging
// must never be the reason a rule-interpretation warning (spec §7) panics
// the caller.
func NewDefaultLogger() Logger {
	z, err := zap.NewProduction()
	if err != nil {
		return noopLogger{}
	}
	return &zapLogger{s: z.Sugar()}
}

func (l *zapLogger) Warnf(format string, args ...interface{}) { l.s.Warnf(format, args...) }
func (l *zapLogger) Infof(format string, args ...interface{}) { l.s.Infof(format, args...) }

type noopLogger struct{}

func (noopLogger) Warnf(string, ...interface{}) {}
func (noopLogger) Infof(string, ...interface{}) {}

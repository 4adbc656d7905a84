// Package logger provides the logging interface used across the hushbox
// server. It is backed by logrus; the interface exists so tests can inject
// silent or capturing loggers.
package logger

import (
	"io"
	"strings"

	log "github.com/sirupsen/logrus"
)

// Logger interface is used to allow tests to inject custom loggers.
type Logger interface {
	Fatalf(string, ...interface{})
	Debugf(string, ...interface{})
	Errorf(string, ...interface{})
	Infof(string, ...interface{})
	Warnf(string, ...interface{})
	Debug(...interface{})
	Warn(...interface{})
	Info(...interface{})
	Fatal(...interface{})
	Writer() io.Writer
	SetWriter(io.Writer)
}

type logger struct {
	*log.Logger
}

// NewLogger returns a new Logger instance backed by Logrus.
func NewLogger(level uint32) Logger {
	l := log.New()
	l.SetLevel(log.Level(level))
	logFormatter := &log.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02 15:04:05",
	}
	l.Formatter = logFormatter
	return &logger{l}
}

func (l *logger) Writer() io.Writer {
	return l.Out
}

func (l *logger) SetWriter(writer io.Writer) {
	l.Out = writer
}

// ginWriter forwards gin's plain-line log output through a Logger so the
// HTTP framework and the rest of the server share one log format.
type ginWriter struct {
	logger Logger
}

// NewGinWriter returns an io.Writer suitable for gin's request log. When
// enabled is false the returned writer discards everything.
func NewGinWriter(logger Logger, enabled bool) io.Writer {
	if enabled {
		return &ginWriter{logger}
	}
	return io.Discard
}

func (w *ginWriter) Write(p []byte) (int, error) {
	w.logger.Debugf("gin: %s", strings.TrimRight(string(p), "\n"))
	return len(p), nil
}

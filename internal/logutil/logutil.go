// Package logutil provides the named zap loggers used across starql.
//
// All loggers returned by GetLogger share one core. Nothing is encoded or
// written until SetOutput or SetOutputFile installs a sink.
package logutil

import (
	"io"
	"os"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// disabled is above every level zap logs at
const disabled = zapcore.FatalLevel + 1

var (
	level = zap.NewAtomicLevelAt(disabled)
	sink  = &switchWriter{w: io.Discard}
	root  = zap.New(zapcore.NewCore(newEncoder(), zapcore.AddSync(sink), level))
)

func newEncoder() zapcore.Encoder {
	cfg := zap.NewProductionEncoderConfig()
	cfg.EncodeTime = zapcore.RFC3339TimeEncoder
	return zapcore.NewConsoleEncoder(cfg)
}

// switchWriter lets the output change after loggers have been handed out
type switchWriter struct {
	mu sync.Mutex
	w  io.Writer
}

func (s *switchWriter) Write(p []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.w.Write(p)
}

func (s *switchWriter) Sync() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if f, ok := s.w.(*os.File); ok {
		return f.Sync()
	}
	return nil
}

// swap installs w and returns the previous writer
func (s *switchWriter) swap(w io.Writer) io.Writer {
	s.mu.Lock()
	defer s.mu.Unlock()
	old := s.w
	s.w = w
	return old
}

// GetLogger returns a logger named after the component using it
func GetLogger(name string) *zap.Logger {
	return root.Named(name)
}

// Enabled reports whether log entries are currently written anywhere
func Enabled() bool {
	return level.Enabled(zapcore.DebugLevel)
}

// SetOutput sends the output of every logger to w, at debug level and up.
// io.Discard turns logging off. A file opened by SetOutputFile is closed.
func SetOutput(w io.Writer) {
	if w == io.Discard {
		level.SetLevel(disabled)
	} else {
		level.SetLevel(zapcore.DebugLevel)
	}
	if f, ok := sink.swap(w).(*os.File); ok {
		_ = f.Close()
	}
}

// SetOutputFile sends log output to the named file, truncating it.
// SetOutputFile("") is equivalent to SetOutput(io.Discard).
func SetOutputFile(fname string) error {
	if fname == "" {
		SetOutput(io.Discard)
		return nil
	}
	file, err := os.OpenFile(fname, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0644)
	if err != nil {
		return err
	}
	SetOutput(file)
	return nil
}

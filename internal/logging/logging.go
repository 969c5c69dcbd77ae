// Package logging builds the zap loggers used by the library and the
// command line tool.
package logging

import (
	"io"
	"os"
	"strings"

	"github.com/pkg/errors"
	zaplogfmt "github.com/sykesm/zap-logfmt"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Supported encodings.
const (
	JSON    = "json"
	Console = "console"
	Logfmt  = "logfmt"
)

// ErrUnknownFormat is returned for an unsupported Config.Format.
var ErrUnknownFormat = errors.New("logging: unknown format")

// Config selects the encoding, level and sink of a logger.
type Config struct {
	// Format is one of JSON, Console or Logfmt. Empty means Console.
	Format string
	// Level is a zap level name such as "debug" or "warn". Empty means
	// info.
	Level string
	// Writer receives the encoded records. Nil means os.Stderr.
	Writer io.Writer
}

// New returns a logger named "ecsafe" built from c.
func New(c Config) (*zap.Logger, error) {
	encoderConfig := zap.NewProductionEncoderConfig()
	encoderConfig.NameKey = "name"
	encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	var enc zapcore.Encoder
	switch strings.ToLower(c.Format) {
	case JSON:
		enc = zapcore.NewJSONEncoder(encoderConfig)
	case Logfmt:
		enc = zaplogfmt.NewEncoder(encoderConfig)
	case Console, "":
		enc = zapcore.NewConsoleEncoder(encoderConfig)
	default:
		return nil, errors.Wrapf(ErrUnknownFormat, "%q", c.Format)
	}

	level := zapcore.InfoLevel
	if c.Level != "" {
		if err := level.UnmarshalText([]byte(c.Level)); err != nil {
			return nil, errors.Wrapf(err, "parsing log level %q", c.Level)
		}
	}

	w := c.Writer
	if w == nil {
		w = os.Stderr
	}
	var sink zapcore.WriteSyncer
	switch t := w.(type) {
	case *os.File:
		sink = zapcore.Lock(t)
	case zapcore.WriteSyncer:
		sink = t
	default:
		sink = zapcore.AddSync(w)
	}

	core := zapcore.NewCore(enc, sink, zap.NewAtomicLevelAt(level))
	return zap.New(core, zap.AddCaller(), zap.AddStacktrace(zapcore.ErrorLevel)).Named("ecsafe"), nil
}

// Nop returns a logger that discards everything.
func Nop() *zap.Logger {
	return zap.NewNop()
}

// Redacted stands in for a secret value in a log entry.
func Redacted(key string) zap.Field {
	return zap.String(key, "[redacted]")
}

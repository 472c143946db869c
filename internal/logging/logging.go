// Package logging holds craftwiz's global zap logger. Reports go to stdout,
// so diagnostics default to stderr.
package logging

import (
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	Logger *zap.Logger
	Sugar  *zap.SugaredLogger
)

// Config is the logging section of craftwiz.yaml.
type Config struct {
	// Level is debug, info, warn or error. Unknown values mean info.
	Level string `yaml:"level"`

	// Format is console or json
	Format string `yaml:"format"`

	// Output is stderr, stdout or a file path to append to
	Output string `yaml:"output"`

	// Debug forces debug level, as --verbose or DEBUG=1 do
	Debug bool `yaml:"debug"`
}

func DefaultConfig() Config {
	return Config{Level: "info", Format: "console", Output: "stderr"}
}

// DebugRequested reports whether the environment asks for debug traces.
func DebugRequested() bool {
	return os.Getenv("DEBUG") == "1"
}

// Initialize replaces the global logger. Console output is meant for a
// terminal: no timestamps and no caller. JSON lines carry both.
func Initialize(cfg Config) error {
	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		level = zapcore.InfoLevel
	}
	if cfg.Debug || DebugRequested() {
		level = zapcore.DebugLevel
	}

	var out zapcore.WriteSyncer
	switch cfg.Output {
	case "", "stderr":
		out = zapcore.Lock(os.Stderr)
	case "stdout":
		out = zapcore.Lock(os.Stdout)
	default:
		file, err := os.OpenFile(cfg.Output, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
		if err != nil {
			return err
		}
		out = zapcore.AddSync(file)
	}

	var (
		enc  zapcore.Encoder
		opts []zap.Option
	)
	if cfg.Format == "json" {
		ec := zap.NewProductionEncoderConfig()
		ec.TimeKey = "timestamp"
		ec.EncodeTime = zapcore.ISO8601TimeEncoder
		enc = zapcore.NewJSONEncoder(ec)
		opts = append(opts, zap.AddCaller(), zap.AddCallerSkip(1))
	} else {
		ec := zap.NewDevelopmentEncoderConfig()
		ec.TimeKey = ""
		ec.CallerKey = ""
		ec.EncodeLevel = zapcore.CapitalColorLevelEncoder
		enc = zapcore.NewConsoleEncoder(ec)
	}

	Replace(zap.New(zapcore.NewCore(enc, out, level), opts...))
	return nil
}

// Replace swaps the global logger and returns a func restoring the previous
// one. Tests use it with zaptest/observer to capture diagnostics.
func Replace(l *zap.Logger) func() {
	prev := Logger
	Logger = l
	Sugar = l.Sugar()
	return func() {
		if prev != nil {
			Logger = prev
			Sugar = prev.Sugar()
		}
	}
}

func Sync() {
	if Logger != nil {
		_ = Logger.Sync()
	}
}

func Debug(msg string, fields ...zap.Field) {
	Logger.Debug(msg, fields...)
}

// Debugf is the printf-style trace used on hot paths where building fields
// would be wasted work at info level.
func Debugf(format string, args ...any) {
	Sugar.Debugf(format, args...)
}

func Info(msg string, fields ...zap.Field) {
	Logger.Info(msg, fields...)
}

func Warn(msg string, fields ...zap.Field) {
	Logger.Warn(msg, fields...)
}

func init() {
	_ = Initialize(DefaultConfig())
}

package log

import (
	"io"
	"os"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	mu          sync.RWMutex
	verbose     = false
	disableLogs = false
	forceStdErr = false

	stdout io.Writer = os.Stdout
	stderr io.Writer = os.Stderr

	level  = zap.NewAtomicLevelAt(zapcore.InfoLevel)
	logger *zap.Logger
	sugar  *zap.SugaredLogger
)

func init() {
	rebuild()
}

// rebuild recreates the zap core after an output setting changed.
// Callers must hold mu.
func rebuild() {
	encoderCfg := zapcore.EncoderConfig{
		LevelKey:         "level",
		MessageKey:       "msg",
		NameKey:          "logger",
		EncodeLevel:      zapcore.CapitalColorLevelEncoder,
		EncodeDuration:   zapcore.StringDurationEncoder,
		ConsoleSeparator: " ",
	}
	encoder := zapcore.NewConsoleEncoder(encoderCfg)

	errSink := zapcore.Lock(zapcore.AddSync(stderr))
	outSink := zapcore.Lock(zapcore.AddSync(stdout))
	if forceStdErr {
		outSink = errSink
	}

	low := zap.LevelEnablerFunc(func(l zapcore.Level) bool {
		return level.Enabled(l) && l < zapcore.ErrorLevel
	})
	high := zap.LevelEnablerFunc(func(l zapcore.Level) bool {
		return level.Enabled(l) && l >= zapcore.ErrorLevel
	})

	logger = zap.New(zapcore.NewTee(
		zapcore.NewCore(encoder, outSink, low),
		zapcore.NewCore(encoder, errSink, high),
	))
	sugar = logger.Sugar()
}

// SetVerbose sets the logging verbosity. If true, all log levels are displayed.
func SetVerbose(v bool) {
	mu.Lock()
	defer mu.Unlock()
	verbose = v
	if v {
		level.SetLevel(zapcore.DebugLevel)
	} else {
		level.SetLevel(zapcore.InfoLevel)
	}
}

// IsVerbose returns true if verbose logging is enabled.
func IsVerbose() bool {
	mu.RLock()
	defer mu.RUnlock()
	return verbose
}

// DisableLogs disables all logging.
func DisableLogs() {
	mu.Lock()
	defer mu.Unlock()
	disableLogs = true
}

// IsDisabled returns true if logging is disabled.
func IsDisabled() bool {
	mu.RLock()
	defer mu.RUnlock()
	return disableLogs
}

// SetForceStdErr sends every level to stderr.
func SetForceStdErr(v bool) {
	mu.Lock()
	defer mu.Unlock()
	forceStdErr = v
	rebuild()
}

// SetOutput replaces the stdout/stderr sinks. A nil writer keeps the current one.
func SetOutput(out, errOut io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	if out != nil {
		stdout = out
	}
	if errOut != nil {
		stderr = errOut
	}
	rebuild()
}

// Logger returns the structured logger behind the package functions.
// It is a no-op logger while logs are disabled.
func Logger() *zap.Logger {
	mu.RLock()
	defer mu.RUnlock()
	if disableLogs {
		return zap.NewNop()
	}
	return logger
}

// Sync flushes buffered log entries.
func Sync() {
	mu.RLock()
	defer mu.RUnlock()
	_ = logger.Sync()
}

// Debugf logs a debug message if verbose is true.
func Debugf(format string, args ...interface{}) {
	current().Debugf(format, args...)
}

// Infof logs an info message.
func Infof(format string, args ...interface{}) {
	current().Infof(format, args...)
}

// Warnf logs a warning message.
func Warnf(format string, args ...interface{}) {
	current().Warnf(format, args...)
}

// Errorf logs an error message.
func Errorf(format string, args ...interface{}) {
	current().Errorf(format, args...)
}

// Fatalf logs an error message and exits the program.
func Fatalf(format string, args ...interface{}) {
	current().Errorf(format, args...)
	Sync()
	os.Exit(1)
}

func current() *zap.SugaredLogger {
	mu.RLock()
	defer mu.RUnlock()
	if disableLogs {
		return zap.NewNop().Sugar()
	}
	return sugar
}

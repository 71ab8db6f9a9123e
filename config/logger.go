package config

import (
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog"
)

type Logger struct {
	ZeroLogger *zerolog.Logger
}

// Log is the shared logger used by the cmd, rest and tasks layers.
// The engine package never logs; it reports diagnostics on the TaxReport.
var Log Logger

func (l *Logger) Debug(msg string, err ...error) {
	if len(err) == 1 {
		l.ZeroLogger.Debug().Err(err[0]).Msg(msg)
		return
	}
	l.ZeroLogger.Debug().Msg(msg)
}

func (l *Logger) Info(msg string, err ...error) {
	if len(err) == 1 {
		l.ZeroLogger.Info().Err(err[0]).Msg(msg)
		return
	}
	l.ZeroLogger.Info().Msg(msg)
}

func (l *Logger) Warn(msg string, err ...error) {
	if len(err) == 1 {
		l.ZeroLogger.Warn().Err(err[0]).Msg(msg)
		return
	}
	l.ZeroLogger.Warn().Msg(msg)
}

func (l *Logger) Error(msg string, err ...error) {
	if len(err) == 1 {
		l.ZeroLogger.Error().Err(err[0]).Msg(msg)
		return
	}
	l.ZeroLogger.Error().Msg(msg)
}

func (l *Logger) Fatal(msg string, err ...error) {
	if len(err) == 1 {
		l.ZeroLogger.Fatal().Err(err[0]).Msg(msg)
		return
	}
	l.ZeroLogger.Fatal().Msg(msg)
}

func (l *Logger) Panic(msg string, err ...error) {
	if len(err) == 1 {
		l.ZeroLogger.Panic().Err(err[0]).Msg(msg)
		return
	}
	l.ZeroLogger.Panic().Msg(msg)
}

func init() {
	// Safe default so packages can log before DoConfigureLogger runs.
	logger := zerolog.New(os.Stderr).With().Timestamp().Logger()
	Log.ZeroLogger = &logger
}

func DoConfigureLogger(logPath string, logLevel string, prettyLogging bool) {
	writers := make([]io.Writer, 0, 2)

	if prettyLogging {
		writers = append(writers, zerolog.ConsoleWriter{Out: os.Stderr})
	} else {
		writers = append(writers, os.Stderr)
	}

	if logPath != "" {
		file, err := os.OpenFile(logPath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o640)
		if err != nil {
			Log.Fatal("Failed to open log file", err)
		}
		writers = append(writers, file)
	}

	logger := zerolog.New(zerolog.MultiLevelWriter(writers...)).With().Timestamp().Logger()
	Log.ZeroLogger = &logger

	switch strings.ToLower(logLevel) {
	case "debug":
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	case "info":
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	case "warn":
		zerolog.SetGlobalLevel(zerolog.WarnLevel)
	case "error":
		zerolog.SetGlobalLevel(zerolog.ErrorLevel)
	case "fatal":
		zerolog.SetGlobalLevel(zerolog.FatalLevel)
	case "panic":
		zerolog.SetGlobalLevel(zerolog.PanicLevel)
	default:
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}
}

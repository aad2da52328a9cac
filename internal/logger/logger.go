// Package logger — единый вывод логов tc-clock (zerolog) с учётом quiet.
package logger

import (
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"
	zlog "github.com/rs/zerolog/log"
)

// Quiet при true отключает информационные сообщения (Info, Debug); Warn и Error выводятся всегда.
var Quiet bool

// Init настраивает глобальный zerolog: консоль для stdout/stderr, JSON для файла.
func Init(verbose bool, logfile string) error {
	level := zerolog.InfoLevel
	if verbose {
		level = zerolog.DebugLevel
	}

	var writer io.Writer
	console := true
	switch strings.ToLower(logfile) {
	case "stdout", "":
		writer = os.Stdout
	case "stderr":
		writer = os.Stderr
	default:
		f, err := os.OpenFile(logfile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			return err
		}
		writer = f
		console = false
	}

	zerolog.SetGlobalLevel(level)
	zerolog.TimeFieldFormat = time.RFC3339
	zerolog.CallerMarshalFunc = func(pc uintptr, file string, line int) string {
		parts := strings.Split(file, string(filepath.Separator))
		if len(parts) > 1 {
			return filepath.Join(parts[len(parts)-2:]...) + ":" + strconv.Itoa(line)
		}
		return filepath.Base(file) + ":" + strconv.Itoa(line)
	}

	var l zerolog.Logger
	if console {
		l = zerolog.New(zerolog.ConsoleWriter{Out: writer, TimeFormat: time.TimeOnly}).With().Timestamp().Logger()
	} else {
		l = zerolog.New(writer).With().Timestamp().Logger()
	}
	if verbose {
		l = l.With().Caller().Logger()
	}
	zlog.Logger = l.With().Str("app", "tc-clock").Logger()
	return nil
}

// Info выводит информационное сообщение, если Quiet == false.
func Info(format string, args ...interface{}) {
	if Quiet {
		return
	}
	zlog.Info().Msgf(format, args...)
}

// Debug выводит отладочное сообщение (виден при verbose), если Quiet == false.
func Debug(format string, args ...interface{}) {
	if Quiet {
		return
	}
	zlog.Debug().Msgf(format, args...)
}

// Warn выводит предупреждение всегда.
func Warn(format string, args ...interface{}) {
	zlog.Warn().Msgf(format, args...)
}

// Error выводит сообщение об ошибке всегда.
func Error(format string, args ...interface{}) {
	zlog.Error().Msgf(format, args...)
}

// With возвращает логгер с полями, например для одного цикла отображения.
func With() zerolog.Context {
	return zlog.Logger.With()
}

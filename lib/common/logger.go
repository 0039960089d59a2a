package common

import (
	"fmt"
	"github.com/lni/dragonboat/v4/logger"
	"io"
	"log"
	"os"
	"strings"
	"sync"
)

// LoggerNames lists the named loggers of kvsolar. Packages must only call
// logger.GetLogger with one of these names, otherwise InitLoggers does not
// reach them and they stay at the default level.
var LoggerNames = []string{"store", "dao", "cmd"}

var (
	// dragonboat accepts the factory exactly once per process
	factoryOnce sync.Once

	// logOutput is where all loggers created by CreateLogger write to
	logOutput io.Writer = os.Stderr
)

// --------------------------------------------------------------------------
// Line logger
// --------------------------------------------------------------------------

// lineLogger writes one "LEVEL | name | message" line per call
type lineLogger struct {
	name  string
	level logger.LogLevel
	out   *log.Logger
}

func newLineLogger(name string, w io.Writer) *lineLogger {
	return &lineLogger{
		name:  name,
		level: logger.WARNING,
		out:   log.New(w, "", log.Ldate|log.Ltime),
	}
}

func (l *lineLogger) SetLevel(level logger.LogLevel) {
	l.level = level
}

func (l *lineLogger) Debugf(format string, args ...interface{}) {
	l.write(logger.DEBUG, "DEBUG", format, args)
}

func (l *lineLogger) Infof(format string, args ...interface{}) {
	l.write(logger.INFO, "INFO", format, args)
}

func (l *lineLogger) Warningf(format string, args ...interface{}) {
	l.write(logger.WARNING, "WARN", format, args)
}

func (l *lineLogger) Errorf(format string, args ...interface{}) {
	l.write(logger.ERROR, "ERROR", format, args)
}

// Panicf always panics, the message is logged first if the level allows it
func (l *lineLogger) Panicf(format string, args ...interface{}) {
	l.write(logger.CRITICAL, "PANIC", format, args)
	panic(fmt.Sprintf(format, args...))
}

func (l *lineLogger) write(level logger.LogLevel, tag string, format string, args []interface{}) {
	if l.level < level {
		return
	}
	l.out.Printf("%-5s | %-8s | %s", tag, l.name, fmt.Sprintf(format, args...))
}

// --------------------------------------------------------------------------
// Factory & setup
// --------------------------------------------------------------------------

// CreateLogger is the logger.Factory installed by InitLoggers. It is called by
// dragonboat for every name passed to logger.GetLogger (see LoggerNames).
// New loggers log warnings and errors to stderr until InitLoggers changes their level.
func CreateLogger(pkgName string) logger.ILogger {
	return newLineLogger(pkgName, logOutput)
}

// ParseLogLevel converts a level name (debug, info, warn[ing], error) to a logger.LogLevel
func ParseLogLevel(level string) (logger.LogLevel, error) {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return logger.DEBUG, nil
	case "info":
		return logger.INFO, nil
	case "warning", "warn":
		return logger.WARNING, nil
	case "error":
		return logger.ERROR, nil
	default:
		return logger.INFO, fmt.Errorf("invalid log level %q (expected debug, info, warn or error)", level)
	}
}

// InitLoggers sets the level of all loggers in LoggerNames. The first call also
// installs CreateLogger as factory. It may be called any number of times,
// e.g. once per executed command.
func InitLoggers(level string) error {
	lvl, err := ParseLogLevel(level)
	if err != nil {
		return err
	}

	factoryOnce.Do(func() {
		logger.SetLoggerFactory(CreateLogger)
	})

	for _, name := range LoggerNames {
		logger.GetLogger(name).SetLevel(lvl)
	}
	return nil
}

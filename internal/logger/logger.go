// Package logger provides structured logging for termsuggest.
package logger

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
)

// Logger wraps a logrus logger behind a chained entry API.
type Logger struct {
	log *logrus.Logger
}

// Entry accumulates fields until Msg is called.
type Entry struct {
	entry *logrus.Entry
	level logrus.Level
}

// New creates a logger writing to output at the given level.
// An unknown level falls back to info, a nil output to stderr.
func New(level string, output io.Writer) *Logger {
	if output == nil {
		output = os.Stderr
	}

	log := logrus.New()
	log.SetOutput(output)
	log.SetLevel(ParseLevel(level))
	log.SetFormatter(&logrus.TextFormatter{
		DisableTimestamp: true,
		PadLevelText:     true,
		DisableQuote:     true,
	})

	return &Logger{log: log}
}

// Nop returns a logger that discards everything.
func Nop() *Logger {
	l := New("error", io.Discard)
	l.log.SetLevel(logrus.PanicLevel)
	return l
}

// ParseLevel maps a level name to a logrus level, defaulting to info.
func ParseLevel(level string) logrus.Level {
	lvl, err := logrus.ParseLevel(strings.ToLower(strings.TrimSpace(level)))
	if err != nil {
		return logrus.InfoLevel
	}
	return lvl
}

// Level returns the active level name.
func (l *Logger) Level() string {
	return l.log.GetLevel().String()
}

// Enabled reports whether entries at level would be written.
func (l *Logger) Enabled(level string) bool {
	return l.log.IsLevelEnabled(ParseLevel(level))
}

// Debug starts a debug entry.
func (l *Logger) Debug() *Entry { return l.newEntry(logrus.DebugLevel) }

// Info starts an info entry.
func (l *Logger) Info() *Entry { return l.newEntry(logrus.InfoLevel) }

// Warn starts a warning entry.
func (l *Logger) Warn() *Entry { return l.newEntry(logrus.WarnLevel) }

// Error starts an error entry.
func (l *Logger) Error() *Entry { return l.newEntry(logrus.ErrorLevel) }

func (l *Logger) newEntry(level logrus.Level) *Entry {
	return &Entry{entry: logrus.NewEntry(l.log), level: level}
}

// Str adds a string field.
func (e *Entry) Str(key, value string) *Entry {
	e.entry = e.entry.WithField(key, value)
	return e
}

// Strs adds a string slice field.
func (e *Entry) Strs(key string, values []string) *Entry {
	e.entry = e.entry.WithField(key, strings.Join(values, ","))
	return e
}

// Int adds an int field.
func (e *Entry) Int(key string, value int) *Entry {
	e.entry = e.entry.WithField(key, value)
	return e
}

// Bool adds a bool field.
func (e *Entry) Bool(key string, value bool) *Entry {
	e.entry = e.entry.WithField(key, value)
	return e
}

// Err adds an error field. A nil error is ignored.
func (e *Entry) Err(err error) *Entry {
	if err != nil {
		e.entry = e.entry.WithError(err)
	}
	return e
}

// Dur adds a duration field in milliseconds.
func (e *Entry) Dur(key string, duration time.Duration) *Entry {
	ms := float64(duration.Microseconds()) / 1000.0
	e.entry = e.entry.WithField(key, ms)
	return e
}

// Any adds an arbitrary field.
func (e *Entry) Any(key string, value any) *Entry {
	e.entry = e.entry.WithField(key, value)
	return e
}

// Msg writes the entry.
func (e *Entry) Msg(msg string) {
	e.entry.Log(e.level, msg)
}

package log

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/fatih/color"
	"github.com/pkg/errors"
)

type LogLevel int

const (
	LevelNone LogLevel = iota
	LevelError
	LevelWarn
	LevelInfo
	LevelDebug
)

var Level = LevelInfo

var (
	mu     sync.Mutex
	out    io.Writer = os.Stderr
	plain  bool
	red    = color.New(color.FgRed)
	yellow = color.New(color.FgYellow)
	cyan   = color.New(color.FgCyan)
)

// SetOutput redirects all log output to w. Colors are only used on stderr,
// so log files stay readable.
func SetOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	out = w
	f, ok := w.(*os.File)
	plain = !ok || f != os.Stderr
}

// ParseLevel converts a level name like "debug" or "warn" into a LogLevel.
func ParseLevel(s string) (LogLevel, error) {
	switch strings.ToLower(s) {
	case "none", "silent":
		return LevelNone, nil
	case "error":
		return LevelError, nil
	case "warn", "warning":
		return LevelWarn, nil
	case "info":
		return LevelInfo, nil
	case "debug":
		return LevelDebug, nil
	}
	return LevelInfo, errors.Errorf("unknown log level: %s", s)
}

func Errorf(f string, args ...interface{}) {
	if LevelError <= Level {
		write(red, "[ERROR] "+f, args...)
	}
}

func Warnf(f string, args ...interface{}) {
	if LevelWarn <= Level {
		write(yellow, "[WARNING] "+f, args...)
	}
}

func Infof(f string, args ...interface{}) {
	if LevelInfo <= Level {
		write(nil, f, args...)
	}
}

func Debugf(f string, args ...interface{}) {
	if LevelDebug <= Level {
		write(cyan, f, args...)
	}
}

func write(c *color.Color, f string, args ...interface{}) {
	mu.Lock()
	defer mu.Unlock()
	if c == nil || plain {
		fmt.Fprintf(out, f+"\n", args...)
		return
	}
	c.Fprintf(out, f+"\n", args...)
}

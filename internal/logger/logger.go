package logger

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/fatih/color"
)

const (
	IconInfo    = "›"
	IconSuccess = "✓"
	IconError   = "✗"
	IconWarning = "⚠"
	IconVerbose = "…"
	IconDebug   = "»"
)

// Logger writes levelled, optionally coloured status lines
type Logger struct {
	verbose      bool
	debug        bool
	colors       bool
	output       io.Writer
	errOutput    io.Writer
	infoColor    *color.Color
	verboseColor *color.Color
	errorColor   *color.Color
	warnColor    *color.Color
	successColor *color.Color
	debugColor   *color.Color
	mutex        sync.Mutex
}

// New creates a configured logger instance writing to stdout and stderr
func New(verbose bool, debug bool) *Logger {
	l := &Logger{
		verbose:      verbose || debug,
		debug:        debug,
		output:       os.Stdout,
		errOutput:    os.Stderr,
		infoColor:    color.New(color.FgWhite),
		verboseColor: color.New(color.FgCyan),
		errorColor:   color.New(color.FgRed, color.Bold),
		warnColor:    color.New(color.FgYellow, color.Bold),
		successColor: color.New(color.FgGreen, color.Bold),
		debugColor:   color.New(color.Faint, color.FgBlue),
	}
	l.colors = os.Getenv("NO_COLOR") == "" && isTerminal(l.output)
	return l
}

// Discard returns a logger that writes nothing
func Discard() *Logger {
	l := New(false, false)
	l.SetOutput(io.Discard)
	return l
}

// isTerminal checks if the writer is a terminal
func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	fi, err := f.Stat()
	return err == nil && (fi.Mode()&os.ModeCharDevice) != 0
}

// SetOutput redirects all levels to w and disables colours for non-terminals
func (l *Logger) SetOutput(w io.Writer) {
	l.mutex.Lock()
	defer l.mutex.Unlock()
	l.output = w
	l.errOutput = w
	if l.colors {
		l.colors = isTerminal(w)
	}
}

// Verbose reports whether verbose output is enabled
func (l *Logger) Verbose() bool {
	return l.verbose
}

func (l *Logger) write(w io.Writer, c *color.Color, line string) {
	l.mutex.Lock()
	defer l.mutex.Unlock()
	if l.colors {
		c.Fprintln(w, line)
		return
	}
	fmt.Fprintln(w, line)
}

// Infof prints an informational message
func (l *Logger) Infof(format string, v ...interface{}) {
	l.write(l.output, l.infoColor, fmt.Sprintf("%s %s", IconInfo, fmt.Sprintf(format, v...)))
}

// Verbosef prints formatted verbose message when verbose enabled
func (l *Logger) Verbosef(format string, v ...interface{}) {
	if !l.verbose {
		return
	}
	l.write(l.output, l.verboseColor, fmt.Sprintf("%s [INFO] %s", IconVerbose, fmt.Sprintf(format, v...)))
}

// Debugf prints formatted debug message when debug enabled
func (l *Logger) Debugf(format string, v ...interface{}) {
	if !l.debug {
		return
	}
	timestamp := time.Now().Format("15:04:05.000")
	l.write(l.output, l.debugColor, fmt.Sprintf("%s %s [DEBUG] %s", IconDebug, timestamp, fmt.Sprintf(format, v...)))
}

// Warnf prints warning message
func (l *Logger) Warnf(format string, v ...interface{}) {
	l.write(l.output, l.warnColor, fmt.Sprintf("%s [WARN] %s", IconWarning, fmt.Sprintf(format, v...)))
}

// Errorf prints error message
func (l *Logger) Errorf(format string, v ...interface{}) {
	l.write(l.errOutput, l.errorColor, fmt.Sprintf("%s [ERROR] %s", IconError, fmt.Sprintf(format, v...)))
}

// Successf prints success message
func (l *Logger) Successf(format string, v ...interface{}) {
	l.write(l.output, l.successColor, fmt.Sprintf("%s [SUCCESS] %s", IconSuccess, fmt.Sprintf(format, v...)))
}

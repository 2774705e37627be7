package logger

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// maxErrorEntries bounds the in-memory ring of recent warnings and errors.
const maxErrorEntries = 100

// Options controls where a Logger writes.
type Options struct {
	// Persist writes events to $TMPDIR/<prefix>-<pid>.log.
	Persist bool
	// Console, when set, receives a human-readable copy of every event.
	Console io.Writer
}

// Logger records launcher events through zerolog and keeps the most recent
// warnings and errors in memory so they can be replayed on failure.
type Logger struct {
	path   string
	file   *os.File
	zl     zerolog.Logger
	runID  string
	closed atomic.Bool

	mu     sync.Mutex
	recent []string
}

// NewMemoryLogger creates a logger that writes nothing to disk. Recent
// warnings and errors are still retained.
func NewMemoryLogger(console io.Writer) *Logger {
	l, _ := New(Options{Console: console})
	return l
}

// New creates a logger. Only Options.Persist touches the filesystem.
func New(opts Options) (*Logger, error) {
	l := &Logger{runID: uuid.NewString()}

	var writers []io.Writer
	if opts.Persist {
		path := filepath.Join(os.TempDir(), fmt.Sprintf("%s-%d.log", LogPrefix(), os.Getpid()))

		f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
		if err != nil {
			return nil, fmt.Errorf("open log file %s: %w", path, err)
		}
		l.path = path
		l.file = f
		writers = append(writers, zerolog.SyncWriter(f))
	}
	if opts.Console != nil {
		writers = append(writers, zerolog.ConsoleWriter{Out: opts.Console, NoColor: true, TimeFormat: "15:04:05"})
	}

	var out io.Writer
	switch len(writers) {
	case 0:
		out = io.Discard
	case 1:
		out = writers[0]
	default:
		out = zerolog.MultiLevelWriter(writers...)
	}

	l.zl = zerolog.New(out).With().
		Timestamp().
		Int("pid", os.Getpid()).
		Str("run_id", l.runID).
		Logger()
	return l, nil
}

// Path returns the log file path, or "" for memory-only loggers.
func (l *Logger) Path() string {
	if l == nil {
		return ""
	}
	return l.path
}

// RunID identifies this launcher invocation in every log event.
func (l *Logger) RunID() string {
	if l == nil {
		return ""
	}
	return l.runID
}

func (l *Logger) Debug(msg string) { l.log(zerolog.DebugLevel, msg) }

func (l *Logger) Info(msg string) { l.log(zerolog.InfoLevel, msg) }

func (l *Logger) Warn(msg string) { l.log(zerolog.WarnLevel, msg) }

func (l *Logger) Error(msg string) { l.log(zerolog.ErrorLevel, msg) }

func (l *Logger) log(level zerolog.Level, msg string) {
	if l == nil || l.closed.Load() {
		return
	}
	if level >= zerolog.WarnLevel {
		l.remember(msg)
	}
	l.zl.WithLevel(level).Msg(msg)
}

func (l *Logger) remember(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.recent = append(l.recent, msg)
	if over := len(l.recent) - maxErrorEntries; over > 0 {
		l.recent = append(l.recent[:0], l.recent[over:]...)
	}
}

// ExtractRecentErrors returns up to maxEntries of the most recent warning
// and error messages, oldest first.
func (l *Logger) ExtractRecentErrors(maxEntries int) []string {
	if l == nil || maxEntries <= 0 {
		return nil
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	if len(l.recent) == 0 {
		return nil
	}
	start := len(l.recent) - maxEntries
	if start < 0 {
		start = 0
	}
	out := make([]string, len(l.recent)-start)
	copy(out, l.recent[start:])
	return out
}

// Flush syncs the log file to disk.
func (l *Logger) Flush() {
	if l == nil || l.file == nil || l.closed.Load() {
		return
	}
	_ = l.file.Sync()
}

// Close stops further writes and closes the log file. The file itself is
// kept for the user and for the next startup sweep.
func (l *Logger) Close() error {
	if l == nil || !l.closed.CompareAndSwap(false, true) {
		return nil
	}
	if l.file == nil {
		return nil
	}
	_ = l.file.Sync()
	return l.file.Close()
}

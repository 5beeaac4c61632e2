// 指示: miu200521358
package logging

import (
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"sync"

	"gopkg.in/natefinch/lumberjack.v2"
)

// LogLevel はログの出力レベル。
type LogLevel int

const (
	LOG_LEVEL_DEBUG LogLevel = iota
	LOG_LEVEL_INFO
	LOG_LEVEL_WARN
	LOG_LEVEL_ERROR
)

// String はレベル名を返す。
func (l LogLevel) String() string {
	switch l {
	case LOG_LEVEL_DEBUG:
		return "DEBUG"
	case LOG_LEVEL_INFO:
		return "INFO"
	case LOG_LEVEL_WARN:
		return "WARN"
	case LOG_LEVEL_ERROR:
		return "ERROR"
	default:
		return fmt.Sprintf("LogLevel(%d)", int(l))
	}
}

// ILogger はアプリ全体で使うロガー。
type ILogger interface {
	Debug(format string, params ...any)
	Info(format string, params ...any)
	Warn(format string, params ...any)
	Error(format string, params ...any)
	SetLevel(level LogLevel)
	Level() LogLevel
	MessageBuffer() *MessageBuffer
}

// MessageBuffer は出力済みメッセージを保持する。
type MessageBuffer struct {
	mu    sync.Mutex
	lines []string
}

// Append は1行追加する。
func (b *MessageBuffer) Append(line string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.lines = append(b.lines, line)
}

// Lines は保持している行の複製を返す。
func (b *MessageBuffer) Lines() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]string(nil), b.lines...)
}

// Clear は保持している行を破棄する。
func (b *MessageBuffer) Clear() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.lines = nil
}

// Logger は標準 log パッケージへ書き出す ILogger 実装。
type Logger struct {
	mu     sync.Mutex
	level  LogLevel
	out    *log.Logger
	buffer *MessageBuffer
	closer io.Closer
}

// NewLogger は出力先を指定してロガーを生成する。nil の場合は標準エラーへ出す。
func NewLogger(w io.Writer) *Logger {
	if w == nil {
		w = os.Stderr
	}
	return &Logger{
		level:  LOG_LEVEL_INFO,
		out:    log.New(w, "", log.LstdFlags),
		buffer: &MessageBuffer{},
	}
}

// FileSinkOptions はローテーションするログファイルの設定。
type FileSinkOptions struct {
	Path       string
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
}

// NewFileLogger は標準エラーとローテーションファイルの両方へ出すロガーを生成する。
func NewFileLogger(console io.Writer, opts FileSinkOptions) *Logger {
	if console == nil {
		console = os.Stderr
	}
	sink := &lumberjack.Logger{
		Filename:   opts.Path,
		MaxSize:    opts.MaxSizeMB,
		MaxBackups: opts.MaxBackups,
		MaxAge:     opts.MaxAgeDays,
	}
	logger := NewLogger(io.MultiWriter(console, sink))
	logger.closer = sink
	return logger
}

// Close はファイル出力を閉じる。
func (l *Logger) Close() error {
	if l == nil || l.closer == nil {
		return nil
	}
	return l.closer.Close()
}

// SetLevel は出力レベルを設定する。
func (l *Logger) SetLevel(level LogLevel) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.level = level
}

// Level は出力レベルを返す。
func (l *Logger) Level() LogLevel {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.level
}

// MessageBuffer は出力済みメッセージを返す。
func (l *Logger) MessageBuffer() *MessageBuffer {
	return l.buffer
}

func (l *Logger) Debug(format string, params ...any) { l.write(LOG_LEVEL_DEBUG, format, params...) }
func (l *Logger) Info(format string, params ...any)  { l.write(LOG_LEVEL_INFO, format, params...) }
func (l *Logger) Warn(format string, params ...any)  { l.write(LOG_LEVEL_WARN, format, params...) }
func (l *Logger) Error(format string, params ...any) { l.write(LOG_LEVEL_ERROR, format, params...) }

func (l *Logger) write(level LogLevel, format string, params ...any) {
	if level < l.Level() {
		return
	}
	message := format
	if len(params) > 0 {
		message = fmt.Sprintf(format, params...)
	}
	message = strings.TrimRight(message, "\n")
	l.buffer.Append(message)
	l.out.Printf("[%s] %s", level, message)
}

var (
	defaultMu     sync.RWMutex
	defaultLogger ILogger = NewLogger(nil)
)

// DefaultLogger は既定ロガーを返す。
func DefaultLogger() ILogger {
	defaultMu.RLock()
	defer defaultMu.RUnlock()
	return defaultLogger
}

// SetDefaultLogger は既定ロガーを差し替える。nil は無視する。
func SetDefaultLogger(logger ILogger) {
	if logger == nil {
		return
	}
	defaultMu.Lock()
	defer defaultMu.Unlock()
	defaultLogger = logger
}

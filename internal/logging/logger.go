package logging

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"time"
)

// LogLevel определяет уровни логирования
type LogLevel int32

const (
	TRACE LogLevel = iota
	DEBUG
	INFO
	WARN
	ERROR
)

// String возвращает строковое представление уровня логирования
func (l LogLevel) String() string {
	switch l {
	case TRACE:
		return "TRACE"
	case DEBUG:
		return "DEBUG"
	case INFO:
		return "INFO"
	case WARN:
		return "WARN"
	case ERROR:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// ParseLevel разбирает уровень из строки конфигурации (регистр не важен)
func ParseLevel(s string) (LogLevel, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "TRACE":
		return TRACE, nil
	case "DEBUG":
		return DEBUG, nil
	case "", "INFO":
		return INFO, nil
	case "WARN", "WARNING":
		return WARN, nil
	case "ERROR":
		return ERROR, nil
	default:
		return INFO, fmt.Errorf("неизвестный уровень логирования %q", s)
	}
}

// Options задаёт параметры инициализации логгера по умолчанию
type Options struct {
	ConsoleLevel LogLevel  // Минимальный уровень для консоли
	FileLevel    LogLevel  // Минимальный уровень для файла
	Dir          string    // Каталог для файла логов; пусто - без файла
	Console      io.Writer // Куда писать консольный вывод; nil - os.Stdout
}

// sinks общие приёмники сообщений для всех логгеров процесса
type sinks struct {
	consoleLogger *log.Logger
	fileLogger    *log.Logger
	file          *os.File
	consoleLevel  LogLevel
	fileLevel     LogLevel
}

// Пока InitDefaultLogger не вызван, все сообщения отбрасываются
var output atomic.Pointer[sinks]

// Logger логгер компонента. Пишет в общие приёмники с префиксом компонента.
type Logger struct {
	component string
	minLevel  atomic.Int32
}

// NewLogger создаёт логгер для компонента
func NewLogger(component string) *Logger {
	return &Logger{component: component}
}

// InitDefaultLogger инициализирует систему логирования для процесса
func InitDefaultLogger(component string, opts Options) error {
	console := opts.Console
	if console == nil {
		console = os.Stdout
	}

	s := &sinks{
		consoleLogger: log.New(console, "", log.LstdFlags),
		consoleLevel:  opts.ConsoleLevel,
		fileLevel:     opts.FileLevel,
	}

	if opts.Dir != "" {
		if err := os.MkdirAll(opts.Dir, 0755); err != nil {
			return fmt.Errorf("ошибка создания директории %s: %w", opts.Dir, err)
		}

		timestamp := time.Now().Format("2006-01-02_15-04-05")
		filename := filepath.Join(opts.Dir, fmt.Sprintf("%s_%s.log", component, timestamp))

		file, err := os.OpenFile(filename, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0666)
		if err != nil {
			return fmt.Errorf("ошибка создания файла логов: %w", err)
		}
		s.file = file
		s.fileLogger = log.New(file, "", log.LstdFlags)
	}

	if prev := output.Swap(s); prev != nil && prev.file != nil {
		prev.file.Close()
	}
	return nil
}

// CloseDefaultLogger закрывает систему логирования
func CloseDefaultLogger() {
	if s := output.Swap(nil); s != nil && s.file != nil {
		s.file.Close()
	}
}

// SetLevel задаёт минимальный уровень сообщений этого компонента
func (l *Logger) SetLevel(level LogLevel) {
	l.minLevel.Store(int32(level))
}

// Trace логирует сообщение уровня TRACE
func (l *Logger) Trace(format string, args ...interface{}) { l.logf(TRACE, format, args...) }

// Debug логирует сообщение уровня DEBUG
func (l *Logger) Debug(format string, args ...interface{}) { l.logf(DEBUG, format, args...) }

// Info логирует сообщение уровня INFO
func (l *Logger) Info(format string, args ...interface{}) { l.logf(INFO, format, args...) }

// Warn логирует сообщение уровня WARN
func (l *Logger) Warn(format string, args ...interface{}) { l.logf(WARN, format, args...) }

// Error логирует сообщение уровня ERROR
func (l *Logger) Error(format string, args ...interface{}) { l.logf(ERROR, format, args...) }

// logMessage внутренняя функция для логирования
func (l *Logger) logf(level LogLevel, format string, args ...interface{}) {
	s := output.Load()
	if s == nil || level < LogLevel(l.minLevel.Load()) {
		return
	}
	if level < s.consoleLevel && (s.fileLogger == nil || level < s.fileLevel) {
		return
	}

	var message string
	if l.component != "" {
		message = fmt.Sprintf("[%s] [%s] %s", level, l.component, fmt.Sprintf(format, args...))
	} else {
		message = fmt.Sprintf("[%s] %s", level, fmt.Sprintf(format, args...))
	}

	if s.fileLogger != nil && level >= s.fileLevel {
		s.fileLogger.Println(message)
	}
	if level >= s.consoleLevel {
		s.consoleLogger.Println(message)
	}
}

var rootLogger = NewLogger("")

// Trace логирует сообщение уровня TRACE через корневой логгер
func Trace(format string, args ...interface{}) { rootLogger.logf(TRACE, format, args...) }

// Debug логирует сообщение уровня DEBUG через корневой логгер
func Debug(format string, args ...interface{}) { rootLogger.logf(DEBUG, format, args...) }

// Info логирует сообщение уровня INFO через корневой логгер
func Info(format string, args ...interface{}) { rootLogger.logf(INFO, format, args...) }

// Warn логирует сообщение уровня WARN через корневой логгер
func Warn(format string, args ...interface{}) { rootLogger.logf(WARN, format, args...) }

// Error логирует сообщение уровня ERROR через корневой логгер
func Error(format string, args ...interface{}) { rootLogger.logf(ERROR, format, args...) }

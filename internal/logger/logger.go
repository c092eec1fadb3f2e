package logger

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
)

var (
	defaultLogger *Logger
)

// Logger 日志结构体
type Logger struct {
	handler slog.Handler
	level   *slog.LevelVar
	slogger *slog.Logger
}

// LogLevel 日志级别类型
type LogLevel int

const (
	DEBUG LogLevel = iota
	INFO
	WARN
	ERROR
)

// GetLogLevelFromString 将字符串转换为日志级别
func GetLogLevelFromString(level string) LogLevel {
	switch strings.ToLower(level) {
	case "debug":
		return DEBUG
	case "info":
		return INFO
	case "warn":
		return WARN
	case "error":
		return ERROR
	default:
		return WARN // 默认级别
	}
}

func (l LogLevel) slogLevel() slog.Level {
	switch l {
	case DEBUG:
		return slog.LevelDebug
	case INFO:
		return slog.LevelInfo
	case ERROR:
		return slog.LevelError
	default:
		return slog.LevelWarn
	}
}

/**
 * InitLogger 初始化日志系统
 * @param {io.Writer} output - Destination of log records, nil means stderr
 * @param {string} level - Log level (debug/info/warn/error)
 * @description
 * - The launcher owns stdout of the application, logs always go to the error stream
 * - Records below the level are discarded
 */
func InitLogger(output io.Writer, level string) {
	if output == nil {
		output = os.Stderr
	}
	lv := new(slog.LevelVar)
	lv.Set(GetLogLevelFromString(level).slogLevel())

	handler := slog.NewTextHandler(output, &slog.HandlerOptions{Level: lv})
	defaultLogger = &Logger{
		handler: handler,
		level:   lv,
		slogger: slog.New(handler).With("component", "kapsel"),
	}
}

// SetLevel 运行期调整日志级别
func SetLevel(level string) {
	if defaultLogger != nil {
		defaultLogger.level.Set(GetLogLevelFromString(level).slogLevel())
	}
}

// DebugEnabled 调试日志是否会被输出
func DebugEnabled() bool {
	if defaultLogger == nil {
		return false
	}
	return defaultLogger.handler.Enabled(context.Background(), slog.LevelDebug)
}

func logf(level slog.Level, msg string) {
	if defaultLogger != nil {
		defaultLogger.slogger.Log(context.Background(), level, msg)
	}
}

// Debug 输出调试日志
func Debug(v ...interface{}) {
	logf(slog.LevelDebug, strings.TrimSuffix(fmt.Sprintln(v...), "\n"))
}

// Debugf 输出格式化调试日志
func Debugf(format string, v ...interface{}) {
	logf(slog.LevelDebug, fmt.Sprintf(format, v...))
}

// Info 输出信息日志
func Info(v ...interface{}) {
	logf(slog.LevelInfo, strings.TrimSuffix(fmt.Sprintln(v...), "\n"))
}

// Infof 输出格式化信息日志
func Infof(format string, v ...interface{}) {
	logf(slog.LevelInfo, fmt.Sprintf(format, v...))
}

// Warn 输出警告日志
func Warn(v ...interface{}) {
	logf(slog.LevelWarn, strings.TrimSuffix(fmt.Sprintln(v...), "\n"))
}

// Warnf 输出格式化警告日志
func Warnf(format string, v ...interface{}) {
	logf(slog.LevelWarn, fmt.Sprintf(format, v...))
}

// Error 输出错误日志
func Error(v ...interface{}) {
	logf(slog.LevelError, strings.TrimSuffix(fmt.Sprintln(v...), "\n"))
}

// Errorf 输出格式化错误日志
func Errorf(format string, v ...interface{}) {
	logf(slog.LevelError, fmt.Sprintf(format, v...))
}

// Fatal 输出致命错误日志并以启动器失败码退出
func Fatal(v ...interface{}) {
	if defaultLogger != nil {
		Error(v...)
	} else {
		// 在日志系统未初始化时，使用标准错误输出
		fmt.Fprintln(os.Stderr, append([]interface{}{"FATAL:"}, v...)...)
	}
	os.Exit(128)
}

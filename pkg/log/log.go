// Package log 封装了基于 zap 的全局日志记录器。
package log

import (
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"ai-portal-go/internal/config"
)

// 在 Init 之前使用空日志器，避免单元测试或工具代码因未初始化而 panic。
var sugar = zap.NewNop().Sugar()

const logFileName = "app.log"

// Init 按日志配置初始化全局 logger。format 为 console 时输出彩色文本，否则输出 JSON。
// OutputPath 非空时同时写入 <OutputPath>/app.log。
func Init(cfg config.LogConfig) {
	logger, err := build(cfg)
	if err != nil {
		panic(err)
	}
	sugar = logger.Sugar()
}

func build(cfg config.LogConfig) (*zap.Logger, error) {
	level := zap.NewAtomicLevel()
	if err := level.UnmarshalText([]byte(strings.ToLower(cfg.Level))); err != nil {
		level.SetLevel(zap.InfoLevel)
	}

	var zapConfig zap.Config
	if cfg.Format == "console" {
		zapConfig = zap.NewDevelopmentConfig()
		zapConfig.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
		zapConfig.Encoding = "console"
	} else {
		zapConfig = zap.NewProductionConfig()
		zapConfig.Encoding = "json"
		zapConfig.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	}
	zapConfig.Level = level

	zapConfig.OutputPaths = []string{"stdout"}
	if cfg.OutputPath != "" {
		if err := os.MkdirAll(cfg.OutputPath, 0o755); err != nil {
			return nil, err
		}
		zapConfig.OutputPaths = append(zapConfig.OutputPaths, filepath.Join(cfg.OutputPath, logFileName))
	}

	// 跳过本包的包装函数，caller 指向真正的调用位置
	return zapConfig.Build(zap.AddCallerSkip(1))
}

func Info(msg string) {
	sugar.Info(msg)
}

func Infof(template string, args ...interface{}) {
	sugar.Infof(template, args...)
}

// Infow 记录带键值对的结构化日志，请求日志中间件使用。
func Infow(msg string, keysAndValues ...interface{}) {
	sugar.Infow(msg, keysAndValues...)
}

func Warnf(template string, args ...interface{}) {
	sugar.Warnf(template, args...)
}

func Warnw(msg string, keysAndValues ...interface{}) {
	sugar.Warnw(msg, keysAndValues...)
}

// Error 记录 error 级别日志，err 作为 error 字段输出。
func Error(msg string, err error) {
	sugar.Errorw(msg, "error", err)
}

func Errorf(template string, args ...interface{}) {
	sugar.Errorf(template, args...)
}

// Fatal 记录日志后退出进程。
func Fatal(msg string, err error) {
	sugar.Fatalw(msg, "error", err)
}

func Fatalf(template string, args ...interface{}) {
	sugar.Fatalf(template, args...)
}

// Sync 将缓冲区中的日志刷新到底层 Writer，程序退出前调用。
func Sync() {
	_ = sugar.Sync()
}

// Writer 把 Printf 风格的日志转到 zap，用于 gorm logger 这类只接受 Printf 的组件。
type Writer struct {
	// Prefix 加在每条日志前，如 "[gorm] "。
	Prefix string
}

// Printf 以 warn 级别输出，gorm 只通过它打印慢查询和错误。
func (w Writer) Printf(template string, args ...interface{}) {
	sugar.Warnf(w.Prefix+template, args...)
}

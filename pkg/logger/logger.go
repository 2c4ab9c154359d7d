package logger

import (
	"fmt"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// 包级logger
// 说明：未Init时返回Nop logger，保证测试环境下可直接使用
var (
	mu     sync.RWMutex
	global = zap.NewNop()
)

// Init 根据配置初始化全局logger
// 参数：
// - level: debug | info | warn | error
// - format: console | json
// - output: stdout | stderr | 文件路径
// - enableCaller: 是否记录调用位置
func Init(level, format, output string, enableCaller bool) error {
	var lvl zapcore.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		return fmt.Errorf("非法的日志级别 %q: %w", level, err)
	}

	cfg := zap.NewProductionConfig()
	if format == "console" {
		cfg = zap.NewDevelopmentConfig()
	}
	cfg.Level = zap.NewAtomicLevelAt(lvl)
	cfg.DisableCaller = !enableCaller
	if output != "" {
		cfg.OutputPaths = []string{output}
		cfg.ErrorOutputPaths = []string{output}
	}

	l, err := cfg.Build()
	if err != nil {
		return fmt.Errorf("构建logger失败: %w", err)
	}

	mu.Lock()
	global = l
	mu.Unlock()
	return nil
}

// L 获取全局logger
func L() *zap.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return global
}

// Sync 刷新缓冲日志（进程退出前调用）
func Sync() {
	_ = L().Sync()
}

package xutil

import (
	"os"
	"strings"
)

const (
	DebugKey = "XDBUG_ENABLE_DEBUG"
)

// EnableDebug 是否启用debug模式，用于记录 XDbug 自身的诊断日志（配置加载失败、日志文件打开失败等）
func EnableDebug() bool {
	switch strings.ToLower(strings.TrimSpace(os.Getenv(DebugKey))) {
	case "true", "1", "t", "yes", "y", "on":
		return true
	default:
		return false
	}
}

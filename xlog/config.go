package xlog

import "strings"

// Mode 日志文件打开方式
type Mode string

const (
	// ModeOverwrite 打开时清空文件
	ModeOverwrite Mode = "overwrite"
	// ModeAppend 追加写
	ModeAppend Mode = "append"
	// ModeRotate 按时间切割，基于 rotatelogs
	ModeRotate Mode = "rotate"
)

type FileConfig struct {
	// Path 日志文件路径
	// required
	Path string `mapstructure:"Path"`

	// Mode 打开方式 overwrite|append|rotate，也接受 w|a|r
	// optional default "append"
	Mode string `mapstructure:"Mode"`

	// MaxAge 日志保存最大时间，仅 rotate 生效
	// optional default "7d"
	MaxAge string `mapstructure:"MaxAge"`

	// RotateTime 日志切割时长，仅 rotate 生效
	// optional default "1d"
	RotateTime string `mapstructure:"RotateTime"`
}

func configMergeDefault(c *FileConfig) *FileConfig {
	if c == nil {
		c = &FileConfig{}
	}
	c.Mode = string(ParseMode(c.Mode))
	if c.MaxAge == "" {
		c.MaxAge = "7d"
	}
	if c.RotateTime == "" {
		c.RotateTime = "1d"
	}
	return c
}

// ParseMode 解析打开方式，为空时按 append，无法识别时按 overwrite 处理
func ParseMode(s string) Mode {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "a", "append":
		return ModeAppend
	case "r", "rotate":
		return ModeRotate
	default:
		return ModeOverwrite
	}
}

// ModeOf overwrite=true 对应 ModeOverwrite，否则 ModeAppend
func ModeOf(overwrite bool) Mode {
	if overwrite {
		return ModeOverwrite
	}
	return ModeAppend
}

package xdbug

import (
	"io"
	"time"
)

// WithClock 替换时钟，测试中用于固定耗时
func WithClock(clock func() time.Time) Option {
	return func(o *options) {
		if clock != nil {
			o.Clock = clock
		}
	}
}

// WithFallback 替换兜底输出，未设置日志流和日志文件时写入该 writer
func WithFallback(w io.Writer) Option {
	return func(o *options) {
		if w != nil {
			o.Fallback = w
		}
	}
}

// WithDisabled 创建后处于关闭状态
func WithDisabled() Option {
	return func(o *options) {
		o.Disabled = true
	}
}

type Option func(*options)

type options struct {
	Clock    func() time.Time
	Fallback io.Writer
	Disabled bool
}

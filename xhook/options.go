package xhook

import "time"

// Order 执行顺序，越小越先执行
func Order(order int) Option {
	return func(o *options) {
		o.Order = order
	}
}

// Timeout 单个 Hook 的超时时间，<=0 表示只受总超时限制
func Timeout(timeout time.Duration) Option {
	return func(o *options) {
		o.Timeout = timeout
	}
}

type Option func(*options)

type options struct {
	Order   int
	Timeout time.Duration
}

func defaultOptions() *options {
	return &options{
		Order:   100,
		Timeout: 5 * time.Second,
	}
}

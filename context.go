package xdbug

import (
	"fmt"
	"io"
)

// Context 单个 goroutine 的跟踪状态
// 只在 Tracer 锁内修改，对外通过 Current 获得快照
type Context struct {
	id      uint64
	name    string
	nesting int
	conf    *Configuration

	// out 独占日志文件，nil 表示使用全局输出
	out io.Writer
}

// ID goroutine id
func (c Context) ID() uint64 { return c.id }

// Name goroutine 名称，未设置时为 "default"
func (c Context) Name() string { return c.name }

// NestingLevel 当前嵌套深度
func (c Context) NestingLevel() int { return c.nesting }

// Configuration 绑定配置的拷贝
func (c Context) Configuration() Configuration {
	if c.conf == nil {
		return Configuration{}
	}
	return *c.conf
}

func (c Context) String() string {
	return fmt.Sprintf("goroutine=%d name=%s nesting=%d config={%s}", c.id, c.name, c.nesting, c.conf)
}

func (c *Context) snapshot() Context {
	cp := *c
	cp.out = nil
	if c.conf != nil {
		cp.conf = c.conf.clone()
	}
	return cp
}

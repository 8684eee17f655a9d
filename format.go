package xdbug

import (
	"fmt"
	"io"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/xiaoshicae/xdbug/xopt"
	"github.com/xiaoshicae/xdbug/xutil"
)

const (
	dateTimeLayout = "2006-01-02 15:04:05.000"
	indentUnit     = "    "
)

// entry 一行输出的内容，前缀部分由 Context 和配置决定
type entry struct {
	file    string
	line    int
	payload string

	elapsed    time.Duration
	hasElapsed bool
}

// gate 判断当前配置是否允许输出
type gate func(c *Configuration) bool

func optionGate(o xopt.Options) gate {
	return func(c *Configuration) bool { return c.Options.Has(o) }
}

func anyOptionGate(o xopt.Options) gate {
	return func(c *Configuration) bool { return c.Options.Any(o) }
}

func filterGate(o xopt.Options, keyword string) gate {
	return func(c *Configuration) bool { return c.Options.Has(o) && c.Filter.Accept(keyword) }
}

// allow 锁内判断是否需要输出，用于在格式化用户参数之前短路
func (t *Tracer) allow(ct *Context, g gate) bool {
	if !t.Enabled() {
		return false
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	return g(ct.conf)
}

// emit 判断开关与配置后输出一行，build 只在需要输出时调用且在锁外执行
func (t *Tracer) emit(ct *Context, g gate, build func() entry) {
	if !t.allow(ct, g) {
		return
	}
	e := safeBuild(build)
	now := t.clock()

	t.mu.Lock()
	defer t.mu.Unlock()
	t.emitLocked(ct, g, e, now)
}

func (t *Tracer) emitLocked(ct *Context, g gate, e entry, now time.Time) {
	if !t.Enabled() || !g(ct.conf) {
		return
	}
	t.rows++
	writeLine(t.writerLocked(ct), t.formatLocked(ct, e, now))
}

// formatLocked 按固定顺序拼接：行号 前缀 时间 id 名称 缩进 文件:行 内容 耗时
func (t *Tracer) formatLocked(ct *Context, e entry, now time.Time) string {
	conf := ct.conf
	o := conf.Options

	var sb strings.Builder
	if o.Has(xopt.RowNumbers) {
		sb.WriteString("#")
		sb.WriteString(strconv.FormatUint(t.rows, 10))
		sb.WriteByte(' ')
	}
	if conf.Prompt != "" {
		sb.WriteString(conf.Prompt)
		sb.WriteByte(' ')
	}
	if o.Has(xopt.DateTime) {
		fmt.Fprintf(&sb, "%s +%sms ", now.Format(dateTimeLayout), formatMs(now.Sub(t.epoch)))
	}
	if o.Has(xopt.ThreadID) {
		fmt.Fprintf(&sb, "[g%d] ", ct.id)
	}
	if o.Has(xopt.ThreadName) {
		fmt.Fprintf(&sb, "[%s] ", ct.name)
	}
	if o.Has(xopt.CallTrace) {
		sb.WriteString(strings.Repeat(indentUnit, ct.nesting))
	}

	withFile, withLine := o.Has(xopt.FileName), o.Has(xopt.LineNumber)
	if withFile {
		sb.WriteString(filepath.Base(e.file))
	}
	if withLine {
		if withFile {
			sb.WriteByte(':')
		}
		sb.WriteString(strconv.Itoa(e.line))
	}
	if withFile || withLine {
		sb.WriteByte(' ')
	}

	sb.WriteString(e.payload)
	if e.hasElapsed {
		fmt.Fprintf(&sb, " (%s ms)", formatMs(e.elapsed))
	}
	sb.WriteByte('\n')
	return sb.String()
}

func formatMs(d time.Duration) string {
	return strconv.FormatFloat(float64(d)/float64(time.Millisecond), 'f', 3, 64)
}

// writeLine 整行一次写入，writer 的错误和 panic 都不会传播给调用方
func writeLine(w io.Writer, line string) {
	defer func() {
		if r := recover(); r != nil {
			xutil.ErrorIfEnableDebug("XDbug write line panic, err=[%v]", r)
		}
	}()
	if _, err := io.WriteString(w, line); err != nil {
		xutil.WarnIfEnableDebug("XDbug write line failed, err=[%v]", err)
	}
}

func safeBuild(build func() entry) (e entry) {
	defer func() {
		if r := recover(); r != nil {
			e.payload = fmt.Sprintf("%%!PANIC(%v)", r)
		}
	}()
	return build()
}

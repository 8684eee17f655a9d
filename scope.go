package xdbug

import (
	"fmt"
	"time"

	"github.com/xiaoshicae/xdbug/xopt"
	"github.com/xiaoshicae/xdbug/xutil"
)

// ProfNotStarted ProfElapsed 在 ProfStart 之前调用时的返回值
const ProfNotStarted time.Duration = -1

// Scope 一次函数调用的跟踪范围
// 由 Enter 创建，Exit/VoidReturn/Return 结束，结束只生效一次
// Scope 只能在创建它的 goroutine 中使用
type Scope struct {
	t  *Tracer
	ct *Context

	funcName string
	file     string
	line     int
	start    time.Time
	exited   bool

	profStart time.Time
	profLine  int
	profiling bool
}

// Enter 进入函数 funcName，返回的 Scope 需要 defer Exit
func (t *Tracer) Enter(funcName string) *Scope {
	file, line, _ := xutil.CallerInfo(1)
	return t.enter(funcName, file, line)
}

// Trace 以调用方函数名进入
func (t *Tracer) Trace() *Scope {
	file, line, funcName := xutil.CallerInfo(1)
	return t.enter(funcName, file, line)
}

func (t *Tracer) enter(funcName, file string, line int) *Scope {
	gid := xutil.GoroutineID()
	now := t.clock()

	t.mu.Lock()
	ct := t.contextLocked(gid)
	ct.nesting++
	t.emitLocked(ct, optionGate(xopt.CallTrace), entry{file: file, line: line, payload: "> " + funcName}, now)
	t.mu.Unlock()

	return &Scope{t: t, ct: ct, funcName: funcName, file: file, line: line, start: now}
}

// Exit 结束 Scope，使用 Enter 所在行，已经通过 Return 结束时不做任何事
func (s *Scope) Exit() {
	if s == nil {
		return
	}
	s.out(s.line)
}

// VoidReturn 在无返回值的提前 return 处结束 Scope，使用调用行
func (s *Scope) VoidReturn() {
	if s == nil {
		return
	}
	_, line, _ := xutil.CallerInfo(1)
	s.out(line)
}

// Return 结束 Scope 并原样返回 v，用于 return xdbug.Return(s, v)
func Return[T any](s *Scope, v T) T {
	if s == nil {
		return v
	}
	_, line, _ := xutil.CallerInfo(1)
	s.out(line)
	return v
}

// out 输出退出行并减少嵌套深度
// 开启 t 或 m 时输出，退出行与进入行缩进相同
func (s *Scope) out(line int) {
	if s.exited {
		return
	}
	s.exited = true

	now := s.t.clock()
	e := entry{
		file:       s.file,
		line:       line,
		payload:    "< " + s.funcName,
		elapsed:    now.Sub(s.start),
		hasElapsed: true,
	}

	s.t.mu.Lock()
	defer s.t.mu.Unlock()
	s.t.emitLocked(s.ct, anyOptionGate(xopt.CallTrace|xopt.ElapsedMs), e, now)
	if s.ct.nesting > 0 {
		s.ct.nesting--
	}
}

// Print 输出 "keyword: text"，开启 p 且过滤器放行 keyword 时才会格式化参数
func (s *Scope) Print(keyword, format string, args ...any) {
	if s == nil {
		return
	}
	file, line, _ := xutil.CallerInfo(1)
	s.t.emit(s.ct, filterGate(xopt.PrintText, keyword), func() entry {
		text := fmt.Sprintf(format, args...)
		if keyword != "" {
			text = keyword + ": " + text
		}
		return entry{file: file, line: line, payload: text}
	})
}

// Check 输出表达式及其结果，原样返回 result
func (s *Scope) Check(expr string, result bool) bool {
	if s == nil {
		return result
	}
	file, line, _ := xutil.CallerInfo(1)
	s.t.emit(s.ct, optionGate(xopt.CheckOutput), func() entry {
		return entry{file: file, line: line, payload: fmt.Sprintf("check(%s) = %t", expr, result)}
	})
	return result
}

// ProfStart 开始区间计时，重复调用会重新开始
func (s *Scope) ProfStart() {
	if s == nil {
		return
	}
	_, line, _ := xutil.CallerInfo(1)
	s.profStart = s.t.clock()
	s.profLine = line
	s.profiling = true
}

// ProfElapsed 距上一次 ProfStart 的耗时，开启 m 时输出
// 未调用过 ProfStart 时返回 ProfNotStarted
func (s *Scope) ProfElapsed() time.Duration {
	if s == nil {
		return ProfNotStarted
	}
	file, line, _ := xutil.CallerInfo(1)
	if !s.profiling {
		s.t.emit(s.ct, optionGate(xopt.ElapsedMs), func() entry {
			return entry{file: file, line: line, payload: "prof not started"}
		})
		return ProfNotStarted
	}

	elapsed := s.t.clock().Sub(s.profStart)
	s.t.emit(s.ct, optionGate(xopt.ElapsedMs), func() entry {
		return entry{
			file:       file,
			line:       line,
			payload:    fmt.Sprintf("prof %d-%d", s.profLine, line),
			elapsed:    elapsed,
			hasElapsed: true,
		}
	})
	return elapsed
}

// Disable 关闭全局输出
func (s *Scope) Disable() {
	if s != nil {
		s.t.Disable()
	}
}

// Enable 打开全局输出
func (s *Scope) Enable() {
	if s != nil {
		s.t.Enable()
	}
}

// Flush 刷新当前输出目标
func (s *Scope) Flush() {
	if s == nil {
		return
	}
	if err := s.t.Flush(); err != nil {
		xutil.WarnIfEnableDebug("XDbug flush failed, func=[%s], err=[%v]", s.funcName, err)
	}
}

package xdbug

import (
	"io"

	"github.com/xiaoshicae/xdbug/xhook"
	"github.com/xiaoshicae/xdbug/xopt"
	"github.com/xiaoshicae/xdbug/xutil"
)

var defaultTracer = New()

func init() {
	xhook.BeforeStop(closeDefaultLogFile, xhook.Order(1000))
}

func closeDefaultLogFile() error {
	return defaultTracer.CloseLogFile()
}

// Default 包级函数使用的 Tracer
func Default() *Tracer {
	return defaultTracer
}

// Shutdown 执行 BeforeStop hooks，默认 Tracer 的日志文件在最后关闭
func Shutdown() error {
	return xhook.InvokeBeforeStopHook()
}

// Enter 进入函数 funcName
func Enter(funcName string) *Scope {
	file, line, _ := xutil.CallerInfo(1)
	return defaultTracer.enter(funcName, file, line)
}

// Trace 以调用方函数名进入
func Trace() *Scope {
	file, line, funcName := xutil.CallerInfo(1)
	return defaultTracer.enter(funcName, file, line)
}

// 以下函数操作默认 Tracer，说明见 Tracer 的同名方法
func CreateContext(name, opts string) { defaultTracer.CreateContext(name, opts) }
func RegisterConfiguration(conf Configuration) { defaultTracer.RegisterConfiguration(conf) }
func Configurations() []Configuration { return defaultTracer.Configurations() }
func ReadConfig(appName, path string) bool { return defaultTracer.ReadConfig(appName, path) }
func Init(appName string) bool { return defaultTracer.Init(appName) }
func Current() Context { return defaultTracer.Current() }

func SetOptions(o xopt.Options) { defaultTracer.SetOptions(o) }
func SetOptionsString(opts string) { defaultTracer.SetOptionsString(opts) }
func SetName(name string) { defaultTracer.SetName(name) }
func SetPrompt(prompt string) { defaultTracer.SetPrompt(prompt) }
func SetSimpleSearchStr(s string) { defaultTracer.SetSimpleSearchStr(s) }
func SetRegExpStr(pattern string) { defaultTracer.SetRegExpStr(pattern) }
func SetLogStream(w io.Writer) { defaultTracer.SetLogStream(w) }
func SetTimeElapsedStart() { defaultTracer.SetTimeElapsedStart() }
func CloseLogFile() error { return defaultTracer.CloseLogFile() }
func Flush() error { return defaultTracer.Flush() }
func Enabled() bool { return defaultTracer.Enabled() }
func Disable() { defaultTracer.Disable() }
func Enable() { defaultTracer.Enable() }

func SetLogFile(path string, overwrite bool) bool {
	return defaultTracer.SetLogFile(path, overwrite)
}

func SetGlobalLogFile(path string, overwrite bool) bool {
	return defaultTracer.SetGlobalLogFile(path, overwrite)
}

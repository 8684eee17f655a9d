package xutil

import "runtime"

// CallerInfo 获取调用栈上第 skip 层的文件、行号和短函数名
// skip=0 表示 Caller 的调用方
func CallerInfo(skip int) (file string, line int, funcName string) {
	pc, file, line, ok := runtime.Caller(skip + 1)
	if !ok {
		return "???", 0, "???"
	}
	if fn := runtime.FuncForPC(pc); fn != nil {
		funcName = ShortFuncName(fn.Name())
	}
	return file, line, GetOrDefault(funcName, "???")
}

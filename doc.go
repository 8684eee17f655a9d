// Package xdbug 按 goroutine 隔离的执行跟踪器
//
// 每个 goroutine 拥有独立的 Context：名称、嵌套深度、私有的 Configuration 拷贝
// （选项、前缀、过滤器、日志文件）。被跟踪函数通过 Scope 记录进入/退出、打印文本、
// 检查表达式、比较数值以及区间计时：
//
//	func doWork() {
//		s := xdbug.Enter("doWork")
//		defer s.Exit()
//
//		s.Print("db", "query %d rows", n)
//		if xdbug.Compare(s, "a", "b", a, b) {
//			return
//		}
//	}
//
// 选项字符串由字母组成，见 xopt 包。命名配置可以通过 CreateContext 注册，
// 也可以通过 ReadConfig/Init 从配置文件加载，goroutine 调用 SetName 后绑定同名配置。
//
// goroutine id 通过解析 runtime.Stack 获得。Go 运行时不会复用 goroutine id，
// 但已退出 goroutine 的 Context 不会自动回收，只有 CloseLogFile/Shutdown 释放其文件句柄。
package xdbug

package xhook

import (
	"context"
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/xiaoshicae/xdbug/xerror"
	"github.com/xiaoshicae/xdbug/xutil"

	"golang.org/x/exp/slices"
)

var (
	defaultStopTimeout = 30 * time.Second
	maxHookNum         = 1000
)

var (
	beforeStopHooks       = make([]hook, 0)
	beforeStopHooksSorted = true                      // 空列表视为已排序
	registeredFuncs       = make(map[string]struct{}) // 函数指针 -> 已注册
	hooksMu               sync.RWMutex
)

// HookFunc Hook 函数类型定义
type HookFunc func() error

type hook struct {
	HookFunc HookFunc
	Options  *options
}

// SetStopTimeout 设置 BeforeStop hooks 的总超时时间
func SetStopTimeout(timeout time.Duration) {
	if timeout > 0 {
		hooksMu.Lock()
		defaultStopTimeout = timeout
		hooksMu.Unlock()
	}
}

// BeforeStop 注册退出前执行的 Hook，按 Order 从小到大执行，同一函数只注册一次
func BeforeStop(f HookFunc, opts ...Option) {
	if f == nil {
		panic("XDbug BeforeStop hook can not be nil")
	}

	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}

	hooksMu.Lock()
	defer hooksMu.Unlock()

	// 数量检查放在去重之前，避免 panic 后去重 map 与列表不一致
	if len(beforeStopHooks) >= maxHookNum {
		panic(fmt.Sprintf("XDbug BeforeStop hook can not be more than %d", maxHookNum))
	}

	key := strconv.FormatUint(uint64(reflect.ValueOf(f).Pointer()), 10)
	if _, ok := registeredFuncs[key]; ok {
		xutil.WarnIfEnableDebug("XDbug BeforeStop hook duplicate registration detected, skipping")
		return
	}
	registeredFuncs[key] = struct{}{}

	beforeStopHooks = append(beforeStopHooks, hook{HookFunc: f, Options: o})
	beforeStopHooksSorted = false
}

// InvokeBeforeStopHook 执行所有 BeforeStop Hook，单个失败不影响后续执行，错误合并返回
func InvokeBeforeStopHook() error {
	hooks := getSortedHooks()
	if len(hooks) == 0 {
		return nil
	}

	hooksMu.RLock()
	stopTimeout := defaultStopTimeout
	hooksMu.RUnlock()

	ctx, cancel := context.WithTimeout(context.Background(), stopTimeout)
	defer cancel()

	stopErrChan := make(chan error, 1)
	go invokeBeforeStopHook(ctx, hooks, stopErrChan)

	select {
	case err := <-stopErrChan:
		return err
	case <-ctx.Done():
		return xerror.Newf("xhook", "BeforeStop", "timeout after %v", stopTimeout)
	}
}

// getSortedHooks 排序后的副本，只在有新注册时排序
func getSortedHooks() []hook {
	hooksMu.Lock()
	defer hooksMu.Unlock()

	if !beforeStopHooksSorted {
		slices.SortStableFunc(beforeStopHooks, compareHookOrder)
		beforeStopHooksSorted = true
	}
	return slices.Clone(beforeStopHooks)
}

func invokeBeforeStopHook(ctx context.Context, hooks []hook, stopResultChan chan<- error) {
	errMsgList := make([]string, 0)
	for i, h := range hooks {
		select {
		case <-ctx.Done():
			stopResultChan <- xerror.Newf("xhook", "BeforeStop", "interrupted due to timeout, completed %d/%d hooks", i, len(hooks))
			return
		default:
		}

		// 取 min(单个超时, 剩余时间)
		hookTimeout := h.Options.Timeout
		if deadline, ok := ctx.Deadline(); ok {
			if remaining := time.Until(deadline); hookTimeout <= 0 || remaining < hookTimeout {
				hookTimeout = remaining
			}
		}

		funcName := getInvokeFuncFullName(h.HookFunc)
		if err := invokeHookWithTimeout(h, hookTimeout); err != nil {
			xutil.ErrorIfEnableDebug("XDbug invoke before stop hook failed, func=[%v], err=[%v]", funcName, err)
			errMsgList = append(errMsgList, fmt.Sprintf("func=[%v], err=[%v]", funcName, err))
		} else {
			xutil.InfoIfEnableDebug("XDbug invoke before stop hook success, func=[%v]", funcName)
		}
	}
	if len(errMsgList) > 0 {
		stopResultChan <- xerror.Newf("xhook", "BeforeStop", "%s", strings.Join(errMsgList, "; "))
		return
	}
	stopResultChan <- nil
}

// invokeHookWithTimeout 超时只代表放弃等待，不会取消正在运行的 Hook
func invokeHookWithTimeout(h hook, timeout time.Duration) error {
	if timeout <= 0 {
		return safeInvokeHook(h.HookFunc)
	}

	ch := make(chan error, 1)
	go func() {
		ch <- safeInvokeHook(h.HookFunc)
	}()

	select {
	case err := <-ch:
		return err
	case <-time.After(timeout):
		return xerror.Newf("xhook", "invokeHook", "hook timeout after %v, func=[%v]", timeout, getInvokeFuncFullName(h.HookFunc))
	}
}

func safeInvokeHook(h HookFunc) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = xerror.Newf("xhook", "invokeHook", "panic occurred, %v", r)
		}
	}()
	return h()
}

func compareHookOrder(a, b hook) int {
	if a.Options.Order < b.Options.Order {
		return -1
	}
	if a.Options.Order > b.Options.Order {
		return 1
	}
	return 0
}

func getInvokeFuncFullName(hf HookFunc) string {
	file, line, name := xutil.GetFuncInfo(hf)
	return fmt.Sprintf("%s:%d %s()", file, line, name)
}

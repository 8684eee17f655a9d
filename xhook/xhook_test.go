package xhook

import (
	"errors"
	"strconv"
	"strings"
	"testing"
	"time"

	. "github.com/bytedance/mockey"
	. "github.com/smartystreets/goconvey/convey"
)

func resetHooks() {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	beforeStopHooks = beforeStopHooks[:0]
	beforeStopHooksSorted = true
	registeredFuncs = make(map[string]struct{})
	maxHookNum = 1000
	defaultStopTimeout = 30 * time.Second
}

func TestGetInvokeFuncFullName(t *testing.T) {
	PatchConvey("TestGetInvokeFuncFullName", t, func() {
		name := getInvokeFuncFullName(MyIntFunc1)
		So(strings.Contains(name, "xhook_test.go"), ShouldBeTrue)
		So(strings.Contains(name, "MyIntFunc1"), ShouldBeTrue)
	})
}

func TestSafeInvokeHook(t *testing.T) {
	PatchConvey("TestSafeInvokeHook", t, func() {
		err := safeInvokeHook(PanicFunc)
		So(err, ShouldNotBeNil)
		So(err.Error(), ShouldEqual, "XDbug xhook invokeHook failed, err=[panic occurred, for test]")
	})
}

func MyIntFunc1() error {
	return nil
}

func PanicFunc() error {
	panic("for test")
}

func TestXHookBeforeStop(t *testing.T) {
	PatchConvey("TestXHookBeforeStop-Panic", t, func() {
		resetHooks()
		defer resetHooks()

		var h HookFunc
		So(func() { BeforeStop(h) }, ShouldPanicWith, "XDbug BeforeStop hook can not be nil")

		maxHookNum = 1
		BeforeStop(MyIntFunc1)
		So(func() { BeforeStop(PanicFunc) }, ShouldPanicWith, "XDbug BeforeStop hook can not be more than 1")
	})

	PatchConvey("TestXHookBeforeStop-Duplicate", t, func() {
		resetHooks()
		defer resetHooks()

		BeforeStop(MyIntFunc1)
		BeforeStop(MyIntFunc1, Order(1))
		So(len(beforeStopHooks), ShouldEqual, 1)
	})

	PatchConvey("TestXHookBeforeStop-Sort", t, func() {
		resetHooks()
		defer resetHooks()

		h1 := func() error { return errors.New("h1") }
		h2 := func() error { return errors.New("h2") }
		h3 := func() error { return errors.New("h3") }
		BeforeStop(h1, Order(1))
		BeforeStop(h3, Order(3))
		BeforeStop(h2, Order(2))
		So(beforeStopHooksSorted, ShouldBeFalse)

		for i, h := range getSortedHooks() {
			So(h.HookFunc().Error(), ShouldEqual, "h"+strconv.Itoa(i+1))
		}
		So(beforeStopHooksSorted, ShouldBeTrue)
	})
}

func TestInvokeBeforeStopHook(t *testing.T) {
	PatchConvey("TestInvokeBeforeStopHook-Empty", t, func() {
		resetHooks()
		So(InvokeBeforeStopHook(), ShouldBeNil)
	})

	PatchConvey("TestInvokeBeforeStopHook-Err", t, func() {
		resetHooks()
		defer resetHooks()

		BeforeStop(StopErr1)
		err := InvokeBeforeStopHook()
		So(err, ShouldNotBeNil)
		So(err.Error(), ShouldContainSubstring, "XDbug xhook BeforeStop failed")
		So(err.Error(), ShouldContainSubstring, "for test")
	})

	PatchConvey("TestInvokeBeforeStopHook-MergeErr", t, func() {
		resetHooks()
		defer resetHooks()

		var called []string
		BeforeStop(func() error { called = append(called, "ok"); return nil }, Order(3))
		BeforeStop(StopErr1, Order(1))
		BeforeStop(StopErr2, Order(2))
		err := InvokeBeforeStopHook()
		So(err, ShouldNotBeNil)
		So(err.Error(), ShouldContainSubstring, "for test")
		So(err.Error(), ShouldContainSubstring, "panic occurred, for test 2")
		So(called, ShouldResemble, []string{"ok"})
	})

	PatchConvey("TestInvokeBeforeStopHook-Success", t, func() {
		resetHooks()
		defer resetHooks()

		BeforeStop(StopSuccess)
		BeforeStop(ShortRunStop)
		So(InvokeBeforeStopHook(), ShouldBeNil)
	})

	PatchConvey("TestInvokeBeforeStopHook-HookTimeout", t, func() {
		resetHooks()
		defer resetHooks()

		BeforeStop(LongRunStop, Timeout(100*time.Millisecond))
		err := InvokeBeforeStopHook()
		So(err, ShouldNotBeNil)
		So(err.Error(), ShouldContainSubstring, "hook timeout after 100ms")
	})

	PatchConvey("TestInvokeBeforeStopHook-Timeout", t, func() {
		resetHooks()
		defer resetHooks()

		SetStopTimeout(200 * time.Millisecond)
		BeforeStop(LongRunStop, Timeout(0))
		err := InvokeBeforeStopHook()
		So(err, ShouldNotBeNil)
		So(err.Error(), ShouldContainSubstring, "timeout")
	})
}

func ShortRunStop() error {
	return nil
}

func LongRunStop() error {
	time.Sleep(time.Second)
	return nil
}

func StopErr1() error {
	return errors.New("for test")
}

func StopErr2() error {
	panic("for test 2")
}

func StopSuccess() error {
	return nil
}

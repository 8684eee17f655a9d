package xdbug

import (
	"fmt"
	"unicode"

	"github.com/xiaoshicae/xdbug/xopt"
	"github.com/xiaoshicae/xdbug/xutil"
)

// Number Compare 支持的数值类型
// int8/uint8/int32 为可打印字符时按字符输出
type Number interface {
	~int | ~int8 | ~int16 | ~int32 | ~int64 |
		~uint | ~uint8 | ~uint16 | ~uint32 | ~uint64 |
		~float32 | ~float64
}

// Compare 比较 first 和 second 是否相等并输出两者的值
// 开启 c 且过滤器放行 "firstName==secondName" 时输出，返回值与输出无关
func Compare[T Number](s *Scope, firstName, secondName string, first, second T) bool {
	equal := first == second
	if s == nil {
		return equal
	}

	file, line, _ := xutil.CallerInfo(1)
	keyword := firstName + "==" + secondName
	s.t.emit(s.ct, filterGate(xopt.CheckOutput, keyword), func() entry {
		op := "!="
		if equal {
			op = "=="
		}
		return entry{
			file:    file,
			line:    line,
			payload: fmt.Sprintf("compare(%s, %s): %s %s %s", firstName, secondName, formatNumber(first), op, formatNumber(second)),
		}
	})
	return equal
}

func formatNumber(v any) string {
	switch n := v.(type) {
	case int8:
		return formatChar(rune(n), int64(n))
	case uint8:
		return formatChar(rune(n), int64(n))
	case int32:
		return formatChar(n, int64(n))
	default:
		return fmt.Sprint(v)
	}
}

// formatChar 不可打印时只输出数值
func formatChar(r rune, n int64) string {
	if n < 0 || !unicode.IsPrint(r) {
		return fmt.Sprintf("%d", n)
	}
	return fmt.Sprintf("%q(%d)", r, n)
}

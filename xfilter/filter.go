// Package xfilter 根据关键字决定 Print/Compare 输出是否放行
//
// 规则：正则非空且可编译时以正则为准；否则子串非空时按子串包含判断；两者都为空则全部放行。
// 无法编译的正则视为未设置，交由子串规则处理。
package xfilter

import (
	"regexp"
	"strings"

	"github.com/xiaoshicae/xdbug/xutil"
)

// Filter 关键字过滤器，值类型，修改通过 With* 返回新值
type Filter struct {
	Simple string
	RegExp string

	re *regexp.Regexp
}

// New 创建过滤器，regExp 编译失败时只保留子串规则
func New(simple, regExp string) Filter {
	return Filter{Simple: simple}.WithRegExp(regExp)
}

// WithSimple 替换子串规则
func (f Filter) WithSimple(simple string) Filter {
	f.Simple = simple
	return f
}

// WithRegExp 替换正则规则，空字符串表示清除
func (f Filter) WithRegExp(pattern string) Filter {
	f.RegExp = pattern
	f.re = nil
	if pattern == "" {
		return f
	}
	re, err := Compile(pattern)
	if err != nil {
		xutil.WarnIfEnableDebug("XDbug xfilter ignore invalid regexp, pattern=[%s], err=[%v]", pattern, err)
		return f
	}
	f.re = re
	return f
}

// Valid 正则是否可用，未设置正则时也返回 true
func (f Filter) Valid() bool {
	return f.RegExp == "" || f.re != nil
}

// Empty 是否没有任何有效规则
func (f Filter) Empty() bool {
	return f.re == nil && f.Simple == ""
}

// Accept 判断 keyword 是否放行
func (f Filter) Accept(keyword string) bool {
	if f.re != nil {
		return f.re.MatchString(keyword)
	}
	if f.Simple != "" {
		return strings.Contains(keyword, f.Simple)
	}
	return true
}

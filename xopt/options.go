// Package xopt 负责 trace 选项字符串与位掩码之间的转换
//
// 每个字母对应一个功能，顺序无关，重复无害，无法识别的字母直接忽略：
//
//	f 文件名            l 行号
//	m 耗时(毫秒)        i goroutine id
//	n goroutine 名称    p Print 输出
//	t 函数进出及缩进     d 日期时间
//	c Check/Compare 输出 r 输出行号
package xopt

import "strings"

// Options 功能位掩码
type Options uint64

const (
	FileName Options = 1 << iota
	LineNumber
	ElapsedMs
	ThreadID
	ThreadName
	PrintText
	CallTrace
	DateTime
	CheckOutput
	RowNumbers
)

// None 不启用任何功能
const None Options = 0

// Feature 单个功能的描述
type Feature struct {
	Letter  byte
	Option  Options
	Name    string
	Enabled bool
}

// features 规范顺序，String() 按此顺序输出字母
var features = []Feature{
	{Letter: 'f', Option: FileName, Name: "file name"},
	{Letter: 'l', Option: LineNumber, Name: "line number"},
	{Letter: 'm', Option: ElapsedMs, Name: "elapsed ms"},
	{Letter: 'i', Option: ThreadID, Name: "goroutine id"},
	{Letter: 'p', Option: PrintText, Name: "print text"},
	{Letter: 'n', Option: ThreadName, Name: "goroutine name"},
	{Letter: 't', Option: CallTrace, Name: "call trace"},
	{Letter: 'd', Option: DateTime, Name: "date time"},
	{Letter: 'c', Option: CheckOutput, Name: "check output"},
	{Letter: 'r', Option: RowNumbers, Name: "row numbers"},
}

// Parse 解析选项字符串，空字符串返回 None，无法识别的字符忽略
func Parse(text string) Options {
	var o Options
	for i := 0; i < len(text); i++ {
		o |= letterOption(text[i])
	}
	return o
}

func letterOption(b byte) Options {
	for _, f := range features {
		if f.Letter == b {
			return f.Option
		}
	}
	return None
}

// String 按规范顺序输出字母，Parse(o.String()) == o
func (o Options) String() string {
	var sb strings.Builder
	for _, f := range features {
		if o&f.Option != 0 {
			sb.WriteByte(f.Letter)
		}
	}
	return sb.String()
}

// Has 是否启用了 x 中的全部功能
func (o Options) Has(x Options) bool {
	return x != None && o&x == x
}

// Any 是否启用了 x 中的任一功能
func (o Options) Any(x Options) bool {
	return o&x != 0
}

func (o Options) With(x Options) Options {
	return o | x
}

func (o Options) Without(x Options) Options {
	return o &^ x
}

// Features 列出全部功能及其启用状态
func (o Options) Features() []Feature {
	res := make([]Feature, len(features))
	for i, f := range features {
		f.Enabled = o&f.Option != 0
		res[i] = f
	}
	return res
}

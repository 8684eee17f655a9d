package xdbug

import (
	"fmt"

	"github.com/xiaoshicae/xdbug/xconfig"
	"github.com/xiaoshicae/xdbug/xfilter"
	"github.com/xiaoshicae/xdbug/xlog"
	"github.com/xiaoshicae/xdbug/xopt"
)

// DefaultName 未命名 goroutine 绑定的配置名称
const DefaultName = "default"

// Configuration 一组命名的输出配置
// 注册表中保存的是模板，每个 Context 持有自己的拷贝，修改互不影响
type Configuration struct {
	Name    string
	Options xopt.Options
	Prompt  string
	Filter  xfilter.Filter

	// LogFile 独占日志文件，为空时使用全局输出
	LogFile     string
	LogFileMode xlog.Mode
}

// NewConfiguration 按名称和选项字符串创建配置
func NewConfiguration(name, opts string) *Configuration {
	if name == "" {
		name = DefaultName
	}
	return &Configuration{
		Name:        name,
		Options:     xopt.Parse(opts),
		LogFileMode: xlog.ModeAppend,
	}
}

func newConfigurationFrom(c xconfig.ContextConfig) *Configuration {
	conf := NewConfiguration(c.Name, c.Options)
	conf.Prompt = c.Prompt
	conf.Filter = xfilter.New(c.SimpleSearchStr, c.RegExpStr)
	conf.LogFile = c.LogFile
	conf.LogFileMode = xlog.ParseMode(c.LogFileMode)
	return conf
}

func (c *Configuration) clone() *Configuration {
	cp := *c
	return &cp
}

func (c *Configuration) String() string {
	if c == nil {
		return "<nil>"
	}
	return fmt.Sprintf("name=%s options=%s prompt=%q simple=%q regexp=%q logfile=%q mode=%s",
		c.Name, c.Options, c.Prompt, c.Filter.Simple, c.Filter.RegExp, c.LogFile, c.LogFileMode)
}

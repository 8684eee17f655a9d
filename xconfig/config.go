package xconfig

import (
	"github.com/xiaoshicae/xdbug/xutil"
)

const (
	defaultContextName = "default"
	defaultLogFileMode = "append"
)

// AppConfig 一个应用的 trace 配置，配置文件中以应用名为一级 key
type AppConfig struct {
	// Enable trace 是否开启
	// optional default true
	Enable *bool `mapstructure:"Enable"`

	// LogFile 全局日志文件，为空则使用 stderr
	// optional default ""
	LogFile string `mapstructure:"LogFile"`

	// LogFileMode 全局日志文件打开方式 overwrite|append|rotate
	// optional default "append"
	LogFileMode string `mapstructure:"LogFileMode"`

	// MaxAge 日志保存最大时间，仅 rotate 生效
	// optional default "7d"
	MaxAge string `mapstructure:"MaxAge"`

	// RotateTime 日志切割时长，仅 rotate 生效
	// optional default "1d"
	RotateTime string `mapstructure:"RotateTime"`

	// Contexts 命名配置，支持列表形式（完整字段）和 map 形式（name: options）
	// map 形式的 name 会被 viper 转为小写
	Contexts []ContextConfig `mapstructure:"-"`
}

// ContextConfig 单个命名配置
type ContextConfig struct {
	// Name 配置名称，goroutine 通过 SetName 绑定
	// optional default "default"
	Name string `mapstructure:"Name"`

	// Options 选项字符串，如 "flmt"
	// optional default ""
	Options string `mapstructure:"Options"`

	// Prompt 每行输出的前缀
	// optional default ""
	Prompt string `mapstructure:"Prompt"`

	// SimpleSearchStr 子串过滤
	// optional default ""
	SimpleSearchStr string `mapstructure:"SimpleSearchStr"`

	// RegExpStr 正则过滤，优先于子串过滤
	// optional default ""
	RegExpStr string `mapstructure:"RegExpStr"`

	// LogFile 该配置独占的日志文件
	// optional default ""
	LogFile string `mapstructure:"LogFile"`

	// LogFileMode 独占日志文件打开方式
	// optional default "append"
	LogFileMode string `mapstructure:"LogFileMode"`
}

func configMergeDefault(c *AppConfig) *AppConfig {
	if c == nil {
		c = &AppConfig{}
	}
	// Enable 使用指针类型，区分"未配置"和"配置为false"
	if c.Enable == nil {
		c.Enable = xutil.ToPtr(true)
	}
	c.LogFileMode = xutil.GetOrDefault(c.LogFileMode, defaultLogFileMode)
	c.MaxAge = xutil.GetOrDefault(c.MaxAge, "7d")
	c.RotateTime = xutil.GetOrDefault(c.RotateTime, "1d")
	for i := range c.Contexts {
		contextConfigMergeDefault(&c.Contexts[i])
	}
	return c
}

func contextConfigMergeDefault(c *ContextConfig) {
	c.Name = xutil.GetOrDefault(c.Name, defaultContextName)
	c.LogFileMode = xutil.GetOrDefault(c.LogFileMode, defaultLogFileMode)
}

package xconfig

import (
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cast"
	"github.com/spf13/viper"

	"github.com/xiaoshicae/xdbug/xerror"
	"github.com/xiaoshicae/xdbug/xutil"
)

const (
	dotEnvFileName = ".env"
	contextsKey    = "Contexts"
)

// 预编译正则表达式，避免重复编译
var envPlaceholderRegex = regexp.MustCompile(`\$\{([^}:]+)(?::-([^}]*))?\}`)

// Load 读取配置文件中 appName 对应的 trace 配置
// 任何一步失败都返回错误，调用方不应应用部分结果
func Load(appName, configLocation string) (*AppConfig, error) {
	if err := checkParam(appName, configLocation); err != nil {
		return nil, xerror.New("xconfig", "load", err)
	}

	if err := loadDotEnvIfExist(configLocation); err != nil {
		return nil, xerror.Newf("xconfig", "load", "invoke loadDotEnvIfExist failed, err=[%v]", err)
	}

	vp, err := parseConfig(configLocation)
	if err != nil {
		return nil, xerror.Newf("xconfig", "load", "invoke parseConfig failed, err=[%v]", err)
	}

	if !vp.IsSet(appName) {
		return nil, xerror.Newf("xconfig", "load", "app [%s] not found in [%s]", appName, configLocation)
	}

	c := &AppConfig{}
	if err := vp.UnmarshalKey(appName, c); err != nil {
		return nil, xerror.Newf("xconfig", "load", "invoke UnmarshalKey failed, app=[%s], err=[%v]", appName, err)
	}

	contexts, err := parseContexts(vp, appName+"."+contextsKey)
	if err != nil {
		return nil, xerror.Newf("xconfig", "load", "parse contexts failed, app=[%s], err=[%v]", appName, err)
	}
	c.Contexts = contexts

	c = configMergeDefault(c)
	xutil.InfoIfEnableDebug("XDbug load config, app=[%s], config=[%s]", appName, xutil.ToJsonString(c))
	return c, nil
}

// parseContexts 支持两种写法：
//
//	Contexts:            Contexts:
//	  - Name: worker       worker: tp
//	    Options: tp        db: fl
func parseContexts(vp *viper.Viper, key string) ([]ContextConfig, error) {
	raw := vp.Get(key)
	if raw == nil {
		return nil, nil
	}

	if xutil.IsSlice(raw) {
		var contexts []ContextConfig
		if err := vp.UnmarshalKey(key, &contexts); err != nil {
			return nil, err
		}
		return contexts, nil
	}

	m, err := cast.ToStringMapE(raw)
	if err != nil {
		return nil, err
	}
	contexts := make([]ContextConfig, 0, len(m))
	for name, v := range m {
		opts, err := cast.ToStringE(v)
		if err != nil {
			return nil, xerror.Newf("xconfig", "parseContexts", "options of [%s] is not a string, err=[%v]", name, err)
		}
		contexts = append(contexts, ContextConfig{Name: name, Options: opts})
	}
	return contexts, nil
}

func loadDotEnvIfExist(configLocation string) error {
	dotEnvFileFullPath := filepath.Join(filepath.Dir(configLocation), dotEnvFileName)
	if xutil.FileExist(dotEnvFileFullPath) {
		return godotenv.Load(dotEnvFileFullPath)
	}
	return nil
}

func parseConfig(configLocation string) (*viper.Viper, error) {
	baseViperConfig, err := loadLocalConfig(configLocation)
	if err != nil {
		return nil, err
	}

	if pa := detectProfilesActive(); pa != "" {
		envConfigLocation, err := toProfilesActiveConfigLocation(configLocation, pa)
		if err != nil {
			return nil, err
		}
		// 环境配置文件可选，不存在时只用基础配置
		if xutil.FileExist(envConfigLocation) {
			envViperConfig, err := loadLocalConfig(envConfigLocation)
			if err != nil {
				return nil, err
			}
			baseViperConfig = mergeProfilesViperConfig(baseViperConfig, envViperConfig)
		}
	}

	expandEnvPlaceholders(baseViperConfig)
	return baseViperConfig, nil
}

func loadLocalConfig(configLocation string) (*viper.Viper, error) {
	vp := viper.New()
	vp.SetConfigFile(configLocation)
	if err := vp.ReadInConfig(); err != nil {
		return nil, err
	}
	return vp, nil
}

// expandEnvPlaceholders 递归展开配置中的 ${VAR} 或 ${VAR:-default} 占位符
// 支持的语法:
//   - ${VAR} - 从环境变量读取 VAR
//   - ${VAR:-default} - 从环境变量读取 VAR，如果不存在则使用 default
//
// 列表形式的 Contexts 不在 AllKeys 中，因此直接遍历 AllSettings 的嵌套结构，
// 再按一级 key 整体写回，保持嵌套结构完整
func expandEnvPlaceholders(vp *viper.Viper) {
	allSettings := vp.AllSettings()
	changed := false
	for k, v := range allSettings {
		expanded, ok := expandValue(v)
		if ok {
			allSettings[k] = expanded
			changed = true
		}
	}
	if !changed {
		return
	}
	for k, v := range allSettings {
		vp.Set(k, v)
	}
}

// expandValue 返回展开后的值以及是否发生了变化
func expandValue(v interface{}) (interface{}, bool) {
	switch val := v.(type) {
	case string:
		expanded := expandEnv(val)
		return expanded, expanded != val
	case map[string]interface{}:
		changed := false
		for k, item := range val {
			if expanded, ok := expandValue(item); ok {
				val[k] = expanded
				changed = true
			}
		}
		return val, changed
	case []interface{}:
		changed := false
		for i, item := range val {
			if expanded, ok := expandValue(item); ok {
				val[i] = expanded
				changed = true
			}
		}
		return val, changed
	default:
		return v, false
	}
}

func expandEnv(val string) string {
	return envPlaceholderRegex.ReplaceAllStringFunc(val, func(match string) string {
		matches := envPlaceholderRegex.FindStringSubmatch(match)
		// 边界检查：确保正则匹配成功且有足够的捕获组
		if len(matches) < 2 {
			return match
		}
		envKey := matches[1]
		defaultVal := ""
		if len(matches) >= 3 {
			defaultVal = matches[2]
		}
		if envVal := os.Getenv(envKey); envVal != "" {
			return envVal
		}
		return defaultVal
	})
}

func checkParam(appName, configLocation string) error {
	if strings.TrimSpace(appName) == "" {
		return xerror.Newf("xconfig", "checkParam", "param appName is empty")
	}
	if configLocation == "" {
		return xerror.Newf("xconfig", "checkParam", "param configLocation is empty")
	}
	if !xutil.FileExist(configLocation) {
		return xerror.Newf("xconfig", "checkParam", "config file [%s] not exists", configLocation)
	}
	return nil
}

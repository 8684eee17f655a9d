package xconfig

import (
	"os"

	"github.com/xiaoshicae/xdbug/xutil"
)

const (
	configLocationArgKey = "xdbug.config.location"
	configLocationEnvKey = "XDBUG_CONFIG_LOCATION"
)

// configLocationPaths 配置文件搜索路径列表，按优先级排序
var configLocationPaths = []string{
	"./xdbug.yml",
	"./xdbug.yaml",
	"./conf/xdbug.yml",
	"./conf/xdbug.yaml",
	"./config/xdbug.yml",
	"./config/xdbug.yaml",
}

// DetectConfigLocation 依次从启动参数、环境变量、当前目录查找配置文件，找不到返回空
func DetectConfigLocation() string {
	if loc := getLocationFromArg(); loc != "" {
		xutil.InfoIfEnableDebug("XDbug detect config location [%s] from arg", loc)
		return loc
	}
	if loc := getLocationFromENV(); loc != "" {
		xutil.InfoIfEnableDebug("XDbug detect config location [%s] from env", loc)
		return loc
	}
	if loc := getLocationFromCurrentDir(); loc != "" {
		xutil.InfoIfEnableDebug("XDbug detect config location [%s] from current dir", loc)
		return loc
	}
	return ""
}

func getLocationFromArg() string {
	c, _ := xutil.GetConfigFromArgs(configLocationArgKey)
	return c
}

func getLocationFromENV() string {
	return os.Getenv(configLocationEnvKey)
}

func getLocationFromCurrentDir() string {
	for _, loc := range configLocationPaths {
		if xutil.FileExist(loc) {
			return loc
		}
	}
	return ""
}

package xconfig

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"github.com/xiaoshicae/xdbug/xutil"
)

const (
	profilesActiveArgKey = "xdbug.profiles.active"
	profilesActiveEnvKey = "XDBUG_PROFILES_ACTIVE"
)

func detectProfilesActive() string {
	if pa := getProfilesActiveFromArg(); pa != "" {
		xutil.InfoIfEnableDebug("XDbug detect profiles active [%s] from arg", pa)
		return pa
	}
	if pa := getProfilesActiveFromENV(); pa != "" {
		xutil.InfoIfEnableDebug("XDbug detect profiles active [%s] from env", pa)
		return pa
	}
	return ""
}

func getProfilesActiveFromArg() string {
	c, _ := xutil.GetConfigFromArgs(profilesActiveArgKey)
	return c
}

func getProfilesActiveFromENV() string {
	return os.Getenv(profilesActiveEnvKey)
}

// toProfilesActiveConfigLocation "./xdbug.yml" + "dev" -> "./xdbug-dev.yml"
func toProfilesActiveConfigLocation(configLocation string, pa string) (string, error) {
	ext := filepath.Ext(configLocation)
	base := strings.TrimSuffix(configLocation, ext)
	if ext == "" || ext == "." || base == "" || strings.HasSuffix(base, "/") {
		return "", fmt.Errorf("config file name is invalid")
	}
	return fmt.Sprintf("%s-%s%s", base, pa, ext), nil
}

// mergeProfilesViperConfig 合并不同环境的两个viper，vp2 的一级 key（应用）整体覆盖 vp1
func mergeProfilesViperConfig(vp1, vp2 *viper.Viper) *viper.Viper {
	vp := viper.New()
	for k, v := range vp1.AllSettings() {
		vp.Set(k, v)
	}
	for k, v := range vp2.AllSettings() {
		vp.Set(k, v)
	}
	return vp
}

package xutil

import (
	"encoding/json"
)

// ToJsonString 转换为json字符串，失败返回空字符串，仅用于 debug 日志
func ToJsonString(v interface{}) string {
	vv, err := json.Marshal(v)
	if err != nil {
		return ""
	}
	return string(vv)
}

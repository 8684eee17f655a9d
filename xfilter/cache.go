package xfilter

import (
	"regexp"
	"sync"

	"github.com/dgraph-io/ristretto"

	"github.com/xiaoshicae/xdbug/xerror"
	"github.com/xiaoshicae/xdbug/xutil"
)

const (
	defaultNumCounters = 10000
	defaultMaxCost     = 1000
	defaultBufferItems = 64
)

var (
	patternCache     *ristretto.Cache
	patternCacheOnce sync.Once
)

// Compile 编译正则，相同 pattern 复用已编译结果
// 每个 goroutine 的 Context 都持有独立的配置副本，同一个 pattern 往往会被重复设置
func Compile(pattern string) (*regexp.Regexp, error) {
	cache := getPatternCache()
	if cache != nil {
		if v, ok := cache.Get(pattern); ok {
			if re, ok := v.(*regexp.Regexp); ok {
				return re, nil
			}
		}
	}

	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, xerror.Newf("xfilter", "compile", "pattern=[%s], err=[%v]", pattern, err)
	}
	if cache != nil {
		cache.Set(pattern, re, 1)
	}
	return re, nil
}

// getPatternCache 懒初始化缓存，初始化失败返回 nil，此时退化为每次编译
func getPatternCache() *ristretto.Cache {
	patternCacheOnce.Do(func() {
		c, err := ristretto.NewCache(&ristretto.Config{
			NumCounters: defaultNumCounters,
			MaxCost:     defaultMaxCost,
			BufferItems: defaultBufferItems,
		})
		if err != nil {
			xutil.ErrorIfEnableDebug("XDbug xfilter create pattern cache failed, err=[%v]", err)
			return
		}
		patternCache = c
	})
	return patternCache
}

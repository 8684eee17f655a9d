package xlog

import (
	"io"
	"os"
	"path/filepath"

	rotatelogs "github.com/lestrrat-go/file-rotatelogs"

	"github.com/xiaoshicae/xdbug/xerror"
	"github.com/xiaoshicae/xdbug/xutil"
)

// OpenFile 按配置打开日志文件，所在文件夹不存在则创建
func OpenFile(c *FileConfig) (io.WriteCloser, error) {
	c = configMergeDefault(c)
	if c.Path == "" {
		return nil, xerror.Newf("xlog", "open", "path is empty")
	}

	if dir := filepath.Dir(c.Path); !xutil.DirExist(dir) {
		if err := os.MkdirAll(dir, os.ModePerm); err != nil {
			return nil, xerror.Newf("xlog", "open", "invoke os.MkdirAll failed, path=[%s], err=[%v]", dir, err)
		}
	}

	switch Mode(c.Mode) {
	case ModeRotate:
		w, err := rotatelogs.New(
			c.Path+".%Y%m%d",
			rotatelogs.WithLinkName(c.Path),
			rotatelogs.WithMaxAge(xutil.ToDuration(c.MaxAge)),
			rotatelogs.WithRotationTime(xutil.ToDuration(c.RotateTime)),
		)
		if err != nil {
			return nil, xerror.Newf("xlog", "open", "invoke rotatelogs.New failed, path=[%s], err=[%v]", c.Path, err)
		}
		return w, nil
	case ModeAppend:
		return openOSFile(c.Path, os.O_CREATE|os.O_WRONLY|os.O_APPEND)
	default:
		return openOSFile(c.Path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC)
	}
}

func openOSFile(path string, flag int) (io.WriteCloser, error) {
	f, err := os.OpenFile(path, flag, 0o644)
	if err != nil {
		return nil, xerror.Newf("xlog", "open", "invoke os.OpenFile failed, path=[%s], err=[%v]", path, err)
	}
	return f, nil
}

// Flush 刷新 writer，支持 Flush() error 或 Sync() error，其它类型直接返回 nil
func Flush(w io.Writer) error {
	switch fw := w.(type) {
	case interface{ Flush() error }:
		return fw.Flush()
	case interface{ Sync() error }:
		return fw.Sync()
	default:
		return nil
	}
}

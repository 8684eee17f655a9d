package xdbug

import (
	"errors"
	"io"
	"os"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/xiaoshicae/xdbug/xconfig"
	"github.com/xiaoshicae/xdbug/xerror"
	"github.com/xiaoshicae/xdbug/xfilter"
	"github.com/xiaoshicae/xdbug/xlog"
	"github.com/xiaoshicae/xdbug/xopt"
	"github.com/xiaoshicae/xdbug/xutil"
)

// Tracer 保存配置模板、goroutine Context 以及输出目标
// 所有注册表访问都在同一把锁内完成，开关状态无锁读取
type Tracer struct {
	mu      sync.Mutex
	enabled atomic.Bool

	templates map[string]*Configuration
	contexts  map[uint64]*Context

	// stream 全局输出，SetLogStream 设置的 writer 或 SetGlobalLogFile 打开的文件
	stream     io.Writer
	streamPath string
	// files 按路径共享的文件句柄，由 CloseLogFile 统一关闭
	files map[string]io.WriteCloser

	epoch    time.Time
	rows     uint64
	clock    func() time.Time
	fallback io.Writer
}

// New 创建 Tracer，一般直接使用包级函数操作默认 Tracer
func New(opts ...Option) *Tracer {
	o := &options{
		Clock:    time.Now,
		Fallback: os.Stderr,
	}
	for _, opt := range opts {
		opt(o)
	}

	t := &Tracer{
		templates: make(map[string]*Configuration),
		contexts:  make(map[uint64]*Context),
		files:     make(map[string]io.WriteCloser),
		clock:     o.Clock,
		fallback:  o.Fallback,
	}
	t.epoch = t.clock()
	t.enabled.Store(!o.Disabled)
	return t
}

// Enabled 全局开关状态
func (t *Tracer) Enabled() bool {
	return t.enabled.Load()
}

// Disable 关闭所有输出，嵌套深度仍然正常维护
func (t *Tracer) Disable() {
	t.mu.Lock()
	t.enabled.Store(false)
	t.mu.Unlock()
}

// Enable 打开输出
func (t *Tracer) Enable() {
	t.mu.Lock()
	t.enabled.Store(true)
	t.mu.Unlock()
}

// SetTimeElapsedStart 重置日期时间段中相对耗时的起点
func (t *Tracer) SetTimeElapsedStart() {
	now := t.clock()
	t.mu.Lock()
	t.epoch = now
	t.mu.Unlock()
}

// CreateContext 注册或替换命名配置模板
// 已绑定该名称的 goroutine 持有旧拷贝，不受影响
func (t *Tracer) CreateContext(name, opts string) {
	conf := NewConfiguration(name, opts)
	t.mu.Lock()
	t.templates[conf.Name] = conf
	t.mu.Unlock()
}

// RegisterConfiguration 注册完整的配置模板
func (t *Tracer) RegisterConfiguration(conf Configuration) {
	if conf.Name == "" {
		conf.Name = DefaultName
	}
	conf.LogFileMode = xlog.ParseMode(string(conf.LogFileMode))
	// 调用方直接填写的 Filter 没有编译正则
	conf.Filter = xfilter.New(conf.Filter.Simple, conf.Filter.RegExp)
	t.mu.Lock()
	t.templates[conf.Name] = &conf
	t.mu.Unlock()
}

// Configurations 已注册模板的只读拷贝，按名称排序
func (t *Tracer) Configurations() []Configuration {
	t.mu.Lock()
	defer t.mu.Unlock()

	res := make([]Configuration, 0, len(t.templates))
	for _, c := range t.templates {
		res = append(res, *c)
	}
	sort.Slice(res, func(i, j int) bool { return res[i].Name < res[j].Name })
	return res
}

// ReadConfig 从配置文件加载 appName 下的配置
// 加载失败返回 false，已注册的模板保持不变
func (t *Tracer) ReadConfig(appName, path string) bool {
	c, err := xconfig.Load(appName, path)
	if err != nil {
		xutil.ErrorIfEnableDebug("XDbug read config failed, app=[%s], path=[%s], err=[%v]", appName, path, err)
		return false
	}
	t.apply(c)
	return true
}

// Init 自动探测配置文件位置并加载 appName 下的配置
func (t *Tracer) Init(appName string) bool {
	location := xconfig.DetectConfigLocation()
	if location == "" {
		xutil.WarnIfEnableDebug("XDbug config location not found, app=[%s]", appName)
		return false
	}
	return t.ReadConfig(appName, location)
}

func (t *Tracer) apply(c *xconfig.AppConfig) {
	templates := make(map[string]*Configuration, len(c.Contexts))
	for _, cc := range c.Contexts {
		templates[cc.Name] = newConfigurationFrom(cc)
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	for name, conf := range templates {
		t.templates[name] = conf
	}
	t.enabled.Store(*c.Enable)

	if c.LogFile != "" {
		fc := &xlog.FileConfig{Path: c.LogFile, Mode: c.LogFileMode, MaxAge: c.MaxAge, RotateTime: c.RotateTime}
		if err := t.setGlobalFileLocked(fc); err != nil {
			xutil.WarnIfEnableDebug("XDbug keep current log stream, err=[%v]", err)
		}
	}
	xutil.InfoIfEnableDebug("XDbug config applied, contexts=[%d], enable=[%v], logfile=[%s]", len(templates), *c.Enable, c.LogFile)
}

// Current 当前 goroutine Context 的快照
func (t *Tracer) Current() Context {
	ct := t.context()
	t.mu.Lock()
	defer t.mu.Unlock()
	return ct.snapshot()
}

// context 当前 goroutine 的 Context，不存在时绑定 default 模板的拷贝创建
func (t *Tracer) context() *Context {
	gid := xutil.GoroutineID()
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.contextLocked(gid)
}

func (t *Tracer) contextLocked(gid uint64) *Context {
	if ct, ok := t.contexts[gid]; ok {
		return ct
	}
	ct := &Context{id: gid, name: DefaultName}
	t.bindLocked(ct, t.templateLocked(DefaultName))
	t.contexts[gid] = ct
	return ct
}

// templateLocked 模板拷贝，未注册时返回空配置
func (t *Tracer) templateLocked(name string) *Configuration {
	if tmpl, ok := t.templates[name]; ok {
		return tmpl.clone()
	}
	return NewConfiguration(name, "")
}

// bindLocked 绑定配置并打开其独占日志文件，打开失败时退回全局输出
func (t *Tracer) bindLocked(ct *Context, conf *Configuration) {
	ct.conf = conf
	ct.out = nil
	if conf.LogFile == "" {
		return
	}
	w, err := t.openLocked(&xlog.FileConfig{Path: conf.LogFile, Mode: string(conf.LogFileMode)})
	if err != nil {
		xutil.WarnIfEnableDebug("XDbug context log file unavailable, goroutine=[%d], err=[%v]", ct.id, err)
		return
	}
	ct.out = w
}

// update 在锁内修改当前 goroutine 的 Context
func (t *Tracer) update(f func(ct *Context)) {
	gid := xutil.GoroutineID()
	t.mu.Lock()
	defer t.mu.Unlock()
	f(t.contextLocked(gid))
}

// SetOptions 设置当前 goroutine 的选项
func (t *Tracer) SetOptions(o xopt.Options) {
	t.update(func(ct *Context) { ct.conf.Options = o })
}

// SetOptionsString 以选项字符串设置当前 goroutine 的选项
func (t *Tracer) SetOptionsString(opts string) {
	t.SetOptions(xopt.Parse(opts))
}

// SetName 设置当前 goroutine 名称，存在同名模板时改为绑定该模板的拷贝
func (t *Tracer) SetName(name string) {
	t.update(func(ct *Context) {
		ct.name = name
		if tmpl, ok := t.templates[name]; ok {
			t.bindLocked(ct, tmpl.clone())
		}
	})
}

// SetPrompt 设置当前 goroutine 每行输出的前缀
func (t *Tracer) SetPrompt(prompt string) {
	t.update(func(ct *Context) { ct.conf.Prompt = prompt })
}

// SetSimpleSearchStr 设置当前 goroutine 的子串过滤
func (t *Tracer) SetSimpleSearchStr(s string) {
	t.update(func(ct *Context) { ct.conf.Filter = ct.conf.Filter.WithSimple(s) })
}

// SetRegExpStr 设置当前 goroutine 的正则过滤，无法编译的正则视为未设置
func (t *Tracer) SetRegExpStr(pattern string) {
	// 编译放在锁外，Filter 是值类型，只有当前 goroutine 会修改自己的配置
	f := xfilter.New("", pattern)
	t.update(func(ct *Context) { ct.conf.Filter = f.WithSimple(ct.conf.Filter.Simple) })
}

// SetLogFile 为当前 goroutine 设置独占日志文件，path 为空表示改回全局输出
// 打开失败返回 false，保持原输出不变
func (t *Tracer) SetLogFile(path string, overwrite bool) bool {
	gid := xutil.GoroutineID()
	t.mu.Lock()
	defer t.mu.Unlock()

	ct := t.contextLocked(gid)
	if path == "" {
		ct.conf.LogFile = ""
		ct.out = nil
		return true
	}

	mode := xlog.ModeOf(overwrite)
	w, err := t.openLocked(&xlog.FileConfig{Path: path, Mode: string(mode)})
	if err != nil {
		xutil.WarnIfEnableDebug("XDbug set log file failed, goroutine=[%d], err=[%v]", gid, err)
		return false
	}
	ct.conf.LogFile = path
	ct.conf.LogFileMode = mode
	ct.out = w
	return true
}

// SetGlobalLogFile 设置全局日志文件，替换之前的全局输出
func (t *Tracer) SetGlobalLogFile(path string, overwrite bool) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	if err := t.setGlobalFileLocked(&xlog.FileConfig{Path: path, Mode: string(xlog.ModeOf(overwrite))}); err != nil {
		xutil.WarnIfEnableDebug("XDbug set global log file failed, err=[%v]", err)
		return false
	}
	return true
}

// SetLogStream 设置全局输出流，nil 表示改回兜底输出
// 调用方负责该 writer 的生命周期
func (t *Tracer) SetLogStream(w io.Writer) {
	t.mu.Lock()
	t.stream = w
	t.streamPath = ""
	t.mu.Unlock()
}

func (t *Tracer) setGlobalFileLocked(c *xlog.FileConfig) error {
	w, err := t.openLocked(c)
	if err != nil {
		return err
	}
	t.stream = w
	t.streamPath = c.Path
	return nil
}

// openLocked 同一路径只打开一次，后续调用共享句柄
func (t *Tracer) openLocked(c *xlog.FileConfig) (io.WriteCloser, error) {
	if w, ok := t.files[c.Path]; ok {
		return w, nil
	}
	w, err := xlog.OpenFile(c)
	if err != nil {
		return nil, err
	}
	t.files[c.Path] = w
	return w, nil
}

// CloseLogFile 关闭所有打开的日志文件，之后输出回到日志流或兜底输出
func (t *Tracer) CloseLogFile() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	var errs []error
	for path, w := range t.files {
		if err := xlog.Flush(w); err != nil {
			errs = append(errs, xerror.Newf("xdbug", "CloseLogFile", "flush failed, path=[%s], err=[%v]", path, err))
		}
		if err := w.Close(); err != nil {
			errs = append(errs, xerror.Newf("xdbug", "CloseLogFile", "close failed, path=[%s], err=[%v]", path, err))
		}
	}
	t.files = make(map[string]io.WriteCloser)

	if t.streamPath != "" {
		t.stream = nil
		t.streamPath = ""
	}
	for _, ct := range t.contexts {
		ct.out = nil
	}

	return errors.Join(errs...)
}

// Flush 刷新当前 goroutine 的输出目标
func (t *Tracer) Flush() error {
	ct := t.context()
	t.mu.Lock()
	defer t.mu.Unlock()
	return xlog.Flush(t.writerLocked(ct))
}

// writerLocked 独占文件 > 全局输出 > 兜底输出
func (t *Tracer) writerLocked(ct *Context) io.Writer {
	if ct.out != nil {
		return ct.out
	}
	if t.stream != nil {
		return t.stream
	}
	return t.fallback
}

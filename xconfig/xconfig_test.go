package xconfig

import (
	"os"
	"path/filepath"
	"sort"
	"testing"

	"github.com/spf13/viper"

	"github.com/xiaoshicae/xdbug/xerror"
	"github.com/xiaoshicae/xdbug/xutil"

	. "github.com/bytedance/mockey"
	. "github.com/smartystreets/goconvey/convey"
)

func writeFile(t *testing.T, dir, name, content string) string {
	p := filepath.Join(dir, name)
	if err := os.WriteFile(p, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return p
}

const listConfig = `
myapp:
  LogFile: ./log/trace.log
  LogFileMode: rotate
  Contexts:
    - Name: worker
      Options: fltm
      Prompt: W
      RegExpStr: ^db
      LogFile: ./log/worker.log
      LogFileMode: overwrite
    - Options: p
other:
  Enable: false
`

func TestConfigMergeDefault(t *testing.T) {
	PatchConvey("TestConfigMergeDefault-Nil", t, func() {
		c := configMergeDefault(nil)
		So(c, ShouldResemble, &AppConfig{
			Enable:      xutil.ToPtr(true),
			LogFileMode: "append",
			MaxAge:      "7d",
			RotateTime:  "1d",
		})
	})

	PatchConvey("TestConfigMergeDefault-NotNil", t, func() {
		c := configMergeDefault(&AppConfig{
			Enable:      xutil.ToPtr(false),
			LogFile:     "a.log",
			LogFileMode: "rotate",
			MaxAge:      "1d",
			RotateTime:  "1h",
			Contexts:    []ContextConfig{{Options: "t"}},
		})
		So(*c.Enable, ShouldBeFalse)
		So(c.LogFileMode, ShouldEqual, "rotate")
		So(c.MaxAge, ShouldEqual, "1d")
		So(c.RotateTime, ShouldEqual, "1h")
		So(c.Contexts[0], ShouldResemble, ContextConfig{Name: "default", Options: "t", LogFileMode: "append"})
	})
}

func TestLoad(t *testing.T) {
	PatchConvey("TestLoad", t, func() {
		dir := t.TempDir()

		PatchConvey("TestLoad-List", func() {
			p := writeFile(t, dir, "xdbug.yml", listConfig)
			c, err := Load("myapp", p)
			So(err, ShouldBeNil)
			So(*c.Enable, ShouldBeTrue)
			So(c.LogFile, ShouldEqual, "./log/trace.log")
			So(c.LogFileMode, ShouldEqual, "rotate")
			So(len(c.Contexts), ShouldEqual, 2)
			So(c.Contexts[0], ShouldResemble, ContextConfig{
				Name:        "worker",
				Options:     "fltm",
				Prompt:      "W",
				RegExpStr:   "^db",
				LogFile:     "./log/worker.log",
				LogFileMode: "overwrite",
			})
			So(c.Contexts[1].Name, ShouldEqual, "default")
			So(c.Contexts[1].Options, ShouldEqual, "p")
		})

		PatchConvey("TestLoad-Disabled", func() {
			p := writeFile(t, dir, "xdbug.yml", listConfig)
			c, err := Load("other", p)
			So(err, ShouldBeNil)
			So(*c.Enable, ShouldBeFalse)
			So(c.Contexts, ShouldBeEmpty)
		})

		PatchConvey("TestLoad-Map", func() {
			p := writeFile(t, dir, "xdbug.yaml", "myapp:\n  Contexts:\n    worker: tp\n    db: fl\n")
			c, err := Load("myapp", p)
			So(err, ShouldBeNil)
			sort.Slice(c.Contexts, func(i, j int) bool { return c.Contexts[i].Name < c.Contexts[j].Name })
			So(c.Contexts, ShouldResemble, []ContextConfig{
				{Name: "db", Options: "fl", LogFileMode: "append"},
				{Name: "worker", Options: "tp", LogFileMode: "append"},
			})
		})

		PatchConvey("TestLoad-Json", func() {
			p := writeFile(t, dir, "xdbug.json", `{"myapp": {"Contexts": [{"Name": "worker", "Options": "c"}]}}`)
			c, err := Load("myapp", p)
			So(err, ShouldBeNil)
			So(c.Contexts[0].Name, ShouldEqual, "worker")
			So(c.Contexts[0].Options, ShouldEqual, "c")
		})

		PatchConvey("TestLoad-EnvPlaceholder", func() {
			os.Setenv("XDBUG_TEST_WORKER_OPTS", "dc")
			defer os.Unsetenv("XDBUG_TEST_WORKER_OPTS")
			os.Unsetenv("XDBUG_TEST_NOT_SET")

			p := writeFile(t, dir, "xdbug.yml", `
myapp:
  LogFile: ${XDBUG_TEST_NOT_SET:-./fallback.log}
  Contexts:
    - Name: worker
      Options: ${XDBUG_TEST_WORKER_OPTS}
`)
			c, err := Load("myapp", p)
			So(err, ShouldBeNil)
			So(c.LogFile, ShouldEqual, "./fallback.log")
			So(c.Contexts[0].Options, ShouldEqual, "dc")
		})

		PatchConvey("TestLoad-DotEnv", func() {
			os.Unsetenv("XDBUG_TEST_DOTENV_OPTS")
			defer os.Unsetenv("XDBUG_TEST_DOTENV_OPTS")

			writeFile(t, dir, ".env", "XDBUG_TEST_DOTENV_OPTS=np\n")
			p := writeFile(t, dir, "xdbug.yml", "myapp:\n  Contexts:\n    - Name: worker\n      Options: ${XDBUG_TEST_DOTENV_OPTS:-x}\n")
			c, err := Load("myapp", p)
			So(err, ShouldBeNil)
			So(c.Contexts[0].Options, ShouldEqual, "np")
		})

		PatchConvey("TestLoad-Profiles", func() {
			p := writeFile(t, dir, "xdbug.yml", listConfig)
			writeFile(t, dir, "xdbug-dev.yml", "myapp:\n  Contexts:\n    - Name: worker\n      Options: c\n")
			Mock(detectProfilesActive).Return("dev").Build()

			c, err := Load("myapp", p)
			So(err, ShouldBeNil)
			So(c.LogFile, ShouldEqual, "")
			So(len(c.Contexts), ShouldEqual, 1)
			So(c.Contexts[0].Options, ShouldEqual, "c")

			// other 应用不在 dev 配置中，保持基础配置
			o, err := Load("other", p)
			So(err, ShouldBeNil)
			So(*o.Enable, ShouldBeFalse)
		})

		PatchConvey("TestLoad-AppNotFound", func() {
			p := writeFile(t, dir, "xdbug.yml", listConfig)
			_, err := Load("missing", p)
			So(xerror.Is(err, "xconfig"), ShouldBeTrue)
		})

		PatchConvey("TestLoad-FileNotExist", func() {
			_, err := Load("myapp", filepath.Join(dir, "nope.yml"))
			So(err, ShouldNotBeNil)
		})

		PatchConvey("TestLoad-Malformed", func() {
			p := writeFile(t, dir, "xdbug.yml", "myapp: [unclosed\n")
			_, err := Load("myapp", p)
			So(err, ShouldNotBeNil)
		})

		PatchConvey("TestLoad-EmptyParam", func() {
			_, err := Load("", "x.yml")
			So(err, ShouldNotBeNil)
			_, err = Load("myapp", "")
			So(err, ShouldNotBeNil)
		})
	})
}

func TestToProfilesActiveConfigLocation(t *testing.T) {
	PatchConvey("TestToProfilesActiveConfigLocation", t, func() {
		location, err := toProfilesActiveConfigLocation("x", "a")
		So(err, ShouldNotBeNil)
		So(location, ShouldBeEmpty)

		location, err = toProfilesActiveConfigLocation("x.yml", "a")
		So(err, ShouldBeNil)
		So(location, ShouldEqual, "x-a.yml")

		location, err = toProfilesActiveConfigLocation("./conf/xdbug.yml", "dev")
		So(err, ShouldBeNil)
		So(location, ShouldEqual, "./conf/xdbug-dev.yml")

		location, err = toProfilesActiveConfigLocation("/a.b/xdbug.yaml", "dev")
		So(err, ShouldBeNil)
		So(location, ShouldEqual, "/a.b/xdbug-dev.yaml")
	})
}

func TestMergeProfilesViperConfig(t *testing.T) {
	PatchConvey("TestMergeProfilesViperConfig", t, func() {
		vp1 := viper.New()
		vp1.Set("a", map[string]interface{}{"logfile": "1"})
		vp1.Set("b", map[string]interface{}{"logfile": "2"})
		vp2 := viper.New()
		vp2.Set("a", map[string]interface{}{"logfilemode": "rotate"})

		vp := mergeProfilesViperConfig(vp1, vp2)
		So(vp.GetString("a.logfilemode"), ShouldEqual, "rotate")
		So(vp.GetString("a.logfile"), ShouldEqual, "")
		So(vp.GetString("b.logfile"), ShouldEqual, "2")
	})
}

func TestGetProfilesActiveFromENV(t *testing.T) {
	PatchConvey("TestGetProfilesActiveFromENV", t, func() {
		os.Unsetenv(profilesActiveEnvKey)
		So(getProfilesActiveFromENV(), ShouldEqual, "")

		os.Setenv(profilesActiveEnvKey, "dev")
		defer os.Unsetenv(profilesActiveEnvKey)
		So(getProfilesActiveFromENV(), ShouldEqual, "dev")
		So(detectProfilesActive(), ShouldEqual, "dev")
	})
}

func TestDetectConfigLocation(t *testing.T) {
	PatchConvey("TestDetectConfigLocation", t, func() {
		PatchConvey("FromArg", func() {
			Mock(getLocationFromArg).Return("/a/xdbug.yml").Build()
			So(DetectConfigLocation(), ShouldEqual, "/a/xdbug.yml")
		})

		PatchConvey("FromEnv", func() {
			Mock(getLocationFromArg).Return("").Build()
			os.Setenv(configLocationEnvKey, "/b/xdbug.yml")
			defer os.Unsetenv(configLocationEnvKey)
			So(DetectConfigLocation(), ShouldEqual, "/b/xdbug.yml")
		})

		PatchConvey("FromCurrentDir", func() {
			Mock(getLocationFromArg).Return("").Build()
			Mock(getLocationFromENV).Return("").Build()
			So(DetectConfigLocation(), ShouldEqual, "")

			err := os.MkdirAll("./conf", 0755)
			So(err, ShouldBeNil)
			f, err := os.Create("./conf/xdbug.yml")
			So(err, ShouldBeNil)
			defer func() {
				_ = f.Close()
				_ = os.RemoveAll("./conf")
			}()
			So(DetectConfigLocation(), ShouldEqual, "./conf/xdbug.yml")
		})
	})
}

package xopt

import (
	"testing"

	. "github.com/bytedance/mockey"
	. "github.com/smartystreets/goconvey/convey"
)

func TestParse(t *testing.T) {
	PatchConvey("TestParse", t, func() {
		PatchConvey("Empty", func() {
			So(Parse(""), ShouldEqual, None)
			So(Parse("").String(), ShouldEqual, "")
		})

		PatchConvey("AllLetters", func() {
			o := Parse("flmipntdcr")
			for _, f := range o.Features() {
				So(f.Enabled, ShouldBeTrue)
			}
		})

		PatchConvey("SingleLetter", func() {
			So(Parse("t"), ShouldEqual, CallTrace)
			So(Parse("c"), ShouldEqual, CheckOutput)
			So(Parse("r"), ShouldEqual, RowNumbers)
		})

		PatchConvey("UnknownIgnored", func() {
			So(Parse("xyz"), ShouldEqual, None)
			So(Parse("t?p!"), ShouldEqual, CallTrace|PrintText)
			So(Parse("T"), ShouldEqual, None)
		})

		PatchConvey("OrderAndDuplicates", func() {
			So(Parse("pt"), ShouldEqual, Parse("tp"))
			So(Parse("tttp"), ShouldEqual, Parse("tp"))
		})
	})
}

func TestIdempotentDecoding(t *testing.T) {
	PatchConvey("TestIdempotentDecoding", t, func() {
		inputs := []string{"", "f", "fimnpt", "tpx", "rcdtnpiml f", "zzz", "cccc", "Flm"}
		for _, s := range inputs {
			d := Parse(s)
			So(Parse(d.String()), ShouldEqual, d)
			So(Parse(d.String()).String(), ShouldEqual, d.String())
		}
	})
}

func TestString(t *testing.T) {
	PatchConvey("TestString", t, func() {
		So(Parse("tpfl").String(), ShouldEqual, "flpt")
		So(Parse("rcdtnpimlf").String(), ShouldEqual, "flmipntdcr")
	})
}

func TestHas(t *testing.T) {
	PatchConvey("TestHas", t, func() {
		o := Parse("tp")
		So(o.Has(CallTrace), ShouldBeTrue)
		So(o.Has(CallTrace|PrintText), ShouldBeTrue)
		So(o.Has(CallTrace|CheckOutput), ShouldBeFalse)
		So(o.Has(None), ShouldBeFalse)
		So(o.Any(CallTrace|CheckOutput), ShouldBeTrue)
		So(o.Any(CheckOutput), ShouldBeFalse)
	})
}

func TestWithWithout(t *testing.T) {
	PatchConvey("TestWithWithout", t, func() {
		o := None.With(CallTrace).With(ElapsedMs)
		So(o.String(), ShouldEqual, "mt")
		So(o.Without(CallTrace).String(), ShouldEqual, "m")
		So(o.Without(PrintText), ShouldEqual, o)
	})
}

func TestFeatures(t *testing.T) {
	PatchConvey("TestFeatures", t, func() {
		fs := Parse("c").Features()
		So(len(fs), ShouldEqual, 10)
		So(fs[0].Letter, ShouldEqual, byte('f'))
		So(fs[0].Enabled, ShouldBeFalse)
		So(fs[8].Letter, ShouldEqual, byte('c'))
		So(fs[8].Enabled, ShouldBeTrue)
	})
}

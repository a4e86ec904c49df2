package rtl

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"go.uber.org/zap"

	"bidicss/common"
	"bidicss/css"
)

func process(t *testing.T, opts Options, input string) (string, *Result) {
	t.Helper()
	out, res, err := NewProcessor(opts, zap.NewNop()).ProcessBytes([]byte(input), "test.css")
	if err != nil {
		t.Fatalf("ProcessBytes() error = %v", err)
	}
	return string(out), res
}

func selectors(t *testing.T, text string) []string {
	t.Helper()
	root, err := css.NewParser(nil).Parse([]byte(text))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	var sels []string
	for _, n := range root.Nodes() {
		if r, ok := n.(*css.Rule); ok {
			sels = append(sels, r.Selector)
		}
	}
	return sels
}

func TestProcess_SplitsRule(t *testing.T) {
	got, res := process(t, DefaultOptions(), `.a { margin-left: 1px; color: red }`)

	want := `.a {
  color: red;
}

[dir="ltr"] .a {
  margin-left: 1px;
}

[dir="rtl"] .a {
  margin-right: 1px;
}
`
	if got != want {
		t.Errorf("output =\n%s\nwant\n%s", got, want)
	}
	if len(res.Keyframes) != 0 || res.Pattern != nil {
		t.Errorf("unexpected keyframes result %+v", res)
	}
}

func TestProcess_NeutralRuleUntouched(t *testing.T) {
	in := ".a {\n  color: red;\n  margin: 0 1px;\n}\n"
	if got, _ := process(t, DefaultOptions(), in); got != in {
		t.Errorf("output = %q, want %q", got, in)
	}
}

func TestProcess_IgnoreDirectives(t *testing.T) {
	got, _ := process(t, DefaultOptions(), `
/*rtl:ignore*/
.a { left: 0 }
.b { left: 0 }
/*rtl:begin:ignore*/
.c { left: 0 }
.d { left: 0 }
/*rtl:end:ignore*/
.e { left: 0 }`)

	want := []string{
		".a",
		`[dir="ltr"] .b`, `[dir="rtl"] .b`,
		".c", ".d",
		`[dir="ltr"] .e`, `[dir="rtl"] .e`,
	}
	if diff := cmp.Diff(want, selectors(t, got)); diff != "" {
		t.Errorf("selectors mismatch (-want +got):\n%s", diff)
	}
}

func TestProcess_DeclarationIgnore(t *testing.T) {
	got, _ := process(t, DefaultOptions(), `.a { /*rtl:ignore*/ left: 0; right: 1px }`)

	want := `.a {
  /*rtl:ignore*/
  left: 0;
}

[dir="ltr"] .a {
  right: 1px;
}

[dir="rtl"] .a {
  left: 1px;
}
`
	if got != want {
		t.Errorf("output =\n%s\nwant\n%s", got, want)
	}
}

func TestProcess_SourceDirective(t *testing.T) {
	got, _ := process(t, DefaultOptions(), `/*rtl:source:rtl*/ .a { left: 0 } .b { left: 0 }`)

	want := `/*rtl:source:rtl*/

[dir="ltr"] .a {
  right: 0;
}

[dir="rtl"] .a {
  left: 0;
}

[dir="ltr"] .b {
  left: 0;
}

[dir="rtl"] .b {
  right: 0;
}
`
	if got != want {
		t.Errorf("output =\n%s\nwant\n%s", got, want)
	}
}

func TestProcess_AtRuleSourceOverride(t *testing.T) {
	got, _ := process(t, DefaultOptions(), `/*rtl:source:rtl*/ @media print { .a { float: left } } @media screen { .b { float: left } }`)

	want := `/*rtl:source:rtl*/

@media print {
  [dir="ltr"] .a {
    float: right;
  }
  [dir="rtl"] .a {
    float: left;
  }
}

@media screen {
  [dir="ltr"] .b {
    float: left;
  }
  [dir="rtl"] .b {
    float: right;
  }
}
`
	if got != want {
		t.Errorf("output =\n%s\nwant\n%s", got, want)
	}
}

func TestProcess_NestedAtRules(t *testing.T) {
	got, res := process(t, DefaultOptions(), `
@media screen {
  .a { padding-left: 1px }
  @media (min-width: 10px) {
    .b { float: left }
  }
  @keyframes k { from { left: 0 } }
}`)

	want := `@media screen {
  [dir="ltr"] .a {
    padding-left: 1px;
  }
  [dir="rtl"] .a {
    padding-right: 1px;
  }
  @media (min-width: 10px) {
    [dir="ltr"] .b {
      float: left;
    }
    [dir="rtl"] .b {
      float: right;
    }
  }
  @keyframes k-ltr {
    from {
      left: 0;
    }
  }
  @keyframes k-rtl {
    from {
      right: 0;
    }
  }
}
`
	if got != want {
		t.Errorf("output =\n%s\nwant\n%s", got, want)
	}
	if len(res.Keyframes) != 1 || res.Keyframes[0].Params != "k" {
		t.Errorf("expected keyframes k to be recorded, got %+v", res.Keyframes)
	}
}

func TestProcess_IgnoredAtRuleNotRecursed(t *testing.T) {
	in := "/*rtl:ignore*/\n\n@media print {\n  .a {\n    left: 0;\n  }\n}\n"
	if got, _ := process(t, DefaultOptions(), in); got != in {
		t.Errorf("output = %q, want %q", got, in)
	}
}

const slide = `@keyframes slide { from { left: 0 } to { left: 10px } }
.a { animation: slide 1s }`

func TestProcess_KeyframesLTR(t *testing.T) {
	got, res := process(t, DefaultOptions(), slide)

	want := `@keyframes slide-ltr {
  from {
    left: 0;
  }
  to {
    left: 10px;
  }
}

@keyframes slide-rtl {
  from {
    right: 0;
  }
  to {
    right: 10px;
  }
}

[dir="ltr"] .a {
  animation: slide-ltr 1s;
}

[dir="rtl"] .a {
  animation: slide-rtl 1s;
}
`
	if got != want {
		t.Errorf("output =\n%s\nwant\n%s", got, want)
	}

	wantNames := KeyframesMap{"slide": {Name: "slide-ltr", NameFlipped: "slide-rtl"}}
	if diff := cmp.Diff(wantNames, res.Names); diff != "" {
		t.Errorf("names mismatch (-want +got):\n%s", diff)
	}
	if len(res.Keyframes) != 1 {
		t.Fatalf("expected 1 keyframes entry, got %d", len(res.Keyframes))
	}
	k := res.Keyframes[0]
	if k.AtRule.Params == k.Flipped.Params {
		t.Error("original and flipped keyframes must have different names")
	}
}

func TestProcess_KeyframesRTL(t *testing.T) {
	opts := DefaultOptions()
	opts.Source = common.DirectionRtl
	got, res := process(t, opts, slide)

	wantNames := KeyframesMap{"slide": {Name: "slide-rtl", NameFlipped: "slide-ltr"}}
	if diff := cmp.Diff(wantNames, res.Names); diff != "" {
		t.Errorf("names mismatch (-want +got):\n%s", diff)
	}
	// original keyframes keep their content under the rtl name
	if !strings.Contains(got, "@keyframes slide-rtl {\n  from {\n    left: 0;") {
		t.Errorf("original keyframes not renamed to slide-rtl:\n%s", got)
	}
	if !strings.Contains(got, "[dir=\"rtl\"] .a {\n  animation: slide-rtl 1s;") {
		t.Errorf("rtl rule should use slide-rtl:\n%s", got)
	}
	if !strings.Contains(got, "[dir=\"ltr\"] .a {\n  animation: slide-ltr 1s;") {
		t.Errorf("ltr rule should use slide-ltr:\n%s", got)
	}
}

func TestProcess_KeyframesSourceDirective(t *testing.T) {
	_, res := process(t, DefaultOptions(), `/*rtl:source:rtl*/ @keyframes a { to { left: 1px } } @keyframes b { to { left: 1px } }`)

	want := KeyframesMap{
		"a": {Name: "a-rtl", NameFlipped: "a-ltr"},
		"b": {Name: "b-ltr", NameFlipped: "b-rtl"},
	}
	if diff := cmp.Diff(want, res.Names); diff != "" {
		t.Errorf("names mismatch (-want +got):\n%s", diff)
	}
}

func TestProcess_KeyframesNeutral(t *testing.T) {
	in := "@keyframes fade {\n  from {\n    opacity: 0;\n  }\n  to {\n    opacity: 1;\n  }\n}\n"
	got, res := process(t, DefaultOptions(), in)
	if got != in {
		t.Errorf("output = %q, want %q", got, in)
	}
	if len(res.Keyframes) != 0 || len(res.Names) != 0 || res.Pattern != nil {
		t.Errorf("neutral keyframes must not be recorded: %+v", res)
	}
}

func TestProcess_KeyframesIgnored(t *testing.T) {
	_, res := process(t, DefaultOptions(), `/*rtl:ignore*/ @keyframes a { to { left: 1px } }`)
	if len(res.Keyframes) != 0 {
		t.Errorf("ignored keyframes recorded: %+v", res.Keyframes)
	}
}

func TestProcess_KeyframesDisabled(t *testing.T) {
	opts := DefaultOptions()
	opts.ProcessKeyframes = false
	got, res := process(t, opts, `@keyframes a { to { left: 1px } }`)
	if res.Names != nil || !strings.Contains(got, "@keyframes a {") {
		t.Errorf("keyframes must be left alone, got %+v\n%s", res, got)
	}
}

func TestProcess_VendorKeyframes(t *testing.T) {
	got, res := process(t, DefaultOptions(),
		`@-webkit-keyframes spin { from { transform: rotate(0deg) } to { transform: rotate(360deg) } }`)

	if len(res.Keyframes) != 1 {
		t.Fatalf("expected vendor keyframes to be recorded, got %d", len(res.Keyframes))
	}
	k := res.Keyframes[0]
	if k.AtRule.Name != "-webkit-keyframes" || k.Flipped.Name != "-webkit-keyframes" {
		t.Errorf("vendor prefix lost: %q %q", k.AtRule.Name, k.Flipped.Name)
	}
	if !strings.Contains(got, "@-webkit-keyframes spin-rtl {") || !strings.Contains(got, "rotate(-360deg)") {
		t.Errorf("unexpected output:\n%s", got)
	}
	if strings.Contains(got, "[dir=") {
		t.Errorf("keyframes selectors must not be split:\n%s", got)
	}
}

func TestProcess_StripDirectives(t *testing.T) {
	opts := DefaultOptions()
	opts.StripDirectives = true
	got, _ := process(t, opts, `/*rtl:ignore*/ .a { left: 0 } /*!rtl:ignore*/ .b { left: 0 } /* note */ .c { /*rtl:ignore*/ left: 0 }`)

	if strings.Contains(got, "/*rtl:ignore*/") {
		t.Errorf("directive comments must be removed:\n%s", got)
	}
	if !strings.Contains(got, "/*!rtl:ignore*/") || !strings.Contains(got, "/* note */") {
		t.Errorf("important directives and plain comments must stay:\n%s", got)
	}
	want := []string{".a", ".b", ".c"}
	if diff := cmp.Diff(want, selectors(t, got)); diff != "" {
		t.Errorf("selectors mismatch (-want +got):\n%s", diff)
	}
}

func TestProcess_ParseError(t *testing.T) {
	_, _, err := NewProcessor(DefaultOptions(), nil).ProcessBytes([]byte(".a { left: 0"), "broken.css")
	if err == nil || !strings.Contains(err.Error(), "broken.css") {
		t.Errorf("expected parse error mentioning source, got %v", err)
	}
}

// brokenMirror returns fixed text for any keyframes.
type brokenMirror struct {
	mirror
	text string
}

func (m brokenMirror) Flip(string) (string, error) {
	return m.text, nil
}

func TestProcess_FlippedKeyframesErrors(t *testing.T) {
	tests := []struct {
		name, flipped, want string
	}{
		{name: "unparsable", flipped: "@keyframes a {", want: "unable to parse flipped keyframes"},
		{name: "empty", flipped: " ", want: "produced empty stylesheet"},
		{name: "not at-rule", flipped: ".a { left: 0 }", want: "instead of at-rule"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := NewProcessor(DefaultOptions(), zap.NewNop())
			p.engine = brokenMirror{mirror: p.engine, text: tt.flipped}

			_, _, err := p.ProcessBytes([]byte(`@keyframes a { to { left: 1px } }`), "a.css")
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error = %v, want it to contain %q", err, tt.want)
			}
		})
	}
}

func TestKeyframesPattern(t *testing.T) {
	names := KeyframesMap{
		"spin":    {Name: "spin-ltr", NameFlipped: "spin-rtl"},
		"spinner": {Name: "spinner-ltr", NameFlipped: "spinner-rtl"},
		"a.b":     {Name: "a.b-ltr", NameFlipped: "a.b-rtl"},
	}
	pattern := KeyframesPattern(names)

	tests := []struct {
		value         string
		match         bool
		source, other string
	}{
		{"spin 1s", true, "spin-ltr 1s", "spin-rtl 1s"},
		{"spinner 2s infinite", true, "spinner-ltr 2s infinite", "spinner-rtl 2s infinite"},
		{"1s spin, 2s spinner", true, "1s spin-ltr, 2s spinner-ltr", "1s spin-rtl, 2s spinner-rtl"},
		{"spin,spin", true, "spin-ltr,spin-ltr", "spin-rtl,spin-rtl"},
		{"spinning 1s", false, "spinning 1s", "spinning 1s"},
		{"my-spin 1s", false, "my-spin 1s", "my-spin 1s"},
		{"spin-ltr 1s", false, "spin-ltr 1s", "spin-ltr 1s"},
		{"axb", false, "axb", "axb"},
	}
	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			if got := pattern.MatchString(tt.value); got != tt.match {
				t.Errorf("MatchString(%q) = %v, want %v", tt.value, got, tt.match)
			}
			if got := rename(pattern, names, tt.value, false); got != tt.source {
				t.Errorf("rename(%q) = %q, want %q", tt.value, got, tt.source)
			}
			if got := rename(pattern, names, tt.value, true); got != tt.other {
				t.Errorf("rename(%q, flipped) = %q, want %q", tt.value, got, tt.other)
			}
		})
	}

	if KeyframesPattern(nil) != nil || KeyframesPattern(KeyframesMap{}) != nil {
		t.Error("pattern for empty map must be nil")
	}
}

func TestPrefixSelector(t *testing.T) {
	tests := []struct {
		selector, want string
	}{
		{".a", `[dir="ltr"] .a`},
		{".a, .b > c", `[dir="ltr"] .a, [dir="ltr"] .b > c`},
		{"html .a", `html[dir="ltr"] .a`},
		{"HTML.dark", `HTML[dir="ltr"].dark`},
		{":root", `:root[dir="ltr"]`},
		{"htmlx", `[dir="ltr"] htmlx`},
		{".a:is(.b, .c)", `[dir="ltr"] .a:is(.b, .c)`},
		{`a[title="x, y"]`, `[dir="ltr"] a[title="x, y"]`},
	}
	for _, tt := range tests {
		if got := prefixSelector(tt.selector, `[dir="ltr"]`); got != tt.want {
			t.Errorf("prefixSelector(%q) = %q, want %q", tt.selector, got, tt.want)
		}
	}
}

package generator

import (
	"strings"
	"testing"
	"time"

	"pyreadme/internal/config"
	"pyreadme/internal/crawler"
	"pyreadme/internal/extractor"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2024, 3, 9, 12, 30, 0, 0, time.UTC)

func testFormatter(t *testing.T, mutate func(*config.Config)) *Formatter {
	t.Helper()
	cfg := config.Default()
	cfg.Categories = config.Categories{
		{Name: "utils", Pattern: "utils/*.py", Icon: "🔧", Title: "Utilities", Description: "Helpers"},
	}
	cfg.Style.ShowSourceLink = false
	if mutate != nil {
		mutate(cfg)
	}
	return NewFormatter(cfg, cfg.DocConfig(fixedNow), fixedNow)
}

func TestRenderTemplate(t *testing.T) {
	got := renderTemplate("{{literal}} {a} {unknown} {a}", map[string]string{"a": "1"})
	assert.Equal(t, "{literal} 1 {unknown} 1", got)

	// Substituted values are not scanned again.
	got = renderTemplate("{a}", map[string]string{"a": "{b}", "b": "nope"})
	assert.Equal(t, "{b}", got)
}

func TestBuildBadges(t *testing.T) {
	b := config.Badges{
		Show:     true,
		Types:    []string{"last_update", "coverage", "status"},
		Version:  "2.0.0-rc1",
		Coverage: "80%",
	}
	got := buildBadges(b, fixedNow)
	require.Len(t, got, 3)
	assert.Equal(t, "![Status](https://img.shields.io/badge/status-active-success)", got[0])
	assert.Equal(t, "![Coverage](https://img.shields.io/badge/coverage-80%25-yellowgreen)", got[1])
	assert.Equal(t, "![LastUpdate](https://img.shields.io/badge/last_update-2024--03--09-informational)", got[2])

	b.Types = []string{"version"}
	assert.Equal(t, []string{"![Version](https://img.shields.io/badge/version-2.0.0--rc1-blue)"}, buildBadges(b, fixedNow))

	b.Show = false
	assert.Empty(t, buildBadges(b, fixedNow))
}

func TestFormatSection_Function(t *testing.T) {
	f := testFormatter(t, nil)
	entries := []crawler.Entry{{
		Path: "utils.math",
		Module: &extractor.ModuleInfo{
			Path: "utils/math.py",
			Functions: []extractor.FunctionInfo{{
				Name:       "add",
				Doc:        "Add numbers.",
				Line:       1,
				Parameters: []string{"a (int)", "b (int)"},
				Returns:    "int",
			}},
		},
	}}

	want := "### 🔧 Utilities\nHelpers\n" +
		"\n#### 📄 utils.math\n" +
		"\n**Functions:**\n" +
		"\n#### 🔸 add\nAdd numbers.\n\n**Parameters:**\n- a (int)\n- b (int)\n\n**Returns:**\nint\n\n**Example:**\n```python\nno example\n```\n" +
		"\n---\n"

	if diff := cmp.Diff(want, f.FormatSection("utils", entries)); diff != "" {
		t.Errorf("FormatSection mismatch (-want +got):\n%s", diff)
	}
}

func TestFormatSection_Class(t *testing.T) {
	f := testFormatter(t, nil)
	entries := []crawler.Entry{{
		Path: "utils.shapes",
		Module: &extractor.ModuleInfo{
			Path: "utils/shapes.py",
			Doc:  "Shape helpers.",
			Classes: []extractor.ClassInfo{{
				Name:  "Square",
				Doc:   "A square.\n\nSides are equal.",
				Line:  3,
				Bases: []string{"Shape", "abc.ABC"},
				Methods: []extractor.FunctionInfo{
					{Name: "area", Doc: "Area of the square.", Line: 6, Returns: "float",
						Examples: []string{"s = Square(2)\ns.area()"}},
					{Name: "draw", Doc: extractor.NoDescription, Line: 9},
				},
			}},
		},
	}}

	got := f.FormatSection("utils", entries)
	assert.Contains(t, got, "\nShape helpers.\n")
	assert.Contains(t, got, "#### 📦 Square\nA square.\n\n**Description:**\nA square.\n\nSides are equal.")
	assert.Contains(t, got, "**Inherits from:** Shape, abc.ABC")
	assert.Contains(t, got, "<summary>View method details</summary>")
	assert.Contains(t, got, "- `area`: Area of the square.\n  <details>\n")
	assert.Contains(t, got, "  **Returns:** `float`\n")
	assert.Contains(t, got, "  s = Square(2)\n  s.area()\n  ```\n")
	assert.Contains(t, got, "- `draw`: no description\n</details>")
	assert.NotContains(t, got, "**Parameters:**", "methods without parameters get no parameter block")
}

func TestFormatSection_Gating(t *testing.T) {
	f := testFormatter(t, func(cfg *config.Config) {
		cfg.DocOptions.IncludeModuleDoc = false
		cfg.DocOptions.IncludeReturnType = false
		cfg.DocOptions.IncludeExamples = false
		cfg.DocOptions.IncludeParameters = false
	})
	entries := []crawler.Entry{{
		Path: "utils.io",
		Module: &extractor.ModuleInfo{
			Path: "utils/io.py",
			Doc:  "IO helpers.",
			Classes: []extractor.ClassInfo{{
				Name: "Reader", Doc: "Reads.", Line: 1,
				Methods: []extractor.FunctionInfo{{Name: "read", Doc: "Read all.", Line: 2,
					Parameters: []string{"n (int)"}, Returns: "bytes", Examples: []string{"r.read(1)"}}},
			}},
			Functions: []extractor.FunctionInfo{{Name: "load", Doc: "Load.", Line: 5,
				Parameters: []string{"path (str)"}, Returns: "str", Examples: []string{"load('x')"}}},
		},
	}}

	got := f.FormatSection("utils", entries)
	assert.NotContains(t, got, "IO helpers.")
	assert.NotContains(t, got, "  <details>", "no nested details when every part is disabled")
	assert.Contains(t, got, "**Parameters:**\nnone\n")
	assert.Contains(t, got, "**Returns:**\nnone\n")
	assert.Contains(t, got, "```python\nno example\n```")
}

func TestFormatSection_SkipsEmptyModules(t *testing.T) {
	f := testFormatter(t, nil)
	entries := []crawler.Entry{
		{Path: "utils.empty", Module: &extractor.ModuleInfo{Path: "utils/empty.py", Doc: "Nothing here."}},
	}
	assert.Equal(t, "### 🔧 Utilities\nHelpers\n", f.FormatSection("utils", entries))
}

func TestFormatSection_StyleOptions(t *testing.T) {
	f := testFormatter(t, func(cfg *config.Config) {
		cfg.Style.UseEmojis = false
		cfg.Style.ShowLineNumbers = true
		cfg.Style.ShowSourceLink = true
		cfg.DocOptions.MaxDocLength = 10
		cfg.Categories[0].Icon = ""
	})
	entries := []crawler.Entry{{
		Path: "utils.text",
		Module: &extractor.ModuleInfo{
			Path: "utils/text.py",
			Functions: []extractor.FunctionInfo{{Name: "slugify", Doc: "Turn any title into a slug.", Line: 12}},
		},
	}}

	got := f.FormatSection("utils", entries)
	assert.True(t, strings.HasPrefix(got, "### Utilities\n"))
	assert.Contains(t, got, "\n#### utils.text\n")
	assert.Contains(t, got, "#### slugify (line 12)\nTurn any t...\n")
	assert.Contains(t, got, "[source](utils/text.py#L12)")
	assert.NotContains(t, got, "📄")
}

func TestFormatSection_CustomTemplate(t *testing.T) {
	f := testFormatter(t, func(cfg *config.Config) {
		cfg.Templates["function_header"] = "* {function_name} {{raw}} {nope}"
	})
	entries := []crawler.Entry{{
		Path:   "utils.x",
		Module: &extractor.ModuleInfo{Path: "utils/x.py", Functions: []extractor.FunctionInfo{{Name: "run", Line: 1}}},
	}}
	assert.Contains(t, f.FormatSection("utils", entries), "\n* run {raw} {nope}\n")
}

func TestFormatSection_Chinese(t *testing.T) {
	f := testFormatter(t, func(cfg *config.Config) {
		cfg.DocOptions.Language = "zh_CN"
	})
	entries := []crawler.Entry{{
		Path: "utils.x",
		Module: &extractor.ModuleInfo{Path: "utils/x.py", Classes: []extractor.ClassInfo{{
			Name: "Job", Doc: extractor.NoDescription, Line: 1,
			Methods: []extractor.FunctionInfo{{Name: "run", Doc: "Run it.", Line: 2}},
		}}},
	}}

	got := f.FormatSection("utils", entries)
	assert.Contains(t, got, "**类：**")
	assert.Contains(t, got, "暂无描述")
	assert.Contains(t, got, "- `run`：Run it.")
}

func TestFormatStatistics(t *testing.T) {
	f := testFormatter(t, nil)
	got := f.FormatStatistics(crawler.Stats{TotalFiles: 2, TotalClasses: 1}, fixedNow, fixedNow.Add(1500*time.Millisecond))
	want := "### 📊 Documentation Statistics\n" +
		"- Total files: 2\n" +
		"- Total classes: 1\n" +
		"- Total functions: 0\n" +
		"- Generation time: 1.50 s\n" +
		"- Last updated: 2024-03-09 12:30:01\n"
	assert.Equal(t, want, got)
}

func TestLabelsFor(t *testing.T) {
	assert.Equal(t, englishLabels, LabelsFor("en_US"))
	assert.Equal(t, chineseLabels, LabelsFor("zh_CN"))
	assert.Equal(t, chineseLabels, LabelsFor("ZH"))
	assert.Equal(t, englishLabels, LabelsFor("fr_FR"))
	assert.Equal(t, englishLabels, LabelsFor(""))
}

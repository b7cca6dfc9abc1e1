package extractor

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func parseSample(t *testing.T, opts Options) *ModuleInfo {
	t.Helper()
	testFile := filepath.Join("testdata", "sample.py")
	src, err := os.ReadFile(testFile)
	require.NoError(t, err)

	ext, err := NewExtractor("python", opts)
	require.NoError(t, err)
	defer ext.Close()

	mod, err := ext.Parse(context.Background(), testFile, src)
	require.NoError(t, err)
	return mod
}

func parseString(t *testing.T, src string, opts Options) (*ModuleInfo, error) {
	t.Helper()
	ext, err := NewExtractor("python", opts)
	require.NoError(t, err)
	defer ext.Close()
	return ext.Parse(context.Background(), "inline.py", []byte(src))
}

func TestExtractor_Parse(t *testing.T) {
	mod := parseSample(t, Options{})

	classesByName := make(map[string]ClassInfo)
	for _, cls := range mod.Classes {
		classesByName[cls.Name] = cls
	}

	t.Run("Module docstring", func(t *testing.T) {
		assert.Equal(t, "Sample module for extractor tests.\n\nIndented continuation line.", mod.Doc)
		assert.Equal(t, "testdata/sample.py", mod.Path)
	})

	t.Run("Classes at every depth in document order", func(t *testing.T) {
		var names []string
		for _, cls := range mod.Classes {
			names = append(names, cls.Name)
		}
		assert.Equal(t, []string{"Base", "Child", "Inner"}, names)
		assert.Equal(t, "Nested in a method.", classesByName["Inner"].Doc)
		assert.Equal(t, 13, classesByName["Base"].Line)
	})

	t.Run("Base class methods", func(t *testing.T) {
		base := classesByName["Base"]
		assert.Equal(t, "Base class.", base.Doc)
		assert.Empty(t, base.Bases)
		require.Len(t, base.Methods, 2, "private _helper is excluded, decorated name is kept")

		run := base.Methods[0]
		assert.Equal(t, "run", run.Name)
		assert.Equal(t, []string{"task (str)", "retries (int)"}, run.Parameters)
		assert.Equal(t, "bool", run.Returns)
		assert.Equal(t, []string{`Base().run("x")`}, run.Examples)
		assert.Equal(t, "Run a task.", FirstLine(run.Doc))

		name := base.Methods[1]
		assert.Equal(t, "name", name.Name)
		assert.Equal(t, NoDescription, name.Doc)
		assert.Empty(t, name.Parameters)
		assert.Equal(t, "str", name.Returns)
	})

	t.Run("Bases keep names and single attributes", func(t *testing.T) {
		child := classesByName["Child"]
		assert.Equal(t, []string{"Base", "abc.ABC"}, child.Bases)
		assert.Equal(t, NoDescription, child.Doc)

		require.Len(t, child.Methods, 1)
		lookup := child.Methods[0]
		assert.Equal(t, []string{"items (List[int])", "mapping (Dict[str, int])", "extra (Any)"}, lookup.Parameters)
		assert.Equal(t, "Dict[str]", lookup.Returns)
	})

	t.Run("Top-level functions", func(t *testing.T) {
		var names []string
		for _, fn := range mod.Functions {
			names = append(names, fn.Name)
		}
		assert.Equal(t, []string{"public_function", "fetch", "positional", "feature_flagged"}, names)

		pub := mod.Functions[0]
		assert.Equal(t, []string{"a", "b (float)"}, pub.Parameters)
		assert.Equal(t, AnyType, pub.Returns)
		assert.Equal(t, []string{"public_function(1, 2.0)", "public_function(3, 4.0)"}, pub.Examples)

		fetch := mod.Functions[1]
		assert.Equal(t, []string{"url (str)"}, fetch.Parameters)
		assert.Equal(t, "str", fetch.Returns)

		assert.Equal(t, []string{"c"}, mod.Functions[2].Parameters)
	})
}

func TestExtractor_IncludePrivate(t *testing.T) {
	mod := parseSample(t, Options{IncludePrivate: true})

	var functionNames []string
	for _, fn := range mod.Functions {
		functionNames = append(functionNames, fn.Name)
	}
	assert.Contains(t, functionNames, "_private_function")

	require.NotEmpty(t, mod.Classes)
	var methodNames []string
	for _, m := range mod.Classes[0].Methods {
		methodNames = append(methodNames, m.Name)
	}
	assert.Equal(t, []string{"run", "_helper", "name"}, methodNames)
}

func TestExtractor_SyntaxError(t *testing.T) {
	mod, err := parseString(t, "def broken(:\n    pass\n", Options{})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrSyntax))
	assert.Nil(t, mod)
}

func TestExtractor_UnterminatedExampleFence(t *testing.T) {
	src := `
def first():
    """Starts an example.

    ` + "```python" + `
    first()
    """


def second(x: int) -> int:
    """Has a proper example.

    ` + "```python" + `
    second(1)
    ` + "```" + `
    """
    return x
`
	mod, err := parseString(t, src, Options{})
	require.NoError(t, err)
	require.Len(t, mod.Functions, 2)

	assert.Empty(t, mod.Functions[0].Examples)
	assert.Equal(t, []string{"second(1)"}, mod.Functions[1].Examples)
	assert.Equal(t, []string{"x (int)"}, mod.Functions[1].Parameters)
}

func TestExtractor_DocstringOnlyModule(t *testing.T) {
	mod, err := parseString(t, "'''Only a docstring.'''\n", Options{})
	require.NoError(t, err)
	assert.Equal(t, "Only a docstring.", mod.Doc)
	assert.True(t, mod.Empty())
}

func TestExtractor_NonDocstrings(t *testing.T) {
	mod, err := parseString(t, "x = 1\n\"\"\"not a docstring\"\"\"\n\nclass A:\n    b'bytes'\n", Options{})
	require.NoError(t, err)
	assert.Empty(t, mod.Doc)
	require.Len(t, mod.Classes, 1)
	assert.Equal(t, NoDescription, mod.Classes[0].Doc)
}

func TestExtractor_DocstringEscapes(t *testing.T) {
	src := "def quoted():\n    \"\"\"Say \\\"hi\\\" now.\\nSecond.\"\"\"\n\n" +
		"def raw():\n    r\"\"\"Path C:\\new\\dir.\"\"\"\n\n" +
		"def codes():\n    '''\\x41\\u00e9 \\d kept \\\\ done'''\n\n" +
		"def joined():\n    \"\"\"Joined \\\nline.\"\"\"\n"
	mod, err := parseString(t, src, Options{})
	require.NoError(t, err)
	require.Len(t, mod.Functions, 4)

	assert.Equal(t, "Say \"hi\" now.\nSecond.", mod.Functions[0].Doc)
	assert.Equal(t, `Say "hi" now.`, FirstLine(mod.Functions[0].Doc))
	assert.Equal(t, `Path C:\new\dir.`, mod.Functions[1].Doc)
	assert.Equal(t, `Aé \d kept \ done`, mod.Functions[2].Doc)
	assert.Equal(t, "Joined line.", mod.Functions[3].Doc)
}

func TestNewExtractor_Unsupported(t *testing.T) {
	_, err := NewExtractor("cobol", Options{})
	assert.Error(t, err)
}

func TestExtractor_Handles(t *testing.T) {
	ext, err := NewExtractor("python", Options{})
	require.NoError(t, err)
	defer ext.Close()

	assert.True(t, ext.Handles("pkg/mod.py"))
	assert.False(t, ext.Handles("pkg/mod.pyc"))
	assert.False(t, ext.Handles("README.md"))
}

package extractor

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
)

// ErrSyntax is returned when the source does not parse cleanly.
var ErrSyntax = errors.New("syntax error")

// Extractor orchestrates the extraction process using language-specific extractors.
type Extractor struct {
	langExtractor LanguageExtractor
	langName      string
	parser        *sitter.Parser
}

// NewExtractor creates a new extractor for a given language.
func NewExtractor(lang string, opts Options) (*Extractor, error) {
	var langExt LanguageExtractor
	switch lang {
	case "python":
		langExt = &PythonExtractor{opts: opts}
	default:
		return nil, fmt.Errorf("unsupported language: %s", lang)
	}

	parser := sitter.NewParser()
	parser.SetLanguage(langExt.GetLanguage())
	return &Extractor{langExtractor: langExt, langName: lang, parser: parser}, nil
}

// Close releases the underlying parser.
func (e *Extractor) Close() {
	e.parser.Close()
}

// Handles reports whether path has one of the language's source extensions.
func (e *Extractor) Handles(path string) bool {
	ext := filepath.Ext(path)
	for _, candidate := range e.langExtractor.Extensions() {
		if strings.EqualFold(ext, candidate) {
			return true
		}
	}
	return false
}

// Extensions returns the source extensions of the configured language.
func (e *Extractor) Extensions() []string {
	return e.langExtractor.Extensions()
}

// Parse builds the declaration tree of sourceCode. The source is never
// executed. A tree with error or missing nodes yields ErrSyntax.
func (e *Extractor) Parse(ctx context.Context, path string, sourceCode []byte) (*ModuleInfo, error) {
	tree, err := e.parser.ParseCtx(ctx, nil, sourceCode)
	if err != nil {
		return nil, fmt.Errorf("failed to parse file %s: %w", path, err)
	}
	defer tree.Close()

	root := tree.RootNode()
	if root.HasError() {
		return nil, fmt.Errorf("%s: %w near line %d", path, ErrSyntax, firstErrorLine(root))
	}

	mod := e.langExtractor.ExtractModule(root, sourceCode)
	mod.Path = filepath.ToSlash(path)
	return mod, nil
}

// firstErrorLine finds the 1-based line of the first ERROR or MISSING node.
func firstErrorLine(node *sitter.Node) int {
	if node.Type() == "ERROR" || node.IsMissing() {
		return int(node.StartPoint().Row) + 1
	}
	for i := 0; i < int(node.ChildCount()); i++ {
		child := node.Child(i)
		if child != nil && child.HasError() {
			return firstErrorLine(child)
		}
	}
	return int(node.StartPoint().Row) + 1
}

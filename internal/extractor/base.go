package extractor

import sitter "github.com/smacker/go-tree-sitter"

// Options controls what the extractor keeps from a parsed file.
type Options struct {
	IncludePrivate bool
}

// LanguageExtractor defines the interface that each language parser must implement.
type LanguageExtractor interface {
	GetLanguage() *sitter.Language
	Extensions() []string
	ExtractModule(root *sitter.Node, sourceCode []byte) *ModuleInfo
}

// isPrivate reports whether a name follows the leading-underscore convention.
func isPrivate(name string) bool {
	return len(name) > 0 && name[0] == '_'
}

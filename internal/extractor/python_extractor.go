package extractor

import (
	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/python"
)

// PythonExtractor implements LanguageExtractor for Python.
type PythonExtractor struct {
	opts Options
}

func (p *PythonExtractor) GetLanguage() *sitter.Language {
	return python.GetLanguage()
}

func (p *PythonExtractor) Extensions() []string {
	return []string{".py"}
}

// ExtractModule walks the module in document order. Classes are collected
// at every depth; functions only when they are not nested in a class or
// another function.
func (p *PythonExtractor) ExtractModule(root *sitter.Node, sourceCode []byte) *ModuleInfo {
	mod := &ModuleInfo{
		Classes:   []ClassInfo{},
		Functions: []FunctionInfo{},
	}
	mod.Doc, _ = bodyDocstring(root, sourceCode)
	p.walk(root, sourceCode, true, mod)
	return mod
}

func (p *PythonExtractor) walk(node *sitter.Node, sourceCode []byte, topLevel bool, mod *ModuleInfo) {
	if node == nil {
		return
	}
	for i := 0; i < int(node.NamedChildCount()); i++ {
		child := unwrapDecorated(node.NamedChild(i))

		switch child.Type() {
		case "class_definition":
			mod.Classes = append(mod.Classes, p.extractClass(child, sourceCode))
			p.walk(child.ChildByFieldName("body"), sourceCode, false, mod)

		case "function_definition":
			if topLevel {
				if fn, ok := p.extractFunction(child, sourceCode); ok {
					mod.Functions = append(mod.Functions, fn)
				}
			}
			p.walk(child.ChildByFieldName("body"), sourceCode, false, mod)

		case "comment", "string", "expression_statement", "import_statement", "import_from_statement":
			// leaf statements, nothing to find below

		default:
			p.walk(child, sourceCode, topLevel, mod)
		}
	}
}

// unwrapDecorated returns the definition behind a decorated_definition.
func unwrapDecorated(node *sitter.Node) *sitter.Node {
	if node.Type() == "decorated_definition" {
		if def := node.ChildByFieldName("definition"); def != nil {
			return def
		}
	}
	return node
}

func (p *PythonExtractor) extractClass(node *sitter.Node, sourceCode []byte) ClassInfo {
	cls := ClassInfo{
		Line:    int(node.StartPoint().Row) + 1,
		Methods: []FunctionInfo{},
	}
	if nameNode := node.ChildByFieldName("name"); nameNode != nil {
		cls.Name = nameNode.Content(sourceCode)
	}

	body := node.ChildByFieldName("body")
	doc, ok := bodyDocstring(body, sourceCode)
	if !ok || doc == "" {
		doc = NoDescription
	}
	cls.Doc = doc

	if body != nil {
		for i := 0; i < int(body.NamedChildCount()); i++ {
			item := unwrapDecorated(body.NamedChild(i))
			if item.Type() != "function_definition" {
				continue
			}
			if fn, ok := p.extractFunction(item, sourceCode); ok {
				cls.Methods = append(cls.Methods, fn)
			}
		}
	}

	cls.Bases = extractBases(node.ChildByFieldName("superclasses"), sourceCode)
	return cls
}

// extractBases keeps plain names and single-level attribute access. Any
// other base expression, and keyword arguments such as metaclass=, is dropped.
func extractBases(args *sitter.Node, sourceCode []byte) []string {
	if args == nil {
		return nil
	}
	var bases []string
	for i := 0; i < int(args.NamedChildCount()); i++ {
		base := args.NamedChild(i)
		switch base.Type() {
		case "identifier":
			bases = append(bases, base.Content(sourceCode))
		case "attribute":
			object := base.ChildByFieldName("object")
			attr := base.ChildByFieldName("attribute")
			if object != nil && attr != nil && object.Type() == "identifier" {
				bases = append(bases, object.Content(sourceCode)+"."+attr.Content(sourceCode))
			}
		}
	}
	return bases
}

// extractFunction returns false for private functions unless they are
// included by the options.
func (p *PythonExtractor) extractFunction(node *sitter.Node, sourceCode []byte) (FunctionInfo, bool) {
	nameNode := node.ChildByFieldName("name")
	if nameNode == nil {
		return FunctionInfo{}, false
	}
	name := nameNode.Content(sourceCode)
	if isPrivate(name) && !p.opts.IncludePrivate {
		return FunctionInfo{}, false
	}

	fn := FunctionInfo{
		Name:       name,
		Line:       int(node.StartPoint().Row) + 1,
		Parameters: extractParams(node.ChildByFieldName("parameters"), sourceCode),
	}

	doc, ok := bodyDocstring(node.ChildByFieldName("body"), sourceCode)
	if !ok || doc == "" {
		doc = NoDescription
	}
	fn.Doc = doc

	if returnNode := node.ChildByFieldName("return_type"); returnNode != nil {
		fn.Returns = FormatAnnotation(returnNode, sourceCode)
	}
	fn.Examples = ExtractExamples(doc)
	return fn, true
}

// extractParams lists the positional-or-keyword parameters. Parameters
// before a "/" marker are positional-only and those after "*" or "*args"
// keyword-only; neither kind is listed, nor is self.
func extractParams(paramsNode *sitter.Node, sourceCode []byte) []string {
	params := []string{}
	if paramsNode == nil {
		return params
	}

	for i := 0; i < int(paramsNode.NamedChildCount()); i++ {
		param := paramsNode.NamedChild(i)

		var nameNode, typeNode *sitter.Node
		switch param.Type() {
		case "identifier":
			nameNode = param
		case "typed_parameter":
			inner := param.NamedChild(0)
			if inner == nil {
				continue
			}
			switch inner.Type() {
			case "list_splat_pattern":
				return params
			case "identifier":
				nameNode = inner
				typeNode = param.ChildByFieldName("type")
			default:
				continue
			}
		case "default_parameter":
			nameNode = param.ChildByFieldName("name")
		case "typed_default_parameter":
			nameNode = param.ChildByFieldName("name")
			typeNode = param.ChildByFieldName("type")
		case "positional_separator":
			params = params[:0]
			continue
		case "list_splat_pattern", "keyword_separator":
			return params
		default:
			continue
		}

		if nameNode == nil || nameNode.Type() != "identifier" {
			continue
		}
		name := nameNode.Content(sourceCode)
		if name == "self" {
			continue
		}
		if typeNode != nil {
			name += " (" + FormatAnnotation(typeNode, sourceCode) + ")"
		}
		params = append(params, name)
	}
	return params
}

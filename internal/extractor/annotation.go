package extractor

import (
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
)

// FormatAnnotation renders a type annotation. Plain names are kept,
// subscripted generics are spelled out when every part they need is a plain
// name (List[int], Dict[str, int]), and everything else becomes Any. When a
// generic has several elements, non-name elements are left out.
func FormatAnnotation(node *sitter.Node, sourceCode []byte) string {
	node = unwrapType(node)
	if node == nil {
		return AnyType
	}

	switch node.Type() {
	case "identifier":
		return node.Content(sourceCode)
	case "subscript":
		value := FormatAnnotation(node.ChildByFieldName("value"), sourceCode)
		return formatGeneric(value, subscriptElements(node), sourceCode)
	case "generic_type":
		if node.NamedChildCount() < 2 {
			return AnyType
		}
		value := FormatAnnotation(node.NamedChild(0), sourceCode)
		params := node.NamedChild(1)
		elems := make([]*sitter.Node, 0, params.NamedChildCount())
		for i := 0; i < int(params.NamedChildCount()); i++ {
			elems = append(elems, params.NamedChild(i))
		}
		return formatGeneric(value, elems, sourceCode)
	}
	return AnyType
}

func formatGeneric(value string, elems []*sitter.Node, sourceCode []byte) string {
	if len(elems) == 1 {
		elem := unwrapType(elems[0])
		switch elem.Type() {
		case "identifier":
			return value + "[" + elem.Content(sourceCode) + "]"
		case "tuple":
			elems = nil
			for i := 0; i < int(elem.NamedChildCount()); i++ {
				elems = append(elems, elem.NamedChild(i))
			}
		default:
			return AnyType
		}
	}

	names := make([]string, 0, len(elems))
	for _, e := range elems {
		e = unwrapType(e)
		if e != nil && e.Type() == "identifier" {
			names = append(names, e.Content(sourceCode))
		}
	}
	return value + "[" + strings.Join(names, ", ") + "]"
}

func subscriptElements(node *sitter.Node) []*sitter.Node {
	var elems []*sitter.Node
	for i := 0; i < int(node.ChildCount()); i++ {
		if node.FieldNameForChild(i) == "subscript" {
			elems = append(elems, node.Child(i))
		}
	}
	return elems
}

// unwrapType strips the "type" wrapper the grammar puts around annotations.
func unwrapType(node *sitter.Node) *sitter.Node {
	for node != nil && node.Type() == "type" && node.NamedChildCount() == 1 {
		node = node.NamedChild(0)
	}
	return node
}

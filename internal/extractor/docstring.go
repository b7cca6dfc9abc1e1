package extractor

import (
	"strconv"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
)

const (
	exampleOpen  = "```python"
	exampleClose = "```"
)

// bodyDocstring returns the docstring of a module or block node: its first
// statement when that statement is a plain string literal.
func bodyDocstring(body *sitter.Node, sourceCode []byte) (string, bool) {
	if body == nil {
		return "", false
	}
	for i := 0; i < int(body.NamedChildCount()); i++ {
		stmt := body.NamedChild(i)
		if stmt.Type() == "comment" {
			continue
		}
		if stmt.Type() != "expression_statement" || stmt.NamedChildCount() != 1 {
			return "", false
		}
		value, ok := stringLiteral(stmt.NamedChild(0), sourceCode)
		if !ok {
			return "", false
		}
		return CleanDocstring(value), true
	}
	return "", false
}

// stringLiteral decodes the text of a string or implicitly concatenated
// string node. Bytes and f-strings are not docstrings.
func stringLiteral(node *sitter.Node, sourceCode []byte) (string, bool) {
	switch node.Type() {
	case "string":
		return unquote(node.Content(sourceCode))
	case "concatenated_string":
		var sb strings.Builder
		for i := 0; i < int(node.NamedChildCount()); i++ {
			part, ok := stringLiteral(node.NamedChild(i), sourceCode)
			if !ok {
				return "", false
			}
			sb.WriteString(part)
		}
		return sb.String(), true
	}
	return "", false
}

func unquote(literal string) (string, bool) {
	prefixEnd := strings.IndexAny(literal, `"'`)
	if prefixEnd < 0 {
		return "", false
	}
	prefix := strings.ToLower(literal[:prefixEnd])
	if strings.ContainsAny(prefix, "bf") {
		return "", false
	}
	raw := strings.Contains(prefix, "r")
	body := literal[prefixEnd:]
	for _, q := range []string{`"""`, `'''`, `"`, `'`} {
		if len(body) >= 2*len(q) && strings.HasPrefix(body, q) && strings.HasSuffix(body, q) {
			inner := body[len(q) : len(body)-len(q)]
			if raw {
				return inner, true
			}
			return decodeEscapes(inner), true
		}
	}
	return "", false
}

// decodeEscapes resolves the backslash escapes of a non-raw string body.
// Unknown escapes keep their backslash, and a backslash before a line break
// joins the lines.
func decodeEscapes(s string) string {
	if !strings.Contains(s, `\`) {
		return s
	}

	var sb strings.Builder
	sb.Grow(len(s))
	for i := 0; i < len(s); {
		if s[i] != '\\' || i+1 == len(s) {
			sb.WriteByte(s[i])
			i++
			continue
		}

		next := s[i+1]
		switch {
		case next == '\n':
			i += 2
		case next == '\r':
			i += 2
			if i < len(s) && s[i] == '\n' {
				i++
			}
		case next == '\'' || next == '"':
			sb.WriteByte(next)
			i += 2
		case next >= '0' && next <= '7':
			j, v := i+1, 0
			for j < len(s) && j < i+4 && s[j] >= '0' && s[j] <= '7' {
				v = v*8 + int(s[j]-'0')
				j++
			}
			sb.WriteRune(rune(v))
			i = j
		default:
			// \xNN yields the code point U+00NN, as in Python text strings.
			r, _, tail, err := strconv.UnquoteChar(s[i:], 0)
			if err != nil {
				sb.WriteByte('\\')
				i++
				continue
			}
			sb.WriteRune(r)
			i = len(s) - len(tail)
		}
	}
	return sb.String()
}

// CleanDocstring normalises indentation the way Python's inspect.cleandoc
// does: the first line is left-trimmed, the common margin of the remaining
// lines removed, and blank lines at both ends dropped.
func CleanDocstring(doc string) string {
	lines := strings.Split(expandTabs(doc), "\n")

	margin := -1
	for _, line := range lines[1:] {
		content := strings.TrimLeft(line, " ")
		if content == "" {
			continue
		}
		indent := len(line) - len(content)
		if margin < 0 || indent < margin {
			margin = indent
		}
	}

	lines[0] = strings.TrimLeft(lines[0], " ")
	if margin > 0 {
		for i := 1; i < len(lines); i++ {
			if len(lines[i]) >= margin {
				lines[i] = lines[i][margin:]
			} else {
				lines[i] = strings.TrimLeft(lines[i], " ")
			}
		}
	}

	for len(lines) > 0 && strings.TrimSpace(lines[len(lines)-1]) == "" {
		lines = lines[:len(lines)-1]
	}
	for len(lines) > 0 && strings.TrimSpace(lines[0]) == "" {
		lines = lines[1:]
	}
	return strings.Join(lines, "\n")
}

func expandTabs(s string) string {
	if !strings.Contains(s, "\t") {
		return s
	}
	var sb strings.Builder
	col := 0
	for _, r := range s {
		switch r {
		case '\t':
			n := 8 - col%8
			sb.WriteString(strings.Repeat(" ", n))
			col += n
		case '\n':
			sb.WriteRune(r)
			col = 0
		default:
			sb.WriteRune(r)
			col++
		}
	}
	return sb.String()
}

// ExtractExamples collects the fenced python blocks of a docstring. Each
// block becomes one example with its lines trimmed. A block that is never
// closed is dropped, and so are empty blocks.
func ExtractExamples(docstring string) []string {
	var examples []string
	var current []string
	inExample := false

	for _, line := range strings.Split(docstring, "\n") {
		if strings.Contains(line, exampleOpen) {
			inExample = true
			continue
		}
		if inExample && strings.Contains(line, exampleClose) {
			inExample = false
			if len(current) > 0 {
				examples = append(examples, strings.Join(current, "\n"))
				current = nil
			}
			continue
		}
		if inExample {
			current = append(current, strings.TrimSpace(line))
		}
	}
	return examples
}

// FirstLine returns the first line of a docstring.
func FirstLine(doc string) string {
	if i := strings.IndexByte(doc, '\n'); i >= 0 {
		return doc[:i]
	}
	return doc
}

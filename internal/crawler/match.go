package crawler

import (
	"path"
	"strings"
)

// MatchPattern reports whether relPath matches a category pattern with the
// semantics of Python's PurePath.match: a relative pattern is compared
// against the trailing components of the path, one glob per component, and a
// pattern starting with "/" must match the whole path. An empty pattern
// never matches.
func MatchPattern(relPath, pattern string) bool {
	if pattern == "" {
		return false
	}
	anchored := strings.HasPrefix(pattern, "/")
	patParts := splitParts(pattern)
	pathParts := splitParts(relPath)
	if len(patParts) == 0 {
		return false
	}

	if anchored {
		if len(patParts) != len(pathParts) {
			return false
		}
	} else if len(patParts) > len(pathParts) {
		return false
	}

	offset := len(pathParts) - len(patParts)
	for i, pat := range patParts {
		ok, err := path.Match(translateGlob(pat), pathParts[offset+i])
		if err != nil || !ok {
			return false
		}
	}
	return true
}

func splitParts(p string) []string {
	p = strings.ReplaceAll(p, "\\", "/")
	var parts []string
	for _, part := range strings.Split(p, "/") {
		if part != "" && part != "." {
			parts = append(parts, part)
		}
	}
	return parts
}

// translateGlob rewrites fnmatch negated classes ([!x]) to path.Match syntax.
func translateGlob(pat string) string {
	return strings.ReplaceAll(pat, "[!", "[^")
}

// ModulePath turns a root-relative source path into a dotted module path.
func ModulePath(relPath, ext string) string {
	trimmed := strings.TrimSuffix(strings.ReplaceAll(relPath, "\\", "/"), ext)
	return strings.ReplaceAll(trimmed, "/", ".")
}

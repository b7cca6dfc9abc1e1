package generator

import (
	"errors"
	"strings"
)

const (
	BeginMarker = "<!-- BEGIN_MODULES -->"
	EndMarker   = "<!-- END_MODULES -->"
)

// ErrMalformedMarkers is returned when a begin marker has no end marker after it.
var ErrMalformedMarkers = errors.New("begin marker without a matching end marker")

// Skeleton is the document written when no README exists yet.
func Skeleton(l Labels) string {
	return l.SkeletonTitle + "\n\n" + BeginMarker + "\n" + EndMarker + "\n"
}

// EnsureMarkers appends an empty marker pair when the document has no begin
// marker. It reports whether the document changed.
func EnsureMarkers(doc string) (string, bool) {
	if strings.Contains(doc, BeginMarker) {
		return doc, false
	}
	if doc != "" && !strings.HasSuffix(doc, "\n") {
		doc += "\n"
	}
	if doc != "" {
		doc += "\n"
	}
	return doc + BeginMarker + "\n" + EndMarker + "\n", true
}

// SpliceModules replaces whatever sits between the first begin marker and the
// end marker that follows it. Everything outside the pair is kept as is.
func SpliceModules(doc, content string) (string, error) {
	begin := strings.Index(doc, BeginMarker)
	if begin < 0 {
		return "", ErrMalformedMarkers
	}
	innerStart := begin + len(BeginMarker)
	end := strings.Index(doc[innerStart:], EndMarker)
	if end < 0 {
		return "", ErrMalformedMarkers
	}
	innerEnd := innerStart + end

	var b strings.Builder
	b.Grow(len(doc) + len(content))
	b.WriteString(doc[:innerStart])
	b.WriteString("\n")
	b.WriteString(strings.TrimRight(content, "\n"))
	b.WriteString("\n")
	b.WriteString(doc[innerEnd:])
	return b.String(), nil
}

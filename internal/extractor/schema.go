package extractor

// NoDescription stands in for a missing docstring on classes and functions.
const NoDescription = "no description"

// AnyType is rendered for annotations the formatter cannot spell out.
const AnyType = "Any"

// ModuleInfo is the declaration tree of one parsed source file.
type ModuleInfo struct {
	Path      string         `json:"path"` // relative to the scanned root, slash separated
	Doc       string         `json:"doc"`
	Classes   []ClassInfo    `json:"classes"`
	Functions []FunctionInfo `json:"functions"` // top-level only
}

// Empty reports whether the module declares nothing worth rendering.
func (m *ModuleInfo) Empty() bool {
	return m == nil || (len(m.Classes) == 0 && len(m.Functions) == 0)
}

// ClassInfo describes a class declaration found at any nesting level.
type ClassInfo struct {
	Name    string         `json:"name"`
	Doc     string         `json:"doc"`
	Line    int            `json:"line"`
	Methods []FunctionInfo `json:"methods"`
	Bases   []string       `json:"bases,omitempty"`
}

// FunctionInfo describes a function or a method.
type FunctionInfo struct {
	Name       string   `json:"name"`
	Doc        string   `json:"doc"`
	Line       int      `json:"line"`
	Parameters []string `json:"parameters"` // "name" or "name (Type)"
	Returns    string   `json:"returns,omitempty"`
	Examples   []string `json:"examples,omitempty"`
}

// HasDetails reports whether there is anything beyond the summary line.
func (f FunctionInfo) HasDetails() bool {
	return len(f.Parameters) > 0 || f.Returns != "" || len(f.Examples) > 0
}

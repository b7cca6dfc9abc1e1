package generator

import (
	"sort"
	"strings"
)

const (
	templateModuleHeader   = "module_header"
	templateClassHeader    = "class_header"
	templateFunctionHeader = "function_header"
)

// defaultTemplate returns the compiled-in template for a slot.
func defaultTemplate(name string, l Labels, emojis bool) string {
	classMark, funcMark, icon := "📦 ", "🔸 ", "{icon} "
	if !emojis {
		classMark, funcMark, icon = "", "", ""
	}

	switch name {
	case templateModuleHeader:
		return "### " + icon + "{title}\n{description}\n\n{badges}"
	case templateClassHeader:
		return "#### " + classMark + "{class_name}\n{class_description}\n\n" +
			l.Description + "\n{doc_string}\n\n{badges}"
	case templateFunctionHeader:
		return "#### " + funcMark + "{function_name}\n{function_description}\n\n" +
			l.Parameters + "\n{parameters}\n\n" +
			l.Returns + "\n{returns}\n\n" +
			l.Example + "\n```python\n{example}\n```\n\n{badges}"
	}
	return ""
}

// renderTemplate fills {key} placeholders from values. "{{" and "}}" yield
// literal braces; placeholders without a value are left as written.
func renderTemplate(tpl string, values map[string]string) string {
	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	pairs := make([]string, 0, 4+2*len(keys))
	pairs = append(pairs, "{{", "{", "}}", "}")
	for _, k := range keys {
		pairs = append(pairs, "{"+k+"}", values[k])
	}
	return strings.NewReplacer(pairs...).Replace(tpl)
}

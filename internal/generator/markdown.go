package generator

import (
	"fmt"
	"strings"
	"time"

	"pyreadme/internal/config"
	"pyreadme/internal/crawler"
	"pyreadme/internal/extractor"
)

// Formatter renders collected modules as Markdown.
type Formatter struct {
	cfg    *config.Config
	doc    config.DocConfig
	labels Labels
	badges string
}

// NewFormatter binds a formatter to one configuration snapshot. now stamps
// the last_update badge.
func NewFormatter(cfg *config.Config, doc config.DocConfig, now time.Time) *Formatter {
	return &Formatter{
		cfg:    cfg,
		doc:    doc,
		labels: LabelsFor(doc.Language),
		badges: strings.Join(buildBadges(cfg.Badges, now), " "),
	}
}

func (f *Formatter) template(name string) string {
	if tpl := f.cfg.Templates[name]; tpl != "" {
		return tpl
	}
	return defaultTemplate(name, f.labels, f.doc.UseEmojis)
}

// render fills a template slot. Trailing blank lines left by empty values
// such as disabled badges are dropped.
func (f *Formatter) render(name string, values map[string]string) string {
	return strings.TrimRight(renderTemplate(f.template(name), values), " \n")
}

// FormatSection renders one category. Modules are expected in display order;
// modules without classes or functions are skipped.
func (f *Formatter) FormatSection(category string, entries []crawler.Entry) string {
	cat, ok := f.cfg.Categories.Lookup(category)
	if !ok {
		cat = config.Category{Name: category}
	}
	icon := cat.Icon
	if icon == "" && f.doc.UseEmojis {
		icon = "📦"
	}
	title := cat.Title
	if title == "" {
		title = category
	}

	var b strings.Builder
	b.WriteString(f.render(templateModuleHeader, map[string]string{
		"icon":        icon,
		"title":       title,
		"description": cat.Description,
		"badges":      f.badges,
	}))
	b.WriteString("\n")

	for _, entry := range entries {
		if entry.Module.Empty() {
			continue
		}
		f.writeModule(&b, entry)
	}
	return b.String()
}

func (f *Formatter) writeModule(b *strings.Builder, entry crawler.Entry) {
	mod := entry.Module
	if f.doc.UseEmojis {
		fmt.Fprintf(b, "\n#### 📄 %s\n", entry.Path)
	} else {
		fmt.Fprintf(b, "\n#### %s\n", entry.Path)
	}
	if f.doc.IncludeModuleDoc && mod.Doc != "" {
		fmt.Fprintf(b, "\n%s\n", mod.Doc)
	}

	if len(mod.Classes) > 0 {
		b.WriteString("\n" + f.labels.Classes + "\n")
		for _, cls := range mod.Classes {
			b.WriteString("\n" + f.formatClass(mod.Path, cls) + "\n")
		}
	}

	if len(mod.Functions) > 0 {
		b.WriteString("\n" + f.labels.Functions + "\n")
		for _, fn := range mod.Functions {
			b.WriteString("\n" + f.formatFunction(mod.Path, fn) + "\n")
		}
	}

	b.WriteString("\n---\n")
}

func (f *Formatter) formatClass(file string, cls extractor.ClassInfo) string {
	doc := f.describe(cls.Doc)
	var b strings.Builder
	b.WriteString(f.render(templateClassHeader, map[string]string{
		"class_name":        f.withLine(cls.Name, cls.Line),
		"class_description": f.truncate(extractor.FirstLine(doc)),
		"doc_string":        doc,
		"badges":            f.badges,
	}))
	f.writeSourceLink(&b, file, cls.Line)

	if len(cls.Bases) > 0 {
		fmt.Fprintf(&b, "\n\n%s %s", f.labels.InheritsFrom, strings.Join(cls.Bases, ", "))
	}

	if len(cls.Methods) > 0 {
		b.WriteString("\n\n<details>\n")
		fmt.Fprintf(&b, "<summary>%s</summary>\n\n", f.labels.MethodDetails)
		b.WriteString(f.labels.Methods + "\n\n")
		for _, m := range cls.Methods {
			f.writeMethod(&b, m)
		}
		b.WriteString("</details>")
	}
	return b.String()
}

func (f *Formatter) writeMethod(b *strings.Builder, m extractor.FunctionInfo) {
	name := "`" + m.Name + "`"
	if f.doc.ShowLineNumbers && m.Line > 0 {
		name += fmt.Sprintf(" (%s %d)", f.labels.Line, m.Line)
	}
	fmt.Fprintf(b, "- %s%s%s\n", name, f.labels.Colon, f.truncate(extractor.FirstLine(f.describe(m.Doc))))

	params := f.doc.IncludeParameters && len(m.Parameters) > 0
	returns := f.doc.IncludeReturnType && m.Returns != ""
	examples := f.doc.IncludeExamples && len(m.Examples) > 0
	if !params && !returns && !examples {
		return
	}

	b.WriteString("  <details>\n")
	fmt.Fprintf(b, "  <summary>%s</summary>\n\n", f.labels.Details)
	if params {
		fmt.Fprintf(b, "  %s\n  ```python\n", f.labels.Parameters)
		for _, p := range m.Parameters {
			fmt.Fprintf(b, "  - %s\n", p)
		}
		b.WriteString("  ```\n\n")
	}
	if returns {
		fmt.Fprintf(b, "  %s `%s`\n\n", f.labels.Returns, m.Returns)
	}
	if examples {
		fmt.Fprintf(b, "  %s\n  ```python\n", f.labels.Example)
		for _, ex := range m.Examples {
			b.WriteString(indent(ex, "  ") + "\n")
		}
		b.WriteString("  ```\n")
	}
	b.WriteString("  </details>\n")
}

func (f *Formatter) formatFunction(file string, fn extractor.FunctionInfo) string {
	params := f.labels.None
	if f.doc.IncludeParameters && len(fn.Parameters) > 0 {
		lines := make([]string, len(fn.Parameters))
		for i, p := range fn.Parameters {
			lines[i] = "- " + p
		}
		params = strings.Join(lines, "\n")
	}

	returns := f.labels.None
	if f.doc.IncludeReturnType && fn.Returns != "" {
		returns = fn.Returns
	}

	example := f.labels.NoExample
	if f.doc.IncludeExamples && len(fn.Examples) > 0 {
		example = fn.Examples[0]
	}

	var b strings.Builder
	b.WriteString(f.render(templateFunctionHeader, map[string]string{
		"function_name":        f.withLine(fn.Name, fn.Line),
		"function_description": f.truncate(extractor.FirstLine(f.describe(fn.Doc))),
		"parameters":           params,
		"returns":              returns,
		"example":              example,
		"badges":               f.badges,
	}))
	f.writeSourceLink(&b, file, fn.Line)
	return b.String()
}

// FormatStatistics renders the statistics block placed ahead of the sections.
// The last-update stamp is the end of the run.
func (f *Formatter) FormatStatistics(stats crawler.Stats, start, end time.Time) string {
	l := f.labels
	title := "### " + l.StatsTitle
	if f.doc.UseEmojis {
		title = "### 📊 " + l.StatsTitle
	}
	lines := []string{
		title,
		fmt.Sprintf("- %s%s%d", l.TotalFiles, l.Colon, stats.TotalFiles),
		fmt.Sprintf("- %s%s%d", l.TotalClasses, l.Colon, stats.TotalClasses),
		fmt.Sprintf("- %s%s%d", l.TotalFunctions, l.Colon, stats.TotalFunctions),
		fmt.Sprintf("- %s%s%.2f %s", l.Elapsed, l.Colon, end.Sub(start).Seconds(), l.Seconds),
		fmt.Sprintf("- %s%s%s", l.LastUpdate, l.Colon, end.Format(config.TimestampLayout)),
	}
	return strings.Join(lines, "\n") + "\n"
}

// describe swaps the extractor's placeholder for the localized one.
func (f *Formatter) describe(doc string) string {
	if doc == "" || doc == extractor.NoDescription {
		return f.labels.NoDescription
	}
	return doc
}

func (f *Formatter) withLine(name string, line int) string {
	if !f.doc.ShowLineNumbers || line <= 0 {
		return name
	}
	return fmt.Sprintf("%s (%s %d)", name, f.labels.Line, line)
}

func (f *Formatter) writeSourceLink(b *strings.Builder, file string, line int) {
	if !f.doc.ShowSourceLink || file == "" || line <= 0 {
		return
	}
	fmt.Fprintf(b, "\n\n[%s](%s#L%d)", f.labels.Source, file, line)
}

func (f *Formatter) truncate(s string) string {
	limit := f.doc.MaxDocLength
	if limit <= 0 {
		return s
	}
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit]) + "..."
}

func indent(s, prefix string) string {
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = prefix + line
	}
	return strings.Join(lines, "\n")
}

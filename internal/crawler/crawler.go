package crawler

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"pyreadme/internal/config"
	"pyreadme/internal/extractor"

	"github.com/spf13/afero"
	"go.uber.org/zap"
)

// Stats counts what one collection pass saw.
type Stats struct {
	TotalFiles     int `json:"total_files"`
	TotalClasses   int `json:"total_classes"`
	TotalFunctions int `json:"total_functions"`
}

// Entry is one module of a category, addressed by its dotted path.
type Entry struct {
	Path   string
	Module *extractor.ModuleInfo
}

// Categorized maps category name to dotted module path to module. Category
// order is the configuration order.
type Categorized struct {
	order   []string
	buckets map[string]map[string]*extractor.ModuleInfo
}

func newCategorized(categories config.Categories) *Categorized {
	c := &Categorized{buckets: make(map[string]map[string]*extractor.ModuleInfo)}
	for _, cat := range categories {
		if _, dup := c.buckets[cat.Name]; dup {
			continue
		}
		c.order = append(c.order, cat.Name)
		c.buckets[cat.Name] = make(map[string]*extractor.ModuleInfo)
	}
	return c
}

// Names returns the category names in configuration order.
func (c *Categorized) Names() []string {
	return append([]string(nil), c.order...)
}

// Len returns the number of modules stored under category.
func (c *Categorized) Len(category string) int {
	return len(c.buckets[category])
}

// Module returns one module of a category.
func (c *Categorized) Module(category, modulePath string) (*extractor.ModuleInfo, bool) {
	m, ok := c.buckets[category][modulePath]
	return m, ok
}

// Sorted returns a category's modules ordered by dotted path.
func (c *Categorized) Sorted(category string) []Entry {
	bucket := c.buckets[category]
	entries := make([]Entry, 0, len(bucket))
	for p, m := range bucket {
		entries = append(entries, Entry{Path: p, Module: m})
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Path < entries[j].Path })
	return entries
}

func (c *Categorized) add(category, modulePath string, m *extractor.ModuleInfo) bool {
	bucket, ok := c.buckets[category]
	if !ok {
		return false
	}
	bucket[modulePath] = m
	return true
}

// Result is the outcome of a collection pass.
type Result struct {
	Modules *Categorized
	Stats   Stats
	Failed  []string // files that did not parse
}

// Crawler scans a directory for source files.
type Crawler struct {
	fs         afero.Fs
	extractor  *extractor.Extractor
	categories config.Categories
	ignored    []string
	logger     *zap.Logger
}

// NewCrawler creates a new crawler instance.
func NewCrawler(fs afero.Fs, ext *extractor.Extractor, cfg *config.Config, logger *zap.Logger) *Crawler {
	return &Crawler{
		fs:         fs,
		extractor:  ext,
		categories: cfg.Categories,
		ignored:    cfg.IgnorePatterns,
		logger:     logger,
	}
}

// Collect walks root, parses every source file and buckets the modules by
// category. Files that fail to parse are logged and kept as empty modules.
func (c *Crawler) Collect(ctx context.Context, root string) (*Result, error) {
	res := &Result{Modules: newCategorized(c.categories)}

	err := afero.Walk(c.fs, root, func(path string, info os.FileInfo, err error) error {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		if err != nil {
			if path == root {
				return err
			}
			c.logger.Warn("skipping unreadable path", zap.String("path", path), zap.Error(err))
			if info != nil && info.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}

		rel, relErr := filepath.Rel(root, path)
		if relErr != nil {
			return relErr
		}
		rel = filepath.ToSlash(rel)

		if info.IsDir() {
			if rel != "." && c.isIgnored(rel) {
				c.logger.Debug("skipping ignored directory", zap.String("dir", rel))
				return filepath.SkipDir
			}
			return nil
		}

		if !c.extractor.Handles(path) {
			return nil
		}

		res.Stats.TotalFiles++
		mod := c.parseFile(ctx, path, rel, res)
		res.Stats.TotalClasses += len(mod.Classes)
		res.Stats.TotalFunctions += len(mod.Functions)

		category := c.categorize(rel)
		modulePath := ModulePath(rel, filepath.Ext(rel))
		if !res.Modules.add(category, modulePath, mod) {
			c.logger.Debug("module has no category", zap.String("module", modulePath))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return res, nil
}

func (c *Crawler) parseFile(ctx context.Context, path, rel string, res *Result) *extractor.ModuleInfo {
	empty := &extractor.ModuleInfo{
		Path:      rel,
		Classes:   []extractor.ClassInfo{},
		Functions: []extractor.FunctionInfo{},
	}

	src, err := afero.ReadFile(c.fs, path)
	if err != nil {
		c.logger.Error("failed to read file", zap.String("path", rel), zap.Error(err))
		res.Failed = append(res.Failed, rel)
		return empty
	}

	mod, err := c.extractor.Parse(ctx, rel, src)
	if err != nil {
		if errors.Is(err, extractor.ErrSyntax) {
			c.logger.Error("failed to parse file", zap.String("path", rel), zap.Error(err))
		} else {
			c.logger.Error("parser failure", zap.String("path", rel), zap.Error(err))
		}
		res.Failed = append(res.Failed, rel)
		return empty
	}
	return mod
}

// categorize picks the first category, in declaration order, whose pattern
// matches. Unmatched files fall back to the "other" category.
func (c *Crawler) categorize(rel string) string {
	for _, cat := range c.categories {
		if MatchPattern(rel, cat.Pattern) {
			return cat.Name
		}
	}
	return config.OtherCategory
}

func (c *Crawler) isIgnored(rel string) bool {
	for _, ign := range c.ignored {
		if ign != "" && strings.Contains(rel, ign) {
			return true
		}
	}
	return false
}

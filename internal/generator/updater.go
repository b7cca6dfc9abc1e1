package generator

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"pyreadme/internal/config"
	"pyreadme/internal/crawler"

	"github.com/spf13/afero"
	"go.uber.org/zap"
)

// RunStatistics describes one documentation run.
type RunStatistics struct {
	crawler.Stats
	Start  time.Time
	End    time.Time
	Failed []string
}

// Elapsed is the wall time spent collecting and formatting.
func (s RunStatistics) Elapsed() time.Duration {
	return s.End.Sub(s.Start)
}

// RunRecorder persists finished runs.
type RunRecorder interface {
	RecordRun(ctx context.Context, readme string, stats RunStatistics) error
}

// Options configures an Updater.
type Options struct {
	FS         afero.Fs
	Root       string
	ReadmePath string // defaults to <Root>/README.md
	Config     *config.Config
	Crawler    *crawler.Crawler
	Logger     *zap.Logger
	Recorder   RunRecorder      // optional
	Clock      func() time.Time // defaults to time.Now
}

// Updater regenerates the module documentation region of a README.
type Updater struct {
	fs       afero.Fs
	root     string
	readme   string
	cfg      *config.Config
	crawler  *crawler.Crawler
	logger   *zap.Logger
	recorder RunRecorder
	now      func() time.Time
}

func NewUpdater(opts Options) (*Updater, error) {
	if opts.Config == nil {
		return nil, errors.New("updater: config is required")
	}
	if opts.Crawler == nil {
		return nil, errors.New("updater: crawler is required")
	}
	u := &Updater{
		fs:       opts.FS,
		root:     opts.Root,
		readme:   opts.ReadmePath,
		cfg:      opts.Config,
		crawler:  opts.Crawler,
		logger:   opts.Logger,
		recorder: opts.Recorder,
		now:      opts.Clock,
	}
	if u.fs == nil {
		u.fs = afero.NewOsFs()
	}
	if u.readme == "" {
		u.readme = filepath.Join(u.root, "README.md")
	}
	if u.logger == nil {
		u.logger = zap.NewNop()
	}
	if u.now == nil {
		u.now = time.Now
	}
	return u, nil
}

// Update regenerates the documentation and writes the README once.
func (u *Updater) Update(ctx context.Context) (*RunStatistics, error) {
	u.logger.Info("updating documentation", zap.String("root", u.root), zap.String("readme", u.readme))

	doc, stats, err := u.Render(ctx)
	if err != nil {
		return nil, err
	}

	if err := u.writeAtomic(doc); err != nil {
		u.logger.Error("failed to write readme", zap.String("readme", u.readme), zap.Error(err))
		return nil, fmt.Errorf("write %s: %w", u.readme, err)
	}

	u.logger.Info("documentation updated",
		zap.Int("files", stats.TotalFiles),
		zap.Int("classes", stats.TotalClasses),
		zap.Int("functions", stats.TotalFunctions),
		zap.Duration("elapsed", stats.Elapsed()),
	)

	if u.recorder != nil {
		if err := u.recorder.RecordRun(ctx, u.readme, *stats); err != nil {
			u.logger.Warn("failed to record run", zap.Error(err))
		}
	}
	return stats, nil
}

// Render produces the updated README without touching the file. A missing
// README is rendered from the skeleton.
func (u *Updater) Render(ctx context.Context) (string, *RunStatistics, error) {
	start := u.now()
	doc, err := u.readCurrent()
	if err != nil {
		u.logger.Error("failed to read readme", zap.String("readme", u.readme), zap.Error(err))
		return "", nil, fmt.Errorf("read %s: %w", u.readme, err)
	}
	if updated, changed := EnsureMarkers(doc); changed {
		u.logger.Info("appending module markers", zap.String("readme", u.readme))
		doc = updated
	}

	res, err := u.crawler.Collect(ctx, u.root)
	if err != nil {
		u.logger.Error("failed to collect modules", zap.String("root", u.root), zap.Error(err))
		return "", nil, fmt.Errorf("collect %s: %w", u.root, err)
	}

	formatter := NewFormatter(u.cfg, u.cfg.DocConfig(start), start)
	var sections []string
	for _, name := range res.Modules.Names() {
		if res.Modules.Len(name) == 0 {
			continue
		}
		u.logger.Debug("formatting category", zap.String("category", name), zap.Int("modules", res.Modules.Len(name)))
		sections = append(sections, formatter.FormatSection(name, res.Modules.Sorted(name)))
	}

	stats := &RunStatistics{Stats: res.Stats, Start: start, End: u.now(), Failed: res.Failed}
	content := formatter.FormatStatistics(stats.Stats, stats.Start, stats.End)
	if len(sections) > 0 {
		content += "\n" + strings.Join(sections, "\n")
	}

	spliced, err := SpliceModules(doc, content)
	if err != nil {
		u.logger.Error("cannot splice module documentation", zap.String("readme", u.readme), zap.Error(err))
		return "", nil, fmt.Errorf("splice %s: %w", u.readme, err)
	}
	return spliced, stats, nil
}

func (u *Updater) readCurrent() (string, error) {
	data, err := afero.ReadFile(u.fs, u.readme)
	if err == nil {
		return string(data), nil
	}
	if !errors.Is(err, os.ErrNotExist) {
		return "", err
	}
	u.logger.Info("readme not found, starting from skeleton", zap.String("readme", u.readme))
	return Skeleton(LabelsFor(u.cfg.DocConfig(u.now()).Language)), nil
}

// writeAtomic writes through a temp file in the README's directory and
// renames it into place, keeping the existing file mode. The README's
// directory must already exist.
func (u *Updater) writeAtomic(doc string) error {
	dir := filepath.Dir(u.readme)
	info, err := u.fs.Stat(dir)
	if err != nil {
		return err
	}
	if !info.IsDir() {
		return fmt.Errorf("%s is not a directory", dir)
	}

	mode := os.FileMode(0644)
	if existing, err := u.fs.Stat(u.readme); err == nil {
		mode = existing.Mode().Perm()
	}

	tmp, err := afero.TempFile(u.fs, dir, ".readme-*.tmp")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	if _, err := tmp.WriteString(doc); err != nil {
		tmp.Close()
		_ = u.fs.Remove(tmpName)
		return err
	}
	if err := tmp.Close(); err != nil {
		_ = u.fs.Remove(tmpName)
		return err
	}
	if err := u.fs.Chmod(tmpName, mode); err != nil {
		_ = u.fs.Remove(tmpName)
		return err
	}
	if err := u.fs.Rename(tmpName, u.readme); err != nil {
		_ = u.fs.Remove(tmpName)
		return err
	}
	return nil
}

package main

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"pyreadme/internal/config"
	"pyreadme/internal/storage"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testConfig = `categories:
  core:
    pattern: "core/*.py"
    icon: "🧩"
    title: "Core"
    description: "Core modules"
ignore_patterns:
  - __pycache__
`

func writeTestProject(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	files := map[string]string{
		config.DefaultPath: testConfig,
		"core/engine.py":   "class Engine:\n    \"\"\"Runs things.\"\"\"\n\n    def start(self, speed: int) -> bool:\n        pass\n",
		"README.md":        "# Demo\n",
	}
	for name, content := range files {
		path := filepath.Join(root, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	}
	return root
}

func TestRun_UpdatesReadmeAndRecordsHistory(t *testing.T) {
	root := writeTestProject(t)
	dbPath := filepath.Join(t.TempDir(), "history.db")

	err := run(context.Background(), options{root: root, history: dbPath})
	require.NoError(t, err)

	readme, err := os.ReadFile(filepath.Join(root, "README.md"))
	require.NoError(t, err)
	assert.Contains(t, string(readme), "# Demo\n")
	assert.Contains(t, string(readme), "### 🧩 Core\nCore modules")
	assert.Contains(t, string(readme), "#### 📄 core.engine")
	assert.Contains(t, string(readme), "  - speed (int)\n")

	store, err := storage.NewSQLiteStore(dbPath)
	require.NoError(t, err)
	defer store.Close()
	runs, err := store.RecentRuns(context.Background(), 5)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, 1, runs[0].TotalFiles)
	assert.Equal(t, 1, runs[0].TotalClasses)
}

func TestRun_DryRunLeavesReadme(t *testing.T) {
	root := writeTestProject(t)

	require.NoError(t, run(context.Background(), options{root: root, dryRun: true}))

	readme, err := os.ReadFile(filepath.Join(root, "README.md"))
	require.NoError(t, err)
	assert.Equal(t, "# Demo\n", string(readme))
}

func TestRun_FlagConflicts(t *testing.T) {
	assert.Error(t, run(context.Background(), options{root: t.TempDir(), dryRun: true, watch: true}))
	assert.Error(t, run(context.Background(), options{root: t.TempDir(), pretty: true}))
}

func TestRun_WatchModeConfigNeedsFlag(t *testing.T) {
	root := writeTestProject(t)
	cfgPath := filepath.Join(root, config.DefaultPath)
	require.NoError(t, os.WriteFile(cfgPath, []byte(testConfig+"doc_options:\n  watch_mode: true\n"), 0644))

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	require.NoError(t, run(ctx, options{root: root}))
	assert.NoError(t, ctx.Err(), "run returns after one update without --watch")

	readme, err := os.ReadFile(filepath.Join(root, "README.md"))
	require.NoError(t, err)
	assert.Contains(t, string(readme), "#### 📄 core.engine")
}

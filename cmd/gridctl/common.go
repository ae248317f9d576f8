package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/maxfischer2781/gridctl/internal/config"
	"github.com/maxfischer2781/gridctl/internal/model"
	"github.com/maxfischer2781/gridctl/internal/provider"
	"github.com/maxfischer2781/gridctl/internal/scanner"
	"github.com/maxfischer2781/gridctl/internal/split"
)

// loadView loads the TOML config named by the root --config flag into
// a single-section view, the same "typed struct + defaults, load from
// project root" shape the teacher's config package follows, narrowed
// here to one flat "gridctl" section since the CLI has no per-dataset
// tagging to do.
func loadView(c *cli.Context) (*config.View, error) {
	store, err := config.LoadTOML(c.String("config"))
	if err != nil {
		return nil, fmt.Errorf("loading config %s: %w", c.String("config"), err)
	}
	view := config.NewView(store, "gridctl")
	if c.Bool("interactive") {
		view = view.WithPrompts(stdinPromptSink{})
	}
	return view, nil
}

// scanBlocks builds one ScanProvider per expression (a directory, a
// glob, or a `.dbs` catalog path) and runs them concurrently through
// provider.RunAll, returning the concatenated block list. Per-source
// failures are reported but don't abort sources that succeeded.
func scanBlocks(c *cli.Context, view *config.View, registry *scanner.Registry, exprs []string) ([]model.Block, error) {
	providers := make([]provider.Provider, len(exprs))
	for i, expr := range exprs {
		p, err := provider.NewScanProvider(view, registry, expr, "", provider.Collaborators{})
		if err != nil {
			return nil, fmt.Errorf("building provider for %s: %w", expr, err)
		}
		providers[i] = p
	}

	concurrency, _ := view.GetInt("scan concurrency", 4, nil)
	timeoutSec, _ := view.GetInt("scan timeout seconds", 5, nil)
	results := provider.RunAll(context.Background(), exprs, providers, concurrency, time.Duration(timeoutSec)*time.Second)

	var blocks []model.Block
	var failed int
	for _, r := range results {
		if r.Err != nil {
			failed++
			fmt.Fprintf(os.Stderr, "gridctl: scan of %s failed: %v\n", r.Expr, r.Err)
			continue
		}
		blocks = append(blocks, r.Blocks...)
	}
	if len(blocks) == 0 && failed > 0 {
		return nil, fmt.Errorf("all %d scan source(s) failed", failed)
	}
	return blocks, nil
}

// pickSplitter resolves the --jobs/--events flags into a Splitter, per
// spec §4.4's three composable variants: event count takes precedence
// over file count, file count over the one-partition-per-file default.
func pickSplitter(c *cli.Context) split.Splitter {
	if events := c.Int64("events"); events > 0 {
		return split.FixedEventCount{Count: events}
	}
	if jobs := c.Int("jobs"); jobs > 0 {
		return split.FixedFileCount{Count: jobs}
	}
	return split.FileBoundarySplitter{}
}

func printBlockSummary(blocks []model.Block) {
	for _, b := range blocks {
		fmt.Printf("%s#%s: %d files, %s\n", b.Dataset, b.BlockName, len(b.Files), entriesLabel(b.Entries))
	}
}

func entriesLabel(n int64) string {
	if n < 0 {
		return "unknown entries"
	}
	return fmt.Sprintf("%d entries", n)
}

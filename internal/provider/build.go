package provider

import (
	"fmt"
	"strings"

	"github.com/maxfischer2781/gridctl/internal/config"
	"github.com/maxfischer2781/gridctl/internal/gcerrors"
	"github.com/maxfischer2781/gridctl/internal/scanner"
)

// Collaborators bundles the external seams a scanner chain may need:
// a task description for MetadataFromTask, a job selection source for
// OutputDirsFromConfig, and a catalog client for FilesFromDataProvider.
// All three are optional; without one, FilesFromDataProvider and
// OutputDirsFromConfig emit nothing and MetadataFromTask passes records
// through unchanged.
type Collaborators struct {
	Task    scanner.TaskDescription
	Jobs    scanner.JobSelection
	Catalog scanner.ExternalCatalog
}

// buildScanner resolves one scanner name into a scanner.Scanner. Names
// with plain string arguments go through the registry; the richer-config
// scanners (those needing a collaborator or several typed fields) are
// constructed directly from the view, per internal/scanner/registry.go's
// documented scope decision.
func buildScanner(name string, cfg *config.View, registry *scanner.Registry, deps Collaborators) (scanner.Scanner, error) {
	switch strings.ToLower(name) {
	case "matchdelimiter", "matchdelimeter":
		return scanner.MatchDelimiter{
			Separator:  cfg.Get("delimiter separator", "_", nil),
			Count:      mustInt(cfg, "delimiter count", 0),
			DSRange:    cfg.Get("delimiter dataset key", "", nil),
			BlockRange: cfg.Get("delimiter block key", "", nil),
		}, nil

	case "determineevents":
		return scanner.DetermineEvents{
			Command:     cfg.Get("events command", "", nil),
			MetadataKey: cfg.Get("events key", "", nil),
			Default:     int64(mustInt(cfg, "events default", -1)),
			IgnoreEmpty: mustBool(cfg, "events ignore empty", false),
		}, nil

	case "outputdirsfromwork":
		return scanner.OutputDirsFromWork{WorkDir: cfg.Get("source directory", "", nil)}, nil

	case "outputdirsfromconfig":
		return scanner.OutputDirsFromConfig{Source: deps.Jobs}, nil

	case "metadatafromtask":
		return scanner.MetadataFromTask{Task: deps.Task}, nil

	case "filesfromdataprovider":
		return scanner.FilesFromDataProvider{
			Catalog:    deps.Catalog,
			Expression: cfg.Get("source dataset path", "", nil),
		}, nil

	default:
		args := map[string]string{
			"directory": cfg.Get("source directory", "", nil),
			"patterns":  cfg.Get("filename filter", "*.root", nil),
			"prefix":    cfg.Get("prefix", "", nil),
		}
		return registry.Build(name, args)
	}
}

// buildChain resolves a whole scanner name list into a Chain.
func buildChain(names []string, cfg *config.View, registry *scanner.Registry, deps Collaborators) (*scanner.Chain, error) {
	stages := make([]scanner.Scanner, 0, len(names))
	for _, name := range names {
		s, err := buildScanner(name, cfg, registry, deps)
		if err != nil {
			return nil, gcerrors.NewConfigError("scanner", fmt.Errorf("building %q: %w", name, err))
		}
		stages = append(stages, s)
	}
	return scanner.NewChain(stages...), nil
}

func mustInt(cfg *config.View, key string, def int) int {
	n, err := cfg.GetInt(key, def, nil)
	if err != nil {
		return def
	}
	return n
}

func mustBool(cfg *config.View, key string, def bool) bool {
	b, err := cfg.GetBool(key, def, nil)
	if err != nil {
		return def
	}
	return b
}

package scanner

import (
	"bytes"
	"context"
	"iter"
	"os/exec"
	"strconv"
	"strings"

	"github.com/maxfischer2781/gridctl/internal/model"
)

// DetermineEvents resolves a record's entry count from metadata, from
// running an external command, or from a configured default, dropping
// zero-entry tuples when IgnoreEmpty is set (spec:
// "DetermineEvents(cmd?, key?, default, ignoreEmpty): resolves entries
// from metadata, from running cmd, or from the default; drops
// zero-entry tuples when ignoreEmpty").
type DetermineEvents struct {
	BaseGuardKeys
	Command      string
	MetadataKey  string
	Default      int64
	IgnoreEmpty  bool
	CommandRunner func(ctx context.Context, command, path string) (int64, error)
}

func (s DetermineEvents) Iter(ctx context.Context, _ int, rec model.FileRecord) iter.Seq2[model.FileRecord, error] {
	return func(yield func(model.FileRecord, error) bool) {
		events := rec.Entries
		if events < 0 {
			events = s.Default
		}
		if s.MetadataKey != "" {
			if raw, ok := rec.Metadata[s.MetadataKey]; ok {
				if n, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64); err == nil {
					events = n
				}
			}
		}
		if s.Command != "" {
			runner := s.CommandRunner
			if runner == nil {
				runner = runEventsCommand
			}
			if n, err := runner(ctx, s.Command, rec.URL); err == nil {
				events = n
			}
		}
		if !s.IgnoreEmpty || events != 0 {
			next := rec.Clone()
			next.Entries = events
			yield(next, nil)
		}
	}
}

// runEventsCommand shells out to the configured events command with
// the file path appended, taking the last line of output as the event
// count - grounded on original_source's
// `os.popen('%s %s' % (eventsCmd, path)).readlines()[-1]`.
func runEventsCommand(ctx context.Context, command, path string) (int64, error) {
	cmd := exec.CommandContext(ctx, "sh", "-c", command+" "+shellQuote(path))
	var out bytes.Buffer
	cmd.Stdout = &out
	if err := cmd.Run(); err != nil {
		return 0, err
	}
	lines := strings.Split(strings.TrimRight(out.String(), "\n"), "\n")
	last := strings.TrimSpace(lines[len(lines)-1])
	return strconv.ParseInt(last, 10, 64)
}

func shellQuote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", `'\''`) + "'"
}

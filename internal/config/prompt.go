package config

// PromptSink asks the operator a yes/no question during an interactive
// resync pass (spec §7: "operator confirmation defaults to no-op in
// non-interactive mode"). Confirm returns def when the sink cannot
// prompt (no TTY, or the run is configured non-interactive).
type PromptSink interface {
	Confirm(question string, def bool) bool
}

// DefaultPromptSink never prompts and always returns the caller's
// default, matching grid-control's batch-mode behaviour when no
// interactive sink has been wired in.
type DefaultPromptSink struct{}

func (DefaultPromptSink) Confirm(_ string, def bool) bool { return def }

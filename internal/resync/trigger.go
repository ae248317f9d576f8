package resync

import (
	"context"
	"io/fs"
	"os"
	"os/signal"
	"path/filepath"
	"sync"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/maxfischer2781/gridctl/internal/gclog"
)

// Trigger schedules resync passes from three independent sources - an
// fsnotify watch on a set of directories, a periodic timer, and SIGUSR2
// - coalescing bursts from any of them into a single run of Run at a
// time. A trigger that arrives while a pass is in flight sets an
// "again" flag rather than being dropped or queued, so the pipeline
// never runs two passes concurrently but also never misses a change
// that arrived mid-pass.
//
// Grounded on standardbeagle-lci's internal/indexing eventDebouncer,
// generalized from per-path event batching to whole-pipeline pass
// coalescing since a resync pass always reprocesses the full block
// universe rather than an incremental per-file diff.
type Trigger struct {
	// Dirs are watched recursively for fsnotify events. Watch failures
	// on individual subdirectories are logged and skipped, not fatal.
	Dirs []string

	// Interval is the periodic fallback trigger, normally
	// max(userInterval, providerQueryInterval) (spec §4.6).
	Interval time.Duration

	// Debounce coalesces a burst of fsnotify events into one pass.
	Debounce time.Duration

	// Run executes one resync pass. Errors are logged; the trigger
	// keeps running regardless.
	Run func(ctx context.Context) error

	watcher *fsnotify.Watcher
	sigCh   chan os.Signal

	mu      sync.Mutex
	timer   *time.Timer
	running bool
	again   bool

	wg sync.WaitGroup
}

// Start begins watching Dirs, the periodic timer, and SIGUSR2, until
// ctx is cancelled or Stop is called.
func (t *Trigger) Start(ctx context.Context) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	t.watcher = w
	for _, dir := range t.Dirs {
		_ = filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				gclog.Warn("resync trigger: failed to watch %s: %v", path, err)
				return nil
			}
			if !d.IsDir() {
				return nil
			}
			if err := w.Add(path); err != nil {
				gclog.Warn("resync trigger: failed to watch %s: %v", path, err)
			}
			return nil
		})
	}

	t.sigCh = make(chan os.Signal, 1)
	signal.Notify(t.sigCh, syscall.SIGUSR2)

	t.wg.Add(3)
	go t.watchLoop(ctx)
	go t.signalLoop(ctx)
	go t.timerLoop(ctx)
	return nil
}

// Stop releases the watcher and signal channel and waits for the
// trigger's goroutines to exit. A pass already in flight is allowed to
// finish.
func (t *Trigger) Stop() {
	if t.watcher != nil {
		t.watcher.Close()
	}
	if t.sigCh != nil {
		signal.Stop(t.sigCh)
		close(t.sigCh)
	}
	t.wg.Wait()
}

func (t *Trigger) watchLoop(ctx context.Context) {
	defer t.wg.Done()
	for {
		select {
		case <-ctx.Done():
			return
		case _, ok := <-t.watcher.Events:
			if !ok {
				return
			}
			t.schedule(ctx)
		case err, ok := <-t.watcher.Errors:
			if !ok {
				return
			}
			gclog.Warn("resync trigger: watch error: %v", err)
		}
	}
}

func (t *Trigger) signalLoop(ctx context.Context) {
	defer t.wg.Done()
	for {
		select {
		case <-ctx.Done():
			return
		case _, ok := <-t.sigCh:
			if !ok {
				return
			}
			t.schedule(ctx)
		}
	}
}

func (t *Trigger) timerLoop(ctx context.Context) {
	defer t.wg.Done()
	if t.Interval <= 0 {
		return
	}
	ticker := time.NewTicker(t.Interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			t.schedule(ctx)
		}
	}
}

// schedule debounces a raw trigger event, firing at most once per
// Debounce window.
func (t *Trigger) schedule(ctx context.Context) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.timer != nil {
		return
	}
	debounce := t.Debounce
	if debounce <= 0 {
		debounce = 0
	}
	t.timer = time.AfterFunc(debounce, func() { t.fire(ctx) })
}

// fire runs Run, then immediately runs it again if a trigger arrived
// while it was running, instead of allowing a second pass to start
// concurrently.
func (t *Trigger) fire(ctx context.Context) {
	t.mu.Lock()
	t.timer = nil
	if t.running {
		t.again = true
		t.mu.Unlock()
		return
	}
	t.running = true
	t.mu.Unlock()

	for {
		if err := t.Run(ctx); err != nil {
			gclog.Error("resync pass failed: %v", err)
		}

		t.mu.Lock()
		if t.again {
			t.again = false
			t.mu.Unlock()
			continue
		}
		t.running = false
		t.mu.Unlock()
		return
	}
}

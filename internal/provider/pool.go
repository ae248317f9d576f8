package provider

import (
	"context"
	"time"

	"golang.org/x/sync/semaphore"

	"github.com/maxfischer2781/gridctl/internal/model"
)

// defaultQueryTimeout bounds a single Provider.GetBlocks call when run
// through RunAll, per spec §5's "thread pool with bounded timeout,
// default 5s" applied to the provider layer's external queries (a
// directory walk, a catalog round trip, a job.info read).
const defaultQueryTimeout = 5 * time.Second

// Result pairs one provider's outcome with the expression it was
// built from, for callers that need to report per-source failures
// individually rather than aborting the whole run.
type Result struct {
	Expr   string
	Blocks []model.Block
	Err    error
}

// RunAll runs every provider concurrently, bounded to concurrency
// simultaneous queries and timeout per query, grounded on
// golang.org/x/sync/semaphore, the same bounded-worker-pool library
// the teacher's resync trigger timeout path assumes elsewhere in the
// stack.
func RunAll(ctx context.Context, exprs []string, providers []Provider, concurrency int, timeout time.Duration) []Result {
	if concurrency <= 0 {
		concurrency = 1
	}
	if timeout <= 0 {
		timeout = defaultQueryTimeout
	}
	sem := semaphore.NewWeighted(int64(concurrency))
	results := make([]Result, len(providers))

	done := make(chan int, len(providers))
	for i := range providers {
		i := i
		if err := sem.Acquire(ctx, 1); err != nil {
			results[i] = Result{Expr: exprs[i], Err: err}
			done <- i
			continue
		}
		go func() {
			defer sem.Release(1)
			qctx, cancel := context.WithTimeout(ctx, timeout)
			defer cancel()
			blocks, err := providers[i].GetBlocks(qctx)
			results[i] = Result{Expr: exprs[i], Blocks: blocks, Err: err}
			done <- i
		}()
	}
	for range providers {
		<-done
	}
	return results
}

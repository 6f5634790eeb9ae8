package sync

import (
	"runtime"
	"sync"
	"time"

	"github.com/Carmen-Shannon/automation/tools/worker"
)

// geometryDispatcher runs geometry conversion on a bounded pool of reusable
// workers. Workers persist across passes, avoiding per-pass goroutine
// spawn/teardown overhead.
//
// Only conversions for non-instanced objects may be submitted; instanced
// objects convert inline on the driving thread because duplicated instances
// can target the same shared source geometry, and one source must never be
// converted by two threads at once. Every task receives an exclusively-owned
// geometry target.
type geometryDispatcher struct {
	pool   worker.DynamicWorkerPool
	wg     sync.WaitGroup
	nextID int
}

// newGeometryDispatcher creates a dispatcher with the given worker count
// (defaulting to NumCPU-1). Queue size of 256 accommodates typical scene
// object counts with headroom.
func newGeometryDispatcher(workers int) *geometryDispatcher {
	if workers <= 0 {
		workers = max(runtime.NumCPU()-1, 1)
	}
	return &geometryDispatcher{
		pool: worker.NewDynamicWorkerPool(workers, 256, 1*time.Second),
	}
}

// submit queues one conversion task. Only the driving thread calls it.
func (d *geometryDispatcher) submit(task func()) {
	d.wg.Add(1)
	id := d.nextID
	d.nextID++
	d.pool.SubmitTask(worker.Task{
		ID: id,
		Do: func() (any, error) {
			defer d.wg.Done()
			task()
			return nil, nil
		},
	})
}

// drain blocks until every submitted task has completed. The WaitGroup
// provides the per-pass barrier; the pool's own Wait only returns once
// workers idle-exit, which is unsuitable between passes. Submitted work is
// always drained, even after cancellation — tasks are never abandoned
// mid-conversion.
func (d *geometryDispatcher) drain() {
	d.wg.Wait()
}

package renderer

import (
	"context"
	"runtime"
	"sync"

	"github.com/df07/go-stochastic-raytracer/pkg/core"
)

// RowTask represents a scanline rendering task for the worker pool
type RowTask struct {
	Y int // Row index, 0 = top of the image
}

// RowResult contains the result from rendering a row
type RowResult struct {
	Y       int
	Samples int  // Camera rays traced for the row
	Skipped bool // The render was cancelled before the row started
}

// WorkerPool manages parallel row rendering
type WorkerPool struct {
	taskQueue   chan RowTask
	resultQueue chan RowResult
	workers     []*Worker
	numWorkers  int
	wg          sync.WaitGroup
}

// Worker renders rows into the shared frame. Rows never overlap, so
// workers write to the frame and color buffer without locking.
type Worker struct {
	ID          int
	raytracer   *Raytracer
	frame       *Frame
	linear      []core.Color
	taskQueue   chan RowTask
	resultQueue chan RowResult
}

// NewWorkerPool creates a worker pool with the specified number of workers.
// The queues are sized to hold every row so submission never blocks.
func NewWorkerPool(raytracer *Raytracer, frame *Frame, linear []core.Color, numWorkers int) *WorkerPool {
	if numWorkers <= 0 {
		numWorkers = runtime.NumCPU()
	}

	wp := &WorkerPool{
		taskQueue:   make(chan RowTask, frame.Height),
		resultQueue: make(chan RowResult, frame.Height),
		numWorkers:  numWorkers,
	}

	for i := 0; i < numWorkers; i++ {
		wp.workers = append(wp.workers, &Worker{
			ID:          i,
			raytracer:   raytracer,
			frame:       frame,
			linear:      linear,
			taskQueue:   wp.taskQueue,
			resultQueue: wp.resultQueue,
		})
	}

	return wp
}

// Start begins all workers
func (wp *WorkerPool) Start(ctx context.Context) {
	for _, worker := range wp.workers {
		wp.wg.Add(1)
		go worker.run(ctx, &wp.wg)
	}
}

// Stop waits for the workers to drain the queue and shuts the pool down
func (wp *WorkerPool) Stop() {
	close(wp.taskQueue)
	wp.wg.Wait()
	close(wp.resultQueue)
}

// SubmitTask submits a row task to the worker pool
func (wp *WorkerPool) SubmitTask(task RowTask) {
	wp.taskQueue <- task
}

// GetResult retrieves a completed row result
func (wp *WorkerPool) GetResult() (RowResult, bool) {
	result, ok := <-wp.resultQueue
	return result, ok
}

// GetNumWorkers returns the number of workers in the pool
func (wp *WorkerPool) GetNumWorkers() int {
	return wp.numWorkers
}

// run is the main worker loop
func (w *Worker) run(ctx context.Context, wg *sync.WaitGroup) {
	defer wg.Done()

	for task := range w.taskQueue {
		if ctx.Err() != nil {
			w.resultQueue <- RowResult{Y: task.Y, Skipped: true}
			continue
		}

		w.resultQueue <- RowResult{
			Y:       task.Y,
			Samples: w.raytracer.renderRow(task.Y, w.frame, w.linear),
		}
	}
}

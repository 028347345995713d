package resample

import (
	"sync/atomic"

	"github.com/schollz/waveseg/internal/types"
)

// Request holds every parameter that invalidates a previous resample
type Request struct {
	Samples    []int
	Count      int
	Policy     types.AmplitudeType
	MinHeight  float64
	MaxHeight  float64
	Multiplier float64
}

// Result is a finished resample tagged with the generation that asked for it
type Result struct {
	Generation uint64
	Heights    []float64
}

// Job is one prepared resample. Run is safe to call off the event loop.
type Job struct {
	Generation uint64
	req        Request
}

// Run computes the heights for the job
func (j Job) Run() Result {
	r := j.req
	return Result{
		Generation: j.Generation,
		Heights:    Resample(r.Samples, r.Count, r.Policy, r.MinHeight, r.MaxHeight, r.Multiplier),
	}
}

// Worker hands out generations so stale results can be discarded when
// parameters change before an earlier resample lands.
type Worker struct {
	generation atomic.Uint64
}

// Prepare bumps the generation and returns a job for req
func (w *Worker) Prepare(req Request) Job {
	return Job{Generation: w.generation.Add(1), req: req}
}

// Current returns the newest generation handed out
func (w *Worker) Current() uint64 {
	return w.generation.Load()
}

// Accept reports whether r belongs to the newest request
func (w *Worker) Accept(r Result) bool {
	return r.Generation == w.generation.Load()
}

// Go runs req on a new goroutine and calls deliver only if no newer request
// was prepared in the meantime.
func (w *Worker) Go(req Request, deliver func(Result)) {
	job := w.Prepare(req)
	go func() {
		res := job.Run()
		if w.Accept(res) {
			deliver(res)
		}
	}()
}

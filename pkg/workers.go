package flashfinder

import (
	"errors"
	"fmt"
)

type FrameJob struct {
	Index  int
	Frame  int
	HitIDs []int
}

type FrameResult struct {
	Index  int
	Frame  int
	Result Result
	Err    error
}

func worker(id int, hits []Hit, geom Geometry, clock Clock, params Params,
	jobs <-chan FrameJob, results chan<- FrameResult) {
	for job := range jobs {
		results <- processJob(id, hits, geom, clock, params, job)
	}
}

func processJob(id int, hits []Hit, geom Geometry, clock Clock, params Params, job FrameJob) (out FrameResult) {
	out = FrameResult{Index: job.Index, Frame: job.Frame}
	defer func() {
		if r := recover(); r != nil {
			out.Result = Result{}
			out.Err = &ErrFrame{Frame: job.Frame, Err: fmt.Errorf("worker %d recovered from panic: %v", id, r)}
		}
	}()

	if configuration.Verbosity > 1 {
		message := fmt.Sprintf("Worker %d processing frame %d", id, job.Frame)
		logger.Info(message, "workers")
	}
	out.Result, out.Err = ProcessFrame(job.Frame, hits, job.HitIDs, geom, clock, params, Result{})
	return out
}

func sendFramesToWorkers(frames []int, byFrame map[int][]int, jobs chan<- FrameJob) {
	for i, frame := range frames {
		jobs <- FrameJob{Index: i, Frame: frame, HitIDs: byFrame[frame]}
	}
	close(jobs)
}

// RunFlashFinderParallel is RunFlashFinder with frames spread over numWorkers
// goroutines. Results are merged in ascending frame order, so the output is
// the same as the sequential one.
func RunFlashFinderParallel(hits []Hit, geom Geometry, clock Clock, params Params, numWorkers int) (Result, error) {
	if err := params.Validate(); err != nil {
		return Result{}, err
	}
	if numWorkers < 1 {
		numWorkers = 1
	}

	frames, byFrame := GroupByFrame(hits)
	jobs := make(chan FrameJob, numWorkers)
	results := make(chan FrameResult, numWorkers)

	for w := 1; w <= numWorkers; w++ {
		go worker(w, hits, geom, clock, params, jobs, results)
	}
	go sendFramesToWorkers(frames, byFrame, jobs)

	perFrame := make([]FrameResult, len(frames))
	for range frames {
		r := <-results
		perFrame[r.Index] = r
	}

	res := Result{}
	var errs []error
	for _, r := range perFrame {
		if r.Err != nil {
			logger.Error(fmt.Sprintf("discarding frame %d: %v", r.Frame, r.Err))
			errs = append(errs, r.Err)
			continue
		}
		res.append(r.Result)
	}

	if configuration.Verbosity > 0 {
		message := fmt.Sprintf("Found %d flashes in %d frames using %d workers", res.Len(), len(frames), numWorkers)
		logger.Info(message, "flashfinder")
	}
	return res, errors.Join(errs...)
}

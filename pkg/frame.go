package flashfinder

import (
	"errors"
	"fmt"
	"math"

	"golang.org/x/exp/slices"
)

// GroupByFrame returns the frames present in hits in ascending order and,
// for each, the indices of its hits in input order.
func GroupByFrame(hits []Hit) ([]int, map[int][]int) {
	byFrame := make(map[int][]int)
	for i, hit := range hits {
		byFrame[hit.Frame] = append(byFrame[hit.Frame], i)
	}
	frames := make([]int, 0, len(byFrame))
	for frame := range byFrame {
		frames = append(frames, frame)
	}
	slices.Sort(frames)
	return frames, byFrame
}

func checkHit(hit Hit, geom Geometry, frameLength float64) error {
	if hit.Channel < 0 || hit.Channel >= geom.NChannels() {
		return fmt.Errorf("channel %d: %w", hit.Channel, ErrInvalidChannel)
	}
	if math.IsNaN(hit.PeakTime) || hit.PeakTime < 0 || hit.PeakTime > frameLength {
		return fmt.Errorf("peak time %v, frame length %v: %w", hit.PeakTime, frameLength, ErrTimeOutOfRange)
	}
	return nil
}

// frameHits copies the usable hits of a frame into a local slice. The second
// return value maps local indices back to indices into hits.
func frameHits(frame int, hits []Hit, hitIDs []int, geom Geometry, frameLength float64) ([]Hit, []int) {
	local := make([]Hit, 0, len(hitIDs))
	toGlobal := make([]int, 0, len(hitIDs))
	for _, id := range hitIDs {
		if err := checkHit(hits[id], geom, frameLength); err != nil {
			message := fmt.Errorf("frame %d, skipping hit %d: %w", frame, id, err)
			logger.Error(message.Error())
			continue
		}
		local = append(local, hits[id])
		toGlobal = append(toGlobal, id)
	}
	return local, toGlobal
}

// FindFlashes runs binning, assignment, refinement and construction over the
// hits of one frame. Associations index into hits.
func FindFlashes(frame int, hits []Hit, hitIDs []int, geom Geometry, clock Clock, params Params) (Result, error) {
	frameLength := clock.PartitionLength()
	local, toGlobal := frameHits(frame, hits, hitIDs, geom, frameLength)

	accums := FillAccumulators(local, frameLength, params)
	hitsPerFlash := AssignHitsToFlash(accums, local, params.FlashThreshold)

	refinedHitsPerFlash := make([][]int, 0, len(hitsPerFlash))
	for _, hitsThisFlash := range hitsPerFlash {
		refined := RefineHitsInFlash(hitsThisFlash, local, params.WidthTolerance, params.FlashThreshold)
		refinedHitsPerFlash = append(refinedHitsPerFlash, refined...)
	}

	res := Result{
		Flashes: make([]Flash, 0, len(refinedHitsPerFlash)),
		Assocs:  make([][]int, 0, len(refinedHitsPerFlash)),
	}
	for _, refined := range refinedHitsPerFlash {
		flash, err := ConstructFlash(refined, local, geom, clock, frame, params.TrigCoincidence)
		if err != nil {
			return Result{}, &ErrFrame{Frame: frame, Err: err}
		}
		assoc := make([]int, len(refined))
		for i, localID := range refined {
			assoc[i] = toGlobal[localID]
		}
		res.Flashes = append(res.Flashes, flash)
		res.Assocs = append(res.Assocs, assoc)
	}
	return res, nil
}

// ProcessFrame finds the flashes of one frame, appends them to res and removes
// the ones explained as late light of an earlier flash of the same frame.
func ProcessFrame(frame int, hits []Hit, hitIDs []int, geom Geometry, clock Clock, params Params, res Result) (Result, error) {
	found, err := FindFlashes(frame, hits, hitIDs, geom, clock, params)
	if err != nil {
		return res, err
	}
	begin := res.Len()
	res.append(found)
	res = RemoveLateLight(res, begin, params)

	if configuration.Verbosity > 1 {
		message := fmt.Sprintf("Frame %d: %d hits, %d flashes", frame, len(hitIDs), res.Len()-begin)
		logger.Info(message, "frame")
	}
	return res, nil
}

// RunFlashFinder clusters hits into flashes frame by frame, in ascending frame
// order. Associations index into hits. A frame that fails is dropped and its
// error is returned joined with the others once every frame has been tried.
func RunFlashFinder(hits []Hit, geom Geometry, clock Clock, params Params) (Result, error) {
	if err := params.Validate(); err != nil {
		return Result{}, err
	}

	frames, byFrame := GroupByFrame(hits)
	res := Result{}
	var errs []error
	for _, frame := range frames {
		var err error
		res, err = ProcessFrame(frame, hits, byFrame[frame], geom, clock, params, res)
		if err != nil {
			logger.Error(fmt.Sprintf("discarding frame %d: %v", frame, err))
			errs = append(errs, err)
		}
	}

	if configuration.Verbosity > 0 {
		message := fmt.Sprintf("Found %d flashes in %d frames", res.Len(), len(frames))
		logger.Info(message, "flashfinder")
	}
	return res, errors.Join(errs...)
}

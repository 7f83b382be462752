package flashfinder

import (
	"fmt"
	"math"

	"golang.org/x/exp/slices"
)

// refinedFlash is the collection grown from one seed. hits holds the
// caller's keys, seed first.
type refinedFlash struct {
	hits    []int
	pe      float64
	minTime float64
	maxTime float64
}

func (r *refinedFlash) seed(key int, hit Hit) {
	r.hits = append(r.hits[:0], key)
	r.pe = hit.PE
	r.minTime = hit.PeakTime - 0.5*hit.Width
	r.maxTime = hit.PeakTime + 0.5*hit.Width
}

// tryAdd adds hit when it overlaps the flash window within tolerance.
func (r *refinedFlash) tryAdd(key int, hit Hit, tolerance float64) bool {
	hitHalfWidth := 0.5 * hit.Width
	flashTime := 0.5 * (r.maxTime + r.minTime)
	flashHalfWidth := 0.5 * (r.maxTime - r.minTime)

	if math.Abs(hit.PeakTime-flashTime) > tolerance*(hitHalfWidth+flashHalfWidth) {
		return false
	}

	r.hits = append(r.hits, key)
	r.maxTime = max(r.maxTime, hit.PeakTime+hitHalfWidth)
	r.minTime = min(r.minTime, hit.PeakTime-hitHalfWidth)
	r.pe += hit.PE
	return true
}

// rankBySize returns the hit ids ordered by PE, largest first, ties by id.
func rankBySize(hitIDs []int, hits []Hit) []int {
	ranked := slices.Clone(hitIDs)
	slices.SortStableFunc(ranked, func(a, b int) int {
		switch {
		case hits[a].PE > hits[b].PE:
			return -1
		case hits[a].PE < hits[b].PE:
			return 1
		}
		return a - b
	})
	return ranked
}

// RefineHitsInFlash splits one provisional flash into flashes whose hits
// overlap in time within their widths:
//  1. seed with the biggest unused hit
//  2. collect every unused hit overlapping the current window
//  3. widen the window and collect again until nothing is added
//  4. keep the collection if it reaches threshold, otherwise release all
//     hits but the seed, and start over
func RefineHitsInFlash(hitsThisFlash []int, hits []Hit, widthTolerance float64, flashThreshold float64) [][]int {
	ranked := rankBySize(hitsThisFlash, hits)
	// used is indexed by rank, flash.hits holds ranks
	used := make([]bool, len(ranked))
	refined := make([][]int, 0)

	var flash refinedFlash
	for {
		seed := slices.Index(used, false)
		if seed == -1 {
			break
		}
		flash.seed(seed, hits[ranked[seed]])
		used[seed] = true

		for grown := true; grown; {
			grown = false
			for k, hitID := range ranked {
				if used[k] {
					continue
				}
				if flash.tryAdd(k, hits[hitID], widthTolerance) {
					used[k] = true
					grown = true
				}
			}
		}

		if flash.pe >= flashThreshold {
			hitIDs := make([]int, len(flash.hits))
			for i, k := range flash.hits {
				hitIDs[i] = ranked[k]
			}
			refined = append(refined, hitIDs)
			continue
		}
		// A lone seed below threshold is dropped for good; otherwise the
		// other hits may still seed or join a later flash.
		for _, k := range flash.hits[1:] {
			used[k] = false
		}
	}

	if configuration.Verbosity > 2 {
		message := fmt.Sprintf("Provisional flash with %d hits refined into %d flashes", len(hitsThisFlash), len(refined))
		logger.Info(message, "refine")
	}
	return refined
}

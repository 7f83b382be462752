package flashfinder

import (
	"fmt"

	"golang.org/x/exp/slices"
)

type flashCandidate struct {
	accumulator int
	bin         int
	pe          float64
}

// sortCandidates orders the threshold crossing bins of all accumulators by
// binned PE, largest first. Ties keep accumulator order, then the order in
// which the bins crossed threshold.
func sortCandidates(accums [2]*Accumulator) []flashCandidate {
	candidates := make([]flashCandidate, 0, len(accums[0].Flashes)+len(accums[1].Flashes))
	for a, acc := range accums {
		for _, bin := range acc.Flashes {
			candidates = append(candidates, flashCandidate{accumulator: a, bin: bin, pe: acc.Binned[bin]})
		}
	}
	slices.SortStableFunc(candidates, func(x, y flashCandidate) int {
		switch {
		case x.pe > y.pe:
			return -1
		case x.pe < y.pe:
			return 1
		}
		return 0
	})
	return candidates
}

// AssignHitsToFlash walks the candidate bins from largest to smallest and
// lets each claim its still unclaimed hits. A candidate whose unclaimed hits
// no longer reach threshold is dropped and its hits stay available.
func AssignHitsToFlash(accums [2]*Accumulator, hits []Hit, flashThreshold float64) [][]int {
	claimedBy := make([]int, len(hits))
	for i := range claimedBy {
		claimedBy[i] = -1
	}

	hitsPerFlash := make([][]int, 0)
	for _, candidate := range sortCandidates(accums) {
		contributors := accums[candidate.accumulator].Contributors[candidate.bin]

		hitsThisFlash := make([]int, 0, len(contributors))
		pe := 0.0
		for _, hitIndex := range contributors {
			if claimedBy[hitIndex] == -1 {
				hitsThisFlash = append(hitsThisFlash, hitIndex)
				pe += hits[hitIndex].PE
			}
		}
		if len(hitsThisFlash) == 0 || pe < flashThreshold {
			continue
		}

		hitsPerFlash = append(hitsPerFlash, hitsThisFlash)
		for _, hitIndex := range hitsThisFlash {
			claimedBy[hitIndex] = len(hitsPerFlash) - 1
		}
	}

	if configuration.Verbosity > 2 {
		message := fmt.Sprintf("Provisional flashes: %d from %d candidates", len(hitsPerFlash), len(accums[0].Flashes)+len(accums[1].Flashes))
		logger.Info(message, "assign")
	}
	return hitsPerFlash
}

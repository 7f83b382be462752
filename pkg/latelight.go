package flashfinder

import (
	"fmt"
	"math"

	"golang.org/x/exp/slices"
)

// notComparable is the late light score of a pair in the wrong time order.
const notComparable = 1e6

// LateLightScore is the significance, in sigmas, of flash j over the slow
// scintillation tail expected from flash i.
func LateLightScore(iPE, iTime, iWidth, jPE, jTime, jWidth float64, decayConstant float64) float64 {
	if iTime > jTime {
		return notComparable
	}
	hypPE := iPE * jWidth / iWidth * math.Exp(-(jTime-iTime)/decayConstant)
	return (jPE - hypPE) / math.Sqrt(hypPE)
}

// sortByTime stably sorts flashes by time and permutes assocs the same way.
func sortByTime(flashes []Flash, assocs [][]int) {
	order := make([]int, len(flashes))
	for i := range order {
		order[i] = i
	}
	slices.SortStableFunc(order, func(a, b int) int {
		switch {
		case flashes[a].Time < flashes[b].Time:
			return -1
		case flashes[a].Time > flashes[b].Time:
			return 1
		}
		return 0
	})

	sortedFlashes := make([]Flash, len(flashes))
	sortedAssocs := make([][]int, len(assocs))
	for i, from := range order {
		sortedFlashes[i] = flashes[from]
		sortedAssocs[i] = assocs[from]
	}
	copy(flashes, sortedFlashes)
	copy(assocs, sortedAssocs)
}

// MarkFlashesForRemoval flags every flash that is within cutoff sigmas of the
// late light of an earlier flash. Flashes must be sorted by time.
func MarkFlashesForRemoval(flashes []Flash, params Params) []bool {
	marked := make([]bool, len(flashes))
	for i := range flashes {
		iPE := flashes[i].TotalPE()
		for j := i + 1; j < len(flashes); j++ {
			if marked[j] {
				continue
			}
			score := LateLightScore(iPE, flashes[i].Time, flashes[i].TimeWidth,
				flashes[j].TotalPE(), flashes[j].Time, flashes[j].TimeWidth, params.DecayConstant)
			if score < params.SignificanceCutoff {
				marked[j] = true
			}
		}
	}
	return marked
}

// RemoveLateLight drops the flashes from begin onwards that look like late
// light of an earlier flash in the same range, together with their
// associations. Flashes before begin belong to other frames and are not
// touched; the range from begin is left sorted by time.
func RemoveLateLight(res Result, begin int, params Params) Result {
	flashes := res.Flashes[begin:]
	assocs := res.Assocs[begin:]
	sortByTime(flashes, assocs)

	marked := MarkFlashesForRemoval(flashes, params)

	kept := 0
	for i := range flashes {
		if marked[i] {
			continue
		}
		flashes[kept] = flashes[i]
		assocs[kept] = assocs[i]
		kept++
	}

	if configuration.Verbosity > 1 {
		message := fmt.Sprintf("Removed %d late light flashes out of %d", len(flashes)-kept, len(flashes))
		logger.Info(message, "latelight")
	}
	return Result{
		Flashes: res.Flashes[:begin+kept],
		Assocs:  res.Assocs[:begin+kept],
	}
}

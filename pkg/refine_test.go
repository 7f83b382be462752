package flashfinder

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRefineTwoHitsSameTime(t *testing.T) {
	hits := []Hit{
		newHit(0, 10, 5, 0.2),
		newHit(1, 10, 6, 0.2),
	}
	refined := RefineHitsInFlash([]int{0, 1}, hits, 0.5, 10)
	assert.Equal(t, [][]int{{1, 0}}, refined, "seeded by the larger hit")
}

func TestRefineSingleHitBelowThreshold(t *testing.T) {
	hits := []Hit{newHit(0, 10, 3, 0.2)}
	assert.Empty(t, RefineHitsInFlash([]int{0}, hits, 0.5, 10))
}

func TestRefineSeparatedHits(t *testing.T) {
	hits := []Hit{
		newHit(0, 10, 12, 0.1),
		newHit(1, 10.8, 12, 0.1),
	}
	refined := RefineHitsInFlash([]int{0, 1}, hits, 0.5, 10)
	assert.Equal(t, [][]int{{0}, {1}}, refined)
}

func TestRefineGrowsWindow(t *testing.T) {
	// Hit 2 is tried first but only overlaps once hit 1 has widened the
	// window, so it joins on the second pass.
	hits := []Hit{
		newHit(0, 10.0, 8, 0.2),
		newHit(1, 10.2, 2, 0.2),
		newHit(2, 10.38, 4, 0.2),
	}
	refined := RefineHitsInFlash([]int{0, 1, 2}, hits, 1, 10)
	assert.Equal(t, [][]int{{0, 1, 2}}, refined)
}

func TestRefineReleasesHitsOfFailedFlash(t *testing.T) {
	// Hit 0 grows with hit 1 but stays below threshold, so hit 1 is
	// released. Hits 2 and 3 commit; hit 1 alone then fails.
	hits := []Hit{
		newHit(0, 10.0, 7, 0.2),
		newHit(1, 10.2, 2, 0.2),
		newHit(2, 20.0, 6, 0.2),
		newHit(3, 20.1, 5, 0.2),
	}
	refined := RefineHitsInFlash([]int{0, 1, 2, 3}, hits, 1, 10)
	assert.Equal(t, [][]int{{2, 3}}, refined)
}

func TestRefineTieBreakByIndex(t *testing.T) {
	hits := []Hit{
		newHit(0, 10, 5, 0.2),
		newHit(1, 10, 5, 0.2),
		newHit(2, 10, 5, 0.2),
	}
	assert.Equal(t, []int{0, 1, 2}, rankBySize([]int{2, 0, 1}, hits))

	refined := RefineHitsInFlash([]int{2, 1, 0}, hits, 0.5, 10)
	assert.Equal(t, [][]int{{0, 1, 2}}, refined)
}

func TestRefineKeepsOnlyInputHits(t *testing.T) {
	hits := []Hit{
		newHit(0, 10, 20, 0.2),
		newHit(1, 10, 20, 0.2),
		newHit(2, 10, 20, 0.2),
	}
	refined := RefineHitsInFlash([]int{2}, hits, 0.5, 10)
	assert.Equal(t, [][]int{{2}}, refined)
}

func TestRefinedFlashTryAdd(t *testing.T) {
	var flash refinedFlash
	flash.seed(0, newHit(0, 10, 5, 1))
	assert.Equal(t, 9.5, flash.minTime)
	assert.Equal(t, 10.5, flash.maxTime)

	assert.False(t, flash.tryAdd(1, newHit(1, 11.5, 1, 1), 1))
	assert.True(t, flash.tryAdd(1, newHit(1, 11, 1, 1), 1))
	assert.Equal(t, 11.5, flash.maxTime)
	assert.Equal(t, 6.0, flash.pe)
	assert.Equal(t, []int{0, 1}, flash.hits)
}

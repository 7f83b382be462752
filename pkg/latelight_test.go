package flashfinder

import (
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testFlash(time float64, pe float64, width float64) Flash {
	return Flash{Time: time, TimeWidth: width, PEs: []float64{pe}}
}

// afterglowParams gives a 100 PE flash an expected tail of 6 PE two µs later.
func afterglowParams() Params {
	params := DefaultParams()
	params.DecayConstant = 2 / math.Log(100.0/6.0)
	return params
}

func TestLateLightScore(t *testing.T) {
	params := afterglowParams()
	score := LateLightScore(100, 0, 1, 5, 2, 1, params.DecayConstant)
	assert.InDelta(t, (5-6)/math.Sqrt(6), score, 1e-9)

	assert.Equal(t, notComparable, LateLightScore(100, 3, 1, 5, 2, 1, params.DecayConstant))
}

func TestRemoveLateLightAfterglow(t *testing.T) {
	res := Result{
		Flashes: []Flash{testFlash(2, 5, 1), testFlash(0, 100, 1)},
		Assocs:  [][]int{{7}, {3, 4}},
	}
	res = RemoveLateLight(res, 0, afterglowParams())

	require.Equal(t, 1, res.Len())
	assert.Equal(t, 0.0, res.Flashes[0].Time)
	assert.Equal(t, [][]int{{3, 4}}, res.Assocs)
}

func TestRemoveLateLightKeepsSignificantFlash(t *testing.T) {
	res := Result{
		Flashes: []Flash{testFlash(0, 100, 1), testFlash(2, 50, 1)},
		Assocs:  [][]int{{0}, {1}},
	}
	res = RemoveLateLight(res, 0, afterglowParams())
	assert.Equal(t, 2, res.Len())
	assert.Len(t, res.Assocs, 2)
}

func TestRemoveLateLightOnlyTouchesSuffix(t *testing.T) {
	// The first flash belongs to an earlier frame: it is neither sorted with
	// nor used to suppress the new ones.
	res := Result{
		Flashes: []Flash{
			testFlash(1, 1000, 1),
			testFlash(40, 30, 1),
			testFlash(20, 30, 1),
		},
		Assocs: [][]int{{0}, {2}, {1}},
	}
	res = RemoveLateLight(res, 1, afterglowParams())

	require.Equal(t, 3, res.Len())
	assert.Equal(t, []float64{1, 20, 40}, []float64{res.Flashes[0].Time, res.Flashes[1].Time, res.Flashes[2].Time})
	assert.Equal(t, [][]int{{0}, {1}, {2}}, res.Assocs)
}

func TestRemoveLateLightIdempotent(t *testing.T) {
	params := DefaultParams()
	flashes := []Flash{
		testFlash(5, 200, 0.5),
		testFlash(5.5, 40, 0.5),
		testFlash(6, 12, 0.3),
		testFlash(30, 15, 0.2),
		testFlash(31, 3, 0.2),
		testFlash(60, 80, 1),
	}
	assocs := make([][]int, len(flashes))
	for i := range assocs {
		assocs[i] = []int{i}
	}
	once := RemoveLateLight(Result{Flashes: flashes, Assocs: assocs}, 0, params)
	require.Equal(t, len(once.Flashes), len(once.Assocs))

	snapshot := Result{
		Flashes: append([]Flash(nil), once.Flashes...),
		Assocs:  append([][]int(nil), once.Assocs...),
	}
	twice := RemoveLateLight(once, 0, params)
	if diff := cmp.Diff(snapshot, twice); diff != "" {
		t.Errorf("second pass changed the result (-first +second):\n%s", diff)
	}
}

func TestMarkFlashesForRemoval(t *testing.T) {
	params := afterglowParams()
	flashes := []Flash{
		testFlash(0, 100, 1),
		testFlash(2, 5, 1),
		testFlash(2.1, 1, 1),
	}
	marked := MarkFlashesForRemoval(flashes, params)
	assert.Equal(t, []bool{false, true, true}, marked)
}

func TestSortByTimeCarriesAssociations(t *testing.T) {
	flashes := []Flash{testFlash(3, 1, 1), testFlash(1, 1, 1), testFlash(3, 2, 1), testFlash(2, 1, 1)}
	assocs := [][]int{{30}, {10}, {31}, {20}}
	sortByTime(flashes, assocs)

	assert.Equal(t, [][]int{{10}, {20}, {30}, {31}}, assocs, "stable for equal times")
	assert.Equal(t, 2.0, flashes[3].TotalPE())
}

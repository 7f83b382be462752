package flashfinder

import (
	"math/rand/v2"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func randomHits(nFrames int, hitsPerFrame int, nChannels int) []Hit {
	rng := rand.New(rand.NewPCG(1, 2))
	hits := make([]Hit, 0, nFrames*hitsPerFrame)
	for i := 0; i < nFrames*hitsPerFrame; i++ {
		// interleave frames so that hit order is not frame order
		frame := rng.IntN(nFrames)
		hit := newHit(rng.IntN(nChannels), rng.Float64()*100, 1+rng.Float64()*8, 0.05+rng.Float64()*0.5)
		hits = append(hits, inFrame(frame, hit)...)
	}
	return hits
}

func TestRunFlashFinderParallelMatchesSequential(t *testing.T) {
	hits := randomHits(20, 300, 8)
	geom := testGeometry(8, 3)
	params := DefaultParams()

	want, err := RunFlashFinder(hits, geom, testClock, params)
	require.NoError(t, err)
	require.NotZero(t, want.Len())

	for _, workers := range []int{0, 1, 3, 8} {
		got, err := RunFlashFinderParallel(hits, geom, testClock, params, workers)
		require.NoError(t, err)
		if diff := cmp.Diff(want, got); diff != "" {
			t.Errorf("%d workers: parallel result differs (-sequential +parallel):\n%s", workers, diff)
		}
	}
}

// panickingGeometry fails on one channel.
type panickingGeometry struct {
	*DetectorGeometry
	bad int
}

func (g panickingGeometry) Center(channel int) [3]float64 {
	if channel == g.bad {
		panic("no position for channel")
	}
	return g.DetectorGeometry.Center(channel)
}

func TestRunFlashFinderParallelRecovers(t *testing.T) {
	hits := inFrame(0, newHit(0, 10, 20, 0.2))
	hits = append(hits, inFrame(1, newHit(1, 10, 20, 0.2))...)
	hits = append(hits, inFrame(2, newHit(0, 30, 20, 0.2))...)
	geom := panickingGeometry{DetectorGeometry: testGeometry(2, 1), bad: 1}

	res, err := RunFlashFinderParallel(hits, geom, testClock, DefaultParams(), 2)
	require.Error(t, err)

	var frameErr *ErrFrame
	require.ErrorAs(t, err, &frameErr)
	assert.Equal(t, 1, frameErr.Frame)

	require.Equal(t, 2, res.Len())
	assert.Equal(t, [][]int{{0}, {2}}, res.Assocs)
	assert.Equal(t, 0, res.Flashes[0].Frame)
	assert.Equal(t, 2, res.Flashes[1].Frame)
}

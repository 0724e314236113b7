package mindshare

import (
	"math"
	"math/rand"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mindshare/pkg/errors"
)

func sumBps(bps map[uuid.UUID]int64) int64 {
	var sum int64
	for _, v := range bps {
		sum += v
	}
	return sum
}

func weightsOf(values ...float64) []Weight {
	weights := make([]Weight, len(values))
	for i, v := range values {
		weights[i] = Weight{ProjectID: uuid.New(), Value: v}
	}
	return weights
}

func TestNormalizeBps_EmptyInput(t *testing.T) {
	result, err := NormalizeBps(nil)
	require.NoError(t, err)
	assert.Empty(t, result.Bps)
	assert.False(t, result.Corrected)
}

func TestNormalizeBps_SingleProject(t *testing.T) {
	for _, value := range []float64{0, 1, 123.456, 1e9} {
		w := weightsOf(value)
		result, err := NormalizeBps(w)
		require.NoError(t, err)
		assert.Equal(t, TotalBps, result.Bps[w[0].ProjectID], "value=%f", value)
	}
}

func TestNormalizeBps_AllZero(t *testing.T) {
	w := weightsOf(0, 0, 0)
	result, err := NormalizeBps(w)
	require.NoError(t, err)

	assert.Equal(t, TotalBps, sumBps(result.Bps))
	assert.Len(t, result.Bps, 3)

	// All shares within 1 bp of each other, extra unit to the first entry
	assert.Equal(t, int64(3334), result.Bps[w[0].ProjectID])
	assert.Equal(t, int64(3333), result.Bps[w[1].ProjectID])
	assert.Equal(t, int64(3333), result.Bps[w[2].ProjectID])
}

func TestNormalizeBps_NoRemainder(t *testing.T) {
	// Worked example 1: exact floors, no remainder to distribute
	w := weightsOf(1000, 2000, 3000, 4000)
	result, err := NormalizeBps(w)
	require.NoError(t, err)

	assert.Equal(t, int64(1000), result.Bps[w[0].ProjectID])
	assert.Equal(t, int64(2000), result.Bps[w[1].ProjectID])
	assert.Equal(t, int64(3000), result.Bps[w[2].ProjectID])
	assert.Equal(t, int64(4000), result.Bps[w[3].ProjectID])
	assert.Equal(t, TotalBps, sumBps(result.Bps))
	assert.False(t, result.Corrected)
}

func TestNormalizeBps_RemainderToLargest(t *testing.T) {
	// Worked example 2: total=3600, floors lose 3 bps, the three largest
	// values each gain one back
	w := weightsOf(100, 500, 1000, 2000)
	result, err := NormalizeBps(w)
	require.NoError(t, err)

	assert.Equal(t, int64(277), result.Bps[w[0].ProjectID])
	assert.Equal(t, int64(1389), result.Bps[w[1].ProjectID])
	assert.Equal(t, int64(2778), result.Bps[w[2].ProjectID])
	assert.Equal(t, int64(5556), result.Bps[w[3].ProjectID])
	assert.Equal(t, TotalBps, sumBps(result.Bps))
}

func TestNormalizeBps_TiedValues(t *testing.T) {
	w := weightsOf(1, 1, 1)
	result, err := NormalizeBps(w)
	require.NoError(t, err)

	// Exact per-key values depend on the id tie-break; only the
	// aggregate invariants are part of the contract for ties
	assert.Equal(t, TotalBps, sumBps(result.Bps))
	assert.Len(t, result.Bps, 3)
	for _, v := range result.Bps {
		assert.InDelta(t, 3333, float64(v), 1)
	}
}

func TestNormalizeBps_TieBreakDeterministic(t *testing.T) {
	w := weightsOf(1, 1, 1, 1, 1, 1, 1)

	first, err := NormalizeBps(w)
	require.NoError(t, err)

	// Same input in a different slice order must produce the same mapping
	shuffled := make([]Weight, len(w))
	copy(shuffled, w)
	rand.New(rand.NewSource(1)).Shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})

	second, err := NormalizeBps(shuffled)
	require.NoError(t, err)
	assert.Equal(t, first.Bps, second.Bps)
}

func TestNormalizeBps_KeySetAndNonNegativity(t *testing.T) {
	rng := rand.New(rand.NewSource(42))

	for run := 0; run < 100; run++ {
		n := 1 + rng.Intn(40)
		weights := make([]Weight, n)
		for i := range weights {
			weights[i] = Weight{ProjectID: uuid.New(), Value: rng.Float64() * 1000}
		}

		result, err := NormalizeBps(weights)
		require.NoError(t, err)

		assert.Equal(t, TotalBps, sumBps(result.Bps), "run %d", run)
		assert.Len(t, result.Bps, n, "run %d", run)
		for _, w := range weights {
			bps, ok := result.Bps[w.ProjectID]
			assert.True(t, ok, "run %d: missing key", run)
			assert.GreaterOrEqual(t, bps, int64(0), "run %d", run)
		}
	}
}

func TestNormalizeBps_WeakMonotonicity(t *testing.T) {
	rng := rand.New(rand.NewSource(7))

	for run := 0; run < 50; run++ {
		n := 2 + rng.Intn(20)
		weights := make([]Weight, n)
		for i := range weights {
			weights[i] = Weight{ProjectID: uuid.New(), Value: rng.Float64() * 100}
		}

		result, err := NormalizeBps(weights)
		require.NoError(t, err)

		for i := 0; i < n; i++ {
			for j := 0; j < n; j++ {
				if weights[i].Value > weights[j].Value {
					assert.GreaterOrEqual(t,
						result.Bps[weights[i].ProjectID],
						result.Bps[weights[j].ProjectID],
						"run %d: higher value got fewer bps", run)
				}
			}
		}
	}
}

func TestNormalizeBps_NegativeValueFailsFast(t *testing.T) {
	w := weightsOf(10, -1)
	_, err := NormalizeBps(w)
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrNegativeAttention))
}

func TestNormalizeBps_NonFiniteValueFailsFast(t *testing.T) {
	for _, bad := range []float64{math.NaN(), math.Inf(1), math.Inf(-1)} {
		w := weightsOf(10, bad)
		_, err := NormalizeBps(w)
		require.Error(t, err)
		assert.True(t, errors.Is(err, errors.ErrInvalidInput))
	}
}

func TestNormalizeBps_TinyAndHugeValues(t *testing.T) {
	w := weightsOf(1e-12, 1e12)
	result, err := NormalizeBps(w)
	require.NoError(t, err)
	assert.Equal(t, TotalBps, sumBps(result.Bps))
	assert.Equal(t, TotalBps, result.Bps[w[1].ProjectID])
	assert.Equal(t, int64(0), result.Bps[w[0].ProjectID])
}

func TestReconcile_RepairsShortSum(t *testing.T) {
	w := weightsOf(1, 2, 3)
	bps := map[uuid.UUID]int64{
		w[0].ProjectID: 1666,
		w[1].ProjectID: 3333,
		w[2].ProjectID: 5000,
	}

	corrected := reconcile(w, bps)

	assert.True(t, corrected)
	assert.Equal(t, TotalBps, sumBps(bps))
	// The missing bp lands on the last entry in input order
	assert.Equal(t, int64(5001), bps[w[2].ProjectID])
}

func TestReconcile_ExactSumUntouched(t *testing.T) {
	w := weightsOf(1, 1)
	bps := map[uuid.UUID]int64{
		w[0].ProjectID: 5000,
		w[1].ProjectID: 5000,
	}

	corrected := reconcile(w, bps)

	assert.False(t, corrected)
	assert.Equal(t, int64(5000), bps[w[0].ProjectID])
	assert.Equal(t, int64(5000), bps[w[1].ProjectID])
}

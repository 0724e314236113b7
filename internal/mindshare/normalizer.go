package mindshare

import (
	"math"
	"sort"

	"github.com/google/uuid"

	"mindshare/pkg/errors"
)

// Weight is one project's raw attention value, in caller-supplied order.
// The normalizer takes an ordered slice rather than a map because the
// remainder tie-breaks must be deterministic and reproducible across runs.
type Weight struct {
	ProjectID uuid.UUID
	Value     float64
}

// NormalizeResult carries the allocation plus whether the post-sum
// correction had to fire (it never should; a firing correction indicates
// an arithmetic bug worth alerting on).
type NormalizeResult struct {
	Bps       map[uuid.UUID]int64
	Corrected bool
}

// NormalizeBps converts non-negative attention values into an integer
// basis-points allocation that sums to exactly TotalBps (10000).
//
// Tie-break rules, chosen explicitly since the legacy implementations
// relied on runtime iteration order:
//   - all-zero inputs split evenly, remainder bps going to the first
//     entries in input order;
//   - positive totals floor each proportional share, remainder bps going
//     one each to the largest values, equal values ordered by ascending
//     project id.
//
// Negative, NaN or infinite values violate the scorer contract and fail
// fast instead of being coerced.
func NormalizeBps(weights []Weight) (NormalizeResult, error) {
	result := NormalizeResult{Bps: make(map[uuid.UUID]int64, len(weights))}

	if len(weights) == 0 {
		return result, nil
	}

	var total float64
	for _, w := range weights {
		if math.IsNaN(w.Value) || math.IsInf(w.Value, 0) {
			return NormalizeResult{}, errors.Wrapf(errors.ErrInvalidInput,
				"attention value for %s is not finite", w.ProjectID)
		}
		if w.Value < 0 {
			return NormalizeResult{}, errors.Wrapf(errors.ErrNegativeAttention,
				"project %s has value %f", w.ProjectID, w.Value)
		}
		total += w.Value
	}

	if total == 0 {
		normalizeEven(weights, result.Bps)
	} else {
		normalizeProportional(weights, total, result.Bps)
	}

	result.Corrected = reconcile(weights, result.Bps)

	return result, nil
}

// reconcile re-checks the allocation sum. A float edge case slipping
// through the rounding math would corrupt every downstream consumer, so a
// mismatch is force-corrected on the last entry in input order. Returns
// whether a correction was applied.
func reconcile(weights []Weight, out map[uuid.UUID]int64) bool {
	var sum int64
	for _, v := range out {
		sum += v
	}
	if sum == TotalBps {
		return false
	}

	last := weights[len(weights)-1].ProjectID
	out[last] += TotalBps - sum
	return true
}

// normalizeEven handles the all-zero total: every project gets the same
// base share, with the leftover bps handed to the earliest entries in
// input order.
func normalizeEven(weights []Weight, out map[uuid.UUID]int64) {
	n := int64(len(weights))
	base := TotalBps / n
	remainder := TotalBps - base*n

	for i, w := range weights {
		bps := base
		if int64(i) < remainder {
			bps++
		}
		out[w.ProjectID] = bps
	}
}

// normalizeProportional floors each proportional share and then walks the
// projects in descending value order, topping up one bp each until the
// flooring loss is repaid. Giving the rounding benefit to the largest
// holders keeps the distortion invisible relative to their share.
func normalizeProportional(weights []Weight, total float64, out map[uuid.UUID]int64) {
	var allocated int64
	for _, w := range weights {
		bps := int64(math.Floor(w.Value / total * float64(TotalBps)))
		out[w.ProjectID] = bps
		allocated += bps
	}

	remainder := TotalBps - allocated
	if remainder <= 0 {
		return
	}

	ranked := make([]Weight, len(weights))
	copy(ranked, weights)
	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].Value != ranked[j].Value {
			return ranked[i].Value > ranked[j].Value
		}
		return ranked[i].ProjectID.String() < ranked[j].ProjectID.String()
	})

	for i := int64(0); i < remainder && i < int64(len(ranked)); i++ {
		out[ranked[i].ProjectID]++
	}
}

package cost_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/cottontaildb/queryengine/cost"
)

// TestToScoreMonotonic checks §8's cost-monotonicity property: raising
// any one dimension of a Cost never lowers its score under a policy with
// non-negative weights.
func TestToScoreMonotonic(t *testing.T) {
	require := require.New(t)
	p := cost.DefaultPolicy()

	base := cost.Cost{IO: 10, CPU: 5, Memory: 2, Accuracy: 0.1}
	bumped := cost.Cost{IO: 11, CPU: 5, Memory: 2, Accuracy: 0.1}

	require.GreaterOrEqual(p.ToScore(bumped), p.ToScore(base))
}

// TestInvalidScoresToInfinity checks the Invalid sentinel always loses
// any comparison, regardless of policy weights.
func TestInvalidScoresToInfinity(t *testing.T) {
	require := require.New(t)
	p := cost.DefaultPolicy()

	require.True(p.Less(cost.Zero, cost.Invalid))
	require.False(p.Less(cost.Invalid, cost.Zero))
}

// TestEstimateWorkersNoSpeedupStaysSerial checks that a subtree with no
// parallelisable CPU cost is never split.
func TestEstimateWorkersNoSpeedupStaysSerial(t *testing.T) {
	require := require.New(t)
	p := cost.DefaultPolicy()

	require.Equal(1, p.EstimateWorkers(cost.Cost{}, cost.Cost{}))
}

// TestEstimateWorkersBounded checks the estimator never exceeds
// MaxWorkers even for an arbitrarily large, fully-parallelisable cost.
func TestEstimateWorkersBounded(t *testing.T) {
	require := require.New(t)
	p := cost.DefaultPolicy()
	p.MaxWorkers = 4
	p.NonParallelisableIO = 0
	p.SpeedupPerWorker = 0

	big := cost.Cost{IO: 1_000_000, CPU: 1_000_000}
	require.LessOrEqual(p.EstimateWorkers(big, big), p.MaxWorkers)
}

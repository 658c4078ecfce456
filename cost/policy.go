package cost

import "math"

// Policy carries the weights used to turn a Cost vector into a scalar
// score, plus the parameters of the parallelisation estimator. Values are
// typically loaded from YAML configuration (see config.go) rather than
// hard-coded.
type Policy struct {
	WeightIO       float64 `yaml:"weight_io"`
	WeightCPU      float64 `yaml:"weight_cpu"`
	WeightMemory   float64 `yaml:"weight_memory"`
	WeightAccuracy float64 `yaml:"weight_accuracy"`

	// SpeedupPerWorker is the minimum marginal speedup (in [0,1]) a worker
	// must still add for tryPartition to keep adding workers.
	SpeedupPerWorker float64 `yaml:"speedup_per_worker"`
	// NonParallelisableIO is the fraction of the parallelisable cost cp
	// that EstimateWorkers treats as serial; it scales every cost
	// dimension of cp, not only I/O.
	NonParallelisableIO float64 `yaml:"non_parallelisable_io"`
	// MaxWorkers bounds the search in EstimateWorkers (pmax).
	MaxWorkers int `yaml:"max_workers"`
}

// DefaultPolicy mirrors the teacher's "sensible defaults when config is
// absent" convention.
func DefaultPolicy() Policy {
	return Policy{
		WeightIO:            1.0,
		WeightCPU:            1.0,
		WeightMemory:         0.1,
		WeightAccuracy:       100.0,
		SpeedupPerWorker:     0.05,
		NonParallelisableIO:  0.1,
		MaxWorkers:           8,
	}
}

// ToScore computes Σ wi·ci, the scalar used to compare two plans.
func (p Policy) ToScore(c Cost) float64 {
	if c.IsInvalid() {
		return math.Inf(1)
	}
	return p.WeightIO*c.IO + p.WeightCPU*c.CPU + p.WeightMemory*c.Memory + p.WeightAccuracy*c.Accuracy
}

// Less reports whether a is a strictly cheaper plan than b under this
// policy.
func (p Policy) Less(a, b Cost) bool {
	return p.ToScore(a) < p.ToScore(b)
}

// EstimateWorkers computes the Amdahl-style optimal degree of parallelism
// for a subtree whose parallelisable portion is cp and whose total cost is
// ct. It walks p = 2..pmax and returns the largest p whose marginal
// speedup over p-1 workers is still >= SpeedupPerWorker. Includes an
// overhead term of 1% of the parallel share of cp per worker. Returns 1
// when cp.CPU < 1 or
// pmax <= 2.
func (p Policy) EstimateWorkers(cp, ct Cost) int {
	pmax := p.MaxWorkers
	if pmax <= 2 || cp.CPU < 1 {
		return 1
	}

	serial := ct.Sub(cp).Add(cp.Scale(p.NonParallelisableIO))
	parallelisable := cp.Scale(1 - p.NonParallelisableIO)

	speedup := func(workers int) float64 {
		overhead := parallelisable.Scale(0.01 * float64(workers))
		total := serial.Add(parallelisable.Scale(1 / float64(workers))).Add(overhead)
		base := serial.Add(parallelisable)
		if p.ToScore(total) <= 0 {
			return 1
		}
		return p.ToScore(base) / p.ToScore(total)
	}

	best := 1
	prevSpeedup := 1.0
	for workers := 2; workers <= pmax; workers++ {
		s := speedup(workers)
		marginal := s - prevSpeedup
		if marginal < p.SpeedupPerWorker {
			break
		}
		best = workers
		prevSpeedup = s
	}
	return best
}

// Sub returns the element-wise difference c - o.
func (c Cost) Sub(o Cost) Cost {
	return Cost{c.IO - o.IO, c.CPU - o.CPU, c.Memory - o.Memory, c.Accuracy - o.Accuracy}
}

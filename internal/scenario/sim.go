package scenario

import (
	"fmt"
	"slices"

	"go.uber.org/zap"
)

// Stats summarises total damage over repeated runs.
type Stats struct {
	Runs int
	Mean float64
	Min  int
	Max  int
	// P68 and P95 are the damage reached or beaten in 68% and 95% of runs.
	P68 int
	P95 int
}

func (s Stats) String() string {
	return fmt.Sprintf("runs=%d mean=%.1f min=%d max=%d 68th=%d 95th=%d", s.Runs, s.Mean, s.Min, s.Max, s.P68, s.P95)
}

// Simulate plays the scenario n times on consecutive seeds starting at seed
// and totals the damage dealt in each. Only the first run logs.
func (s *Scenario) Simulate(n int, seed int64, logger *zap.Logger) (Stats, error) {
	if n <= 0 {
		return Stats{}, fmt.Errorf("simulate: run count must be positive, got %d", n)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	totals := make([]int, 0, n)
	for i := 0; i < n; i++ {
		l := logger
		if i > 0 {
			l = zap.NewNop()
		}
		res := s.Run(seed+int64(i), l)
		totals = append(totals, res.Log.DamageDealt())
	}
	return summarise(totals), nil
}

func summarise(totals []int) Stats {
	slices.Sort(totals)
	sum := 0
	for _, v := range totals {
		sum += v
	}
	return Stats{
		Runs: len(totals),
		Mean: float64(sum) / float64(len(totals)),
		Min:  totals[0],
		Max:  totals[len(totals)-1],
		P68:  percentile(totals, 0.68),
		P95:  percentile(totals, 0.95),
	}
}

// percentile returns the value reached or beaten by fraction p of sorted.
func percentile(sorted []int, p float64) int {
	return sorted[int((1-p)*float64(len(sorted)))]
}

package mlp

import "math"

// monitor implements the stability stopping criterion: training stops once
// the tracked objective has gone `patience` consecutive epochs without
// improving on the best value by more than a relative threshold.
type monitor struct {
	patience  int
	threshold float64

	best      float64
	sinceBest int
}

func newMonitor(patience int, threshold float64) *monitor {
	return &monitor{patience: patience, threshold: threshold, best: math.Inf(1)}
}

// observe feeds one epoch's objective and reports whether it set a new
// best.
func (m *monitor) observe(value float64) (improved bool) {
	if math.IsInf(m.best, 1) || value < m.best-m.threshold*math.Abs(m.best) {
		m.best = value
		m.sinceBest = 0
		return true
	}
	m.sinceBest++
	return false
}

// stable reports whether the patience budget is exhausted.
func (m *monitor) stable() bool {
	return m.patience > 0 && m.sinceBest >= m.patience
}

package mlp

import (
	"fmt"
	"math/rand"
)

// Matrix is a dense row-major float32 matrix. All estimator data is cast to
// float32 on the way in, matching the backend's parameter precision.
type Matrix struct {
	Rows, Cols int
	Data       []float32
}

// MatrixFromRows copies a [][]float64 into a Matrix, casting to float32.
// Every row must have the same width.
func MatrixFromRows(rows [][]float64) (*Matrix, error) {
	if len(rows) == 0 {
		return &Matrix{}, nil
	}
	cols := len(rows[0])
	m := &Matrix{Rows: len(rows), Cols: cols, Data: make([]float32, len(rows)*cols)}
	for i, row := range rows {
		if len(row) != cols {
			return nil, fmt.Errorf("sknn: row %d has %d values, want %d", i, len(row), cols)
		}
		for j, v := range row {
			m.Data[i*cols+j] = float32(v)
		}
	}
	return m, nil
}

// Row returns a view of row i.
func (m *Matrix) Row(i int) []float32 {
	return m.Data[i*m.Cols : (i+1)*m.Cols]
}

// Gather copies the given rows, in order, into a new matrix.
func (m *Matrix) Gather(idx []int) *Matrix {
	out := &Matrix{Rows: len(idx), Cols: m.Cols, Data: make([]float32, len(idx)*m.Cols)}
	for i, r := range idx {
		copy(out.Data[i*m.Cols:(i+1)*m.Cols], m.Row(r))
	}
	return out
}

// Rows64 converts back to a [][]float64, one slice per row.
func (m *Matrix) Rows64() [][]float64 {
	out := make([][]float64, m.Rows)
	for i := 0; i < m.Rows; i++ {
		row := make([]float64, m.Cols)
		for j, v := range m.Row(i) {
			row[j] = float64(v)
		}
		out[i] = row
	}
	return out
}

// SplitValid carves the last fraction of the (shuffled) data off as a
// validation set. The shuffle uses the estimator's seeded source so splits
// are reproducible.
func SplitValid(x, y *Matrix, frac float64, rng *rand.Rand) (trainX, trainY, validX, validY *Matrix) {
	n := x.Rows
	nValid := int(float64(n) * frac)
	if nValid < 1 || nValid >= n {
		return x, y, nil, nil
	}
	perm := rng.Perm(n)
	trainIdx, validIdx := perm[:n-nValid], perm[n-nValid:]
	return x.Gather(trainIdx), y.Gather(trainIdx), x.Gather(validIdx), y.Gather(validIdx)
}

// batchIndices cuts a permutation of row indices into minibatches.
func batchIndices(perm []int, size int) [][]int {
	var out [][]int
	for start := 0; start < len(perm); start += size {
		end := start + size
		if end > len(perm) {
			end = len(perm)
		}
		out = append(out, perm[start:end])
	}
	return out
}

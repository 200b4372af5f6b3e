// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package sknn

import (
	"fmt"
	"sort"
)

// LabelBinarizer maps string labels to one-hot rows and back. Its only
// state is the ordered class vocabulary, which makes it trivially
// serializable alongside the estimator.
//
// Unlike binarizers that collapse two classes into a single column, every
// class always gets its own column; InverseTransform is a plain argmax.
type LabelBinarizer struct {
	classes []string
	index   map[string]int
}

// FitLabels builds a binarizer from the labels seen in y. Classes are
// sorted lexicographically.
func FitLabels(y []string) *LabelBinarizer {
	seen := map[string]struct{}{}
	for _, label := range y {
		seen[label] = struct{}{}
	}
	classes := make([]string, 0, len(seen))
	for label := range seen {
		classes = append(classes, label)
	}
	sort.Strings(classes)
	return NewLabelBinarizer(classes)
}

// NewLabelBinarizer builds a binarizer over an explicit class list, kept in
// the order given.
func NewLabelBinarizer(classes []string) *LabelBinarizer {
	index := make(map[string]int, len(classes))
	for i, c := range classes {
		index[c] = i
	}
	return &LabelBinarizer{classes: append([]string(nil), classes...), index: index}
}

// Classes returns the class vocabulary in column order.
func (b *LabelBinarizer) Classes() []string {
	return append([]string(nil), b.classes...)
}

// Transform converts labels to one-hot rows. Labels outside the fitted
// vocabulary are an error.
func (b *LabelBinarizer) Transform(y []string) ([][]float64, error) {
	out := make([][]float64, len(y))
	for i, label := range y {
		col, ok := b.index[label]
		if !ok {
			return nil, fmt.Errorf("sknn: label %q was not seen during fit", label)
		}
		row := make([]float64, len(b.classes))
		row[col] = 1
		out[i] = row
	}
	return out, nil
}

// InverseTransform maps score rows back to labels by argmax.
func (b *LabelBinarizer) InverseTransform(scores [][]float64) ([]string, error) {
	out := make([]string, len(scores))
	for i, row := range scores {
		if len(row) != len(b.classes) {
			return nil, fmt.Errorf("sknn: score row has %d columns, want %d", len(row), len(b.classes))
		}
		best := 0
		for j := 1; j < len(row); j++ {
			if row[j] > row[best] {
				best = j
			}
		}
		out[i] = b.classes[best]
	}
	return out, nil
}

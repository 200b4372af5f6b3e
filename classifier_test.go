// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package sknn_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/born-ml/sknn"
)

func classifierLayers() []sknn.Layer {
	return []sknn.Layer{
		{Kind: sknn.Rectifier, Units: 8},
		{Kind: sknn.Softmax},
	}
}

// catDogData is a trivially separable two-class problem: cats live near 0,
// dogs near 1.
func catDogData() ([][]float64, []string) {
	return [][]float64{
			{0.0}, {0.1}, {0.05}, {0.15}, {0.02},
			{1.0}, {0.9}, {0.95}, {0.85}, {0.98},
		}, []string{
			"cat", "cat", "cat", "cat", "cat",
			"dog", "dog", "dog", "dog", "dog",
		}
}

func fitCatDog(t *testing.T) *sknn.Classifier {
	t.Helper()
	clf, err := sknn.NewClassifier(classifierLayers(), sknn.Config{
		LearningRule: sknn.Momentum,
		LearningRate: 0.1,
		Iterations:   200,
		Seed:         3,
	})
	require.NoError(t, err)
	x, y := catDogData()
	require.NoError(t, clf.Fit(x, y))
	return clf
}

func TestClassifier_LearnsCatDog(t *testing.T) {
	clf := fitCatDog(t)
	x, y := catDogData()

	pred, err := clf.Predict(x)
	require.NoError(t, err)
	assert.Equal(t, y, pred)
}

func TestClassifier_ClassesSorted(t *testing.T) {
	clf := fitCatDog(t)
	assert.Equal(t, []string{"cat", "dog"}, clf.Classes())
}

func TestClassifier_ClassesNilBeforeFit(t *testing.T) {
	clf, err := sknn.NewClassifier(classifierLayers(), sknn.Config{})
	require.NoError(t, err)
	assert.Nil(t, clf.Classes())
}

func TestClassifier_ProbaRowsSumToOne(t *testing.T) {
	clf := fitCatDog(t)

	proba, err := clf.PredictProba([][]float64{{0.0}, {0.5}, {1.0}})
	require.NoError(t, err)
	require.Len(t, proba, 3)
	for _, row := range proba {
		require.Len(t, row, 2)
		var sum float64
		for _, v := range row {
			assert.GreaterOrEqual(t, v, 0.0)
			sum += v
		}
		assert.InDelta(t, 1.0, sum, 1e-6)
	}
}

func TestClassifier_OutputUnitsFollowClasses(t *testing.T) {
	clf := fitCatDog(t)
	layers := clf.Layers()
	assert.Equal(t, 2, layers[len(layers)-1].Units)
}

func TestClassifier_RepeatedFitContinuesTraining(t *testing.T) {
	clf := fitCatDog(t)
	x, y := catDogData()

	require.NoError(t, clf.Fit(x, y))
	assert.Equal(t, []string{"cat", "dog"}, clf.Classes())

	pred, err := clf.Predict(x)
	require.NoError(t, err)
	assert.Equal(t, y, pred)
}

func TestClassifier_RefitClassCountMustMatch(t *testing.T) {
	clf := fitCatDog(t)

	err := clf.Fit([][]float64{{0}, {0.5}, {1}}, []string{"a", "b", "c"})
	assert.Error(t, err)
	// The failed call leaves the fitted label set untouched.
	assert.Equal(t, []string{"cat", "dog"}, clf.Classes())
}

func TestClassifier_PartialFitNeedsClasses(t *testing.T) {
	clf, err := sknn.NewClassifier(classifierLayers(), sknn.Config{Iterations: 1, Seed: 1})
	require.NoError(t, err)

	x, y := catDogData()
	assert.Error(t, clf.PartialFit(x, y, nil))

	require.NoError(t, clf.PartialFit(x, y, []string{"cat", "dog", "fox"}))
	assert.Equal(t, []string{"cat", "dog", "fox"}, clf.Classes())
}

func TestClassifier_PartialFitRejectsUnseenLabel(t *testing.T) {
	clf := fitCatDog(t)
	err := clf.PartialFit([][]float64{{0.5}}, []string{"fox"}, nil)
	assert.Error(t, err)
}

func TestClassifier_PredictBeforeFit(t *testing.T) {
	clf, err := sknn.NewClassifier(classifierLayers(), sknn.Config{})
	require.NoError(t, err)
	_, err = clf.Predict([][]float64{{0.5}})
	assert.ErrorIs(t, err, sknn.ErrNotInitialized)
}

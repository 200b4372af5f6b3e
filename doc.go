// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package sknn provides scikit-learn style estimators backed by the Born
// deep-learning framework.
//
// The package exposes two facades, Regressor and Classifier, that hide the
// tensor and autodiff machinery behind a fit/predict contract operating on
// plain float64 matrices and string labels:
//
//	clf, err := sknn.NewClassifier([]sknn.Layer{
//	    {Kind: sknn.Rectifier, Units: 64},
//	    {Kind: sknn.Softmax},
//	}, sknn.Config{LearningRule: sknn.Momentum, Iterations: 25})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if err := clf.Fit(X, labels); err != nil {
//	    log.Fatal(err)
//	}
//	predicted, err := clf.Predict(Xtest)
//
// Networks are described declaratively as a list of Layer values: zero or
// more hidden layers (Rectifier, Sigmoid, Tanh, Maxout, Convolution)
// followed by exactly one output layer (Linear, Softmax, Gaussian). Weight
// initialization, minibatch training with early stopping, and persistence to
// Born's native .born format are handled by the estimators; Born itself owns
// the tensors, automatic differentiation, and layer math.
//
// Training is single-threaded and blocking. Estimators are not safe for
// concurrent use.
package sknn

package mlp

import (
	"fmt"
	"time"

	"github.com/born-ml/born/autodiff"
	"github.com/born-ml/born/nn"
	bornoptim "github.com/born-ml/born/optim"
	"github.com/born-ml/born/tensor"

	skoptim "github.com/born-ml/sknn/internal/optim"
)

// Trainer drives minibatch gradient descent over a Network. It owns the
// optimizer matching the configured learning rule and the stability monitor
// that decides when training has converged. Epoch counts accumulate across
// Train calls so incremental fitting keeps one continuous history.
type Trainer[B tensor.Backend] struct {
	net   *Network[B]
	cfg   Config
	opt   bornoptim.Optimizer
	mon   *monitor
	loss  *nn.MSELoss[*autodiff.Backend[B]]
	epoch int
}

// Report summarizes one Train call.
type Report struct {
	Epochs     int     // epochs run by this call
	Best       float64 // best monitored objective so far
	StopReason string  // "stable" or "iterations"
}

// NewTrainer builds the optimizer for the configured learning rule. The
// config must already be defaulted and validated.
func NewTrainer[B tensor.Backend](net *Network[B], cfg Config) (*Trainer[B], error) {
	backend := net.backend
	params := net.Parameters()
	lr := float32(cfg.LearningRate)

	var opt bornoptim.Optimizer
	switch cfg.LearningRule {
	case SGD:
		opt = bornoptim.NewSGD(params, bornoptim.SGDConfig{LR: lr}, backend)
	case Momentum:
		opt = bornoptim.NewSGD(params, bornoptim.SGDConfig{
			LR:       lr,
			Momentum: float32(cfg.LearningMomentum),
		}, backend)
	case Nesterov:
		opt = skoptim.NewNesterov(params, skoptim.NesterovConfig{
			LR:       lr,
			Momentum: float32(cfg.LearningMomentum),
		}, backend)
	case RMSProp:
		opt = skoptim.NewRMSProp(params, skoptim.RMSPropConfig{LR: lr}, backend)
	case AdaDelta:
		opt = skoptim.NewAdaDelta(params, skoptim.AdaDeltaConfig{}, backend)
	case Adam:
		opt = bornoptim.NewAdam(params, bornoptim.AdamConfig{LR: lr}, backend)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownLearningRule, cfg.LearningRule)
	}

	return &Trainer[B]{
		net:  net,
		cfg:  cfg,
		opt:  opt,
		mon:  newMonitor(cfg.Stable, cfg.StableThreshold),
		loss: nn.NewMSELoss(backend),
	}, nil
}

// Train runs up to maxEpochs training epochs (non-positive means the
// configured Iterations, and with that unset, until the monitor reports
// stability). When a validation set is given its objective feeds the
// monitor; otherwise the average training objective does.
func (t *Trainer[B]) Train(trainX, trainY, validX, validY *Matrix) (*Report, error) {
	return t.train(trainX, trainY, validX, validY, t.cfg.Iterations)
}

// TrainEpochs is Train with an explicit epoch budget, used for incremental
// fitting.
func (t *Trainer[B]) TrainEpochs(trainX, trainY, validX, validY *Matrix, epochs int) (*Report, error) {
	return t.train(trainX, trainY, validX, validY, epochs)
}

func (t *Trainer[B]) train(trainX, trainY, validX, validY *Matrix, maxEpochs int) (*Report, error) {
	if trainX.Rows != trainY.Rows {
		return nil, fmt.Errorf("%w: %d inputs, %d targets", ErrSampleMismatch, trainX.Rows, trainY.Rows)
	}
	if trainX.Rows == 0 {
		return nil, fmt.Errorf("sknn: training set is empty")
	}
	if maxEpochs <= 0 && t.cfg.Stable <= 0 {
		return nil, fmt.Errorf("sknn: neither Iterations nor Stable is set, training would not terminate")
	}

	backend := t.net.backend
	tape := backend.Tape()
	t.net.SetTraining(true)
	defer t.net.SetTraining(false)
	defer tape.Clear()

	report := &Report{StopReason: "stable"}
	rng := t.net.Rand()
	for {
		if maxEpochs > 0 && report.Epochs >= maxEpochs {
			report.StopReason = "iterations"
			break
		}

		start := time.Now()
		perm := rng.Perm(trainX.Rows)
		var lossSum float64
		for _, batch := range batchIndices(perm, t.cfg.BatchSize) {
			mean, err := t.step(trainX.Gather(batch), trainY.Gather(batch))
			if err != nil {
				return nil, err
			}
			lossSum += mean * float64(len(batch))
		}
		trainLoss := lossSum / float64(trainX.Rows)

		objective := trainLoss
		haveValid := validX != nil && validX.Rows > 0
		var validLoss float64
		if haveValid {
			var err error
			validLoss, err = t.Objective(validX, validY)
			if err != nil {
				return nil, err
			}
			objective = validLoss
			t.net.SetTraining(true)
		}

		improved := t.mon.observe(objective)
		t.epoch++
		report.Epochs++
		report.Best = t.mon.best

		if t.cfg.Verbose {
			attrs := []any{
				"epoch", t.epoch,
				"train_error", trainLoss,
				"valid_error", "N/A",
				"duration", time.Since(start).Round(time.Millisecond),
				"best", improved,
			}
			if haveValid {
				attrs[5] = validLoss
			}
			logger.Info("training epoch finished", attrs...)
		}

		if t.mon.stable() {
			break
		}
	}

	if t.cfg.Verbose {
		logger.Info("training finished",
			"epochs", t.epoch, "best_error", report.Best, "reason", report.StopReason)
	}
	return report, nil
}

// step runs one minibatch: forward on the tape, mean-squared-error
// objective, backpropagation, and a parameter update. Returns the batch's
// mean squared error.
func (t *Trainer[B]) step(bx, by *Matrix) (float64, error) {
	backend := t.net.backend
	tape := backend.Tape()

	in, err := tensor.FromSlice(bx.Data, tensor.Shape{bx.Rows, bx.Cols}, backend)
	if err != nil {
		return 0, fmt.Errorf("sknn: batch input: %w", err)
	}
	target, err := tensor.FromSlice(by.Data, tensor.Shape{by.Rows, by.Cols}, backend)
	if err != nil {
		return 0, fmt.Errorf("sknn: batch target: %w", err)
	}

	t.opt.ZeroGrad()
	tape.StartRecording()

	pred := t.net.Forward(in)
	diff := pred.Sub(target)
	squared := diff.Mul(diff)

	data := squared.Raw().AsFloat32()
	var sum float64
	for _, v := range data {
		sum += float64(v)
	}
	mean := sum / float64(len(data))

	// Seed backpropagation at the squared difference, the last recorded
	// operation: d(mean)/d(squared) is 1/N everywhere, and the multiply's
	// backward contributes the factor 2*diff.
	seed, err := tensor.NewRaw(squared.Shape(), tensor.Float32, backend.Device())
	if err != nil {
		return 0, fmt.Errorf("sknn: backward seed: %w", err)
	}
	inv := float32(1 / float64(len(data)))
	seedData := seed.AsFloat32()
	for i := range seedData {
		seedData[i] = inv
	}

	grads := tape.Backward(seed, backend)
	t.opt.Step(grads)
	tape.Clear()
	tape.StopRecording()

	return mean, nil
}

// Objective computes the mean squared error of the network on a data set,
// with dropout disabled and the gradient tape stopped.
func (t *Trainer[B]) Objective(x, y *Matrix) (float64, error) {
	if x.Rows != y.Rows {
		return 0, fmt.Errorf("%w: %d inputs, %d targets", ErrSampleMismatch, x.Rows, y.Rows)
	}
	backend := t.net.backend
	t.net.SetTraining(false)

	tape := backend.Tape()
	wasRecording := tape.IsRecording()
	tape.StopRecording()
	defer func() {
		if wasRecording {
			tape.StartRecording()
		}
	}()

	in, err := tensor.FromSlice(x.Data, tensor.Shape{x.Rows, x.Cols}, backend)
	if err != nil {
		return 0, fmt.Errorf("sknn: objective input: %w", err)
	}
	target, err := tensor.FromSlice(y.Data, tensor.Shape{y.Rows, y.Cols}, backend)
	if err != nil {
		return 0, fmt.Errorf("sknn: objective target: %w", err)
	}
	loss := t.loss.Forward(t.net.Forward(in), target)
	return float64(loss.Raw().AsFloat32()[0]), nil
}

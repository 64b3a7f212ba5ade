package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"math/rand"

	"github.com/born-ml/minigrad/internal/nn"
	"github.com/born-ml/minigrad/internal/optim"
	"github.com/born-ml/minigrad/internal/serialization"
	"github.com/born-ml/minigrad/internal/tensor"
)

// xorInputs and xorLabels are the four XOR samples.
var (
	xorInputs = [][]float64{{0, 0}, {0, 1}, {1, 0}, {1, 1}}
	xorLabels = []float64{0, 1, 1, 0}
)

// trainConfig holds the train subcommand flags.
type trainConfig struct {
	epochs      int
	lr          float64
	momentum    float64
	optimizer   string
	hidden      int
	activation  string
	seed        int64
	logEvery    int
	save        string
	load        string
	safetensors string
}

// trainResult summarizes a training run.
type trainResult struct {
	StartEpoch  int
	FirstLoss   float64
	FinalLoss   float64
	Predictions []float64
}

func parseTrainFlags(args []string, output io.Writer) (trainConfig, error) {
	var cfg trainConfig
	fs := flag.NewFlagSet("train", flag.ContinueOnError)
	fs.SetOutput(output)
	fs.IntVar(&cfg.epochs, "epochs", 2000, "Number of training epochs")
	fs.Float64Var(&cfg.lr, "lr", 0.05, "Learning rate")
	fs.Float64Var(&cfg.momentum, "momentum", 0.9, "Momentum factor for SGD")
	fs.StringVar(&cfg.optimizer, "optimizer", "adam", "Optimizer: sgd or adam")
	fs.IntVar(&cfg.hidden, "hidden", 4, "Hidden layer width")
	fs.StringVar(&cfg.activation, "activation", "sigmoid", "Hidden activation: sigmoid or relu")
	fs.Int64Var(&cfg.seed, "seed", 1, "Random seed for weight initialization")
	fs.IntVar(&cfg.logEvery, "log-every", 200, "Log the loss every N epochs (0 = never)")
	fs.StringVar(&cfg.save, "save", "", "Write a checkpoint to this path after training")
	fs.StringVar(&cfg.load, "load", "", "Resume from a checkpoint at this path")
	fs.StringVar(&cfg.safetensors, "safetensors", "", "Export trained weights as SafeTensors to this path")

	if err := fs.Parse(args); err != nil {
		return cfg, err
	}

	switch {
	case cfg.epochs < 1:
		return cfg, fmt.Errorf("-epochs must be positive, got %d", cfg.epochs)
	case cfg.hidden < 1:
		return cfg, fmt.Errorf("-hidden must be positive, got %d", cfg.hidden)
	case cfg.lr <= 0:
		return cfg, fmt.Errorf("-lr must be positive, got %g", cfg.lr)
	case cfg.optimizer != "sgd" && cfg.optimizer != "adam":
		return cfg, fmt.Errorf("-optimizer must be sgd or adam, got %q", cfg.optimizer)
	case cfg.activation != "sigmoid" && cfg.activation != "relu":
		return cfg, fmt.Errorf("-activation must be sigmoid or relu, got %q", cfg.activation)
	}
	return cfg, nil
}

func runTrain(args []string, out io.Writer) (*trainResult, error) {
	cfg, err := parseTrainFlags(args, out)
	if errors.Is(err, flag.ErrHelp) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return train(cfg, out)
}

// newModel builds the 2-hidden-1 classifier.
func newModel(cfg trainConfig) *nn.Sequential {
	//nolint:gosec // Seeded math/rand for reproducible initialization
	rng := rand.New(rand.NewSource(cfg.seed))

	var act nn.Module = nn.NewSigmoid()
	if cfg.activation == "relu" {
		act = nn.NewReLU()
	}

	return nn.NewSequential(
		nn.NewLinear(2, cfg.hidden, true, rng),
		act,
		nn.NewLinear(cfg.hidden, 1, true, rng),
		nn.NewSigmoid(),
	)
}

// optimizer is what the training loop and checkpoints need.
type optimizer interface {
	optim.Optimizer
	nn.OptimizerState
}

func newOptimizer(cfg trainConfig, model nn.Module) optimizer {
	params := nn.Learnable(model)
	if cfg.optimizer == "sgd" {
		return optim.NewSGD(params, optim.SGDConfig{LR: cfg.lr, Momentum: cfg.momentum})
	}
	return optim.NewAdam(params, optim.AdamConfig{LR: cfg.lr})
}

func train(cfg trainConfig, out io.Writer) (*trainResult, error) {
	model := newModel(cfg)
	opt := newOptimizer(cfg, model)
	res := &trainResult{}

	if cfg.load != "" {
		ckpt, err := nn.LoadCheckpoint(cfg.load, model, opt)
		if err != nil {
			return nil, err
		}
		res.StartEpoch = ckpt.Epoch
		log.Printf("resumed from %s at epoch %d (loss=%.4f)", cfg.load, ckpt.Epoch, ckpt.Loss)
	}

	inputs := make([]*tensor.Array, len(xorInputs))
	labels := make([]*tensor.Array, len(xorLabels))
	for i := range xorInputs {
		inputs[i] = tensor.MustNew(xorInputs[i])
		labels[i] = tensor.MustNew([]float64{xorLabels[i]})
	}

	var bce nn.BCELoss
	for epoch := 1; epoch <= cfg.epochs; epoch++ {
		var total float64
		for i := range inputs {
			opt.ZeroGrad()
			pred, err := model.Forward(inputs[i])
			if err != nil {
				return nil, err
			}
			loss, err := bce.Forward(pred, labels[i])
			if err != nil {
				return nil, fmt.Errorf("epoch %d: %w", res.StartEpoch+epoch, err)
			}
			loss.Backward()
			opt.Step()
			total += loss.Value()
		}

		mean := total / float64(len(inputs))
		if epoch == 1 {
			res.FirstLoss = mean
		}
		res.FinalLoss = mean
		if cfg.logEvery > 0 && epoch%cfg.logEvery == 0 {
			log.Printf("epoch %d/%d loss=%.4f", res.StartEpoch+epoch, res.StartEpoch+cfg.epochs, mean)
		}
	}

	preds, err := nn.Predict(model, inputs)
	if err != nil {
		return nil, err
	}
	for i, pred := range preds {
		p := pred.Values()[0]
		res.Predictions = append(res.Predictions, p)
		fmt.Fprintf(out, "x=%v target=%g pred=%.4f\n", xorInputs[i], xorLabels[i], p)
	}

	if cfg.save != "" {
		ckpt := &nn.Checkpoint{
			Model:     model,
			Optimizer: opt,
			Epoch:     res.StartEpoch + cfg.epochs,
			Step:      int64((res.StartEpoch + cfg.epochs) * len(inputs)),
			Loss:      res.FinalLoss,
			Metadata:  map[string]any{"task": "xor", "hidden": cfg.hidden, "activation": cfg.activation},
		}
		if err := ckpt.Save(cfg.save); err != nil {
			return nil, err
		}
		log.Printf("saved checkpoint to %s", cfg.save)
	}

	if cfg.safetensors != "" {
		meta := map[string]string{"format": "minigrad", "task": "xor"}
		if err := serialization.ExportSafeTensors(cfg.safetensors, model.StateDict(), meta); err != nil {
			return nil, err
		}
		log.Printf("exported weights to %s", cfg.safetensors)
	}

	return res, nil
}

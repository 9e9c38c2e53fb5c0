package learning

import (
	"fmt"

	"github.com/go-errors/errors"
	"gorgonia.org/gorgonia"
	"gorgonia.org/tensor"
)

const (
	// DefaultBatchSize is the mini-batch size used for fitting and prediction.
	DefaultBatchSize = 32
	// DefaultEpochs is how long the image-training command fits for.
	DefaultEpochs = 100

	convNetLearnRate = 0.05
)

// History records the four per-epoch training curves.
type History struct {
	TrainLoss []float64
	ValLoss   []float64
	TrainAcc  []float64
	ValAcc    []float64
}

// ConvNet is a small convolutional network for image classification: two
// conv/relu pairs followed by pooling, twice, then a fully connected head
// with a softmax output. The architecture, optimizer (vanilla SGD) and loss
// (categorical cross-entropy) are fixed; only the input geometry and the
// class count vary. Width and Height must be divisible by 4 to survive the
// two pooling steps.
type ConvNet struct {
	Width      int
	Height     int
	Depth      int
	ClassCount int
	// BatchSize is baked into the expression graph when the network is
	// built and must not change afterwards.
	BatchSize int

	graph   *gorgonia.ExprGraph
	x, y    *gorgonia.Node
	out     *gorgonia.Node
	cost    *gorgonia.Node
	outVal  gorgonia.Value
	costVal gorgonia.Value
	params  gorgonia.Nodes
	vm      gorgonia.VM
}

// NewConvNet builds the network for the given input geometry and class count.
func NewConvNet(width, height, depth, classes int) (*ConvNet, error) {
	if width%4 != 0 || height%4 != 0 {
		return nil, errors.Errorf("input size %dx%d is not divisible by 4", width, height)
	}
	if classes < 2 {
		return nil, errors.Errorf("need at least 2 classes, got %d", classes)
	}
	n := &ConvNet{
		Width:      width,
		Height:     height,
		Depth:      depth,
		ClassCount: classes,
		BatchSize:  DefaultBatchSize,
	}
	if err := n.build(); err != nil {
		return nil, err
	}
	return n, nil
}

func (n *ConvNet) build() error {
	bs := n.BatchSize
	g := gorgonia.NewGraph()
	x := gorgonia.NewTensor(g, tensor.Float32, 4, gorgonia.WithShape(bs, n.Depth, n.Height, n.Width), gorgonia.WithName("x"))
	y := gorgonia.NewMatrix(g, tensor.Float32, gorgonia.WithShape(bs, n.ClassCount), gorgonia.WithName("y"))

	w0 := gorgonia.NewTensor(g, tensor.Float32, 4, gorgonia.WithShape(32, n.Depth, 3, 3), gorgonia.WithName("w0"), gorgonia.WithInit(gorgonia.GlorotN(1.0)))
	w1 := gorgonia.NewTensor(g, tensor.Float32, 4, gorgonia.WithShape(32, 32, 3, 3), gorgonia.WithName("w1"), gorgonia.WithInit(gorgonia.GlorotN(1.0)))
	w2 := gorgonia.NewTensor(g, tensor.Float32, 4, gorgonia.WithShape(64, 32, 3, 3), gorgonia.WithName("w2"), gorgonia.WithInit(gorgonia.GlorotN(1.0)))
	w3 := gorgonia.NewTensor(g, tensor.Float32, 4, gorgonia.WithShape(64, 64, 3, 3), gorgonia.WithName("w3"), gorgonia.WithInit(gorgonia.GlorotN(1.0)))
	flat := 64 * (n.Height / 4) * (n.Width / 4)
	w4 := gorgonia.NewMatrix(g, tensor.Float32, gorgonia.WithShape(flat, 512), gorgonia.WithName("w4"), gorgonia.WithInit(gorgonia.GlorotN(1.0)))
	w5 := gorgonia.NewMatrix(g, tensor.Float32, gorgonia.WithShape(512, n.ClassCount), gorgonia.WithName("w5"), gorgonia.WithInit(gorgonia.GlorotN(1.0)))

	kernel := tensor.Shape{3, 3}
	same := []int{1, 1}
	one := []int{1, 1}
	pool := tensor.Shape{2, 2}
	noPad := []int{0, 0}
	two := []int{2, 2}

	var h *gorgonia.Node
	var err error
	if h, err = gorgonia.Conv2d(x, w0, kernel, same, one, one); err != nil {
		return errors.Wrap(err, 0)
	}
	if h, err = gorgonia.Rectify(h); err != nil {
		return errors.Wrap(err, 0)
	}
	if h, err = gorgonia.Conv2d(h, w1, kernel, same, one, one); err != nil {
		return errors.Wrap(err, 0)
	}
	if h, err = gorgonia.Rectify(h); err != nil {
		return errors.Wrap(err, 0)
	}
	if h, err = gorgonia.MaxPool2D(h, pool, noPad, two); err != nil {
		return errors.Wrap(err, 0)
	}
	if h, err = gorgonia.Conv2d(h, w2, kernel, same, one, one); err != nil {
		return errors.Wrap(err, 0)
	}
	if h, err = gorgonia.Rectify(h); err != nil {
		return errors.Wrap(err, 0)
	}
	if h, err = gorgonia.Conv2d(h, w3, kernel, same, one, one); err != nil {
		return errors.Wrap(err, 0)
	}
	if h, err = gorgonia.Rectify(h); err != nil {
		return errors.Wrap(err, 0)
	}
	if h, err = gorgonia.MaxPool2D(h, pool, noPad, two); err != nil {
		return errors.Wrap(err, 0)
	}
	if h, err = gorgonia.Reshape(h, tensor.Shape{bs, flat}); err != nil {
		return errors.Wrap(err, 0)
	}
	if h, err = gorgonia.Mul(h, w4); err != nil {
		return errors.Wrap(err, 0)
	}
	if h, err = gorgonia.Rectify(h); err != nil {
		return errors.Wrap(err, 0)
	}
	if h, err = gorgonia.Mul(h, w5); err != nil {
		return errors.Wrap(err, 0)
	}
	out, err := gorgonia.SoftMax(h)
	if err != nil {
		return errors.Wrap(err, 0)
	}
	gorgonia.Read(out, &n.outVal)

	// Categorical cross-entropy against the one-hot targets.
	logOut, err := gorgonia.Log(out)
	if err != nil {
		return errors.Wrap(err, 0)
	}
	ce, err := gorgonia.HadamardProd(logOut, y)
	if err != nil {
		return errors.Wrap(err, 0)
	}
	mean, err := gorgonia.Mean(ce)
	if err != nil {
		return errors.Wrap(err, 0)
	}
	cost, err := gorgonia.Neg(mean)
	if err != nil {
		return errors.Wrap(err, 0)
	}
	gorgonia.Read(cost, &n.costVal)

	n.params = gorgonia.Nodes{w0, w1, w2, w3, w4, w5}
	if _, err := gorgonia.Grad(cost, n.params...); err != nil {
		return errors.Wrap(err, 0)
	}

	n.graph, n.x, n.y, n.out, n.cost = g, x, y, out, cost
	n.vm = gorgonia.NewTapeMachine(g, gorgonia.BindDualValues(n.params...))
	return nil
}

// Fit trains the network for the given number of epochs and returns the
// per-epoch loss and accuracy for both the training and the validation data.
func (n *ConvNet) Fit(trainX, trainY, valX, valY [][]float32, epochs int) (*History, error) {
	if len(trainX) == 0 || len(trainX) != len(trainY) {
		return nil, errors.Errorf("bad training data: %d samples, %d targets", len(trainX), len(trainY))
	}
	solver := gorgonia.NewVanillaSolver(gorgonia.WithBatchSize(float64(n.BatchSize)), gorgonia.WithLearnRate(convNetLearnRate))
	history := &History{}
	for epoch := 0; epoch < epochs; epoch++ {
		loss, acc, err := n.runEpoch(trainX, trainY, solver)
		if err != nil {
			return nil, err
		}
		valLoss, valAcc, err := n.runEpoch(valX, valY, nil)
		if err != nil {
			return nil, err
		}
		history.TrainLoss = append(history.TrainLoss, loss)
		history.ValLoss = append(history.ValLoss, valLoss)
		history.TrainAcc = append(history.TrainAcc, acc)
		history.ValAcc = append(history.ValAcc, valAcc)
		fmt.Printf("[%3d/%d] loss: %.4f acc: %.4f val_loss: %.4f val_acc: %.4f\n",
			epoch+1, epochs, loss, acc, valLoss, valAcc)
	}
	return history, nil
}

// runEpoch pushes every sample through the network once, in mini-batches.
// The final short batch is zero-padded and the padding excluded from the
// metrics. When solver is nil no parameter update happens, which is how the
// validation pass and Predict run.
func (n *ConvNet) runEpoch(x, y [][]float32, solver gorgonia.Solver) (loss, acc float64, err error) {
	bs := n.BatchSize
	sample := n.Depth * n.Height * n.Width
	var lossSum float64
	var correct, seen int

	for start := 0; start < len(x); start += bs {
		m := len(x) - start
		if m > bs {
			m = bs
		}
		xBack := make([]float32, bs*sample)
		yBack := make([]float32, bs*n.ClassCount)
		for i := 0; i < m; i++ {
			copy(xBack[i*sample:(i+1)*sample], x[start+i])
			copy(yBack[i*n.ClassCount:(i+1)*n.ClassCount], y[start+i])
		}
		xT := tensor.New(tensor.WithShape(bs, n.Depth, n.Height, n.Width), tensor.WithBacking(xBack))
		yT := tensor.New(tensor.WithShape(bs, n.ClassCount), tensor.WithBacking(yBack))
		if err := gorgonia.Let(n.x, xT); err != nil {
			return 0, 0, errors.Wrap(err, 0)
		}
		if err := gorgonia.Let(n.y, yT); err != nil {
			return 0, 0, errors.Wrap(err, 0)
		}
		if err := n.vm.RunAll(); err != nil {
			return 0, 0, errors.Wrap(err, 0)
		}
		if solver != nil {
			if err := solver.Step(gorgonia.NodesToValueGrads(n.params)); err != nil {
				return 0, 0, errors.Wrap(err, 0)
			}
		}

		// The graph cost is a mean over every element of the padded batch;
		// scale back to a sum so padding does not dilute the epoch loss.
		lossSum += scalar(n.costVal) * float64(bs*n.ClassCount)
		probs := n.outVal.Data().([]float32)
		for i := 0; i < m; i++ {
			row := probs[i*n.ClassCount : (i+1)*n.ClassCount]
			if argmax32(row) == argmax32(y[start+i]) {
				correct++
			}
		}
		seen += m
		n.vm.Reset()
	}
	if seen == 0 {
		return 0, 0, nil
	}
	return lossSum / float64(seen), float64(correct) / float64(seen), nil
}

// Predict returns the most likely class index for each sample.
func (n *ConvNet) Predict(x [][]float32) ([]int, error) {
	bs := n.BatchSize
	sample := n.Depth * n.Height * n.Width
	pred := make([]int, 0, len(x))

	for start := 0; start < len(x); start += bs {
		m := len(x) - start
		if m > bs {
			m = bs
		}
		xBack := make([]float32, bs*sample)
		for i := 0; i < m; i++ {
			copy(xBack[i*sample:(i+1)*sample], x[start+i])
		}
		xT := tensor.New(tensor.WithShape(bs, n.Depth, n.Height, n.Width), tensor.WithBacking(xBack))
		yT := tensor.New(tensor.WithShape(bs, n.ClassCount), tensor.WithBacking(make([]float32, bs*n.ClassCount)))
		if err := gorgonia.Let(n.x, xT); err != nil {
			return nil, errors.Wrap(err, 0)
		}
		if err := gorgonia.Let(n.y, yT); err != nil {
			return nil, errors.Wrap(err, 0)
		}
		if err := n.vm.RunAll(); err != nil {
			return nil, errors.Wrap(err, 0)
		}
		probs := n.outVal.Data().([]float32)
		for i := 0; i < m; i++ {
			pred = append(pred, argmax32(probs[i*n.ClassCount:(i+1)*n.ClassCount]))
		}
		n.vm.Reset()
	}
	return pred, nil
}

// Close releases the virtual machine backing the network.
func (n *ConvNet) Close() error {
	if n.vm != nil {
		return n.vm.Close()
	}
	return nil
}

func scalar(v gorgonia.Value) float64 {
	switch d := v.Data().(type) {
	case float32:
		return float64(d)
	case float64:
		return d
	}
	return 0
}

func argmax32(v []float32) int {
	best := 0
	for i := range v {
		if v[i] > v[best] {
			best = i
		}
	}
	return best
}

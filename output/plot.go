// Package output renders training results for humans.
package output

import (
	"github.com/go-errors/errors"
	"github.com/petalml/petal/learning"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"
)

// TrainingPlot is the rendering configuration for the per-epoch training
// curves. It replaces any process-wide plotting state; everything a render
// needs is carried here and passed to a single Render call.
type TrainingPlot struct {
	Title  string
	XLabel string
	YLabel string
	Path   string
}

// DefaultTrainingPlot is the chart configuration the image-training command
// uses.
func DefaultTrainingPlot(path string) TrainingPlot {
	return TrainingPlot{
		Title:  "Training Loss and Accuracy",
		XLabel: "Epoch #",
		YLabel: "Loss/Accuracy",
		Path:   path,
	}
}

// Render writes one chart overlaying the four labeled series to Path as a
// PNG.
func (tp TrainingPlot) Render(h *learning.History) error {
	p, err := plot.New()
	if err != nil {
		return errors.Wrap(err, 0)
	}
	p.Title.Text = tp.Title
	p.X.Label.Text = tp.XLabel
	p.Y.Label.Text = tp.YLabel

	err = plotutil.AddLines(p,
		"train_loss", series(h.TrainLoss),
		"val_loss", series(h.ValLoss),
		"train_acc", series(h.TrainAcc),
		"val_acc", series(h.ValAcc))
	if err != nil {
		return errors.Wrap(err, 0)
	}
	if err := p.Save(8*vg.Inch, 6*vg.Inch, tp.Path); err != nil {
		return errors.Wrap(err, 0)
	}
	return nil
}

func series(values []float64) plotter.XYs {
	xys := make(plotter.XYs, len(values))
	for i, v := range values {
		xys[i].X = float64(i)
		xys[i].Y = v
	}
	return xys
}

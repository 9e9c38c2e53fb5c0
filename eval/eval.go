// Package eval computes classification metrics from predicted and true class
// indices.
package eval

import (
	"fmt"
	"strings"
)

// Metrics holds the scores for a single class.
type Metrics struct {
	Precision float64
	Recall    float64
	F1        float64
	Support   int
}

// ClassMetrics computes precision, recall and F1 for one class, treating that
// class as the positive label.
func ClassMetrics(yTrue, yPred []int, class int) Metrics {
	var tp, fp, fn int
	for i := range yTrue {
		switch {
		case yPred[i] == class && yTrue[i] == class:
			tp++
		case yPred[i] == class:
			fp++
		case yTrue[i] == class:
			fn++
		}
	}
	m := Metrics{Support: tp + fn}
	if tp+fp > 0 {
		m.Precision = float64(tp) / float64(tp+fp)
	}
	if tp+fn > 0 {
		m.Recall = float64(tp) / float64(tp+fn)
	}
	if m.Precision+m.Recall > 0 {
		m.F1 = 2 * m.Precision * m.Recall / (m.Precision + m.Recall)
	}
	return m
}

// Accuracy is the fraction of predictions matching the true labels.
func Accuracy(yTrue, yPred []int) float64 {
	if len(yTrue) == 0 {
		return 0
	}
	correct := 0
	for i := range yTrue {
		if yTrue[i] == yPred[i] {
			correct++
		}
	}
	return float64(correct) / float64(len(yTrue))
}

// Report renders a per-class precision/recall/F1 table keyed by class name,
// followed by overall accuracy and macro/weighted averages.
func Report(yTrue, yPred []int, names []string) string {
	if len(yTrue) == 0 || len(yTrue) != len(yPred) {
		return ""
	}

	width := len("weighted avg")
	for _, n := range names {
		if len(n) > width {
			width = len(n)
		}
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%*s  %9s %9s %9s %9s\n\n", width, "", "precision", "recall", "f1-score", "support")

	var macro Metrics
	var weightedP, weightedR, weightedF float64
	for class, name := range names {
		m := ClassMetrics(yTrue, yPred, class)
		fmt.Fprintf(&b, "%*s  %9.2f %9.2f %9.2f %9d\n", width, name, m.Precision, m.Recall, m.F1, m.Support)
		macro.Precision += m.Precision
		macro.Recall += m.Recall
		macro.F1 += m.F1
		weightedP += m.Precision * float64(m.Support)
		weightedR += m.Recall * float64(m.Support)
		weightedF += m.F1 * float64(m.Support)
	}

	n := float64(len(yTrue))
	k := float64(len(names))
	fmt.Fprintf(&b, "\n%*s  %9s %9s %9.2f %9d\n", width, "accuracy", "", "", Accuracy(yTrue, yPred), len(yTrue))
	fmt.Fprintf(&b, "%*s  %9.2f %9.2f %9.2f %9d\n", width, "macro avg", macro.Precision/k, macro.Recall/k, macro.F1/k, len(yTrue))
	fmt.Fprintf(&b, "%*s  %9.2f %9.2f %9.2f %9d\n", width, "weighted avg", weightedP/n, weightedR/n, weightedF/n, len(yTrue))
	return b.String()
}

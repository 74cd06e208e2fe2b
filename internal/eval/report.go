// Package eval scores classifier predictions and renders the run's two
// figures: a confusion-matrix heatmap and a 2-D PCA scatter of the test
// latents.
package eval

import (
	"fmt"
	"strings"
)

// ConfusionMatrix counts predictions: cm[actual][predicted].
func ConfusionMatrix(yTrue, yPred []int, classes int) ([][]int, error) {
	if len(yTrue) != len(yPred) {
		return nil, fmt.Errorf("eval: %d true labels but %d predictions", len(yTrue), len(yPred))
	}
	if classes <= 0 {
		return nil, fmt.Errorf("eval: classes must be > 0 (got %d)", classes)
	}
	cm := make([][]int, classes)
	for i := range cm {
		cm[i] = make([]int, classes)
	}
	for i := range yTrue {
		a, p := yTrue[i], yPred[i]
		if a < 0 || a >= classes {
			return nil, fmt.Errorf("eval: true label %d outside [0, %d)", a, classes)
		}
		if p < 0 || p >= classes {
			return nil, fmt.Errorf("eval: predicted label %d outside [0, %d)", p, classes)
		}
		cm[a][p]++
	}
	return cm, nil
}

// ClassMetrics holds per-class scores.
type ClassMetrics struct {
	Precision float64
	Recall    float64
	F1        float64
	Support   int
}

// Report holds the full classification report.
type Report struct {
	PerClass []ClassMetrics
	Accuracy float64

	MacroPrecision float64
	MacroRecall    float64
	MacroF1        float64
	Total          int
}

// NewReport computes precision, recall, and F1 per class plus macro
// averages from a confusion matrix. Empty classes score zero.
func NewReport(cm [][]int) *Report {
	classes := len(cm)
	r := &Report{PerClass: make([]ClassMetrics, classes)}

	correct := 0
	for c := 0; c < classes; c++ {
		tp := cm[c][c]
		support := 0
		predicted := 0
		for k := 0; k < classes; k++ {
			support += cm[c][k]
			predicted += cm[k][c]
		}
		correct += tp
		r.Total += support

		m := ClassMetrics{Support: support}
		if predicted > 0 {
			m.Precision = float64(tp) / float64(predicted)
		}
		if support > 0 {
			m.Recall = float64(tp) / float64(support)
		}
		if m.Precision+m.Recall > 0 {
			m.F1 = 2 * m.Precision * m.Recall / (m.Precision + m.Recall)
		}
		r.PerClass[c] = m

		r.MacroPrecision += m.Precision
		r.MacroRecall += m.Recall
		r.MacroF1 += m.F1
	}
	if classes > 0 {
		r.MacroPrecision /= float64(classes)
		r.MacroRecall /= float64(classes)
		r.MacroF1 /= float64(classes)
	}
	if r.Total > 0 {
		r.Accuracy = float64(correct) / float64(r.Total)
	}
	return r
}

// String renders the report in the familiar per-class column layout.
func (r *Report) String() string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%12s %10s %10s %10s %10s\n", "", "precision", "recall", "f1-score", "support"))
	sb.WriteString("\n")
	for c, m := range r.PerClass {
		sb.WriteString(fmt.Sprintf("%12d %10.2f %10.2f %10.2f %10d\n",
			c, m.Precision, m.Recall, m.F1, m.Support))
	}
	sb.WriteString("\n")
	sb.WriteString(fmt.Sprintf("%12s %10s %10s %10.2f %10d\n", "accuracy", "", "", r.Accuracy, r.Total))
	sb.WriteString(fmt.Sprintf("%12s %10.2f %10.2f %10.2f %10d\n",
		"macro avg", r.MacroPrecision, r.MacroRecall, r.MacroF1, r.Total))
	return sb.String()
}

package eval

import (
	"fmt"
	"strings"

	"gonum.org/v1/gonum/mat"
)

// Plot rendering emits standalone SVG directly; no chart library involved.

var classPalette = []string{
	"#1f77b4", "#ff7f0e", "#2ca02c", "#d62728", "#9467bd",
	"#8c564b", "#e377c2", "#7f7f7f", "#bcbd22", "#17becf",
}

func classColor(class int) string {
	return classPalette[class%len(classPalette)]
}

// RenderConfusionHeatmap renders cm as an SVG heatmap with one cell per
// (actual, predicted) pair.
func RenderConfusionHeatmap(cm [][]int) string {
	classes := len(cm)
	const cell = 64
	const margin = 70
	width := margin + classes*cell + 20
	height := margin + classes*cell + 20

	maxCount := 1
	for _, row := range cm {
		for _, v := range row {
			if v > maxCount {
				maxCount = v
			}
		}
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %d %d">`, width, height))
	sb.WriteString(`<rect width="100%" height="100%" fill="white"/>`)
	sb.WriteString(fmt.Sprintf(`<text x="%d" y="20" text-anchor="middle" font-size="14">predicted</text>`,
		margin+classes*cell/2))
	sb.WriteString(fmt.Sprintf(`<text x="16" y="%d" text-anchor="middle" font-size="14" transform="rotate(-90 16 %d)">actual</text>`,
		margin+classes*cell/2, margin+classes*cell/2))

	for a := 0; a < classes; a++ {
		for p := 0; p < classes; p++ {
			x := margin + p*cell
			y := margin + a*cell
			intensity := float64(cm[a][p]) / float64(maxCount)
			// white-to-blue ramp
			r := int(255 - 200*intensity)
			g := int(255 - 140*intensity)
			sb.WriteString(fmt.Sprintf(`<rect x="%d" y="%d" width="%d" height="%d" fill="rgb(%d,%d,255)" stroke="#999"/>`,
				x, y, cell, cell, r, g))
			textFill := "#222"
			if intensity > 0.6 {
				textFill = "#fff"
			}
			sb.WriteString(fmt.Sprintf(`<text x="%d" y="%d" text-anchor="middle" font-size="14" fill="%s">%d</text>`,
				x+cell/2, y+cell/2+5, textFill, cm[a][p]))
		}
	}
	for c := 0; c < classes; c++ {
		sb.WriteString(fmt.Sprintf(`<text x="%d" y="%d" text-anchor="middle" font-size="12">%d</text>`,
			margin+c*cell+cell/2, margin-10, c))
		sb.WriteString(fmt.Sprintf(`<text x="%d" y="%d" text-anchor="middle" font-size="12">%d</text>`,
			margin-14, margin+c*cell+cell/2+4, c))
	}
	sb.WriteString("</svg>")
	return sb.String()
}

// RenderScatter renders a 2-D projection as an SVG scatter plot with one
// color per class.
func RenderScatter(points *mat.Dense, labels []int) (string, error) {
	rows, cols := points.Dims()
	if cols != 2 {
		return "", fmt.Errorf("eval: scatter expects 2 columns (got %d)", cols)
	}
	if rows != len(labels) {
		return "", fmt.Errorf("eval: %d points but %d labels", rows, len(labels))
	}
	if rows == 0 {
		return "", fmt.Errorf("eval: no points to plot")
	}

	const width, height, margin = 520, 420, 40
	minX, maxX := points.At(0, 0), points.At(0, 0)
	minY, maxY := points.At(0, 1), points.At(0, 1)
	for i := 1; i < rows; i++ {
		x, y := points.At(i, 0), points.At(i, 1)
		if x < minX {
			minX = x
		}
		if x > maxX {
			maxX = x
		}
		if y < minY {
			minY = y
		}
		if y > maxY {
			maxY = y
		}
	}
	spanX := maxX - minX
	spanY := maxY - minY
	if spanX == 0 {
		spanX = 1
	}
	if spanY == 0 {
		spanY = 1
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %d %d">`, width, height))
	sb.WriteString(`<rect width="100%" height="100%" fill="white"/>`)
	sb.WriteString(fmt.Sprintf(`<rect x="%d" y="%d" width="%d" height="%d" fill="none" stroke="#ccc"/>`,
		margin, margin, width-2*margin, height-2*margin))

	for i := 0; i < rows; i++ {
		px := margin + (points.At(i, 0)-minX)/spanX*float64(width-2*margin)
		// SVG y grows downward
		py := float64(height-margin) - (points.At(i, 1)-minY)/spanY*float64(height-2*margin)
		sb.WriteString(fmt.Sprintf(`<circle cx="%.1f" cy="%.1f" r="3" fill="%s" fill-opacity="0.7"/>`,
			px, py, classColor(labels[i])))
	}

	seen := map[int]bool{}
	legendY := margin
	for _, label := range labels {
		if seen[label] {
			continue
		}
		seen[label] = true
	}
	for c := 0; c < len(classPalette); c++ {
		if !seen[c] {
			continue
		}
		sb.WriteString(fmt.Sprintf(`<circle cx="%d" cy="%d" r="4" fill="%s"/>`, width-margin+14, legendY, classColor(c)))
		sb.WriteString(fmt.Sprintf(`<text x="%d" y="%d" font-size="12">%d</text>`, width-margin+22, legendY+4, c))
		legendY += 18
	}
	sb.WriteString("</svg>")
	return sb.String(), nil
}

package svg

import (
	"fmt"
	"html/template"
	"math"
	"strings"
)

// HBars renders a horizontal bar chart with categories on the vertical axis.
// An empty series renders the axes only.
func HBars(width, height int, values []float64, labels []string, opts BarOpts) (template.HTML, error) {
	if len(values) != len(labels) {
		return "", fmt.Errorf("svg: values length must match labels")
	}
	if width <= 0 {
		width = DefaultWidth
	}
	if height <= 0 {
		height = DefaultHeight
	}
	padding := opts.Padding
	if padding <= 0 {
		padding = DefaultPadding
	}
	labelWidth := opts.LabelWidth
	if labelWidth <= 0 {
		labelWidth = 100
	}
	tickCount := opts.TickCount
	if tickCount <= 0 {
		tickCount = DefaultTicks
	}

	axisColor := fallback(opts.AxisColor, defaultAxisColor)
	gridColor := fallback(opts.GridColor, defaultGridColor)
	color := fallback(opts.Color, "#dc2626")

	left := padding + labelWidth
	chartWidth := float64(width) - left - padding
	chartHeight := float64(height) - 2*padding
	if chartWidth <= 0 || chartHeight <= 0 {
		return "", fmt.Errorf("svg: viewport too small")
	}

	minVal, maxVal := bounds(values)
	scale := chartWidth / (maxVal - minVal)
	zeroX := left + (0-minVal)*scale

	titleID := makeID(opts.Title, "bar-title")
	descID := makeID(opts.Title, "bar-desc")

	var b strings.Builder
	b.WriteString(fmt.Sprintf("<svg xmlns=\"http://www.w3.org/2000/svg\" viewBox=\"0 0 %d %d\" role=\"img\" aria-labelledby=\"%s %s\">", width, height, titleID, descID))
	b.WriteString(fmt.Sprintf("<title id=\"%s\">%s</title>", titleID, template.HTMLEscapeString(fallback(opts.Title, "Bar chart"))))
	b.WriteString(fmt.Sprintf("<desc id=\"%s\">%s</desc>", descID, template.HTMLEscapeString(fallback(opts.Description, "Horizontal bar comparison"))))

	chartBottom := padding + chartHeight
	for i := 0; i <= tickCount; i++ {
		ratio := float64(i) / float64(tickCount)
		value := minVal + (maxVal-minVal)*ratio
		x := left + ratio*chartWidth
		b.WriteString(fmt.Sprintf("<line x1=\"%.2f\" y1=\"%.2f\" x2=\"%.2f\" y2=\"%.2f\" stroke=\"%s\" stroke-width=\"0.5\" stroke-dasharray=\"2,4\" aria-hidden=\"true\"></line>", x, padding, x, chartBottom, gridColor))
		b.WriteString(fmt.Sprintf("<text x=\"%.2f\" y=\"%.2f\" fill=\"%s\" font-size=\"10\" text-anchor=\"middle\">%s</text>", x, chartBottom+14, axisColor, template.HTMLEscapeString(tickLabel(opts.TickFormat, value))))
	}

	// Axes
	b.WriteString(fmt.Sprintf("<g stroke=\"%s\" aria-label=\"Axes\">", axisColor))
	b.WriteString(fmt.Sprintf("<line x1=\"%.2f\" y1=\"%.2f\" x2=\"%.2f\" y2=\"%.2f\" stroke-width=\"1\"></line>", zeroX, padding, zeroX, chartBottom))
	b.WriteString(fmt.Sprintf("<line x1=\"%.2f\" y1=\"%.2f\" x2=\"%.2f\" y2=\"%.2f\" stroke-width=\"1\"></line>", left, chartBottom, left+chartWidth, chartBottom))
	b.WriteString("</g>")

	if len(labels) > 0 {
		band := chartHeight / float64(len(labels))
		barHeight := band * 0.6
		for i, label := range labels {
			top := padding + float64(i)*band
			x, w := barSpan(values[i], scale, zeroX)
			b.WriteString(fmt.Sprintf("<rect class=\"bar\" x=\"%.2f\" y=\"%.2f\" width=\"%.2f\" height=\"%.2f\" fill=\"%s\">", x, top+(band-barHeight)/2, w, barHeight, color))
			if opts.Tooltip != nil {
				tip := fmt.Sprintf("%s\n%s: %s", label, fallback(opts.SeriesLabel, "Value"), opts.Tooltip(label, values[i]))
				b.WriteString(fmt.Sprintf("<title>%s</title>", template.HTMLEscapeString(tip)))
			}
			b.WriteString("</rect>")
			b.WriteString(fmt.Sprintf("<text x=\"%.2f\" y=\"%.2f\" fill=\"%s\" font-size=\"10\" text-anchor=\"end\">%s</text>", left-6, top+band/2+3, axisColor, template.HTMLEscapeString(label)))
		}
	}

	writeLegend(&b, []Series{{Label: opts.SeriesLabel, Color: color}}, padding, axisColor)

	b.WriteString("</svg>")
	return template.HTML(b.String()), nil
}

func barSpan(value, scale, zeroX float64) (float64, float64) {
	w := math.Abs(value * scale)
	if value >= 0 {
		return zeroX, w
	}
	return zeroX - w, w
}

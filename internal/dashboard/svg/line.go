package svg

import (
	"fmt"
	"html/template"
	"strings"
)

// Line renders a single-series SVG line chart. An empty series renders the
// axes only.
func Line(width, height int, series []float64, labels []string, opts LineOpts) (template.HTML, error) {
	if len(series) != len(labels) {
		return "", fmt.Errorf("svg: labels length must match series")
	}
	stroke := fallback(opts.StrokeColor, "#dc2626")
	return LineMulti(width, height, []Series{{Label: opts.SeriesLabel, Color: stroke, Values: series}}, labels, opts)
}

// LineMulti renders several series sharing one value axis.
func LineMulti(width, height int, series []Series, labels []string, opts LineOpts) (template.HTML, error) {
	for _, s := range series {
		if len(s.Values) != len(labels) {
			return "", fmt.Errorf("svg: series %q length must match labels", s.Label)
		}
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
	tickCount := opts.TickCount
	if tickCount <= 0 {
		tickCount = DefaultTicks
	}
	axisColor := fallback(opts.AxisColor, defaultAxisColor)
	gridColor := fallback(opts.GridColor, defaultGridColor)

	chartWidth := float64(width) - 2*padding
	chartHeight := float64(height) - 2*padding
	if chartWidth <= 0 || chartHeight <= 0 {
		return "", fmt.Errorf("svg: viewport too small")
	}

	values := make([][]float64, 0, len(series))
	for _, s := range series {
		values = append(values, s.Values)
	}
	minVal, maxVal := bounds(values...)
	scale := chartHeight / (maxVal - minVal)

	step := 0.0
	if len(labels) > 1 {
		step = chartWidth / float64(len(labels)-1)
	}
	xAt := func(i int) float64 {
		if len(labels) > 1 {
			return padding + float64(i)*step
		}
		return padding + chartWidth/2
	}
	yAt := func(v float64) float64 {
		return padding + chartHeight - (v-minVal)*scale
	}

	titleID := makeID(opts.Title, "line-title")
	descID := makeID(opts.Title, "line-desc")

	var b strings.Builder
	b.WriteString(fmt.Sprintf("<svg xmlns=\"http://www.w3.org/2000/svg\" viewBox=\"0 0 %d %d\" role=\"img\" aria-labelledby=\"%s %s\">", width, height, titleID, descID))
	b.WriteString(fmt.Sprintf("<title id=\"%s\">%s</title>", titleID, template.HTMLEscapeString(fallback(opts.Title, "Line chart"))))
	b.WriteString(fmt.Sprintf("<desc id=\"%s\">%s</desc>", descID, template.HTMLEscapeString(fallback(opts.Description, "Trend data"))))

	// Grid lines and ticks
	for i := 0; i <= tickCount; i++ {
		ratio := float64(i) / float64(tickCount)
		y := padding + chartHeight - ratio*chartHeight
		value := minVal + (maxVal-minVal)*ratio
		b.WriteString(fmt.Sprintf("<line x1=\"%.2f\" y1=\"%.2f\" x2=\"%.2f\" y2=\"%.2f\" stroke=\"%s\" stroke-width=\"0.5\" stroke-dasharray=\"2,4\" aria-hidden=\"true\"></line>", padding, y, padding+chartWidth, y, gridColor))
		b.WriteString(fmt.Sprintf("<text x=\"%.2f\" y=\"%.2f\" fill=\"%s\" font-size=\"10\" text-anchor=\"end\">%s</text>", padding-6, y+4, axisColor, template.HTMLEscapeString(tickLabel(opts.TickFormat, value))))
	}

	// Axes
	b.WriteString(fmt.Sprintf("<g stroke=\"%s\" aria-label=\"Axes\">", axisColor))
	b.WriteString(fmt.Sprintf("<line x1=\"%.2f\" y1=\"%.2f\" x2=\"%.2f\" y2=\"%.2f\" stroke-width=\"1\"></line>", padding, padding, padding, padding+chartHeight))
	b.WriteString(fmt.Sprintf("<line x1=\"%.2f\" y1=\"%.2f\" x2=\"%.2f\" y2=\"%.2f\" stroke-width=\"1\"></line>", padding, padding+chartHeight, padding+chartWidth, padding+chartHeight))
	b.WriteString("</g>")

	for _, s := range series {
		if len(s.Values) == 0 {
			continue
		}
		color := fallback(s.Color, "#dc2626")
		var path strings.Builder
		for i, value := range s.Values {
			cmd := " L"
			if i == 0 {
				cmd = "M"
			}
			path.WriteString(fmt.Sprintf("%s%.2f %.2f", cmd, xAt(i), yAt(value)))
		}
		if opts.FillColor != "" && len(series) == 1 {
			base := padding + chartHeight
			area := fmt.Sprintf("%s L%.2f %.2f L%.2f %.2f Z", path.String(), xAt(len(s.Values)-1), base, xAt(0), base)
			b.WriteString(fmt.Sprintf("<path d=\"%s\" fill=\"%s\" stroke=\"none\" aria-hidden=\"true\"></path>", area, opts.FillColor))
		}
		b.WriteString(fmt.Sprintf("<path class=\"series\" d=\"%s\" fill=\"none\" stroke=\"%s\" stroke-width=\"2\" stroke-linejoin=\"round\" stroke-linecap=\"round\" aria-label=\"%s\"></path>", path.String(), color, template.HTMLEscapeString(s.Label)))

		if opts.ShowDots || opts.Tooltip != nil {
			opacity := "1"
			if !opts.ShowDots {
				opacity = "0"
			}
			for i, value := range s.Values {
				b.WriteString(fmt.Sprintf("<circle class=\"point\" cx=\"%.2f\" cy=\"%.2f\" r=\"4\" fill=\"%s\" fill-opacity=\"%s\">", xAt(i), yAt(value), color, opacity))
				if opts.Tooltip != nil {
					b.WriteString(fmt.Sprintf("<title>%s</title>", template.HTMLEscapeString(pointTitle(labels[i], s.Label, opts.Tooltip(s.Label, value)))))
				}
				b.WriteString("</circle>")
			}
		}
	}

	// X-axis labels
	for i, label := range labels {
		b.WriteString(fmt.Sprintf("<text x=\"%.2f\" y=\"%.2f\" fill=\"%s\" font-size=\"10\" text-anchor=\"middle\">%s</text>", xAt(i), padding+chartHeight+14, axisColor, template.HTMLEscapeString(label)))
	}

	writeLegend(&b, series, padding, axisColor)

	b.WriteString("</svg>")
	return template.HTML(b.String()), nil
}

func pointTitle(label, series, value string) string {
	if series != "" {
		return fmt.Sprintf("%s\n%s: %s", label, series, value)
	}
	return fmt.Sprintf("%s\n%s", label, value)
}

func writeLegend(b *strings.Builder, series []Series, padding float64, textColor string) {
	legendY := padding - 14
	if legendY < 12 {
		legendY = 12
	}
	legendX := padding
	for _, s := range series {
		if strings.TrimSpace(s.Label) == "" {
			continue
		}
		color := fallback(s.Color, "#dc2626")
		b.WriteString(fmt.Sprintf("<rect x=\"%.2f\" y=\"%.2f\" width=\"10\" height=\"10\" fill=\"%s\"></rect>", legendX, legendY-8, color))
		b.WriteString(fmt.Sprintf("<text class=\"legend\" x=\"%.2f\" y=\"%.2f\" fill=\"%s\" font-size=\"10\" text-anchor=\"start\">%s</text>", legendX+14, legendY, textColor, template.HTMLEscapeString(s.Label)))
		legendX += 24 + 6*float64(len(s.Label))
	}
}

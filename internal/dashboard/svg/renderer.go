package svg

import "html/template"

// Renderer exposes the chart functions behind the dashboard renderer interfaces.
type Renderer struct{}

// Line renders a single-series line chart.
func (Renderer) Line(width, height int, series []float64, labels []string, opts LineOpts) (template.HTML, error) {
	return Line(width, height, series, labels, opts)
}

// LineMulti renders a multi-series line chart.
func (Renderer) LineMulti(width, height int, series []Series, labels []string, opts LineOpts) (template.HTML, error) {
	return LineMulti(width, height, series, labels, opts)
}

// HBars renders a horizontal bar chart.
func (Renderer) HBars(width, height int, values []float64, labels []string, opts BarOpts) (template.HTML, error) {
	return HBars(width, height, values, labels, opts)
}

// Pie renders a pie chart.
func (Renderer) Pie(width, height int, slices []Slice, opts PieOpts) (template.HTML, error) {
	return Pie(width, height, slices, opts)
}

package svg

// TickFormatter renders an axis value as a tick label.
type TickFormatter func(value float64) string

// TooltipFormatter renders the hover text for a single mark.
type TooltipFormatter func(label string, value float64) string

// LineOpts customises the line chart renderers.
type LineOpts struct {
	Title       string
	Description string
	SeriesLabel string
	StrokeColor string
	FillColor   string
	AxisColor   string
	GridColor   string
	Padding     float64
	ShowDots    bool
	TickCount   int
	TickFormat  TickFormatter
	Tooltip     TooltipFormatter
}

// Series is one named line of a multi-series chart.
type Series struct {
	Label  string
	Color  string
	Values []float64
}

// BarOpts customises the horizontal bar renderer.
type BarOpts struct {
	Title       string
	Description string
	SeriesLabel string
	Color       string
	AxisColor   string
	GridColor   string
	Padding     float64
	LabelWidth  float64
	TickCount   int
	TickFormat  TickFormatter
	Tooltip     TooltipFormatter
}

// Slice is one segment of a pie chart.
type Slice struct {
	Label string
	Value float64
}

// PieOpts customises the pie renderer.
type PieOpts struct {
	Title       string
	Description string
	Palette     []string
	AxisColor   string
	Padding     float64
	ShowPercent bool
	Tooltip     TooltipFormatter
}

// Defaults for the dashboard charts.
const (
	DefaultWidth   = 720
	DefaultHeight  = 320
	DefaultPadding = 36.0
	DefaultTicks   = 5
)

// Dark panel defaults.
const (
	defaultAxisColor = "#9ca3af"
	defaultGridColor = "#374151"
)

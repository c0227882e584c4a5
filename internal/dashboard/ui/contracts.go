package ui

import (
	"html/template"

	"github.com/wayne-enterprises/bidash/internal/dashboard/svg"
	"github.com/wayne-enterprises/bidash/internal/feed"
)

// KPICard is one headline metric card. Value is shown exactly as received.
type KPICard struct {
	Title string
	Value string
}

// RevenuePoint is one period of the revenue trend, in millions.
type RevenuePoint struct {
	Period  string
	Revenue float64
}

// DivisionBar is one division on the profit chart, in millions.
type DivisionBar struct {
	Division string
	Profit   float64
}

// DistributionSegment is one pie segment with its palette colour.
type DistributionSegment struct {
	Name  string
	Value float64
	Color string
}

// IncidentPoint is one month of the incident comparison.
type IncidentPoint struct {
	Month   string
	Bristol float64
	ParkRow float64
}

// Narrative is the security story with its inline chart.
type Narrative struct {
	Headline  string
	Story     string
	Incidents []IncidentPoint
	ChartSVG  template.HTML
}

// Panel is a rendered chart with its heading.
type Panel struct {
	Title       string
	SVG         template.HTML
	Unavailable bool
}

// DashboardViewModel combines all dashboard data for rendering.
type DashboardViewModel struct {
	PageID            string
	Loading           bool
	KPICards          []KPICard
	Revenue           []RevenuePoint
	Divisions         []DivisionBar
	Distribution      []DistributionSegment
	Narrative         Narrative
	RevenuePanel      Panel
	DivisionPanel     Panel
	DistributionPanel Panel
}

// LineRenderer abstracts SVG line chart rendering for the dashboard.
type LineRenderer interface {
	Line(width, height int, series []float64, labels []string, opts svg.LineOpts) (template.HTML, error)
	LineMulti(width, height int, series []svg.Series, labels []string, opts svg.LineOpts) (template.HTML, error)
}

// BarRenderer abstracts SVG bar chart rendering for the dashboard.
type BarRenderer interface {
	HBars(width, height int, values []float64, labels []string, opts svg.BarOpts) (template.HTML, error)
}

// PieRenderer abstracts SVG pie chart rendering for the dashboard.
type PieRenderer interface {
	Pie(width, height int, slices []svg.Slice, opts svg.PieOpts) (template.HTML, error)
}

// Charts bundles the renderers Build draws with.
type Charts struct {
	Line LineRenderer
	Bar  BarRenderer
	Pie  PieRenderer
}

// SVGCharts returns Charts backed by the svg package.
func SVGCharts() Charts {
	r := svg.Renderer{}
	return Charts{Line: r, Bar: r, Pie: r}
}

// Options tunes Build.
type Options struct {
	// ShowPanelErrors marks panels whose feed failed as unavailable.
	ShowPanelErrors bool
}

// ToRevenuePoints converts feed data into UI points.
func ToRevenuePoints(points []feed.RevenuePoint) []RevenuePoint {
	uiPoints := make([]RevenuePoint, 0, len(points))
	for _, point := range points {
		uiPoints = append(uiPoints, RevenuePoint{Period: point.Period, Revenue: point.Revenue})
	}
	return uiPoints
}

// ToDivisionBars converts feed data into UI bars.
func ToDivisionBars(rows []feed.DivisionProfit) []DivisionBar {
	bars := make([]DivisionBar, 0, len(rows))
	for _, row := range rows {
		bars = append(bars, DivisionBar{Division: row.Division, Profit: row.Profit})
	}
	return bars
}

// ToDistributionSegments converts feed data into coloured segments.
func ToDistributionSegments(slices []feed.DistributionSlice) []DistributionSegment {
	segments := make([]DistributionSegment, 0, len(slices))
	for i, slice := range slices {
		segments = append(segments, DistributionSegment{
			Name:  slice.Name,
			Value: slice.Value,
			Color: svg.PaletteColor(svg.DefaultPalette, i),
		})
	}
	return segments
}

// ToIncidentPoints converts the narrative chart data into UI points.
func ToIncidentPoints(points []feed.IncidentPoint) []IncidentPoint {
	uiPoints := make([]IncidentPoint, 0, len(points))
	for _, point := range points {
		uiPoints = append(uiPoints, IncidentPoint{Month: point.Month, Bristol: point.Bristol, ParkRow: point.ParkRow})
	}
	return uiPoints
}

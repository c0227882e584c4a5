package ui

import (
	"errors"
	"fmt"
	"html/template"
	"strconv"

	"github.com/wayne-enterprises/bidash/internal/dashboard/svg"
	"github.com/wayne-enterprises/bidash/internal/feed"
	"github.com/wayne-enterprises/bidash/internal/pageload"
)

// Headings shown on the dashboard.
const (
	TitleTotalRevenue    = "Total Revenue (YTD)"
	TitleTotalEmployees  = "Total Employees"
	TitleSafetyScore     = "Avg. Public Safety Score"
	TitleRevenueTrend    = "Quarterly Revenue Trends"
	TitleDivisionProfit  = "Profit by Division"
	TitleDistribution    = "Employee Distribution"
	LoadingMessage       = "Loading Dashboard Data..."
	bristolLegend        = "Bristol Incidents"
	parkRowLegend        = "Park Row Incidents"
	bristolColor         = "#ef4444"
	parkRowColor         = "#a3e635"
	brandRed             = "#dc2626"
	distributionWidth    = 420
	distributionHeight   = 360
	narrativeChartHeight = 220
)

// ErrRendererMissing is returned when Build is given incomplete Charts.
var ErrRendererMissing = errors.New("ui: svg renderer missing")

// Build turns a snapshot into the dashboard view model. Until both gating
// slots are present only Loading is set.
func Build(snap pageload.Snapshot, charts Charts, opts Options) (DashboardViewModel, error) {
	vm := DashboardViewModel{PageID: snap.ID}
	if !snap.Ready() {
		vm.Loading = true
		return vm, nil
	}
	if charts.Line == nil || charts.Bar == nil || charts.Pie == nil {
		return DashboardViewModel{}, ErrRendererMissing
	}

	vm.KPICards = []KPICard{
		{Title: TitleTotalRevenue, Value: snap.KPIs.TotalRevenue.String()},
		{Title: TitleTotalEmployees, Value: snap.KPIs.TotalEmployees.String()},
		{Title: TitleSafetyScore, Value: snap.KPIs.AvgSafetyScore.String()},
	}
	vm.Revenue = ToRevenuePoints(snap.Revenue)
	vm.Divisions = ToDivisionBars(snap.Divisions)
	vm.Distribution = ToDistributionSegments(snap.Distribution)
	vm.Narrative = Narrative{
		Headline:  snap.Security.Headline,
		Story:     snap.Security.Story,
		Incidents: ToIncidentPoints(snap.Security.ChartData),
	}

	var err error
	if vm.RevenuePanel, err = revenuePanel(charts.Line, vm.Revenue); err != nil {
		return DashboardViewModel{}, fmt.Errorf("render revenue: %w", err)
	}
	if vm.DivisionPanel, err = divisionPanel(charts.Bar, vm.Divisions); err != nil {
		return DashboardViewModel{}, fmt.Errorf("render divisions: %w", err)
	}
	if vm.DistributionPanel, err = distributionPanel(charts.Pie, vm.Distribution); err != nil {
		return DashboardViewModel{}, fmt.Errorf("render distribution: %w", err)
	}
	if vm.Narrative.ChartSVG, err = narrativeChart(charts.Line, vm.Narrative); err != nil {
		return DashboardViewModel{}, fmt.Errorf("render narrative: %w", err)
	}

	if opts.ShowPanelErrors {
		vm.RevenuePanel.Unavailable = snap.Failed(feed.SlotRevenue)
		vm.DivisionPanel.Unavailable = snap.Failed(feed.SlotDivisions)
		vm.DistributionPanel.Unavailable = snap.Failed(feed.SlotDistribution)
	}
	return vm, nil
}

func revenuePanel(line LineRenderer, points []RevenuePoint) (Panel, error) {
	labels := make([]string, 0, len(points))
	values := make([]float64, 0, len(points))
	for _, point := range points {
		labels = append(labels, point.Period)
		values = append(values, point.Revenue)
	}
	out, err := line.Line(svg.DefaultWidth, svg.DefaultHeight, values, labels, svg.LineOpts{
		Title:       TitleRevenueTrend,
		Description: "Revenue per quarter in millions",
		SeriesLabel: "Revenue",
		StrokeColor: brandRed,
		ShowDots:    true,
		TickFormat:  BillionsTick,
		Tooltip:     func(_ string, v float64) string { return MillionsExact(v) },
	})
	if err != nil {
		return Panel{}, err
	}
	return Panel{Title: TitleRevenueTrend, SVG: out}, nil
}

func divisionPanel(bar BarRenderer, rows []DivisionBar) (Panel, error) {
	labels := make([]string, 0, len(rows))
	values := make([]float64, 0, len(rows))
	for _, row := range rows {
		labels = append(labels, row.Division)
		values = append(values, row.Profit)
	}
	out, err := bar.HBars(svg.DefaultWidth, svg.DefaultHeight, values, labels, svg.BarOpts{
		Title:       TitleDivisionProfit,
		Description: "Profit per division in millions",
		SeriesLabel: "Profit",
		Color:       brandRed,
		LabelWidth:  120,
		TickFormat:  MillionsTick,
		Tooltip:     func(_ string, v float64) string { return MillionsFixed(v) },
	})
	if err != nil {
		return Panel{}, err
	}
	return Panel{Title: TitleDivisionProfit, SVG: out}, nil
}

func distributionPanel(pie PieRenderer, segments []DistributionSegment) (Panel, error) {
	slices := make([]svg.Slice, 0, len(segments))
	for _, segment := range segments {
		slices = append(slices, svg.Slice{Label: segment.Name, Value: segment.Value})
	}
	out, err := pie.Pie(distributionWidth, distributionHeight, slices, svg.PieOpts{
		Title:       TitleDistribution,
		Description: "Headcount by department",
		Palette:     svg.DefaultPalette,
		ShowPercent: true,
		Tooltip:     func(_ string, v float64) string { return Employees(v) },
	})
	if err != nil {
		return Panel{}, err
	}
	return Panel{Title: TitleDistribution, SVG: out}, nil
}

func narrativeChart(line LineRenderer, n Narrative) (template.HTML, error) {
	labels := make([]string, 0, len(n.Incidents))
	bristol := make([]float64, 0, len(n.Incidents))
	parkRow := make([]float64, 0, len(n.Incidents))
	for _, point := range n.Incidents {
		labels = append(labels, point.Month)
		bristol = append(bristol, point.Bristol)
		parkRow = append(parkRow, point.ParkRow)
	}
	return line.LineMulti(svg.DefaultWidth, narrativeChartHeight, []svg.Series{
		{Label: bristolLegend, Color: bristolColor, Values: bristol},
		{Label: parkRowLegend, Color: parkRowColor, Values: parkRow},
	}, labels, svg.LineOpts{
		Title:       "Security incidents",
		Description: "Monthly incidents in Bristol and Park Row",
		ShowDots:    true,
		TickFormat:  svg.FormatNumber,
		Tooltip:     func(_ string, v float64) string { return plain(v) },
	})
}

// BillionsTick labels a value given in millions as billions, e.g. $1.5B.
func BillionsTick(v float64) string {
	return "$" + plain(v/1000) + "B"
}

// MillionsExact renders v untouched, e.g. $1234.56M.
func MillionsExact(v float64) string {
	return "$" + plain(v) + "M"
}

// MillionsTick renders v without grouping, e.g. $1500M.
func MillionsTick(v float64) string {
	return "$" + plain(v) + "M"
}

// MillionsFixed renders v with two decimals, e.g. $1250.46M.
func MillionsFixed(v float64) string {
	return fmt.Sprintf("$%.2fM", v)
}

// Employees renders a headcount tooltip.
func Employees(v float64) string {
	return plain(v) + " Employees"
}

func plain(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

package svg

import (
	"fmt"
	"html/template"
	"math"
	"strings"

	"github.com/montanaflynn/stats"
)

// DefaultPalette colours pie segments by position.
var DefaultPalette = []string{"#b91c1c", "#f87171", "#991b1b", "#ef4444", "#7f1d1d"}

// PaletteColor returns the colour for position i, cycling through palette.
func PaletteColor(palette []string, i int) string {
	if len(palette) == 0 {
		palette = DefaultPalette
	}
	return palette[i%len(palette)]
}

// Pie renders one segment per slice, even when a slice is zero.
func Pie(width, height int, slices []Slice, opts PieOpts) (template.HTML, error) {
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
	axisColor := fallback(opts.AxisColor, defaultAxisColor)

	// The pie fills width x height; legend rows extend the viewport below it.
	radius := math.Min(float64(width), float64(height))/2 - padding
	if radius <= 0 {
		return "", fmt.Errorf("svg: viewport too small")
	}
	cx := float64(width) / 2
	cy := padding + radius
	legendTop := cy + radius + 18
	legendRows := (len(slices) + 2) / 3
	viewHeight := height
	if legendRows > 0 {
		viewHeight = max(height, int(math.Ceil(legendTop+float64(legendRows-1)*16+padding)))
	}

	weights := make([]float64, len(slices))
	for i, s := range slices {
		weights[i] = math.Max(s.Value, 0)
	}
	total, err := stats.Sum(weights)
	if err != nil {
		total = 0
	}

	titleID := makeID(opts.Title, "pie-title")
	descID := makeID(opts.Title, "pie-desc")

	var b strings.Builder
	b.WriteString(fmt.Sprintf("<svg xmlns=\"http://www.w3.org/2000/svg\" viewBox=\"0 0 %d %d\" role=\"img\" aria-labelledby=\"%s %s\">", width, viewHeight, titleID, descID))
	b.WriteString(fmt.Sprintf("<title id=\"%s\">%s</title>", titleID, template.HTMLEscapeString(fallback(opts.Title, "Pie chart"))))
	b.WriteString(fmt.Sprintf("<desc id=\"%s\">%s</desc>", descID, template.HTMLEscapeString(fallback(opts.Description, "Proportional breakdown"))))

	start := -math.Pi / 2
	for i, s := range slices {
		fraction := 0.0
		if total > 0 {
			fraction = weights[i] / total
		}
		sweep := fraction * 2 * math.Pi
		color := PaletteColor(opts.Palette, i)
		b.WriteString(fmt.Sprintf("<path class=\"slice\" data-index=\"%d\" d=\"%s\" fill=\"%s\" stroke=\"#1f2937\" stroke-width=\"1\">", i, slicePath(cx, cy, radius, start, sweep), color))
		if opts.Tooltip != nil {
			b.WriteString(fmt.Sprintf("<title>%s</title>", template.HTMLEscapeString(s.Label+": "+opts.Tooltip(s.Label, s.Value))))
		}
		b.WriteString("</path>")
		if opts.ShowPercent && fraction > 0 {
			mid := start + sweep/2
			lx := cx + radius*0.65*math.Cos(mid)
			ly := cy + radius*0.65*math.Sin(mid)
			b.WriteString(fmt.Sprintf("<text class=\"percent\" x=\"%.2f\" y=\"%.2f\" fill=\"#f9fafb\" font-size=\"10\" text-anchor=\"middle\">%s</text>", lx, ly+3, formatPercent(fraction)))
		}
		start += sweep
	}

	// Legend, three entries per row below the pie.
	colWidth := float64(width) / 3
	for i, s := range slices {
		x := float64(i%3)*colWidth + 8
		y := legendTop + float64(i/3)*16
		b.WriteString(fmt.Sprintf("<rect x=\"%.2f\" y=\"%.2f\" width=\"10\" height=\"10\" fill=\"%s\"></rect>", x, y-8, PaletteColor(opts.Palette, i)))
		b.WriteString(fmt.Sprintf("<text class=\"legend\" x=\"%.2f\" y=\"%.2f\" fill=\"%s\" font-size=\"10\" text-anchor=\"start\">%s</text>", x+14, y, axisColor, template.HTMLEscapeString(s.Label)))
	}

	b.WriteString("</svg>")
	return template.HTML(b.String()), nil
}

func slicePath(cx, cy, r, start, sweep float64) string {
	if sweep <= 0 {
		return fmt.Sprintf("M%.2f %.2f Z", cx, cy)
	}
	if sweep >= 2*math.Pi-1e-9 {
		return fmt.Sprintf("M%.2f %.2f A%.2f %.2f 0 1 1 %.2f %.2f A%.2f %.2f 0 1 1 %.2f %.2f Z",
			cx, cy-r, r, r, cx, cy+r, r, r, cx, cy-r)
	}
	end := start + sweep
	x0 := cx + r*math.Cos(start)
	y0 := cy + r*math.Sin(start)
	x1 := cx + r*math.Cos(end)
	y1 := cy + r*math.Sin(end)
	large := 0
	if sweep > math.Pi {
		large = 1
	}
	return fmt.Sprintf("M%.2f %.2f L%.2f %.2f A%.2f %.2f 0 %d 1 %.2f %.2f Z", cx, cy, x0, y0, r, r, large, x1, y1)
}

func formatPercent(fraction float64) string {
	return fmt.Sprintf("%.0f%%", fraction*100)
}

package svg

import (
	"fmt"
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var sliceFill = regexp.MustCompile(`class="slice" data-index="(\d+)" d="[^"]*" fill="([^"]+)"`)

func TestPieSegmentsCyclePalette(t *testing.T) {
	for _, n := range []int{0, 1, 4, 5, 7, 12} {
		t.Run(fmt.Sprintf("n=%d", n), func(t *testing.T) {
			slices := make([]Slice, n)
			for i := range slices {
				slices[i] = Slice{Label: fmt.Sprintf("Dept %d", i), Value: float64(10 + i)}
			}
			html, err := Pie(400, 320, slices, PieOpts{Title: "Employee Distribution"})
			require.NoError(t, err)

			matches := sliceFill.FindAllStringSubmatch(string(html), -1)
			require.Len(t, matches, n)
			for i, m := range matches {
				assert.Equal(t, fmt.Sprint(i), m[1])
				assert.Equal(t, DefaultPalette[i%5], m[2])
			}
		})
	}
}

func TestPieGrowsViewportForLegend(t *testing.T) {
	slices := make([]Slice, 60)
	for i := range slices {
		slices[i] = Slice{Label: fmt.Sprintf("Dept %d", i), Value: 1}
	}
	html, err := Pie(400, 320, slices, PieOpts{})
	require.NoError(t, err)
	output := string(html)
	assert.Len(t, sliceFill.FindAllStringSubmatch(output, -1), 60)
	assert.Equal(t, 60, strings.Count(output, `class="legend"`))
	// 20 legend rows starting at y=302 below a radius-124 pie.
	assert.Contains(t, output, `viewBox="0 0 400 642"`)
}

func TestPieZeroTotalStillDrawsSegments(t *testing.T) {
	html, err := Pie(400, 320, []Slice{{Label: "A"}, {Label: "B"}}, PieOpts{ShowPercent: true})
	require.NoError(t, err)
	assert.Equal(t, 2, strings.Count(string(html), "class=\"slice\""))
	assert.NotContains(t, string(html), "class=\"percent\"")
}

func TestPiePercentLabelsAndTooltips(t *testing.T) {
	html, err := Pie(400, 320, []Slice{{Label: "R&D", Value: 75}, {Label: "HR", Value: 25}}, PieOpts{
		ShowPercent: true,
		Tooltip:     func(_ string, v float64) string { return fmt.Sprintf("%v Employees", v) },
	})
	require.NoError(t, err)
	output := string(html)
	assert.Contains(t, output, ">75%<")
	assert.Contains(t, output, ">25%<")
	assert.Contains(t, output, "R&amp;D: 75 Employees")
}

func TestPieSingleSliceIsFullCircle(t *testing.T) {
	html, err := Pie(400, 320, []Slice{{Label: "All", Value: 3}}, PieOpts{ShowPercent: true})
	require.NoError(t, err)
	assert.Contains(t, string(html), ">100%<")
	assert.Equal(t, 2, strings.Count(string(html), " A"), "full circle uses two arcs")
}

func TestPaletteColor(t *testing.T) {
	assert.Equal(t, "#b91c1c", PaletteColor(nil, 5))
	assert.Equal(t, "#7f1d1d", PaletteColor(DefaultPalette, 9))
	assert.Equal(t, "#000", PaletteColor([]string{"#000"}, 3))
}

func TestFormatNumber(t *testing.T) {
	assert.Equal(t, "1,500", FormatNumber(1500))
	assert.Equal(t, "0.3", FormatNumber(0.1+0.2))
	assert.Equal(t, "-250.5", FormatNumber(-250.5))
}

package feed

import (
	"bytes"
	"encoding/json"
	"strings"
)

// Display keeps a KPI value exactly as the backend sent it.
type Display struct {
	raw json.RawMessage
}

// NewDisplay wraps a raw JSON value.
func NewDisplay(raw string) Display {
	return Display{raw: json.RawMessage(raw)}
}

// UnmarshalJSON stores the raw token untouched.
func (d *Display) UnmarshalJSON(data []byte) error {
	d.raw = append(d.raw[:0], data...)
	return nil
}

// MarshalJSON writes the stored token back out unchanged.
func (d Display) MarshalJSON() ([]byte, error) {
	if len(d.raw) == 0 {
		return []byte("null"), nil
	}
	return d.raw, nil
}

// String renders strings without quotes and numbers as their literal text.
func (d Display) String() string {
	trimmed := bytes.TrimSpace(d.raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return ""
	}
	if trimmed[0] == '"' {
		var s string
		if err := json.Unmarshal(trimmed, &s); err == nil {
			return s
		}
	}
	return strings.TrimSpace(string(trimmed))
}

// KPIs carries the three headline metrics.
type KPIs struct {
	TotalRevenue   Display `json:"total_revenue"`
	TotalEmployees Display `json:"total_employees"`
	AvgSafetyScore Display `json:"avg_safety_score"`
}

// RevenuePoint is one period on the revenue trend, in millions.
type RevenuePoint struct {
	Period  string  `json:"Period"`
	Revenue float64 `json:"Revenue"`
}

// DivisionProfit is the profit of a single division, in millions.
type DivisionProfit struct {
	Division string  `json:"Division"`
	Profit   float64 `json:"Profit"`
}

// DistributionSlice is a department headcount.
type DistributionSlice struct {
	Name  string  `json:"name"`
	Value float64 `json:"value"`
}

// IncidentPoint holds monthly security incidents for the two focus districts.
type IncidentPoint struct {
	Month   string  `json:"Month"`
	Bristol float64 `json:"Bristol"`
	ParkRow float64 `json:"Park Row"`
}

// SecurityNarrative is the data story panel.
type SecurityNarrative struct {
	Headline  string          `json:"headline"`
	Story     string          `json:"story"`
	ChartData []IncidentPoint `json:"chart_data"`
}

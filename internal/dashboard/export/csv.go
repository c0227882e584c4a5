package export

import (
	"encoding/csv"
	"io"
	"strconv"

	"github.com/wayne-enterprises/bidash/internal/feed"
	"github.com/wayne-enterprises/bidash/internal/pageload"
)

// WriteSnapshot writes one CSV section per slot present in rec, separated by
// blank lines.
func WriteSnapshot(w io.Writer, rec pageload.Record) error {
	snap := pageload.Decode(rec)
	first := true
	for _, slot := range feed.Slots {
		if _, ok := rec.Slots[slot]; !ok {
			continue
		}
		var err error
		switch slot {
		case feed.SlotKPIs:
			if snap.KPIs == nil {
				continue
			}
			err = section(w, &first, func(w io.Writer) error { return WriteKPICSV(w, *snap.KPIs) })
		case feed.SlotRevenue:
			err = section(w, &first, func(w io.Writer) error { return WriteRevenueCSV(w, snap.Revenue) })
		case feed.SlotDivisions:
			err = section(w, &first, func(w io.Writer) error { return WriteDivisionCSV(w, snap.Divisions) })
		case feed.SlotDistribution:
			err = section(w, &first, func(w io.Writer) error { return WriteDistributionCSV(w, snap.Distribution) })
		case feed.SlotSecurity:
			if snap.Security == nil {
				continue
			}
			err = section(w, &first, func(w io.Writer) error { return WriteNarrativeCSV(w, *snap.Security) })
		}
		if err != nil {
			return err
		}
	}
	return nil
}

func section(w io.Writer, first *bool, write func(io.Writer) error) error {
	if !*first {
		if _, err := io.WriteString(w, "\n"); err != nil {
			return err
		}
	}
	*first = false
	return write(w)
}

// WriteKPICSV serialises the headline metrics exactly as received.
func WriteKPICSV(w io.Writer, kpis feed.KPIs) error {
	writer := csv.NewWriter(w)
	records := [][]string{
		{"Metric", "Value"},
		{"Total Revenue (YTD)", kpis.TotalRevenue.String()},
		{"Total Employees", kpis.TotalEmployees.String()},
		{"Avg. Public Safety Score", kpis.AvgSafetyScore.String()},
	}
	if err := writer.WriteAll(records); err != nil {
		return err
	}
	return writer.Error()
}

// WriteRevenueCSV emits the revenue trend in millions.
func WriteRevenueCSV(w io.Writer, points []feed.RevenuePoint) error {
	writer := csv.NewWriter(w)
	defer writer.Flush()
	if err := writer.Write([]string{"Period", "Revenue"}); err != nil {
		return err
	}
	for _, point := range points {
		if err := writer.Write([]string{point.Period, formatFloat(point.Revenue)}); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}

// WriteDivisionCSV emits profit per division in millions.
func WriteDivisionCSV(w io.Writer, rows []feed.DivisionProfit) error {
	writer := csv.NewWriter(w)
	defer writer.Flush()
	if err := writer.Write([]string{"Division", "Profit"}); err != nil {
		return err
	}
	for _, row := range rows {
		if err := writer.Write([]string{row.Division, formatFloat(row.Profit)}); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}

// WriteDistributionCSV emits headcount per department.
func WriteDistributionCSV(w io.Writer, slices []feed.DistributionSlice) error {
	writer := csv.NewWriter(w)
	defer writer.Flush()
	if err := writer.Write([]string{"Department", "Employees"}); err != nil {
		return err
	}
	for _, slice := range slices {
		if err := writer.Write([]string{slice.Name, formatFloat(slice.Value)}); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}

// WriteNarrativeCSV emits the headline followed by the monthly incidents.
func WriteNarrativeCSV(w io.Writer, n feed.SecurityNarrative) error {
	writer := csv.NewWriter(w)
	defer writer.Flush()
	if err := writer.Write([]string{"Headline", n.Headline}); err != nil {
		return err
	}
	if err := writer.Write([]string{"Month", "Bristol", "Park Row"}); err != nil {
		return err
	}
	for _, point := range n.ChartData {
		if err := writer.Write([]string{point.Month, formatFloat(point.Bristol), formatFloat(point.ParkRow)}); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

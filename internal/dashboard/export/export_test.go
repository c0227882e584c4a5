package export

import (
	"bytes"
	"encoding/csv"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/wayne-enterprises/bidash/internal/feed"
	"github.com/wayne-enterprises/bidash/internal/pageload"
)

func readAll(t *testing.T, data []byte) [][]string {
	t.Helper()
	reader := csv.NewReader(bytes.NewReader(data))
	reader.FieldsPerRecord = -1
	records, err := reader.ReadAll()
	if err != nil {
		t.Fatalf("csv read error: %v", err)
	}
	return records
}

func TestWriteKPICSV(t *testing.T) {
	kpis := feed.KPIs{
		TotalRevenue:   feed.NewDisplay(`"$1.2B"`),
		TotalEmployees: feed.NewDisplay(`45000`),
		AvgSafetyScore: feed.NewDisplay(`7.8`),
	}
	buf := &bytes.Buffer{}
	if err := WriteKPICSV(buf, kpis); err != nil {
		t.Fatalf("kpi csv error: %v", err)
	}
	want := [][]string{
		{"Metric", "Value"},
		{"Total Revenue (YTD)", "$1.2B"},
		{"Total Employees", "45000"},
		{"Avg. Public Safety Score", "7.8"},
	}
	if diff := cmp.Diff(want, readAll(t, buf.Bytes())); diff != "" {
		t.Fatalf("kpi csv mismatch (-want +got):\n%s", diff)
	}
}

func TestWriteSnapshotSkipsAbsentSlots(t *testing.T) {
	rec := pageload.Record{
		ID: "page-1",
		Slots: map[feed.Slot][]byte{
			feed.SlotRevenue:   []byte(`[{"Period":"2023-Q1","Revenue":1234.56}]`),
			feed.SlotSecurity:  []byte(`{"headline":"Crime Down in Bristol","story":"","chart_data":[{"Month":"2023-01","Bristol":4,"Park Row":9}]}`),
			feed.SlotDivisions: []byte(`{broken`),
		},
	}
	buf := &bytes.Buffer{}
	if err := WriteSnapshot(buf, rec); err != nil {
		t.Fatalf("snapshot csv error: %v", err)
	}
	want := [][]string{
		{"Period", "Revenue"},
		{"2023-Q1", "1234.56"},
		{"Division", "Profit"},
		{"Headline", "Crime Down in Bristol"},
		{"Month", "Bristol", "Park Row"},
		{"2023-01", "4", "9"},
	}
	if diff := cmp.Diff(want, readAll(t, buf.Bytes())); diff != "" {
		t.Fatalf("snapshot csv mismatch (-want +got):\n%s", diff)
	}
	if strings.Contains(buf.String(), "Metric") {
		t.Fatalf("absent kpi slot must not be exported")
	}
}

func TestWriteSnapshotEmpty(t *testing.T) {
	buf := &bytes.Buffer{}
	if err := WriteSnapshot(buf, pageload.Record{ID: "page-1"}); err != nil {
		t.Fatalf("snapshot csv error: %v", err)
	}
	if buf.Len() != 0 {
		t.Fatalf("expected empty export, got %q", buf.String())
	}
}

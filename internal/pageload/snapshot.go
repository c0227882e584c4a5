package pageload

import (
	"github.com/wayne-enterprises/bidash/internal/feed"
)

// Snapshot is the typed view of a page load's slots.
type Snapshot struct {
	ID           string                   `json:"id"`
	KPIs         *feed.KPIs               `json:"kpis"`
	Revenue      []feed.RevenuePoint      `json:"revenue"`
	Divisions    []feed.DivisionProfit    `json:"divisions"`
	Distribution []feed.DistributionSlice `json:"distribution"`
	Security     *feed.SecurityNarrative  `json:"security"`
	Failures     map[feed.Slot]string     `json:"failures,omitempty"`
}

// Ready reports whether both gating slots are populated.
func (s Snapshot) Ready() bool {
	return s.KPIs != nil && s.Security != nil
}

// Failed reports whether the slot is empty because its fetch failed.
func (s Snapshot) Failed(slot feed.Slot) bool {
	_, ok := s.Failures[slot]
	return ok
}

// Decode turns a stored record into a Snapshot. Sequences default to empty.
func Decode(rec Record) Snapshot {
	snap := Snapshot{
		ID:           rec.ID,
		Revenue:      []feed.RevenuePoint{},
		Divisions:    []feed.DivisionProfit{},
		Distribution: []feed.DistributionSlice{},
		Failures:     make(map[feed.Slot]string, len(rec.Failures)),
	}
	for slot, reason := range rec.Failures {
		snap.Failures[slot] = reason
	}
	for slot, raw := range rec.Slots {
		value, err := feed.Decode(slot, raw)
		if err != nil {
			continue
		}
		switch v := value.(type) {
		case *feed.KPIs:
			snap.KPIs = v
		case *feed.SecurityNarrative:
			snap.Security = v
		case []feed.RevenuePoint:
			if v != nil {
				snap.Revenue = v
			}
		case []feed.DivisionProfit:
			if v != nil {
				snap.Divisions = v
			}
		case []feed.DistributionSlice:
			if v != nil {
				snap.Distribution = v
			}
		}
	}
	return snap
}

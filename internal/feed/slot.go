package feed

import (
	"encoding/json"
	"fmt"
)

// Slot names one of the five independently loaded feeds.
type Slot string

const (
	SlotKPIs         Slot = "kpis"
	SlotRevenue      Slot = "revenue-trends"
	SlotDivisions    Slot = "division-performance"
	SlotDistribution Slot = "employee-distribution"
	SlotSecurity     Slot = "security-narrative"
)

// Slots lists every feed. Order carries no meaning for loading.
var Slots = []Slot{SlotKPIs, SlotRevenue, SlotDivisions, SlotDistribution, SlotSecurity}

// Path returns the endpoint path relative to the API base URL.
func (s Slot) Path() string {
	return "/" + string(s)
}

// Valid reports whether s is one of the known feeds.
func (s Slot) Valid() bool {
	for _, known := range Slots {
		if s == known {
			return true
		}
	}
	return false
}

// ParseSlot resolves a slot by name.
func ParseSlot(name string) (Slot, error) {
	slot := Slot(name)
	if !slot.Valid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownSlot, name)
	}
	return slot, nil
}

// Decode parses a feed body into the Go type for the slot.
//
// kpis and security-narrative decode to pointers so a JSON null stays absent.
func Decode(slot Slot, raw []byte) (any, error) {
	var (
		dest any
		err  error
	)
	switch slot {
	case SlotKPIs:
		var v *KPIs
		err = json.Unmarshal(raw, &v)
		dest = v
	case SlotRevenue:
		var v []RevenuePoint
		err = json.Unmarshal(raw, &v)
		dest = v
	case SlotDivisions:
		var v []DivisionProfit
		err = json.Unmarshal(raw, &v)
		dest = v
	case SlotDistribution:
		var v []DistributionSlice
		err = json.Unmarshal(raw, &v)
		dest = v
	case SlotSecurity:
		var v *SecurityNarrative
		err = json.Unmarshal(raw, &v)
		dest = v
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownSlot, string(slot))
	}
	if err != nil {
		return nil, fmt.Errorf("feed: decode %s: %w", slot, err)
	}
	return dest, nil
}

package model

import (
	"fmt"
	"sort"
	"time"
)

// dayLayout is the wire format for calendar dates everywhere in this service.
const dayLayout = "2006-01-02"

// Day is a calendar date without a time-of-day component.
// It marshals as "YYYY-MM-DD", which is what the quote gateway and the
// frontend both speak.
type Day struct {
	time.Time
}

func NewDay(year int, month time.Month, day int) Day {
	return Day{time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// ParseDay parses a "YYYY-MM-DD" string.
func ParseDay(s string) (Day, error) {
	t, err := time.Parse(dayLayout, s)
	if err != nil {
		return Day{}, fmt.Errorf("invalid date %q (expected YYYY-MM-DD): %w", s, err)
	}
	return Day{t}, nil
}

func (d Day) String() string {
	return d.Format(dayLayout)
}

// Before reports whether d is an earlier calendar day than other.
func (d Day) Before(other Day) bool {
	return d.Time.Before(other.Time)
}

func (d Day) Equal(other Day) bool {
	return d.Time.Equal(other.Time)
}

func (d Day) MarshalJSON() ([]byte, error) {
	return []byte(`"` + d.Format(dayLayout) + `"`), nil
}

func (d *Day) UnmarshalJSON(b []byte) error {
	s := string(b)
	if len(s) < 2 || s[0] != '"' || s[len(s)-1] != '"' {
		return fmt.Errorf("invalid date JSON: %s", s)
	}
	parsed, err := ParseDay(s[1 : len(s)-1])
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

func (d Day) MarshalYAML() (interface{}, error) {
	return d.String(), nil
}

func (d *Day) UnmarshalYAML(unmarshal func(interface{}) error) error {
	var s string
	if err := unmarshal(&s); err != nil {
		return err
	}
	parsed, err := ParseDay(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// HistoricalBar is one daily OHLCV bar as returned by the quote gateway.
// The engine consumes bars sorted ascending by date, deduplicated, with
// low <= open,close <= high. Volume is carried through but unused by the
// simulation.
type HistoricalBar struct {
	Date   Day     `json:"date"`
	Open   float64 `json:"open"`
	High   float64 `json:"high"`
	Low    float64 `json:"low"`
	Close  float64 `json:"close"`
	Volume float64 `json:"volume"`
}

// SortBars sorts bars ascending by date and drops duplicate dates,
// keeping the first occurrence. It returns a new slice and leaves the
// input untouched.
func SortBars(bars []HistoricalBar) []HistoricalBar {
	out := make([]HistoricalBar, len(bars))
	copy(out, bars)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Date.Before(out[j].Date)
	})
	dedup := out[:0]
	for _, b := range out {
		if len(dedup) > 0 && dedup[len(dedup)-1].Date.Equal(b.Date) {
			continue
		}
		dedup = append(dedup, b)
	}
	return dedup
}

// RealtimeQuote is the subset of the gateway's realtime payload the
// application cares about. Extra fields are ignored.
type RealtimeQuote struct {
	Symbol string  `json:"symbol"`
	Name   string  `json:"name"`
	Price  float64 `json:"price"`
	Change float64 `json:"change"`
}

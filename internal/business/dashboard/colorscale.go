package dashboard

import (
	"fmt"
	"math"
	"sort"
	"strconv"

	"github.com/weiwei-tsao/state-stats-dashboard/pkg/model"
)

// Domain used for count and rate scales when nothing is visible.
const (
	DefaultDomainMin = 0
	DefaultDomainMax = 100000
)

var (
	// SequentialPalette runs lightest to darkest for count and rate views.
	SequentialPalette = []string{"#EDF8E9", "#BAE4B3", "#74C476", "#31A354", "#006D2C"}

	// DivergingPalette runs from strongest decline to strongest growth for the percentage view.
	DivergingPalette = []string{"#EF4444", "#F87171", "#FECACA", "#D1FAE5", "#6EE7B7", "#10B981", "#059669"}

	// NeutralColor fills features with no visible record.
	NeutralColor = model.Color{Bucket: -1, Hex: "#D1D5DB"}

	// percentageBreakpoints are the lower bounds of buckets 1..6; bucket 0 is everything below -50.
	percentageBreakpoints = []float64{-50, -10, 0, 5, 15, 30}
	percentageLabels      = []string{"-100% to -50%", "-50% to -10%", "-10% to 0%", "0% to 5%", "5% to 15%", "15% to 30%", "30%+"}
)

// Scale maps metric values of one view to palette buckets.
//
// Count and rate scales are data-relative: [min, max] of the visible values split into
// equal-width buckets. The percentage scale uses fixed breakpoints for both fill and
// legend, so a given change always gets the same color regardless of the filter.
type Scale struct {
	view    model.View
	min     float64
	max     float64
	palette []string
}

// NewScale builds the scale for view over the currently visible values.
func NewScale(view model.View, values []float64) Scale {
	if view == model.ViewPercentage {
		return Scale{view: view, palette: DivergingPalette, min: -100}
	}

	s := Scale{view: view, palette: SequentialPalette, min: DefaultDomainMin, max: DefaultDomainMax}
	if len(values) == 0 {
		return s
	}
	s.min, s.max = values[0], values[0]
	for _, v := range values[1:] {
		s.min = math.Min(s.min, v)
		s.max = math.Max(s.max, v)
	}
	return s
}

// Quantize places v into one of n equal-width buckets over [min, max], clamped to [0, n-1].
// A degenerate domain puts everything in bucket 0.
func Quantize(v, min, max float64, n int) int {
	if n <= 1 || !(max > min) {
		return 0
	}
	idx := int(math.Floor(float64(n) * (v - min) / (max - min)))
	if idx < 0 {
		return 0
	}
	if idx > n-1 {
		return n - 1
	}
	return idx
}

// Domain returns the scale's input bounds. The percentage scale reports its nominal [-100, 30].
func (s Scale) Domain() (float64, float64) {
	if s.view == model.ViewPercentage {
		return s.min, percentageBreakpoints[len(percentageBreakpoints)-1]
	}
	return s.min, s.max
}

// Bucket returns the palette index for v.
func (s Scale) Bucket(v float64) int {
	if s.view == model.ViewPercentage {
		return sort.Search(len(percentageBreakpoints), func(i int) bool { return percentageBreakpoints[i] > v })
	}
	return Quantize(v, s.min, s.max, len(s.palette))
}

// Color returns the palette entry for v.
func (s Scale) Color(v float64) model.Color {
	b := s.Bucket(v)
	return model.Color{Bucket: b, Hex: s.palette[b]}
}

// Legend describes every bucket of the scale, using the same boundaries as Bucket.
func (s Scale) Legend() model.Legend {
	entries := make([]model.LegendEntry, len(s.palette))
	if s.view == model.ViewPercentage {
		lower := s.min
		for i := range s.palette {
			entry := model.LegendEntry{Color: s.palette[i], Label: percentageLabels[i], Min: lower}
			if i < len(percentageBreakpoints) {
				upper := percentageBreakpoints[i]
				entry.Max = &upper
				lower = upper
			}
			entries[i] = entry
		}
		return model.Legend{View: s.view, Entries: entries}
	}

	n := float64(len(s.palette))
	width := (s.max - s.min) / n
	for i := range s.palette {
		lo := s.min + float64(i)*width
		hi := s.min + float64(i+1)*width
		if i == len(s.palette)-1 {
			hi = s.max
		}
		entries[i] = model.LegendEntry{
			Color: s.palette[i],
			Label: s.formatRange(lo, hi),
			Min:   lo,
			Max:   &hi,
		}
	}
	return model.Legend{View: s.view, Entries: entries}
}

func (s Scale) formatRange(lo, hi float64) string {
	if s.view == model.ViewRate {
		return fmt.Sprintf("%.1f-%.1f", lo, hi)
	}
	return formatInt(int64(math.Round(lo))) + "-" + formatInt(int64(math.Round(hi)))
}

// formatInt formats an integer with comma separators.
func formatInt(n int64) string {
	if n < 0 {
		return "-" + formatInt(-n)
	}
	if n < 1000 {
		return strconv.FormatInt(n, 10)
	}
	return fmt.Sprintf("%s,%03d", formatInt(n/1000), n%1000)
}

func metricValues(records []model.RegionStat, view model.View) []float64 {
	values := make([]float64, len(records))
	for i, r := range records {
		values[i] = r.Metric(view)
	}
	return values
}

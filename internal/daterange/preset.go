package daterange

import (
	"net/url"
	"strings"
	"time"

	"github.com/salesboard-dev/salesboard/internal/model"
)

// Preset is a named date range offered by the range selector.
type Preset struct {
	Name    string
	Label   string
	Resolve func(now time.Time) model.DateRange
	Query   func(r model.DateRange) url.Values
}

// Args resolves the preset against now and returns the encoded query string.
func (p Preset) Args(now time.Time) (model.DateRange, string) {
	r := p.Resolve(now)
	return r, p.Query(r).Encode()
}

var presets = []Preset{
	{Name: "today", Label: "Today", Resolve: Today, Query: DayQuery},
	{Name: "yesterday", Label: "Yesterday", Resolve: Yesterday, Query: DayQuery},
	{Name: "this-week", Label: "This Week", Resolve: ThisWeek, Query: RangeQuery},
	{Name: "last-week", Label: "Last Week", Resolve: LastWeek, Query: RangeQuery},
	{Name: "this-month", Label: "This Month", Resolve: ThisMonth, Query: MonthQuery},
}

// Presets returns the built-in presets in selector order.
func Presets() []Preset {
	out := make([]Preset, len(presets))
	copy(out, presets)
	return out
}

// Lookup finds a preset by name or label, ignoring case. Spaces and
// underscores are treated as hyphens, so "This Week" finds "this-week".
func Lookup(name string) (Preset, bool) {
	key := normalize(name)
	for _, p := range presets {
		if p.Name == key || normalize(p.Label) == key {
			return p, true
		}
	}
	return Preset{}, false
}

// Names returns the preset names in selector order.
func Names() []string {
	names := make([]string, len(presets))
	for i, p := range presets {
		names[i] = p.Name
	}
	return names
}

func normalize(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	return strings.NewReplacer(" ", "-", "_", "-").Replace(s)
}

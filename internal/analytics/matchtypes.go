package analytics

import "sort"

// Match type codes written by the mobile app.
const (
	MatchTypeOneOnOne = "1v1"
	MatchTypeGroup4   = "group_4"
)

const unknownMatchTypeColor = "#FFD166"

// MatchTypeInfo is how a match type code is shown on the dashboard.
type MatchTypeInfo struct {
	Label string
	Color string
}

var matchTypeCatalog = map[string]MatchTypeInfo{
	MatchTypeOneOnOne: {Label: "1-on-1 Dates", Color: "#FF3B3F"},
	MatchTypeGroup4:   {Label: "Group Hangouts", Color: "#06D6A0"},
}

// LookupMatchType maps a raw code to its display label. Unknown codes keep the
// raw code as label.
func LookupMatchType(code string) MatchTypeInfo {
	if info, ok := matchTypeCatalog[code]; ok {
		return info
	}
	return MatchTypeInfo{Label: code, Color: unknownMatchTypeColor}
}

// MatchTypeShare is one slice of the match type chart.
type MatchTypeShare struct {
	Type       string  `json:"type"`
	Percentage float64 `json:"percentage"`
	Color      string  `json:"color"`
}

// MatchTypeBreakdown computes the share of every match type across all matches
// regardless of status. With no matches it returns the two canonical types at
// 0% so the chart still has a legend.
func MatchTypeBreakdown(matches []Match) []MatchTypeShare {
	if len(matches) == 0 {
		return emptyBreakdown()
	}

	counts := make(map[string]int)
	var order []string
	for _, m := range matches {
		if _, ok := counts[m.MatchType]; !ok {
			order = append(order, m.MatchType)
		}
		counts[m.MatchType]++
	}
	// most frequent first, first-seen order on ties
	sort.SliceStable(order, func(i, j int) bool { return counts[order[i]] > counts[order[j]] })

	total := float64(len(matches))
	out := make([]MatchTypeShare, 0, len(order))
	for _, code := range order {
		info := LookupMatchType(code)
		out = append(out, MatchTypeShare{
			Type:       info.Label,
			Percentage: Round0(float64(counts[code]) / total * 100),
			Color:      info.Color,
		})
	}
	return out
}

func emptyBreakdown() []MatchTypeShare {
	out := make([]MatchTypeShare, 0, 2)
	for _, code := range []string{MatchTypeOneOnOne, MatchTypeGroup4} {
		info := matchTypeCatalog[code]
		out = append(out, MatchTypeShare{Type: info.Label, Color: info.Color})
	}
	return out
}

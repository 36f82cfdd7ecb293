package dashboard

import (
	"strings"
)

// Mode is a dashboard view.
type Mode string

const (
	ModeTreemapUS Mode = "treemap-us"
	ModeTreemapTW Mode = "treemap-tw"
	ModeTechnical Mode = "technical"
	ModeMacro     Mode = "macro"
	ModeCommodity Mode = "commodity"
	ModeLiquidity Mode = "liquidity"
	ModeRanking   Mode = "ranking"
)

// Universe names.
const (
	UniverseUS = "us"
	UniverseTW = "tw"
)

// ModeInfo describes a view for the mode selector.
type ModeInfo struct {
	Mode     Mode   `json:"mode"`
	Title    string `json:"title"`
	Endpoint string `json:"endpoint"`
}

// Modes lists the views in selector order.
var Modes = []ModeInfo{
	{ModeTreemapUS, "S&P 500 market map", "/api/treemap/us"},
	{ModeTreemapTW, "Taiwan market map", "/api/treemap/tw"},
	{ModeTechnical, "Technical analysis", "/api/technical/"},
	{ModeMacro, "Macro risk", "/api/macro"},
	{ModeCommodity, "Commodities", "/api/commodity"},
	{ModeLiquidity, "Liquidity and credit", "/api/liquidity"},
	{ModeRanking, "Market cap history", "/api/ranking"},
}

var universeTitles = map[string]string{
	UniverseUS: "S&P 500",
	UniverseTW: "Taiwan Large Caps",
}

// UniverseTitle returns the display name of a universe.
func UniverseTitle(u string) string {
	if t, ok := universeTitles[u]; ok {
		return t
	}
	return strings.ToUpper(u)
}

// NormalizeTicker trims and upper-cases user input. A bare four-digit code
// is a Taiwan listing and gets the .TW suffix.
func NormalizeTicker(input string) string {
	t := strings.ToUpper(strings.TrimSpace(input))
	if len(t) == 4 && isDigits(t) {
		return t + ".TW"
	}
	return t
}

func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return s != ""
}

func validTicker(t string) bool {
	if t == "" || len(t) > 20 {
		return false
	}
	for _, r := range t {
		switch {
		case r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
		case r == '.', r == '-', r == '^', r == '=':
		default:
			return false
		}
	}
	return true
}

package render

import (
	"fmt"
	"math"
	"sort"
)

// RacePoint is one curated (year, company, market cap) observation. Cap is
// in billions of US dollars.
type RacePoint struct {
	Year    int
	Company string
	Sector  string
	Cap     float64
}

// RaceEntry is one ranked bar in a frame.
type RaceEntry struct {
	Rank    int
	Company string
	Sector  string
	Cap     float64
}

// RaceFrame is the ranking at one interpolated instant.
type RaceFrame struct {
	Label   string
	Time    float64
	Entries []RaceEntry
}

// RaceTopN is the number of bars shown per frame.
const RaceTopN = 10

// Interpolate expands yearly points into stepsPerYear frames per year gap.
// A company missing from a year counts as 0 in that year. Each frame is
// re-ranked and cut to RaceTopN entries with a positive cap.
func Interpolate(points []RacePoint, stepsPerYear int) []RaceFrame {
	if len(points) == 0 {
		return nil
	}
	if stepsPerYear < 1 {
		stepsPerYear = 1
	}

	caps := map[string]map[int]float64{}
	sectors := map[string]string{}
	yearSet := map[int]bool{}
	for _, p := range points {
		if caps[p.Company] == nil {
			caps[p.Company] = map[int]float64{}
		}
		caps[p.Company][p.Year] = p.Cap
		sectors[p.Company] = p.Sector
		yearSet[p.Year] = true
	}
	years := make([]int, 0, len(yearSet))
	for y := range yearSet {
		years = append(years, y)
	}
	sort.Ints(years)
	companies := make([]string, 0, len(caps))
	for c := range caps {
		companies = append(companies, c)
	}
	sort.Strings(companies)

	frameAt := func(y0, y1 int, t float64) RaceFrame {
		at := float64(y0) + float64(y1-y0)*t
		entries := make([]RaceEntry, 0, len(companies))
		for _, c := range companies {
			v := caps[c][y0] + (caps[c][y1]-caps[c][y0])*t
			if v > 0 {
				entries = append(entries, RaceEntry{Company: c, Sector: sectors[c], Cap: v})
			}
		}
		sort.SliceStable(entries, func(i, j int) bool {
			if entries[i].Cap != entries[j].Cap {
				return entries[i].Cap > entries[j].Cap
			}
			return entries[i].Company < entries[j].Company
		})
		if len(entries) > RaceTopN {
			entries = entries[:RaceTopN]
		}
		for i := range entries {
			entries[i].Rank = i + 1
		}
		return RaceFrame{Label: raceLabel(at), Time: at, Entries: entries}
	}

	var frames []RaceFrame
	for i := 0; i+1 < len(years); i++ {
		for s := 0; s < stepsPerYear*(years[i+1]-years[i]); s++ {
			t := float64(s) / float64(stepsPerYear*(years[i+1]-years[i]))
			frames = append(frames, frameAt(years[i], years[i+1], t))
		}
	}
	last := years[len(years)-1]
	frames = append(frames, frameAt(last, last, 0))
	return frames
}

func raceLabel(t float64) string {
	if t == math.Trunc(t) {
		return fmt.Sprintf("%d", int(t))
	}
	return fmt.Sprintf("%.2f", t)
}

var sectorPalette = []string{
	"#1f77b4", "#ff7f0e", "#2ca02c", "#d62728", "#9467bd",
	"#8c564b", "#e377c2", "#7f7f7f", "#bcbd22", "#17becf",
}

func sectorColors(points []RacePoint) map[string]string {
	var names []string
	seen := map[string]bool{}
	for _, p := range points {
		if !seen[p.Sector] {
			seen[p.Sector] = true
			names = append(names, p.Sector)
		}
	}
	sort.Strings(names)
	out := make(map[string]string, len(names))
	for i, s := range names {
		out[s] = sectorPalette[i%len(sectorPalette)]
	}
	return out
}

// BarRace animates the ranking. The y axis is rank 1..RaceTopN, reversed so
// rank 1 sits on top, and bars change places as ranks change.
func BarRace(points []RacePoint, stepsPerYear int) *Figure {
	frames := Interpolate(points, stepsPerYear)
	colors := sectorColors(points)
	maxCap := 0.0
	for _, p := range points {
		maxCap = math.Max(maxCap, p.Cap)
	}

	barTrace := func(f RaceFrame) Trace {
		n := len(f.Entries)
		x := make(Series, n)
		y := make([]int, n)
		text := make([]string, n)
		marker := make([]string, n)
		for i, e := range f.Entries {
			x[i] = e.Cap
			y[i] = e.Rank
			text[i] = fmt.Sprintf("%s  $%.0fB", e.Company, e.Cap)
			marker[i] = colors[e.Sector]
		}
		return Trace{
			"type": "bar", "orientation": "h",
			"x": x, "y": y, "text": text,
			"textposition": "inside", "insidetextanchor": "start",
			"marker":        Layout{"color": marker},
			"hovertemplate": "%{text}<extra></extra>",
		}
	}

	fig := &Figure{Frames: make([]Frame, 0, len(frames))}
	sliderSteps := make([]Layout, 0, len(frames))
	for _, f := range frames {
		fig.Frames = append(fig.Frames, Frame{
			Name:   f.Label,
			Data:   []Trace{barTrace(f)},
			Layout: Layout{"title": Layout{"text": "Largest US companies by market cap, " + f.Label}},
		})
		sliderSteps = append(sliderSteps, Layout{
			"method": "animate",
			"label":  f.Label,
			"args": []any{[]string{f.Label}, Layout{
				"mode": "immediate", "frame": Layout{"duration": 0, "redraw": true}, "transition": Layout{"duration": 0},
			}},
		})
	}
	if len(frames) > 0 {
		fig.Data = []Trace{barTrace(frames[0])}
	} else {
		fig.Data = []Trace{}
	}

	ticks := make([]int, RaceTopN)
	for i := range ticks {
		ticks[i] = i + 1
	}
	layout := baseLayout("Largest US companies by market cap")
	layout["height"] = 600
	layout["xaxis"] = Layout{"range": []float64{0, maxCap * 1.1}, "title": Layout{"text": "Market cap ($B)"}}
	layout["yaxis"] = Layout{
		"range":    []float64{RaceTopN + 0.5, 0.5},
		"tickvals": ticks,
		"title":    Layout{"text": "Rank"},
	}
	layout["updatemenus"] = []Layout{{
		"type": "buttons", "showactive": false, "x": 0, "y": -0.1,
		"buttons": []Layout{
			{"label": "Play", "method": "animate", "args": []any{nil, Layout{
				"frame": Layout{"duration": 120, "redraw": true}, "fromcurrent": true, "transition": Layout{"duration": 100},
			}}},
			{"label": "Pause", "method": "animate", "args": []any{[]any{nil}, Layout{
				"mode": "immediate", "frame": Layout{"duration": 0, "redraw": false},
			}}},
		},
	}}
	layout["sliders"] = []Layout{{"active": 0, "steps": sliderSteps}}
	fig.Layout = layout
	return fig
}

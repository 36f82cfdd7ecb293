package render

import (
	"fmt"

	"MarketLens/internal/model"
)

// ColorRange is the symmetric color limit, in percent, for each metric.
var ColorRange = map[model.Metric]float64{
	model.Metric1D:  4,
	model.Metric1W:  8,
	model.Metric1M:  15,
	model.MetricYTD: 40,
}

// treeNode accumulates one non-leaf entry.
type treeNode struct {
	id, label, parent string
	capSum            float64
	weighted          float64
}

func (n *treeNode) add(capValue, change float64) {
	n.capSum += capValue
	n.weighted += capValue * change
}

func (n *treeNode) change() float64 {
	if n.capSum == 0 {
		return 0
	}
	return n.weighted / n.capSum
}

// Treemap lays rows out as title → sector → industry → ticker. Leaf areas are
// market caps and colors are the metric's percent change; parents carry the
// sum of their children's caps and the cap-weighted mean change.
func Treemap(rows []model.MetricRow, metric model.Metric, title string) *Figure {
	limit, ok := ColorRange[metric]
	if !ok {
		limit = ColorRange[model.Metric1D]
	}

	root := &treeNode{id: title, label: title}
	var order []*treeNode
	nodes := map[string]*treeNode{}
	node := func(id, label, parent string) *treeNode {
		if n, ok := nodes[id]; ok {
			return n
		}
		n := &treeNode{id: id, label: label, parent: parent}
		nodes[id] = n
		order = append(order, n)
		return n
	}

	var (
		ids, labels, parents, text []string
		values, colors             []float64
		custom                     [][]any
	)
	for i := range rows {
		r := &rows[i]
		change := r.Change(metric)
		sector := orUnknown(r.Sector)
		industry := orUnknown(r.Industry)

		sectorNode := node(title+"/"+sector, sector, title)
		industryNode := node(sectorNode.id+"/"+industry, industry, sectorNode.id)
		root.add(r.MarketCap, change)
		sectorNode.add(r.MarketCap, change)
		industryNode.add(r.MarketCap, change)

		ids = append(ids, industryNode.id+"/"+r.Ticker)
		labels = append(labels, r.Ticker)
		parents = append(parents, industryNode.id)
		values = append(values, r.MarketCap)
		colors = append(colors, change)
		text = append(text, fmt.Sprintf("%s<br>%+.2f%%", r.Ticker, change))
		custom = append(custom, []any{r.Name, r.Close, change, CapLabel(r.MarketCap)})
	}

	for _, n := range append([]*treeNode{root}, order...) {
		ids = append(ids, n.id)
		labels = append(labels, n.label)
		parents = append(parents, n.parent)
		values = append(values, n.capSum)
		colors = append(colors, n.change())
		text = append(text, fmt.Sprintf("%s<br>%+.2f%%", n.label, n.change()))
		custom = append(custom, []any{n.label, nil, n.change(), CapLabel(n.capSum)})
	}

	trace := Trace{
		"type":         "treemap",
		"ids":          ids,
		"labels":       labels,
		"parents":      parents,
		"values":       Series(values),
		"branchvalues": "total",
		"text":         text,
		"textinfo":     "text",
		"textfont":     Layout{"family": "Arial Black", "size": 15},
		"customdata":   custom,
		"hovertemplate": "<b>%{label}</b><br>%{customdata[0]}<br>" +
			"Close: $%{customdata[1]:.2f}<br>Change: %{customdata[2]:+.2f}%<br>" +
			"Market cap: %{customdata[3]}<extra></extra>",
		"marker": Layout{
			"colors":     Series(colors),
			"colorscale": "RdYlGn",
			"cmid":       0,
			"cmin":       -limit,
			"cmax":       limit,
			"showscale":  true,
			"colorbar":   Layout{"ticksuffix": "%"},
		},
	}

	layout := baseLayout(title)
	layout["height"] = 600
	return &Figure{Data: []Trace{trace}, Layout: layout}
}

func orUnknown(s string) string {
	if s == "" {
		return "Unknown"
	}
	return s
}

package services

import (
	domainconfig "graphedit/domain/config"
	"graphedit/domain/core/aggregates"
	"graphedit/domain/core/valueobjects"
)

const (
	demoNodes  = 8
	demoRadius = 5.0
)

// DemoGraph builds the starter graph: eight nodes evenly spaced on a circle
// of radius 5, the first labelled "First Node", with edges 0-1 and 1-5.
func DemoGraph(cfg *domainconfig.DomainConfig) (*aggregates.Graph, error) {
	g := aggregates.NewGraph("demo", cfg)

	ids := make([]valueobjects.NodeID, 0, demoNodes)
	for i := 0; i < demoNodes; i++ {
		label := ""
		if i == 0 {
			label = "First Node"
		}
		id, err := g.AddNode(label, valueobjects.Origin)
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	g.PlaceOnCircle(ids, demoRadius)

	for _, pair := range [][2]int{{0, 1}, {1, 5}} {
		if _, err := g.Link(ids[pair[0]], ids[pair[1]]); err != nil {
			return nil, err
		}
	}
	g.MarkEventsAsCommitted()
	return g, nil
}

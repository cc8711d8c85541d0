package synthetic

import (
	"fmt"
	"math/rand"

	"github.com/neurlang/refrl/datasets"
	"github.com/neurlang/refrl/graph"
)

var (
	Colors = []string{"red", "green", "blue", "yellow"}
	Shapes = []string{"cube", "sphere", "cylinder"}
	Sizes  = []string{"small", "large"}
)

// Relations between neighbouring objects.
const (
	Left  = "left"
	Right = "right"
)

// Scene generates one scene of n objects.
func Scene(id string, n int, rng *rand.Rand) *graph.Graph {
	g := &graph.Graph{ID: id}
	for i := 0; i < n; i++ {
		g.Nodes = append(g.Nodes, graph.Node{
			ID:   i,
			Name: fmt.Sprintf("obj%d", i),
			Attrs: []string{
				Colors[rng.Intn(len(Colors))],
				Shapes[rng.Intn(len(Shapes))],
				Sizes[rng.Intn(len(Sizes))],
			},
		})
	}
	order := rng.Perm(n)
	for i := 1; i < n; i++ {
		a, b := order[i-1], order[i]
		g.Edges = append(g.Edges,
			graph.Edge{From: a, To: b, Relation: Left},
			graph.Edge{From: b, To: a, Relation: Right},
		)
	}
	if err := g.Validate(); err != nil {
		panic(err.Error())
	}
	return g
}

// Generate creates scenes of objects objects each and one data point per object.
func Generate(scenes, objects int, seed int64) *datasets.Dataset {
	rng := rand.New(rand.NewSource(seed))
	d := &datasets.Dataset{Graphs: make(map[string]*graph.Graph, scenes)}
	for s := 0; s < scenes; s++ {
		g := Scene(fmt.Sprintf("scene%04d", s), objects, rng)
		d.Graphs[g.ID] = g
		for t := range g.Nodes {
			d.Points = append(d.Points, datasets.DataPoint{
				ID:      fmt.Sprintf("%s/%d", g.ID, t),
				GraphID: g.ID,
				Target:  t,
			})
		}
	}
	rng.Shuffle(len(d.Points), func(i, j int) {
		d.Points[i], d.Points[j] = d.Points[j], d.Points[i]
	})
	return d
}

// Small is a quick dataset for smoke tests.
func Small() *datasets.Dataset {
	return Generate(8, 3, 1)
}

// Medium is the default training dataset.
func Medium() *datasets.Dataset {
	return Generate(64, 5, 1)
}

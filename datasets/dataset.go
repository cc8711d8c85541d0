// Package datasets implements the referring-expression datasets: data points that name
// a target object in a scene graph, and the scene graphs they refer to.
package datasets

import (
	"bufio"
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/neurlang/refrl/graph"
	"github.com/neurlang/refrl/parallel"
)

var (
	// ErrUnknownGraph is returned for a data point whose graph is missing.
	ErrUnknownGraph = errors.New("data point references unknown graph")
	// ErrTargetRange is returned for a data point whose target is not a node of its graph.
	ErrTargetRange = errors.New("data point target out of range")
	// ErrDuplicateGraph is returned when two graph files share an id.
	ErrDuplicateGraph = errors.New("duplicate graph id")
)

// DataPoint asks for a clause set that singles out Target in graph GraphID.
type DataPoint struct {
	ID      string `json:"id" yaml:"id"`
	GraphID string `json:"graph" yaml:"graph"`
	Target  int    `json:"target" yaml:"target"`
}

// Dataset holds the data points and the graph store they index into.
type Dataset struct {
	Points []DataPoint
	Graphs map[string]*graph.Graph
}

// Load reads the data points from points and the graphs from graphs, which may be a
// single file or a directory of graph files, and checks every reference.
func Load(points, graphs string) (*Dataset, error) {
	pts, err := LoadPoints(points)
	if err != nil {
		return nil, err
	}
	gs, err := LoadGraphs(graphs)
	if err != nil {
		return nil, err
	}
	d := &Dataset{Points: pts, Graphs: gs}
	if err := d.Check(); err != nil {
		return nil, err
	}
	return d, nil
}

// Check verifies that every data point references an existing graph node.
func (d *Dataset) Check() error {
	for _, p := range d.Points {
		g, ok := d.Graphs[p.GraphID]
		if !ok {
			return fmt.Errorf("%w: %s -> %s", ErrUnknownGraph, p.ID, p.GraphID)
		}
		if p.Target < 0 || p.Target >= g.Len() {
			return fmt.Errorf("%w: %s target %d, graph %s has %d nodes", ErrTargetRange, p.ID, p.Target, g.ID, g.Len())
		}
	}
	return nil
}

// Split returns the first frac of the points for training and the rest for testing.
// When the training part covers every point the test part is empty.
func (d *Dataset) Split(frac float64) (train, test []DataPoint) {
	n := int(frac * float64(len(d.Points)))
	if n >= len(d.Points) {
		return d.Points, nil
	}
	return d.Points[:n], d.Points[n:]
}

// LoadPoints reads data points from a .json array, a .jsonl file or a .yaml list.
// Missing ids default to the line or position number.
func LoadPoints(path string) (pts []DataPoint, err error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading data points: %w", err)
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".jsonl":
		scanner := bufio.NewScanner(bytes.NewReader(data))
		for line := 1; scanner.Scan(); line++ {
			text := strings.TrimSpace(scanner.Text())
			if text == "" {
				continue
			}
			var p DataPoint
			if err := json.Unmarshal([]byte(text), &p); err != nil {
				return nil, fmt.Errorf("%s:%d: %w", path, line, err)
			}
			pts = append(pts, p)
		}
		if err := scanner.Err(); err != nil {
			return nil, fmt.Errorf("reading %s: %w", path, err)
		}
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &pts)
	default:
		err = json.Unmarshal(data, &pts)
	}
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	for i := range pts {
		if pts[i].ID == "" {
			pts[i].ID = fmt.Sprint(i)
		}
	}
	return pts, nil
}

// LoadGraphs reads a graph file, or every .json, .yaml and .yml file of a directory in parallel.
func LoadGraphs(path string) (map[string]*graph.Graph, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("reading graphs: %w", err)
	}
	var files []string
	if info.IsDir() {
		entries, err := os.ReadDir(path)
		if err != nil {
			return nil, fmt.Errorf("reading graphs: %w", err)
		}
		for _, e := range entries {
			switch strings.ToLower(filepath.Ext(e.Name())) {
			case ".json", ".yaml", ".yml":
				if !e.IsDir() {
					files = append(files, filepath.Join(path, e.Name()))
				}
			}
		}
		sort.Strings(files)
	} else {
		files = []string{path}
	}

	var loaded = make([][]*graph.Graph, len(files))
	err = parallel.ForEach(len(files), runtime.NumCPU(), func(i int) (err error) {
		loaded[i], err = graph.ReadFile(files[i])
		return
	})
	if err != nil {
		return nil, err
	}

	out := make(map[string]*graph.Graph)
	for _, gs := range loaded {
		for _, g := range gs {
			if _, ok := out[g.ID]; ok {
				return nil, fmt.Errorf("%w: %s", ErrDuplicateGraph, g.ID)
			}
			out[g.ID] = g
		}
	}
	return out, nil
}

// Save writes the points as JSON lines and every graph into one JSON file, sorted by id.
func (d *Dataset) Save(points, graphs string) error {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	for _, p := range d.Points {
		if err := enc.Encode(p); err != nil {
			return err
		}
	}
	if err := os.WriteFile(points, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("writing data points: %w", err)
	}
	return graph.WriteFile(graphs, d.GraphList())
}

// GraphList returns the graphs sorted by id.
func (d *Dataset) GraphList() []*graph.Graph {
	ids := make([]string, 0, len(d.Graphs))
	for id := range d.Graphs {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	o := make([]*graph.Graph, len(ids))
	for i, id := range ids {
		o[i] = d.Graphs[id]
	}
	return o
}

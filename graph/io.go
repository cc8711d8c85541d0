package graph

import "encoding/json"
import "fmt"
import "os"
import "path/filepath"
import "strings"

import "gopkg.in/yaml.v3"

// ReadFile reads the graphs stored in a .json, .yaml or .yml file. The file holds either
// one graph or a list of graphs. Every graph is validated.
func ReadFile(path string) ([]*Graph, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var unmarshal func([]byte, any) error
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		unmarshal = yaml.Unmarshal
	default:
		unmarshal = json.Unmarshal
	}
	var list []*Graph
	if err := unmarshal(data, &list); err != nil {
		var single Graph
		if err2 := unmarshal(data, &single); err2 != nil {
			return nil, fmt.Errorf("decode graphs %s: %w", path, err)
		}
		list = []*Graph{&single}
	}
	for _, g := range list {
		if g.ID == "" {
			g.ID = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
		}
		if err := g.Validate(); err != nil {
			return nil, err
		}
	}
	return list, nil
}

// WriteFile stores graphs as indented JSON.
func WriteFile(path string, graphs []*Graph) error {
	data, err := json.MarshalIndent(graphs, "", "\t")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

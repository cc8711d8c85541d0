package main

import (
	"errors"

	"github.com/neurlang/refrl/datasets"
	"github.com/neurlang/refrl/datasets/synthetic"
)

// loadDataset reads --data and --graphs, or generates the synthetic medium dataset.
func loadDataset() (*datasets.Dataset, error) {
	if dataPath == "" && graphsPath == "" {
		logger.Info("no dataset given, using the synthetic dataset")
		return synthetic.Medium(), nil
	}
	if dataPath == "" || graphsPath == "" {
		return nil, errors.New("--data and --graphs go together")
	}
	return datasets.Load(dataPath, graphsPath)
}

package main

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/neurlang/refrl/datasets/synthetic"
)

func runGen(cmd *cobra.Command, args []string) error {
	if dataPath == "" || graphsPath == "" {
		return errors.New("gen needs --data and --graphs output paths")
	}
	scenes, _ := cmd.Flags().GetInt("scenes")
	objects, _ := cmd.Flags().GetInt("objects")
	seed, _ := cmd.Flags().GetInt64("seed")

	d := synthetic.Generate(scenes, objects, seed)
	if err := d.Save(dataPath, graphsPath); err != nil {
		return err
	}
	logger.Info("dataset written", "points", len(d.Points), "graphs", len(d.Graphs), "data", dataPath, "graphs_path", graphsPath)
	return nil
}

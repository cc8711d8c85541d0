package main

import (
	"github.com/spf13/cobra"

	"github.com/neurlang/refrl/checkpoint"
	"github.com/neurlang/refrl/device"
	"github.com/neurlang/refrl/trainer"
)

func runTrain(cmd *cobra.Command, args []string) error {
	device.Probe().Log(logger)

	data, err := loadDataset()
	if err != nil {
		return err
	}
	store, err := checkpoint.Open(cfg, logger)
	if err != nil {
		return err
	}
	defer store.Close()

	r, err := trainer.New(cfg, data, store, logger)
	if err != nil {
		return err
	}
	if resume, _ := cmd.Flags().GetBool("resume"); resume {
		if err := r.Resume(); err != nil {
			return err
		}
	}
	if err := r.Fit(cmd.Context()); err != nil {
		return err
	}
	if len(r.TestData) == 0 {
		logger.Info("empty test split, skipping evaluation")
		return nil
	}
	_, err = r.Test(cmd.Context(), trainer.Test)
	return err
}

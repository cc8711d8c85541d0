package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/neurlang/refrl/checkpoint"
	"github.com/neurlang/refrl/trainer"
)

func runTest(cmd *cobra.Command, args []string) error {
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
	if it, _ := cmd.Flags().GetInt("iteration"); it >= 0 {
		if err := r.ResumeIteration(it); err != nil {
			return fmt.Errorf("%s: %w", cfg.ModelPath, err)
		}
	} else {
		if _, err := store.Load(); err != nil {
			return fmt.Errorf("%s: %w", cfg.ModelPath, err)
		}
		if err := r.Resume(); err != nil {
			return err
		}
	}
	split, _ := cmd.Flags().GetString("split")
	rep, err := r.Test(cmd.Context(), split)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s: success %d out of %d, average loss %.4f, regressed %d, digest %x\n",
		rep.Split, rep.Success, rep.Total, rep.AvgLoss, rep.Regressed, rep.Digest)
	return nil
}

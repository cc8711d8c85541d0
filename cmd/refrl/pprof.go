package main

import (
	"fmt"
	"os"
	"runtime/pprof"
)

var profileFile *os.File

// startProfile collects a CPU profile into path until stopProfile.
// The profile doubles as a default.pgo for profile guided builds.
func startProfile(path string) error {
	if path == "" {
		return nil
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating cpu profile: %w", err)
	}
	if err := pprof.StartCPUProfile(f); err != nil {
		f.Close()
		return fmt.Errorf("starting cpu profile: %w", err)
	}
	profileFile = f
	return nil
}

func stopProfile() {
	if profileFile == nil {
		return
	}
	pprof.StopCPUProfile()
	profileFile.Close()
	profileFile = nil
}

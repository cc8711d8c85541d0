// Package device reports the compute resources available to a training run.
package device

import (
	"log/slog"

	"github.com/klauspost/cpuid/v2"

	"github.com/neurlang/refrl/vec"
)

// GPU describes one CUDA device.
type GPU struct {
	Name     string
	Memory   int64
	ClockKHz int
	Compute  string
}

// Info describes the host.
type Info struct {
	CPU      string
	Cores    int
	Threads  int
	Features []string
	// Lanes is the float64 width of the selected vector kernels.
	Lanes int
	GPUs  []GPU
	// GPUError is set when CUDA support is compiled in but probing failed.
	GPUError error
}

// Probe inspects the CPU and, when built with the cuda tag, the CUDA devices.
func Probe() Info {
	info := Info{
		CPU:      cpuid.CPU.BrandName,
		Cores:    cpuid.CPU.PhysicalCores,
		Threads:  cpuid.CPU.LogicalCores,
		Features: cpuid.CPU.FeatureSet(),
		Lanes:    vec.Lanes(),
	}
	info.GPUs, info.GPUError = gpus()
	return info
}

// Log writes the info as one record and one record per GPU.
func (i Info) Log(logger *slog.Logger) {
	logger.Info("device",
		"cpu", i.CPU,
		"cores", i.Cores,
		"threads", i.Threads,
		"lanes", i.Lanes,
		"features", len(i.Features),
		"gpus", len(i.GPUs))
	if i.GPUError != nil {
		logger.Warn("cuda probe failed", "error", i.GPUError)
	}
	for n, g := range i.GPUs {
		logger.Info("gpu", "index", n, "name", g.Name, "memory", g.Memory, "clock_khz", g.ClockKHz, "compute", g.Compute)
	}
}

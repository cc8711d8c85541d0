//go:build cuda

package device

import (
	"fmt"

	"gorgonia.org/cu"
)

// CUDA reports whether the binary was built with CUDA support.
const CUDA = true

func gpus() (o []GPU, err error) {
	devices, err := cu.NumDevices()
	if err != nil {
		return nil, err
	}
	for d := 0; d < devices; d++ {
		dev := cu.Device(d)
		name, _ := dev.Name()
		cr, _ := dev.Attribute(cu.ClockRate)
		mem, _ := dev.TotalMem()
		maj, _ := dev.Attribute(cu.ComputeCapabilityMajor)
		min, _ := dev.Attribute(cu.ComputeCapabilityMinor)
		o = append(o, GPU{
			Name:     name,
			Memory:   mem,
			ClockKHz: cr,
			Compute:  fmt.Sprintf("%d.%d", maj, min),
		})
	}
	return o, nil
}

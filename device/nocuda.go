//go:build !cuda

package device

// CUDA reports whether the binary was built with CUDA support.
const CUDA = false

func gpus() ([]GPU, error) {
	return nil, nil
}

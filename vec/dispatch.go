//go:build !noasm && amd64

package vec

import "github.com/klauspost/cpuid/v2"

// init picks the unroll width of the pure Go kernels, -tags noasm keeps the scalar loops.
func init() {
	switch {
	case cpuid.CPU.Supports(cpuid.AVX512F, cpuid.AVX512DQ):
		Dot = dot8
		Axpy = axpy4
		lanes = 8
	case cpuid.CPU.Supports(cpuid.AVX2, cpuid.FMA3):
		Dot = dot4
		Axpy = axpy4
		lanes = 4
	default:
		Dot = dotScalar
		Axpy = axpyScalar
		lanes = 1
	}
}

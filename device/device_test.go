package device

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/neurlang/refrl/vec"
)

func TestProbe(t *testing.T) {
	info := Probe()
	assert.Equal(t, vec.Lanes(), info.Lanes)
	if !CUDA {
		assert.Empty(t, info.GPUs)
		assert.NoError(t, info.GPUError)
	}

	var buf bytes.Buffer
	info.Log(slog.New(slog.NewTextHandler(&buf, nil)))
	assert.Contains(t, buf.String(), "msg=device")
}

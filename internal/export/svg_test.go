package export

import (
	"bytes"
	"math"
	"strings"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/san-kum/demsim/internal/snapshot"
)

func frame(t float64, positions ...mgl64.Vec3) *snapshot.Frame {
	f := &snapshot.Frame{Time: t}
	for _, p := range positions {
		f.Particles = append(f.Particles, snapshot.Record{Position: p, Radius: 0.5})
	}
	return f
}

func TestFrameToSVG(t *testing.T) {
	f := frame(0.25, mgl64.Vec3{0, 0, 0}, mgl64.Vec3{2, 0, 1}, mgl64.Vec3{math.NaN(), 0, 0})

	var buf bytes.Buffer
	require.NoError(t, FrameToSVG(&buf, f, XZ, 400))

	out := buf.String()
	assert.True(t, strings.HasPrefix(out, "<?xml"))
	assert.Contains(t, out, "t=0.25")
	assert.Equal(t, 2, strings.Count(out, "<circle"), "non-finite particles are skipped")
	assert.Contains(t, out, `width="400"`)
	assert.NotContains(t, out, "NaN")
}

func TestFrameToSVGEmpty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, FrameToSVG(&buf, &snapshot.Frame{}, XY, 100))
	assert.NotContains(t, buf.String(), "<circle")
}

func TestTrackToSVG(t *testing.T) {
	frames := []*snapshot.Frame{
		frame(0, mgl64.Vec3{0, 0, 1}),
		frame(1, mgl64.Vec3{1, 0, 0.5}),
		frame(2, mgl64.Vec3{math.Inf(1), 0, 0}),
		frame(3, mgl64.Vec3{2, 0, 0}),
	}

	var buf bytes.Buffer
	require.NoError(t, TrackToSVG(&buf, frames, 0, XZ, 200, 100, "#00ff88"))

	out := buf.String()
	assert.Contains(t, out, `stroke="#00ff88"`)

	_, d, ok := strings.Cut(out, ` d="`)
	require.True(t, ok)
	d, _, _ = strings.Cut(d, `"`)
	assert.Equal(t, 2, strings.Count(d, "M"), "the infinite frame breaks the path")
	assert.Equal(t, 1, strings.Count(d, "L"))
}

func TestTrackToSVGMissing(t *testing.T) {
	var buf bytes.Buffer
	err := TrackToSVG(&buf, []*snapshot.Frame{frame(0, mgl64.Vec3{})}, 3, XZ, 10, 10, "#fff")
	assert.Error(t, err)
}

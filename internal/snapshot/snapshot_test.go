package snapshot

import (
	"bytes"
	"errors"
	"io"
	"math"
	"strings"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/san-kum/demsim/internal/dem"
)

func twoParticles() []dem.Particle {
	return []dem.Particle{
		{Radius: 0.5, Mass: 1, Position: mgl64.Vec3{0, 0, 0.5}, Velocity: mgl64.Vec3{1, 0, -0.25}},
		{Radius: 0.25, Mass: 1, Position: mgl64.Vec3{1.5, 2, 3}, Velocity: mgl64.Vec3{0, 0, 0}},
	}
}

func TestWriterLayout(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf)

	require.NoError(t, w.WriteSnapshot(0.1, twoParticles()))

	want := "2 0.1 0 0 0 1 1 1\n" +
		"0 0 0.5 1 0 -0.25 0.5 0 0 0 0 0 0 0\n" +
		"1.5 2 3 0 0 0 0.25 0 0 0 0 0 0 0\n"
	assert.Equal(t, want, buf.String())
}

func TestWriterDefaultPrecision(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf)
	ps := []dem.Particle{{Radius: 1, Position: mgl64.Vec3{1234567, 1.0 / 3.0, 1e-5}}}

	require.NoError(t, w.WriteSnapshot(100000, ps))

	lines := strings.Split(buf.String(), "\n")
	assert.Equal(t, "1 100000 0 0 0 1 1 1", lines[0])
	assert.True(t, strings.HasPrefix(lines[1], "1.23457e+06 0.333333 1e-05 "), lines[1])
}

func TestWriterAppendsSnapshots(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf)

	require.NoError(t, w.WriteSnapshot(0.5, twoParticles()))
	require.NoError(t, w.WriteSnapshot(1.0, twoParticles()))

	assert.Equal(t, 6, strings.Count(buf.String(), "\n"))
	assert.Equal(t, 2, strings.Count(buf.String(), " 0 0 0 1 1 1\n"))
}

func TestWriterEmptyParticleSet(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewWriter(&buf).WriteSnapshot(2, nil))
	assert.Equal(t, "0 2 0 0 0 1 1 1\n", buf.String())
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, errors.New("disk full") }

func TestWriterPropagatesErrors(t *testing.T) {
	w := NewWriter(failingWriter{})
	assert.Error(t, w.WriteSnapshot(1, twoParticles()))
}

func TestReaderRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf)
	w.Precision = -1

	ps := twoParticles()
	ps[0].Position = mgl64.Vec3{1.0 / 3.0, -2.0 / 7.0, math.Pi}
	require.NoError(t, w.WriteSnapshot(0.125, ps))
	require.NoError(t, w.WriteSnapshot(0.25, ps))

	frames, err := NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, frames, 2)

	assert.Equal(t, 0.125, frames[0].Time)
	assert.Equal(t, 0.25, frames[1].Time)
	assert.Equal(t, [6]float64{0, 0, 0, 1, 1, 1}, frames[0].Domain)
	require.Len(t, frames[1].Particles, 2)
	for i, rec := range frames[1].Particles {
		assert.Equal(t, ps[i].Position, rec.Position)
		assert.Equal(t, ps[i].Velocity, rec.Velocity)
		assert.Equal(t, ps[i].Radius, rec.Radius)
	}
}

func TestReaderAcceptsNonFinite(t *testing.T) {
	in := "1 0.5 0 0 0 1 1 1\nnan NaN -nan inf -inf 0 0.5 0 0 0 0 0 0 0\n"

	f, err := NewReader(strings.NewReader(in)).Next()
	require.NoError(t, err)
	assert.True(t, math.IsNaN(f.Particles[0].Position.X()))
	assert.True(t, math.IsInf(f.Particles[0].Velocity.X(), 1))
}

func TestReaderMalformed(t *testing.T) {
	tests := []struct {
		name string
		in   string
	}{
		{"short header", "2 0.1 0 0 0\n"},
		{"bad count", "x 0.1 0 0 0 1 1 1\n"},
		{"bad time", "1 t 0 0 0 1 1 1\n0 0 0 0 0 0 1 0 0 0 0 0 0 0\n"},
		{"truncated", "2 0.1 0 0 0 1 1 1\n0 0 0 0 0 0 1 0 0 0 0 0 0 0\n"},
		{"short record", "1 0.1 0 0 0 1 1 1\n0 0 0\n"},
		{"bad value", "1 0.1 0 0 0 1 1 1\n0 0 zero 0 0 0 1 0 0 0 0 0 0 0\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewReader(strings.NewReader(tt.in)).Next()
			assert.ErrorIs(t, err, ErrMalformed)
		})
	}
}

func TestReaderEmptyStream(t *testing.T) {
	_, err := NewReader(strings.NewReader("")).Next()
	assert.Equal(t, io.EOF, err)
}

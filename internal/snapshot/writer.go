package snapshot

import (
	"bufio"
	"io"
	"strconv"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/demsim/internal/dem"
)

// DefaultPrecision is the number of significant digits written per value.
const DefaultPrecision = 6

const (
	headerTail   = " 0 0 0 1 1 1\n"
	particleTail = " 0 0 0 0 0 0 0\n"
)

// Writer appends snapshots to an output stream. Every call to
// WriteSnapshot flushes, so a record is complete on the stream once it
// returns.
type Writer struct {
	// Precision is the significant digits per float; -1 writes the
	// shortest representation that round-trips.
	Precision int

	w   *bufio.Writer
	buf []byte
}

func NewWriter(w io.Writer) *Writer {
	return &Writer{
		Precision: DefaultPrecision,
		w:         bufio.NewWriter(w),
		buf:       make([]byte, 0, 256),
	}
}

func (w *Writer) WriteSnapshot(t float64, ps []dem.Particle) error {
	b := w.buf[:0]
	b = strconv.AppendInt(b, int64(len(ps)), 10)
	b = append(b, ' ')
	b = w.appendFloat(b, t)
	b = append(b, headerTail...)
	if _, err := w.w.Write(b); err != nil {
		return err
	}

	for i := range ps {
		p := &ps[i]
		b = b[:0]
		b = w.appendVec(b, p.Position)
		b = append(b, ' ')
		b = w.appendVec(b, p.Velocity)
		b = append(b, ' ')
		b = w.appendFloat(b, p.Radius)
		b = append(b, particleTail...)
		if _, err := w.w.Write(b); err != nil {
			return err
		}
	}
	w.buf = b

	return w.w.Flush()
}

func (w *Writer) appendVec(b []byte, v mgl64.Vec3) []byte {
	b = w.appendFloat(b, v[0])
	b = append(b, ' ')
	b = w.appendFloat(b, v[1])
	b = append(b, ' ')
	return w.appendFloat(b, v[2])
}

func (w *Writer) appendFloat(b []byte, x float64) []byte {
	return strconv.AppendFloat(b, x, 'g', w.Precision, 64)
}

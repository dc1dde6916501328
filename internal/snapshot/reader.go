package snapshot

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/go-gl/mathgl/mgl64"
)

var ErrMalformed = errors.New("snapshot: malformed stream")

const (
	headerFields = 8
	recordFields = 7
)

// Record is one particle line of a snapshot.
type Record struct {
	Position mgl64.Vec3
	Velocity mgl64.Vec3
	Radius   float64
}

// Frame is one snapshot: header time plus particle records in stream order.
type Frame struct {
	Time      float64
	Domain    [6]float64
	Particles []Record
}

type Reader struct {
	sc   *bufio.Scanner
	line int
}

func NewReader(r io.Reader) *Reader {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	return &Reader{sc: sc}
}

// Next returns the next frame, or io.EOF once the stream is exhausted.
func (r *Reader) Next() (*Frame, error) {
	fields, err := r.nextFields()
	if err != nil {
		return nil, err
	}
	if len(fields) != headerFields {
		return nil, r.malformed("header has %d fields, want %d", len(fields), headerFields)
	}

	n, err := strconv.Atoi(fields[0])
	if err != nil || n < 0 {
		return nil, r.malformed("bad particle count %q", fields[0])
	}

	f := &Frame{Particles: make([]Record, n)}
	if f.Time, err = parseFloat(fields[1]); err != nil {
		return nil, r.malformed("bad time %q", fields[1])
	}
	for i := range f.Domain {
		if f.Domain[i], err = strconv.ParseFloat(fields[2+i], 64); err != nil {
			return nil, r.malformed("bad domain field %q", fields[2+i])
		}
	}

	for i := 0; i < n; i++ {
		fields, err := r.nextFields()
		if err == io.EOF {
			return nil, r.malformed("stream ended after %d of %d particles", i, n)
		}
		if err != nil {
			return nil, err
		}
		if len(fields) < recordFields {
			return nil, r.malformed("particle has %d fields, want at least %d", len(fields), recordFields)
		}

		var vals [recordFields]float64
		for j := range vals {
			if vals[j], err = parseFloat(fields[j]); err != nil {
				return nil, r.malformed("bad value %q", fields[j])
			}
		}
		f.Particles[i] = Record{
			Position: mgl64.Vec3{vals[0], vals[1], vals[2]},
			Velocity: mgl64.Vec3{vals[3], vals[4], vals[5]},
			Radius:   vals[6],
		}
	}

	return f, nil
}

// ReadAll reads every remaining frame.
func (r *Reader) ReadAll() ([]*Frame, error) {
	frames := make([]*Frame, 0)
	for {
		f, err := r.Next()
		if err == io.EOF {
			return frames, nil
		}
		if err != nil {
			return frames, err
		}
		frames = append(frames, f)
	}
}

func (r *Reader) nextFields() ([]string, error) {
	for r.sc.Scan() {
		r.line++
		fields := strings.Fields(r.sc.Text())
		if len(fields) == 0 {
			continue
		}
		return fields, nil
	}
	if err := r.sc.Err(); err != nil {
		return nil, err
	}
	return nil, io.EOF
}

func (r *Reader) malformed(format string, args ...any) error {
	return fmt.Errorf("%w: line %d: %s", ErrMalformed, r.line, fmt.Sprintf(format, args...))
}

// parseFloat also accepts the signed NaN spellings some C runtimes emit.
func parseFloat(s string) (float64, error) {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil && len(s) == 4 && (s[0] == '-' || s[0] == '+') && strings.EqualFold(s[1:], "nan") {
		return math.NaN(), nil
	}
	return v, err
}

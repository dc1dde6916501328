package export

import (
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/san-kum/demsim/internal/snapshot"
)

// Axes picks the two world axes drawn, horizontal then vertical.
type Axes [2]int

var (
	XZ = Axes{0, 2}
	XY = Axes{0, 1}
)

type bounds struct {
	minX, maxX, minY, maxY float64
}

func (b *bounds) add(x, y, r float64) {
	b.minX = math.Min(b.minX, x-r)
	b.maxX = math.Max(b.maxX, x+r)
	b.minY = math.Min(b.minY, y-r)
	b.maxY = math.Max(b.maxY, y+r)
}

// pad grows the box by 10% and gives empty extents a unit size.
func (b *bounds) pad() {
	rangeX, rangeY := b.maxX-b.minX, b.maxY-b.minY
	if rangeX <= 0 {
		rangeX = 1
	}
	if rangeY <= 0 {
		rangeY = 1
	}
	b.minX -= rangeX * 0.1
	b.maxX += rangeX * 0.1
	b.minY -= rangeY * 0.1
	b.maxY += rangeY * 0.1
}

func emptyBounds() bounds {
	return bounds{math.Inf(1), math.Inf(-1), math.Inf(1), math.Inf(-1)}
}

func finite(xs ...float64) bool {
	for _, x := range xs {
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return false
		}
	}
	return true
}

// FrameToSVG draws every finite particle of f as a circle, projected onto
// axes and scaled uniformly to fit width pixels.
func FrameToSVG(w io.Writer, f *snapshot.Frame, axes Axes, width int) error {
	b := emptyBounds()
	for _, p := range f.Particles {
		x, y := p.Position[axes[0]], p.Position[axes[1]]
		if finite(x, y, p.Radius) {
			b.add(x, y, p.Radius)
		}
	}
	if math.IsInf(b.minX, 1) {
		b = bounds{0, 0, 0, 0}
	}
	b.pad()

	scale := float64(width) / (b.maxX - b.minX)
	height := int(math.Ceil((b.maxY - b.minY) * scale))

	var sb strings.Builder
	fmt.Fprintf(&sb, `<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
<text x="8" y="16" fill="#888899" font-family="monospace" font-size="12">t=%g</text>
<g fill="none" stroke="#00ccff" stroke-width="1">
`, width, height, width, height, f.Time)

	for _, p := range f.Particles {
		x, y := p.Position[axes[0]], p.Position[axes[1]]
		if !finite(x, y, p.Radius) {
			continue
		}
		cx := (x - b.minX) * scale
		cy := float64(height) - (y-b.minY)*scale
		fmt.Fprintf(&sb, "<circle cx=\"%.2f\" cy=\"%.2f\" r=\"%.2f\"/>\n", cx, cy, p.Radius*scale)
	}

	sb.WriteString("</g>\n</svg>\n")
	_, err := io.WriteString(w, sb.String())
	return err
}

// TrackToSVG draws the path of particle index across frames. Frames where
// the particle is missing or non-finite break the path.
func TrackToSVG(w io.Writer, frames []*snapshot.Frame, index int, axes Axes, width, height int, strokeColor string) error {
	b := emptyBounds()
	for _, f := range frames {
		if index < len(f.Particles) {
			p := f.Particles[index].Position
			if finite(p[axes[0]], p[axes[1]]) {
				b.add(p[axes[0]], p[axes[1]], 0)
			}
		}
	}
	if math.IsInf(b.minX, 1) {
		return fmt.Errorf("particle %d has no finite positions", index)
	}
	b.pad()

	rangeX, rangeY := b.maxX-b.minX, b.maxY-b.minY

	var sb strings.Builder
	fmt.Fprintf(&sb, `<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
<path fill="none" stroke="%s" stroke-width="1.5" d="`,
		width, height, width, height, strokeColor)

	pen := false
	for _, f := range frames {
		if index >= len(f.Particles) {
			pen = false
			continue
		}
		p := f.Particles[index].Position
		if !finite(p[axes[0]], p[axes[1]]) {
			pen = false
			continue
		}

		x := (p[axes[0]] - b.minX) / rangeX * float64(width)
		y := float64(height) - (p[axes[1]]-b.minY)/rangeY*float64(height)
		cmd := "L"
		if !pen {
			cmd = "M"
			pen = true
		}
		fmt.Fprintf(&sb, "%s%.1f,%.1f ", cmd, x, y)
	}

	sb.WriteString(`"/>
</svg>
`)
	_, err := io.WriteString(w, sb.String())
	return err
}

package viz

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/san-kum/demsim/internal/dem"
)

// Plane selects the two world axes shown on the canvas.
type Plane int

const (
	PlaneXZ Plane = iota
	PlaneXY
)

func (p Plane) String() string {
	if p == PlaneXY {
		return "x-y"
	}
	return "x-z"
}

func (p Plane) axes() (int, int) {
	if p == PlaneXY {
		return 0, 1
	}
	return 0, 2
}

// viewport is the world box mapped onto the canvas.
type viewport struct {
	min, max mgl64.Vec3
}

// fit returns a box around every finite particle with 5% padding.
func fit(ps []dem.Particle) viewport {
	lo := mgl64.Vec3{math.Inf(1), math.Inf(1), math.Inf(1)}
	hi := mgl64.Vec3{math.Inf(-1), math.Inf(-1), math.Inf(-1)}
	found := false

	for _, p := range ps {
		if !finite(p.Position) {
			continue
		}
		found = true
		for k := 0; k < 3; k++ {
			lo[k] = math.Min(lo[k], p.Position[k]-p.Radius)
			hi[k] = math.Max(hi[k], p.Position[k]+p.Radius)
		}
	}
	if !found {
		return viewport{min: mgl64.Vec3{-1, -1, -1}, max: mgl64.Vec3{1, 1, 1}}
	}

	for k := 0; k < 3; k++ {
		pad := 0.05 * (hi[k] - lo[k])
		if pad == 0 {
			pad = 1
		}
		lo[k] -= pad
		hi[k] += pad
	}
	return viewport{min: lo, max: hi}
}

// scale is dots per world unit, equal on both axes so circles stay round.
func (v viewport) scale(c *Canvas, plane Plane) float64 {
	a, b := plane.axes()
	w, h := c.Dots()
	return math.Min(float64(w-1)/(v.max[a]-v.min[a]), float64(h-1)/(v.max[b]-v.min[b]))
}

// project maps a world point to canvas dots with the second axis up.
func (v viewport) project(c *Canvas, plane Plane, p mgl64.Vec3) (int, int) {
	a, b := plane.axes()
	_, h := c.Dots()
	s := v.scale(c, plane)
	x := (p[a] - v.min[a]) * s
	y := float64(h-1) - (p[b]-v.min[b])*s
	return int(math.Round(x)), int(math.Round(y))
}

// drawScene renders walls as lines across the view and particles as circles.
func drawScene(c *Canvas, v viewport, plane Plane, walls []dem.Wall, ps []dem.Particle) {
	c.Clear()
	a, b := plane.axes()
	s := v.scale(c, plane)
	reach := v.max.Sub(v.min).Len()

	for _, w := range walls {
		// a wall parallel to the view plane has no trace on it
		if w.Normal[a] == 0 && w.Normal[b] == 0 {
			continue
		}
		var dir mgl64.Vec3
		dir[a], dir[b] = -w.Normal[b], w.Normal[a]
		dir = dir.Normalize()

		// point of the wall nearest the view center, within the view plane
		center := v.min.Add(v.max).Mul(0.5)
		var n mgl64.Vec3
		n[a], n[b] = w.Normal[a], w.Normal[b]
		n = n.Normalize()
		var off mgl64.Vec3
		off[a], off[b] = w.Anchor[a]-center[a], w.Anchor[b]-center[b]
		foot := center.Add(n.Mul(off.Dot(n)))

		x0, y0 := v.project(c, plane, foot.Sub(dir.Mul(reach)))
		x1, y1 := v.project(c, plane, foot.Add(dir.Mul(reach)))
		c.Line(x0, y0, x1, y1)
	}

	for _, p := range ps {
		if !finite(p.Position) {
			continue
		}
		x, y := v.project(c, plane, p.Position)
		c.Circle(x, y, int(math.Round(p.Radius*s)))
	}
}

func finite(v mgl64.Vec3) bool {
	for _, x := range v {
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return false
		}
	}
	return true
}

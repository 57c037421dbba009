package geom

import "math"

// Vec3 is a value-type 3D vector. Agents move in the XZ plane; Y is used
// only by the falling death trajectory.
type Vec3 struct {
	X, Y, Z float64
}

func V(x, y, z float64) Vec3 { return Vec3{X: x, Y: y, Z: z} }

func (v Vec3) Add(o Vec3) Vec3 { return Vec3{v.X + o.X, v.Y + o.Y, v.Z + o.Z} }

func (v Vec3) Sub(o Vec3) Vec3 { return Vec3{v.X - o.X, v.Y - o.Y, v.Z - o.Z} }

func (v Vec3) Scale(s float64) Vec3 { return Vec3{v.X * s, v.Y * s, v.Z * s} }

func (v Vec3) Dot(o Vec3) float64 { return v.X*o.X + v.Y*o.Y + v.Z*o.Z }

func (v Vec3) Mag() float64 { return math.Sqrt(v.MagSq()) }

func (v Vec3) MagSq() float64 { return v.X*v.X + v.Y*v.Y + v.Z*v.Z }

// Normalize returns the unit vector, or the zero vector unchanged.
func (v Vec3) Normalize() Vec3 {
	m := v.Mag()
	if m == 0 {
		return v
	}
	return v.Scale(1 / m)
}

// Flat drops the Y component. Distance and angle checks between agents and
// the player are done in the movement plane.
func (v Vec3) Flat() Vec3 { return Vec3{v.X, 0, v.Z} }

func (v Vec3) IsZero() bool { return v.X == 0 && v.Y == 0 && v.Z == 0 }

// Dist returns the planar distance between two points.
func Dist(a, b Vec3) float64 { return b.Flat().Sub(a.Flat()).Mag() }

// AngleBetween returns the unsigned angle in degrees between two vectors,
// measured in the XZ plane. Degrees because every field-of-view knob is
// configured in degrees.
func AngleBetween(a, b Vec3) float64 {
	a, b = a.Flat().Normalize(), b.Flat().Normalize()
	if a.IsZero() || b.IsZero() {
		return 0
	}
	d := a.Dot(b)
	if d > 1 {
		d = 1
	} else if d < -1 {
		d = -1
	}
	return math.Acos(d) * 180 / math.Pi
}

// SegmentCircleHit reports whether the segment a→b passes within radius r of
// center c, in the XZ plane. Used for straight-line occlusion queries.
func SegmentCircleHit(a, b, c Vec3, r float64) bool {
	ab := b.Flat().Sub(a.Flat())
	ac := c.Flat().Sub(a.Flat())
	lenSq := ab.MagSq()
	t := 0.0
	if lenSq > 0 {
		t = ac.Dot(ab) / lenSq
	}
	if t < 0 {
		t = 0
	} else if t > 1 {
		t = 1
	}
	closest := a.Flat().Add(ab.Scale(t))
	return c.Flat().Sub(closest).MagSq() <= r*r
}

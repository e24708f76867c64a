package core

import "math"

// PullFalloff is the exponent of the radial pull curve.
const PullFalloff = 1.5

// Pull is the result of a radial attraction query.
type Pull struct {
	Force     Vec2    // Force vector pointing from target towards source
	Intensity float64 // Normalized strength in [0, 1]
}

// PullIntensity returns (1 - d/r)^1.5 for 0 < d <= r and 0 otherwise.
func PullIntensity(dist, radius float64) float64 {
	if radius <= 0 || dist <= 0 || dist > radius {
		return 0
	}
	return math.Pow(1-dist/radius, PullFalloff)
}

// PullForce computes the attraction a well at source exerts on target.
// Outside the radius or at zero distance the result is the zero Pull.
func PullForce(source, target Vec2, radius, strength float64) Pull {
	d := source.Sub(target)
	dist := d.Len()
	intensity := PullIntensity(dist, radius)
	if intensity == 0 {
		return Pull{}
	}
	k := strength * intensity / dist
	return Pull{
		Force:     Vec2{X: d.X * k, Y: d.Y * k},
		Intensity: intensity,
	}
}

// Impulse returns the velocity change for the pull applied over dt seconds.
func (p Pull) Impulse(dt float64) Vec2 {
	return p.Force.Scale(dt)
}

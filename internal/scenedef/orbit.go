package scenedef

import (
	"github.com/chewxy/math32"
)

const (
	minBeta   = 0.01
	maxBeta   = math32.Pi - 0.01
	minRadius = 1
	maxRadius = 100
)

// Orbit is the live state of an arc-rotate camera.
type Orbit struct {
	Alpha, Beta, Radius float32
	Target              [3]float32
}

// NewOrbit starts an orbit at the camera's configured angles.
func NewOrbit(c Camera) Orbit {
	o := Orbit{Alpha: c.Alpha, Beta: c.Beta, Radius: c.Radius, Target: c.Target}
	o.clamp()
	return o
}

// Position returns the eye position: Target + Radius*(cos a sin b, cos b, sin a sin b).
func (o Orbit) Position() [3]float32 {
	sa, ca := math32.Sincos(o.Alpha)
	sb, cb := math32.Sincos(o.Beta)
	return [3]float32{
		o.Target[0] + o.Radius*ca*sb,
		o.Target[1] + o.Radius*cb,
		o.Target[2] + o.Radius*sa*sb,
	}
}

// Rotate turns the eye by the given angles; Beta stays clear of the poles.
func (o *Orbit) Rotate(dAlpha, dBeta float32) {
	o.Alpha += dAlpha
	o.Beta += dBeta
	o.clamp()
}

// Zoom moves the eye toward (negative) or away from the target.
func (o *Orbit) Zoom(d float32) {
	o.Radius += d
	o.clamp()
}

func (o *Orbit) clamp() {
	o.Beta = min(max(o.Beta, minBeta), maxBeta)
	o.Radius = min(max(o.Radius, minRadius), maxRadius)
}

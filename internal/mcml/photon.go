package mcml

import (
	"fmt"
	"math"
)

// Status is the life-cycle state of a photon packet.
type Status uint8

const (
	Alive          Status = iota // still random-walking
	Transmitted                  // escaped through the surface
	RouletteKilled               // lost the survival roulette
)

func (s Status) String() string {
	switch s {
	case Alive:
		return "alive"
	case Transmitted:
		return "transmitted"
	case RouletteKilled:
		return "roulette_killed"
	}
	return fmt.Sprintf("status(%d)", uint8(s))
}

// pendingStep is the unconsumed part of the last sampled free path.
// ok == false means a fresh path must be sampled.
type pendingStep struct {
	length Real
	ok     bool
}

// Photon is one packet of optical energy.
type Photon struct {
	Weight Real
	Loc    Location
	Dir    Direction
	Status Status
	step   pendingStep
}

// NewPhoton launches a packet of the given weight at the origin.
func NewPhoton(weight Real, dir Direction) *Photon {
	return &Photon{Weight: weight, Dir: dir}
}

func (p *Photon) String() string {
	return fmt.Sprintf("w=%g loc=(%g, %g, %g) dir=[%g, %g, %g] step=%g pending=%v status=%s",
		p.Weight, p.Loc.X, p.Loc.Y, p.Loc.Z, p.Dir.Mx, p.Dir.My, p.Dir.Mz, p.step.length, p.step.ok, p.Status)
}

// Dead reports whether the packet reached a terminal state.
func (p *Photon) Dead() bool { return p.Status != Alive }

// Pending returns the remaining step length, if any.
func (p *Photon) Pending() (Real, bool) { return p.step.length, p.step.ok }

// SetPending stores a freshly sampled step length.
func (p *Photon) SetPending(s Real) { p.step = pendingStep{length: s, ok: true} }

// Move moves the photon a distance d along its current direction.
func (p *Photon) Move(d Real) {
	if p.Dead() {
		return
	}
	p.Loc = p.Loc.Advance(p.Dir, d)
}

// consume subtracts d from the pending step; a fully used step is cleared.
func (p *Photon) consume(d Real) {
	rest := p.step.length - d
	if rest <= 0 {
		p.step = pendingStep{}
		return
	}
	p.step.length = rest
}

// DistanceToBoundary returns the distance to z = 0 along the current
// direction; +Inf when moving away from or parallel to the surface.
func (p *Photon) DistanceToBoundary() Real {
	if p.Dir.Mz >= 0 {
		return math.Inf(1)
	}
	return (0 - p.Loc.Z) / p.Dir.Mz
}

// HitsBoundary reports whether the surface is reached before the pending step ends.
func (p *Photon) HitsBoundary(db Real) bool {
	return p.step.ok && db <= p.step.length
}

// AngleOfIncidence returns the local angle of incidence on the surface.
func (p *Photon) AngleOfIncidence() Real {
	return math.Acos(math.Min(1, math.Abs(p.Dir.Mz)))
}

// AbsorbedWeight returns the part of the weight absorbed at an interaction site.
func (p *Photon) AbsorbedWeight(ma, mt Real) Real {
	return (ma / mt) * p.Weight
}

// Reflectance returns the Fresnel reflectance from the medium the photon is
// in (ni) to the next medium (nt) at the current angle of incidence.
func (p *Photon) Reflectance(ni, nt Real) Real {
	return Reflectance(ni, nt, p.Dir.Mz)
}

// UpdateDirection rotates the direction cosines by polar angle theta
// (given as cosTheta) and azimuth phi relative to the current direction.
func (p *Photon) UpdateDirection(cosTheta, phi Real) {
	if p.Dead() {
		return
	}
	mx, my, mz := p.Dir.Mx, p.Dir.My, p.Dir.Mz
	sinTheta := math.Sqrt(math.Max(0, 1-cosTheta*cosTheta))
	sinPhi, cosPhi := math.Sincos(phi)

	var d Direction
	if math.Abs(mz) > mzVertical {
		d = Direction{
			Mx: sinTheta * cosPhi,
			My: sinTheta * sinPhi,
			Mz: math.Copysign(cosTheta, mz),
		}
	} else {
		den := math.Sqrt(1 - mz*mz)
		d = Direction{
			Mx: sinTheta*(mx*mz*cosPhi-my*sinPhi)/den + mx*cosTheta,
			My: sinTheta*(my*mz*cosPhi+mx*sinPhi)/den + my*cosTheta,
			Mz: -den*sinTheta*cosPhi + mz*cosTheta,
		}
	}
	// keep direction unit-length
	p.Dir = d.Norm()
}

// reflect mirrors the packet at the surface.
func (p *Photon) reflect() { p.Dir.Mz = -p.Dir.Mz }

// Roulette gives a low-weight packet a 1/m chance to survive with its weight
// scaled by m. It returns true when the packet survives.
func (p *Photon) Roulette(m Real, src Source) bool {
	if p.Dead() {
		return false
	}
	if Uniform(src) <= 1/m {
		p.Weight *= m
		return true
	}
	p.Weight = 0
	p.Status = RouletteKilled
	return false
}

package mcml

import "math"

// Location is a point in the slab frame; Z is depth below the surface.
type Location struct {
	X, Y, Z Real
}

// Radius returns the distance from the z axis.
func (l Location) Radius() Real { return math.Hypot(l.X, l.Y) }

// Direction holds the direction cosines of a photon packet.
type Direction struct {
	Mx, My, Mz Real
}

// Advance lets you translate a Location by d along direction u.
func (l Location) Advance(u Direction, d Real) Location {
	return Location{l.X + u.Mx*d, l.Y + u.My*d, l.Z + u.Mz*d}
}

// Dot returns the dot product of two direction vectors.
func (a Direction) Dot(b Direction) Real {
	return a.Mx*b.Mx + a.My*b.My + a.Mz*b.Mz
}

// Len returns the Euclidean length of the direction vector.
func (a Direction) Len() Real { return math.Sqrt(a.Dot(a)) }

// Norm returns a unit-length version of the direction.
// If the vector is (near) zero, it returns the input unchanged.
func (a Direction) Norm() Direction {
	l := a.Len()
	if l == 0 {
		return a
	}
	return Direction{a.Mx / l, a.My / l, a.Mz / l}
}

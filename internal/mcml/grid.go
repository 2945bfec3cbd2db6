package mcml

import (
	"fmt"
	"math"

	"github.com/ctessum/sparse"
)

// Grid accumulates absorbed weight over (depth, radius).
//
// A has one halo row and column beyond (Nz, Nr) for the +1 corners of the
// splat, plus one spare; ZBin (indexed by radius) catches weight deeper than
// Zmax and RBin (indexed by depth) weight further out than Rmax. ZBin[Nr]
// is the catch-all for weight beyond both bounds.
type Grid struct {
	Res        Real
	Nz, Nr     int
	Zmax, Rmax Real
	A          *sparse.DenseArray // (Nz+2, Nr+2)
	ZBin       *sparse.DenseArray // (Nr+1)
	RBin       *sparse.DenseArray // (Nz+1)
}

// NewGrid allocates zeroed accumulators with cell size res.
func NewGrid(res Real, nz, nr int) *Grid {
	if nz <= 0 || nr <= 0 || !(res > 0) {
		panic("grid resolution must be positive")
	}
	g := &Grid{
		Res:  res,
		Nz:   nz,
		Nr:   nr,
		Zmax: Real(nz-1) * res,
		Rmax: Real(nr-1) * res,
		A:    sparse.ZerosDense(nz+2, nr+2),
		ZBin: sparse.ZerosDense(nr + 1),
		RBin: sparse.ZerosDense(nz + 1),
	}
	DebugLog("Created grid res=%g, Nz=%d, Nr=%d, zmax=%g, rmax=%g", res, nz, nr, g.Zmax, g.Rmax)
	return g
}

// cellIndex maps a coordinate to its lower grid line, clamped to [0, n-1].
func cellIndex(v, res Real, n int) int {
	i := int(v / res)
	if i < 0 {
		return 0
	}
	if i > n-1 {
		return n - 1
	}
	return i
}

// inverseDistance returns normalized 1/d weights for the first n distances.
// A target closer than eps receives everything.
func inverseDistance(eps Real, n int, d [4]Real) (w [4]Real) {
	for i := 0; i < n; i++ {
		if d[i] < eps {
			w[i] = 1
			return w
		}
	}
	total := 0.0
	for i := 0; i < n; i++ {
		w[i] = 1 / d[i]
		total += w[i]
	}
	for i := 0; i < n; i++ {
		w[i] /= total
	}
	return w
}

// Deposit splats absorbed weight w found at loc onto the grid or, outside
// the tracked extent, onto the garbage bins. The targeted cells always
// receive exactly w in total.
func (g *Grid) Deposit(w Real, loc Location) {
	z := loc.Z
	r := loc.Radius()
	eps := zeroDistFrac * g.Res
	outZ, outR := z > g.Zmax, r > g.Rmax

	switch {
	case outZ && outR:
		g.ZBin.AddVal(w, g.Nr)
	case outZ:
		ir := cellIndex(r, g.Res, g.Nr)
		c := inverseDistance(eps, 2, [4]Real{
			math.Abs(r - Real(ir)*g.Res),
			math.Abs(r - Real(ir+1)*g.Res),
		})
		g.ZBin.AddVal(w*c[0], ir)
		g.ZBin.AddVal(w*c[1], ir+1)
	case outR:
		iz := cellIndex(z, g.Res, g.Nz)
		c := inverseDistance(eps, 2, [4]Real{
			math.Abs(z - Real(iz)*g.Res),
			math.Abs(z - Real(iz+1)*g.Res),
		})
		g.RBin.AddVal(w*c[0], iz)
		g.RBin.AddVal(w*c[1], iz+1)
	default:
		iz := cellIndex(z, g.Res, g.Nz)
		ir := cellIndex(r, g.Res, g.Nr)
		z0, z1 := Real(iz)*g.Res, Real(iz+1)*g.Res
		r0, r1 := Real(ir)*g.Res, Real(ir+1)*g.Res
		c := inverseDistance(eps, 4, [4]Real{
			math.Hypot(z-z0, r-r0),
			math.Hypot(z-z0, r-r1),
			math.Hypot(z-z1, r-r1),
			math.Hypot(z-z1, r-r0),
		})
		g.A.AddVal(w*c[0], iz, ir)
		g.A.AddVal(w*c[1], iz, ir+1)
		g.A.AddVal(w*c[2], iz+1, ir+1)
		g.A.AddVal(w*c[3], iz+1, ir)
	}
}

// Total returns all weight held by the grid and both bins.
func (g *Grid) Total() Real {
	return g.A.Sum() + g.ZBin.Sum() + g.RBin.Sum()
}

// Compatible reports an error when o cannot be summed into g.
func (g *Grid) Compatible(o *Grid) error {
	if g.Nz != o.Nz || g.Nr != o.Nr || g.Res != o.Res {
		return fmt.Errorf("mcml: grid mismatch: (%d, %d, %g) vs (%d, %d, %g)", g.Nz, g.Nr, g.Res, o.Nz, o.Nr, o.Res)
	}
	return nil
}

// Add sums o into g elementwise.
func (g *Grid) Add(o *Grid) error {
	if err := g.Compatible(o); err != nil {
		return err
	}
	g.A.AddDense(o.A)
	g.ZBin.AddDense(o.ZBin)
	g.RBin.AddDense(o.RBin)
	return nil
}

// clone returns a deep copy of the grid.
func (g *Grid) clone() *Grid {
	c := *g
	c.A = g.A.Copy()
	c.ZBin = g.ZBin.Copy()
	c.RBin = g.RBin.Copy()
	return &c
}

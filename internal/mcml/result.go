package mcml

import (
	"fmt"
	"time"

	"gonum.org/v1/gonum/floats"
)

// Result is the output of a run: the accumulators plus the parameters and
// ledger needed to normalise them. Params.NumTrials is the number of
// packets actually traced.
type Result struct {
	Params  Params
	Rsp     Real
	Grid    *Grid
	Tally   Tally
	Elapsed time.Duration
}

// Add sums an independent run o into r. Both runs must share the physics
// and the grid; only trial counts, seeds and timings may differ.
func (r *Result) Add(o *Result) error {
	a, b := r.Params, o.Params
	a.NumTrials, b.NumTrials = 0, 0
	a.Seed, b.Seed = 0, 0
	if a != b {
		return fmt.Errorf("mcml: cannot add results of different configurations: %+v vs %+v", a, b)
	}
	if err := r.Grid.Add(o.Grid); err != nil {
		return err
	}
	r.Tally.Add(&o.Tally)
	r.Params.NumTrials += o.Params.NumTrials
	if o.Elapsed > r.Elapsed {
		r.Elapsed = o.Elapsed
	}
	return nil
}

// ConservationError is |grid total - tallied absorbed weight|.
func (r *Result) ConservationError() Real {
	d := r.Grid.Total() - r.Tally.Absorbed
	if d < 0 {
		return -d
	}
	return d
}

// DepthProfile sums A over radius for each of the Nz tracked depths.
func (r *Result) DepthProfile() []Real {
	g := r.Grid
	cols := g.A.Shape[1]
	out := make([]Real, g.Nz)
	for iz := range out {
		out[iz] = floats.Sum(g.A.Elements[iz*cols : (iz+1)*cols])
	}
	return out
}

// Depths returns the depth of each grid line, iz*Res.
func (r *Result) Depths() []Real {
	out := make([]Real, r.Grid.Nz)
	for iz := range out {
		out[iz] = Real(iz) * r.Grid.Res
	}
	return out
}

// Fluence normalises the depth profile by trials, cell size and ma.
func (r *Result) Fluence() []Real {
	f := r.DepthProfile()
	n := Real(r.Params.NumTrials)
	if n == 0 {
		return f
	}
	floats.Scale(1/(n*r.Grid.Res*r.Params.Ma), f)
	return f
}

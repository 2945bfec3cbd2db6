package mcml

import (
	"math/rand"
	"testing"
)

func TestDepositConservesWeight(t *testing.T) {
	g := NewGrid(0.1, 10, 5)
	locs := []Location{
		{0, 0, 0},                  // origin, exact grid point
		{0.03, 0.04, 0.27},         // interior
		{0.05, 0, 0.95},            // beyond zmax, inside rmax
		{0.7, 0.2, 0.33},           // beyond rmax, inside zmax
		{1, 1, 5},                  // beyond both
		{0, 0.4, 0.9},              // on both edges
		{0.399999999, 0, 0.899999}, // just inside both edges
	}
	for _, loc := range locs {
		before := g.Total()
		g.Deposit(0.37, loc)
		if d := g.Total() - before; !approxEqual(d, 0.37, 1e-12) {
			t.Fatalf("loc %+v: deposited %.15g, want 0.37", loc, d)
		}
	}
}

func TestDepositRandomConservation(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	g := NewGrid(0.05, 20, 7)
	total := 0.0
	for i := 0; i < 100000; i++ {
		w := rng.Float64()
		g.Deposit(w, Location{rng.NormFloat64() * 0.3, rng.NormFloat64() * 0.3, rng.Float64() * 1.5})
		total += w
	}
	if !approxEqual(g.Total(), total, 1e-9*total) {
		t.Fatalf("grid holds %.15g, deposited %.15g", g.Total(), total)
	}
}

func TestDepositExactGridPoint(t *testing.T) {
	g := NewGrid(0.5, 10, 10)
	g.Deposit(2, Location{X: 1.5, Z: 1})
	if v := g.A.Get(2, 3); v != 2 {
		t.Fatalf("A[2,3]=%g, want all weight on the grid point", v)
	}
	if s := g.A.Sum(); s != 2 {
		t.Fatalf("A sum=%g", s)
	}
}

func TestDepositBins(t *testing.T) {
	g := NewGrid(0.5, 4, 4) // zmax = rmax = 1.5

	g.Deposit(1, Location{X: 10, Z: 10})
	if v := g.ZBin.Get(4); v != 1 {
		t.Fatalf("beyond both extents: ZBin[last]=%g, want 1", v)
	}
	if g.RBin.Sum() != 0 || g.A.Sum() != 0 {
		t.Fatal("beyond both extents must only hit ZBin")
	}

	g = NewGrid(0.5, 4, 4)
	g.Deposit(1, Location{X: 0.25, Z: 3}) // halfway between r lines 0 and 1
	if a, b := g.ZBin.Get(0), g.ZBin.Get(1); !approxEqual(a, 0.5, 1e-12) || !approxEqual(b, 0.5, 1e-12) {
		t.Fatalf("ZBin split %g / %g, want 0.5 / 0.5", a, b)
	}

	g = NewGrid(0.5, 4, 4)
	g.Deposit(1, Location{X: 3, Z: 1.5}) // on the last depth line
	if v := g.RBin.Get(3); v != 1 {
		t.Fatalf("RBin[3]=%g, want 1", v)
	}

	// only weight beyond both extents reaches ZBin[last]; r == rmax indexes
	// it with zero weight
	g = NewGrid(0.5, 4, 4)
	g.Deposit(1, Location{X: 1.5, Z: 3})
	g.Deposit(1, Location{X: 1.49, Z: 3})
	if v := g.ZBin.Get(4); v != 0 {
		t.Fatalf("in-range radius reached ZBin[last]: %g", v)
	}
	if v := g.ZBin.Get(2) + g.ZBin.Get(3); !approxEqual(v, 2, 1e-12) {
		t.Fatalf("ZBin[2]+ZBin[3]=%g, want 2", v)
	}
}

func TestDepositInverseDistance(t *testing.T) {
	g := NewGrid(1, 4, 4)
	g.Deposit(1, Location{X: 0.5, Z: 0.5}) // cell centre, all corners equidistant
	for _, idx := range [][2]int{{0, 0}, {0, 1}, {1, 1}, {1, 0}} {
		if v := g.A.Get(idx[0], idx[1]); !approxEqual(v, 0.25, 1e-12) {
			t.Fatalf("A%v=%g, want 0.25", idx, v)
		}
	}
	g = NewGrid(1, 4, 4)
	g.Deposit(1, Location{X: 0.25, Z: 0})
	// on the z=0 line: the near r line gets 3x the weight of the far one
	near, far := g.A.Get(0, 0), g.A.Get(0, 1)
	if !approxEqual(near, 3*far, 1e-12) {
		t.Fatalf("near=%g far=%g", near, far)
	}
}

func TestGridAdd(t *testing.T) {
	a, b := NewGrid(0.1, 5, 5), NewGrid(0.1, 5, 5)
	a.Deposit(1, Location{0.05, 0, 0.12})
	b.Deposit(2, Location{0.3, 0.1, 0.2})
	b.Deposit(3, Location{5, 5, 5})
	c := a.clone()
	if err := c.Add(b); err != nil {
		t.Fatal(err)
	}
	if !approxEqual(c.Total(), 6, 1e-12) {
		t.Fatalf("sum=%g, want 6", c.Total())
	}
	if !approxEqual(a.Total(), 1, 1e-12) {
		t.Fatal("clone must not alias its source")
	}
	if err := c.Add(NewGrid(0.1, 6, 5)); err == nil {
		t.Fatal("expected shape mismatch error")
	}
}

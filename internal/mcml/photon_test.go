package mcml

import (
	"math"
	"math/rand"
	"testing"
)

func TestUpdateDirectionStaysUnit(t *testing.T) {
	rng := rand.New(rand.NewSource(4))
	for _, g := range []Real{0, 0.9, -0.7} {
		p := NewPhoton(1, Direction{0, 0, 1})
		for i := 0; i < 100000; i++ {
			p.UpdateDirection(SampleScatterCosine(g, rng), SampleAzimuth(rng))
			if l := p.Dir.Len(); !approxEqual(l, 1, 1e-9) {
				t.Fatalf("g=%g step %d: |dir|=%.15g", g, i, l)
			}
		}
	}
}

func TestUpdateDirectionScatteringAngle(t *testing.T) {
	rng := rand.New(rand.NewSource(5))
	p := NewPhoton(1, Direction{0.6, 0, 0.8})
	for i := 0; i < 1000; i++ {
		before := p.Dir
		cosT := SampleScatterCosine(0.5, rng)
		p.UpdateDirection(cosT, SampleAzimuth(rng))
		if before.Mz > mzVertical || before.Mz < -mzVertical {
			continue
		}
		if d := before.Dot(p.Dir); !approxEqual(d, cosT, 1e-9) {
			t.Fatalf("angle between old and new direction: cos=%g, want %g", d, cosT)
		}
	}
}

func TestUpdateDirectionVertical(t *testing.T) {
	p := NewPhoton(1, Direction{0, 0, -1})
	p.UpdateDirection(0.5, 0)
	want := Direction{math.Sqrt(0.75), 0, -0.5}
	if !approxEqual(p.Dir.Mx, want.Mx, 1e-12) || p.Dir.My != 0 || !approxEqual(p.Dir.Mz, want.Mz, 1e-12) {
		t.Fatalf("got %+v, want %+v", p.Dir, want)
	}
	p = NewPhoton(1, Direction{0, 0, 1})
	p.UpdateDirection(1, 1.3)
	if p.Dir != (Direction{0, 0, 1}) {
		t.Fatalf("forward scatter changed direction: %+v", p.Dir)
	}
}

func TestRouletteSurviveAndKill(t *testing.T) {
	p := NewPhoton(1e-5, Direction{0, 0, 1})
	if !p.Roulette(10, &seqSource{vals: []float64{0.05}}) {
		t.Fatal("xi=0.05 <= 1/m must survive")
	}
	if !approxEqual(p.Weight, 1e-4, 1e-18) || p.Dead() {
		t.Fatalf("survivor weight=%g status=%s", p.Weight, p.Status)
	}
	if p.Roulette(10, &seqSource{vals: []float64{0.5}}) {
		t.Fatal("xi=0.5 > 1/m must be killed")
	}
	if p.Weight != 0 || p.Status != RouletteKilled || !p.Dead() {
		t.Fatalf("killed packet: weight=%g status=%s", p.Weight, p.Status)
	}
}

func TestRouletteSurvivalRate(t *testing.T) {
	rng := rand.New(rand.NewSource(6))
	const n = 100000
	alive := 0
	for i := 0; i < n; i++ {
		p := NewPhoton(1e-5, Direction{0, 0, 1})
		if p.Roulette(10, rng) {
			alive++
		}
	}
	if rate := Real(alive) / n; !approxEqual(rate, 0.1, 0.005) {
		t.Fatalf("survival rate %g, want ≈0.1", rate)
	}
}

func TestDeadPhotonDoesNotMove(t *testing.T) {
	p := NewPhoton(1, Direction{0, 0, 1})
	p.Status = Transmitted
	p.Move(3)
	p.UpdateDirection(0, 0)
	if p.Loc != (Location{}) || p.Dir != (Direction{0, 0, 1}) {
		t.Fatalf("dead photon changed: %s", p)
	}
}

func TestDistanceToBoundary(t *testing.T) {
	p := NewPhoton(1, Direction{0, 0.6, -0.8})
	p.Loc = Location{Z: 1.6}
	if d := p.DistanceToBoundary(); !approxEqual(d, 2, 1e-12) {
		t.Fatalf("distance=%g, want 2", d)
	}
	p.Dir = Direction{1, 0, 0}
	if d := p.DistanceToBoundary(); !math.IsInf(d, 1) {
		t.Fatalf("parallel direction: distance=%g, want +Inf", d)
	}
}

func TestPendingStep(t *testing.T) {
	p := NewPhoton(1, Direction{0, 0, -1})
	p.Loc.Z = 0.5
	if _, ok := p.Pending(); ok {
		t.Fatal("new photon must have no pending step")
	}
	if p.HitsBoundary(0) {
		t.Fatal("no pending step means no boundary hit")
	}
	p.SetPending(0.8)
	db := p.DistanceToBoundary()
	if !p.HitsBoundary(db) {
		t.Fatalf("step 0.8 must reach the surface at %g", db)
	}
	p.consume(db)
	if l, ok := p.Pending(); !ok || !approxEqual(l, 0.3, 1e-12) {
		t.Fatalf("remaining step=%g ok=%v, want 0.3", l, ok)
	}
	p.consume(0.5)
	if _, ok := p.Pending(); ok {
		t.Fatal("fully consumed step must be cleared")
	}
}

func TestStatusString(t *testing.T) {
	for s, want := range map[Status]string{Alive: "alive", Transmitted: "transmitted", RouletteKilled: "roulette_killed", Status(9): "status(9)"} {
		if got := s.String(); got != want {
			t.Fatalf("%d: %q, want %q", s, got, want)
		}
	}
}

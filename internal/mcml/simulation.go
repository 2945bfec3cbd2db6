package mcml

import (
	"context"
	"math/rand"
	"time"

	"github.com/sirupsen/logrus"
)

// Simulation owns the parameters, the accumulators and the random stream of
// one sequential run. It must not be shared between goroutines.
type Simulation struct {
	Params Params
	Rsp    Real // specular reflectance charged at launch
	Grid   *Grid
	Tally  Tally
	src    Source
	dir    Direction // launch direction inside the slab
}

// NewSimulation validates p and allocates zeroed grids. When src is nil a
// math/rand generator seeded with p.Seed (or the clock, if zero) is used.
func NewSimulation(p Params, src Source) (*Simulation, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	if src == nil {
		seed := p.Seed
		if seed == 0 {
			seed = time.Now().UnixNano()
		}
		src = rand.New(rand.NewSource(seed))
	}
	rsp, dir := p.Launch()
	s := &Simulation{
		Params: p,
		Rsp:    rsp,
		Grid:   NewGrid(p.Res, p.Nz, p.Nr),
		src:    src,
		dir:    dir,
	}
	DebugLog("Created simulation %+v, Rsp=%g, launch dir=%+v", p, rsp, dir)
	return s, nil
}

// Launch creates the next packet, already reduced by the specular loss.
func (s *Simulation) Launch() *Photon {
	p := NewPhoton(1-s.Rsp, s.dir)
	s.Tally.Photons++
	s.Tally.Launched += p.Weight
	s.Tally.Specular += s.Rsp
	return p
}

// Step advances p by one boundary or interaction event.
func (s *Simulation) Step(p *Photon) {
	if p.Dead() {
		return
	}
	if _, ok := p.Pending(); !ok {
		p.SetPending(SampleFreePath(s.Params.Mt(), s.src))
	}

	db := p.DistanceToBoundary()
	if p.HitsBoundary(db) {
		s.Tally.count(Boundary)
		p.Move(db)
		p.consume(db)
		p.Loc.Z = 0 // snap to the surface
		ri := p.Reflectance(s.Params.N1, s.Params.N0)
		if ri == 1 {
			DebugLogOnce("total internal reflection: %s, alpha=%g", p, p.AngleOfIncidence())
		}
		if Uniform(s.src) <= ri {
			p.reflect()
			s.Tally.count(Reflect)
			return
		}
		s.Tally.Transmitted += p.Weight
		s.Tally.count(Transmit)
		p.Status = Transmitted
		if Debug {
			DebugLog("transmitted: %s, alpha=%g, Ri=%g", p, p.AngleOfIncidence(), ri)
		}
		return
	}

	s.Tally.count(Interact)
	l, _ := p.Pending()
	p.Move(l)
	p.consume(l)

	dw := p.AbsorbedWeight(s.Params.Ma, s.Params.Mt())
	p.Weight -= dw
	s.Grid.Deposit(dw, p.Loc)
	s.Tally.Absorbed += dw

	cosTheta := SampleScatterCosine(s.Params.G, s.src)
	phi := SampleAzimuth(s.src)
	p.UpdateDirection(cosTheta, phi)
}

// Trace runs p until it is transmitted or killed by the roulette.
func (s *Simulation) Trace(p *Photon) {
	for {
		s.Step(p)
		if p.Dead() {
			return
		}
		if p.Weight >= s.Params.Wth {
			continue
		}
		w := p.Weight
		if p.Roulette(s.Params.M, s.src) {
			s.Tally.RouletteGained += p.Weight - w
			s.Tally.count(Survive)
			continue
		}
		s.Tally.RouletteLost += w
		s.Tally.count(Kill)
		return
	}
}

// Run traces Params.NumTrials packets. Cancelling ctx stops launching new
// packets; the partial result is still returned, together with ctx.Err().
// Calling Run again keeps accumulating into the same grids.
func (s *Simulation) Run(ctx context.Context) (*Result, error) {
	return s.run(ctx, nil)
}

func (s *Simulation) run(ctx context.Context, onPhoton func()) (*Result, error) {
	start := time.Now()
	Log.WithFields(logrus.Fields{
		"trials": s.Params.NumTrials,
		"n0":     s.Params.N0,
		"n1":     s.Params.N1,
		"rsp":    s.Rsp,
	}).Debug("simulation started")

	var err error
	done := 0
	for ; done < s.Params.NumTrials; done++ {
		if done&ctxCheckMask == 0 {
			if err = ctx.Err(); err != nil {
				break
			}
		}
		s.Trace(s.Launch())
		if onPhoton != nil {
			onPhoton()
		}
	}
	return s.result(time.Since(start)), err
}

func (s *Simulation) result(elapsed time.Duration) *Result {
	p := s.Params
	p.NumTrials = s.Tally.Photons
	return &Result{
		Params:  p,
		Rsp:     s.Rsp,
		Grid:    s.Grid,
		Tally:   s.Tally,
		Elapsed: elapsed,
	}
}

// Run is the pure entry point: trace p.NumTrials independent packets
// against p and return the accumulated grids.
func Run(ctx context.Context, p Params) (*Result, error) {
	s, err := NewSimulation(p, nil)
	if err != nil {
		return nil, err
	}
	return s.Run(ctx)
}

package mcml

import "fmt"

type Category uint8

const (
	Interact  Category = iota // interior step: absorb + scatter
	Boundary                  // step reached the surface
	Reflect                   // internally reflected at the surface
	Transmit                  // escaped through the surface
	Survive                   // won the roulette
	Kill                      // lost the roulette
	numCategories
)

var categoryNames = [numCategories]string{"interact", "boundary", "reflect", "transmit", "survive", "kill"}

func (c Category) String() string {
	if c < numCategories {
		return categoryNames[c]
	}
	return fmt.Sprintf("category(%d)", uint8(c))
}

// Tally is the energy and event ledger of one run. All weights are in
// photon-packet units.
type Tally struct {
	Photons        int                   // packets launched
	Launched       Real                  // weight entering the medium, sum of 1 - Rsp
	Specular       Real                  // weight reflected at entry
	Absorbed       Real                  // weight deposited into the grid
	Transmitted    Real                  // weight carried out through the surface
	RouletteLost   Real                  // weight removed by lost roulettes
	RouletteGained Real                  // weight added by won roulettes
	Events         [numCategories]uint64 // event counts by Category
}

func (t *Tally) count(c Category) { t.Events[c]++ }

// Add accumulates o into t.
func (t *Tally) Add(o *Tally) {
	t.Photons += o.Photons
	t.Launched += o.Launched
	t.Specular += o.Specular
	t.Absorbed += o.Absorbed
	t.Transmitted += o.Transmitted
	t.RouletteLost += o.RouletteLost
	t.RouletteGained += o.RouletteGained
	for i := range t.Events {
		t.Events[i] += o.Events[i]
	}
}

// Residual is launched + gained - lost - absorbed - transmitted, zero up to
// rounding for a complete run.
func (t *Tally) Residual() Real {
	return t.Launched + t.RouletteGained - t.RouletteLost - t.Absorbed - t.Transmitted
}

// Log writes the event counts through Log.
func (t *Tally) Log() {
	for c := Category(0); c < numCategories; c++ {
		Log.Infof("Event type %s: %d", c, t.Events[c])
	}
}

package mcml

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/ctessum/cdf"
	"github.com/ctessum/sparse"
)

// NetCDF global attributes holding scalar run metadata.
var cdfFloatAttrs = []string{
	"n0", "n1", "ma", "ms", "g", "wth", "m", "res", "incident_angle", "trials",
	"rsp", "launched", "specular", "absorbed", "transmitted",
	"roulette_lost", "roulette_gained", "elapsed_seconds",
}

func cdfFloats(r *Result) map[string]Real {
	p := r.Params
	return map[string]Real{
		"n0": p.N0, "n1": p.N1, "ma": p.Ma, "ms": p.Ms, "g": p.G,
		"wth": p.Wth, "m": p.M, "res": p.Res, "incident_angle": p.IncidentAngle,
		"trials":          Real(p.NumTrials),
		"rsp":             r.Rsp,
		"launched":        r.Tally.Launched,
		"specular":        r.Tally.Specular,
		"absorbed":        r.Tally.Absorbed,
		"transmitted":     r.Tally.Transmitted,
		"roulette_lost":   r.Tally.RouletteLost,
		"roulette_gained": r.Tally.RouletteGained,
		"elapsed_seconds": r.Elapsed.Seconds(),
	}
}

// SaveCDF writes r as a NetCDF file with variables A(z, r), zgb(zbin) and
// rgb(rbin) and the parameters as global attributes.
func SaveCDF(path string, r *Result) error {
	g := r.Grid
	h := cdf.NewHeader(
		[]string{"z", "r", "zbin", "rbin"},
		[]int{g.Nz + 2, g.Nr + 2, g.Nr + 1, g.Nz + 1})
	h.AddAttribute("", "title", "MCML absorbed weight in a homogeneous slab")
	h.AddAttribute("", "nz", []int32{int32(g.Nz)})
	h.AddAttribute("", "nr", []int32{int32(g.Nr)})
	h.AddAttribute("", "seed", strconv.FormatInt(r.Params.Seed, 10))
	vals := cdfFloats(r)
	for _, name := range cdfFloatAttrs {
		h.AddAttribute("", name, []float64{vals[name]})
	}
	h.AddVariable(KindA, []string{"z", "r"}, []float64{0})
	h.AddAttribute(KindA, "description", "photon weight absorbed, splatted onto (depth, radius) grid lines")
	h.AddVariable(KindZBin, []string{"zbin"}, []float64{0})
	h.AddAttribute(KindZBin, "description", "weight absorbed deeper than the grid, by radius")
	h.AddVariable(KindRBin, []string{"rbin"}, []float64{0})
	h.AddAttribute(KindRBin, "description", "weight absorbed beyond the grid radius, by depth")
	h.Define()
	if errs := h.Check(); len(errs) > 0 {
		return fmt.Errorf("mcml: invalid NetCDF header: %v", errs[0])
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	ff, err := os.Create(path)
	if err != nil {
		return err
	}
	defer ff.Close()
	f, err := cdf.Create(ff, h) // writes the header to ff
	if err != nil {
		return err
	}
	for name, data := range map[string]*sparse.DenseArray{KindA: g.A, KindZBin: g.ZBin, KindRBin: g.RBin} {
		if err := writeCDFVar(f, name, data); err != nil {
			return err
		}
	}
	if err := cdf.UpdateNumRecs(ff); err != nil {
		return err
	}
	return ff.Close()
}

func writeCDFVar(f *cdf.File, name string, data *sparse.DenseArray) error {
	end := f.Header.Lengths(name)
	start := make([]int, len(end))
	w := f.Writer(name, start, end)
	if _, err := w.Write(data.Elements); err != nil {
		return fmt.Errorf("mcml: writing %s: %w", name, err)
	}
	return nil
}

func readCDFVar(f *cdf.File, name string, data *sparse.DenseArray) error {
	end := f.Header.Lengths(name)
	n := 1
	for _, l := range end {
		n *= l
	}
	if n != len(data.Elements) {
		return fmt.Errorf("mcml: variable %s has %d values, want %d", name, n, len(data.Elements))
	}
	start := make([]int, len(end))
	r := f.Reader(name, start, end)
	if _, err := r.Read(data.Elements); err != nil {
		return fmt.Errorf("mcml: reading %s: %w", name, err)
	}
	return nil
}

// LoadCDF reads a file written by SaveCDF.
func LoadCDF(path string) (*Result, error) {
	ff, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer ff.Close()
	f, err := cdf.Open(ff)
	if err != nil {
		return nil, fmt.Errorf("mcml: opening %s: %w", path, err)
	}

	vals := make(map[string]Real, len(cdfFloatAttrs))
	for _, name := range cdfFloatAttrs {
		v, ok := f.Header.GetAttribute("", name).([]float64)
		if !ok || len(v) != 1 {
			return nil, fmt.Errorf("mcml: %s: missing attribute %q", path, name)
		}
		vals[name] = v[0]
	}
	var dims [2]int
	for i, name := range []string{"nz", "nr"} {
		v, ok := f.Header.GetAttribute("", name).([]int32)
		if !ok || len(v) != 1 || v[0] < 1 {
			return nil, fmt.Errorf("mcml: %s: missing or invalid attribute %q", path, name)
		}
		dims[i] = int(v[0])
	}
	var seed int64
	if s, ok := f.Header.GetAttribute("", "seed").(string); ok {
		if seed, err = strconv.ParseInt(s, 10, 64); err != nil {
			return nil, fmt.Errorf("mcml: %s: bad seed %q", path, s)
		}
	}
	if vals["res"] <= 0 {
		return nil, fmt.Errorf("mcml: %s: non-positive res %g", path, vals["res"])
	}

	p := Params{
		NumTrials: int(vals["trials"]),
		N0:        vals["n0"], N1: vals["n1"],
		Ma: vals["ma"], Ms: vals["ms"], G: vals["g"],
		Wth: vals["wth"], M: vals["m"], Res: vals["res"],
		Nz: dims[0], Nr: dims[1],
		IncidentAngle: vals["incident_angle"],
		Seed:          seed,
	}
	r := &Result{
		Params:  p,
		Rsp:     vals["rsp"],
		Grid:    NewGrid(p.Res, p.Nz, p.Nr),
		Elapsed: time.Duration(vals["elapsed_seconds"] * Real(time.Second)),
		Tally: Tally{
			Photons:        p.NumTrials,
			Launched:       vals["launched"],
			Specular:       vals["specular"],
			Absorbed:       vals["absorbed"],
			Transmitted:    vals["transmitted"],
			RouletteLost:   vals["roulette_lost"],
			RouletteGained: vals["roulette_gained"],
		},
	}
	for name, data := range map[string]*sparse.DenseArray{KindA: r.Grid.A, KindZBin: r.Grid.ZBin, KindRBin: r.Grid.RBin} {
		if err := readCDFVar(f, name, data); err != nil {
			return nil, err
		}
	}
	return r, nil
}

package mcml

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestExperimentRun(t *testing.T) {
	base := fastParams()
	base.Nz, base.Nr = 20, 10
	e := &Experiment{
		Base:              base,
		PhotonCounts:      []int{50, 200},
		RefractiveIndices: []Real{1, 1.37},
		Workers:           2,
		OutputDir:         t.TempDir(),
		Raw:               true,
		Plot:              true,
	}
	dir, err := e.Run(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if _, err := time.Parse(TimeLayout, filepath.Base(dir)); err != nil {
		t.Fatalf("output directory %q is not timestamped: %v", dir, err)
	}

	md, err := ReadMetadata(filepath.Join(dir, MetadataFile))
	if err != nil {
		t.Fatal(err)
	}
	if len(md.Runs) != 4 {
		t.Fatalf("metadata lists %d runs, want 4", len(md.Runs))
	}
	if md.Base != base || md.TotalRuntime <= 0 {
		t.Fatalf("metadata header %+v", md)
	}
	for _, r := range md.Runs {
		if r.NumPackets != 50 && r.NumPackets != 200 {
			t.Fatalf("unexpected run %+v", r)
		}
		if r.GridMismatch > 1e-9*(r.Absorbed+1) {
			t.Fatalf("run %s: grid total off by %g", r.File, r.GridMismatch)
		}
		if len(r.Events) != int(numCategories) {
			t.Fatalf("run %s: %d event counters", r.File, len(r.Events))
		}
		loaded, err := Load(filepath.Join(dir, r.File))
		if err != nil {
			t.Fatal(err)
		}
		if loaded.Params.NumTrials != r.NumPackets || loaded.Params.N1 != r.N1 {
			t.Fatalf("%s holds %+v", r.File, loaded.Params)
		}
	}
	for _, name := range []string{
		"A_50packets_1-0n0_1-37n1" + ExtRaw,
		"A_200packets_1-0n0_1-0n1" + ExtCDF,
		"fluence_50packets.png",
		"fluence_200packets.png",
	} {
		if _, err := os.Stat(filepath.Join(dir, name)); err != nil {
			t.Fatalf("missing output: %v", err)
		}
	}
}

func TestExperimentValidatesBeforeRunning(t *testing.T) {
	out := t.TempDir()
	base := fastParams()
	e := &Experiment{
		Base:              base,
		PhotonCounts:      []int{10},
		RefractiveIndices: []Real{1.37, -1},
		OutputDir:         out,
	}
	if _, err := e.Run(context.Background()); err == nil {
		t.Fatal("expected validation error")
	}
	entries, err := os.ReadDir(out)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 0 {
		t.Fatalf("invalid sweep must not create output, found %d entries", len(entries))
	}
	if _, err := (&Experiment{Base: base}).Run(context.Background()); err == nil {
		t.Fatal("expected error without photon counts")
	}
}

func TestPlotFluence(t *testing.T) {
	res := smallResult(t)
	path := filepath.Join(t.TempDir(), "fluence.png")
	if err := PlotFluence(path, "test", []FluenceSeries{{Label: "n1=1.37", Result: res}}); err != nil {
		t.Fatal(err)
	}
	if fi, err := os.Stat(path); err != nil || fi.Size() == 0 {
		t.Fatalf("plot not written: %v", err)
	}
	empty := &Result{Params: res.Params, Grid: NewGrid(res.Params.Res, res.Params.Nz, res.Params.Nr)}
	if err := PlotFluence(path, "empty", []FluenceSeries{{Label: "empty", Result: empty}}); err == nil {
		t.Fatal("expected error when nothing is positive")
	}
}

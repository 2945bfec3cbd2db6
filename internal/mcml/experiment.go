package mcml

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/sirupsen/logrus"
)

// Experiment sweeps packet counts, slab indices and incidence angles over
// a base configuration and stores every run in a timestamped directory.
type Experiment struct {
	Base              Params
	PhotonCounts      []int
	RefractiveIndices []Real // slab indices n1; empty means Base.N1
	IncidentAnglesDeg []Real // empty means Base.IncidentAngle
	Workers           int
	OutputDir         string
	Raw               bool // also write zstd dumps
	Plot              bool // one fluence figure per packet count
}

// Run executes all runs in order (angle, n1, packet count) and returns the
// directory holding results, metadata and figures. On error the directory
// keeps whatever was written so far.
func (e *Experiment) Run(ctx context.Context) (string, error) {
	if len(e.PhotonCounts) == 0 {
		return "", errors.New("mcml: experiment needs at least one photon count")
	}
	n1s := e.RefractiveIndices
	if len(n1s) == 0 {
		n1s = []Real{e.Base.N1}
	}
	angles := e.IncidentAnglesDeg
	if len(angles) == 0 {
		angles = []Real{Degrees(e.Base.IncidentAngle)}
	}
	// Validate the whole sweep before spending time on it.
	var runs []Params
	for _, angle := range angles {
		for _, n1 := range n1s {
			for _, n := range e.PhotonCounts {
				p := e.Base
				p.NumTrials = n
				p.N1 = n1
				p.IncidentAngle = Radians(angle)
				if err := p.Validate(); err != nil {
					return "", fmt.Errorf("run n1=%g angle=%g packets=%d: %w", n1, angle, n, err)
				}
				runs = append(runs, p)
			}
		}
	}

	start := time.Now()
	dir := filepath.Join(e.OutputDir, start.Format(TimeLayout))
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	Log.WithFields(logrus.Fields{"runs": len(runs), "dir": dir}).Info("starting experiment")

	md := ExperimentMetadata{Started: start, Base: e.Base}
	series := make(map[int][]FluenceSeries)
	for i, p := range runs {
		Log.Infof("Run %d/%d: %d packets, n0=%g, n1=%g, angle=%g deg", i+1, len(runs), p.NumTrials, p.N0, p.N1, Degrees(p.IncidentAngle))
		res, err := RunParallel(ctx, p, e.Workers)
		if err != nil {
			return dir, err
		}
		name := RunName(p)
		if err := SaveCDF(filepath.Join(dir, name+ExtCDF), res); err != nil {
			return dir, err
		}
		if e.Raw {
			if err := SaveRaw(filepath.Join(dir, name+ExtRaw), res); err != nil {
				return dir, err
			}
		}
		md.Runs = append(md.Runs, newRunMetadata(name+ExtCDF, res, e.Workers))
		Log.Infof("Run %d/%d done in %s, residual %g", i+1, len(runs), res.Elapsed, res.Tally.Residual())
		if e.Plot {
			series[p.NumTrials] = append(series[p.NumTrials], FluenceSeries{Label: seriesLabel(p), Result: res})
		}
	}
	md.TotalRuntime = time.Since(start).Seconds()
	if err := WriteMetadata(filepath.Join(dir, MetadataFile), &md); err != nil {
		return dir, err
	}

	counts := make([]int, 0, len(series))
	for n := range series {
		counts = append(counts, n)
	}
	sort.Ints(counts)
	for _, n := range counts {
		path := filepath.Join(dir, fmt.Sprintf("fluence_%dpackets.png", n))
		if err := PlotFluence(path, fmt.Sprintf("Fluence, %d packets", n), series[n]); err != nil {
			return dir, err
		}
	}
	Log.Infof("Experiment finished in %s", time.Since(start))
	return dir, nil
}

func seriesLabel(p Params) string {
	if p.IncidentAngle == 0 {
		return fmt.Sprintf("n1=%g", p.N1)
	}
	return fmt.Sprintf("n1=%g, %g deg", p.N1, Degrees(p.IncidentAngle))
}

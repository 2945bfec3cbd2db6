package mcml

import (
	"os"
	"time"

	"github.com/BurntSushi/toml"
)

// RunMetadata summarises one run of an experiment.
type RunMetadata struct {
	File             string  `toml:"file"`
	NumPackets       int     `toml:"num_packets"`
	N0               Real    `toml:"n0"`
	N1               Real    `toml:"n1"`
	IncidentAngleDeg Real    `toml:"incident_angle_deg"`
	Seed             int64   `toml:"seed"`
	Workers          int     `toml:"workers"`
	Duration         Real    `toml:"duration"` // seconds
	Rsp              Real    `toml:"rsp"`
	Absorbed         Real    `toml:"absorbed"`
	Transmitted      Real    `toml:"transmitted"`
	Residual         Real    `toml:"residual"`
	GridMismatch     Real    `toml:"grid_mismatch"`
	Events           []int64 `toml:"events"`
}

// ExperimentMetadata is written next to the result files of an experiment.
type ExperimentMetadata struct {
	Started      time.Time     `toml:"started"`
	TotalRuntime Real          `toml:"total_runtime"` // seconds
	Base         Params        `toml:"base"`
	Runs         []RunMetadata `toml:"runs"`
}

func newRunMetadata(file string, r *Result, workers int) RunMetadata {
	ev := make([]int64, len(r.Tally.Events))
	for i, n := range r.Tally.Events {
		ev[i] = int64(n)
	}
	return RunMetadata{
		File:             file,
		NumPackets:       r.Params.NumTrials,
		N0:               r.Params.N0,
		N1:               r.Params.N1,
		IncidentAngleDeg: Degrees(r.Params.IncidentAngle),
		Seed:             r.Params.Seed,
		Workers:          workers,
		Duration:         r.Elapsed.Seconds(),
		Rsp:              r.Rsp,
		Absorbed:         r.Tally.Absorbed,
		Transmitted:      r.Tally.Transmitted,
		Residual:         r.Tally.Residual(),
		GridMismatch:     r.ConservationError(),
		Events:           ev,
	}
}

// WriteMetadata encodes md as TOML into path.
func WriteMetadata(path string, md *ExperimentMetadata) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	if err := toml.NewEncoder(f).Encode(md); err != nil {
		return err
	}
	return f.Close()
}

// ReadMetadata decodes a file written by WriteMetadata.
func ReadMetadata(path string) (*ExperimentMetadata, error) {
	var md ExperimentMetadata
	if _, err := toml.DecodeFile(path, &md); err != nil {
		return nil, err
	}
	return &md, nil
}

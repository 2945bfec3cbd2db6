package mcml

import (
	"fmt"
	"math"
	"path/filepath"
	"strconv"
	"strings"
)

// File kinds and extensions of saved results.
const (
	KindA        = "A"
	KindZBin     = "zgb"
	KindRBin     = "rgb"
	ExtCDF       = ".nc"
	ExtRaw       = ".bin.zst"
	MetadataFile = "metadata.toml"
	TimeLayout   = "2006-01-02+15-04-05"
)

// decimal formats v with the shortest exact digits and at least one
// fractional digit (1 -> "1.0", 1.37 -> "1.37").
func decimal(v Real) string {
	s := strconv.FormatFloat(v, 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}

// ResultName builds the conventional base name of a result array, e.g.
// A_1000packets_1-0n0_1-37n1.
func ResultName(kind string, trials int, n0, n1 Real) string {
	s := fmt.Sprintf("%s_%dpackets_%sn0_%sn1", kind, trials, decimal(n0), decimal(n1))
	return strings.ReplaceAll(s, ".", "-")
}

// RunName names the file bundle of one run; oblique launches get the
// angle in degrees appended.
func RunName(p Params) string {
	name := ResultName(KindA, p.NumTrials, p.N0, p.N1)
	if p.IncidentAngle != 0 {
		name += strings.ReplaceAll(fmt.Sprintf("_%sdeg", decimal(Degrees(p.IncidentAngle))), ".", "-")
	}
	return name
}

// Degrees converts radians to degrees, rounded to 1e-9.
func Degrees(rad Real) Real {
	return math.Round(rad*180/math.Pi*1e9) / 1e9
}

// Radians converts degrees to radians.
func Radians(deg Real) Real { return deg * math.Pi / 180 }

// Save writes r in the format selected by the path's extension.
func Save(path string, r *Result) error {
	switch {
	case strings.HasSuffix(path, ExtRaw):
		return SaveRaw(path, r)
	case filepath.Ext(path) == ExtCDF:
		return SaveCDF(path, r)
	}
	return fmt.Errorf("mcml: unknown result format %q (want %s or %s)", path, ExtCDF, ExtRaw)
}

// Load reads a result saved by Save.
func Load(path string) (*Result, error) {
	switch {
	case strings.HasSuffix(path, ExtRaw):
		return LoadRaw(path)
	case filepath.Ext(path) == ExtCDF:
		return LoadCDF(path)
	}
	return nil, fmt.Errorf("mcml: unknown result format %q (want %s or %s)", path, ExtCDF, ExtRaw)
}

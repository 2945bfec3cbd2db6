package mcml

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/klauspost/compress/zstd"
)

// rawHeader is the fixed-size prefix of a raw dump. All fields are written
// little-endian, followed by A, ZBin and RBin as float64 arrays.
type rawHeader struct {
	Nz, Nr        int32
	Trials        int64
	Seed          int64
	ElapsedNs     int64
	N0, N1        float64
	Ma, Ms, G     float64
	Wth, M, Res   float64
	IncidentAngle float64
	Rsp           float64
	Launched      float64
	Specular      float64
	Absorbed      float64
	Transmitted   float64
	RouletteLost  float64
	RouletteGain  float64
}

// SaveRaw writes r as a zstd-compressed little-endian dump.
func SaveRaw(path string, r *Result) error {
	g := r.Grid
	if g.Nz < 1 || g.Nr < 1 {
		return fmt.Errorf("mcml: invalid grid dimensions: Nz=%d Nr=%d", g.Nz, g.Nr)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	enc, err := zstd.NewWriter(f)
	if err != nil {
		return err
	}
	w := bufio.NewWriter(enc)
	p := r.Params
	h := rawHeader{
		Nz: int32(g.Nz), Nr: int32(g.Nr),
		Trials: int64(p.NumTrials), Seed: p.Seed, ElapsedNs: int64(r.Elapsed),
		N0: p.N0, N1: p.N1, Ma: p.Ma, Ms: p.Ms, G: p.G,
		Wth: p.Wth, M: p.M, Res: p.Res, IncidentAngle: p.IncidentAngle,
		Rsp:          r.Rsp,
		Launched:     r.Tally.Launched,
		Specular:     r.Tally.Specular,
		Absorbed:     r.Tally.Absorbed,
		Transmitted:  r.Tally.Transmitted,
		RouletteLost: r.Tally.RouletteLost,
		RouletteGain: r.Tally.RouletteGained,
	}
	if err := binary.Write(w, binary.LittleEndian, &h); err != nil {
		enc.Close()
		return err
	}
	for _, a := range [][]float64{g.A.Elements, g.ZBin.Elements, g.RBin.Elements} {
		if err := binary.Write(w, binary.LittleEndian, a); err != nil {
			enc.Close()
			return err
		}
	}
	if err := w.Flush(); err != nil {
		enc.Close()
		return err
	}
	if err := enc.Close(); err != nil {
		return err
	}
	return f.Close()
}

// LoadRaw reads a dump written by SaveRaw.
func LoadRaw(path string) (*Result, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	dec, err := zstd.NewReader(f)
	if err != nil {
		return nil, err
	}
	defer dec.Close()
	rd := bufio.NewReader(dec)

	var h rawHeader
	if err := binary.Read(rd, binary.LittleEndian, &h); err != nil {
		return nil, fmt.Errorf("mcml: reading raw header of %s: %w", path, err)
	}
	if h.Nz < 1 || h.Nr < 1 || h.Res <= 0 {
		return nil, fmt.Errorf("mcml: corrupt raw header in %s: Nz=%d Nr=%d res=%g", path, h.Nz, h.Nr, h.Res)
	}
	p := Params{
		NumTrials: int(h.Trials), Seed: h.Seed,
		N0: h.N0, N1: h.N1, Ma: h.Ma, Ms: h.Ms, G: h.G,
		Wth: h.Wth, M: h.M, Res: h.Res, IncidentAngle: h.IncidentAngle,
		Nz: int(h.Nz), Nr: int(h.Nr),
	}
	r := &Result{
		Params:  p,
		Rsp:     h.Rsp,
		Grid:    NewGrid(p.Res, p.Nz, p.Nr),
		Elapsed: time.Duration(h.ElapsedNs),
		Tally: Tally{
			Photons:        p.NumTrials,
			Launched:       h.Launched,
			Specular:       h.Specular,
			Absorbed:       h.Absorbed,
			Transmitted:    h.Transmitted,
			RouletteLost:   h.RouletteLost,
			RouletteGained: h.RouletteGain,
		},
	}
	for _, a := range [][]float64{r.Grid.A.Elements, r.Grid.ZBin.Elements, r.Grid.RBin.Elements} {
		if err := binary.Read(rd, binary.LittleEndian, a); err != nil {
			if err == io.ErrUnexpectedEOF || err == io.EOF {
				return nil, fmt.Errorf("mcml: truncated raw dump %s", path)
			}
			return nil, err
		}
	}
	return r, nil
}

package cli

import (
	"fmt"
	"strings"

	"github.com/lukaszgryglicki/mcml/internal/mcml"
	"github.com/spf13/cast"
	"github.com/spf13/viper"
)

func getFloat(cfg *viper.Viper, name string) (float64, error) {
	v, err := cast.ToFloat64E(cfg.Get(name))
	if err != nil {
		return 0, fmt.Errorf("mcml: invalid %s: %v", name, err)
	}
	return v, nil
}

func getInt(cfg *viper.Viper, name string) (int, error) {
	v, err := cast.ToIntE(cfg.Get(name))
	if err != nil {
		return 0, fmt.Errorf("mcml: invalid %s: %v", name, err)
	}
	return v, nil
}

// getFloatList reads a list of numbers given as a flag ("1.0,1.37"), an
// environment variable ("1.0 1.37") or a configuration file array.
func getFloatList(cfg *viper.Viper, name string) ([]float64, error) {
	ss, err := cast.ToStringSliceE(cfg.Get(name))
	if err != nil {
		return nil, fmt.Errorf("mcml: invalid %s: %v", name, err)
	}
	var out []float64
	for _, s := range ss {
		for _, f := range strings.Split(s, ",") {
			if f = strings.TrimSpace(f); f == "" {
				continue
			}
			v, err := cast.ToFloat64E(f)
			if err != nil {
				return nil, fmt.Errorf("mcml: invalid %s value %q: %v", name, f, err)
			}
			out = append(out, v)
		}
	}
	return out, nil
}

func getIntList(cfg *viper.Viper, name string) ([]int, error) {
	raw := cfg.Get(name)
	if s, ok := raw.(string); ok {
		raw = strings.FieldsFunc(s, func(r rune) bool { return r == ',' || r == ' ' })
	}
	v, err := cast.ToIntSliceE(raw)
	if err != nil {
		return nil, fmt.Errorf("mcml: invalid %s: %v", name, err)
	}
	return v, nil
}

// physicsParams builds the options shared by run and experiment on top of
// the defaults. Trials, n1 and the angle are left to the caller.
func physicsParams(cfg *viper.Viper) (mcml.Params, error) {
	p := mcml.DefaultParams()
	for _, f := range []struct {
		name string
		dst  *float64
	}{
		{"n0", &p.N0}, {"ma", &p.Ma}, {"ms", &p.Ms}, {"g", &p.G},
		{"wth", &p.Wth}, {"m", &p.M}, {"res", &p.Res},
	} {
		v, err := getFloat(cfg, f.name)
		if err != nil {
			return p, err
		}
		*f.dst = v
	}
	for _, f := range []struct {
		name string
		dst  *int
	}{
		{"nz", &p.Nz}, {"nr", &p.Nr},
	} {
		v, err := getInt(cfg, f.name)
		if err != nil {
			return p, err
		}
		*f.dst = v
	}
	seed, err := cast.ToInt64E(cfg.Get("seed"))
	if err != nil {
		return p, fmt.Errorf("mcml: invalid seed: %v", err)
	}
	p.Seed = seed
	return p, nil
}

// runParams returns the parameters of a single run.
func runParams(cfg *viper.Viper) (mcml.Params, error) {
	p, err := physicsParams(cfg)
	if err != nil {
		return p, err
	}
	if p.NumTrials, err = getInt(cfg, "trials"); err != nil {
		return p, err
	}
	if p.N1, err = getFloat(cfg, "n1"); err != nil {
		return p, err
	}
	angle, err := getFloat(cfg, "angle")
	if err != nil {
		return p, err
	}
	p.IncidentAngle = mcml.Radians(angle)
	return p, p.Validate()
}

// experiment returns the sweep described by the configuration.
func experiment(cfg *viper.Viper) (*mcml.Experiment, error) {
	base, err := physicsParams(cfg)
	if err != nil {
		return nil, err
	}
	e := &mcml.Experiment{
		Base:      base,
		OutputDir: cfg.GetString("outdir"),
		Raw:       cfg.GetBool("raw"),
		Plot:      cfg.GetBool("plot"),
	}
	if e.Workers, err = getInt(cfg, "workers"); err != nil {
		return nil, err
	}
	if e.PhotonCounts, err = getIntList(cfg, "photons"); err != nil {
		return nil, err
	}
	if e.RefractiveIndices, err = getFloatList(cfg, "n1s"); err != nil {
		return nil, err
	}
	if e.IncidentAnglesDeg, err = getFloatList(cfg, "angles"); err != nil {
		return nil, err
	}
	return e, nil
}

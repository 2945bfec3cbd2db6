package mcml

import (
	"errors"
	"fmt"
	"math"
)

// Params describes one simulation: the slab's optical properties, the
// launch, the roulette and the accumulation grid.
type Params struct {
	NumTrials     int   `mapstructure:"trials" toml:"trials"`
	N0            Real  `mapstructure:"n0" toml:"n0"`   // incident medium
	N1            Real  `mapstructure:"n1" toml:"n1"`   // slab
	Ma            Real  `mapstructure:"ma" toml:"ma"`   // absorption coefficient [cm^-1]
	Ms            Real  `mapstructure:"ms" toml:"ms"`   // scattering coefficient [cm^-1]
	G             Real  `mapstructure:"g" toml:"g"`     // anisotropy
	Wth           Real  `mapstructure:"wth" toml:"wth"` // roulette threshold
	M             Real  `mapstructure:"m" toml:"m"`     // roulette factor
	Res           Real  `mapstructure:"res" toml:"res"` // grid cell size [cm]
	Nz            int   `mapstructure:"nz" toml:"nz"`
	Nr            int   `mapstructure:"nr" toml:"nr"`
	IncidentAngle Real  `mapstructure:"incident_angle" toml:"incident_angle"` // radians, 0 = normal incidence
	Seed          int64 `mapstructure:"seed" toml:"seed"`                     // 0 = seed from the clock
}

// DefaultParams returns the reference configuration.
func DefaultParams() Params {
	return Params{
		NumTrials: DefaultNumTrials,
		N0:        DefaultN0,
		N1:        DefaultN1,
		Ma:        DefaultMa,
		Ms:        DefaultMs,
		G:         DefaultG,
		Wth:       DefaultWth,
		M:         DefaultM,
		Res:       DefaultRes,
		Nz:        DefaultNz,
		Nr:        DefaultNr,
	}
}

// Mt is the total attenuation coefficient.
func (p Params) Mt() Real { return p.Ma + p.Ms }

// Validate rejects parameters the random walk cannot run with.
func (p Params) Validate() error {
	switch {
	case p.NumTrials < 0:
		return fmt.Errorf("mcml: number of trials must be >= 0, got %d", p.NumTrials)
	case !(p.Ma > 0) || p.Ms < 0:
		// without absorption a packet never drops below Wth
		return fmt.Errorf("mcml: need ma > 0 and ms >= 0, got ma=%g ms=%g", p.Ma, p.Ms)
	case !(p.Mt() > 0) || math.IsInf(p.Mt(), 0):
		return errors.New("mcml: total attenuation ma+ms must be finite and > 0")
	case !(p.N0 > 0) || !(p.N1 > 0):
		return fmt.Errorf("mcml: refractive indices must be > 0, got n0=%g n1=%g", p.N0, p.N1)
	case math.Abs(p.G) > 1 || math.IsNaN(p.G):
		return fmt.Errorf("mcml: anisotropy must be in [-1, 1], got %g", p.G)
	case !(p.Wth > 0):
		return fmt.Errorf("mcml: roulette threshold must be > 0, got %g", p.Wth)
	case !(p.M > 1):
		return fmt.Errorf("mcml: roulette factor must be > 1, got %g", p.M)
	case !(p.Res > 0):
		return fmt.Errorf("mcml: grid resolution must be > 0, got %g", p.Res)
	case p.Nz < 1 || p.Nr < 1:
		return fmt.Errorf("mcml: grid size must be positive, got Nz=%d Nr=%d", p.Nz, p.Nr)
	case p.IncidentAngle < 0 || p.IncidentAngle >= math.Pi/2 || math.IsNaN(p.IncidentAngle):
		return fmt.Errorf("mcml: incident angle must be in [0, π/2), got %g", p.IncidentAngle)
	}
	return nil
}

// Launch returns the specular reflectance and the direction of a packet
// refracted into the slab at p.IncidentAngle.
func (p Params) Launch() (rsp Real, dir Direction) {
	if p.IncidentAngle == 0 {
		return SpecularReflectance(p.N0, p.N1), Direction{0, 0, 1}
	}
	cosI := math.Cos(p.IncidentAngle)
	rsp = Reflectance(p.N0, p.N1, cosI)
	cosT, ok := refractedCosine(p.N0, p.N1, cosI)
	if !ok {
		// only reachable for n0 > n1; nothing enters the slab
		return 1, Direction{0, 0, 1}
	}
	return rsp, Direction{Mx: math.Sqrt(1 - cosT*cosT), My: 0, Mz: cosT}
}

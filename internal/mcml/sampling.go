package mcml

import "math"

// Source is a uniform generator on [0,1). One Source must never be shared
// between goroutines; every worker gets its own.
type Source interface {
	Float64() float64
}

// Uniform returns xi on the open interval (0,1); exact zeros are redrawn
// so that -ln(xi) stays finite.
func Uniform(src Source) Real {
	for {
		if u := src.Float64(); u > 0 {
			return u
		}
	}
}

// SampleFreePath returns an exponentially distributed step length in a
// medium with total attenuation mt.
func SampleFreePath(mt Real, src Source) Real {
	return -math.Log(Uniform(src)) / mt
}

// SampleScatterCosine returns cos(theta) of the polar scattering angle.
// g == 0 (within gIsotropic) is isotropic; otherwise the Henyey-Greenstein
// inverse CDF is used.
func SampleScatterCosine(g Real, src Source) Real {
	xi := Uniform(src)
	if math.Abs(g) < gIsotropic {
		return 2*xi - 1
	}
	t := (1 - g*g) / (1 - g + 2*g*xi)
	c := (1 + g*g - t*t) / (2 * g)
	// numeric clamp
	if c < -1 {
		c = -1
	} else if c > 1 {
		c = 1
	}
	return c
}

// SampleAzimuth returns phi uniform on [0, 2π).
func SampleAzimuth(src Source) Real {
	return 2 * math.Pi * Uniform(src)
}

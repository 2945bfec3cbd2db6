package mcml

import "math"

// SpecularReflectance is the normal-incidence reflectance of the n0|n1
// interface, charged once at launch.
func SpecularReflectance(n0, n1 Real) Real {
	r := (n0 - n1) / (n0 + n1)
	return r * r
}

// Reflectance returns the unpolarised Fresnel reflectance for light going
// from index ni into index nt; cosAi is the cosine of the angle of incidence
// (its sign is ignored).
//
// Contract: total internal reflection (ni > nt beyond the critical angle)
// returns exactly 1, everything else is in [0,1].
func Reflectance(ni, nt, cosAi Real) Real {
	cosAi = math.Abs(cosAi)
	if cosAi > 1 {
		cosAi = 1
	}
	if ni == nt {
		return 0
	}
	if cosAi > cosNormal {
		return SpecularReflectance(ni, nt)
	}
	if cosAi < cosGrazing {
		return 1
	}
	sinAi := math.Sqrt(1 - cosAi*cosAi)
	sinAt := ni / nt * sinAi
	if sinAt >= 1 {
		return 1 // beyond the critical angle asin(nt/ni)
	}
	cosAt := math.Sqrt(1 - sinAt*sinAt)

	// sin/cos of (ai - at) and (ai + at)
	sMinus := sinAi*cosAt - cosAi*sinAt
	sPlus := sinAi*cosAt + cosAi*sinAt
	cMinus := cosAi*cosAt + sinAi*sinAt
	cPlus := cosAi*cosAt - sinAi*sinAt

	// 0.5 * (sin²(ai-at)/sin²(ai+at) + tan²(ai-at)/tan²(ai+at))
	r := 0.5 * sMinus * sMinus * (cMinus*cMinus + cPlus*cPlus) / (sPlus * sPlus * cMinus * cMinus)
	if r < 0 {
		return 0
	}
	if r > 1 {
		return 1
	}
	return r
}

// refractedCosine returns cos(at) for a ray crossing ni -> nt with incidence
// cosine cosAi, and false on total internal reflection.
func refractedCosine(ni, nt, cosAi Real) (Real, bool) {
	cosAi = math.Abs(cosAi)
	sinAt := ni / nt * math.Sqrt(math.Max(0, 1-cosAi*cosAi))
	if sinAt >= 1 {
		return 0, false
	}
	return math.Sqrt(1 - sinAt*sinAt), true
}

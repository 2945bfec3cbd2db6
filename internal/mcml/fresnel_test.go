package mcml

import (
	"math"
	"testing"
)

func TestSpecularReflectance(t *testing.T) {
	if r := SpecularReflectance(1, 1.37); !approxEqual(r, 0.024372874717370804, 1e-15) {
		t.Fatalf("Rsp(1, 1.37)=%.17g", r)
	}
	if r := SpecularReflectance(1, 1.5); !approxEqual(r, 0.04, 1e-15) {
		t.Fatalf("Rsp(1, 1.5)=%.17g", r)
	}
	if r := SpecularReflectance(1.4, 1.4); r != 0 {
		t.Fatalf("matched indices must not reflect, got %g", r)
	}
}

func TestReflectanceKnownValues(t *testing.T) {
	if r := Reflectance(1, 1.5, math.Cos(math.Pi/4)); !approxEqual(r, 0.050239911012235954, 1e-12) {
		t.Fatalf("R(45°, 1->1.5)=%.17g", r)
	}
	// normal incidence matches the specular formula, from either side
	if r := Reflectance(1.5, 1, 1); !approxEqual(r, 0.04, 1e-15) {
		t.Fatalf("R(0°, 1.5->1)=%g", r)
	}
	// near-normal is continuous with the normal formula
	if r := Reflectance(1, 1.5, math.Cos(1e-4)); !approxEqual(r, 0.04, 1e-6) {
		t.Fatalf("R(1e-4 rad)=%g", r)
	}
	if r := Reflectance(1.3, 1.3, 0.3); r != 0 {
		t.Fatalf("matched indices must not reflect, got %g", r)
	}
}

func TestReflectanceTotalInternal(t *testing.T) {
	crit := math.Asin(1 / 1.5)
	for _, a := range []Real{crit + 1e-6, math.Pi / 3, math.Pi/2 - 1e-3} {
		if r := Reflectance(1.5, 1, math.Cos(a)); r != 1 {
			t.Fatalf("alpha=%g beyond critical angle: R=%g, want exactly 1", a, r)
		}
	}
	if r := Reflectance(1.5, 1, math.Cos(crit-1e-3)); r >= 1 {
		t.Fatalf("below critical angle R must be < 1, got %g", r)
	}
}

func TestReflectanceBounds(t *testing.T) {
	pairs := [][2]Real{{1, 1.37}, {1.37, 1}, {1, 3}, {2.5, 1.1}}
	for _, p := range pairs {
		for i := 0; i <= 1000; i++ {
			c := Real(i) / 1000
			r := Reflectance(p[0], p[1], c)
			if r < 0 || r > 1 || math.IsNaN(r) {
				t.Fatalf("n %g->%g cos=%g: R=%g", p[0], p[1], c, r)
			}
			// the sign of the cosine is irrelevant
			if r2 := Reflectance(p[0], p[1], -c); r2 != r {
				t.Fatalf("R depends on sign of cos: %g vs %g", r, r2)
			}
		}
	}
}

func TestRefractedCosineSnell(t *testing.T) {
	ai := 0.6
	cosT, ok := refractedCosine(1, 1.37, math.Cos(ai))
	if !ok {
		t.Fatal("unexpected total internal reflection")
	}
	sinT := math.Sqrt(1 - cosT*cosT)
	if !approxEqual(1*math.Sin(ai), 1.37*sinT, 1e-12) {
		t.Fatalf("Snell violated: %g vs %g", math.Sin(ai), 1.37*sinT)
	}
	if _, ok := refractedCosine(1.5, 1, math.Cos(1.2)); ok {
		t.Fatal("expected total internal reflection")
	}
}

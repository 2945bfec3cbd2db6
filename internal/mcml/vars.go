package mcml

import (
	"math/rand"

	"github.com/sirupsen/logrus"
)

type Real = float64

var (
	Debug = false // set to true for verbose per-photon debug output
	// Log receives all package output; the CLI replaces it with a configured logger.
	Log logrus.FieldLogger = logrus.StandardLogger()
	// Compile time check that the math/rand generator can drive the samplers
	_ Source = (*rand.Rand)(nil)
)

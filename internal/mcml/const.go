package mcml

// Defaults for a single homogeneous slab (optical properties in cm^-1, lengths in cm).
const (
	DefaultMa        = 0.1
	DefaultMs        = 100
	DefaultG         = 0.9
	DefaultWth       = 0.0001
	DefaultM         = 10
	DefaultRes       = 0.005
	DefaultNz        = 200
	DefaultNr        = DefaultNz / 3
	DefaultN0        = 1.0
	DefaultN1        = 1.0
	DefaultNumTrials = 1000
	// hot-loop constants
	gIsotropic   = 1e-6    // |g| below this samples the isotropic phase function
	mzVertical   = 0.99999 // |mz| above this uses the vertical-direction update
	cosNormal    = 1 - 1e-12
	cosGrazing   = 1e-6
	zeroDistFrac = 1e-12 // fraction of Res below which a splat target takes all weight
	progressStep = 100   // ~1% progress lines
	ctxCheckMask = 255   // check cancellation every 256 photons
)

package effect

// Motion is the shared table of per-effect motion semantics: what
// varies, over what range, with what time law. The offline filter-graph
// compiler and the live preview renderer both derive their output from
// these constants so the two render paths cannot drift apart.
//
// All *Scale fields are multiplied by k = intensity/100.
type Motion struct {
	// Zoom targets. ZoomFrom/ZoomTo are absolute scale factors; when
	// ZoomToScale is set the target is 1 + ZoomToScale*k instead.
	ZoomFrom    float64
	ZoomTo      float64
	ZoomToScale float64

	// Rotation in degrees. RotateDegScale*k gives the sweep (ROTATION)
	// or the oscillation amplitude (DRIFT).
	RotateDegScale float64

	// Positional wander radii in pixels, scaled by k.
	WanderXScale float64
	WanderYScale float64

	// Pulse amplitude: scale oscillates by PulseAmpScale*k around 1.
	PulseAmpScale float64

	// Wave displacement amplitude in pixels, scaled by k, and the fixed
	// number of spatial cycles across the image width.
	WaveAmpScale float64
	WaveCycles   int

	// Overscan factor applied before a sliding or wandering crop so the
	// crop window has room to move.
	Overscan float64

	// Eased reports whether the primary ramp honors Params.Easing.
	// Oscillating time laws (sin/cos of tau*pi) ignore it.
	Eased bool
}

// Motions is keyed by effect type. Types absent from the table compile
// to the static base stage.
var Motions = map[Type]Motion{
	Zoom: {
		ZoomFrom: 1.0, ZoomTo: 1.5, // direction "out" swaps the target to 0.6
		Eased: true,
	},
	Pan: {
		Overscan: 1.5,
		Eased:    true,
	},
	Parallax: {
		Overscan: 1.5,
		Eased:    true,
	},
	Wave: {
		WaveAmpScale: 20,
		WaveCycles:   4,
	},
	Pulse: {
		PulseAmpScale: 0.2,
	},
	Rotation: {
		RotateDegScale: 360, // linear in tau, easing intentionally ignored
	},
	Drift: {
		RotateDegScale: 5,
		WanderXScale:   30,
		WanderYScale:   20,
		Overscan:       1.25,
	},
	KenBurns: {
		ZoomFrom: 1.0, ZoomToScale: 1.0,
		WanderXScale: 40,
		WanderYScale: 40,
		Eased:        true,
	},
}

// ZoomOutTarget is the absolute target scale for ZOOM with direction
// "out".
const ZoomOutTarget = 0.6

package effect

// Type identifies one of the built-in motion effects.
type Type string

const (
	Zoom     Type = "zoom"
	Pan      Type = "pan"
	Parallax Type = "parallax"
	Wave     Type = "wave"
	Pulse    Type = "pulse"
	Rotation Type = "rotation"
	Drift    Type = "drift"
	KenBurns Type = "ken_burns"
)

// Types lists every supported effect type.
var Types = []Type{Zoom, Pan, Parallax, Wave, Pulse, Rotation, Drift, KenBurns}

// Direction steers ZOOM (in/out) and PAN (left/right/up/down).
// It is ignored by every other effect type.
type Direction string

const (
	DirIn    Direction = "in"
	DirOut   Direction = "out"
	DirLeft  Direction = "left"
	DirRight Direction = "right"
	DirUp    Direction = "up"
	DirDown  Direction = "down"
)

// DefaultIntensity applies when the intensity field is absent.
const DefaultIntensity = 50

// Params holds the numeric knobs of an effect.
type Params struct {
	Duration  float64   `json:"duration" validate:"required,gte=1,lte=30"`
	Intensity *int      `json:"intensity,omitempty" validate:"omitempty,gte=0,lte=100"`
	Direction Direction `json:"direction,omitempty"`
	Easing    Easing    `json:"easing" validate:"required"`
}

// IntensityValue returns the intensity, falling back to the default
// when the field was omitted.
func (p Params) IntensityValue() int {
	if p.Intensity == nil {
		return DefaultIntensity
	}
	return *p.Intensity
}

// VideoEffect is the sole input to both render paths besides export
// geometry. Instances are immutable value objects: callers replace them
// wholesale, renderers must never mutate them.
type VideoEffect struct {
	Type   Type   `json:"type" validate:"required"`
	Params Params `json:"params" validate:"required"`
}

// ExportSettings carries the output geometry and encoding choices.
// Only the filter-graph compiler and the transcoding session read it;
// the preview renderer is resolution independent.
type ExportSettings struct {
	Width   int    `json:"width" validate:"required,gte=100,lte=3840"`
	Height  int    `json:"height" validate:"required,gte=100,lte=2160"`
	FPS     int    `json:"fps" validate:"required,gte=1,lte=60"`
	Format  string `json:"format" validate:"required,oneof=mp4 webm"`
	Quality int    `json:"quality" validate:"required,gte=1,lte=100"`
}

// DefaultExportSettings is the preset used when a request omits settings.
func DefaultExportSettings() ExportSettings {
	return ExportSettings{
		Width:   1920,
		Height:  1080,
		FPS:     30,
		Format:  "mp4",
		Quality: 85,
	}
}

// Progress is a transient per-render status pair. Not persisted.
type Progress struct {
	Percent int    `json:"percent"`
	Stage   string `json:"stage"`
}

// ProgressFunc receives progress updates during a render.
type ProgressFunc func(Progress)

// Package preview renders an effect as a declarative CSS animation for
// a live display surface. It approximates the motion the transcoder
// produces without invoking it: keyframe stops and transform values are
// derived from the same motion table the filter-graph compiler reads,
// so the two render paths follow one shape.
package preview

import (
	"fmt"
	"hash/fnv"
	"math"
	"strconv"
	"strings"

	"github.com/marlowe/stillmotion/internal/effect"
)

// Keyframe is one percentage stop of the animation.
type Keyframe struct {
	Stop      float64 `json:"stop"`
	Transform string  `json:"transform"`
}

// Distortion is the secondary ripple layer applied on top of the WAVE
// transform animation. It cycles on its own fixed period, independent
// of the effect duration.
type Distortion struct {
	AmplitudePx  float64 `json:"amplitude_px"`
	CycleSeconds float64 `json:"cycle_seconds"`
}

// Animation is a self-contained animation description. Name is derived
// from the effect content, so rendering the same effect twice yields
// the same name and an injected style element can be replaced in place
// instead of accumulating.
type Animation struct {
	Name       string      `json:"name"`
	Duration   float64     `json:"duration"`
	Easing     string      `json:"easing"`
	Keyframes  []Keyframe  `json:"keyframes"`
	Distortion *Distortion `json:"distortion,omitempty"`
}

// Render maps an effect to its preview animation. It is pure and total:
// unknown effect types yield a single static keyframe, never an error.
func Render(fx effect.VideoEffect) Animation {
	p := fx.Params
	k := float64(p.IntensityValue()) / 100
	m := effect.Motions[fx.Type]

	anim := Animation{
		Name:     name(fx),
		Duration: p.Duration,
		Easing:   p.Easing.CSS(),
	}

	switch fx.Type {
	case effect.Zoom:
		anim.Keyframes = zoomFrames(p.Direction, k)
	case effect.Pan:
		anim.Keyframes = panFrames(p.Direction, m, k)
	case effect.Parallax:
		anim.Keyframes = panFrames(effect.DirLeft, m, k)
	case effect.Wave:
		anim.Keyframes = staticFrames()
		anim.Easing = "linear"
		anim.Distortion = &Distortion{
			AmplitudePx:  math.Min(float64(p.IntensityValue())/2, 25),
			CycleSeconds: 2,
		}
	case effect.Pulse:
		anim.Keyframes = pulseFrames(m, k)
		anim.Easing = "ease-in-out"
	case effect.Rotation:
		anim.Keyframes = rotationFrames(m, k)
		anim.Easing = "linear"
	case effect.Drift:
		anim.Keyframes = orbitFrames(m, k, m.Overscan, nil)
		anim.Easing = "ease-in-out"
	case effect.KenBurns:
		anim.Keyframes = orbitFrames(m, k, 1, func(tau float64) float64 {
			return 1 + m.ZoomToScale*k*p.Easing.Apply(tau)
		})
	default:
		anim.Keyframes = staticFrames()
	}
	return anim
}

// CSS renders the animation as a style sheet fragment: the @keyframes
// block plus a class of the same name binding it with infinite repeat.
// WAVE emits a second ripple animation on its own 2s cycle.
func (a Animation) CSS() string {
	var b strings.Builder

	fmt.Fprintf(&b, "@keyframes %s {\n", a.Name)
	for _, kf := range a.Keyframes {
		fmt.Fprintf(&b, "  %s%% { transform: %s; }\n", fmtNum(kf.Stop), kf.Transform)
	}
	b.WriteString("}\n")
	fmt.Fprintf(&b, ".%s { animation: %s %ss %s infinite; }\n",
		a.Name, a.Name, fmtNum(a.Duration), a.Easing)

	if d := a.Distortion; d != nil {
		ripple := a.Name + "-ripple"
		skew := fmtNum(d.AmplitudePx / 10)
		fmt.Fprintf(&b, "@keyframes %s {\n", ripple)
		fmt.Fprintf(&b, "  0%% { transform: skewX(0deg); }\n")
		fmt.Fprintf(&b, "  25%% { transform: skewX(%sdeg); }\n", skew)
		fmt.Fprintf(&b, "  75%% { transform: skewX(-%sdeg); }\n", skew)
		fmt.Fprintf(&b, "  100%% { transform: skewX(0deg); }\n")
		b.WriteString("}\n")
		fmt.Fprintf(&b, ".%s > * { animation: %s %ss linear infinite; }\n",
			a.Name, ripple, fmtNum(d.CycleSeconds))
	}
	return b.String()
}

func staticFrames() []Keyframe {
	return []Keyframe{
		{Stop: 0, Transform: "none"},
		{Stop: 100, Transform: "none"},
	}
}

func zoomFrames(dir effect.Direction, k float64) []Keyframe {
	target := 1 + k
	if dir == effect.DirOut {
		target = 1 - 0.5*k
	}
	return []Keyframe{
		{Stop: 0, Transform: "scale(1)"},
		{Stop: 100, Transform: fmt.Sprintf("scale(%s)", fmtNum(target))},
	}
}

// panFrames overscans by the motion table's factor and slides across
// the slack that overscan creates, so the surface edge never shows.
func panFrames(dir effect.Direction, m effect.Motion, k float64) []Keyframe {
	over := m.Overscan
	travel := (over - 1) / over / 2 * 100 * k

	axis, sign := "X", 1.0
	switch dir {
	case effect.DirLeft:
		axis, sign = "X", 1
	case effect.DirRight:
		axis, sign = "X", -1
	case effect.DirUp:
		axis, sign = "Y", 1
	case effect.DirDown:
		axis, sign = "Y", -1
	default:
		travel = 0
	}

	from := fmt.Sprintf("scale(%s) translate%s(%s%%)", fmtNum(over), axis, fmtNum(sign*travel))
	to := fmt.Sprintf("scale(%s) translate%s(%s%%)", fmtNum(over), axis, fmtNum(-sign*travel))
	return []Keyframe{
		{Stop: 0, Transform: from},
		{Stop: 100, Transform: to},
	}
}

func pulseFrames(m effect.Motion, k float64) []Keyframe {
	peak := 1 + m.PulseAmpScale*k
	return []Keyframe{
		{Stop: 0, Transform: "scale(1)"},
		{Stop: 50, Transform: fmt.Sprintf("scale(%s)", fmtNum(peak))},
		{Stop: 100, Transform: "scale(1)"},
	}
}

func rotationFrames(m effect.Motion, k float64) []Keyframe {
	return []Keyframe{
		{Stop: 0, Transform: "rotate(0deg)"},
		{Stop: 100, Transform: fmt.Sprintf("rotate(%sdeg)", fmtNum(m.RotateDegScale*k))},
	}
}

// orbitFrames samples the sin/cos wander of DRIFT and KEN_BURNS at five
// stops. scaleAt overrides the constant overscan scale with a ramp when
// non-nil.
func orbitFrames(m effect.Motion, k, over float64, scaleAt func(tau float64) float64) []Keyframe {
	stops := []float64{0, 25, 50, 75, 100}
	frames := make([]Keyframe, 0, len(stops))
	for _, stop := range stops {
		tau := stop / 100
		x := m.WanderXScale * k * math.Sin(tau*math.Pi)
		y := m.WanderYScale * k * math.Cos(tau*math.Pi)

		scale := over
		if scaleAt != nil {
			scale = scaleAt(tau)
		}

		var parts []string
		parts = append(parts, fmt.Sprintf("scale(%s)", fmtNum(scale)))
		parts = append(parts, fmt.Sprintf("translate(%spx, %spx)", fmtNum(x), fmtNum(y)))
		if m.RotateDegScale > 0 {
			deg := m.RotateDegScale * k * math.Sin(tau*math.Pi)
			parts = append(parts, fmt.Sprintf("rotate(%sdeg)", fmtNum(deg)))
		}
		frames = append(frames, Keyframe{Stop: stop, Transform: strings.Join(parts, " ")})
	}
	return frames
}

// name derives a stable identifier from the effect content. Equal
// effects share a name, so style injection replaces instead of growing.
func name(fx effect.VideoEffect) string {
	h := fnv.New32a()
	fmt.Fprintf(h, "%s|%s|%s|%s|%d",
		fx.Type, fx.Params.Direction, fx.Params.Easing,
		fmtNum(fx.Params.Duration), fx.Params.IntensityValue())
	return fmt.Sprintf("fx-%s-%08x", strings.ReplaceAll(string(fx.Type), "_", "-"), h.Sum32())
}

func fmtNum(v float64) string {
	s := strconv.FormatFloat(v, 'f', 4, 64)
	s = strings.TrimRight(s, "0")
	s = strings.TrimRight(s, ".")
	if s == "" || s == "-" || s == "-0" {
		return "0"
	}
	return s
}

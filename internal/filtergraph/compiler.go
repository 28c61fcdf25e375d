package filtergraph

import (
	"fmt"

	"github.com/marlowe/stillmotion/internal/effect"
)

// OutputPad is the label of the final video pad in every compiled
// graph; the encoder step maps it with -map.
const OutputPad = "vout"

// Compile turns an effect and export geometry into an ffmpeg
// filter_complex expression. It is pure and total over the validated
// domain: identical inputs yield byte-identical output, and unknown
// effect types or directions degrade to static framing instead of
// failing.
//
// Every motion expression is parameterized by tau = t/duration so the
// effect runs exactly once across the clip regardless of frame rate.
// The transcoder evaluates the expressions per frame; nothing is
// computed here beyond formatting.
func Compile(fx effect.VideoEffect, s effect.ExportSettings) string {
	d := formatNum(fx.Params.Duration)
	k := float64(fx.Params.IntensityValue()) / 100

	base := NewChain("0:v", "base").
		Addf("scale=%d:%d:force_original_aspect_ratio=increase", s.Width, s.Height).
		Addf("crop=%d:%d", s.Width, s.Height).
		Add("setsar=1").
		Addf("fps=%d", s.FPS).
		Add("format=yuv420p")

	stage := effectStage(fx, s, d, k)
	return Graph(base) + ";" + stage
}

// effectStage renders the per-type motion chain from [base] to [vout].
func effectStage(fx effect.VideoEffect, s effect.ExportSettings, d string, k float64) string {
	p := fx.Params
	switch fx.Type {
	case effect.Zoom:
		return zoomStage(p, s, d)
	case effect.Pan:
		return panStage(p, s, d)
	case effect.Parallax:
		return parallaxStage(p, s, d, k)
	case effect.Wave:
		return waveStage(s, d, k)
	case effect.Pulse:
		return pulseStage(s, d, k)
	case effect.Rotation:
		return rotationStage(s, d, k)
	case effect.Drift:
		return driftStage(s, d, k)
	case effect.KenBurns:
		return kenBurnsStage(p, s, d, k)
	default:
		// Unrecognized types keep the static base framing.
		return NewChain("base", OutputPad).String()
	}
}

// zoomStage scales per frame from 1.0 toward the directional target,
// re-centered on the frame midpoint. Zoom-out shrinks below the frame,
// so it pads instead of cropping.
func zoomStage(p effect.Params, s effect.ExportSettings, d string) string {
	ease := easeExpr(p.Easing, d)
	m := effect.Motions[effect.Zoom]

	if p.Direction == effect.DirOut {
		factor := fmt.Sprintf("%s-%s*%s", formatNum(m.ZoomFrom), formatNum(m.ZoomFrom-effect.ZoomOutTarget), ease)
		return NewChain("base", OutputPad).
			Addf("scale=w='iw*(%s)':h='ih*(%s)':eval=frame", factor, factor).
			Addf("pad=%d:%d:x='(ow-iw)/2':y='(oh-ih)/2':color=black:eval=frame", s.Width, s.Height).
			String()
	}

	factor := fmt.Sprintf("%s+%s*%s", formatNum(m.ZoomFrom), formatNum(m.ZoomTo-m.ZoomFrom), ease)
	return NewChain("base", OutputPad).
		Addf("scale=w='iw*(%s)':h='ih*(%s)':eval=frame", factor, factor).
		Addf("crop=%d:%d:x='(iw-%d)/2':y='(ih-%d)/2'", s.Width, s.Height, s.Width, s.Height).
		String()
}

// panStage slides a full-size crop window across an overscanned copy of
// the frame. An unknown direction pins the offset at zero: static
// framing, not an error.
func panStage(p effect.Params, s effect.ExportSettings, d string) string {
	ease := easeExpr(p.Easing, d)
	comp := easeComplementExpr(p.Easing, d)
	over := formatNum(effect.Motions[effect.Pan].Overscan)

	var x, y string
	switch p.Direction {
	case effect.DirLeft:
		x, y = fmt.Sprintf("(iw-ow)*(%s)", ease), "(ih-oh)/2"
	case effect.DirRight:
		x, y = fmt.Sprintf("(iw-ow)*(%s)", comp), "(ih-oh)/2"
	case effect.DirUp:
		x, y = "(iw-ow)/2", fmt.Sprintf("(ih-oh)*(%s)", ease)
	case effect.DirDown:
		x, y = "(iw-ow)/2", fmt.Sprintf("(ih-oh)*(%s)", comp)
	default:
		x, y = "0", "0"
	}

	return NewChain("base", OutputPad).
		Addf("scale=w=iw*%s:h=ih*%s", over, over).
		Addf("crop=%d:%d:x='%s':y='%s'", s.Width, s.Height, x, y).
		String()
}

// parallaxStage derives background and foreground layers panning at 1x
// and 2x an intensity-derived speed, then cross-fades them over the
// duration for a depth illusion.
func parallaxStage(p effect.Params, s effect.ExportSettings, d string, k float64) string {
	ease := easeExpr(p.Easing, d)
	over := formatNum(effect.Motions[effect.Parallax].Overscan)
	slow := formatNum(0.5 * k)
	fast := formatNum(1.0 * k)

	bg := NewChain("bgs", "bg").
		Addf("scale=w=iw*%s:h=ih*%s", over, over).
		Addf("crop=%d:%d:x='(iw-ow)*%s*(%s)':y=(ih-oh)/2", s.Width, s.Height, slow, ease)
	fg := NewChain("fgs", "fg").
		Addf("scale=w=iw*%s:h=ih*%s", over, over).
		Addf("crop=%d:%d:x='(iw-ow)*%s*(%s)':y=(ih-oh)/2", s.Width, s.Height, fast, ease)

	split := "[base]split[bgs][fgs]"
	blend := fmt.Sprintf("[bg][fg]blend=all_expr='A*(1-min(T/%s,1))+B*min(T/%s,1)'[%s]", d, d, OutputPad)

	return split + ";" + Graph(bg, fg) + ";" + blend
}

// waveStage displaces pixels horizontally with a periodic ripple: a
// fixed number of spatial cycles across the width, phase advancing one
// full cycle over the duration.
func waveStage(s effect.ExportSettings, d string, k float64) string {
	m := effect.Motions[effect.Wave]
	amp := formatNum(m.WaveAmpScale * k)
	shift := fmt.Sprintf("%s*sin(2*PI*(%d*X/W)+2*PI*T/%s)", amp, m.WaveCycles, d)

	return NewChain("base", OutputPad).
		Addf("geq=lum='lum(X+%s,Y)':cb='cb(X+%s,Y)':cr='cr(X+%s,Y)'", shift, shift, shift).
		String()
}

// pulseStage oscillates the scale with a half-sine envelope, symmetric
// in both axes, cropped back to the frame center per frame.
func pulseStage(s effect.ExportSettings, d string, k float64) string {
	amp := formatNum(effect.Motions[effect.Pulse].PulseAmpScale * k)
	factor := fmt.Sprintf("1+%s*sin(t/%s*PI)", amp, d)

	return NewChain("base", OutputPad).
		Addf("scale=w='iw*(%s)':h='ih*(%s)':eval=frame", factor, factor).
		Addf("crop=%d:%d:x='(iw-%d)/2':y='(ih-%d)/2'", s.Width, s.Height, s.Width, s.Height).
		String()
}

// rotationStage sweeps linearly in tau to an intensity-derived maximum
// angle. Rotation speed is intensity-controlled, so the easing field is
// deliberately not consulted. Exposed corners are left transparent.
func rotationStage(s effect.ExportSettings, d string, k float64) string {
	maxDeg := formatNum(effect.Motions[effect.Rotation].RotateDegScale * k)

	return NewChain("base", OutputPad).
		Addf("rotate=a='(%s*t/%s)*PI/180':c=none", maxDeg, d).
		String()
}

// driftStage combines a small oscillating rotation with an elliptical
// positional wander over an overscanned copy, producing organic
// floating motion that returns near its start by the end of the clip.
func driftStage(s effect.ExportSettings, d string, k float64) string {
	m := effect.Motions[effect.Drift]
	over := formatNum(m.Overscan)
	angle := formatNum(m.RotateDegScale * k)
	wx := formatNum(m.WanderXScale * k)
	wy := formatNum(m.WanderYScale * k)

	return NewChain("base", OutputPad).
		Addf("scale=w=iw*%s:h=ih*%s", over, over).
		Addf("rotate=a='(%s*sin(t/%s*PI))*PI/180':c=none", angle, d).
		Addf("crop=%d:%d:x='(iw-ow)/2+%s*sin(t/%s*PI)':y='(ih-oh)/2+%s*cos(t/%s*PI)'",
			s.Width, s.Height, wx, d, wy, d).
		String()
}

// kenBurnsStage ramps the zoom from 1.0 toward 1+k while a circular pan
// offset orbits the frame center. The crop filter clamps offsets into
// range, which flattens the orbit while the zoom headroom is still
// small.
func kenBurnsStage(p effect.Params, s effect.ExportSettings, d string, k float64) string {
	ease := easeExpr(p.Easing, d)
	m := effect.Motions[effect.KenBurns]
	factor := fmt.Sprintf("1+%s*%s", formatNum(m.ZoomToScale*k), ease)
	wx := formatNum(m.WanderXScale * k)
	wy := formatNum(m.WanderYScale * k)

	return NewChain("base", OutputPad).
		Addf("scale=w='iw*(%s)':h='ih*(%s)':eval=frame", factor, factor).
		Addf("crop=%d:%d:x='(iw-%d)/2+%s*sin(t/%s*PI)':y='(ih-%d)/2+%s*cos(t/%s*PI)'",
			s.Width, s.Height, s.Width, wx, d, s.Height, wy, d).
		String()
}

// easeExpr renders eased progress E(tau) as ffmpeg expression text.
// The result is safe to embed after a '*' without extra parentheses.
func easeExpr(e effect.Easing, d string) string {
	switch e {
	case effect.EaseIn:
		return fmt.Sprintf("pow(t/%s,2)", d)
	case effect.EaseOut:
		return fmt.Sprintf("(1-pow(1-t/%s,2))", d)
	case effect.EaseInOut:
		return fmt.Sprintf("if(lt(t/%s,0.5),2*pow(t/%s,2),1-pow(-2*t/%s+2,2)/2)", d, d, d)
	default:
		return fmt.Sprintf("t/%s", d)
	}
}

// easeComplementExpr renders 1-E(tau) directly, so the common linear
// case compiles to the plain "1-t/D" form.
func easeComplementExpr(e effect.Easing, d string) string {
	switch e {
	case effect.EaseIn:
		return fmt.Sprintf("(1-pow(t/%s,2))", d)
	case effect.EaseOut:
		return fmt.Sprintf("pow(1-t/%s,2)", d)
	case effect.EaseInOut:
		return fmt.Sprintf("(1-if(lt(t/%s,0.5),2*pow(t/%s,2),1-pow(-2*t/%s+2,2)/2))", d, d, d)
	default:
		return fmt.Sprintf("1-t/%s", d)
	}
}

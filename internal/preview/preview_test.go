package preview

import (
	"strings"
	"testing"

	"github.com/marlowe/stillmotion/internal/effect"
)

func intPtr(v int) *int { return &v }

func TestRenderAllTypesProduceKeyframes(t *testing.T) {
	for _, typ := range effect.Types {
		fx := effect.VideoEffect{
			Type: typ,
			Params: effect.Params{
				Duration:  5,
				Intensity: intPtr(60),
				Direction: effect.DirIn,
				Easing:    effect.EaseInOut,
			},
		}
		anim := Render(fx)
		if len(anim.Keyframes) < 2 {
			t.Errorf("%s: expected at least two keyframes, got %d", typ, len(anim.Keyframes))
		}
		if anim.Keyframes[0].Stop != 0 || anim.Keyframes[len(anim.Keyframes)-1].Stop != 100 {
			t.Errorf("%s: keyframes must span 0%% to 100%%, got %+v", typ, anim.Keyframes)
		}
		if anim.Duration != 5 {
			t.Errorf("%s: duration not carried through, got %v", typ, anim.Duration)
		}
		if anim.Name == "" {
			t.Errorf("%s: missing animation name", typ)
		}
	}
}

func TestZoomTargets(t *testing.T) {
	fx := effect.VideoEffect{
		Type: effect.Zoom,
		Params: effect.Params{
			Duration:  5,
			Intensity: intPtr(40),
			Direction: effect.DirIn,
			Easing:    effect.Linear,
		},
	}
	anim := Render(fx)
	if got := anim.Keyframes[1].Transform; got != "scale(1.4)" {
		t.Errorf("zoom-in at 40%%: expected scale(1.4), got %q", got)
	}

	fx.Params.Direction = effect.DirOut
	anim = Render(fx)
	if got := anim.Keyframes[1].Transform; got != "scale(0.8)" {
		t.Errorf("zoom-out at 40%%: expected scale(0.8), got %q", got)
	}
}

func TestPanSweepsSymmetrically(t *testing.T) {
	fx := effect.VideoEffect{
		Type: effect.Pan,
		Params: effect.Params{
			Duration:  4,
			Intensity: intPtr(100),
			Direction: effect.DirRight,
			Easing:    effect.Linear,
		},
	}
	anim := Render(fx)

	from, to := anim.Keyframes[0].Transform, anim.Keyframes[1].Transform
	if !strings.Contains(from, "scale(1.5)") || !strings.Contains(to, "scale(1.5)") {
		t.Errorf("pan must overscan on both ends: %q -> %q", from, to)
	}
	if !strings.Contains(from, "translateX(-") || strings.Contains(to, "translateX(-") {
		t.Errorf("pan right should move from negative to positive X: %q -> %q", from, to)
	}
}

func TestPanUnknownDirectionHoldsStill(t *testing.T) {
	fx := effect.VideoEffect{
		Type: effect.Pan,
		Params: effect.Params{
			Duration:  4,
			Intensity: intPtr(100),
			Direction: "diagonal",
			Easing:    effect.Linear,
		},
	}
	anim := Render(fx)
	for _, kf := range anim.Keyframes {
		if !strings.Contains(kf.Transform, "translateX(0%)") {
			t.Errorf("unknown pan direction should not translate, got %q", kf.Transform)
		}
	}
}

func TestWaveDistortionLayer(t *testing.T) {
	cases := []struct {
		intensity int
		wantAmp   float64
	}{
		{10, 5},
		{50, 25},
		{100, 25}, // capped
	}
	for _, c := range cases {
		fx := effect.VideoEffect{
			Type: effect.Wave,
			Params: effect.Params{
				Duration:  6,
				Intensity: intPtr(c.intensity),
				Easing:    effect.EaseIn,
			},
		}
		anim := Render(fx)
		if anim.Distortion == nil {
			t.Fatalf("intensity %d: wave must carry a distortion layer", c.intensity)
		}
		if anim.Distortion.AmplitudePx != c.wantAmp {
			t.Errorf("intensity %d: expected amplitude %v, got %v",
				c.intensity, c.wantAmp, anim.Distortion.AmplitudePx)
		}
		if anim.Distortion.CycleSeconds != 2 {
			t.Errorf("ripple cycle must stay fixed at 2s, got %v", anim.Distortion.CycleSeconds)
		}
	}
}

func TestOnlyWaveCarriesDistortion(t *testing.T) {
	for _, typ := range effect.Types {
		if typ == effect.Wave {
			continue
		}
		fx := effect.VideoEffect{
			Type:   typ,
			Params: effect.Params{Duration: 5, Easing: effect.Linear, Direction: effect.DirIn},
		}
		if anim := Render(fx); anim.Distortion != nil {
			t.Errorf("%s: unexpected distortion layer", typ)
		}
	}
}

func TestRotationSweep(t *testing.T) {
	fx := effect.VideoEffect{
		Type: effect.Rotation,
		Params: effect.Params{
			Duration:  5,
			Intensity: intPtr(75),
			Easing:    effect.EaseOut,
		},
	}
	anim := Render(fx)
	if got := anim.Keyframes[1].Transform; got != "rotate(270deg)" {
		t.Errorf("rotation at 75%%: expected rotate(270deg), got %q", got)
	}
	if anim.Easing != "linear" {
		t.Errorf("rotation ignores the easing field, got %q", anim.Easing)
	}
}

func TestKenBurnsFiveStops(t *testing.T) {
	fx := effect.VideoEffect{
		Type: effect.KenBurns,
		Params: effect.Params{
			Duration:  10,
			Intensity: intPtr(50),
			Easing:    effect.Linear,
		},
	}
	anim := Render(fx)

	wantStops := []float64{0, 25, 50, 75, 100}
	if len(anim.Keyframes) != len(wantStops) {
		t.Fatalf("expected %d stops, got %d", len(wantStops), len(anim.Keyframes))
	}
	for i, kf := range anim.Keyframes {
		if kf.Stop != wantStops[i] {
			t.Errorf("stop %d: expected %v%%, got %v%%", i, wantStops[i], kf.Stop)
		}
	}

	first := anim.Keyframes[0].Transform
	last := anim.Keyframes[len(anim.Keyframes)-1].Transform
	if !strings.HasPrefix(first, "scale(1)") {
		t.Errorf("ken burns must start at scale 1, got %q", first)
	}
	if !strings.HasPrefix(last, "scale(1.5)") {
		t.Errorf("ken burns at 50%% intensity must end at scale 1.5, got %q", last)
	}
}

func TestDriftReturnsNearStart(t *testing.T) {
	fx := effect.VideoEffect{
		Type: effect.Drift,
		Params: effect.Params{
			Duration:  8,
			Intensity: intPtr(100),
			Easing:    effect.Linear,
		},
	}
	anim := Render(fx)

	first := anim.Keyframes[0].Transform
	last := anim.Keyframes[len(anim.Keyframes)-1].Transform
	if !strings.Contains(first, "translate(0px, 20px)") {
		t.Errorf("drift start offset wrong: %q", first)
	}
	if !strings.Contains(last, "translate(0px, -20px)") {
		t.Errorf("drift end offset wrong: %q", last)
	}
	if !strings.Contains(first, "rotate(0deg)") || !strings.Contains(last, "rotate(0deg)") {
		t.Errorf("drift rotation must start and end level: %q / %q", first, last)
	}
}

func TestUnknownTypeIsStatic(t *testing.T) {
	fx := effect.VideoEffect{
		Type:   "sparkle",
		Params: effect.Params{Duration: 5, Easing: effect.Linear},
	}
	anim := Render(fx)
	for _, kf := range anim.Keyframes {
		if kf.Transform != "none" {
			t.Errorf("unknown type must not move, got %q", kf.Transform)
		}
	}
}

func TestNameStableAndContentDerived(t *testing.T) {
	fx := effect.VideoEffect{
		Type: effect.Pulse,
		Params: effect.Params{
			Duration:  5,
			Intensity: intPtr(30),
			Easing:    effect.Linear,
		},
	}
	a, b := Render(fx), Render(fx)
	if a.Name != b.Name {
		t.Errorf("same effect must yield the same name: %q vs %q", a.Name, b.Name)
	}
	if !strings.HasPrefix(a.Name, "fx-pulse-") {
		t.Errorf("name should embed the type, got %q", a.Name)
	}

	fx.Params.Intensity = intPtr(31)
	if c := Render(fx); c.Name == a.Name {
		t.Error("different params must yield a different name")
	}
}

func TestCSSOutput(t *testing.T) {
	fx := effect.VideoEffect{
		Type: effect.Zoom,
		Params: effect.Params{
			Duration:  5,
			Intensity: intPtr(50),
			Direction: effect.DirIn,
			Easing:    effect.EaseInOut,
		},
	}
	anim := Render(fx)
	css := anim.CSS()

	for _, want := range []string{
		"@keyframes " + anim.Name,
		"0% { transform: scale(1); }",
		"100% { transform: scale(1.5); }",
		"." + anim.Name + " { animation: " + anim.Name + " 5s ease-in-out infinite; }",
	} {
		if !strings.Contains(css, want) {
			t.Errorf("css missing %q in:\n%s", want, css)
		}
	}
}

func TestCSSWaveRipple(t *testing.T) {
	fx := effect.VideoEffect{
		Type: effect.Wave,
		Params: effect.Params{
			Duration:  6,
			Intensity: intPtr(100),
			Easing:    effect.Linear,
		},
	}
	css := Render(fx).CSS()

	for _, want := range []string{
		"-ripple",
		"skewX(2.5deg)",
		"2s linear infinite",
	} {
		if !strings.Contains(css, want) {
			t.Errorf("wave css missing %q in:\n%s", want, css)
		}
	}
}

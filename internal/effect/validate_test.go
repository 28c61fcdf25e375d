package effect

import (
	"errors"
	"strings"
	"testing"
)

func intPtr(v int) *int { return &v }

func validEffect() VideoEffect {
	return VideoEffect{
		Type: Zoom,
		Params: Params{
			Duration:  5,
			Intensity: intPtr(30),
			Direction: DirIn,
			Easing:    EaseInOut,
		},
	}
}

func TestValidEffectPasses(t *testing.T) {
	if err := validEffect().Validate(); err != nil {
		t.Fatalf("expected valid effect, got %v", err)
	}
}

func TestAllTypesValidate(t *testing.T) {
	for _, typ := range Types {
		e := VideoEffect{
			Type: typ,
			Params: Params{
				Duration: 4,
				Easing:   Linear,
			},
		}
		switch typ {
		case Zoom:
			e.Params.Direction = DirOut
		case Pan:
			e.Params.Direction = DirLeft
		}
		if err := e.Validate(); err != nil {
			t.Errorf("%s: expected valid, got %v", typ, err)
		}
	}
}

func TestIntensityOutOfRange(t *testing.T) {
	e := validEffect()
	e.Params.Intensity = intPtr(150)

	err := e.Validate()
	if err == nil {
		t.Fatal("expected validation error")
	}

	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected *ValidationError, got %T", err)
	}

	found := false
	for _, f := range verr.Fields {
		if f.Field == "intensity" {
			found = true
			if !strings.Contains(f.Message, "0") || !strings.Contains(f.Message, "100") {
				t.Errorf("message should state the allowed range, got %q", f.Message)
			}
		}
	}
	if !found {
		t.Errorf("expected a field error for intensity, got %+v", verr.Fields)
	}
}

func TestIntensityDefaultsWhenAbsent(t *testing.T) {
	p := Params{Duration: 5, Easing: Linear}
	if got := p.IntensityValue(); got != DefaultIntensity {
		t.Errorf("expected default %d, got %d", DefaultIntensity, got)
	}
	p.Intensity = intPtr(0)
	if got := p.IntensityValue(); got != 0 {
		t.Errorf("explicit zero must not fall back to the default, got %d", got)
	}
}

func TestDurationBounds(t *testing.T) {
	for _, dur := range []float64{0, 0.5, 30.5, -3} {
		e := validEffect()
		e.Params.Duration = dur
		if err := e.Validate(); err == nil {
			t.Errorf("duration %v: expected validation error", dur)
		}
	}
	for _, dur := range []float64{1, 15, 30} {
		e := validEffect()
		e.Params.Duration = dur
		if err := e.Validate(); err != nil {
			t.Errorf("duration %v: expected valid, got %v", dur, err)
		}
	}
}

func TestDirectionRequiredForZoomAndPan(t *testing.T) {
	e := validEffect()
	e.Params.Direction = ""
	if err := e.Validate(); err == nil {
		t.Error("zoom without direction should fail")
	}

	e = validEffect()
	e.Type = Pan
	e.Params.Direction = DirIn
	if err := e.Validate(); err == nil {
		t.Error("pan with direction 'in' should fail")
	}
}

func TestDirectionToleratedForOtherTypes(t *testing.T) {
	e := VideoEffect{
		Type: Wave,
		Params: Params{
			Duration:  3,
			Direction: DirLeft, // stale from a previous pan selection
			Easing:    Linear,
		},
	}
	if err := e.Validate(); err != nil {
		t.Errorf("wave with a set direction must validate, got %v", err)
	}
}

func TestUnknownTypeRejected(t *testing.T) {
	e := validEffect()
	e.Type = "sparkle"
	if err := e.Validate(); err == nil {
		t.Error("unknown type should fail validation")
	}
}

func TestUnknownEasingRejected(t *testing.T) {
	e := validEffect()
	e.Params.Easing = "bounce"
	if err := e.Validate(); err == nil {
		t.Error("unknown easing should fail validation")
	}
}

func TestExportSettingsValidation(t *testing.T) {
	if err := DefaultExportSettings().Validate(); err != nil {
		t.Fatalf("default settings must validate, got %v", err)
	}

	cases := []struct {
		name   string
		mutate func(*ExportSettings)
		field  string
	}{
		{"width too small", func(s *ExportSettings) { s.Width = 50 }, "width"},
		{"width too large", func(s *ExportSettings) { s.Width = 4000 }, "width"},
		{"height too large", func(s *ExportSettings) { s.Height = 2400 }, "height"},
		{"fps zero", func(s *ExportSettings) { s.FPS = 0 }, "fps"},
		{"fps too high", func(s *ExportSettings) { s.FPS = 120 }, "fps"},
		{"bad format", func(s *ExportSettings) { s.Format = "avi" }, "format"},
		{"quality zero", func(s *ExportSettings) { s.Quality = 0 }, "quality"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			s := DefaultExportSettings()
			c.mutate(&s)
			err := s.Validate()
			if err == nil {
				t.Fatal("expected validation error")
			}
			var verr *ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("expected *ValidationError, got %T", err)
			}
			for _, f := range verr.Fields {
				if f.Field == c.field {
					return
				}
			}
			t.Errorf("expected a field error for %s, got %+v", c.field, verr.Fields)
		})
	}
}

func TestPresetCatalog(t *testing.T) {
	wantIDs := []string{"youtube", "shorts", "instagram", "custom"}
	if len(Presets) != len(wantIDs) {
		t.Fatalf("expected %d presets, got %d", len(wantIDs), len(Presets))
	}
	for i, id := range wantIDs {
		if Presets[i].ID != id {
			t.Errorf("preset %d: expected id %q, got %q", i, id, Presets[i].ID)
		}
		if err := Presets[i].Settings.Validate(); err != nil {
			t.Errorf("preset %q has invalid settings: %v", id, err)
		}
	}

	if _, ok := PresetByID("shorts"); !ok {
		t.Error("PresetByID failed for a known id")
	}
	if _, ok := PresetByID("betamax"); ok {
		t.Error("PresetByID succeeded for an unknown id")
	}
}

package transcode

import (
	"os/exec"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

func TestNewExecutorMissingBinary(t *testing.T) {
	_, err := NewExecutor(zerolog.Nop(), "no-such-transcoder-binary", 0)
	if err == nil {
		t.Fatal("expected lookup failure")
	}
	if !strings.Contains(err.Error(), "not found") {
		t.Errorf("error should say the binary was not found, got %v", err)
	}
}

func TestNewExecutorResolvesFromPath(t *testing.T) {
	if _, err := exec.LookPath("ffmpeg"); err != nil {
		t.Skip("ffmpeg not found in PATH")
	}
	e, err := NewExecutor(zerolog.Nop(), "", 4)
	if err != nil {
		t.Fatalf("expected executor, got %v", err)
	}
	if e.ffmpegPath == "" {
		t.Error("ffmpeg path is empty")
	}
}

func TestScanProgressFractions(t *testing.T) {
	input := strings.Join([]string{
		"frame=30",
		"out_time_us=1250000",
		"progress=continue",
		"frame=60",
		"out_time_us=2500000",
		"progress=continue",
		"out_time_us=5000000",
		"progress=end",
	}, "\n")

	var fracs []float64
	scanProgress(strings.NewReader(input), 5, func(f float64) {
		fracs = append(fracs, f)
	}, nil)

	want := []float64{0.25, 0.5, 1}
	if len(fracs) != len(want) {
		t.Fatalf("expected %d reports, got %v", len(want), fracs)
	}
	for i := range want {
		if fracs[i] != want[i] {
			t.Errorf("report %d: expected %v, got %v", i, want[i], fracs[i])
		}
	}
}

func TestScanProgressClampsOvershoot(t *testing.T) {
	input := "out_time_us=9000000\nprogress=continue\n"

	var fracs []float64
	scanProgress(strings.NewReader(input), 5, func(f float64) {
		fracs = append(fracs, f)
	}, nil)

	if len(fracs) != 1 || fracs[0] != 1 {
		t.Errorf("overshoot must clamp to 1, got %v", fracs)
	}
}

func TestScanProgressForwardsLogLines(t *testing.T) {
	input := "frame=10\nprogress=continue\n"

	var lines []string
	scanProgress(strings.NewReader(input), 0, nil, func(l string) {
		lines = append(lines, l)
	})

	if len(lines) != 2 {
		t.Errorf("expected every line forwarded, got %v", lines)
	}
}

package transcode

import (
	"math"
	"strconv"

	"github.com/marlowe/stillmotion/internal/effect"
	"github.com/marlowe/stillmotion/internal/filtergraph"
)

// BuildArgs assembles the full argument list for a still-image render:
// the input loops at the output frame rate for the effect duration, the
// compiled graph supplies the only mapped stream, and audio is dropped.
func BuildArgs(inputPath, outputPath, graph string, fx effect.VideoEffect, s effect.ExportSettings) []string {
	args := []string{
		"-loop", "1",
		"-framerate", strconv.Itoa(s.FPS),
		"-i", inputPath,
		"-filter_complex", graph,
		"-map", "[" + filtergraph.OutputPad + "]",
		"-t", strconv.FormatFloat(fx.Params.Duration, 'f', -1, 64),
		"-pix_fmt", "yuv420p",
		"-an",
	}
	args = append(args, codecArgs(s)...)
	return append(args, outputPath)
}

// codecArgs selects the encoder by container format. Quality maps onto
// the constant-rate-factor scale, inverted so that 100 is best.
func codecArgs(s effect.ExportSettings) []string {
	crf := strconv.Itoa(CRF(s.Quality))
	switch s.Format {
	case "webm":
		return []string{"-c:v", "libvpx-vp9", "-crf", crf, "-b:v", "0"}
	default:
		return []string{"-c:v", "libx264", "-preset", "medium", "-crf", crf, "-movflags", "+faststart"}
	}
}

// CRF maps quality in [1,100] to the encoder's 0-51 rate-factor range.
// Higher quality gives a lower CRF.
func CRF(quality int) int {
	return 51 - int(math.Round(0.33*float64(quality)))
}

// MIMEType returns the media type for a container format.
func MIMEType(format string) string {
	return "video/" + format
}

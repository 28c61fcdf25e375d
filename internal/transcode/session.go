package transcode

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	"image/png"
	"math"
	"os"
	"path/filepath"
	"sync"

	"github.com/google/uuid"
	"github.com/nfnt/resize"
	"github.com/rs/zerolog"

	"github.com/marlowe/stillmotion/internal/effect"
	"github.com/marlowe/stillmotion/internal/filtergraph"
	"github.com/marlowe/stillmotion/pkg/util"
)

var (
	// ErrNotReady is returned by Render before a successful Init.
	ErrNotReady = errors.New("session not initialized")

	// ErrBusy is returned when Render is called while a render is
	// already in flight. The in-flight render is unaffected.
	ErrBusy = errors.New("render already in progress")

	// ErrAborted is the outcome of a cancelled render. It is not a
	// failure: cleanup has run and the session can render again.
	ErrAborted = errors.New("render aborted")
)

// Video is a finished render: raw container bytes plus their media type.
type Video struct {
	Bytes []byte
	MIME  string
}

// Session executes renders one at a time against a working directory.
// Each render gets its own subdirectory, removed on every exit path, so
// concurrent sessions sharing a root never collide.
//
// Cancellation is cooperative: Cancel signals the in-flight context and
// the engine process is killed, but the engine may run briefly after
// Cancel returns. Callers must not reuse staged paths across renders.
type Session struct {
	logger   zerolog.Logger
	runner   Runner
	workRoot string

	mu        sync.Mutex
	ready     bool
	rendering bool
	cancel    context.CancelFunc
}

// NewSession wires a session to a runner and a working-space root.
func NewSession(logger zerolog.Logger, runner Runner, workRoot string) *Session {
	return &Session{
		logger:   logger.With().Str("component", "session").Logger(),
		runner:   runner,
		workRoot: workRoot,
	}
}

// Init prepares the working space. It is idempotent: repeat calls after
// success return immediately. On failure nothing is retained and Init
// can be retried.
func (s *Session) Init() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.ready {
		return nil
	}
	if s.runner == nil {
		return fmt.Errorf("engine load failed: no runner configured")
	}
	if err := util.EnsureDir(s.workRoot); err != nil {
		return fmt.Errorf("engine load failed: working space %q: %w", s.workRoot, err)
	}
	s.ready = true
	return nil
}

// Render stages the image, compiles the effect and runs the engine,
// returning the produced video bytes. The session accepts at most one
// render at a time; a second call while one is in flight returns
// ErrBusy without touching the in-flight render.
func (s *Session) Render(ctx context.Context, img []byte, fx effect.VideoEffect, settings effect.ExportSettings, onProgress effect.ProgressFunc) (*Video, error) {
	s.mu.Lock()
	if !s.ready {
		s.mu.Unlock()
		return nil, ErrNotReady
	}
	if s.rendering {
		s.mu.Unlock()
		return nil, ErrBusy
	}
	ctx, cancel := context.WithCancel(ctx)
	s.rendering = true
	s.cancel = cancel
	s.mu.Unlock()

	defer func() {
		cancel()
		s.mu.Lock()
		s.rendering = false
		s.cancel = nil
		s.mu.Unlock()
	}()

	video, err := s.render(ctx, img, fx, settings, onProgress)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			s.logger.Info().Msg("render aborted")
			return nil, ErrAborted
		}
		s.logger.Error().Err(err).Msg("render failed")
		return nil, err
	}
	return video, nil
}

// Cancel aborts the in-flight render, if any. Safe to call at any time.
func (s *Session) Cancel() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cancel != nil {
		s.cancel()
	}
}

func (s *Session) render(ctx context.Context, img []byte, fx effect.VideoEffect, settings effect.ExportSettings, onProgress effect.ProgressFunc) (*Video, error) {
	report := func(percent int, stage string) {
		if onProgress != nil {
			onProgress(effect.Progress{Percent: percent, Stage: stage})
		}
	}

	workDir := filepath.Join(s.workRoot, uuid.NewString())
	if err := os.MkdirAll(workDir, 0o755); err != nil {
		return nil, fmt.Errorf("render failed: create work dir: %w", err)
	}
	defer func() {
		if err := os.RemoveAll(workDir); err != nil {
			s.logger.Warn().Err(err).Str("dir", workDir).Msg("work dir cleanup failed")
		}
	}()

	report(5, "Preparing input")
	inputPath, err := stageImage(workDir, img, settings)
	if err != nil {
		return nil, fmt.Errorf("render failed: stage input: %w", err)
	}

	report(10, "Configuring effect")
	graph := filtergraph.Compile(fx, settings)
	outputPath := filepath.Join(workDir, "output."+settings.Format)
	args := BuildArgs(inputPath, outputPath, graph, fx, settings)

	s.logger.Info().
		Str("type", string(fx.Type)).
		Float64("duration", fx.Params.Duration).
		Str("format", settings.Format).
		Msg("starting render")

	err = s.runner.Run(ctx, RunOptions{
		Args:         args,
		TotalSeconds: fx.Params.Duration,
		ProgressHandler: func(frac float64) {
			report(10+int(frac*80), "Processing video")
		},
		LogHandler: func(line string) {
			s.logger.Debug().Str("ffmpeg", line).Msg("engine output")
		},
	})
	if err != nil {
		if ctx.Err() != nil {
			return nil, context.Canceled
		}
		return nil, fmt.Errorf("render failed: %w", err)
	}

	report(95, "Finalizing")
	out, err := os.ReadFile(outputPath)
	if err != nil {
		return nil, fmt.Errorf("render failed: read output: %w", err)
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("render failed: engine produced empty output")
	}

	report(100, "Complete")
	return &Video{Bytes: out, MIME: MIMEType(settings.Format)}, nil
}

// stageImage writes the source into the work dir. Sources much larger
// than the output geometry are decoded and downscaled first: the motion
// stages overscan by at most 1.5x, so anything beyond twice the target
// is wasted decode work per frame.
func stageImage(workDir string, img []byte, settings effect.ExportSettings) (string, error) {
	if len(img) == 0 {
		return "", fmt.Errorf("empty image")
	}

	path := filepath.Join(workDir, "input.img")

	cfg, _, err := image.DecodeConfig(bytes.NewReader(img))
	if err == nil {
		maxW, maxH := 2*settings.Width, 2*settings.Height
		if w, h, shrink := fitWithin(cfg.Width, cfg.Height, maxW, maxH); shrink {
			decoded, _, derr := image.Decode(bytes.NewReader(img))
			if derr == nil {
				small := resize.Resize(uint(w), uint(h), decoded, resize.Lanczos3)
				var buf bytes.Buffer
				if perr := png.Encode(&buf, small); perr == nil {
					path = filepath.Join(workDir, "input.png")
					img = buf.Bytes()
				}
			}
			// Downscaling is an optimization; on any decode or encode
			// failure the original bytes are staged unchanged.
		}
	}

	if err := os.WriteFile(path, img, 0o644); err != nil {
		return "", err
	}
	return path, nil
}

// fitWithin scales (w,h) down to fit inside (maxW,maxH) preserving
// aspect ratio. The bool reports whether scaling is needed.
func fitWithin(w, h, maxW, maxH int) (int, int, bool) {
	if w <= 0 || h <= 0 || (w <= maxW && h <= maxH) {
		return w, h, false
	}
	scaleW := float64(maxW) / float64(w)
	scaleH := float64(maxH) / float64(h)
	scale := scaleW
	if scaleH < scale {
		scale = scaleH
	}
	return int(math.Round(float64(w) * scale)), int(math.Round(float64(h) * scale)), true
}

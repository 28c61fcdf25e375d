// Package transcode runs compiled filter graphs through an external
// ffmpeg process. A Session owns one render at a time: it stages the
// input image into an isolated working directory, executes the engine,
// reads the produced bytes back and removes every staged artifact on
// all exit paths.
package transcode

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os/exec"
	"strconv"
	"strings"
	"sync"

	"github.com/rs/zerolog"
)

// RunOptions configures one engine invocation.
type RunOptions struct {
	Args []string

	// TotalSeconds is the expected output duration, used to map the
	// engine's time reports to fractional completion.
	TotalSeconds float64

	// ProgressHandler receives fractional completion in [0,1].
	ProgressHandler func(float64)

	// LogHandler receives raw engine log lines.
	LogHandler func(string)
}

// Runner abstracts the engine invocation so sessions can be exercised
// without a real ffmpeg binary.
type Runner interface {
	Run(ctx context.Context, opts RunOptions) error
}

// Executor runs ffmpeg as a child process with progress streaming.
type Executor struct {
	logger     zerolog.Logger
	ffmpegPath string
	threads    int
}

// NewExecutor resolves the ffmpeg binary and returns a process-backed
// runner. An empty path falls back to PATH lookup. Resolution failure
// is an engine load error: the caller may retry after installing the
// binary.
func NewExecutor(logger zerolog.Logger, ffmpegPath string, threads int) (*Executor, error) {
	if ffmpegPath == "" {
		ffmpegPath = "ffmpeg"
	}
	resolved, err := exec.LookPath(ffmpegPath)
	if err != nil {
		return nil, fmt.Errorf("ffmpeg not found at %q: %w", ffmpegPath, err)
	}

	return &Executor{
		logger:     logger.With().Str("component", "transcode").Logger(),
		ffmpegPath: resolved,
		threads:    threads,
	}, nil
}

// Run executes ffmpeg with the given arguments, streaming progress and
// log lines until the process exits. Cancellation kills the child via
// the context; the resulting error is the context's error, not an
// execution failure.
func (e *Executor) Run(ctx context.Context, opts RunOptions) error {
	if len(opts.Args) == 0 {
		return fmt.Errorf("no arguments provided")
	}

	baseArgs := []string{"-y", "-hide_banner", "-loglevel", "info"}
	if e.threads > 0 {
		baseArgs = append(baseArgs, "-threads", strconv.Itoa(e.threads))
	}
	baseArgs = append(baseArgs, "-progress", "pipe:1")
	args := append(baseArgs, opts.Args...)

	e.logger.Debug().
		Str("cmd", "ffmpeg").
		Strs("args", args).
		Msg("executing ffmpeg")

	cmd := exec.CommandContext(ctx, e.ffmpegPath, args...)

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return fmt.Errorf("failed to create stdout pipe: %w", err)
	}
	stderr, err := cmd.StderrPipe()
	if err != nil {
		return fmt.Errorf("failed to create stderr pipe: %w", err)
	}

	if err := cmd.Start(); err != nil {
		return fmt.Errorf("failed to start ffmpeg: %w", err)
	}

	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		scanProgress(stdout, opts.TotalSeconds, opts.ProgressHandler, opts.LogHandler)
	}()
	go func() {
		defer wg.Done()
		scanner := bufio.NewScanner(stderr)
		for scanner.Scan() {
			if opts.LogHandler != nil {
				opts.LogHandler(scanner.Text())
			}
		}
	}()

	wg.Wait()

	if err := cmd.Wait(); err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return fmt.Errorf("ffmpeg execution failed: %w", err)
	}

	e.logger.Debug().Msg("ffmpeg execution completed")
	return nil
}

// scanProgress parses the key=value blocks ffmpeg emits under
// -progress, converting out_time_us reports to fractional completion
// against the expected total duration.
func scanProgress(r io.Reader, totalSeconds float64, onFraction func(float64), onLog func(string)) {
	scanner := bufio.NewScanner(r)
	var outSeconds float64

	for scanner.Scan() {
		line := scanner.Text()
		if onLog != nil {
			onLog(line)
		}

		switch {
		case strings.HasPrefix(line, "out_time_us="):
			if us, err := strconv.ParseFloat(strings.TrimPrefix(line, "out_time_us="), 64); err == nil {
				outSeconds = us / 1e6
			}
		case strings.HasPrefix(line, "progress="):
			if onFraction == nil {
				continue
			}
			if strings.TrimPrefix(line, "progress=") == "end" {
				onFraction(1)
				continue
			}
			if totalSeconds > 0 {
				frac := outSeconds / totalSeconds
				if frac < 0 {
					frac = 0
				}
				if frac > 1 {
					frac = 1
				}
				onFraction(frac)
			}
		}
	}
}

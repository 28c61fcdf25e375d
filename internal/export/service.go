// Package export is the orchestration facade over a transcoding
// session. It owns at most one session, translates engine errors into
// user-facing messages and holds no rendering logic of its own.
package export

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/marlowe/stillmotion/internal/effect"
	"github.com/marlowe/stillmotion/internal/transcode"
)

// Service delegates to a single transcoding session.
type Service struct {
	logger  zerolog.Logger
	session *transcode.Session
}

// NewService wraps a session. The session is not initialized yet; Load
// does that on first use.
func NewService(logger zerolog.Logger, session *transcode.Session) *Service {
	return &Service{
		logger:  logger.With().Str("component", "export").Logger(),
		session: session,
	}
}

// Load initializes the engine. Idempotent; safe to call before every
// render. Failure is retryable.
func (s *Service) Load(onProgress effect.ProgressFunc) error {
	if onProgress != nil {
		onProgress(effect.Progress{Percent: 0, Stage: "Loading engine"})
	}
	if err := s.session.Init(); err != nil {
		return fmt.Errorf("video engine failed to load: %w", err)
	}
	if onProgress != nil {
		onProgress(effect.Progress{Percent: 100, Stage: "Engine ready"})
	}
	return nil
}

// GenerateVideo runs one render end to end and returns the finished
// video. Callers validate the effect and settings before calling; the
// facade only delegates and rewords failures.
func (s *Service) GenerateVideo(ctx context.Context, img []byte, fx effect.VideoEffect, onProgress effect.ProgressFunc, settings effect.ExportSettings) (*transcode.Video, error) {
	if err := s.Load(nil); err != nil {
		return nil, err
	}

	video, err := s.session.Render(ctx, img, fx, settings, onProgress)
	if err != nil {
		switch {
		case errors.Is(err, transcode.ErrBusy):
			return nil, fmt.Errorf("a video is already being generated: %w", err)
		case errors.Is(err, transcode.ErrAborted):
			return nil, err
		default:
			return nil, fmt.Errorf("video generation failed: %w", err)
		}
	}

	s.logger.Info().
		Str("type", string(fx.Type)).
		Int("bytes", len(video.Bytes)).
		Msg("video generated")
	return video, nil
}

// Abort cancels the in-flight render, if any.
func (s *Service) Abort() {
	s.session.Cancel()
}

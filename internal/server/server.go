// Package server exposes the render pipeline over HTTP: a multipart
// export endpoint, a preview-animation endpoint and the preset catalog.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/marlowe/stillmotion/internal/effect"
	"github.com/marlowe/stillmotion/internal/preview"
	"github.com/marlowe/stillmotion/internal/transcode"
	"github.com/marlowe/stillmotion/pkg/util"
)

// Engine is the rendering boundary the handlers call. Satisfied by
// *export.Service. Cancellation is not a route: a render is bound to
// its request context and dies with the client connection.
type Engine interface {
	GenerateVideo(ctx context.Context, img []byte, fx effect.VideoEffect, onProgress effect.ProgressFunc, settings effect.ExportSettings) (*transcode.Video, error)
}

// Server routes HTTP requests to the engine.
type Server struct {
	logger    zerolog.Logger
	engine    Engine
	maxUpload int64
	router    *gin.Engine
}

// New builds the server and its routes. maxUpload bounds the request
// body in bytes; zero means no explicit bound.
func New(logger zerolog.Logger, engine Engine, maxUpload int64) *Server {
	s := &Server{
		logger:    logger.With().Str("component", "server").Logger(),
		engine:    engine,
		maxUpload: maxUpload,
	}

	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery(), s.requestLogger())

	r.GET("/healthz", s.handleHealth)
	api := r.Group("/api")
	{
		api.POST("/export", s.handleExport)
		api.POST("/preview", s.handlePreview)
		api.GET("/presets", s.handlePresets)
	}

	s.router = r
	return s
}

// Handler exposes the router for embedding and tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Run serves until the listener fails.
func (s *Server) Run(addr string) error {
	s.logger.Info().Str("addr", addr).Msg("listening")
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	return srv.ListenAndServe()
}

func (s *Server) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		s.logger.Info().
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Int("status", c.Writer.Status()).
			Dur("elapsed", time.Since(start)).
			Msg("request")
	}
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *Server) handlePresets(c *gin.Context) {
	c.JSON(http.StatusOK, effect.Presets)
}

// handleExport renders a video from a multipart request: an image file,
// an effect JSON field and an optional settings JSON field. Everything
// is validated before the engine is touched.
func (s *Server) handleExport(c *gin.Context) {
	if s.maxUpload > 0 {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, s.maxUpload)
	}

	header, err := c.FormFile("image")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing image file"})
		return
	}
	if ct := header.Header.Get("Content-Type"); !strings.HasPrefix(ct, "image/") {
		c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("image field must carry an image type, got %q", ct)})
		return
	}

	fx, ok := parseEffect(c)
	if !ok {
		return
	}
	settings, ok := parseSettings(c)
	if !ok {
		return
	}

	file, err := header.Open()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to read image upload"})
		return
	}
	defer file.Close()
	img, err := io.ReadAll(file)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to read image upload"})
		return
	}

	video, err := s.engine.GenerateVideo(c.Request.Context(), img, fx, nil, settings)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, transcode.ErrBusy) {
			status = http.StatusConflict
		}
		c.JSON(status, gin.H{"error": err.Error()})
		return
	}

	filename := util.TimestampName("stillmotion", settings.Format)
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename=%q`, filename))
	c.Data(http.StatusOK, video.MIME, video.Bytes)
}

// handlePreview returns the declarative animation for an effect, both
// as structured data and as ready-to-inject CSS text.
func (s *Server) handlePreview(c *gin.Context) {
	var fx effect.VideoEffect
	if err := c.ShouldBindJSON(&fx); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "malformed effect JSON: " + err.Error()})
		return
	}
	if !validateEffect(c, fx) {
		return
	}

	anim := preview.Render(fx)
	c.JSON(http.StatusOK, gin.H{
		"animation": anim,
		"css":       anim.CSS(),
	})
}

func parseEffect(c *gin.Context) (effect.VideoEffect, bool) {
	var fx effect.VideoEffect
	raw := c.PostForm("effect")
	if raw == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing effect field"})
		return fx, false
	}
	if err := json.Unmarshal([]byte(raw), &fx); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "malformed effect JSON: " + err.Error()})
		return fx, false
	}
	if !validateEffect(c, fx) {
		return fx, false
	}
	return fx, true
}

func parseSettings(c *gin.Context) (effect.ExportSettings, bool) {
	settings := effect.DefaultExportSettings()
	raw := c.PostForm("settings")
	if raw == "" {
		return settings, true
	}
	if err := json.Unmarshal([]byte(raw), &settings); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "malformed settings JSON: " + err.Error()})
		return settings, false
	}
	if err := settings.Validate(); err != nil {
		writeValidationError(c, err)
		return settings, false
	}
	return settings, true
}

func validateEffect(c *gin.Context, fx effect.VideoEffect) bool {
	if err := fx.Validate(); err != nil {
		writeValidationError(c, err)
		return false
	}
	return true
}

func writeValidationError(c *gin.Context, err error) {
	var verr *effect.ValidationError
	if errors.As(err, &verr) {
		c.JSON(http.StatusBadRequest, gin.H{"error": verr.Fields})
		return
	}
	c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
}

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/marlowe/stillmotion/internal/config"
	"github.com/marlowe/stillmotion/internal/effect"
	"github.com/marlowe/stillmotion/internal/export"
	"github.com/marlowe/stillmotion/internal/logging"
	"github.com/marlowe/stillmotion/internal/preview"
	"github.com/marlowe/stillmotion/internal/server"
	"github.com/marlowe/stillmotion/internal/transcode"
	"github.com/marlowe/stillmotion/pkg/util"
)

var (
	cfgFile string
	verbose bool
	jsonLog bool
)

func main() {
	ctx := context.Background()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "stillmotion",
	Short: "stillmotion - animate still images into short videos",
	Long:  "Applies parametric motion effects (zoom, pan, ken burns and friends) to a still image and renders the result to MP4 or WebM via ffmpeg.",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// .env is optional; real env vars win either way.
		_ = godotenv.Load()

		logging.Init(verbose, jsonLog)

		cfg, err := config.Load(cfgFile)
		if err != nil {
			return err
		}
		cmd.SetContext(config.WithConfig(cmd.Context(), cfg))
		return nil
	},
	SilenceUsage:  true,
	SilenceErrors: false,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: ./stillmotion.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().BoolVar(&jsonLog, "json-log", false, "emit JSON logs")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(renderCmd)
	rootCmd.AddCommand(presetsCmd)
	rootCmd.AddCommand(previewCmd)
}

func newService(cfg *config.Config) (*export.Service, error) {
	executor, err := transcode.NewExecutor(log.Logger, cfg.FFmpeg.BinaryPath, cfg.FFmpeg.Threads)
	if err != nil {
		return nil, err
	}
	session := transcode.NewSession(log.Logger, executor, cfg.WorkDir)
	return export.NewService(log.Logger, session), nil
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP export service",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.FromContext(cmd.Context())

		svc, err := newService(cfg)
		if err != nil {
			return err
		}
		if err := svc.Load(nil); err != nil {
			return err
		}

		srv := server.New(log.Logger, svc, cfg.MaxUploadBytes())
		return srv.Run(cfg.Server.Addr)
	},
}

var (
	effectType string
	duration   float64
	intensity  int
	direction  string
	easing     string
	presetID   string
	format     string
	output     string
)

var renderCmd = &cobra.Command{
	Use:   "render [image]",
	Short: "Render a single image to video",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.FromContext(cmd.Context())

		if !util.FileExists(args[0]) {
			return fmt.Errorf("input image %q not found", args[0])
		}
		img, err := os.ReadFile(args[0])
		if err != nil {
			return err
		}

		fx := cliEffect()
		if err := fx.Validate(); err != nil {
			return err
		}

		settings := effect.DefaultExportSettings()
		if presetID != "" {
			p, ok := effect.PresetByID(presetID)
			if !ok {
				return fmt.Errorf("unknown preset %q", presetID)
			}
			settings = p.Settings
		}
		if format != "" {
			settings.Format = format
		}
		if err := settings.Validate(); err != nil {
			return err
		}

		svc, err := newService(cfg)
		if err != nil {
			return err
		}

		video, err := svc.GenerateVideo(cmd.Context(), img, fx, func(p effect.Progress) {
			log.Info().Int("percent", p.Percent).Str("stage", p.Stage).Msg("render progress")
		}, settings)
		if err != nil {
			return err
		}

		out := output
		if out == "" {
			out = util.TimestampName("stillmotion", settings.Format)
		}
		if err := os.WriteFile(out, video.Bytes, 0o644); err != nil {
			return err
		}

		log.Info().Str("output", out).Int("bytes", len(video.Bytes)).Msg("render complete")
		return nil
	},
}

var presetsCmd = &cobra.Command{
	Use:   "presets",
	Short: "List export presets",
	RunE: func(cmd *cobra.Command, args []string) error {
		for _, p := range effect.Presets {
			fmt.Printf("%-12s %dx%d @ %d fps, %s q%d  %s\n",
				p.ID, p.Settings.Width, p.Settings.Height, p.Settings.FPS,
				p.Settings.Format, p.Settings.Quality, p.Description)
		}
		return nil
	},
}

var previewCmd = &cobra.Command{
	Use:   "preview",
	Short: "Print the CSS preview animation for an effect",
	RunE: func(cmd *cobra.Command, args []string) error {
		fx := cliEffect()
		if err := fx.Validate(); err != nil {
			return err
		}

		anim := preview.Render(fx)
		if jsonLog {
			return json.NewEncoder(os.Stdout).Encode(anim)
		}
		fmt.Print(anim.CSS())
		return nil
	},
}

func cliEffect() effect.VideoEffect {
	i := intensity
	return effect.VideoEffect{
		Type: effect.Type(effectType),
		Params: effect.Params{
			Duration:  duration,
			Intensity: &i,
			Direction: effect.Direction(direction),
			Easing:    effect.Easing(easing),
		},
	}
}

func init() {
	for _, cmd := range []*cobra.Command{renderCmd, previewCmd} {
		cmd.Flags().StringVar(&effectType, "type", "ken_burns", "effect type (zoom, pan, parallax, wave, pulse, rotation, drift, ken_burns)")
		cmd.Flags().Float64Var(&duration, "duration", 5, "clip duration in seconds (1-30)")
		cmd.Flags().IntVar(&intensity, "intensity", effect.DefaultIntensity, "effect intensity (0-100)")
		cmd.Flags().StringVar(&direction, "direction", "", "direction for zoom (in/out) and pan (left/right/up/down)")
		cmd.Flags().StringVar(&easing, "easing", "ease_in_out", "easing (linear, ease_in, ease_out, ease_in_out)")
	}
	renderCmd.Flags().StringVar(&presetID, "preset", "", "export preset (youtube, shorts, instagram)")
	renderCmd.Flags().StringVar(&format, "format", "", "container format (mp4, webm)")
	renderCmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: timestamped name)")
}

package cli

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/forPelevin/scenecast/internal/config"
	"github.com/forPelevin/scenecast/internal/pipeline"
)

func newRenderCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "render <script-path> <audio-path> <output-path>",
		Short: "Render the script against a narration track into one video",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRender(cmd, args[0], args[1], args[2])
		},
	}
	cmd.Flags().Int("workers", 0, "Parallel scene renders (0 uses the profile value)")
	return cmd
}

func runRender(cmd *cobra.Command, scriptPath, audioPath, outputPath string) error {
	configPath, _ := cmd.Flags().GetString("config")
	workers, _ := cmd.Flags().GetInt("workers")

	profile, err := config.Load(configPath)
	if err != nil {
		return err
	}
	profile.Encoder.FFmpegPath = getenvDefault("SCENECAST_FFMPEG", profile.Encoder.FFmpegPath)
	profile.Encoder.FFprobePath = getenvDefault("SCENECAST_FFPROBE", profile.Encoder.FFprobePath)
	if workers > 0 {
		profile.Video.Workers = workers
	}

	absScript, err := filepath.Abs(scriptPath)
	if err != nil {
		return err
	}
	absAudio, err := filepath.Abs(audioPath)
	if err != nil {
		return err
	}
	absOut, err := filepath.Abs(outputPath)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), 3*time.Hour)
	defer cancel()

	cfg := pipeline.Config{
		ScriptPath: absScript,
		AudioPath:  absAudio,
		OutputPath: absOut,
		Profile:    profile,
		Log:        newLogger(cmd),
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	return pipeline.Run(ctx, cfg)
}

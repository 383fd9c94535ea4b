package cli

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/forPelevin/scenecast/internal/config"
	"github.com/forPelevin/scenecast/internal/domain/script"
	"github.com/forPelevin/scenecast/internal/domain/subtitles"
	"github.com/forPelevin/scenecast/internal/domain/timing"
	"github.com/forPelevin/scenecast/internal/ports/adapters/ffmpeg"
)

func newSubtitlesCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "subtitles <script-path>",
		Short: "Export the narration as an SRT track",
		Long: "Export the script's narration as SRT cues. With --audio the cue\n" +
			"timings match the final video; without it the script's nominal\n" +
			"durations are used.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSubtitles(cmd, args[0])
		},
	}
	cmd.Flags().String("audio", "", "Narration track to time the cues against")
	cmd.Flags().String("out", "", "Write to a file instead of stdout")
	return cmd
}

func runSubtitles(cmd *cobra.Command, scriptPath string) error {
	b, err := os.ReadFile(scriptPath)
	if err != nil {
		return fmt.Errorf("read script: %w", err)
	}
	scenes, err := script.Parse(string(b))
	if err != nil {
		return err
	}

	audioPath, _ := cmd.Flags().GetString("audio")
	if audioPath != "" {
		configPath, _ := cmd.Flags().GetString("config")
		profile, err := config.Load(configPath)
		if err != nil {
			return err
		}
		profile.Encoder.FFmpegPath = getenvDefault("SCENECAST_FFMPEG", profile.Encoder.FFmpegPath)
		profile.Encoder.FFprobePath = getenvDefault("SCENECAST_FFPROBE", profile.Encoder.FFprobePath)

		tool, err := ffmpeg.New(
			profile.Encoder.FFmpegPath,
			profile.Encoder.FFprobePath,
			time.Duration(profile.Encoder.TimeoutSeconds)*time.Second,
			newLogger(cmd),
		)
		if err != nil {
			return err
		}
		audioDuration, err := tool.ProbeDuration(cmd.Context(), audioPath)
		if err != nil {
			return err
		}
		scenes, _ = timing.Reconcile(scenes, audioDuration,
			secondsDuration(profile.Timing.DefaultTotalSeconds))
	}

	doc := subtitles.RenderSRT(scenes)
	if outPath, _ := cmd.Flags().GetString("out"); outPath != "" {
		if err := os.WriteFile(outPath, []byte(doc), 0o644); err != nil {
			return fmt.Errorf("write subtitles: %w", err)
		}
		return nil
	}
	fmt.Fprint(cmd.OutOrStdout(), doc)
	return nil
}

func secondsDuration(sec float64) time.Duration {
	return time.Duration(sec * float64(time.Second))
}

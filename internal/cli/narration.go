package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/forPelevin/scenecast/internal/domain/script"
)

func newNarrationCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "narration <script-path>",
		Short: "Print the cleaned narration text for the TTS service",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			b, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("read script: %w", err)
			}
			scenes, err := script.Parse(string(b))
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), script.ExtractNarration(scenes))
			return nil
		},
	}
}

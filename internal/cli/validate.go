package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/watzon/tock/internal/config"
)

var validateCmd = &cobra.Command{
	Use:   "validate <manifest>",
	Short: "Validate a jobs manifest",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		manifest, err := config.LoadManifest(args[0])
		if err != nil {
			return err
		}
		fmt.Printf("%s: %d jobs, all valid\n", args[0], len(manifest.Jobs))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
}

package cmd

import (
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "breaker",
	Short: "live-coded music sequencing and synthesis",
	Long: `breaker renders a textual score of named rhythmic grids into
real-time audio and hot-swaps to edited scores without audible
discontinuity.`,
}

// Execute runs the root command.
func Execute() {
	cobra.CheckErr(rootCmd.Execute())
}

package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/spigell/hh-matcher/internal/render"
	"github.com/spigell/hh-matcher/internal/results"
)

var showCmd = &cobra.Command{
	Use:   "show <result.json>...",
	Short: "Print saved match results",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(_ *cobra.Command, args []string) error {
		for _, path := range args {
			res, err := results.Load(path)
			if err != nil {
				return err
			}
			if err := render.Result(os.Stdout, res); err != nil {
				return err
			}
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(showCmd)
}

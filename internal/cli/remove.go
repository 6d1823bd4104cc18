package cli

import (
	"github.com/spf13/cobra"
)

var removeCmd = &cobra.Command{
	Use:   "remove <directory> <slide-filename>",
	Short: "Detach a slide from the slide order",
	Long: `Remove detaches a slide from the presentation's slide order. The
slide part itself stays on disk as an orphan until the next clean sweeps it,
so the operation is reversible up to that point.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		verbose := getVerboseFlag(cmd)

		eng, log, err := buildEngine(args[0], "", verbose)
		if err != nil {
			return err
		}

		pkg, err := loadPackageDir(args[0])
		if err != nil {
			return err
		}

		if err := eng.RemoveSlide(pkg, args[1]); err != nil {
			return err
		}
		if err := writePackageDir(pkg, args[0]); err != nil {
			return err
		}

		log.Info("detached %s from the slide order", args[1])
		return nil
	},
}

func init() {
	rootCmd.AddCommand(removeCmd)
}

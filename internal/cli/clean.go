package cli

import (
	"github.com/spf13/cobra"
)

var cleanCmd = &cobra.Command{
	Use:   "clean <directory>",
	Short: "Remove orphaned parts from an unpacked tree",
	Long: `Clean deletes every part no longer reachable from the slide order:
detached slides and their relationship files, unreferenced media, charts,
diagrams, speaker notes and themes, plus any leftover trash directory. The
content-type manifest is kept in sync with the surviving parts.

Clean is idempotent: running it on an already-clean tree removes nothing.`,
	Args: cobra.ExactArgs(1),
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

		removed := eng.Clean(pkg)
		if len(removed) == 0 {
			log.Info("nothing to remove")
			return nil
		}

		if err := writePackageDir(pkg, args[0]); err != nil {
			return err
		}
		if err := removeFromDir(args[0], removed); err != nil {
			return err
		}

		for _, p := range removed {
			log.Verbose("removed %s", p)
		}
		log.Info("removed %d orphaned parts", len(removed))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(cleanCmd)
}

package cli

import (
	"github.com/spf13/cobra"
)

var duplicateFlags struct {
	position int
}

var duplicateCmd = &cobra.Command{
	Use:   "duplicate <directory> <slide-filename>",
	Short: "Duplicate a slide inside an unpacked tree",
	Long: `Duplicate clones a slide part together with its relationships
(speaker notes excluded), registers the clone in the content-type manifest
and the presentation relationships, and inserts it into the slide order.

The slide is named by its part filename, e.g. slide3.xml. By default the
clone is appended; --position inserts it at a 1-based position instead,
clamped to the valid range.

Examples:
  deckpack duplicate deck/ slide3.xml
  deckpack duplicate deck/ slide3.xml --position 1`,
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

		res, err := eng.DuplicateSlide(pkg, args[1])
		if err != nil {
			return err
		}
		if err := eng.InsertSlide(pkg, res.NewSlideID, res.NewRelationshipID, duplicateFlags.position); err != nil {
			return err
		}

		if err := writePackageDir(pkg, args[0]); err != nil {
			return err
		}

		log.Info("duplicated %s as %s (slide id %d)", args[1], res.NewFilename, res.NewSlideID)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(duplicateCmd)
	duplicateCmd.Flags().IntVarP(&duplicateFlags.position, "position", "p", -1, "1-based position in the slide order (default: append)")
}

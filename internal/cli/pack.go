package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var packFlags struct {
	output string
}

var packCmd = &cobra.Command{
	Use:   "pack <directory>",
	Short: "Repack an unpacked tree into a presentation archive",
	Long: `Pack condenses every XML part back to its canonical single-space
form, restores smart quotes from their escaped references and writes a
deterministic archive: identical trees always produce identical bytes.`,
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

		out, err := eng.CondenseAndRepack(pkg)
		if err != nil {
			return err
		}

		outPath := packFlags.output
		if outPath == "" {
			outPath = packageStem(args[0]) + ".pptx"
		}
		if err := os.WriteFile(outPath, out, 0644); err != nil {
			return fmt.Errorf("writing %s: %w", outPath, err)
		}

		log.Info("packed %d parts into %s", pkg.Len(), outPath)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(packCmd)
	packCmd.Flags().StringVarP(&packFlags.output, "output", "o", "", "Output archive path (default: <directory>.pptx)")
}

package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/vvka-141/deckpack/internal/engine"
	"github.com/vvka-141/deckpack/pkg/deckpack"
)

var validateFlags struct {
	baseline  string
	schemaDir string
}

var validateCmd = &cobra.Command{
	Use:   "validate <directory|package.pptx>",
	Short: "Check a package for structural and schema problems",
	Long: `Validate first repairs significant-whitespace declarations, then runs
the structural check battery (well-formedness, namespace declarations,
duplicate identifiers, relationship targets, manifest coverage, layout
linkage, notes exclusivity) and finally validates every part against the
OOXML schemas.

With --baseline, schema errors already present in the baseline package are
suppressed and only newly introduced errors are reported. Schema validation
is skipped silently when no schemas directory can be located.

Exits with code 13 when validation reports errors.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		verbose := getVerboseFlag(cmd)

		projectDir := ""
		if info, err := os.Stat(args[0]); err == nil && info.IsDir() {
			projectDir = args[0]
		}

		eng, _, err := buildEngine(projectDir, validateFlags.schemaDir, verbose)
		if err != nil {
			return err
		}

		pkg, err := loadTree(eng, args[0])
		if err != nil {
			return err
		}

		var baseline *deckpack.Package
		if validateFlags.baseline != "" {
			baseline, err = loadTree(eng, validateFlags.baseline)
			if err != nil {
				return err
			}
		}

		result := eng.Validate(pkg, baseline)
		printValidationReport(args[0], result)

		if !result.Valid {
			return fmt.Errorf("%w: %s", deckpack.ErrValidationFailed, args[0])
		}
		return nil
	},
}

// loadTree loads either an unpacked directory or an archive file.
func loadTree(eng *engine.Engine, path string) (*deckpack.Package, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", deckpack.ErrPartNotFound, path)
	}
	if info.IsDir() {
		return loadPackageDir(path)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return eng.Unpack(data)
}

func printValidationReport(name string, result deckpack.ValidationResult) {
	fmt.Println(titleStyle.Render("Validation report: " + name))

	if result.Repairs > 0 {
		fmt.Println(warningStyle.Render(fmt.Sprintf("repaired %d whitespace declarations", result.Repairs)))
	}

	for _, e := range result.StructuralErrors {
		fmt.Println(errorStyle.Render("structure: " + e))
	}
	for _, e := range result.SchemaErrors {
		if strings.HasPrefix(e, "  ") {
			fmt.Println(detailStyle.Render(strings.TrimLeft(e, " ")))
		} else {
			fmt.Println(errorStyle.Render(e))
		}
	}

	if result.Valid {
		fmt.Println(successStyle.Render("OK"))
	} else {
		total := len(result.StructuralErrors) + len(result.SchemaErrors)
		fmt.Println(errorStyle.Render(fmt.Sprintf("FAILED: %d problem(s)", total)))
	}
}

func init() {
	rootCmd.AddCommand(validateCmd)
	validateCmd.Flags().StringVarP(&validateFlags.baseline, "baseline", "b", "", "Baseline package; only newly introduced schema errors are reported")
	validateCmd.Flags().StringVar(&validateFlags.schemaDir, "schema-dir", "", "Directory holding the OOXML .xsd bundle")
}

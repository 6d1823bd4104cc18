package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

const asciiLogo = `     _           _                    _
  __| | ___  ___| | ___ __   __ _  __| | __
 / _` + "`" + ` |/ _ \/ __| |/ / '_ \ / _` + "`" + ` |/ _` + "`" + ` |/ /
| (_| |  __/ (__|   <| |_) | (_| | (_| |   <
 \__,_|\___|\___|_|\_\ .__/ \__,_|\__,_|_|\_\
                     |_|`

var rootCmd = &cobra.Command{
	Use:   "deckpack",
	Short: "Presentation package integrity engine",
	Long: asciiLogo + `

deckpack unpacks presentation archives into an editable tree of prettified
XML parts, keeps the part graph consistent while slides are duplicated,
reordered and removed, sweeps orphaned parts, validates the result against
the OOXML schemas and repacks a deterministic archive.

Exit Codes:
  0  - Success
  1  - General error
  2  - CLI usage error (invalid arguments or flags)
  3  - Panic or unexpected system error
  10 - Invalid configuration or parameters
  11 - Input is not a readable package archive
  12 - A named part or duplication source is missing
  13 - Validation reported structural or schema errors`,
	SilenceUsage: true,
}

// Execute runs the root command
func Execute() error {
	if len(os.Args) > 1 && os.Args[1] == "--version" {
		printVersionInfo()
		return nil
	}
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().Bool("help", false, "Help for deckpack")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose output for all commands")
}

// getVerboseFlag safely retrieves the verbose flag value
func getVerboseFlag(cmd *cobra.Command) bool {
	verbose, err := cmd.Flags().GetBool("verbose")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: Failed to get verbose flag: %v\n", err)
		return false
	}
	return verbose
}

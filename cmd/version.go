package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/conneroisu/fragmenta/internal/version"
	"github.com/spf13/cobra"
)

// versionCmd represents the version command
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show version information",
	Long: `Display version information for fragmenta including the semantic version,
git commit hash, build timestamp, Go version and target platform.

Examples:
  fragmenta version               # Show version
  fragmenta version --format json # Output as JSON`,
	RunE: runVersion,
}

func init() {
	rootCmd.AddCommand(versionCmd)

	versionCmd.Flags().StringP("format", "f", "text", "Output format (text, json)")
}

func runVersion(cmd *cobra.Command, args []string) error {
	format, err := validateFormat(cmd.Flags(), "format", []string{"text", "json"})
	if err != nil {
		return err
	}

	info := version.GetBuildInfo()

	if format == "json" {
		encoder := json.NewEncoder(os.Stdout)
		encoder.SetIndent("", "  ")
		return encoder.Encode(info)
	}

	fmt.Println(info.String())

	return nil
}

package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// addScanFlags adds the flags shared by commands that aggregate a project,
// bound to their configuration keys.
func addScanFlags(cmd *cobra.Command) {
	cmd.Flags().String("source-dir", "src", "Source directory name under the project root")
	cmd.Flags().Int("workers", 0, "Entity construction workers (0 = default, 1 = sequential)")
	_ = viper.BindPFlag("source.dir", cmd.Flags().Lookup("source-dir"))
	_ = viper.BindPFlag("scan.workers", cmd.Flags().Lookup("workers"))
}

// validateFormat reads the named string flag and checks it against the
// allowed formats.
func validateFormat(flags *pflag.FlagSet, name string, allowed []string) (string, error) {
	value, err := flags.GetString(name)
	if err != nil {
		return "", err
	}

	for _, a := range allowed {
		if value == a {
			return value, nil
		}
	}

	return "", fmt.Errorf("unsupported format: %s (supported: %s)", value, strings.Join(allowed, ", "))
}

package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/conneroisu/fragmenta/internal/config"
	"github.com/conneroisu/fragmenta/internal/logging"
	"github.com/conneroisu/fragmenta/internal/project"
	"github.com/conneroisu/fragmenta/internal/types"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var listCmd = &cobra.Command{
	Use:     "list [path]",
	Aliases: []string{"l"},
	Short:   "List the content tree discovered in a fragment project",
	Long: `Aggregate the fragment project rooted at the given path (default ".") and
show its collections, fragments, fragment compositions and page templates.

Examples:
  fragmenta list                  # Aggregate the current directory, table output
  fragmenta list ./my-project     # Aggregate a specific project
  fragmenta list -f json .        # Emit the full project model as JSON
  fragmenta list -f yaml .        # Emit the full project model as YAML`,
	Args: cobra.MaximumNArgs(1),
	RunE: runList,
}

func init() {
	rootCmd.AddCommand(listCmd)

	listCmd.Flags().StringP("format", "f", "table", "Output format (table, json, yaml)")
	addScanFlags(listCmd)
}

func runList(cmd *cobra.Command, args []string) error {
	format, err := validateFormat(cmd.Flags(), "format", []string{"table", "json", "yaml"})
	if err != nil {
		return err
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	basePath := "."
	if len(args) == 1 {
		basePath = args[0]
	}

	logger := logging.NewLogger(&logging.LoggerConfig{
		Level:  logging.ParseLevel(cfg.Log.Level),
		Format: cfg.Log.Format,
		Output: os.Stderr,
	})

	aggregator := project.NewAggregator(afero.NewOsFs(), logger,
		project.WithSourceDir(cfg.Source.Dir),
		project.WithWorkers(cfg.Scan.Workers))

	p, err := aggregator.Aggregate(cmd.Context(), basePath)
	if err != nil {
		return fmt.Errorf("failed to aggregate project: %w", err)
	}

	return writeProject(os.Stdout, p, format)
}

// writeProject renders the aggregated project in the requested format.
func writeProject(out io.Writer, p *types.Project, format string) error {
	switch format {
	case "json":
		return outputJSON(out, p)
	case "yaml":
		return outputYAML(out, p)
	case "table":
		return outputTable(out, p)
	default:
		return fmt.Errorf("unsupported format: %s (supported: table, json, yaml)", format)
	}
}

func outputJSON(out io.Writer, p *types.Project) error {
	encoder := json.NewEncoder(out)
	encoder.SetIndent("", "  ")

	return encoder.Encode(p)
}

func outputYAML(out io.Writer, p *types.Project) error {
	data, err := yaml.Marshal(p)
	if err != nil {
		return err
	}

	_, err = out.Write(data)

	return err
}

func outputTable(out io.Writer, p *types.Project) error {
	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)

	fmt.Fprintf(w, "KIND\tSLUG\tCOLLECTION\tNAME\n")
	for _, col := range p.Collections {
		fmt.Fprintf(w, "collection\t%s\t\t%s\n", col.Slug, col.Metadata.Name(""))
		for _, frag := range col.Fragments {
			fmt.Fprintf(w, "fragment\t%s\t%s\t%s\n", frag.Slug, col.Slug, frag.Metadata.Name(""))
		}
		for _, comp := range col.FragmentCompositions {
			fmt.Fprintf(w, "composition\t%s\t%s\t%s\n", comp.Slug, col.Slug, comp.Metadata.Name(""))
		}
	}
	for _, tpl := range p.PageTemplates {
		fmt.Fprintf(w, "page-template\t%s\t\t%s\n", tpl.Slug, tpl.Metadata.Name)
	}

	return w.Flush()
}

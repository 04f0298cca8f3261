package commands

import (
	"fmt"
	"os"

	"github.com/goblinsan/issue-materializer/pkg/catalog"
	"github.com/goblinsan/issue-materializer/pkg/engine"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

func init() {
	rootCmd.AddCommand(catalogCmd)
	catalogCmd.Flags().String("setup-guide", "", "Path to the setup guide fragment (issue 1 body)")
	catalogCmd.MarkFlagRequired("setup-guide")
	catalogCmd.Flags().String("typescript-plan", "", "Path to the TypeScript migration fragment (issue 2 body)")
	catalogCmd.MarkFlagRequired("typescript-plan")
	catalogCmd.Flags().String("storage-analysis", "", "Path to the storage analysis fragment (issue 3 body)")
	catalogCmd.MarkFlagRequired("storage-analysis")
}

// catalogEntry is the review view of a record: metadata plus body size,
// without the multi-kilobyte body text itself.
type catalogEntry struct {
	Number    int      `yaml:"number"`
	File      string   `yaml:"file"`
	Title     string   `yaml:"title"`
	Milestone string   `yaml:"milestone"`
	Labels    []string `yaml:"labels"`
	BodyBytes int      `yaml:"body_bytes"`
}

var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "Print a YAML summary of the issue catalog",
	Long:  `Build the issue catalog from the given fragments and print a YAML summary of every record for review. No files are written.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		setupGuide, _ := cmd.Flags().GetString("setup-guide")
		typescriptPlan, _ := cmd.Flags().GetString("typescript-plan")
		storageAnalysis, _ := cmd.Flags().GetString("storage-analysis")

		cat, err := catalog.Build(catalog.Sources{
			SetupGuide:      setupGuide,
			TypeScriptPlan:  typescriptPlan,
			StorageAnalysis: storageAnalysis,
		})
		if err != nil {
			return fmt.Errorf("failed to build catalog: %w", err)
		}

		entries := make([]catalogEntry, 0, len(cat))
		for _, n := range cat.Numbers() {
			rec := cat[n]
			entries = append(entries, catalogEntry{
				Number:    rec.Number,
				File:      engine.FileName(rec.Number),
				Title:     rec.Title,
				Milestone: rec.Milestone,
				Labels:    rec.Labels,
				BodyBytes: len(rec.Body),
			})
		}

		out, err := yaml.Marshal(entries)
		if err != nil {
			return fmt.Errorf("failed to marshal catalog summary: %w", err)
		}
		fmt.Fprint(os.Stdout, string(out))
		return nil
	},
}

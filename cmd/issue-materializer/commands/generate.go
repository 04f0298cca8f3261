package commands

import (
	"fmt"

	"github.com/goblinsan/issue-materializer/pkg/catalog"
	"github.com/goblinsan/issue-materializer/pkg/engine"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func init() {
	rootCmd.AddCommand(generateCmd)
	generateCmd.Flags().String("setup-guide", "", "Path to the setup guide fragment (issue 1 body)")
	generateCmd.MarkFlagRequired("setup-guide")
	generateCmd.Flags().String("typescript-plan", "", "Path to the TypeScript migration fragment (issue 2 body)")
	generateCmd.MarkFlagRequired("typescript-plan")
	generateCmd.Flags().String("storage-analysis", "", "Path to the storage analysis fragment (issue 3 body)")
	generateCmd.MarkFlagRequired("storage-analysis")
	generateCmd.Flags().Bool("dry-run", false, "Preview what would be created without making changes")
}

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate the issue markdown files",
	Long: `Generate one markdown file per catalog issue in the output directory.
Files that already exist are skipped, never overwritten.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		setupGuide, _ := cmd.Flags().GetString("setup-guide")
		typescriptPlan, _ := cmd.Flags().GetString("typescript-plan")
		storageAnalysis, _ := cmd.Flags().GetString("storage-analysis")

		// Build the catalog, reading the external fragments
		cat, err := catalog.Build(catalog.Sources{
			SetupGuide:      setupGuide,
			TypeScriptPlan:  typescriptPlan,
			StorageAnalysis: storageAnalysis,
		})
		if err != nil {
			return fmt.Errorf("failed to build catalog: %w", err)
		}

		dryRun, _ := cmd.Flags().GetBool("dry-run")
		report, err := engine.Materialize(cat, engine.Options{
			OutputDir: viper.GetString("output-dir"),
			DryRun:    dryRun,
		})
		if err != nil {
			return err
		}
		if report != nil && !dryRun {
			fmt.Print(report.Listing())
			fmt.Println(report)
		}
		return nil
	},
}

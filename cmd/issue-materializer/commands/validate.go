package commands

import (
	"fmt"
	"os"

	"github.com/goblinsan/issue-materializer/pkg/catalog"
	"github.com/goblinsan/issue-materializer/pkg/types"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(validateCmd)
	validateCmd.Flags().String("setup-guide", "", "Path to the setup guide fragment (issue 1 body)")
	validateCmd.MarkFlagRequired("setup-guide")
	validateCmd.Flags().String("typescript-plan", "", "Path to the TypeScript migration fragment (issue 2 body)")
	validateCmd.MarkFlagRequired("typescript-plan")
	validateCmd.Flags().String("storage-analysis", "", "Path to the storage analysis fragment (issue 3 body)")
	validateCmd.MarkFlagRequired("storage-analysis")
}

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate the issue catalog without writing any files",
	Long:  `Build the issue catalog from the given fragments and check its structure: contiguous numbering, required fields, and label uniqueness.`,
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

		errs := validateCatalog(cat)
		if len(errs) > 0 {
			fmt.Fprintf(os.Stderr, "Validation failed with %d error(s):\n", len(errs))
			for i, e := range errs {
				fmt.Fprintf(os.Stderr, "  %d. %s\n", i+1, e)
			}
			os.Exit(1)
		}

		fmt.Println("Catalog is valid.")
		return nil
	},
}

func validateCatalog(cat types.Catalog) []string {
	var errs []string

	if len(cat) == 0 {
		return []string{"catalog is empty"}
	}

	// Numbering must be contiguous starting at 1 so file names are stable
	nums := cat.Numbers()
	for i, n := range nums {
		if n != i+1 {
			errs = append(errs, fmt.Sprintf("issue numbering has a gap: expected %d, found %d", i+1, n))
			break
		}
	}

	for _, n := range nums {
		rec := cat[n]
		if rec.Number != n {
			errs = append(errs, fmt.Sprintf("issue %d: record number %d does not match its catalog key", n, rec.Number))
		}
		if rec.Title == "" {
			errs = append(errs, fmt.Sprintf("issue %d: title is required", n))
		}
		if rec.Milestone == "" {
			errs = append(errs, fmt.Sprintf("issue %d: milestone is required", n))
		}
		if rec.Body == "" {
			errs = append(errs, fmt.Sprintf("issue %d: body is empty", n))
		}

		labelSet := make(map[string]bool)
		for _, label := range rec.Labels {
			if label == "" {
				errs = append(errs, fmt.Sprintf("issue %d: empty label", n))
				continue
			}
			if labelSet[label] {
				errs = append(errs, fmt.Sprintf("issue %d: duplicate label %q", n, label))
			}
			labelSet[label] = true
		}
	}

	return errs
}

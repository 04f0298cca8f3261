package catalog

import (
	"embed"
	"fmt"
	"os"

	"github.com/goblinsan/issue-materializer/pkg/types"
)

//go:embed bodies/*.md
var bodies embed.FS

// Markers used to extract the relevant portion of a fragment.
const (
	// The typescript plan fragment carries its own generated header;
	// everything after the first horizontal rule is the actual body.
	typescriptPlanMarker = "---\n\n"
	// The storage analysis fragment trails off into platform-specific
	// notes; only the text before this heading belongs in the issue.
	storageAnalysisMarker = "### Required for Railway.com + PostgreSQL:"
)

// Sources names the external text fragments the catalog is assembled from.
type Sources struct {
	// SetupGuide is used verbatim as the body of issue 1.
	SetupGuide string
	// TypeScriptPlan is split on the first "---\n\n"; the text after the
	// marker becomes the body of issue 2.
	TypeScriptPlan string
	// StorageAnalysis is split on the Railway/PostgreSQL heading; the text
	// before the marker, with the embedded context block appended, becomes
	// the body of issue 3.
	StorageAnalysis string
}

// Build assembles the full issue catalog. It reads the three fragment files
// and fails on the first one that is missing or unreadable; there is no
// partial-catalog mode.
func Build(src Sources) (types.Catalog, error) {
	setupGuide, err := os.ReadFile(src.SetupGuide)
	if err != nil {
		return nil, fmt.Errorf("failed to read setup guide fragment: %w", err)
	}

	typescriptPlan, err := os.ReadFile(src.TypeScriptPlan)
	if err != nil {
		return nil, fmt.Errorf("failed to read typescript plan fragment: %w", err)
	}

	storageAnalysis, err := os.ReadFile(src.StorageAnalysis)
	if err != nil {
		return nil, fmt.Errorf("failed to read storage analysis fragment: %w", err)
	}

	storageContext := mustBody("bodies/issue-03-context.md")

	c := types.Catalog{
		1: {
			Number:    1,
			Title:     "Slack App Setup & Configuration Guide",
			Body:      string(setupGuide),
			Milestone: "Phase 1: Foundation",
			Labels:    []string{"documentation", "setup", "good-first-issue"},
		},
		2: {
			Number:    2,
			Title:     "Migrate to TypeScript",
			Body:      ExtractAfterMarker(string(typescriptPlan), typescriptPlanMarker),
			Milestone: "Phase 1: Foundation",
			Labels:    []string{"enhancement", "typescript", "refactoring"},
		},
		3: {
			Number:    3,
			Title:     "PostgreSQL Database Integration",
			Body:      ExtractBeforeMarker(string(storageAnalysis), storageAnalysisMarker) + storageContext,
			Milestone: "Phase 2: Database & Features",
			Labels:    []string{"enhancement", "database", "postgresql"},
		},
		4: {
			Number:    4,
			Title:     "Implement Leaderboard View Command",
			Body:      mustBody("bodies/issue-04.md"),
			Milestone: "Phase 2: Database & Features",
			Labels:    []string{"enhancement", "feature"},
		},
		5: {
			Number:    5,
			Title:     "Railway.com Deployment Configuration",
			Body:      mustBody("bodies/issue-05.md"),
			Milestone: "Phase 3: Deployment & Production",
			Labels:    []string{"deployment", "infrastructure"},
		},
		6: {
			Number:    6,
			Title:     "CI/CD with GitHub Actions",
			Body:      mustBody("bodies/issue-06.md"),
			Milestone: "Phase 3: Deployment & Production",
			Labels:    []string{"ci/cd", "automation", "github-actions"},
		},
		7: {
			Number:    7,
			Title:     "Error Handling & Logging",
			Body:      mustBody("bodies/issue-07.md"),
			Milestone: "Phase 1: Foundation",
			Labels:    []string{"enhancement", "logging", "error-handling"},
		},
		8: {
			Number:    8,
			Title:     "Testing Infrastructure",
			Body:      mustBody("bodies/issue-08.md"),
			Milestone: "Phase 2: Database & Features",
			Labels:    []string{"testing", "quality"},
		},
		9: {
			Number:    9,
			Title:     "Documentation",
			Body:      mustBody("bodies/issue-09.md"),
			Milestone: "Phase 3: Deployment & Production",
			Labels:    []string{"documentation"},
		},
	}

	return c, nil
}

// mustBody reads an embedded body document. The embedded files are part of
// the binary, so a failure here is a build defect, not a runtime condition.
func mustBody(name string) string {
	data, err := bodies.ReadFile(name)
	if err != nil {
		panic(fmt.Sprintf("embedded body %s: %v", name, err))
	}
	return string(data)
}

package engine

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/goblinsan/issue-materializer/pkg/types"
)

// Options configures the behavior of Materialize.
type Options struct {
	OutputDir string
	DryRun    bool
}

// FileOutcome records what happened to a single issue file.
type FileOutcome struct {
	Number  int    `json:"number"`
	Name    string `json:"name"`
	Created bool   `json:"created"`
}

// Report summarizes the results of a Materialize execution.
type Report struct {
	Created int           `json:"created"`
	Skipped int           `json:"skipped"`
	Files   []FileOutcome `json:"files"`
}

func (r *Report) String() string {
	return fmt.Sprintf("Summary: %d issues processed, %d files created (%d skipped)",
		len(r.Files), r.Created, r.Skipped)
}

// Listing renders the per-file run summary, one line per issue number.
func (r *Report) Listing() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Total issues: %d\n", len(r.Files))
	for _, f := range r.Files {
		outcome := "created"
		if !f.Created {
			outcome = "skipped"
		}
		fmt.Fprintf(&b, "  - %s (%s)\n", f.Name, outcome)
	}
	return b.String()
}

// FileName returns the output file name for an issue number,
// zero-padded to two digits.
func FileName(number int) string {
	return fmt.Sprintf("issue-%02d.md", number)
}

// Render maps an issue record to its final markdown document: a generated
// header block followed by the body verbatim. The body is never escaped,
// truncated, or validated.
func Render(rec types.IssueRecord) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", rec.Title)
	fmt.Fprintf(&b, "**Milestone:** %s\n", rec.Milestone)
	fmt.Fprintf(&b, "**Labels:** %s\n\n", strings.Join(rec.Labels, ", "))
	b.WriteString("---\n\n")
	b.WriteString(rec.Body)
	return b.String()
}

// Materialize writes every catalog record to its target file in ascending
// number order. Files that already exist are left untouched and reported as
// skipped, so re-running after a partial run never overwrites anything.
func Materialize(catalog types.Catalog, opts Options) (*Report, error) {
	report := &Report{}

	for _, num := range catalog.Numbers() {
		rec := catalog[num]
		name := FileName(num)
		path := filepath.Join(opts.OutputDir, name)

		if opts.DryRun {
			fmt.Printf("[dry-run] Would create %s: %s\n", name, rec.Title)
			continue
		}

		if _, err := os.Stat(path); err == nil {
			fmt.Printf("  Skipping %s (already exists)\n", name)
			report.Skipped++
			report.Files = append(report.Files, FileOutcome{Number: num, Name: name})
			continue
		}

		if err := os.WriteFile(path, []byte(Render(rec)), 0o644); err != nil {
			return nil, fmt.Errorf("failed to write %s: %w", name, err)
		}
		fmt.Printf("Created %s: %s\n", name, rec.Title)
		report.Created++
		report.Files = append(report.Files, FileOutcome{Number: num, Name: name, Created: true})
	}

	return report, nil
}

// Package observability provides formatted output utilities for verbose CLI mode.
package observability

import (
	"fmt"
	"io"
	"strings"

	"github.com/jonathan/resume-agent/internal/types"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 60
	// maxItemsToShow is the default number of items to display in lists
	maxItemsToShow = 5
)

// Printer handles formatted output for verbose mode
type Printer struct {
	out io.Writer
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// printBox prints a formatted box with a title and content
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, title)
	fmt.Fprintf(p.out, "├%s┤\n", border)

	lines := strings.Split(content, "\n")
	for _, line := range lines {
		// Truncate long lines
		if len(line) > boxWidth-4 {
			line = line[:boxWidth-7] + "..."
		}
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, line)
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// PrintJobMetadata outputs a human-readable summary of the extracted posting metadata.
func (p *Printer) PrintJobMetadata(metadata *types.JobMetadata) {
	if metadata == nil {
		return
	}

	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("Company:  %s\n", metadata.Company))
	sb.WriteString(fmt.Sprintf("Role:     %s\n", metadata.Title))
	if metadata.RoleLevel != "" {
		sb.WriteString(fmt.Sprintf("Level:    %s\n", metadata.RoleLevel))
	}
	if metadata.Location != "" {
		sb.WriteString(fmt.Sprintf("Location: %s\n", metadata.Location))
	}
	if metadata.Sponsorship != "" {
		sb.WriteString(fmt.Sprintf("Sponsor:  %s\n", metadata.Sponsorship))
	}
	if metadata.SalaryRange != "" {
		sb.WriteString(fmt.Sprintf("Salary:   %s\n", metadata.SalaryRange))
	}

	p.printBox("JOB METADATA", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintRequirements outputs the analyzed requirements driving the rewrite.
func (p *Printer) PrintRequirements(requirements *types.AnalyzedRequirements) {
	if requirements == nil {
		return
	}

	var sb strings.Builder

	if len(requirements.RequiredSkills) > 0 {
		sb.WriteString("Required Skills:\n")
		count := min(len(requirements.RequiredSkills), maxItemsToShow)
		for i := 0; i < count; i++ {
			sb.WriteString(fmt.Sprintf("  • %s\n", requirements.RequiredSkills[i]))
		}
		if len(requirements.RequiredSkills) > maxItemsToShow {
			sb.WriteString(fmt.Sprintf("  ... and %d more\n", len(requirements.RequiredSkills)-maxItemsToShow))
		}
		sb.WriteString("\n")
	}

	if len(requirements.MustHaveExperience) > 0 {
		sb.WriteString("Must-have Experience:\n")
		count := min(len(requirements.MustHaveExperience), 3)
		for i := 0; i < count; i++ {
			sb.WriteString(fmt.Sprintf("  • %s\n", requirements.MustHaveExperience[i]))
		}
		if len(requirements.MustHaveExperience) > 3 {
			sb.WriteString(fmt.Sprintf("  ... and %d more\n", len(requirements.MustHaveExperience)-3))
		}
		sb.WriteString("\n")
	}

	if requirements.YearsExperienceRequired != nil {
		sb.WriteString(fmt.Sprintf("Experience: %d years\n", *requirements.YearsExperienceRequired))
	}

	keywords := requirements.AllKeywords()
	if len(keywords) > 0 {
		joined := strings.Join(keywords, ", ")
		if len(joined) > 45 {
			joined = joined[:42] + "..."
		}
		sb.WriteString(fmt.Sprintf("ATS Keywords: %s\n", joined))
	}

	p.printBox("ANALYZED REQUIREMENTS", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintRewrittenBullets outputs the tailored bullets grouped by role.
func (p *Printer) PrintRewrittenBullets(bullets *types.RewrittenBullets) {
	if bullets == nil || len(bullets.Sections) == 0 {
		return
	}

	var sb strings.Builder

	shown := 0
	for i, section := range bullets.Sections {
		if shown >= maxItemsToShow {
			break
		}
		sb.WriteString(fmt.Sprintf("%s:\n", section.Role))
		for _, bullet := range section.Bullets {
			if shown >= maxItemsToShow {
				break
			}
			text := bullet
			if len(text) > 50 {
				text = text[:47] + "..."
			}
			sb.WriteString(fmt.Sprintf("  • %s\n", text))
			shown++
		}
		if i < len(bullets.Sections)-1 && shown < maxItemsToShow {
			sb.WriteString("\n")
		}
	}

	total := 0
	for _, section := range bullets.Sections {
		total += len(section.Bullets)
	}
	if total > shown {
		sb.WriteString(fmt.Sprintf("\n... and %d more bullets", total-shown))
	}

	p.printBox("REWRITTEN BULLETS", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintValidationResult outputs the coverage score and any open issues.
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) PrintValidationResult(result *types.ValidationResult) {
	if result == nil {
		return
	}

	if result.Passed && len(result.Issues) == 0 {
		fmt.Fprintf(p.out, "┌%s┐\n", strings.Repeat("─", boxWidth-2))
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4,
			fmt.Sprintf("✅ VALIDATION PASSED (coverage %.2f)", result.KeywordCoverageScore))
		fmt.Fprintf(p.out, "└%s┘\n", strings.Repeat("─", boxWidth-2))
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Coverage: %.2f\n", result.KeywordCoverageScore))
	if len(result.Issues) > 0 {
		sb.WriteString(fmt.Sprintf("Found %d issues:\n\n", len(result.Issues)))
		for i, issue := range result.Issues {
			if len(issue) > 45 {
				issue = issue[:42] + "..."
			}
			sb.WriteString(fmt.Sprintf("⚠ %s\n", issue))
			if i < len(result.Issues)-1 {
				sb.WriteString("\n")
			}
		}
	}

	p.printBox("VALIDATION RESULT", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintStepHistory outputs every step the run entered, in order.
func (p *Printer) PrintStepHistory(steps []types.Step) {
	if len(steps) == 0 {
		return
	}

	var sb strings.Builder
	for i, step := range steps {
		sb.WriteString(fmt.Sprintf("%2d. %s", i+1, step))
		if i < len(steps)-1 {
			sb.WriteString("\n")
		}
	}

	p.printBox("STEP HISTORY", sb.String())
}

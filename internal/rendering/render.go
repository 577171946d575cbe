// Package rendering produces the tailored resume document by substituting
// generated content into a resume template.
package rendering

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/jonathan/resume-agent/internal/types"
)

// Renderer turns rewritten bullets plus job metadata into a document on disk
// and returns its path.
type Renderer interface {
	Render(ctx context.Context, bullets *types.RewrittenBullets, metadata *types.JobMetadata) (string, error)
}

// TemplateRenderer fills a plain-text template. Placeholders use the form
// {{name}}; any placeholder left unresolved after substitution is cleared
// rather than leaking into the document.
type TemplateRenderer struct {
	TemplatePath string
	OutputDir    string
}

// NewTemplateRenderer builds a renderer for the given template and output
// directory.
func NewTemplateRenderer(templatePath, outputDir string) *TemplateRenderer {
	return &TemplateRenderer{TemplatePath: templatePath, OutputDir: outputDir}
}

var placeholderPattern = regexp.MustCompile(`\{\{\s*([a-zA-Z0-9_]+)\s*\}\}`)

// Render substitutes the field map into the template and writes the result.
func (r *TemplateRenderer) Render(ctx context.Context, bullets *types.RewrittenBullets, metadata *types.JobMetadata) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", &RenderError{Message: "render canceled", Cause: err}
	}

	raw, err := os.ReadFile(r.TemplatePath)
	if err != nil {
		return "", &TemplateError{Message: fmt.Sprintf("failed to read template %s", r.TemplatePath), Cause: err}
	}

	fields := buildFieldMap(bullets, metadata)
	rendered := placeholderPattern.ReplaceAllStringFunc(string(raw), func(match string) string {
		key := strings.ToLower(placeholderPattern.FindStringSubmatch(match)[1])
		return fields[key]
	})

	if err := os.MkdirAll(r.OutputDir, 0o755); err != nil {
		return "", &RenderError{Message: "failed to create output directory", Cause: err}
	}

	outPath := filepath.Join(r.OutputDir, outputFileName(metadata))
	if err := os.WriteFile(outPath, []byte(rendered), 0o644); err != nil {
		return "", &RenderError{Message: "failed to write document", Cause: err}
	}
	return outPath, nil
}

// buildFieldMap maps placeholder names to content. Unknown placeholders map
// to the empty string through the lookup's zero value.
func buildFieldMap(bullets *types.RewrittenBullets, metadata *types.JobMetadata) map[string]string {
	fields := map[string]string{
		"date": time.Now().Format("January 2, 2006"),
	}
	if metadata != nil {
		fields["title"] = metadata.Title
		fields["company"] = metadata.Company
		fields["location"] = metadata.Location
	}

	var experience strings.Builder
	if bullets != nil {
		for _, section := range bullets.Sections {
			if len(section.Bullets) == 0 {
				continue
			}
			experience.WriteString(section.Role)
			experience.WriteString("\n")
			for _, b := range section.Bullets {
				experience.WriteString("  - ")
				experience.WriteString(b)
				experience.WriteString("\n")
			}
			experience.WriteString("\n")
		}
	}
	fields["experience"] = strings.TrimRight(experience.String(), "\n")
	return fields
}

func outputFileName(metadata *types.JobMetadata) string {
	company := "resume"
	if metadata != nil && metadata.Company != "" {
		company = sanitizeFileName(metadata.Company)
	}
	return fmt.Sprintf("%s_%s.txt", company, time.Now().Format("20060102_150405"))
}

var unsafeFileChars = regexp.MustCompile(`[^a-zA-Z0-9._-]+`)

func sanitizeFileName(name string) string {
	cleaned := unsafeFileChars.ReplaceAllString(name, "_")
	return strings.Trim(cleaned, "_")
}

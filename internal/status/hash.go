package status

import (
	"fmt"
	"strings"

	"github.com/cespare/xxhash/v2"
)

// JobHash computes a stable content hash of a job submission, used to let
// clients recognize duplicate postings. It is not a uniqueness constraint;
// duplicate submissions always start a new run.
func JobHash(jobDescription, normalizedJobURL string) string {
	d := xxhash.New()
	_, _ = d.WriteString(strings.TrimSpace(jobDescription))
	_, _ = d.WriteString("\n")
	_, _ = d.WriteString(normalizedJobURL)
	return fmt.Sprintf("%016x", d.Sum64())
}

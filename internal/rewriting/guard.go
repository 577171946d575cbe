package rewriting

import (
	"regexp"
	"strings"
)

// numericTokenPattern matches quantifiable metrics: integers, decimals,
// percentages, and currency-prefixed amounts, including k/m/b suffixes.
var numericTokenPattern = regexp.MustCompile(`[$€£]?\d+(?:[.,]\d+)*%?[kKmMbB]?\+?`)

// numericTokens extracts the normalized numeric tokens from a bullet.
func numericTokens(text string) []string {
	matches := numericTokenPattern.FindAllString(text, -1)
	out := make([]string, 0, len(matches))
	for _, m := range matches {
		out = append(out, strings.ToLower(m))
	}
	return out
}

// checkFabrication verifies every numeric token in a rewritten bullet exists
// in its source bullet or in the allowed requirements context. It returns the
// tokens that appear from nowhere. Metrics present in the source but dropped
// from the rewrite are reported separately as lost.
func checkFabrication(source, rewritten string, allowedContext string) (fabricated, lost []string) {
	sourceTokens := tokenSet(source)
	contextTokens := tokenSet(allowedContext)

	for _, tok := range numericTokens(rewritten) {
		if _, ok := sourceTokens[tok]; ok {
			continue
		}
		if _, ok := contextTokens[tok]; ok {
			continue
		}
		fabricated = append(fabricated, tok)
	}

	rewrittenTokens := tokenSet(rewritten)
	for _, tok := range numericTokens(source) {
		if _, ok := rewrittenTokens[tok]; !ok {
			lost = append(lost, tok)
		}
	}
	return fabricated, lost
}

func tokenSet(text string) map[string]struct{} {
	set := make(map[string]struct{})
	for _, tok := range numericTokens(text) {
		set[tok] = struct{}{}
	}
	return set
}

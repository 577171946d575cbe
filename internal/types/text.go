package types

import "strings"

func normalizeKeyword(kw string) string {
	return strings.ToLower(strings.TrimSpace(kw))
}

package openai

import "strings"

// stripFences removes markdown code fences that some models wrap around JSON
// output, then trims surrounding whitespace.
func stripFences(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}

// scrubRiskLevel normalizes a model-reported risk level for comparison.
func scrubRiskLevel(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// isLetter returns true if the rune is an ASCII letter.
func isLetter(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
}

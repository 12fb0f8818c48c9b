package utils

// Truncate shortens s to at most max runes, appending an ellipsis marker
// when anything was cut. Used for log previews of user text.
func Truncate(s string, max int) string {
	if max <= 0 {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	if max <= 3 {
		return string(runes[:max])
	}
	return string(runes[:max-3]) + "..."
}

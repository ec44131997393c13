package completion

import "strings"

// FilterPrefix keeps the items whose label starts with the text they would
// replace, value[ReplacementIndex:cursor]. The service itself never
// filters; this is for callers, such as shell integrations, that expect
// pre-filtered candidates.
func FilterPrefix(items []*Item, value string, cursor int) []*Item {
	cursor = clampCursor(value, cursor)

	var filtered []*Item
	for _, item := range items {
		start := clampCursor(value, item.ReplacementIndex)
		if start > cursor {
			start = cursor
		}
		if strings.HasPrefix(item.Label, value[start:cursor]) {
			filtered = append(filtered, item)
		}
	}
	return filtered
}

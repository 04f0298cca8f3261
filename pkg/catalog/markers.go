package catalog

import "strings"

// ExtractAfterMarker returns the text strictly after the first occurrence
// of marker. If the marker is absent the input is returned unchanged.
func ExtractAfterMarker(text, marker string) string {
	if _, after, found := strings.Cut(text, marker); found {
		return after
	}
	return text
}

// ExtractBeforeMarker returns the text strictly before the first occurrence
// of marker. If the marker is absent the entire input is returned.
func ExtractBeforeMarker(text, marker string) string {
	before, _, _ := strings.Cut(text, marker)
	return before
}

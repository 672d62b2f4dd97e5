package research

import "strings"

// Section markers the generator is instructed to emit. The prompt in
// internal/openai asks for exactly these three headings.
const (
	markerIntroduction = "=== INTRODUCTION EMAIL RESEARCH ==="
	markerCheckup      = "=== CHECK-UP EMAIL RESEARCH ==="
	markerAcceptance   = "=== ACCEPTANCE EMAIL RESEARCH ==="
)

// parseSections splits the raw research blob into the three stage sections.
// If the markers are missing the raw blob is used for every section: a
// section is never left empty while raw content exists.
func parseSections(raw string) (intro, checkup, acceptance string) {
	introAt := strings.Index(raw, markerIntroduction)
	checkupAt := strings.Index(raw, markerCheckup)
	acceptanceAt := strings.Index(raw, markerAcceptance)

	if introAt == -1 && checkupAt == -1 && acceptanceAt == -1 {
		return raw, raw, raw
	}

	cut := func(start, end int, marker string) string {
		if start == -1 {
			return ""
		}
		s := raw[start:]
		if end != -1 && end > start {
			s = raw[start:end]
		}
		return strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(s), marker))
	}

	intro = cut(introAt, checkupAt, markerIntroduction)
	checkup = cut(checkupAt, acceptanceAt, markerCheckup)
	acceptance = cut(acceptanceAt, -1, markerAcceptance)

	// A marker that was present but empty still falls back to the blob.
	if intro == "" {
		intro = raw
	}
	if checkup == "" {
		checkup = raw
	}
	if acceptance == "" {
		acceptance = raw
	}
	return intro, checkup, acceptance
}

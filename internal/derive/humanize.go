package derive

import "strings"

// HumanizeConceptID turns a snake_case concept id into a display name:
// segments split on "_", each capitalized, joined with spaces
// (e.g. "mitochondria_energy_production" -> "Mitochondria Energy Production").
//
// Fill-in-the-blank derivation matches this exact string against concept
// definitions, so the display transform and the blanking transform must
// stay identical.
func HumanizeConceptID(id string) string {
	segments := strings.Split(id, "_")
	for i, seg := range segments {
		if seg == "" {
			continue
		}
		segments[i] = strings.ToUpper(seg[:1]) + seg[1:]
	}
	return strings.Join(segments, " ")
}

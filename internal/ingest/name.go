package ingest

import "strings"

// SplitName splits a full "first-name(s) last-name" string on the last
// space. Single-word names become the last name.
//
// Known limitations: multi-part surnames (van der Waals) split
// incorrectly, and middle names end up in the first name.
func SplitName(name string) (first, last string) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", ""
	}
	i := strings.LastIndex(name, " ")
	if i < 0 {
		return "", name
	}
	return strings.TrimSpace(name[:i]), strings.TrimSpace(name[i+1:])
}

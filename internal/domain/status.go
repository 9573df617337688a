package domain

import "strings"

// transitions maps a status to the statuses it may move to.
type transitions[S ~string] map[S][]S

func (t transitions[S]) allows(from, to S) bool {
	if from == to {
		return true
	}
	for _, next := range t[from] {
		if next == to {
			return true
		}
	}
	return false
}

func normalizeEnum(s string) string {
	return strings.ToUpper(strings.TrimSpace(s))
}

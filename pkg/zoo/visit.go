package zoo

import (
	"crypto/rand"
	"strings"
)

const visitIDPrefix = "visit_"

// NewVisitID returns "visit_" followed by 26 random base32 characters.
func NewVisitID() string {
	return visitIDPrefix + rand.Text()
}

// ValidVisitID reports whether id has the shape NewVisitID produces.
func ValidVisitID(id string) bool {
	rest, ok := strings.CutPrefix(id, visitIDPrefix)
	if !ok || len(rest) != 26 {
		return false
	}
	for _, c := range rest {
		if !('A' <= c && c <= 'Z' || '2' <= c && c <= '7') {
			return false
		}
	}
	return true
}

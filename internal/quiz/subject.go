package quiz

import (
	"fmt"
	"strings"
)

type Subject string

const (
	Chemistry Subject = "CHEMISTRY"
	Biology   Subject = "BIOLOGY"
)

// Subjects returns the closed subject set in canonical order. The first
// entry is the subject every document starts with.
func Subjects() []Subject {
	return []Subject{Chemistry, Biology}
}

func ParseSubject(v string) (Subject, error) {
	s := Subject(strings.ToUpper(strings.TrimSpace(v)))
	for _, known := range Subjects() {
		if s == known {
			return s, nil
		}
	}
	return "", fmt.Errorf("unknown subject %q", v)
}

func (s Subject) rank() int {
	for i, known := range Subjects() {
		if s == known {
			return i
		}
	}
	return len(Subjects())
}

func (s Subject) String() string {
	return string(s)
}

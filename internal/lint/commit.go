// Package lint validates commit-message headers against the conventional
// format "type(scope): subject" with the configured type enumeration.
package lint

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
)

// MaxHeaderLength caps the first line of a commit message
const MaxHeaderLength = 72

var headerPattern = regexp.MustCompile(`^([a-z]+)(\(([a-z0-9-]+)\))?(!)?: (.+)$`)

// Linter checks commit messages against one configured type set
type Linter struct {
	types map[string]struct{}
}

// NewLinter creates a Linter accepting the given commit types
func NewLinter(commitTypes []string) *Linter {
	types := make(map[string]struct{}, len(commitTypes))
	for _, t := range commitTypes {
		types[t] = struct{}{}
	}
	return &Linter{types: types}
}

// Check validates the header (first line) of a commit message. It returns a
// nil slice when the message conforms, otherwise one finding per violation.
func (l *Linter) Check(message string) []string {
	header, _, _ := strings.Cut(message, "\n")
	header = strings.TrimRight(header, "\r")

	var findings []string

	if strings.TrimSpace(header) == "" {
		return []string{"commit message is empty"}
	}
	if len(header) > MaxHeaderLength {
		findings = append(findings, fmt.Sprintf("header is %d characters, limit is %d", len(header), MaxHeaderLength))
	}

	m := headerPattern.FindStringSubmatch(header)
	if m == nil {
		findings = append(findings, `header does not match "type(scope): subject"`)
		return findings
	}

	if _, ok := l.types[m[1]]; !ok {
		findings = append(findings, fmt.Sprintf("unknown commit type %q (valid types: %s)", m[1], l.typeList()))
	}
	if strings.TrimSpace(m[5]) == "" {
		findings = append(findings, "subject is empty")
	}

	return findings
}

func (l *Linter) typeList() string {
	names := make([]string, 0, len(l.types))
	for t := range l.types {
		names = append(names, t)
	}
	sort.Strings(names)
	return strings.Join(names, ", ")
}

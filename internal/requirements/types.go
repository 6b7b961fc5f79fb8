package requirements

import (
	"regexp"
	"strings"
)

// EntryKind distinguishes the line shapes a requirements manifest contains.
type EntryKind int

const (
	// KindRequirement is a package requirement (pinned or not).
	KindRequirement EntryKind = iota
	// KindOption is an installer option line (-r, -e, --index-url, ...).
	KindOption
)

// Entry is one effective line of a requirements manifest. Comment-only
// and blank lines never become entries.
type Entry struct {
	Kind EntryKind

	// Name is the declared package name (requirement entries only).
	Name string
	// Extras lists bracketed extras, e.g. requests[socks] -> ["socks"].
	Extras []string
	// Constraint is the raw version constraint ("==1.2.3", ">=2,<3"), or
	// empty for an unpinned requirement.
	Constraint string
	// Marker is the environment marker after ";" (without the separator).
	Marker string

	// Option holds the raw text of an option line (KindOption).
	Option string

	// Line is the 1-based source line the entry started on.
	Line int
	// Raw is the original text with comments stripped.
	Raw string
}

// Pinned reports whether the entry pins an exact version with "==".
func (e Entry) Pinned() bool { return strings.HasPrefix(e.Constraint, "==") }

// PinnedVersion returns the exact version for a "=="-pinned entry, or "".
func (e Entry) PinnedVersion() string {
	if !e.Pinned() {
		return ""
	}
	return strings.TrimSpace(strings.TrimPrefix(e.Constraint, "=="))
}

// Manifest is a parsed requirements manifest. Entries keep input order.
type Manifest struct {
	Path    string
	Entries []Entry
}

// Requirements returns only the package requirement entries, in order.
func (m *Manifest) Requirements() []Entry {
	var out []Entry
	for _, e := range m.Entries {
		if e.Kind == KindRequirement {
			out = append(out, e)
		}
	}
	return out
}

var normalizeRe = regexp.MustCompile(`[-_.]+`)

// NormalizeName canonicalizes a package name the way the package index
// does (PEP 503): runs of "-", "_" and "." collapse to "-", lowercased.
func NormalizeName(name string) string {
	return strings.ToLower(normalizeRe.ReplaceAllString(name, "-"))
}

package requirements

// Conflict describes duplicate entries for the same package. Conflicting
// is true when the duplicate pins disagree; a repeated identical pin is
// still reported so callers can flag the redundancy at lower severity.
type Conflict struct {
	Name        string // normalized package name
	Entries     []Entry
	Conflicting bool
}

// Conflicts reports packages declared more than once. Entries whose
// environment markers differ are not duplicates: the installer can
// legitimately select between them.
func (m *Manifest) Conflicts() []Conflict {
	byName := map[string][]Entry{}
	var order []string
	for _, e := range m.Requirements() {
		key := NormalizeName(e.Name)
		if len(byName[key]) == 0 {
			order = append(order, key)
		}
		byName[key] = append(byName[key], e)
	}

	var out []Conflict
	for _, name := range order {
		entries := byName[name]
		if len(entries) < 2 {
			continue
		}
		if markersDistinct(entries) {
			continue
		}
		c := Conflict{Name: name, Entries: entries}
		for _, e := range entries[1:] {
			if e.Constraint != entries[0].Constraint {
				c.Conflicting = true
				break
			}
		}
		out = append(out, c)
	}
	return out
}

// markersDistinct reports whether every duplicate carries a different
// environment marker.
func markersDistinct(entries []Entry) bool {
	seen := map[string]bool{}
	for _, e := range entries {
		if seen[e.Marker] {
			return false
		}
		seen[e.Marker] = true
	}
	return true
}

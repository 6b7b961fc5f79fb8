package requirements

import (
	"bufio"
	"bytes"
	"fmt"
	"os"
	"regexp"
	"strings"
)

// requirementRe matches "name[extras] constraint" with optional spacing.
// Constraint operators cover the PEP 440 set the installer accepts.
var requirementRe = regexp.MustCompile(`^([A-Za-z0-9][A-Za-z0-9._-]*)\s*(\[[^\]]*\])?\s*((?:==|>=|<=|~=|!=|===|>|<)\s*[^,;\s]+(?:\s*,\s*(?:==|>=|<=|~=|!=|===|>|<)\s*[^,;\s]+)*)?\s*$`)

// Load reads and parses the requirements manifest at path.
func Load(path string) (*Manifest, error) {
	data, err := os.ReadFile(path) // #nosec G304 - path comes from a manifest install step or the CLI
	if err != nil {
		return nil, fmt.Errorf("read requirements manifest: %w", err)
	}
	m, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parse requirements manifest %s: %w", path, err)
	}
	m.Path = path
	return m, nil
}

// Parse parses requirements manifest content. Full-line and trailing "#"
// comments are stripped before anything enters the effective set; lines
// ending in "\" continue on the next line.
func Parse(data []byte) (*Manifest, error) {
	m := &Manifest{}

	scanner := bufio.NewScanner(bytes.NewReader(data))
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		startLine := lineNo
		line := scanner.Text()

		// Fold continuation lines into one logical line.
		for strings.HasSuffix(strings.TrimRight(line, " \t"), "\\") && scanner.Scan() {
			lineNo++
			line = strings.TrimSuffix(strings.TrimRight(line, " \t"), "\\") + " " + scanner.Text()
		}

		line = stripComment(line)
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		entry, err := parseLine(line, startLine)
		if err != nil {
			return nil, err
		}
		m.Entries = append(m.Entries, entry)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan: %w", err)
	}

	return m, nil
}

// parseLine classifies a non-empty, comment-stripped logical line.
func parseLine(line string, lineNo int) (Entry, error) {
	if strings.HasPrefix(line, "-") {
		return Entry{Kind: KindOption, Option: line, Line: lineNo, Raw: line}, nil
	}

	spec := line
	marker := ""
	if idx := strings.Index(line, ";"); idx >= 0 {
		spec = strings.TrimSpace(line[:idx])
		marker = strings.TrimSpace(line[idx+1:])
	}

	match := requirementRe.FindStringSubmatch(spec)
	if match == nil {
		return Entry{}, fmt.Errorf("line %d: malformed requirement %q", lineNo, line)
	}

	entry := Entry{
		Kind:       KindRequirement,
		Name:       match[1],
		Constraint: normalizeConstraint(match[3]),
		Marker:     marker,
		Line:       lineNo,
		Raw:        line,
	}
	if match[2] != "" {
		inner := strings.Trim(match[2], "[]")
		for _, extra := range strings.Split(inner, ",") {
			if extra = strings.TrimSpace(extra); extra != "" {
				entry.Extras = append(entry.Extras, extra)
			}
		}
	}
	return entry, nil
}

// stripComment removes a "#" comment. A "#" only starts a comment at the
// beginning of the line or after whitespace, matching installer behavior.
func stripComment(line string) string {
	if strings.HasPrefix(strings.TrimSpace(line), "#") {
		return ""
	}
	for i := 1; i < len(line); i++ {
		if line[i] == '#' && (line[i-1] == ' ' || line[i-1] == '\t') {
			return line[:i]
		}
	}
	return line
}

// normalizeConstraint collapses internal whitespace in a constraint so
// "== 1.2.3" and "==1.2.3" compare equal.
func normalizeConstraint(c string) string {
	return strings.Join(strings.Fields(c), "")
}

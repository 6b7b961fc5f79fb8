package lint

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"git.home.luguber.info/inful/docconf/internal/manifest"
)

// SearchRankingRule validates search.ranking glob keys and their weights.
type SearchRankingRule struct{}

// Name returns the rule identifier.
func (r *SearchRankingRule) Name() string { return "search-ranking" }

// AppliesTo returns true when the manifest carries ranking entries.
func (r *SearchRankingRule) AppliesTo(p *Project) bool {
	return p.Manifest != nil && p.Manifest.Search != nil && len(p.Manifest.Search.Ranking) > 0
}

// Check validates every glob/weight pair.
func (r *SearchRankingRule) Check(p *Project) []Issue {
	m := p.Manifest
	var issues []Issue

	patterns := make([]string, 0, len(m.Search.Ranking))
	for pattern := range m.Search.Ranking {
		patterns = append(patterns, pattern)
	}
	sort.Strings(patterns)

	for _, pattern := range patterns {
		weight := m.Search.Ranking[pattern]
		if !ValidGlob(pattern) {
			issues = append(issues, Issue{
				Path:     m.Path,
				Severity: SeverityError,
				Rule:     r.Name(),
				Message:  fmt.Sprintf("search.ranking key %q is not a valid glob pattern", pattern),
			})
		}
		if weight < manifest.RankingWeightMin || weight > manifest.RankingWeightMax {
			issues = append(issues, Issue{
				Path:     m.Path,
				Severity: SeverityError,
				Rule:     r.Name(),
				Message: fmt.Sprintf("search.ranking weight %d for %q is outside [%d, %d]",
					weight, pattern, manifest.RankingWeightMin, manifest.RankingWeightMax),
			})
		}
	}
	return issues
}

// SearchIgnoreRule validates search.ignore glob entries.
type SearchIgnoreRule struct{}

// Name returns the rule identifier.
func (r *SearchIgnoreRule) Name() string { return "search-ignore" }

// AppliesTo returns true when the manifest carries ignore globs.
func (r *SearchIgnoreRule) AppliesTo(p *Project) bool {
	return p.Manifest != nil && p.Manifest.Search != nil && len(p.Manifest.Search.Ignore) > 0
}

// Check validates every ignore glob.
func (r *SearchIgnoreRule) Check(p *Project) []Issue {
	m := p.Manifest
	var issues []Issue
	for _, pattern := range m.Search.Ignore {
		if !ValidGlob(pattern) {
			issues = append(issues, Issue{
				Path:     m.Path,
				Severity: SeverityError,
				Rule:     r.Name(),
				Message:  fmt.Sprintf("search.ignore entry %q is not a valid glob pattern", pattern),
			})
		}
	}
	return issues
}

// ValidGlob reports whether pattern is syntactically valid. The search
// config allows "**" for recursive matches, which filepath.Match does not
// understand, so each "**" segment is reduced to "*" before the syntax
// check. Matching semantics stay with the hosted service; only syntax is
// validated here.
func ValidGlob(pattern string) bool {
	if pattern == "" {
		return false
	}
	reduced := strings.ReplaceAll(pattern, "**", "*")
	_, err := filepath.Match(reduced, "probe")
	return err == nil
}

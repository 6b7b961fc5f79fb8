package lint

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/docconf/internal/manifest"
)

func mustParse(t *testing.T, yaml string) *manifest.Manifest {
	t.Helper()
	m, err := manifest.Parse([]byte(yaml))
	require.NoError(t, err)
	m.Path = ".readthedocs.yaml"
	return m
}

func issuesFor(t *testing.T, rule Rule, m *manifest.Manifest) []Issue {
	t.Helper()
	p := &Project{Manifest: m}
	if !rule.AppliesTo(p) {
		return nil
	}
	return rule.Check(p)
}

func TestValidGlob(t *testing.T) {
	valid := []string{"*", "api/**", "docs/*.html", "404.html", "search/index.html", "a[bc]d"}
	for _, pattern := range valid {
		assert.True(t, ValidGlob(pattern), "pattern=%q", pattern)
	}
	invalid := []string{"", "a[bc", "x[", `\`}
	for _, pattern := range invalid {
		assert.False(t, ValidGlob(pattern), "pattern=%q", pattern)
	}
}

func TestSearchRankingRule(t *testing.T) {
	m := mustParse(t, `version: 2
search:
  ranking:
    api/**: -2
    "bad[": 3
    tutorials/**: 99
`)
	issues := issuesFor(t, &SearchRankingRule{}, m)
	require.Len(t, issues, 2)
	for _, issue := range issues {
		assert.Equal(t, SeverityError, issue.Severity)
	}
}

func TestSearchIgnoreRule(t *testing.T) {
	m := mustParse(t, `version: 2
search:
  ignore:
    - changelog.html
    - "broken["
`)
	issues := issuesFor(t, &SearchIgnoreRule{}, m)
	require.Len(t, issues, 1)
	assert.Contains(t, issues[0].Message, "broken[")
}

func TestSearchDefaultsPassRules(t *testing.T) {
	m := mustParse(t, "version: 2\n")
	assert.Empty(t, issuesFor(t, &SearchIgnoreRule{}, m))
}

func TestBuildEnvironmentRule(t *testing.T) {
	cases := []struct {
		name   string
		yaml   string
		errors int
	}{
		{"valid", "version: 2\nbuild:\n  os: ubuntu-22.04\n  tools:\n    python: \"3.11\"\n    nodejs: \"18\"\n", 0},
		{"lts alias", "version: 2\nbuild:\n  os: ubuntu-lts-latest\n  tools:\n    python: latest\n", 0},
		{"conda python", "version: 2\nbuild:\n  os: ubuntu-22.04\n  tools:\n    python: miniconda3-4.7\n", 0},
		{"missing os", "version: 2\nbuild:\n  tools:\n    python: \"3.11\"\n", 1},
		{"unknown os", "version: 2\nbuild:\n  os: debian-12\n", 1},
		{"unknown tool", "version: 2\nbuild:\n  os: ubuntu-22.04\n  tools:\n    ruby: \"3.2\"\n", 1},
		{"unquoted float version", "version: 2\nbuild:\n  os: ubuntu-22.04\n  tools:\n    python: bogus version\n", 1},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			m := mustParse(t, tc.yaml)
			issues := issuesFor(t, &BuildEnvironmentRule{}, m)
			errs := 0
			for _, issue := range issues {
				if issue.Severity == SeverityError {
					errs++
				}
			}
			assert.Equal(t, tc.errors, errs)
		})
	}
}

func TestBuilderRuleMutualExclusion(t *testing.T) {
	m := mustParse(t, "version: 2\nsphinx:\n  builder: html\nmkdocs:\n  configuration: mkdocs.yml\n")
	issues := issuesFor(t, &BuilderRule{}, m)
	require.Len(t, issues, 1)
	assert.Equal(t, SeverityError, issues[0].Severity)
	assert.Contains(t, issues[0].Message, "mutually exclusive")
}

func TestBuilderRuleLegacySpelling(t *testing.T) {
	m := mustParse(t, "version: 2\nsphinx:\n  builder: htmldir\n")
	issues := issuesFor(t, &BuilderRule{}, m)
	require.Len(t, issues, 1)
	assert.Equal(t, SeverityWarning, issues[0].Severity)
}

func TestSubmodulesRule(t *testing.T) {
	m := mustParse(t, "version: 2\nsubmodules:\n  include:\n    - vendored\n  exclude:\n    - other\n")
	issues := issuesFor(t, &SubmodulesRule{}, m)
	require.Len(t, issues, 1)
	assert.Equal(t, SeverityError, issues[0].Severity)

	m = mustParse(t, "version: 2\nsubmodules:\n  exclude: all\n  recursive: true\n")
	issues = issuesFor(t, &SubmodulesRule{}, m)
	require.Len(t, issues, 1)
	assert.Equal(t, SeverityWarning, issues[0].Severity)
}

func TestInstallStepsRuleShape(t *testing.T) {
	m := mustParse(t, `version: 2
python:
  install:
    - requirements: doc/requirements.txt
      path: .
    - {}
    - path: .
      method: wheel
`)
	issues := issuesFor(t, &InstallStepsRule{}, m)
	require.Len(t, issues, 3)
	assert.Contains(t, issues[0].Message, "both requirements and path")
	assert.Contains(t, issues[1].Message, "neither")
	assert.Contains(t, issues[2].Message, `unknown method "wheel"`)
}

func TestUnknownTopLevelKeysWarn(t *testing.T) {
	m := mustParse(t, "version: 2\nsphynx:\n  builder: html\n")
	issues := issuesFor(t, &SchemaVersionRule{}, m)
	require.Len(t, issues, 1)
	assert.Equal(t, SeverityWarning, issues[0].Severity)
	assert.Contains(t, issues[0].Message, "sphynx")
}

package manifest

import "strings"

// SchemaVersion is the only build manifest schema version the hosted
// service (and therefore docconf) accepts.
const SchemaVersion = 2

// Manifest is the typed model of a .readthedocs.yml build manifest
// (schema version 2). Optional sections are pointers so that "absent"
// and "present but empty" stay distinguishable for the lint rules.
type Manifest struct {
	Version    int                `yaml:"version"`
	Formats    FormatList         `yaml:"formats,omitempty"`
	Build      *BuildSection      `yaml:"build,omitempty"`
	Sphinx     *SphinxSection     `yaml:"sphinx,omitempty"`
	MkDocs     *MkDocsSection     `yaml:"mkdocs,omitempty"`
	Python     *PythonSection     `yaml:"python,omitempty"`
	Conda      *CondaSection      `yaml:"conda,omitempty"`
	Submodules *SubmodulesSection `yaml:"submodules,omitempty"`
	Search     *SearchSection     `yaml:"search,omitempty"`

	// Path the manifest was loaded from (not part of the YAML).
	Path string `yaml:"-"`
	// UnknownKeys lists top-level keys the schema does not define.
	// They are surfaced as lint warnings rather than parse errors.
	UnknownKeys []string `yaml:"-"`
}

// Format is an output artifact format (pdf, epub, htmlzip).
type Format string

const (
	FormatPDF     Format = "pdf"
	FormatEPUB    Format = "epub"
	FormatHTMLZip Format = "htmlzip"
)

// AllFormats lists every artifact format the hosted service can produce.
var AllFormats = []Format{FormatHTMLZip, FormatPDF, FormatEPUB}

// NormalizeFormat canonicalizes a format string, returning empty if unknown.
func NormalizeFormat(raw string) Format {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case string(FormatPDF):
		return FormatPDF
	case string(FormatEPUB):
		return FormatEPUB
	case string(FormatHTMLZip):
		return FormatHTMLZip
	default:
		return ""
	}
}

// FormatList unmarshals from either a sequence of formats or the scalar
// "all", which expands to every supported format.
type FormatList []Format

// UnmarshalYAML implements yaml.Unmarshaler for the list-or-"all" form.
func (f *FormatList) UnmarshalYAML(unmarshal func(any) error) error {
	var s string
	if err := unmarshal(&s); err == nil {
		if strings.EqualFold(strings.TrimSpace(s), "all") {
			*f = append(FormatList(nil), AllFormats...)
			return nil
		}
		*f = FormatList{Format(s)}
		return nil
	}
	var raw []string
	if err := unmarshal(&raw); err != nil {
		return err
	}
	out := make(FormatList, 0, len(raw))
	for _, r := range raw {
		out = append(out, Format(r))
	}
	*f = out
	return nil
}

// BuildSection describes the build environment: OS image, toolchain
// versions, extra apt packages, and user-defined job hooks.
type BuildSection struct {
	OS          string              `yaml:"os"`
	Tools       map[string]string   `yaml:"tools,omitempty"`
	AptPackages []string            `yaml:"apt_packages,omitempty"`
	Jobs        map[string][]string `yaml:"jobs,omitempty"`
	Commands    []string            `yaml:"commands,omitempty"`
}

// SphinxSection configures the Sphinx documentation build.
type SphinxSection struct {
	Builder       SphinxBuilder `yaml:"builder,omitempty"`
	Configuration string        `yaml:"configuration,omitempty"`
	FailOnWarning bool          `yaml:"fail_on_warning,omitempty"`
}

// SphinxBuilder enumerates the builders the hosted service supports.
type SphinxBuilder string

const (
	BuilderHTML       SphinxBuilder = "html"
	BuilderDirHTML    SphinxBuilder = "dirhtml"
	BuilderSingleHTML SphinxBuilder = "singlehtml"
)

// NormalizeSphinxBuilder canonicalizes a builder string. The legacy
// "htmldir" spelling maps to dirhtml. Unknown builders return "".
func NormalizeSphinxBuilder(raw string) SphinxBuilder {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case string(BuilderHTML):
		return BuilderHTML
	case string(BuilderDirHTML), "htmldir":
		return BuilderDirHTML
	case string(BuilderSingleHTML):
		return BuilderSingleHTML
	default:
		return ""
	}
}

// MkDocsSection configures an MkDocs build (mutually exclusive with sphinx).
type MkDocsSection struct {
	Configuration string `yaml:"configuration,omitempty"`
	FailOnWarning bool   `yaml:"fail_on_warning,omitempty"`
}

// PythonSection lists the install steps run before the documentation build.
type PythonSection struct {
	Install []InstallStep `yaml:"install,omitempty"`
}

// InstallStep is one entry of python.install. Exactly one of Requirements
// or Path is expected per step.
type InstallStep struct {
	// Requirements references a requirements manifest file.
	Requirements string `yaml:"requirements,omitempty"`
	// Path installs a local package (usually "."), via Method.
	Path              string   `yaml:"path,omitempty"`
	Method            string   `yaml:"method,omitempty"` // pip|setuptools
	ExtraRequirements []string `yaml:"extra_requirements,omitempty"`
}

// IsRequirements reports whether the step references a requirements manifest.
func (s InstallStep) IsRequirements() bool { return s.Requirements != "" }

// CondaSection points at a conda environment file.
type CondaSection struct {
	Environment string `yaml:"environment"`
}

// SubmodulesSection controls git submodule checkout during the build.
// Include and Exclude accept either a list of paths or the string "all";
// the scalar form is preserved via the All flag on SubmoduleList.
type SubmodulesSection struct {
	Include   SubmoduleList `yaml:"include,omitempty"`
	Exclude   SubmoduleList `yaml:"exclude,omitempty"`
	Recursive bool          `yaml:"recursive,omitempty"`
}

// SubmoduleList unmarshals from either a sequence of paths or the
// scalar "all".
type SubmoduleList struct {
	All   bool
	Paths []string
}

// UnmarshalYAML implements yaml.Unmarshaler for the list-or-"all" form.
func (l *SubmoduleList) UnmarshalYAML(unmarshal func(any) error) error {
	var s string
	if err := unmarshal(&s); err == nil {
		if strings.EqualFold(strings.TrimSpace(s), "all") {
			l.All = true
			return nil
		}
		// A bare scalar that isn't "all" is treated as a single path.
		l.Paths = []string{s}
		return nil
	}
	var paths []string
	if err := unmarshal(&paths); err != nil {
		return err
	}
	l.Paths = paths
	return nil
}

// IsZero reports whether the list selects nothing.
func (l SubmoduleList) IsZero() bool { return !l.All && len(l.Paths) == 0 }

// SearchSection tunes server-side search indexing: per-glob ranking
// weights and globs excluded from indexing entirely.
type SearchSection struct {
	Ranking map[string]int `yaml:"ranking,omitempty"`
	Ignore  []string       `yaml:"ignore,omitempty"`
}

// RankingWeightMin and RankingWeightMax bound valid search ranking weights.
const (
	RankingWeightMin = -10
	RankingWeightMax = 10
)

// HasSphinx reports whether the manifest declares a Sphinx build.
func (m *Manifest) HasSphinx() bool { return m.Sphinx != nil }

// HasMkDocs reports whether the manifest declares an MkDocs build.
func (m *Manifest) HasMkDocs() bool { return m.MkDocs != nil }

// RequirementsRefs returns the requirements manifest paths referenced by
// python.install, in declaration order.
func (m *Manifest) RequirementsRefs() []string {
	if m.Python == nil {
		return nil
	}
	var refs []string
	for _, step := range m.Python.Install {
		if step.IsRequirements() {
			refs = append(refs, step.Requirements)
		}
	}
	return refs
}

package manifest

// defaultSearchIgnore mirrors the glob set the hosted service excludes
// from search indexing when no explicit ignore list is given.
var defaultSearchIgnore = []string{
	"search.html",
	"search/index.html",
	"404.html",
	"404/index.html",
}

// applyDefaults resolves schema defaults the same way the hosted service
// does when it reads the manifest. It never overrides explicit values.
func applyDefaults(m *Manifest) {
	if m.Sphinx != nil {
		if m.Sphinx.Builder == "" {
			m.Sphinx.Builder = BuilderHTML
		}
		if m.Sphinx.Configuration == "" {
			m.Sphinx.Configuration = "conf.py"
		}
	}
	if m.MkDocs != nil && m.MkDocs.Configuration == "" {
		m.MkDocs.Configuration = "mkdocs.yml"
	}
	for i := range installSteps(m) {
		step := &m.Python.Install[i]
		if step.Path != "" && step.Method == "" {
			step.Method = "pip"
		}
	}
	if m.Search == nil {
		m.Search = &SearchSection{}
	}
	if m.Search.Ignore == nil {
		m.Search.Ignore = append([]string(nil), defaultSearchIgnore...)
	}
}

func installSteps(m *Manifest) []InstallStep {
	if m.Python == nil {
		return nil
	}
	return m.Python.Install
}

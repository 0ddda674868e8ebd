package manifest

// Manifest is a parsed dependency manifest.
type Manifest struct {
	Path         string
	Requirements []Requirement
	Options      []Option
	Issues       []Issue
}

// Requirement is one package requirement line, e.g.
// "plotly[express]>=5.0 ; python_version >= '3.8'".
type Requirement struct {
	Name      string
	Extras    []string
	Specifier string
	Marker    string
	// URL is set for direct references ("name @ https://...").
	URL  string
	Line int
}

// Option is a pip option line such as "-r base.txt" or "--index-url ...".
type Option struct {
	Flag  string
	Value string
	Line  int
}

// Issue is a line that could not be understood.
type Issue struct {
	Line    int
	Text    string
	Message string
}

// Valid reports whether the manifest parsed without issues.
func (m *Manifest) Valid() bool {
	return len(m.Issues) == 0
}

// Names returns the package names in declaration order.
func (m *Manifest) Names() []string {
	names := make([]string, 0, len(m.Requirements))
	for _, r := range m.Requirements {
		names = append(names, r.Name)
	}
	return names
}

// Includes returns the paths referenced by -r/--requirement and
// -c/--constraint options.
func (m *Manifest) Includes() []string {
	var paths []string
	for _, o := range m.Options {
		switch o.Flag {
		case "-r", "--requirement", "-c", "--constraint":
			paths = append(paths, o.Value)
		}
	}
	return paths
}

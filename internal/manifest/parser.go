package manifest

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"regexp"
	"strings"
)

var (
	requirementPattern = regexp.MustCompile(`^([A-Za-z0-9][A-Za-z0-9._-]*)\s*(\[[^\]]*\])?\s*(.*)$`)
	specifierPattern   = regexp.MustCompile(`^(===|==|~=|!=|>=|<=|>|<)\s*[^\s,]+(\s*,\s*(===|==|~=|!=|>=|<=|>|<)\s*[^\s,]+)*$`)
	separatorPattern   = regexp.MustCompile(`[-_.]+`)
)

// ParseFile reads and parses the dependency manifest at path.
func ParseFile(path string) (*Manifest, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening dependency manifest %s: %w", path, err)
	}
	defer f.Close()

	m, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("parsing dependency manifest %s: %w", path, err)
	}
	m.Path = path
	return m, nil
}

// Parse reads a requirements file from r. Malformed lines are collected as
// Issues rather than aborting, so a diagnostic can report all of them.
func Parse(r io.Reader) (*Manifest, error) {
	m := &Manifest{}
	scanner := bufio.NewScanner(r)

	var (
		pending   strings.Builder
		startLine int
		lineNo    int
	)
	for scanner.Scan() {
		lineNo++
		text := scanner.Text()
		if pending.Len() == 0 {
			startLine = lineNo
		}
		if strings.HasSuffix(text, `\`) {
			pending.WriteString(strings.TrimSuffix(text, `\`))
			continue
		}
		pending.WriteString(text)
		m.addLine(pending.String(), startLine)
		pending.Reset()
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	if pending.Len() > 0 {
		m.addLine(pending.String(), startLine)
	}
	return m, nil
}

func (m *Manifest) addLine(raw string, line int) {
	text := strings.TrimSpace(stripComment(raw))
	if text == "" {
		return
	}

	if strings.HasPrefix(text, "-") {
		m.Options = append(m.Options, parseOption(text, line))
		return
	}

	if isReference(text) {
		m.Requirements = append(m.Requirements, Requirement{
			Name: eggName(text),
			URL:  text,
			Line: line,
		})
		return
	}

	req, err := parseRequirement(text)
	if err != nil {
		m.Issues = append(m.Issues, Issue{Line: line, Text: text, Message: err.Error()})
		return
	}
	req.Line = line
	m.Requirements = append(m.Requirements, req)
}

func parseRequirement(text string) (Requirement, error) {
	var req Requirement

	body, marker, _ := strings.Cut(text, ";")
	req.Marker = strings.TrimSpace(marker)
	body = strings.TrimSpace(body)

	if name, url, ok := strings.Cut(body, " @ "); ok {
		req.Name = strings.TrimSpace(name)
		req.URL = strings.TrimSpace(url)
		if req.Name == "" || req.URL == "" {
			return req, fmt.Errorf("malformed direct reference")
		}
		return req, nil
	}

	match := requirementPattern.FindStringSubmatch(body)
	if match == nil {
		return req, fmt.Errorf("not a valid requirement")
	}
	req.Name = match[1]
	if match[2] != "" {
		for _, e := range strings.Split(strings.Trim(match[2], "[]"), ",") {
			if e = strings.TrimSpace(e); e != "" {
				req.Extras = append(req.Extras, e)
			}
		}
	}

	spec := strings.TrimSpace(match[3])
	if spec != "" && !specifierPattern.MatchString(spec) {
		return req, fmt.Errorf("invalid version specifier %q", spec)
	}
	req.Specifier = spec
	return req, nil
}

func parseOption(text string, line int) Option {
	flag := text
	value := ""
	if i := strings.IndexAny(text, " \t="); i >= 0 {
		flag = text[:i]
		value = strings.TrimSpace(text[i+1:])
	}
	// Short flags may be glued to their value: "-rbase.txt".
	if len(flag) > 2 && flag[1] != '-' {
		value = strings.TrimSpace(flag[2:] + " " + value)
		flag = flag[:2]
	}
	return Option{Flag: flag, Value: value, Line: line}
}

// stripComment removes a '#' comment that starts the line or follows whitespace.
func stripComment(s string) string {
	if strings.HasPrefix(strings.TrimSpace(s), "#") {
		return ""
	}
	for i := 1; i < len(s); i++ {
		if s[i] == '#' && (s[i-1] == ' ' || s[i-1] == '\t') {
			return s[:i]
		}
	}
	return s
}

func isReference(text string) bool {
	if strings.Contains(text, " @ ") {
		return false
	}
	return strings.Contains(text, "://") ||
		strings.HasPrefix(text, ".") ||
		strings.HasPrefix(text, "/") ||
		strings.HasPrefix(text, "git+")
}

// eggName extracts the project name from a "#egg=name" URL fragment.
func eggName(ref string) string {
	if _, frag, ok := strings.Cut(ref, "#egg="); ok {
		name, _, _ := strings.Cut(frag, "&")
		return name
	}
	return ""
}

// NormalizeName returns the canonical form of a package name, so that
// "Streamlit", "streamlit" and "stream_lit" style variants compare equal.
func NormalizeName(name string) string {
	return strings.ToLower(separatorPattern.ReplaceAllString(name, "-"))
}

// Has reports whether the manifest declares the named package.
func (m *Manifest) Has(name string) bool {
	want := NormalizeName(name)
	for _, r := range m.Requirements {
		if r.Name != "" && NormalizeName(r.Name) == want {
			return true
		}
	}
	return false
}

package batch

import (
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Manifest names a set of records to analyze together.
type Manifest struct {
	Name        string   `yaml:"name"`
	Description string   `yaml:"description"`
	Records     []string `yaml:"records"`
	RankBy      string   `yaml:"rank_by"`

	dir string
}

func LoadManifest(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "reading manifest")
	}

	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, errors.Wrapf(err, "parsing manifest %s", path)
	}
	if len(m.Records) == 0 {
		return nil, errors.Errorf("manifest %s lists no records", path)
	}
	m.dir = filepath.Dir(path)
	return &m, nil
}

// Paths expands every record pattern, relative ones against the
// manifest's directory. Each file appears once, in pattern order.
func (m *Manifest) Paths() ([]string, error) {
	var out []string
	seen := make(map[string]bool)
	for _, pattern := range m.Records {
		if !filepath.IsAbs(pattern) {
			pattern = filepath.Join(m.dir, pattern)
		}
		matches, err := filepath.Glob(pattern)
		if err != nil {
			return nil, errors.Wrapf(err, "record pattern %q", pattern)
		}
		if len(matches) == 0 {
			return nil, errors.Errorf("record pattern %q matched nothing", pattern)
		}
		for _, p := range matches {
			if !seen[p] {
				seen[p] = true
				out = append(out, p)
			}
		}
	}
	return out, nil
}

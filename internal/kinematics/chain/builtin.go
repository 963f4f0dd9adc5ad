package chain

import (
	"embed"
	"path"
	"sort"
	"strings"

	"github.com/pkg/errors"
)

//go:embed robots/*.yaml
var robots embed.FS

// BuiltinPrefix marks a robot reference that names an embedded description
// instead of a file.
const BuiltinPrefix = "builtin:"

func Builtin(name string) (*Robot, error) {
	data, err := robots.ReadFile(path.Join("robots", name+".yaml"))
	if err != nil {
		return nil, errors.Errorf("no builtin robot %q (have %s)", name, strings.Join(Builtins(), ", "))
	}
	return Parse(data)
}

func Builtins() []string {
	entries, _ := robots.ReadDir("robots")
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, strings.TrimSuffix(e.Name(), ".yaml"))
	}
	sort.Strings(names)
	return names
}

// Open resolves "builtin:<name>" to an embedded description and anything
// else to a file path.
func Open(ref string) (*Robot, error) {
	if name, ok := strings.CutPrefix(ref, BuiltinPrefix); ok {
		return Builtin(name)
	}
	return Load(ref)
}

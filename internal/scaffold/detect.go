package scaffold

import (
	"path/filepath"
	"sort"

	"github.com/samber/lo"
)

type detector struct {
	projectType string
	extension   string
	manifest    string
}

//nolint:gochecknoglobals // static rule table
var detectors = []detector{
	{projectType: TypePython, extension: ".py", manifest: "requirements.txt"},
	{projectType: TypeNode, extension: ".js", manifest: "package.json"},
	{projectType: TypeRust, extension: ".rs", manifest: "Cargo.toml"},
}

// detectTypes classifies a top-level directory listing. The result is sorted
// and never empty.
func detectTypes(names []string) []string {
	types := lo.FilterMap(detectors, func(d detector, _ int) (string, bool) {
		return d.projectType, lo.ContainsBy(names, func(name string) bool {
			return name == d.manifest || filepath.Ext(name) == d.extension
		})
	})

	if len(types) == 0 {
		return []string{TypeGeneral}
	}

	sort.Strings(types)

	return types
}

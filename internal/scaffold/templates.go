package scaffold

import (
	"embed"
	"fmt"
	"strings"
)

const (
	TypePython  = "python"
	TypeNode    = "node"
	TypeRust    = "rust"
	TypeGeneral = "general"
)

//go:embed templates/*.gitignore
var templatesFS embed.FS

// builtinTemplate returns the built-in ignore template for a project type,
// falling back to the general template for unknown types.
func builtinTemplate(projectType string) string {
	data, err := templatesFS.ReadFile(fmt.Sprintf("templates/%s.gitignore", projectType))
	if err != nil {
		data, _ = templatesFS.ReadFile("templates/" + TypeGeneral + ".gitignore")
	}

	return strings.TrimSpace(string(data))
}

// Render concatenates the templates of every type with a blank line between them.
// Overlapping patterns are kept as is.
func Render(types []string) string {
	parts := make([]string, 0, len(types))
	for _, t := range types {
		parts = append(parts, builtinTemplate(t))
	}

	return strings.TrimSpace(strings.Join(parts, "\n\n"))
}

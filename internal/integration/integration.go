// Package integration provides the embedded sample configuration file.
package integration

import (
	"bytes"
	_ "embed"
	"os/exec"
	"path/filepath"
	"text/template"

	"github.com/idelchi/rdpro/internal/unlink"
)

// Properties contains the rdpro.properties template.
//
//go:embed rdpro.properties.tmpl
var Properties string

// toolNames lists the executable names searched on PATH per platform.
//
//nolint:gochecknoglobals // Config constant
var toolNames = map[unlink.Platform][]string{
	unlink.Windows: {"linkd.exe", "linkd"},
	unlink.Linux:   {"linkd", "linkd.exe"},
	unlink.Mac:     {"hunlink"},
}

// findTool returns the unlink tool found on PATH, or the resolver's default.
func findTool(resolver *unlink.Resolver) string {
	for _, name := range toolNames[resolver.Platform] {
		if path, err := exec.LookPath(name); err == nil {
			return filepath.ToSlash(path)
		}
	}

	return resolver.Defaults[resolver.Platform]
}

// Render renders the sample rdpro.properties for the given resolver.
func Render(resolver *unlink.Resolver) (string, error) {
	tool := findTool(resolver)

	invocation := unlink.Template{Platform: resolver.Platform, Tool: tool, Args: unlink.ArgsFor(resolver.Platform)}

	tmpl, err := template.New("rdpro.properties").Parse(Properties)
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, map[string]any{
		"Config":     filepath.ToSlash(resolver.ConfigPath()),
		"Platform":   resolver.Platform,
		"Invocation": invocation.String(),
		"Key":        unlink.ToolPathKey,
		"Tool":       tool,
	}); err != nil {
		return "", err
	}

	return buf.String(), nil
}

package unlink

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"

	"github.com/magiconair/properties"
)

// Platform is the operating system family the unlink tool is resolved for.
type Platform int

const (
	// Windows hosts use linkd.exe.
	Windows Platform = iota
	// Linux hosts share the Windows invocation form.
	Linux
	// Mac hosts use hunlink.
	Mac
)

// String returns the lower-case name of the platform.
func (p Platform) String() string {
	switch p {
	case Windows:
		return "windows"
	case Linux:
		return "linux"
	case Mac:
		return "mac"
	default:
		return "unknown"
	}
}

const (
	// ConfigFileName is the per-user properties file, looked up in the home directory.
	ConfigFileName = "rdpro.properties"
	// ToolPathKey is the property overriding the default tool path.
	ToolPathKey = "pathToUnlinkDirExecutable"
	// Slot is the placeholder substituted with the target directory.
	Slot = "%s"
)

// DefaultLinkdPath is the default tool location on Windows and Linux hosts.
const DefaultLinkdPath = "C:/bin/rdpro/tools/linkd.exe"

//nolint:gochecknoglobals // Detected once per process
var detectOnce = sync.OnceValue(func() Platform {
	return platformFor(runtime.GOOS)
})

// DetectPlatform returns the platform family of the running host.
func DetectPlatform() Platform {
	return detectOnce()
}

// platformFor maps a GOOS value to a platform family.
// Everything that is neither darwin nor windows is treated as Linux.
func platformFor(goos string) Platform {
	switch goos {
	case "darwin", "ios":
		return Mac
	case "windows":
		return Windows
	default:
		return Linux
	}
}

// DefaultToolPaths returns the default unlink tool path for each platform.
func DefaultToolPaths(home string) map[Platform]string {
	return map[Platform]string{
		Windows: DefaultLinkdPath,
		Linux:   DefaultLinkdPath,
		Mac:     filepath.ToSlash(filepath.Join(home, "rdpro", "tools", "hunlink")),
	}
}

// Template is a resolved invocation of the unlink tool.
// Args holds exactly one Slot element, replaced by the target directory.
type Template struct {
	// Platform is the family the template was built for.
	Platform Platform
	// Tool is the path of the unlink executable.
	Tool string
	// Args are the arguments following Tool.
	Args []string
}

// String renders the template with the slot left in place, e.g. "linkd.exe %s /D".
func (t Template) String() string {
	return strings.Join(append([]string{t.Tool}, t.Args...), " ")
}

// Format returns the command line for dir.
func (t Template) Format(dir string) string {
	return strings.Join(t.Argv(dir), " ")
}

// Argv returns the command and its arguments with dir substituted into the slot.
// dir is kept as a single argument even when it contains spaces.
func (t Template) Argv(dir string) []string {
	argv := make([]string, 0, len(t.Args)+1)
	argv = append(argv, t.Tool)

	for _, arg := range t.Args {
		if arg == Slot {
			arg = dir
		}

		argv = append(argv, arg)
	}

	return argv
}

// Resolver builds unlink templates for one platform.
type Resolver struct {
	// Platform selects the default tool and the invocation form.
	Platform Platform
	// Home is the directory holding the per-user properties file.
	Home string
	// Defaults maps each platform to its default tool path.
	Defaults map[Platform]string
}

// NewResolver creates a resolver with explicit settings.
func NewResolver(platform Platform, home string, defaults map[Platform]string) *Resolver {
	return &Resolver{
		Platform: platform,
		Home:     home,
		Defaults: defaults,
	}
}

// NewHostResolver creates a resolver for the running host and user.
func NewHostResolver() (*Resolver, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("resolving home directory: %w", err)
	}

	return NewResolver(DetectPlatform(), home, DefaultToolPaths(home)), nil
}

// ConfigPath returns the location of the per-user properties file.
func (r *Resolver) ConfigPath() string {
	return filepath.Join(r.Home, ConfigFileName)
}

// ToolPath returns the configured tool path, falling back to the platform default.
// A missing or unreadable properties file is not an error. Values are taken literally,
// without ${...} expansion.
func (r *Resolver) ToolPath() string {
	loader := properties.Loader{Encoding: properties.UTF8, DisableExpansion: true}

	props, err := loader.LoadFile(r.ConfigPath())
	if err == nil {
		if value, ok := props.Get(ToolPathKey); ok && strings.TrimSpace(value) != "" {
			return strings.TrimSpace(value)
		}
	}

	return r.Defaults[r.Platform]
}

// Resolve builds the unlink template.
// It fails with a *ConfigurationError when the tool does not exist.
func (r *Resolver) Resolve() (Template, error) {
	tool := r.ToolPath()

	if tool == "" {
		return Template{}, &ConfigurationError{Path: tool}
	}

	if _, err := os.Stat(tool); err != nil {
		return Template{}, &ConfigurationError{Path: tool, Err: err}
	}

	return Template{
		Platform: r.Platform,
		Tool:     tool,
		Args:     ArgsFor(r.Platform),
	}, nil
}

// ArgsFor returns the argument template of the unlink tool on platform p.
// Slot marks the directory.
func ArgsFor(p Platform) []string {
	if p == Mac {
		return []string{Slot}
	}

	return []string{Slot, "/D"}
}

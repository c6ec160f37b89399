package rdpro

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
)

// ErrProtectedPath is returned for directories rdpro refuses to remove.
var ErrProtectedPath = errors.New("protected path")

// ProtectedPaths contains system directories that are never removed, nor any of their parents.
//
//nolint:gochecknoglobals // Config constant
var ProtectedPaths = []string{
	"C:\\Windows",
	"C:\\Program Files",
	"C:\\Program Files (x86)",
	"C:\\ProgramData",
	"C:\\Users",
	"/bin",
	"/sbin",
	"/usr",
	"/lib",
	"/lib64",
	"/etc",
	"/boot",
	"/sys",
	"/proc",
	"/dev",
	"/System",
	"/Applications",
}

// CheckPath returns an error wrapping ErrProtectedPath when path is a file-system root,
// the user's home directory, a protected system directory or a parent of one.
func CheckPath(path string) error {
	absPath, err := filepath.Abs(filepath.Clean(path))
	if err != nil {
		return fmt.Errorf("resolving absolute path %q: %w", path, err)
	}

	if isDriveRoot(absPath) {
		return fmt.Errorf("%w: %s is a file-system root", ErrProtectedPath, absPath)
	}

	if home, err := os.UserHomeDir(); err == nil && samePath(absPath, home) {
		return fmt.Errorf("%w: %s is the home directory", ErrProtectedPath, absPath)
	}

	for _, protected := range ProtectedPaths {
		// Entries of the other OS family are not absolute here.
		if !filepath.IsAbs(protected) {
			continue
		}

		if samePath(absPath, protected) || isParentOf(absPath, protected) {
			return fmt.Errorf("%w: %s contains system directory %s", ErrProtectedPath, absPath, protected)
		}
	}

	return nil
}

// isDriveRoot checks if a path is a drive root (e.g. C:\ or /).
func isDriveRoot(path string) bool {
	clean := filepath.Clean(path)

	return filepath.Dir(clean) == clean
}

// caseInsensitive reports whether the default file system of goos ignores case.
func caseInsensitive(goos string) bool {
	return goos == "windows" || goos == "darwin"
}

// samePath compares two cleaned paths, ignoring case only where the host file system does.
func samePath(a, b string) bool {
	a, b = filepath.Clean(a), filepath.Clean(b)

	if caseInsensitive(runtime.GOOS) {
		return strings.EqualFold(a, b)
	}

	return a == b
}

// isParentOf reports whether parent is a strict ancestor of child.
func isParentOf(parent, child string) bool {
	rel, err := filepath.Rel(parent, child)
	if err != nil {
		return false
	}

	return rel != "." && rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}

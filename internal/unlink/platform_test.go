package unlink

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"pgregory.net/rapid"
)

// touch creates an empty file at path, including its parent directories.
func touch(t *testing.T, path string) string {
	t.Helper()

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("creating parent of %s: %v", path, err)
	}

	if err := os.WriteFile(path, nil, 0o755); err != nil {
		t.Fatalf("creating %s: %v", path, err)
	}

	return path
}

func TestPlatformFor(t *testing.T) {
	tests := []struct {
		goos     string
		expected Platform
	}{
		{"darwin", Mac},
		{"windows", Windows},
		{"linux", Linux},
		{"freebsd", Linux},
	}

	for _, test := range tests {
		if got := platformFor(test.goos); got != test.expected {
			t.Errorf("platformFor(%q) = %v, expected %v", test.goos, got, test.expected)
		}
	}
}

func TestDetectPlatformIsStable(t *testing.T) {
	if DetectPlatform() != DetectPlatform() {
		t.Error("DetectPlatform() returned different values")
	}
}

func TestResolve_MacDefault(t *testing.T) {
	home := t.TempDir()
	defaults := DefaultToolPaths(home)
	tool := touch(t, defaults[Mac])

	tmpl, err := NewResolver(Mac, home, defaults).Resolve()
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}

	if want := tool + " %s"; tmpl.String() != want {
		t.Errorf("template = %q, expected %q", tmpl.String(), want)
	}

	if strings.HasSuffix(tmpl.String(), "/D") {
		t.Errorf("mac template %q must not end with /D", tmpl.String())
	}
}

func TestResolve_MacDefaultMissing(t *testing.T) {
	home := t.TempDir()
	defaults := DefaultToolPaths(home)

	_, err := NewResolver(Mac, home, defaults).Resolve()

	var cfgErr *ConfigurationError
	if !errors.As(err, &cfgErr) {
		t.Fatalf("Resolve() error = %v, expected *ConfigurationError", err)
	}

	if cfgErr.Path != defaults[Mac] {
		t.Errorf("ConfigurationError.Path = %q, expected %q", cfgErr.Path, defaults[Mac])
	}

	if !strings.Contains(err.Error(), defaults[Mac]) {
		t.Errorf("error %q does not name the path", err.Error())
	}
}

func TestResolve_SlashDFamilies(t *testing.T) {
	home := t.TempDir()
	tool := touch(t, filepath.Join(home, "tools", "linkd.exe"))
	defaults := map[Platform]string{Windows: tool, Linux: tool}

	for _, platform := range []Platform{Windows, Linux} {
		tmpl, err := NewResolver(platform, home, defaults).Resolve()
		if err != nil {
			t.Fatalf("%v: Resolve() error = %v", platform, err)
		}

		if !strings.HasSuffix(tmpl.String(), "/D") {
			t.Errorf("%v: template %q does not end with /D", platform, tmpl.String())
		}

		if n := strings.Count(tmpl.String(), Slot); n != 1 {
			t.Errorf("%v: template %q has %d slots, expected 1", platform, tmpl.String(), n)
		}
	}
}

func TestResolve_PropertiesOverride(t *testing.T) {
	home := t.TempDir()
	tool := filepath.ToSlash(touch(t, filepath.Join(home, "custom", "hunlink")))

	config := "# rdpro\n" + ToolPathKey + "=" + tool + "\n"
	if err := os.WriteFile(filepath.Join(home, ConfigFileName), []byte(config), 0o644); err != nil {
		t.Fatal(err)
	}

	r := NewResolver(Mac, home, DefaultToolPaths(home))

	tmpl, err := r.Resolve()
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}

	if tmpl.Tool != tool {
		t.Errorf("Tool = %q, expected override %q", tmpl.Tool, tool)
	}
}

func TestResolve_OverrideMissing(t *testing.T) {
	home := t.TempDir()
	missing := filepath.ToSlash(filepath.Join(home, "nope", "linkd.exe"))

	config := ToolPathKey + "=" + missing + "\n"
	if err := os.WriteFile(filepath.Join(home, ConfigFileName), []byte(config), 0o644); err != nil {
		t.Fatal(err)
	}

	_, err := NewResolver(Windows, home, DefaultToolPaths(home)).Resolve()

	var cfgErr *ConfigurationError
	if !errors.As(err, &cfgErr) || cfgErr.Path != missing {
		t.Fatalf("Resolve() error = %v, expected ConfigurationError for %q", err, missing)
	}
}

func TestResolve_ValueTakenLiterally(t *testing.T) {
	home := t.TempDir()
	tool := filepath.ToSlash(touch(t, filepath.Join(home, "${HOME}", "hunlink")))

	config := ToolPathKey + "=" + tool + "\n"
	if err := os.WriteFile(filepath.Join(home, ConfigFileName), []byte(config), 0o644); err != nil {
		t.Fatal(err)
	}

	r := NewResolver(Mac, home, DefaultToolPaths(home))

	if got := r.ToolPath(); got != tool {
		t.Errorf("ToolPath() = %q, expected %q", got, tool)
	}

	if _, err := r.Resolve(); err != nil {
		t.Errorf("Resolve() error = %v", err)
	}
}

func TestArgsFor(t *testing.T) {
	tests := []struct {
		platform Platform
		expected []string
	}{
		{Windows, []string{Slot, "/D"}},
		{Linux, []string{Slot, "/D"}},
		{Mac, []string{Slot}},
	}

	for _, test := range tests {
		got := ArgsFor(test.platform)
		if strings.Join(got, " ") != strings.Join(test.expected, " ") {
			t.Errorf("ArgsFor(%s) = %q, expected %q", test.platform, got, test.expected)
		}
	}
}

func TestResolve_UnreadableConfigFallsBack(t *testing.T) {
	home := t.TempDir()
	defaults := DefaultToolPaths(home)
	tool := touch(t, defaults[Mac])

	// A directory in place of the properties file cannot be read.
	if err := os.Mkdir(filepath.Join(home, ConfigFileName), 0o755); err != nil {
		t.Fatal(err)
	}

	tmpl, err := NewResolver(Mac, home, defaults).Resolve()
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}

	if tmpl.Tool != tool {
		t.Errorf("Tool = %q, expected default %q", tmpl.Tool, tool)
	}
}

func TestTemplate_Format(t *testing.T) {
	tmpl := Template{Platform: Windows, Tool: "C:/bin/rdpro/tools/linkd.exe", Args: []string{Slot, "/D"}}

	if got, want := tmpl.Format("S:/webapps/learning"), "C:/bin/rdpro/tools/linkd.exe S:/webapps/learning /D"; got != want {
		t.Errorf("Format() = %q, expected %q", got, want)
	}
}

func TestTemplate_ArgvKeepsDirectoryWhole(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		dir := rapid.StringMatching(`[a-zA-Z0-9 _./-]{1,40}`).Draw(rt, "dir")
		mac := rapid.Bool().Draw(rt, "mac")

		platform := Windows
		if mac {
			platform = Mac
		}

		tmpl := Template{Platform: platform, Tool: "/opt/hunlink", Args: ArgsFor(platform)}

		argv := tmpl.Argv(dir)
		if len(argv) != len(tmpl.Args)+1 {
			rt.Fatalf("Argv(%q) = %q, unexpected length", dir, argv)
		}

		if argv[1] != dir {
			rt.Fatalf("Argv(%q)[1] = %q, expected the directory", dir, argv[1])
		}
	})
}

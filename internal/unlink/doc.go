// Package unlink resolves and invokes the external hard-link removal tool.
//
// The tool (linkd.exe on Windows and Linux, hunlink on macOS) detaches a directory
// from its hard-link tree, which is far cheaper than deleting its contents one by one.
// The tool location defaults per platform and can be overridden with the
// pathToUnlinkDirExecutable key of ~/rdpro.properties.
package unlink
